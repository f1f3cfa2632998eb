package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAppliesEveryStep(t *testing.T) {
	var trail []string
	step := func(name string) Step {
		return Step{
			Name: name,
			Do:   func(context.Context) error { trail = append(trail, "do "+name); return nil },
			Undo: func(context.Context) error { trail = append(trail, "undo "+name); return nil },
		}
	}

	err := Compensating{Log: zerolog.Nop()}.Run(context.Background(), step("a"), step("b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"do a", "do b"}, trail)
}

func TestRunUndoesCompletedStepsInReverse(t *testing.T) {
	var trail []string
	boom := errors.New("boom")
	steps := []Step{
		{Name: "a", Do: func(context.Context) error { trail = append(trail, "do a"); return nil }, Undo: func(context.Context) error { trail = append(trail, "undo a"); return nil }},
		{Name: "b", Do: func(context.Context) error { trail = append(trail, "do b"); return nil }, Undo: func(context.Context) error { trail = append(trail, "undo b"); return nil }},
		{Name: "c", Do: func(context.Context) error { return boom }, Undo: func(context.Context) error { trail = append(trail, "undo c"); return nil }},
	}

	err := Compensating{Log: zerolog.Nop()}.Run(context.Background(), steps...)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "c: boom")
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, trail)
}

func TestRunReportsUndoFailure(t *testing.T) {
	boom := errors.New("boom")
	stuck := errors.New("stuck")
	err := Compensating{Log: zerolog.Nop()}.Run(context.Background(),
		Step{Name: "append", Do: func(context.Context) error { return nil }, Undo: func(context.Context) error { return stuck }},
		Step{Name: "count", Do: func(context.Context) error { return boom }},
	)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, stuck)
}

func TestRollbackIgnoresCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var undoErr error
	err := Compensating{Log: zerolog.Nop()}.Run(ctx,
		Step{Name: "append", Do: func(context.Context) error { return nil }, Undo: func(ctx context.Context) error { undoErr = ctx.Err(); return nil }},
		Step{Name: "count", Do: func(context.Context) error { cancel(); return context.Canceled }},
	)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, undoErr)
}
