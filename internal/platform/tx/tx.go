package tx

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Step is one action of a unit of work that spans adapters. Undo reverses
// a completed Do and may be nil for the final step.
type Step struct {
	Name string
	Do   func(context.Context) error
	Undo func(context.Context) error
}

// Manager runs steps as one unit: either all of them land or the completed
// ones are undone.
type Manager interface {
	Run(ctx context.Context, steps ...Step) error
}

// Compensating runs steps in order and, on the first failure, undoes the
// completed steps in reverse order.
type Compensating struct {
	Log zerolog.Logger
}

func (c Compensating) Run(ctx context.Context, steps ...Step) error {
	for idx, step := range steps {
		if err := step.Do(ctx); err != nil {
			failed := fmt.Errorf("%s: %w", step.Name, err)
			return errors.Join(failed, c.rollback(ctx, steps[:idx]))
		}
	}
	return nil
}

func (c Compensating) rollback(ctx context.Context, done []Step) error {
	// undo must run even when the caller's context is already cancelled
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for idx := len(done) - 1; idx >= 0; idx-- {
		step := done[idx]
		if step.Undo == nil {
			continue
		}
		if err := step.Undo(ctx); err != nil {
			c.Log.Error().Err(err).Str("step", step.Name).Msg("undo failed")
			errs = append(errs, fmt.Errorf("undo %s: %w", step.Name, err))
		}
	}
	return errors.Join(errs...)
}
