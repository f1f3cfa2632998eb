package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/money"
)

// State is the whole of the session controller. Generation changes on every
// Start, Stop and Close so that a clock firing can prove it belongs to the
// session that scheduled it.
type State struct {
	Active         bool
	Title          string
	ElapsedSeconds int
	SessionID      string
	StartedAt      time.Time
	Generation     uint64
}

// Completed is what a stopped session leaves behind for the ledger.
type Completed struct {
	SessionID      string
	Title          string
	ElapsedSeconds int
	DurationMin    int
	Earnings       money.Money
	StartedAt      time.Time
	EndedAt        time.Time
}

func Start(s State, title, sessionID string, at time.Time) (State, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return s, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if s.Active {
		return s, apperrors.ErrActiveSessionExists
	}
	return State{
		Active:     true,
		Title:      title,
		SessionID:  sessionID,
		StartedAt:  at,
		Generation: s.Generation + 1,
	}, nil
}

// Tick advances the elapsed counter by one second. It reports false and
// leaves s untouched when the session is idle or gen is stale.
func Tick(s State, gen uint64) (State, bool) {
	if !s.Active || gen != s.Generation {
		return s, false
	}
	s.ElapsedSeconds++
	return s, true
}

func Stop(s State, perSecond money.Money, at time.Time) (State, Completed, error) {
	if !s.Active {
		return s, Completed{}, apperrors.ErrNoActiveSession
	}
	done := Completed{
		SessionID:      s.SessionID,
		Title:          s.Title,
		ElapsedSeconds: s.ElapsedSeconds,
		DurationMin:    s.ElapsedSeconds / 60,
		Earnings:       perSecond.Times(s.ElapsedSeconds),
		StartedAt:      s.StartedAt,
		EndedAt:        at,
	}
	return State{Generation: s.Generation + 1}, done, nil
}

// Close discards any running session without recording it.
func Close(s State) State {
	return State{Generation: s.Generation + 1}
}

func (s State) Earnings(perSecond money.Money) money.Money {
	return perSecond.Times(s.ElapsedSeconds)
}

// FormatElapsed renders seconds as m:ss. Minutes are not wrapped into hours.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
