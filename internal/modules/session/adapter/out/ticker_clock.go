package out

import (
	"context"
	"time"

	sessionout "moneywatch/internal/modules/session/port/out"
)

// TickerClock fires on a goroutine driven by time.Ticker.
type TickerClock struct {
	parent context.Context
}

func NewTickerClock(parent context.Context) sessionout.AccrualClock {
	if parent == nil {
		parent = context.Background()
	}
	return TickerClock{parent: parent}
}

func (c TickerClock) Schedule(interval time.Duration, fire func()) func() {
	ctx, cancel := context.WithCancel(c.parent)
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				fire()
			}
		}
	}()
	return cancel
}
