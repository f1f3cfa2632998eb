package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	earningsdto "moneywatch/internal/modules/earnings/dto"
	earningsin "moneywatch/internal/modules/earnings/port/in"
	ledgerdto "moneywatch/internal/modules/ledger/dto"
	ledgerin "moneywatch/internal/modules/ledger/port/in"
	"moneywatch/internal/modules/session/domain"
	sessiondto "moneywatch/internal/modules/session/dto"
	sessionin "moneywatch/internal/modules/session/port/in"
	sessionout "moneywatch/internal/modules/session/port/out"
	"moneywatch/internal/modules/session/service"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/metrics"
)

const (
	recordCategory = "video-stream"
	tickOrigin     = "tick"
)

// Interactor owns the session state and the cancel function of the single
// scheduled accrual task. Every mutation happens under mu.
type Interactor struct {
	mu       sync.Mutex
	svc      *service.SessionService
	earnings earningsin.Usecase
	ledger   ledgerin.Usecase
	clock    sessionout.AccrualClock
	interval time.Duration
	metrics  metrics.Recorder
	log      zerolog.Logger

	state  domain.State
	cancel func()
	closed bool
}

type Options struct {
	Earnings earningsin.Usecase
	Ledger   ledgerin.Usecase
	Clock    sessionout.AccrualClock
	Interval time.Duration
	Metrics  metrics.Recorder
	Log      zerolog.Logger
}

func NewInteractor(svc *service.SessionService, opts Options) sessionin.Usecase {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	return &Interactor{
		svc:      svc,
		earnings: opts.Earnings,
		ledger:   opts.Ledger,
		clock:    opts.Clock,
		interval: opts.Interval,
		metrics:  opts.Metrics,
		log:      opts.Log,
	}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.StartOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return sessiondto.StartOutput{}, apperrors.ErrClosed
	}
	if i.clock == nil || i.earnings == nil || i.ledger == nil {
		return sessiondto.StartOutput{}, fmt.Errorf("session interactor is not fully configured")
	}
	next, err := i.svc.Start(ctx, i.state, input.Title)
	if err != nil {
		return sessiondto.StartOutput{}, err
	}
	gen := next.Generation
	i.state = next
	i.cancel = i.clock.Schedule(i.interval, func() {
		if _, err := i.Tick(context.Background(), sessiondto.TickInput{Generation: gen}); err != nil {
			i.log.Error().Err(err).Uint64("generation", gen).Msg("accrual tick failed")
		}
	})
	i.metrics.IncSessionsStarted()
	i.log.Info().Str("session_id", next.SessionID).Str("title", next.Title).Msg("watch session started")
	return sessiondto.StartOutput{SessionID: next.SessionID, Title: next.Title, StartedAt: next.StartedAt}, nil
}

// Tick applies one accrual for the session identified by Generation. Firings
// for an idle controller or an older session are dropped without error.
func (i *Interactor) Tick(ctx context.Context, input sessiondto.TickInput) (sessiondto.TickOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return sessiondto.TickOutput{}, nil
	}
	next, ok := domain.Tick(i.state, input.Generation)
	if !ok {
		return sessiondto.TickOutput{ElapsedSeconds: i.state.ElapsedSeconds}, nil
	}
	if _, err := i.earnings.Accrue(ctx, earningsdto.AccrueInput{AmountCts: i.svc.PerSecond().Cents(), Origin: tickOrigin}); err != nil {
		return sessiondto.TickOutput{ElapsedSeconds: i.state.ElapsedSeconds}, err
	}
	i.state = next
	i.metrics.IncTicks()
	return sessiondto.TickOutput{Applied: true, ElapsedSeconds: next.ElapsedSeconds}, nil
}

// Stop records the session and counts it as one unit before resetting. When
// either part fails nothing is kept and the session keeps running, so a
// retry records it exactly once.
func (i *Interactor) Stop(ctx context.Context) (sessiondto.StopOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return sessiondto.StopOutput{}, apperrors.ErrClosed
	}
	next, done, err := i.svc.Stop(ctx, i.state)
	if err != nil {
		return sessiondto.StopOutput{}, err
	}
	count := func(ctx context.Context) error {
		_, err := i.earnings.CountCompletion(ctx)
		return err
	}
	rec, err := i.ledger.AppendWithin(ctx, ledgerdto.AppendInput{
		Title:       done.Title,
		Category:    recordCategory,
		DurationMin: done.DurationMin,
		EarningsCts: done.Earnings.Cents(),
		Origin:      "session",
		CreatedAt:   done.EndedAt,
	}, count)
	if err != nil {
		return sessiondto.StopOutput{}, fmt.Errorf("record session: %w", err)
	}
	i.cancelClock()
	i.state = next
	i.log.Info().
		Str("session_id", done.SessionID).
		Int("elapsed_seconds", done.ElapsedSeconds).
		Str("earnings", done.Earnings.String()).
		Msg("watch session stopped")
	return sessiondto.StopOutput{
		SessionID:      done.SessionID,
		RecordID:       rec.ID,
		RecordSeq:      rec.Seq,
		Title:          done.Title,
		ElapsedSeconds: done.ElapsedSeconds,
		DurationMin:    done.DurationMin,
		EarningsCts:    done.Earnings.Cents(),
	}, nil
}

func (i *Interactor) GetActive(context.Context) (sessiondto.ActiveSessionOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.state.Active {
		return sessiondto.ActiveSessionOutput{}, apperrors.ErrNoActiveSession
	}
	return sessiondto.ActiveSessionOutput{
		SessionID:      i.state.SessionID,
		Title:          i.state.Title,
		ElapsedSeconds: i.state.ElapsedSeconds,
		Elapsed:        domain.FormatElapsed(i.state.ElapsedSeconds),
		EarningsCts:    i.state.Earnings(i.svc.PerSecond()).Cents(),
		StartedAt:      i.state.StartedAt,
	}, nil
}

// Close cancels the clock and discards a running session. It is safe to call
// more than once.
func (i *Interactor) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	if i.state.Active {
		i.log.Warn().Str("session_id", i.state.SessionID).Int("elapsed_seconds", i.state.ElapsedSeconds).Msg("discarding running session on close")
	}
	i.cancelClock()
	i.state = domain.Close(i.state)
	i.closed = true
	return nil
}

func (i *Interactor) cancelClock() {
	if i.cancel != nil {
		i.cancel()
		i.cancel = nil
	}
}
