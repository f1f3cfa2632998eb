package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"moneywatch/internal/modules/ledger/domain"
	ledgerout "moneywatch/internal/modules/ledger/port/out"
	"moneywatch/internal/platform/clock"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/id"
	"moneywatch/internal/platform/metrics"
	"moneywatch/internal/platform/money"
	"moneywatch/internal/platform/random"
	"moneywatch/internal/platform/tx"
)

// QuickAddPolicy prices an item logged without a timed session.
type QuickAddPolicy struct {
	MinMinutes int
	MaxMinutes int
	PerMinute  money.Money
}

type LedgerService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   ledgerout.RecordStore
	tx      tx.Manager
	metrics metrics.Recorder
	log     zerolog.Logger
}

func NewLedgerService(clock clock.Clock, idGen id.Generator, store ledgerout.RecordStore, recorder metrics.Recorder, log zerolog.Logger) *LedgerService {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &LedgerService{
		clock:   clock,
		idGen:   idGen,
		store:   store,
		tx:      tx.Compensating{Log: log},
		metrics: recorder,
		log:     log,
	}
}

// Record stamps a draft with an id, a timestamp when it has none and the
// default platform, then appends it.
func (s *LedgerService) Record(ctx context.Context, draft domain.WatchRecord) (domain.WatchRecord, error) {
	return s.RecordWithin(ctx, draft, nil)
}

// RecordWithin appends the draft and then runs apply as one unit. When apply
// fails the record is discarded, so the ledger never keeps an entry whose
// follow-up did not land.
func (s *LedgerService) RecordWithin(ctx context.Context, draft domain.WatchRecord, apply func(context.Context) error) (domain.WatchRecord, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.ID = s.idGen.New()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = s.clock.Now()
	}
	draft.Platform = domain.PlatformOrDefault(draft.Platform)
	if draft.Origin == "" {
		draft.Origin = domain.OriginSession
	}
	if err := draft.Validate(); err != nil {
		return domain.WatchRecord{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	var stored domain.WatchRecord
	steps := []tx.Step{{
		Name: "append record",
		Do: func(ctx context.Context) error {
			var err error
			stored, err = s.store.Append(ctx, draft)
			return err
		},
		Undo: func(ctx context.Context) error {
			return s.store.Discard(ctx, stored.ID)
		},
	}}
	if apply != nil {
		steps = append(steps, tx.Step{Name: "apply record", Do: apply})
	}
	if err := s.tx.Run(ctx, steps...); err != nil {
		return domain.WatchRecord{}, err
	}
	s.metrics.IncRecords(string(stored.Origin))
	s.log.Info().
		Int64("seq", stored.Seq).
		Str("title", stored.Title).
		Str("category", string(stored.Category)).
		Int("duration_min", stored.DurationMin).
		Str("earnings", stored.Earnings.String()).
		Str("origin", string(stored.Origin)).
		Msg("watch record appended")
	return stored, nil
}

func (s *LedgerService) List(ctx context.Context) ([]domain.WatchRecord, error) {
	return s.store.List(ctx)
}

// Draw picks a duration uniformly in [MinMinutes, MaxMinutes] and prices it.
func (p QuickAddPolicy) Draw(src random.Source) (int, money.Money) {
	minutes := random.Between(src, p.MinMinutes, p.MaxMinutes)
	return minutes, p.PerMinute.Times(minutes)
}
