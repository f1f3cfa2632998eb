package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"moneywatch/internal/modules/earnings/domain"
	earningsout "moneywatch/internal/modules/earnings/port/out"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/metrics"
	"moneywatch/internal/platform/money"
)

type EarningsService struct {
	mu       sync.Mutex
	store    earningsout.StateStore
	settings domain.Settings
	metrics  metrics.Recorder
	log      zerolog.Logger
}

func NewEarningsService(store earningsout.StateStore, settings domain.Settings, recorder metrics.Recorder, log zerolog.Logger) *EarningsService {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &EarningsService{store: store, settings: settings, metrics: recorder, log: log}
}

func (s *EarningsService) Accrue(ctx context.Context, amount money.Money, origin string) (domain.State, error) {
	next, err := s.update(ctx, func(state domain.State) (domain.State, error) {
		totals, err := state.Totals.Accrue(amount)
		if err != nil {
			return state, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		state.Totals = totals
		return state, nil
	})
	if err != nil {
		return next, err
	}
	s.metrics.AddEarnings(origin, amount.Cents())
	return next, nil
}

// Settle accrues amount and counts one completed item. Both changes are
// saved together or not at all.
func (s *EarningsService) Settle(ctx context.Context, amount money.Money, origin string) (domain.State, error) {
	next, err := s.update(ctx, func(state domain.State) (domain.State, error) {
		totals, err := state.Totals.Accrue(amount)
		if err != nil {
			return state, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		state.Totals = totals.CountCompletion()
		return state, nil
	})
	if err != nil {
		return next, err
	}
	s.metrics.AddEarnings(origin, amount.Cents())
	return next, nil
}

func (s *EarningsService) CountCompletion(ctx context.Context) (domain.State, error) {
	return s.update(ctx, func(state domain.State) (domain.State, error) {
		state.Totals = state.Totals.CountCompletion()
		return state, nil
	})
}

func (s *EarningsService) Snapshot(ctx context.Context) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// ConnectBank accepts the form after a presence check. No account is linked.
func (s *EarningsService) ConnectBank(_ context.Context, req domain.ConnectRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	s.log.Info().
		Str("bank", strings.TrimSpace(req.Bank)).
		Str("account", domain.MaskAccount(req.Account)).
		Msg("bank connection requested")
	return nil
}

// Withdraw accepts the request when an account is shown. Nothing moves.
func (s *EarningsService) Withdraw(ctx context.Context) (domain.BankAccount, error) {
	state, err := s.Snapshot(ctx)
	if err != nil {
		return domain.BankAccount{}, err
	}
	if state.Bank == nil {
		return domain.BankAccount{}, apperrors.ErrNoBankAccount
	}
	s.log.Info().
		Str("bank", state.Bank.Bank).
		Str("balance", state.Bank.Balance.String()).
		Msg("withdrawal requested")
	return *state.Bank, nil
}

func (s *EarningsService) Settings() domain.Settings {
	return s.settings
}

func (s *EarningsService) update(ctx context.Context, fn func(domain.State) (domain.State, error)) (domain.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, err := s.store.Load(ctx)
	if err != nil {
		return domain.State{}, err
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return state, err
	}
	return next, nil
}
