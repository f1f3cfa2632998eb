package service

import (
	"context"

	"moneywatch/internal/modules/session/domain"
	"moneywatch/internal/platform/clock"
	"moneywatch/internal/platform/id"
	"moneywatch/internal/platform/money"
)

type SessionService struct {
	clock     clock.Clock
	idGen     id.Generator
	perSecond money.Money
}

func NewSessionService(clock clock.Clock, idGen id.Generator, perSecond money.Money) *SessionService {
	return &SessionService{clock: clock, idGen: idGen, perSecond: perSecond}
}

func (s *SessionService) Start(_ context.Context, state domain.State, title string) (domain.State, error) {
	return domain.Start(state, title, s.idGen.New(), s.clock.Now())
}

func (s *SessionService) Stop(_ context.Context, state domain.State) (domain.State, domain.Completed, error) {
	return domain.Stop(state, s.perSecond, s.clock.Now())
}

func (s *SessionService) PerSecond() money.Money {
	return s.perSecond
}
