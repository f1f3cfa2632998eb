package in

import (
	"context"

	"moneywatch/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Tick(ctx context.Context, input dto.TickInput) (dto.TickOutput, error)
	Stop(ctx context.Context) (dto.StopOutput, error)
	GetActive(ctx context.Context) (dto.ActiveSessionOutput, error)
	Close() error
}
