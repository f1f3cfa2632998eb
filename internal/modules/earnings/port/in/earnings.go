package in

import (
	"context"

	"moneywatch/internal/modules/earnings/dto"
)

type Usecase interface {
	Accrue(ctx context.Context, input dto.AccrueInput) (dto.TotalsOutput, error)
	CountCompletion(ctx context.Context) (dto.TotalsOutput, error)
	// Settle accrues the amount and counts one completed item in a single
	// update.
	Settle(ctx context.Context, input dto.AccrueInput) (dto.TotalsOutput, error)
	Snapshot(ctx context.Context) (dto.TotalsOutput, error)
	Bank(ctx context.Context) (dto.BankOutput, error)
	ConnectBank(ctx context.Context, input dto.ConnectBankInput) (dto.ActionOutput, error)
	Withdraw(ctx context.Context) (dto.ActionOutput, error)
	Breakdown(ctx context.Context) ([]dto.CategoryShareOutput, error)
	Settings(ctx context.Context) (dto.SettingsOutput, error)
}
