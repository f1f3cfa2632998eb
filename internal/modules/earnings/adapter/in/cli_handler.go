package in

import (
	"context"

	"moneywatch/internal/modules/earnings/dto"
	earningsin "moneywatch/internal/modules/earnings/port/in"
)

type CLIHandler struct {
	usecase earningsin.Usecase
}

func NewCLIHandler(usecase earningsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Snapshot(ctx context.Context) (dto.TotalsOutput, error) {
	return h.usecase.Snapshot(ctx)
}

func (h CLIHandler) Bank(ctx context.Context) (dto.BankOutput, error) {
	return h.usecase.Bank(ctx)
}

func (h CLIHandler) ConnectBank(ctx context.Context, bank, agency, account string) (dto.ActionOutput, error) {
	return h.usecase.ConnectBank(ctx, dto.ConnectBankInput{Bank: bank, Agency: agency, Account: account})
}

func (h CLIHandler) Withdraw(ctx context.Context) (dto.ActionOutput, error) {
	return h.usecase.Withdraw(ctx)
}

func (h CLIHandler) Breakdown(ctx context.Context) ([]dto.CategoryShareOutput, error) {
	return h.usecase.Breakdown(ctx)
}

func (h CLIHandler) Settings(ctx context.Context) (dto.SettingsOutput, error) {
	return h.usecase.Settings(ctx)
}
