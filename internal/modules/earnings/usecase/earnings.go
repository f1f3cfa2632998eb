package usecase

import (
	"context"
	"fmt"

	"moneywatch/internal/modules/earnings/domain"
	"moneywatch/internal/modules/earnings/dto"
	earningsin "moneywatch/internal/modules/earnings/port/in"
	"moneywatch/internal/modules/earnings/service"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/money"
)

type Interactor struct {
	svc      *service.EarningsService
	currency string
}

func NewInteractor(svc *service.EarningsService, currency string) earningsin.Usecase {
	return &Interactor{svc: svc, currency: currency}
}

func (i *Interactor) Accrue(ctx context.Context, input dto.AccrueInput) (dto.TotalsOutput, error) {
	state, err := i.svc.Accrue(ctx, money.Cents(input.AmountCts), input.Origin)
	if err != nil {
		return dto.TotalsOutput{}, err
	}
	return i.totalsOutput(state), nil
}

func (i *Interactor) CountCompletion(ctx context.Context) (dto.TotalsOutput, error) {
	state, err := i.svc.CountCompletion(ctx)
	if err != nil {
		return dto.TotalsOutput{}, err
	}
	return i.totalsOutput(state), nil
}

func (i *Interactor) Settle(ctx context.Context, input dto.AccrueInput) (dto.TotalsOutput, error) {
	state, err := i.svc.Settle(ctx, money.Cents(input.AmountCts), input.Origin)
	if err != nil {
		return dto.TotalsOutput{}, err
	}
	return i.totalsOutput(state), nil
}

func (i *Interactor) Snapshot(ctx context.Context) (dto.TotalsOutput, error) {
	state, err := i.svc.Snapshot(ctx)
	if err != nil {
		return dto.TotalsOutput{}, err
	}
	return i.totalsOutput(state), nil
}

func (i *Interactor) Bank(ctx context.Context) (dto.BankOutput, error) {
	state, err := i.svc.Snapshot(ctx)
	if err != nil {
		return dto.BankOutput{}, err
	}
	if state.Bank == nil {
		return dto.BankOutput{}, apperrors.ErrNoBankAccount
	}
	return i.bankOutput(*state.Bank), nil
}

func (i *Interactor) ConnectBank(ctx context.Context, input dto.ConnectBankInput) (dto.ActionOutput, error) {
	req := domain.ConnectRequest{Bank: input.Bank, Agency: input.Agency, Account: input.Account}
	if err := i.svc.ConnectBank(ctx, req); err != nil {
		return dto.ActionOutput{}, err
	}
	return dto.ActionOutput{
		Accepted: true,
		Message:  fmt.Sprintf("connection request for %s %s received", input.Bank, domain.MaskAccount(input.Account)),
	}, nil
}

func (i *Interactor) Withdraw(ctx context.Context) (dto.ActionOutput, error) {
	bank, err := i.svc.Withdraw(ctx)
	if err != nil {
		return dto.ActionOutput{}, err
	}
	return dto.ActionOutput{
		Accepted: true,
		Message:  fmt.Sprintf("withdrawal request for %s %s received", bank.Bank, bank.Account),
	}, nil
}

func (i *Interactor) Breakdown(context.Context) ([]dto.CategoryShareOutput, error) {
	rows := domain.StaticBreakdown()
	out := make([]dto.CategoryShareOutput, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.CategoryShareOutput{
			Category:  row.Category,
			Label:     row.Label,
			AmountCts: row.Amount.Cents(),
			Percent:   row.Percent,
		})
	}
	return out, nil
}

func (i *Interactor) Settings(context.Context) (dto.SettingsOutput, error) {
	s := i.svc.Settings()
	return dto.SettingsOutput{
		Currency:           i.currency,
		PerSecondCts:       s.PerSecond.Cents(),
		PerMinuteCts:       s.PerMinute.Cents(),
		MinWithdrawalCts:   s.MinWithdrawal.Cents(),
		AutoWithdraw:       s.AutoWithdraw,
		QuickAddMinMinutes: s.QuickAddMinMinutes,
		QuickAddMaxMinutes: s.QuickAddMaxMinutes,
		TickInterval:       s.TickInterval,
	}, nil
}

func (i *Interactor) totalsOutput(state domain.State) dto.TotalsOutput {
	out := dto.TotalsOutput{
		Currency:     i.currency,
		AllTimeCts:   state.Totals.AllTime.Cents(),
		TodayCts:     state.Totals.Today.Cents(),
		WatchedToday: state.Totals.WatchedToday,
	}
	if state.Bank != nil {
		out.HasBank = true
		out.BankBalanceCts = state.Bank.Balance.Cents()
	}
	return out
}

func (i *Interactor) bankOutput(bank domain.BankAccount) dto.BankOutput {
	return dto.BankOutput{
		ID:         bank.ID,
		Bank:       bank.Bank,
		Account:    bank.Account,
		BalanceCts: bank.Balance.Cents(),
		Currency:   i.currency,
	}
}
