package usecase

import (
	"context"
	"fmt"
	"strings"

	earningsdto "moneywatch/internal/modules/earnings/dto"
	earningsin "moneywatch/internal/modules/earnings/port/in"
	"moneywatch/internal/modules/ledger/domain"
	"moneywatch/internal/modules/ledger/dto"
	ledgerin "moneywatch/internal/modules/ledger/port/in"
	ledgerout "moneywatch/internal/modules/ledger/port/out"
	"moneywatch/internal/modules/ledger/service"
	"moneywatch/internal/platform/clock"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/money"
	"moneywatch/internal/platform/random"
)

type Interactor struct {
	svc       *service.LedgerService
	earnings  earningsin.Usecase
	policy    service.QuickAddPolicy
	rand      random.Source
	clock     clock.Clock
	exporters map[string]ledgerout.Exporter
	currency  string
}

type Options struct {
	Earnings  earningsin.Usecase
	Policy    service.QuickAddPolicy
	Random    random.Source
	Clock     clock.Clock
	Exporters map[string]ledgerout.Exporter
	Currency  string
}

func NewInteractor(svc *service.LedgerService, opts Options) ledgerin.Usecase {
	if opts.Random == nil {
		opts.Random = random.Global{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	return &Interactor{
		svc:       svc,
		earnings:  opts.Earnings,
		policy:    opts.Policy,
		rand:      opts.Random,
		clock:     opts.Clock,
		exporters: opts.Exporters,
		currency:  opts.Currency,
	}
}

func (i *Interactor) Append(ctx context.Context, input dto.AppendInput) (dto.RecordOutput, error) {
	return i.AppendWithin(ctx, input, nil)
}

func (i *Interactor) AppendWithin(ctx context.Context, input dto.AppendInput, apply func(context.Context) error) (dto.RecordOutput, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return dto.RecordOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	rec, err := i.svc.RecordWithin(ctx, domain.WatchRecord{
		Title:       input.Title,
		Category:    category,
		DurationMin: input.DurationMin,
		Earnings:    money.Cents(input.EarningsCts),
		CreatedAt:   input.CreatedAt,
		Platform:    input.Platform,
		Origin:      domain.Origin(input.Origin),
	}, apply)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return toOutput(rec), nil
}

// QuickAdd logs an item without a timed session. The duration is drawn from
// the policy range; the record and the settlement of totals and watched
// counter land together or not at all.
func (i *Interactor) QuickAdd(ctx context.Context, input dto.QuickAddInput) (dto.RecordOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return dto.RecordOutput{}, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if i.earnings == nil {
		return dto.RecordOutput{}, fmt.Errorf("earnings aggregator is not configured")
	}
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return dto.RecordOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	minutes, earned := i.policy.Draw(i.rand)
	settle := func(ctx context.Context) error {
		_, err := i.earnings.Settle(ctx, earningsdto.AccrueInput{AmountCts: earned.Cents(), Origin: string(domain.OriginQuickAdd)})
		return err
	}
	rec, err := i.svc.RecordWithin(ctx, domain.WatchRecord{
		Title:       title,
		Category:    category,
		DurationMin: minutes,
		Earnings:    earned,
		Platform:    input.Platform,
		Origin:      domain.OriginQuickAdd,
	}, settle)
	if err != nil {
		return dto.RecordOutput{}, err
	}
	return toOutput(rec), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.RecordOutput, error) {
	records, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecordOutput, 0, len(records))
	for _, rec := range records {
		out = append(out, toOutput(rec))
	}
	return out, nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = "table"
	}
	exporter, ok := i.exporters[format]
	if !ok {
		return dto.ExportOutput{}, fmt.Errorf("%w: unsupported export format %q", apperrors.ErrInvalidInput, input.Format)
	}
	records, err := i.svc.List(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	summary := domain.Summary{
		Currency:    i.currency,
		Records:     len(records),
		GeneratedAt: i.clock.Now(),
	}
	if i.earnings != nil {
		totals, err := i.earnings.Snapshot(ctx)
		if err != nil {
			return dto.ExportOutput{}, err
		}
		summary.AllTime = money.Cents(totals.AllTimeCts)
		summary.Today = money.Cents(totals.TodayCts)
		summary.WatchedToday = totals.WatchedToday
	}
	content, err := exporter.Export(ctx, records, summary)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Format: format, Content: content}, nil
}

func toOutput(rec domain.WatchRecord) dto.RecordOutput {
	return dto.RecordOutput{
		Seq:           rec.Seq,
		ID:            rec.ID,
		Title:         rec.Title,
		Category:      string(rec.Category),
		CategoryLabel: rec.Category.Label(),
		DurationMin:   rec.DurationMin,
		EarningsCts:   rec.Earnings.Cents(),
		Earnings:      rec.Earnings.String(),
		CreatedAt:     rec.CreatedAt,
		Platform:      rec.Platform,
		Origin:        string(rec.Origin),
	}
}
