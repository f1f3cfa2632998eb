package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	earningsout "moneywatch/internal/modules/earnings/adapter/out"
	earningsdomain "moneywatch/internal/modules/earnings/domain"
	earningsdto "moneywatch/internal/modules/earnings/dto"
	earningsin "moneywatch/internal/modules/earnings/port/in"
	earningsservice "moneywatch/internal/modules/earnings/service"
	earningsusecase "moneywatch/internal/modules/earnings/usecase"
	ledgerout "moneywatch/internal/modules/ledger/adapter/out"
	"moneywatch/internal/modules/ledger/dto"
	ledgerin "moneywatch/internal/modules/ledger/port/in"
	"moneywatch/internal/modules/ledger/service"
	"moneywatch/internal/modules/ledger/usecase"
	"moneywatch/internal/platform/clock"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/metrics"
	"moneywatch/internal/platform/money"
)

// pinnedRand always draws the same offset, clamped into range.
type pinnedRand int

func (p pinnedRand) IntN(n int) int {
	if int(p) >= n {
		return n - 1
	}
	return int(p)
}

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return "rec-" + string(rune('a'+s.n-1))
}

type fixture struct {
	ledger   ledgerin.Usecase
	earnings earningsin.Usecase
}

// refusingEarnings fails every settlement.
type refusingEarnings struct {
	earningsin.Usecase
}

func (refusingEarnings) Settle(context.Context, earningsdto.AccrueInput) (earningsdto.TotalsOutput, error) {
	return earningsdto.TotalsOutput{}, errors.New("settle failed")
}

func newFixture(t *testing.T, draw int) fixture {
	return newFixtureWith(t, draw, nil)
}

func newFixtureWith(t *testing.T, draw int, wrap func(earningsin.Usecase) earningsin.Usecase) fixture {
	t.Helper()
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	earnSvc := earningsservice.NewEarningsService(
		earningsout.NewMemoryStateStore(earningsdomain.State{}),
		earningsdomain.Settings{PerSecond: 1, PerMinute: 16},
		metrics.Noop{},
		zerolog.Nop(),
	)
	var earnings earningsin.Usecase = earningsusecase.NewInteractor(earnSvc, "R$")
	if wrap != nil {
		earnings = wrap(earnings)
	}
	svc := service.NewLedgerService(clock.Fixed(now), &seqIDs{}, ledgerout.NewMemoryRecordStore(), metrics.Noop{}, zerolog.Nop())
	uc := usecase.NewInteractor(svc, usecase.Options{
		Earnings:  earnings,
		Policy:    service.QuickAddPolicy{MinMinutes: 5, MaxMinutes: 65, PerMinute: money.Cents(16)},
		Random:    pinnedRand(draw),
		Clock:     clock.Fixed(now),
		Exporters: ledgerout.Exporters(),
		Currency:  "R$",
	})
	return fixture{ledger: uc, earnings: earnings}
}

func TestQuickAddPricesDurationAndCountsCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10)

	rec, err := f.ledger.QuickAdd(ctx, dto.QuickAddInput{Title: "  Dune  ", Category: "filme"})
	if err != nil {
		t.Fatalf("quick add: %v", err)
	}
	if rec.DurationMin != 15 {
		t.Fatalf("expected 15 minutes, got %d", rec.DurationMin)
	}
	if rec.EarningsCts != 15*16 {
		t.Fatalf("expected %d cents, got %d", 15*16, rec.EarningsCts)
	}
	if rec.Title != "Dune" || rec.Category != "film" || rec.Platform != "Manual" || rec.Origin != "quick-add" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	totals, err := f.earnings.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if totals.AllTimeCts != 240 || totals.TodayCts != 240 || totals.WatchedToday != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}

func TestQuickAddDurationBounds(t *testing.T) {
	ctx := context.Background()
	low, err := newFixture(t, 0).ledger.QuickAdd(ctx, dto.QuickAddInput{Title: "short"})
	if err != nil {
		t.Fatalf("quick add low: %v", err)
	}
	high, err := newFixture(t, 1000).ledger.QuickAdd(ctx, dto.QuickAddInput{Title: "long"})
	if err != nil {
		t.Fatalf("quick add high: %v", err)
	}
	if low.DurationMin != 5 || high.DurationMin != 65 {
		t.Fatalf("expected 5 and 65 minutes, got %d and %d", low.DurationMin, high.DurationMin)
	}
	if low.Category != "video-stream" {
		t.Fatalf("blank category should default to video-stream, got %q", low.Category)
	}
}

func TestQuickAddRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 3)
	if _, err := f.ledger.QuickAdd(ctx, dto.QuickAddInput{Title: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := f.ledger.QuickAdd(ctx, dto.QuickAddInput{Title: "x", Category: "podcast"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown category, got %v", err)
	}
	records, _ := f.ledger.List(ctx)
	totals, _ := f.earnings.Snapshot(ctx)
	if len(records) != 0 || totals.WatchedToday != 0 || totals.AllTimeCts != 0 {
		t.Fatalf("rejected quick add changed state: %d records, %+v", len(records), totals)
	}
}

func TestListIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	for _, title := range []string{"first", "second", "third"} {
		if _, err := f.ledger.QuickAdd(ctx, dto.QuickAddInput{Title: title}); err != nil {
			t.Fatalf("quick add %s: %v", title, err)
		}
	}
	records, err := f.ledger.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Title != "third" || records[2].Title != "first" {
		t.Fatalf("unexpected order: %s, %s, %s", records[0].Title, records[1].Title, records[2].Title)
	}
	if records[0].Seq <= records[1].Seq {
		t.Fatalf("seq must decrease down the list: %d, %d", records[0].Seq, records[1].Seq)
	}
}

func TestAppendDoesNotTouchTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	rec, err := f.ledger.Append(ctx, dto.AppendInput{Title: "Bones", Category: "audio-track", DurationMin: 3, EarningsCts: 80, Platform: "Spotify", Origin: "seed"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.Earnings != "0.80" || rec.Platform != "Spotify" || rec.Origin != "seed" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	totals, _ := f.earnings.Snapshot(ctx)
	if totals.AllTimeCts != 0 || totals.WatchedToday != 0 {
		t.Fatalf("append must not move totals: %+v", totals)
	}
	if _, err := f.ledger.Append(ctx, dto.AppendInput{Title: "bad", EarningsCts: -1}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative earnings, got %v", err)
	}
}

func TestExportFormats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)
	if _, err := f.ledger.QuickAdd(ctx, dto.QuickAddInput{Title: "Stranger Things", Category: "series", Platform: "Netflix"}); err != nil {
		t.Fatalf("quick add: %v", err)
	}
	for _, format := range []string{"json", "yaml", "markdown", "table", ""} {
		out, err := f.ledger.Export(ctx, dto.ExportInput{Format: format})
		if err != nil {
			t.Fatalf("export %q: %v", format, err)
		}
		if !strings.Contains(string(out.Content), "Stranger Things") {
			t.Fatalf("export %q missing record title:\n%s", format, out.Content)
		}
	}
	if _, err := f.ledger.Export(ctx, dto.ExportInput{Format: "pdf"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown format, got %v", err)
	}
}

func TestQuickAddWithoutEarningsFails(t *testing.T) {
	svc := service.NewLedgerService(clock.SystemClock{}, &seqIDs{}, ledgerout.NewMemoryRecordStore(), nil, zerolog.Nop())
	uc := usecase.NewInteractor(svc, usecase.Options{Policy: service.QuickAddPolicy{MinMinutes: 5, MaxMinutes: 65, PerMinute: 16}})
	if _, err := uc.QuickAdd(context.Background(), dto.QuickAddInput{Title: "x"}); err == nil {
		t.Fatalf("expected error without earnings aggregator")
	}
}

func TestQuickAddWithFailedSettlementLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWith(t, 10, func(uc earningsin.Usecase) earningsin.Usecase { return refusingEarnings{Usecase: uc} })

	if _, err := f.ledger.QuickAdd(ctx, dto.QuickAddInput{Title: "Dune"}); err == nil {
		t.Fatalf("expected quick add to surface the settlement failure")
	}
	records, err := f.ledger.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("failed quick add kept %d records", len(records))
	}
	totals, _ := f.earnings.Snapshot(ctx)
	if totals.AllTimeCts != 0 || totals.WatchedToday != 0 {
		t.Fatalf("failed quick add moved totals: %+v", totals)
	}
}

func TestAppendWithinWithdrawsRecordWhenApplyFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 0)

	input := dto.AppendInput{Title: "Bones", Category: "musica", DurationMin: 3, EarningsCts: 80}
	if _, err := f.ledger.AppendWithin(ctx, input, func(context.Context) error { return errors.New("count failed") }); err == nil {
		t.Fatalf("expected apply failure to surface")
	}
	rec, err := f.ledger.AppendWithin(ctx, input, func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("append within: %v", err)
	}
	records, _ := f.ledger.List(ctx)
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Fatalf("expected only the committed record, got %+v", records)
	}
}
