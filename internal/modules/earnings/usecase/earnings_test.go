package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	earningsoutadapter "moneywatch/internal/modules/earnings/adapter/out"
	"moneywatch/internal/modules/earnings/domain"
	"moneywatch/internal/modules/earnings/dto"
	earningsin "moneywatch/internal/modules/earnings/port/in"
	"moneywatch/internal/modules/earnings/service"
	"moneywatch/internal/modules/earnings/usecase"
	apperrors "moneywatch/internal/platform/errors"
)

type countingRecorder struct {
	mu       sync.Mutex
	earnings map[string]int64
}

func (r *countingRecorder) IncSessionsStarted() {}
func (r *countingRecorder) IncTicks()           {}
func (r *countingRecorder) IncRecords(string)   {}
func (r *countingRecorder) AddEarnings(origin string, cents int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.earnings == nil {
		r.earnings = map[string]int64{}
	}
	r.earnings[origin] += cents
}

func newInteractor(initial domain.State, recorder *countingRecorder) earningsin.Usecase {
	settings := domain.Settings{
		PerSecond:          1,
		PerMinute:          16,
		MinWithdrawal:      5000,
		AutoWithdraw:       true,
		QuickAddMinMinutes: 5,
		QuickAddMaxMinutes: 65,
		TickInterval:       time.Second,
	}
	store := earningsoutadapter.NewMemoryStateStore(initial)
	svc := service.NewEarningsService(store, settings, recorder, zerolog.Nop())
	return usecase.NewInteractor(svc, "R$")
}

func TestAccrueAndCountCompletion(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &countingRecorder{}
	uc := newInteractor(domain.State{Totals: domain.Totals{AllTime: 24785, Today: 1240, WatchedToday: 8}}, rec)

	out, err := uc.Accrue(ctx, dto.AccrueInput{AmountCts: 125, Origin: "tick"})
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if out.AllTimeCts != 24910 || out.TodayCts != 1365 || out.WatchedToday != 8 {
		t.Fatalf("unexpected totals after accrue: %+v", out)
	}
	out, err = uc.CountCompletion(ctx)
	if err != nil {
		t.Fatalf("count completion: %v", err)
	}
	if out.WatchedToday != 9 || out.AllTimeCts != 24910 {
		t.Fatalf("unexpected totals after completion: %+v", out)
	}
	if rec.earnings["tick"] != 125 {
		t.Fatalf("expected 125 cents recorded for tick, got %d", rec.earnings["tick"])
	}
	if out.Currency != "R$" || out.HasBank {
		t.Fatalf("unexpected currency/bank fields: %+v", out)
	}
}

type failingSaveStore struct {
	inner interface {
		Load(context.Context) (domain.State, error)
		Save(context.Context, domain.State) error
	}
}

func (s failingSaveStore) Load(ctx context.Context) (domain.State, error) { return s.inner.Load(ctx) }
func (s failingSaveStore) Save(context.Context, domain.State) error     { return errors.New("save failed") }

func TestSettleAccruesAndCountsTogether(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &countingRecorder{}
	uc := newInteractor(domain.State{Totals: domain.Totals{AllTime: 100, Today: 40, WatchedToday: 2}}, rec)

	out, err := uc.Settle(ctx, dto.AccrueInput{AmountCts: 240, Origin: "quick-add"})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if out.AllTimeCts != 340 || out.TodayCts != 280 || out.WatchedToday != 3 {
		t.Fatalf("unexpected totals after settle: %+v", out)
	}
	if rec.earnings["quick-add"] != 240 {
		t.Fatalf("expected 240 cents recorded for quick-add, got %d", rec.earnings["quick-add"])
	}

	if _, err := uc.Settle(ctx, dto.AccrueInput{AmountCts: -1, Origin: "quick-add"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	snap, _ := uc.Snapshot(ctx)
	if snap.WatchedToday != 3 || snap.AllTimeCts != 340 {
		t.Fatalf("rejected settle must not count: %+v", snap)
	}
}

func TestUnsavedEarningsAreNotCounted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	rec := &countingRecorder{}
	store := failingSaveStore{inner: earningsoutadapter.NewMemoryStateStore(domain.State{})}
	uc := usecase.NewInteractor(service.NewEarningsService(store, domain.Settings{}, rec, zerolog.Nop()), "R$")

	if _, err := uc.Accrue(ctx, dto.AccrueInput{AmountCts: 5, Origin: "tick"}); err == nil {
		t.Fatalf("expected accrue to fail when the save fails")
	}
	if _, err := uc.Settle(ctx, dto.AccrueInput{AmountCts: 240, Origin: "quick-add"}); err == nil {
		t.Fatalf("expected settle to fail when the save fails")
	}
	if len(rec.earnings) != 0 {
		t.Fatalf("earnings metric moved without a save: %v", rec.earnings)
	}
}

func TestAccrueNegativeLeavesTotalsUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newInteractor(domain.State{Totals: domain.Totals{AllTime: 10, Today: 10}}, &countingRecorder{})
	if _, err := uc.Accrue(ctx, dto.AccrueInput{AmountCts: -5}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	snap, err := uc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.AllTimeCts != 10 || snap.TodayCts != 10 {
		t.Fatalf("totals changed after rejected accrual: %+v", snap)
	}
}

func TestConcurrentAccrualKeepsAllTimeAboveToday(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newInteractor(domain.State{}, &countingRecorder{})
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _ = uc.Accrue(ctx, dto.AccrueInput{AmountCts: 1, Origin: "tick"})
			}
		}()
	}
	wg.Wait()
	snap, _ := uc.Snapshot(ctx)
	if snap.AllTimeCts != 400 || snap.TodayCts != 400 {
		t.Fatalf("expected 400 cents on both totals, got %+v", snap)
	}
}

func TestBankIsIndependentOfTotals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newInteractor(domain.State{
		Totals: domain.Totals{AllTime: 24785, Today: 1240},
		Bank:   &domain.BankAccount{ID: "1", Bank: "Banco do Brasil", Account: "**** 1234", Balance: 24785},
	}, &countingRecorder{})

	if _, err := uc.Accrue(ctx, dto.AccrueInput{AmountCts: 500}); err != nil {
		t.Fatalf("accrue: %v", err)
	}
	bank, err := uc.Bank(ctx)
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if bank.BalanceCts != 24785 {
		t.Fatalf("bank balance must not follow earnings, got %d", bank.BalanceCts)
	}
	snap, _ := uc.Snapshot(ctx)
	if !snap.HasBank || snap.BankBalanceCts != 24785 || snap.AllTimeCts != 25285 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestBankStubs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	noBank := newInteractor(domain.State{}, &countingRecorder{})
	if _, err := noBank.Bank(ctx); !errors.Is(err, apperrors.ErrNoBankAccount) {
		t.Fatalf("expected no bank account, got %v", err)
	}
	if _, err := noBank.Withdraw(ctx); !errors.Is(err, apperrors.ErrNoBankAccount) {
		t.Fatalf("withdraw without account should fail, got %v", err)
	}
	if _, err := noBank.ConnectBank(ctx, dto.ConnectBankInput{Bank: "itau"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("connect without agency/account should fail, got %v", err)
	}
	ack, err := noBank.ConnectBank(ctx, dto.ConnectBankInput{Bank: "Itaú", Agency: "0001", Account: "12345-6"})
	if err != nil || !ack.Accepted {
		t.Fatalf("connect should be accepted: %+v %v", ack, err)
	}
	if _, err := noBank.Bank(ctx); !errors.Is(err, apperrors.ErrNoBankAccount) {
		t.Fatalf("connect is a stub and must not link an account, got %v", err)
	}

	withBank := newInteractor(domain.State{Bank: &domain.BankAccount{Bank: "Caixa", Account: "**** 9999", Balance: 100}}, &countingRecorder{})
	ack, err = withBank.Withdraw(ctx)
	if err != nil || !ack.Accepted {
		t.Fatalf("withdraw should be accepted: %+v %v", ack, err)
	}
	bank, _ := withBank.Bank(ctx)
	if bank.BalanceCts != 100 {
		t.Fatalf("withdraw is a stub and must not move money, got %d", bank.BalanceCts)
	}
}

func TestBreakdownAndSettings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := newInteractor(domain.State{}, &countingRecorder{})
	rows, err := uc.Breakdown(ctx)
	if err != nil || len(rows) != 4 {
		t.Fatalf("breakdown: %v %d", err, len(rows))
	}
	if rows[0].AmountCts != 4530 || rows[0].Percent != 45 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	settings, err := uc.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if settings.PerMinuteCts != 16 || settings.MinWithdrawalCts != 5000 || !settings.AutoWithdraw {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}
