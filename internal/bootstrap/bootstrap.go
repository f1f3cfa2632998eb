package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	earningsinadapter "moneywatch/internal/modules/earnings/adapter/in"
	earningsoutadapter "moneywatch/internal/modules/earnings/adapter/out"
	earningsdomain "moneywatch/internal/modules/earnings/domain"
	earningsservice "moneywatch/internal/modules/earnings/service"
	earningsusecase "moneywatch/internal/modules/earnings/usecase"
	ledgerinadapter "moneywatch/internal/modules/ledger/adapter/in"
	ledgeroutadapter "moneywatch/internal/modules/ledger/adapter/out"
	"moneywatch/internal/modules/ledger/dto"
	ledgerin "moneywatch/internal/modules/ledger/port/in"
	ledgerout "moneywatch/internal/modules/ledger/port/out"
	ledgerservice "moneywatch/internal/modules/ledger/service"
	ledgerusecase "moneywatch/internal/modules/ledger/usecase"
	sessioninadapter "moneywatch/internal/modules/session/adapter/in"
	sessionoutadapter "moneywatch/internal/modules/session/adapter/out"
	sessionin "moneywatch/internal/modules/session/port/in"
	sessionout "moneywatch/internal/modules/session/port/out"
	sessionservice "moneywatch/internal/modules/session/service"
	sessionusecase "moneywatch/internal/modules/session/usecase"
	"moneywatch/internal/platform/clock"
	"moneywatch/internal/platform/config"
	"moneywatch/internal/platform/id"
	"moneywatch/internal/platform/metrics"
	"moneywatch/internal/platform/money"
	"moneywatch/internal/platform/random"
	uiapp "moneywatch/internal/ui/app"
)

type App struct {
	Config      config.Config
	SessionCLI  sessioninadapter.CLIHandler
	LedgerCLI   ledgerinadapter.CLIHandler
	EarningsCLI earningsinadapter.CLIHandler
	MetricsAddr string

	log     zerolog.Logger
	session sessionin.Usecase
	closers []func() error
}

type Options struct {
	Clock  clock.Clock
	IDs    id.Generator
	Random random.Source
	// AccrualClock replaces the ticker clock, mainly in tests.
	AccrualClock sessionout.AccrualClock
}

func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	return NewWithOptions(cfg, log, Options{})
}

func NewWithOptions(cfg config.Config, log zerolog.Logger, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = id.TimeOrdered{}
	}
	if opts.Random == nil {
		opts.Random = random.Global{}
	}
	app := &App{Config: cfg, log: log}

	var recorder metrics.Recorder = metrics.Noop{}
	if cfg.Metrics.Addr != "" {
		prom := metrics.NewPrometheusRecorder()
		addr, err := app.serveMetrics(cfg.Metrics.Addr, prom.Handler())
		if err != nil {
			return nil, err
		}
		app.MetricsAddr = addr
		recorder = prom
	}

	store, err := newRecordStore(cfg.Ledger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		app.closers = append(app.closers, closer.Close)
	}

	earningsUC := earningsusecase.NewInteractor(
		earningsservice.NewEarningsService(
			earningsoutadapter.NewMemoryStateStore(initialState(cfg, opts.IDs)),
			settingsFrom(cfg.Rates),
			recorder,
			log.With().Str("module", "earnings").Logger(),
		),
		cfg.Currency.Symbol,
	)

	ledgerUC := ledgerusecase.NewInteractor(
		ledgerservice.NewLedgerService(opts.Clock, opts.IDs, store, recorder, log.With().Str("module", "ledger").Logger()),
		ledgerusecase.Options{
			Earnings: earningsUC,
			Policy: ledgerservice.QuickAddPolicy{
				MinMinutes: cfg.Rates.QuickAddMinMinutes,
				MaxMinutes: cfg.Rates.QuickAddMaxMinutes,
				PerMinute:  money.Cents(cfg.Rates.PerMinuteCents),
			},
			Random:    opts.Random,
			Clock:     opts.Clock,
			Exporters: ledgeroutadapter.Exporters(),
			Currency:  cfg.Currency.Symbol,
		},
	)

	if cfg.Seed.Enabled && cfg.Seed.Records {
		if err := seedRecords(context.Background(), ledgerUC, opts.Clock.Now()); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("seed ledger: %w", err)
		}
	}

	accrual := opts.AccrualClock
	if accrual == nil {
		accrual = sessionoutadapter.NewTickerClock(context.Background())
	}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(opts.Clock, opts.IDs, money.Cents(cfg.Rates.PerSecondCents)),
		sessionusecase.Options{
			Earnings: earningsUC,
			Ledger:   ledgerUC,
			Clock:    accrual,
			Interval: cfg.Rates.TickInterval,
			Metrics:  recorder,
			Log:      log.With().Str("module", "session").Logger(),
		},
	)
	app.session = sessionUC
	// the session goes first so no tick lands on a closed store
	app.closers = append([]func() error{sessionUC.Close}, app.closers...)

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.LedgerCLI = ledgerinadapter.NewCLIHandler(ledgerUC)
	app.EarningsCLI = earningsinadapter.NewCLIHandler(earningsUC)
	return app, nil
}

func newRecordStore(cfg config.LedgerConfig) (ledgerout.RecordStore, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := ledgeroutadapter.NewSQLiteRecordStore(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("new sqlite ledger: %w", err)
		}
		return store, nil
	case "memory", "":
		return ledgeroutadapter.NewMemoryRecordStore(), nil
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", cfg.Driver)
	}
}

func initialState(cfg config.Config, ids id.Generator) earningsdomain.State {
	if !cfg.Seed.Enabled {
		return earningsdomain.State{}
	}
	state := earningsdomain.State{
		Totals: earningsdomain.Totals{
			AllTime:      money.Cents(cfg.Seed.AllTimeCents),
			Today:        money.Cents(cfg.Seed.TodayCents),
			WatchedToday: cfg.Seed.WatchedToday,
		},
	}
	if cfg.Seed.Bank.Enabled {
		state.Bank = &earningsdomain.BankAccount{
			ID:      ids.New(),
			Bank:    cfg.Seed.Bank.Name,
			Account: cfg.Seed.Bank.Account,
			Balance: money.Cents(cfg.Seed.Bank.BalanceCents),
		}
	}
	return state
}

func settingsFrom(r config.RatesConfig) earningsdomain.Settings {
	return earningsdomain.Settings{
		PerSecond:          money.Cents(r.PerSecondCents),
		PerMinute:          money.Cents(r.PerMinuteCents),
		MinWithdrawal:      money.Cents(r.MinWithdrawalCents),
		AutoWithdraw:       r.AutoWithdraw,
		QuickAddMinMinutes: r.QuickAddMinMinutes,
		QuickAddMaxMinutes: r.QuickAddMaxMinutes,
		TickInterval:       r.TickInterval,
	}
}

// seedRecords appends the demo history oldest first so the newest sample
// lists on top. Totals are seeded separately and do not move.
func seedRecords(ctx context.Context, ledger ledgerin.Usecase, now time.Time) error {
	samples := []dto.AppendInput{
		{Title: "Imagine Dragons - Bones", Category: "audio-track", DurationMin: 3, EarningsCts: 80, Platform: "Spotify", CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "Stranger Things S4E1", Category: "series-episode", DurationMin: 45, EarningsCts: 720, Platform: "Netflix", CreatedAt: now.Add(-time.Hour)},
		{Title: "Como Ganhar Dinheiro Online", Category: "video-stream", DurationMin: 15, EarningsCts: 250, Platform: "YouTube", CreatedAt: now},
	}
	for _, sample := range samples {
		sample.Origin = "seed"
		if _, err := ledger.Append(ctx, sample); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) serveMetrics(addr string, handler http.Handler) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen metrics: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	a.log.Info().Str("addr", ln.Addr().String()).Msg("serving metrics")
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	return ln.Addr().String(), nil
}

// Close tears down the session clock, the metrics server and the ledger
// store. It returns the first error and keeps going.
func (a *App) Close() error {
	var first error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.Config.Currency.Symbol, app.SessionCLI, app.LedgerCLI, app.EarningsCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if closeErr := app.session.Close(); err == nil {
		err = closeErr
	}
	return err
}
