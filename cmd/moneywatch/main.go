package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"moneywatch/internal/bootstrap"
	ledgeroutadapter "moneywatch/internal/modules/ledger/adapter/out"
	"moneywatch/internal/platform/config"
	apperrors "moneywatch/internal/platform/errors"
	"moneywatch/internal/platform/logging"
	"moneywatch/internal/platform/money"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "moneywatch",
		Short:         "Earn while you watch: timed sessions, quick adds and a running balance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (MONEYWATCH_* variables override it)")

	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newWatchCmd(&configPath))
	root.AddCommand(newAddCmd(&configPath))
	root.AddCommand(newHistoryCmd(&configPath))
	root.AddCommand(newBalanceCmd(&configPath))
	root.AddCommand(newBankCmd(&configPath))
	root.AddCommand(newSettingsCmd(&configPath))
	return root
}

// loadApp builds the application with its logger writing to logOut. The
// returned cleanup must run before the command returns.
func loadApp(configPath string, logOut io.Writer) (*bootstrap.App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, logCloser, err := logging.New(cfg.Logger, logOut)
	if err != nil {
		return nil, nil, err
	}
	app, err := bootstrap.New(cfg, log)
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
		_ = logCloser.Close()
	}
	return app, cleanup, nil
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the moneywatch terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			// the terminal belongs to the UI, so logs only go to logger.file
			app, cleanup, err := loadApp(*configPath, nil)
			if err != nil {
				return err
			}
			defer cleanup()
			return bootstrap.RunTUI(app)
		},
	}
}

func newWatchCmd(configPath *string) *cobra.Command {
	var title string
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a timed watch session, then record it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if duration <= 0 {
				return fmt.Errorf("%w: --for must be positive", apperrors.ErrInvalidInput)
			}
			app, cleanup, err := loadApp(*configPath, logging.Console(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			started, err := app.SessionCLI.Start(ctx, title)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "watching %q for %s (ctrl+c stops early)\n", started.Title, duration)

			timer := time.NewTimer(duration)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
			}

			out, err := app.SessionCLI.Stop(context.Background())
			if err != nil {
				return err
			}
			currency := app.Config.Currency.Symbol
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded %q: %ds, %d min, +%s (record #%d)\n",
				out.Title, out.ElapsedSeconds, out.DurationMin, money.Cents(out.EarningsCts).Format(currency), out.RecordSeq)
			return printTotals(cmd, app)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "what you are watching")
	cmd.Flags().DurationVar(&duration, "for", time.Minute, "how long to watch")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newAddCmd(configPath *string) *cobra.Command {
	var title, category, platform string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log something already watched with a drawn duration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath, logging.Console(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := app.LedgerCLI.QuickAdd(cmd.Context(), title, category, platform)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %q [%s] on %s: %d min, +%s %s\n",
				rec.Title, rec.CategoryLabel, rec.Platform, rec.DurationMin, app.Config.Currency.Symbol, rec.Earnings)
			return printTotals(cmd, app)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "item title")
	cmd.Flags().StringVar(&category, "category", "video-stream", "video-stream|series-episode|audio-track|film (aliases: youtube, serie, musica, filme)")
	cmd.Flags().StringVar(&platform, "platform", "", "where it was watched (default Manual)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newHistoryCmd(configPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the watch ledger, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath, logging.Console(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := app.LedgerCLI.Export(cmd.Context(), output)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out.Content)
			return err
		},
	}
	formats := ledgeroutadapter.FormatNames(ledgeroutadapter.Exporters())
	cmd.Flags().StringVarP(&output, "output", "o", ledgeroutadapter.FormatTable, strings.Join(formats, "|"))
	return cmd
}

func newBalanceCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print totals and the connected bank account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath, logging.Console(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer cleanup()
			if err := printTotals(cmd, app); err != nil {
				return err
			}
			bank, err := app.EarningsCLI.Bank(cmd.Context())
			if errors.Is(err, apperrors.ErrNoBankAccount) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "bank: not connected")
				return nil
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bank: %s %s %s\n", bank.Bank, bank.Account, money.Cents(bank.BalanceCts).Format(bank.Currency))
			return nil
		},
	}
}

func newBankCmd(configPath *string) *cobra.Command {
	bank := &cobra.Command{Use: "bank", Short: "Bank account requests"}

	var name, agency, account string
	connectCmd := &cobra.Command{
		Use:   "connect",
		Short: "Request a bank account connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath, logging.Console(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer cleanup()
			out, err := app.EarningsCLI.ConnectBank(cmd.Context(), name, agency, account)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}
	connectCmd.Flags().StringVar(&name, "bank", "", "bank name")
	connectCmd.Flags().StringVar(&agency, "agency", "", "agency number")
	connectCmd.Flags().StringVar(&account, "account", "", "account number")

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Request a withdrawal to the connected account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath, logging.Console(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer cleanup()
			out, err := app.EarningsCLI.Withdraw(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return nil
		},
	}

	bank.AddCommand(connectCmd, withdrawCmd)
	return bank
}

func newSettingsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the monetisation settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath, logging.Console(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer cleanup()
			s, err := app.EarningsCLI.Settings(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "rate per minute: %s\n", money.Cents(s.PerMinuteCts).Format(s.Currency))
			_, _ = fmt.Fprintf(w, "rate per second: %s\n", money.Cents(s.PerSecondCts).Format(s.Currency))
			_, _ = fmt.Fprintf(w, "minimum withdrawal: %s\n", money.Cents(s.MinWithdrawalCts).Format(s.Currency))
			_, _ = fmt.Fprintf(w, "auto-withdraw: %t\n", s.AutoWithdraw)
			_, _ = fmt.Fprintf(w, "quick-add duration: %d-%d min\n", s.QuickAddMinMinutes, s.QuickAddMaxMinutes)
			_, _ = fmt.Fprintf(w, "accrual interval: %s\n", s.TickInterval)
			return nil
		},
	}
}

func printTotals(cmd *cobra.Command, app *bootstrap.App) error {
	totals, err := app.EarningsCLI.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "total earned: %s  today: %s  watched today: %d\n",
		money.Cents(totals.AllTimeCts).Format(totals.Currency),
		money.Cents(totals.TodayCts).Format(totals.Currency),
		totals.WatchedToday,
	)
	return nil
}
