package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "MONEYWATCH"

type CurrencyConfig struct {
	Symbol string `mapstructure:"symbol"`
}

type RatesConfig struct {
	PerSecondCents     int64         `mapstructure:"per_second_cents" validate:"min:0"`
	PerMinuteCents     int64         `mapstructure:"per_minute_cents" validate:"min:0"`
	TickInterval       time.Duration `mapstructure:"tick_interval"`
	QuickAddMinMinutes int           `mapstructure:"quick_add_min_minutes" validate:"min:0"`
	QuickAddMaxMinutes int           `mapstructure:"quick_add_max_minutes" validate:"min:0"`
	MinWithdrawalCents int64         `mapstructure:"min_withdrawal_cents" validate:"min:0"`
	AutoWithdraw       bool          `mapstructure:"auto_withdraw"`
}

type LedgerConfig struct {
	Driver string `mapstructure:"driver" validate:"required|in:memory,sqlite"`
	DSN    string `mapstructure:"dsn"`
}

type SeedBankConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Name         string `mapstructure:"name"`
	Account      string `mapstructure:"account"`
	BalanceCents int64  `mapstructure:"balance_cents" validate:"min:0"`
}

type SeedConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	Records      bool           `mapstructure:"records"`
	AllTimeCents int64          `mapstructure:"all_time_cents" validate:"min:0"`
	TodayCents   int64          `mapstructure:"today_cents" validate:"min:0"`
	WatchedToday int            `mapstructure:"watched_today" validate:"min:0"`
	Bank         SeedBankConfig `mapstructure:"bank"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic,disabled"`
	File  string `mapstructure:"file"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Path     string         `mapstructure:"-"`
	Currency CurrencyConfig `mapstructure:"currency"`
	Rates    RatesConfig    `mapstructure:"rates"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Seed     SeedConfig     `mapstructure:"seed"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("currency.symbol", "R$")

	v.SetDefault("rates.per_second_cents", 1)
	v.SetDefault("rates.per_minute_cents", 16)
	v.SetDefault("rates.tick_interval", time.Second)
	v.SetDefault("rates.quick_add_min_minutes", 5)
	v.SetDefault("rates.quick_add_max_minutes", 65)
	v.SetDefault("rates.min_withdrawal_cents", 5000)
	v.SetDefault("rates.auto_withdraw", true)

	v.SetDefault("ledger.driver", "memory")
	v.SetDefault("ledger.dsn", "")

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.records", true)
	v.SetDefault("seed.all_time_cents", 24785)
	v.SetDefault("seed.today_cents", 1240)
	v.SetDefault("seed.watched_today", 8)
	v.SetDefault("seed.bank.enabled", true)
	v.SetDefault("seed.bank.name", "Banco do Brasil")
	v.SetDefault("seed.bank.account", "**** 1234")
	v.SetDefault("seed.bank.balance_cents", 24785)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", "")

	v.SetDefault("metrics.addr", "")
}

// Defaults returns the configuration used when no file or environment
// overrides are present.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	cfg := Config{}
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load merges defaults, an optional YAML file, an optional .env file in the
// working directory and MONEYWATCH_* environment variables, in that order of
// precedence from lowest to highest.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	v := validate.Struct(&c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.Error())
	}
	if c.Rates.TickInterval <= 0 {
		return fmt.Errorf("invalid config: rates.tick_interval must be positive")
	}
	if c.Rates.QuickAddMinMinutes > c.Rates.QuickAddMaxMinutes {
		return fmt.Errorf("invalid config: rates.quick_add_min_minutes exceeds rates.quick_add_max_minutes")
	}
	if c.Seed.Enabled && c.Seed.TodayCents > c.Seed.AllTimeCents {
		return fmt.Errorf("invalid config: seed.today_cents exceeds seed.all_time_cents")
	}
	return nil
}
