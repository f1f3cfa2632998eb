package domain

import (
	"fmt"
	"strings"
	"time"

	"moneywatch/internal/platform/money"
)

// Totals accumulate incrementally and are never rebuilt from the ledger.
// Accrue is the only way to change either earnings field, which keeps
// AllTime >= Today.
type Totals struct {
	AllTime      money.Money
	Today        money.Money
	WatchedToday int
}

func (t Totals) Accrue(amount money.Money) (Totals, error) {
	if amount < 0 {
		return t, fmt.Errorf("accrual amount must be non-negative, got %s", amount)
	}
	t.AllTime += amount
	t.Today += amount
	return t, nil
}

func (t Totals) CountCompletion() Totals {
	t.WatchedToday++
	return t
}

// BankAccount is display data. Its balance is not linked to Totals.
type BankAccount struct {
	ID      string
	Bank    string
	Account string
	Balance money.Money
}

// State is everything the aggregator owns.
type State struct {
	Totals Totals
	Bank   *BankAccount
}

// MaskAccount keeps the last four digits of an account number.
func MaskAccount(raw string) string {
	digits := make([]rune, 0, len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return "**** " + string(digits)
	}
	return "**** " + string(digits[len(digits)-4:])
}

// Settings are the monetisation parameters shown on the settings tab.
type Settings struct {
	PerSecond          money.Money
	PerMinute          money.Money
	MinWithdrawal      money.Money
	AutoWithdraw       bool
	QuickAddMinMinutes int
	QuickAddMaxMinutes int
	TickInterval       time.Duration
}

// CategoryShare is one row of the bank tab breakdown.
type CategoryShare struct {
	Category string
	Label    string
	Amount   money.Money
	Percent  int
}

// StaticBreakdown is fixed display data and is not derived from the ledger.
func StaticBreakdown() []CategoryShare {
	return []CategoryShare{
		{Category: "video-stream", Label: "Video", Amount: 4530, Percent: 45},
		{Category: "series-episode", Label: "Series", Amount: 12850, Percent: 75},
		{Category: "audio-track", Label: "Music", Amount: 3215, Percent: 30},
		{Category: "film", Label: "Film", Amount: 4190, Percent: 40},
	}
}

// ConnectRequest carries the fields of the connect-account form.
type ConnectRequest struct {
	Bank    string
	Agency  string
	Account string
}

// Validate only checks presence.
func (r ConnectRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.Bank) == "" {
		missing = append(missing, "bank")
	}
	if strings.TrimSpace(r.Agency) == "" {
		missing = append(missing, "agency")
	}
	if strings.TrimSpace(r.Account) == "" {
		missing = append(missing, "account")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	return nil
}
