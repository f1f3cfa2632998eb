package domain

import (
	"time"

	"moneywatch/internal/platform/money"
)

// Summary is the totals header written alongside an exported ledger.
type Summary struct {
	Currency     string
	AllTime      money.Money
	Today        money.Money
	WatchedToday int
	Records      int
	GeneratedAt  time.Time
}
