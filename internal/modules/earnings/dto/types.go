package dto

import "time"

type AccrueInput struct {
	AmountCts int64
	Origin    string
}

type ConnectBankInput struct {
	Bank    string
	Agency  string
	Account string
}

type TotalsOutput struct {
	Currency       string
	AllTimeCts     int64
	TodayCts       int64
	WatchedToday   int
	HasBank        bool
	BankBalanceCts int64
}

type BankOutput struct {
	ID         string
	Bank       string
	Account    string
	BalanceCts int64
	Currency   string
}

type ActionOutput struct {
	Accepted bool
	Message  string
}

type CategoryShareOutput struct {
	Category  string
	Label     string
	AmountCts int64
	Percent   int
}

type SettingsOutput struct {
	Currency           string
	PerSecondCts       int64
	PerMinuteCts       int64
	MinWithdrawalCts   int64
	AutoWithdraw       bool
	QuickAddMinMinutes int
	QuickAddMaxMinutes int
	TickInterval       time.Duration
}
