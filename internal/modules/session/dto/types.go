package dto

import "time"

type StartInput struct {
	Title string
}

type StartOutput struct {
	SessionID string
	Title     string
	StartedAt time.Time
}

type TickInput struct {
	Generation uint64
}

type TickOutput struct {
	Applied        bool
	ElapsedSeconds int
}

type StopOutput struct {
	SessionID      string
	RecordID       string
	RecordSeq      int64
	Title          string
	ElapsedSeconds int
	DurationMin    int
	EarningsCts    int64
}

type ActiveSessionOutput struct {
	SessionID      string
	Title          string
	ElapsedSeconds int
	Elapsed        string
	EarningsCts    int64
	StartedAt      time.Time
}
