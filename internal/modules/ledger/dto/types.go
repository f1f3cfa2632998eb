package dto

import "time"

type AppendInput struct {
	Title       string
	Category    string
	DurationMin int
	EarningsCts int64
	Platform    string
	Origin      string
	CreatedAt   time.Time
}

type QuickAddInput struct {
	Title    string
	Category string
	Platform string
}

type ExportInput struct {
	Format string
}

type RecordOutput struct {
	Seq           int64     `json:"seq" yaml:"seq"`
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Category      string    `json:"category" yaml:"category"`
	CategoryLabel string    `json:"category_label" yaml:"category_label"`
	DurationMin   int       `json:"duration_minutes" yaml:"duration_minutes"`
	EarningsCts   int64     `json:"earnings_cents" yaml:"earnings_cents"`
	Earnings      string    `json:"earnings" yaml:"earnings"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	Platform      string    `json:"platform" yaml:"platform"`
	Origin        string    `json:"origin" yaml:"origin"`
}

type ExportOutput struct {
	Format  string
	Content []byte
}
