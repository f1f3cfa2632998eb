package out

import (
	"context"

	"moneywatch/internal/modules/ledger/domain"
)

// RecordStore is append-only. Append assigns Seq and returns the stored
// record; List returns newest first. Discard only withdraws a record whose
// unit of work failed; it is a no-op for unknown ids.
type RecordStore interface {
	Append(ctx context.Context, record domain.WatchRecord) (domain.WatchRecord, error)
	Discard(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.WatchRecord, error)
}

// Exporter renders a ledger snapshot, newest first, in one format.
type Exporter interface {
	Format() string
	Export(ctx context.Context, records []domain.WatchRecord, summary domain.Summary) ([]byte, error)
}
