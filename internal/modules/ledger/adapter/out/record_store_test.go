package out

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"moneywatch/internal/modules/ledger/domain"
	ledgerout "moneywatch/internal/modules/ledger/port/out"
)

func sampleRecord(id, title string, at time.Time) domain.WatchRecord {
	return domain.WatchRecord{
		ID:          id,
		Title:       title,
		Category:    domain.CategorySeriesEpisode,
		DurationMin: 45,
		Earnings:    720,
		CreatedAt:   at,
		Platform:    "Netflix",
		Origin:      domain.OriginSeed,
	}
}

func exerciseRecordStore(t *testing.T, store ledgerout.RecordStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	empty, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty ledger, got %d", len(empty))
	}

	var last int64
	for i, title := range []string{"one", "two", "three"} {
		rec, err := store.Append(ctx, sampleRecord("id-"+title, title, base.Add(time.Duration(i)*time.Minute)))
		if err != nil {
			t.Fatalf("append %s: %v", title, err)
		}
		if rec.Seq <= last {
			t.Fatalf("seq must grow: %d after %d", rec.Seq, last)
		}
		last = rec.Seq
	}

	records, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Title != "three" || records[1].Title != "two" || records[2].Title != "one" {
		t.Fatalf("expected newest first, got %s %s %s", records[0].Title, records[1].Title, records[2].Title)
	}
	got := records[2]
	if got.Category != domain.CategorySeriesEpisode || got.Earnings != 720 || got.DurationMin != 45 || got.Platform != "Netflix" || got.Origin != domain.OriginSeed {
		t.Fatalf("fields did not round-trip: %+v", got)
	}
	if !got.CreatedAt.Equal(base) {
		t.Fatalf("timestamp did not round-trip: %s", got.CreatedAt)
	}

	if err := store.Discard(ctx, "id-two"); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if err := store.Discard(ctx, "id-missing"); err != nil {
		t.Fatalf("discard of an unknown id must be a no-op: %v", err)
	}
	records, err = store.List(ctx)
	if err != nil {
		t.Fatalf("list after discard: %v", err)
	}
	if len(records) != 2 || records[0].Title != "three" || records[1].Title != "one" {
		t.Fatalf("unexpected ledger after discard: %+v", records)
	}
	four, err := store.Append(ctx, sampleRecord("id-four", "four", base.Add(time.Hour)))
	if err != nil {
		t.Fatalf("append after discard: %v", err)
	}
	if four.Seq <= last {
		t.Fatalf("seq must not be reused after discard: %d <= %d", four.Seq, last)
	}
}

func TestMemoryRecordStore(t *testing.T) {
	exerciseRecordStore(t, NewMemoryRecordStore())
}

func TestSQLiteRecordStoreInMemory(t *testing.T) {
	store, err := NewSQLiteRecordStore("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	exerciseRecordStore(t, store)
}

func TestSQLiteRecordStorePersists(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "data", "ledger.db")
	store, err := NewSQLiteRecordStore(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Append(ctx, sampleRecord("id-1", "kept", time.Now().UTC())); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteRecordStore(dsn)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	records, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].Title != "kept" {
		t.Fatalf("expected persisted record, got %+v", records)
	}
	next, err := reopened.Append(ctx, sampleRecord("id-2", "next", time.Now().UTC()))
	if err != nil {
		t.Fatalf("append after reopen: %v", err)
	}
	if next.Seq <= records[0].Seq {
		t.Fatalf("seq must keep growing across reopen: %d <= %d", next.Seq, records[0].Seq)
	}
}
