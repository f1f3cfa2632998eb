package out

import (
	"context"
	"sync"

	"moneywatch/internal/modules/ledger/domain"
	ledgerout "moneywatch/internal/modules/ledger/port/out"
)

type MemoryRecordStore struct {
	mu      sync.Mutex
	seq     int64
	records []domain.WatchRecord
}

func NewMemoryRecordStore() ledgerout.RecordStore {
	return &MemoryRecordStore{}
}

func (s *MemoryRecordStore) Append(_ context.Context, record domain.WatchRecord) (domain.WatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	record.Seq = s.seq
	s.records = append(s.records, record)
	return record, nil
}

func (s *MemoryRecordStore) Discard(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryRecordStore) List(context.Context) ([]domain.WatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.WatchRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
