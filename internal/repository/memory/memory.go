package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/GooferByte/zakat-backend/internal/models"
	"github.com/GooferByte/zakat-backend/internal/repository"
)

type InMemoryRepo struct {
	mu        sync.RWMutex
	snapshots []models.SnapshotRecord
	byFetched map[int64]struct{}
}

func New() *InMemoryRepo {
	return &InMemoryRepo{
		snapshots: []models.SnapshotRecord{},
		byFetched: make(map[int64]struct{}),
	}
}

func (r *InMemoryRepo) RecordSnapshot(ctx context.Context, rec models.SnapshotRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rec.Rates.Timestamp.UnixNano()
	if _, ok := r.byFetched[key]; ok {
		return repository.ErrDuplicateSnapshot
	}
	r.byFetched[key] = struct{}{}
	r.snapshots = append(r.snapshots, rec)
	return nil
}

func (r *InMemoryRepo) ListSnapshots(ctx context.Context, limit int) ([]models.SnapshotRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]models.SnapshotRecord(nil), r.snapshots...)
	slices.SortFunc(out, func(a, b models.SnapshotRecord) int {
		if a.Rates.Timestamp.After(b.Rates.Timestamp) {
			return -1
		}
		if a.Rates.Timestamp.Before(b.Rates.Timestamp) {
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
