package repository

import (
	"context"
	"fmt"

	"github.com/GooferByte/zakat-backend/internal/models"
)

var (
	// ErrDuplicateSnapshot indicates a snapshot with the same fetch timestamp
	// was already recorded.
	ErrDuplicateSnapshot = fmt.Errorf("duplicate snapshot")
)

// SnapshotRepository abstracts persistence of observed live rate snapshots.
type SnapshotRepository interface {
	RecordSnapshot(ctx context.Context, rec models.SnapshotRecord) error
	ListSnapshots(ctx context.Context, limit int) ([]models.SnapshotRecord, error)
}
