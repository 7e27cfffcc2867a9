package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GooferByte/zakat-backend/internal/models"
	"github.com/GooferByte/zakat-backend/internal/repository"

	"github.com/lib/pq"
)

// Repository implements SnapshotRepository backed by PostgreSQL. The
// rate_snapshots table carries a unique constraint on fetched_at, which maps
// duplicate recordings onto ErrDuplicateSnapshot.
type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) RecordSnapshot(ctx context.Context, rec models.SnapshotRecord) error {
	const query = `
		INSERT INTO rate_snapshots
		(id, gold_24k_per_gram, gold_22k_per_gram, gold_18k_per_gram, silver_per_gram, currency, source, fetched_at, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Rates.Gold24KPerGram, rec.Rates.Gold22KPerGram, rec.Rates.Gold18KPerGram,
		rec.Rates.SilverPerGram, rec.Rates.Currency, string(rec.Rates.Source), rec.Rates.Timestamp, rec.RecordedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSnapshot
		}
		return err
	}
	return nil
}

func (r *Repository) ListSnapshots(ctx context.Context, limit int) ([]models.SnapshotRecord, error) {
	const query = `
		SELECT id, gold_24k_per_gram, gold_22k_per_gram, gold_18k_per_gram, silver_per_gram, currency, source, fetched_at, recorded_at
		FROM rate_snapshots
		ORDER BY fetched_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.SnapshotRecord{}
	for rows.Next() {
		var rec models.SnapshotRecord
		var source string
		if err := rows.Scan(&rec.ID, &rec.Rates.Gold24KPerGram, &rec.Rates.Gold22KPerGram, &rec.Rates.Gold18KPerGram,
			&rec.Rates.SilverPerGram, &rec.Rates.Currency, &source, &rec.Rates.Timestamp, &rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Rates.Source = models.RateSource(source)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
