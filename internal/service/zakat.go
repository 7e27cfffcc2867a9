package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/GooferByte/zakat-backend/internal/metrics"
	"github.com/GooferByte/zakat-backend/internal/models"
	"github.com/GooferByte/zakat-backend/internal/rates"
	"github.com/GooferByte/zakat-backend/internal/repository"
	"github.com/GooferByte/zakat-backend/internal/zakat"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ZakatService ties the rate provider and the calculator together and records
// observed live snapshots for the history endpoint.
type ZakatService struct {
	rates  rates.Service
	repo   repository.SnapshotRepository
	now    func() time.Time
	logger *logrus.Entry
}

func NewZakatService(rateSvc rates.Service, repo repository.SnapshotRepository, logger *logrus.Logger) *ZakatService {
	return &ZakatService{
		rates:  rateSvc,
		repo:   repo,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.WithField("component", "zakat-service"),
	}
}

func (s *ZakatService) CurrentRates(ctx context.Context) (models.RateSnapshot, error) {
	snap, err := s.rates.GetRates(ctx)
	if err != nil {
		return models.RateSnapshot{}, err
	}
	s.recordIfLive(ctx, snap)
	return snap, nil
}

func (s *ZakatService) NisabThresholds(ctx context.Context) (models.NisabThresholds, error) {
	snap, err := s.CurrentRates(ctx)
	if err != nil {
		return models.NisabThresholds{}, err
	}
	return zakat.Thresholds(snap), nil
}

// Calculate expects a request that already passed validation.
func (s *ZakatService) Calculate(ctx context.Context, req models.CalculationRequest) (*models.CalculationResult, error) {
	snap, err := s.CurrentRates(ctx)
	if err != nil {
		return nil, err
	}
	result := zakat.Calculate(req, snap, s.now())
	metrics.ZakatCalculations.WithLabelValues(
		string(result.NisabBasis),
		strconv.FormatBool(result.IsZakatApplicable),
	).Inc()
	return &result, nil
}

func (s *ZakatService) RateHistory(ctx context.Context, limit int) ([]models.SnapshotRecord, error) {
	return s.repo.ListSnapshots(ctx, limit)
}

// recordIfLive persists live snapshots only; mock and fallback data never
// reaches the store. A cache hit yields the same fetch timestamp and is
// dropped as a duplicate. Recording failures do not fail the request.
func (s *ZakatService) recordIfLive(ctx context.Context, snap models.RateSnapshot) {
	if snap.Source != models.SourceLive {
		return
	}
	rec := models.SnapshotRecord{
		ID:         uuid.NewString(),
		Rates:      snap,
		RecordedAt: s.now(),
	}
	if err := s.repo.RecordSnapshot(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateSnapshot) {
			return
		}
		s.logger.WithError(err).Warn("failed to record rate snapshot")
	}
}
