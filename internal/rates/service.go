// Package rates resolves current gold and silver per-gram prices. A single
// cached snapshot avoids hammering the upstream API; when no credential is
// configured or the upstream is down the service degrades to approximate
// static prices instead of failing.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/GooferByte/zakat-backend/internal/config"
	"github.com/GooferByte/zakat-backend/internal/metrics"
	"github.com/GooferByte/zakat-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service exposes rate lookup behaviour.
type Service interface {
	GetRates(ctx context.Context) (models.RateSnapshot, error)
}

const defaultCurrency = "INR"

var (
	gramsPerTroyOunce = decimal.RequireFromString("31.1035")

	// 22K is 91.6% pure, 18K is 75% pure.
	purity22K = decimal.RequireFromString("0.916")
	purity18K = decimal.RequireFromString("0.75")

	// Approximate per-gram prices used when live data is unavailable.
	staticGold24K = decimal.NewFromInt(6500)
	staticGold22K = decimal.NewFromInt(5950)
	staticGold18K = decimal.NewFromInt(4875)
	staticSilver  = decimal.NewFromInt(82)
)

// GoldAPIService fetches spot prices from goldapi.io and keeps the last live
// snapshot in a single-slot cache. Concurrent callers may race past an
// expired cache and fetch redundantly; last writer wins, which is harmless.
type GoldAPIService struct {
	mu        sync.Mutex
	cached    *models.RateSnapshot
	fetchedAt time.Time

	ttl        time.Duration
	baseURL    string
	apiKey     string
	httpClient *http.Client
	nowFunc    func() time.Time
	log        *logrus.Entry
}

func NewGoldAPIService(cfg config.Config, logger *logrus.Logger) *GoldAPIService {
	return &GoldAPIService{
		ttl:        cfg.RateTTL,
		baseURL:    cfg.GoldAPIBaseURL,
		apiKey:     cfg.GoldAPIKey,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		nowFunc:    func() time.Time { return time.Now().UTC() },
		log:        logger.WithField("component", "rates"),
	}
}

// GetRates returns a usable snapshot in every case: cached, freshly fetched,
// or synthesized from static prices. Upstream failures never propagate.
func (s *GoldAPIService) GetRates(ctx context.Context) (models.RateSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if s.cached != nil && now.Sub(s.fetchedAt) < s.ttl {
		metrics.RateCacheHits.Inc()
		s.log.Debug("returning cached rates")
		return *s.cached, nil
	}

	if s.apiKey == "" {
		s.log.Warn("GOLD_API_KEY not set, serving mock rates")
		metrics.RateFetches.WithLabelValues(string(models.SourceMock)).Inc()
		return staticSnapshot(now, models.SourceMock), nil
	}

	snap, err := s.fetchLive(ctx, now)
	if err != nil {
		s.log.WithError(err).Error("live rate fetch failed, serving fallback rates")
		metrics.RateFetches.WithLabelValues(string(models.SourceFallback)).Inc()
		// Fallback snapshots are not cached so the next call retries upstream.
		return staticSnapshot(now, models.SourceFallback), nil
	}

	metrics.RateFetches.WithLabelValues(string(models.SourceLive)).Inc()
	s.cached = &snap
	s.fetchedAt = now
	s.log.WithField("gold_24k_per_gram", snap.Gold24KPerGram).Info("fetched live rates")
	return snap, nil
}

func (s *GoldAPIService) fetchLive(ctx context.Context, now time.Time) (models.RateSnapshot, error) {
	goldPerOunce, err := s.fetchSpot(ctx, "XAU")
	if err != nil {
		return models.RateSnapshot{}, err
	}
	gold24K := goldPerOunce.Div(gramsPerTroyOunce)

	// Silver failing on its own does not sink the snapshot; the static
	// silver price is substituted and the snapshot stays tagged live.
	silverPerGram := staticSilver
	if silverPerOunce, err := s.fetchSpot(ctx, "XAG"); err != nil {
		s.log.WithError(err).Warn("silver fetch failed, substituting static silver rate")
	} else {
		silverPerGram = silverPerOunce.Div(gramsPerTroyOunce)
	}

	return models.RateSnapshot{
		Gold24KPerGram: gold24K.Round(2),
		Gold22KPerGram: gold24K.Mul(purity22K).Round(2),
		Gold18KPerGram: gold24K.Mul(purity18K).Round(2),
		SilverPerGram:  silverPerGram.Round(2),
		Currency:       defaultCurrency,
		Timestamp:      now,
		Source:         models.SourceLive,
	}, nil
}

// fetchSpot retrieves the troy-ounce spot price for one metal symbol.
func (s *GoldAPIService) fetchSpot(ctx context.Context, symbol string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s/%s", s.baseURL, symbol, defaultCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("building %s request: %w", symbol, err)
	}
	req.Header.Set("x-access-token", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching %s spot price: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("%s spot price: status %d, body: %s", symbol, resp.StatusCode, string(body))
	}

	var payload struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("decoding %s response: %w", symbol, err)
	}
	return decimal.NewFromFloat(payload.Price), nil
}

func staticSnapshot(now time.Time, source models.RateSource) models.RateSnapshot {
	return models.RateSnapshot{
		Gold24KPerGram: staticGold24K,
		Gold22KPerGram: staticGold22K,
		Gold18KPerGram: staticGold18K,
		SilverPerGram:  staticSilver,
		Currency:       defaultCurrency,
		Timestamp:      now,
		Source:         source,
	}
}
