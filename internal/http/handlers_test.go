package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GooferByte/zakat-backend/internal/config"
	"github.com/GooferByte/zakat-backend/internal/models"
	"github.com/GooferByte/zakat-backend/internal/repository/memory"
	"github.com/GooferByte/zakat-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRates struct {
	snap models.RateSnapshot
}

func (s *stubRates) GetRates(ctx context.Context) (models.RateSnapshot, error) {
	return s.snap, nil
}

func newTestRouter(source models.RateSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)
	snap := models.RateSnapshot{
		Gold24KPerGram: decimal.NewFromInt(6500),
		Gold22KPerGram: decimal.NewFromInt(5950),
		Gold18KPerGram: decimal.NewFromInt(4875),
		SilverPerGram:  decimal.NewFromInt(82),
		Currency:       "INR",
		Timestamp:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:         source,
	}
	svc := service.NewZakatService(&stubRates{snap: snap}, memory.New(), log)
	return Router(svc, config.Config{CORSOrigins: []string{"*"}}, log)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRootGreeting(t *testing.T) {
	w := doRequest(newTestRouter(models.SourceMock), http.MethodGet, "/api/", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "Zakat")
}

func TestCurrentRates(t *testing.T) {
	w := doRequest(newTestRouter(models.SourceMock), http.MethodGet, "/api/rates/current", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp rateSnapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6500.0, resp.Gold24KPerGram)
	assert.Equal(t, 82.0, resp.SilverPerGram)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "mock", resp.Source)
}

func TestNisabThresholds(t *testing.T) {
	w := doRequest(newTestRouter(models.SourceMock), http.MethodGet, "/api/nisab/thresholds", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp nisabThresholdsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 87.48, resp.GoldGrams)
	assert.Equal(t, 612.36, resp.SilverGrams)
	assert.Equal(t, 568620.0, resp.GoldValueINR)
	assert.Equal(t, 50213.52, resp.SilverValueINR)
	assert.Equal(t, "INR", resp.Currency)
}

func TestCalculate(t *testing.T) {
	body := `{
		"assets": {"gold_24k_grams": 10},
		"liabilities": {},
		"nisab_basis": "silver"
	}`
	w := doRequest(newTestRouter(models.SourceMock), http.MethodPost, "/api/zakat/calculate", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp calculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 65000.0, resp.TotalAssets)
	assert.Equal(t, 0.0, resp.TotalLiabilities)
	assert.Equal(t, 65000.0, resp.NetWealth)
	assert.Equal(t, 50213.52, resp.NisabThreshold)
	assert.Equal(t, "silver", resp.NisabBasis)
	assert.True(t, resp.IsZakatApplicable)
	assert.Equal(t, 1625.0, resp.ZakatAmount)
	assert.Equal(t, 2.5, resp.ZakatPercentage)
	assert.Equal(t, 65000.0, resp.AssetBreakdown["gold"])
	assert.Equal(t, "mock", resp.RatesUsed.Source)
	assert.False(t, resp.CalculationDate.IsZero())
}

func TestCalculateDefaultsToSilverBasis(t *testing.T) {
	body := `{"assets": {}, "liabilities": {}}`
	w := doRequest(newTestRouter(models.SourceMock), http.MethodPost, "/api/zakat/calculate", body)

	require.Equal(t, http.StatusOK, w.Code)
	var resp calculationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "silver", resp.NisabBasis)
	assert.False(t, resp.IsZakatApplicable)
	assert.Equal(t, 0.0, resp.ZakatAmount)
}

func TestCalculateRejectsNegativeValues(t *testing.T) {
	body := `{"assets": {"cash_in_hand": -5}, "liabilities": {}, "nisab_basis": "silver"}`
	w := doRequest(newTestRouter(models.SourceMock), http.MethodPost, "/api/zakat/calculate", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cash_in_hand")
}

func TestCalculateRejectsUnknownBasis(t *testing.T) {
	body := `{"assets": {}, "liabilities": {}, "nisab_basis": "platinum"}`
	w := doRequest(newTestRouter(models.SourceMock), http.MethodPost, "/api/zakat/calculate", body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "nisab_basis")
}

func TestCalculateRejectsMalformedJSON(t *testing.T) {
	w := doRequest(newTestRouter(models.SourceMock), http.MethodPost, "/api/zakat/calculate", "{not json")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateHistory(t *testing.T) {
	router := newTestRouter(models.SourceLive)

	// A live rates call records a snapshot.
	require.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/rates/current", "").Code)

	w := doRequest(router, http.MethodGet, "/api/rates/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Snapshots []snapshotRecordResponse `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Snapshots, 1)
	assert.Equal(t, "live", resp.Snapshots[0].Rates.Source)
	assert.NotEmpty(t, resp.Snapshots[0].ID)
}

func TestRateHistoryRejectsBadLimit(t *testing.T) {
	w := doRequest(newTestRouter(models.SourceLive), http.MethodGet, "/api/rates/history?limit=zero", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMockSnapshotsNotRecorded(t *testing.T) {
	router := newTestRouter(models.SourceMock)

	require.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/rates/current", "").Code)

	w := doRequest(router, http.MethodGet, "/api/rates/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Snapshots []snapshotRecordResponse `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Snapshots)
}
