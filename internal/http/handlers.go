package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GooferByte/zakat-backend/internal/config"
	"github.com/GooferByte/zakat-backend/internal/models"
	"github.com/GooferByte/zakat-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Router wires all handlers.
func Router(svc *service.ZakatService, cfg config.Config, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(logger))
	r.Use(cors.New(corsConfig(cfg)))

	api := r.Group("/api")
	api.GET("/", handleRoot)
	api.GET("/rates/current", func(c *gin.Context) {
		handleCurrentRates(c, svc, logger)
	})
	api.GET("/rates/history", func(c *gin.Context) {
		handleRateHistory(c, svc, logger)
	})
	api.GET("/nisab/thresholds", func(c *gin.Context) {
		handleNisabThresholds(c, svc, logger)
	})
	api.POST("/zakat/calculate", func(c *gin.Context) {
		handleCalculate(c, svc, logger)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

type rateSnapshotResponse struct {
	Gold24KPerGram float64   `json:"gold_24k_per_gram"`
	Gold22KPerGram float64   `json:"gold_22k_per_gram"`
	Gold18KPerGram float64   `json:"gold_18k_per_gram"`
	SilverPerGram  float64   `json:"silver_per_gram"`
	Currency       string    `json:"currency"`
	Timestamp      time.Time `json:"timestamp"`
	Source         string    `json:"source"`
}

type nisabThresholdsResponse struct {
	GoldGrams      float64 `json:"gold_grams"`
	SilverGrams    float64 `json:"silver_grams"`
	GoldValueINR   float64 `json:"gold_value_inr"`
	SilverValueINR float64 `json:"silver_value_inr"`
	Currency       string  `json:"currency"`
}

type calculationResponse struct {
	TotalAssets       float64              `json:"total_assets"`
	TotalLiabilities  float64              `json:"total_liabilities"`
	NetWealth         float64              `json:"net_wealth"`
	NisabThreshold    float64              `json:"nisab_threshold"`
	NisabBasis        string               `json:"nisab_basis"`
	IsZakatApplicable bool                 `json:"is_zakat_applicable"`
	ZakatAmount       float64              `json:"zakat_amount"`
	ZakatPercentage   float64              `json:"zakat_percentage"`
	CalculationDate   time.Time            `json:"calculation_date"`
	RatesUsed         rateSnapshotResponse `json:"rates_used"`
	AssetBreakdown    map[string]float64   `json:"asset_breakdown"`
}

type snapshotRecordResponse struct {
	ID         string               `json:"id"`
	Rates      rateSnapshotResponse `json:"rates"`
	RecordedAt time.Time            `json:"recorded_at"`
}

func handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Zakat Calculator API"})
}

func handleCurrentRates(c *gin.Context, svc *service.ZakatService, logger *logrus.Logger) {
	snap, err := svc.CurrentRates(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("current rates failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to fetch rates"})
		return
	}
	c.JSON(http.StatusOK, toRateSnapshotResponse(snap))
}

func handleRateHistory(c *gin.Context, svc *service.ZakatService, logger *logrus.Logger) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	records, err := svc.RateHistory(c.Request.Context(), limit)
	if err != nil {
		logger.WithError(err).Error("rate history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list snapshots"})
		return
	}
	resp := []snapshotRecordResponse{}
	for _, rec := range records {
		resp = append(resp, snapshotRecordResponse{
			ID:         rec.ID,
			Rates:      toRateSnapshotResponse(rec.Rates),
			RecordedAt: rec.RecordedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": resp})
}

func handleNisabThresholds(c *gin.Context, svc *service.ZakatService, logger *logrus.Logger) {
	thresholds, err := svc.NisabThresholds(c.Request.Context())
	if err != nil {
		logger.WithError(err).Error("nisab thresholds failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to calculate nisab"})
		return
	}
	c.JSON(http.StatusOK, nisabThresholdsResponse{
		GoldGrams:      thresholds.GoldGrams.InexactFloat64(),
		SilverGrams:    thresholds.SilverGrams.InexactFloat64(),
		GoldValueINR:   thresholds.GoldValue.InexactFloat64(),
		SilverValueINR: thresholds.SilverValue.InexactFloat64(),
		Currency:       thresholds.Currency,
	})
}

func handleCalculate(c *gin.Context, svc *service.ZakatService, logger *logrus.Logger) {
	var req models.CalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NisabBasis == "" {
		req.NisabBasis = models.BasisSilver
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := svc.Calculate(c.Request.Context(), req)
	if err != nil {
		logger.WithError(err).Error("calculation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "calculation error"})
		return
	}

	breakdown := map[string]float64{}
	for name, val := range result.AssetBreakdown {
		breakdown[name] = val.InexactFloat64()
	}
	c.JSON(http.StatusOK, calculationResponse{
		TotalAssets:       result.TotalAssets.InexactFloat64(),
		TotalLiabilities:  result.TotalLiabilities.InexactFloat64(),
		NetWealth:         result.NetWealth.InexactFloat64(),
		NisabThreshold:    result.NisabThreshold.InexactFloat64(),
		NisabBasis:        string(result.NisabBasis),
		IsZakatApplicable: result.IsZakatApplicable,
		ZakatAmount:       result.ZakatAmount.InexactFloat64(),
		ZakatPercentage:   result.ZakatPercentage.InexactFloat64(),
		CalculationDate:   result.CalculationDate,
		RatesUsed:         toRateSnapshotResponse(result.RatesUsed),
		AssetBreakdown:    breakdown,
	})
}

func toRateSnapshotResponse(snap models.RateSnapshot) rateSnapshotResponse {
	return rateSnapshotResponse{
		Gold24KPerGram: snap.Gold24KPerGram.InexactFloat64(),
		Gold22KPerGram: snap.Gold22KPerGram.InexactFloat64(),
		Gold18KPerGram: snap.Gold18KPerGram.InexactFloat64(),
		SilverPerGram:  snap.SilverPerGram.InexactFloat64(),
		Currency:       snap.Currency,
		Timestamp:      snap.Timestamp,
		Source:         string(snap.Source),
	}
}

func corsConfig(cfg config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}

func logMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"status":   c.Writer.Status(),
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		}).Info("request completed")
	}
}
