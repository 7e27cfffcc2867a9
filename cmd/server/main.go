package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/GooferByte/zakat-backend/internal/config"
	"github.com/GooferByte/zakat-backend/internal/http"
	"github.com/GooferByte/zakat-backend/internal/logger"
	"github.com/GooferByte/zakat-backend/internal/rates"
	"github.com/GooferByte/zakat-backend/internal/repository"
	"github.com/GooferByte/zakat-backend/internal/repository/memory"
	"github.com/GooferByte/zakat-backend/internal/repository/postgres"
	"github.com/GooferByte/zakat-backend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Environment)
	rateSvc := rates.NewGoldAPIService(cfg, log)

	var repoImpl repository.SnapshotRepository
	if cfg.UseInMemoryStore {
		log.Warn("DATABASE_URL not set, using in-memory snapshot store. History will reset on restart.")
		repoImpl = memory.New()
	} else {
		db, err := sql.Open("postgres", cfg.DBURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to postgres")
		}
		if err := db.Ping(); err != nil {
			log.WithError(err).Fatal("postgres ping failed")
		}
		repoImpl = postgres.New(db)
		defer db.Close()
		log.Info("connected to postgres")
	}

	if cfg.GoldAPIKey == "" {
		log.Warn("GOLD_API_KEY not set, rate provider runs in mock mode")
	}

	zakatSvc := service.NewZakatService(rateSvc, repoImpl, log)
	router := http.Router(zakatSvc, cfg, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("Zakat calculator service listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
