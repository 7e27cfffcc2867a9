package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Port             string
	DBURL            string
	UseInMemoryStore bool
	Environment      string

	// Upstream price API. An empty key switches the rate provider to mock mode.
	GoldAPIKey     string
	GoldAPIBaseURL string
	RateTTL        time.Duration
	FetchTimeout   time.Duration

	CORSOrigins []string
}

// Load reads configuration from environment variables. A .env file is loaded
// if present to simplify local development. We look in bin/.env so the file
// can live alongside a built binary, and fall back to .env in the project
// root for compatibility.
func Load() Config {
	loadDotEnv()

	cfg := Config{
		Port:           getString("PORT", "8080"),
		DBURL:          getString("DATABASE_URL", ""),
		Environment:    getString("ENVIRONMENT", "local"),
		GoldAPIKey:     getString("GOLD_API_KEY", ""),
		GoldAPIBaseURL: getString("GOLD_API_BASE_URL", "https://www.goldapi.io/api"),
		RateTTL:        getDurationSeconds("RATE_TTL_SECONDS", 300),
		FetchTimeout:   getDurationSeconds("FETCH_TIMEOUT_SECONDS", 10),
		CORSOrigins:    getCSV("CORS_ORIGINS", "*"),
	}

	cfg.UseInMemoryStore = cfg.DBURL == ""
	return cfg
}

func loadDotEnv() {
	candidates := []string{
		filepath.Join("bin", ".env"),
		".env",
	}

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append([]string{
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "bin", ".env"),
		}, candidates...)
	}

	for _, path := range candidates {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDurationSeconds(key string, fallback int) time.Duration {
	if val := os.Getenv(key); val != "" {
		secs, err := strconv.Atoi(val)
		if err != nil {
			log.Printf("invalid value for %s, using fallback: %v", key, err)
			return time.Duration(fallback) * time.Second
		}
		return time.Duration(secs) * time.Second
	}
	return time.Duration(fallback) * time.Second
}

func getCSV(key, fallback string) []string {
	raw := getString(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
