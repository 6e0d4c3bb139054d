package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment
// variables. It is constructed once in the cmd entrypoints and passed into
// the orchestrator; pipeline stages never read the environment themselves.
type Config struct {
	AppEnv      string
	Port        string
	StoragePath string
	DatabaseURL string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	PexelsAPIKey  string
	PexelsBaseURL string

	RenderBaseURL string

	MinSlides      int
	MaxSlides      int
	RepairAttempts int
	EnrichWorkers  int
	OracleInFlight int
	MinImageWidth  int
	MinImageHeight int

	RetryMaxAttempts int
	RetryBaseDelay   time.Duration
	RetryMaxDelay    time.Duration

	OracleTimeout time.Duration
	Retention     time.Duration

	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	HTTPShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		StoragePath: getEnv("STORAGE_PATH", "./storage"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		PexelsAPIKey:  os.Getenv("PEXELS_API_KEY"),
		PexelsBaseURL: getEnv("PEXELS_BASE_URL", "https://api.pexels.com/v1"),

		RenderBaseURL: getEnv("RENDER_BASE_URL", "https://kroki.io"),

		MinSlides:      getEnvInt("MIN_SLIDES", 3),
		MaxSlides:      getEnvInt("MAX_SLIDES", 20),
		RepairAttempts: getEnvInt("PLANNER_REPAIR_ATTEMPTS", 2),
		EnrichWorkers:  getEnvInt("ENRICH_WORKERS", 4),
		OracleInFlight: getEnvInt("ORACLE_MAX_IN_FLIGHT", 8),
		MinImageWidth:  getEnvInt("MIN_IMAGE_WIDTH", 800),
		MinImageHeight: getEnvInt("MIN_IMAGE_HEIGHT", 600),

		RetryMaxAttempts: getEnvInt("ORACLE_RETRY_ATTEMPTS", 3),
		RetryBaseDelay:   time.Millisecond * time.Duration(getEnvInt("ORACLE_RETRY_BASE_MS", 500)),
		RetryMaxDelay:    time.Second * time.Duration(getEnvInt("ORACLE_RETRY_MAX_SECONDS", 8)),

		OracleTimeout: time.Second * time.Duration(getEnvInt("ORACLE_TIMEOUT_SECONDS", 60)),
		Retention:     time.Hour * time.Duration(getEnvInt("RETENTION_HOURS", 24)),

		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		HTTPShutdownTimeout: time.Second * time.Duration(getEnvInt("HTTP_SHUTDOWN_TIMEOUT_SECONDS", 10)),
	}

	if cfg.MinSlides < 1 {
		cfg.MinSlides = 1
	}
	if cfg.MaxSlides < cfg.MinSlides {
		cfg.MaxSlides = cfg.MinSlides
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
