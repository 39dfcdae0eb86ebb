package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	LogLevel        string
	ProductDataPath string

	// OutputMode selects the response delivery strategy for enrichment
	// requests: "buffered" (spill to a temp store, respond with an exact
	// Content-Length) or "direct" (stream each line as it is produced).
	OutputMode string

	// SpillDir is where buffered mode places its temporary spill stores.
	// Empty means the OS default temp directory.
	SpillDir string

	// MaxUploadSizeBytes caps the request body. Zero disables the cap;
	// the pipeline is designed for arbitrarily large inputs, so the cap
	// is off by default and exists only for constrained deployments.
	MaxUploadSizeBytes int64

	RateLimitRPS   int
	RateLimitBurst int

	// RunStatsRetention controls how long per-request pipeline stats stay
	// available on the admin runs endpoint.
	RunStatsRetention time.Duration
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	outputMode := getEnv("OUTPUT_MODE", "buffered")
	if outputMode != "buffered" && outputMode != "direct" {
		log.Printf("WARNING: Invalid OUTPUT_MODE '%s'. Using default 'buffered'.", outputMode)
		outputMode = "buffered"
	}

	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "0")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Disabling the cap. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 0
	}

	runStatsRetentionStr := getEnv("RUN_STATS_RETENTION", "30m")
	runStatsRetention, err := time.ParseDuration(runStatsRetentionStr)
	if err != nil {
		log.Printf("WARNING: Invalid RUN_STATS_RETENTION format '%s'. Using default 30m. Error: %v", runStatsRetentionStr, err)
		runStatsRetention = 30 * time.Minute
	}

	Cfg = &AppConfig{
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ProductDataPath:    getEnv("PRODUCT_DATA_PATH", "data/products.csv"),
		OutputMode:         outputMode,
		SpillDir:           getEnv("SPILL_DIR", ""),
		MaxUploadSizeBytes: maxUploadSizeBytes,
		RateLimitRPS:       getEnvAsInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 30),
		RunStatsRetention:  runStatsRetention,
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, ProductDataPath=%s, OutputMode=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.ProductDataPath, Cfg.OutputMode)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}
