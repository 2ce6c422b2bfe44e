package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the sync job reads from the environment.
// Components receive it at construction time; nothing reads os.Getenv directly.
type Config struct {
	DatabaseURL string
	RedisURL    string
	MetricsPort string

	DDFClientID     string
	DDFClientSecret string
	DDFTokenURL     string
	DDFAPIURL       string
	DDFScope        string

	// Filter is the provider-side query, e.g. "StateOrProvince eq 'Ontario'".
	Filter      string
	MaxRecords  int
	BatchSize   int
	Materialize bool
}

func Load() *Config {
	// .env from the project root, then the current directory.
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		DDFClientID:     os.Getenv("DDF_CLIENT_ID"),
		DDFClientSecret: os.Getenv("DDF_CLIENT_SECRET"),
		DDFTokenURL:     getEnv("DDF_TOKEN_URL", "https://identity.crea.ca/connect/token"),
		DDFAPIURL:       getEnv("DDF_API_URL", "https://ddfapi.realtor.ca/odata/v1"),
		DDFScope:        getEnv("DDF_SCOPE", "DDFApi_Read"),

		Filter:      getEnv("DDF_FILTER", "StateOrProvince eq 'Ontario'"),
		MaxRecords:  getEnvInt("DDF_MAX_RECORDS", 2000),
		BatchSize:   getEnvInt("DDF_BATCH_SIZE", 100),
		Materialize: getEnvBool("DDF_MATERIALIZE", false),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getEnvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}
