package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr string
}

// TMDBConfig configures the external movie catalog client.
type TMDBConfig struct {
	BaseURL  string
	ImageURL string
	APIKey   string
	Language string
	Region   string
}

type AppConfig struct {
	ServiceName string
	LogLevel    string
	Env         string
	HTTP        HTTPConfig

	TMDB TMDBConfig

	MongoURL      string
	RedisURL      string
	DatabaseURL   string
	LedgerBackend string // memory | redis | postgres
	NATSURL       string
	SessionSecret string
	CacheTTLSec   int
}

// Load reads configuration from the environment. A local .env file, when
// present, is loaded first but never overrides already-set variables.
func Load() (AppConfig, error) {
	_ = godotenv.Load()

	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		Env:         strings.TrimSpace(os.Getenv("APP_ENV")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		TMDB: TMDBConfig{
			BaseURL:  strings.TrimSpace(os.Getenv("TMDB_BASE_URL")),
			ImageURL: strings.TrimSpace(os.Getenv("TMDB_IMAGE_URL")),
			APIKey:   strings.TrimSpace(os.Getenv("TMDB_API_KEY")),
			Language: strings.TrimSpace(os.Getenv("TMDB_LANGUAGE")),
			Region:   strings.TrimSpace(os.Getenv("TMDB_REGION")),
		},
		MongoURL:      strings.TrimSpace(os.Getenv("MONGO_URL")),
		RedisURL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LedgerBackend: strings.ToLower(strings.TrimSpace(os.Getenv("LEDGER_BACKEND"))),
		NATSURL:       strings.TrimSpace(os.Getenv("NATS_URL")),
		SessionSecret: strings.TrimSpace(os.Getenv("SESSION_SECRET")),
		CacheTTLSec:   envInt("CACHE_TTL_SECONDS", 60),
	}
	if cfg.ServiceName == "" {
		return AppConfig{}, errors.New("SERVICE_NAME is required")
	}
	if cfg.TMDB.APIKey == "" {
		return AppConfig{}, errors.New("TMDB_API_KEY is required")
	}
	if cfg.SessionSecret == "" {
		return AppConfig{}, errors.New("SESSION_SECRET is required")
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.TMDB.Language == "" {
		cfg.TMDB.Language = "ja-JP"
	}
	if cfg.TMDB.Region == "" {
		cfg.TMDB.Region = "JP"
	}
	if cfg.LedgerBackend == "" {
		cfg.LedgerBackend = "memory"
	}
	return cfg, nil
}

func (c AppConfig) IsProd() bool {
	return strings.EqualFold(c.Env, "production")
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
