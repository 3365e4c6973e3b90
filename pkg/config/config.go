package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Search       SearchConfig
	Premium      PremiumConfig
	MatchReports MatchReportsConfig
	Payments     PaymentsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SearchConfig tunes the programme search surface.
type SearchConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	PageSize     int
	MaxPageSize  int
}

// PremiumConfig gates the premium-only facets. The subscription product was
// retired, so the flag defaults to off; per-user entitlement is still
// evaluated when it is on.
type PremiumConfig struct {
	EnablePremiumFilters bool
	UpgradeURL           string
}

// MatchReportsConfig controls intake document storage and background
// summary generation.
type MatchReportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	MaxFileSizeBytes  int64
	AllowedMIMEs      []string
	WorkerConcurrency int
	WorkerRetries     int
}

// PaymentsConfig points at the hosted checkout provider.
type PaymentsConfig struct {
	CheckoutURL   string
	APIKey        string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
	Currency      string
	ReportPrice   int64
	Timeout       time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Search = SearchConfig{
		CacheEnabled: v.GetBool("SEARCH_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("SEARCH_CACHE_TTL"), 5*time.Minute),
		PageSize:     v.GetInt("SEARCH_PAGE_SIZE"),
		MaxPageSize:  v.GetInt("SEARCH_MAX_PAGE_SIZE"),
	}

	cfg.Premium = PremiumConfig{
		EnablePremiumFilters: v.GetBool("ENABLE_PREMIUM_FILTERS"),
		UpgradeURL:           v.GetString("PREMIUM_UPGRADE_URL"),
	}

	maxUploadSize := v.GetInt64("MATCH_REPORTS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 10 * 1024 * 1024
	}
	cfg.MatchReports = MatchReportsConfig{
		StorageDir:        v.GetString("MATCH_REPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("MATCH_REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("MATCH_REPORTS_SIGNED_URL_TTL"), 30*time.Minute),
		MaxFileSizeBytes:  maxUploadSize,
		AllowedMIMEs:      splitAndTrim(v.GetString("MATCH_REPORTS_ALLOWED_MIME_TYPES")),
		WorkerConcurrency: v.GetInt("MATCH_REPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("MATCH_REPORTS_WORKER_RETRIES"),
	}

	cfg.Payments = PaymentsConfig{
		CheckoutURL:   v.GetString("PAYMENTS_CHECKOUT_URL"),
		APIKey:        v.GetString("PAYMENTS_API_KEY"),
		WebhookSecret: v.GetString("PAYMENTS_WEBHOOK_SECRET"),
		SuccessURL:    v.GetString("PAYMENTS_SUCCESS_URL"),
		CancelURL:     v.GetString("PAYMENTS_CANCEL_URL"),
		Currency:      v.GetString("PAYMENTS_CURRENCY"),
		ReportPrice:   v.GetInt64("PAYMENTS_REPORT_PRICE_CENTS"),
		Timeout:       parseDuration(v.GetString("PAYMENTS_TIMEOUT"), 10*time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "study_directory")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SEARCH_CACHE_ENABLED", true)
	v.SetDefault("SEARCH_CACHE_TTL", "5m")
	v.SetDefault("SEARCH_PAGE_SIZE", 20)
	v.SetDefault("SEARCH_MAX_PAGE_SIZE", 100)

	v.SetDefault("ENABLE_PREMIUM_FILTERS", false)
	v.SetDefault("PREMIUM_UPGRADE_URL", "/premium")

	v.SetDefault("MATCH_REPORTS_STORAGE_DIR", "./documents")
	v.SetDefault("MATCH_REPORTS_SIGNED_URL_SECRET", "dev_documents_secret")
	v.SetDefault("MATCH_REPORTS_SIGNED_URL_TTL", "30m")
	v.SetDefault("MATCH_REPORTS_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("MATCH_REPORTS_ALLOWED_MIME_TYPES", "application/pdf,application/vnd.openxmlformats-officedocument.wordprocessingml.document,image/jpeg,image/png")
	v.SetDefault("MATCH_REPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("MATCH_REPORTS_WORKER_RETRIES", 3)

	v.SetDefault("PAYMENTS_CHECKOUT_URL", "http://localhost:4242/v1/checkout/sessions")
	v.SetDefault("PAYMENTS_API_KEY", "")
	v.SetDefault("PAYMENTS_WEBHOOK_SECRET", "dev_webhook_secret")
	v.SetDefault("PAYMENTS_SUCCESS_URL", "http://localhost:3000/match-report/success")
	v.SetDefault("PAYMENTS_CANCEL_URL", "http://localhost:3000/match-report")
	v.SetDefault("PAYMENTS_CURRENCY", "eur")
	v.SetDefault("PAYMENTS_REPORT_PRICE_CENTS", 14900)
	v.SetDefault("PAYMENTS_TIMEOUT", "10s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
