package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"weddinghall/internal/database"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultDatabaseURL     = "weddinghall.db"
	defaultRedisAddr       = "localhost:6379"
	defaultCatalogCacheTTL = "5m"
	defaultQuoteSessionTTL = "30m"
	defaultJanitorInterval = "1m"
	defaultJWTTTL          = "24h"
	devJWTSecret           = "dev-only-jwt-secret"
)

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TLS      bool
}

type AppConfig struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string
	Redis       RedisConfig

	CatalogCacheTTL time.Duration
	QuoteSessionTTL time.Duration
	JanitorInterval time.Duration

	// ExcludedMealCategories overrides the default non-billable meal
	// categories when set.
	ExcludedMealCategories []string
	CORSAllowedOrigins     []string

	// JWTSecret signs the admin tokens that guard catalog import.
	JWTSecret string
	JWTTTL    time.Duration
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))

	var err error
	cfg.Redis, err = loadRedisConfig()
	if err != nil {
		return nil, err
	}

	cfg.CatalogCacheTTL, err = parseDurationEnv("CATALOG_CACHE_TTL", defaultCatalogCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg.QuoteSessionTTL, err = parseDurationEnv("QUOTE_SESSION_TTL", defaultQuoteSessionTTL)
	if err != nil {
		return nil, err
	}

	cfg.JanitorInterval, err = parseDurationEnv("QUOTE_JANITOR_INTERVAL", defaultJanitorInterval)
	if err != nil {
		return nil, err
	}

	cfg.ExcludedMealCategories = parseListEnv("PRICING_EXCLUDED_MEAL_CATEGORIES")
	cfg.CORSAllowedOrigins = parseListEnv("CORS_ALLOWED_ORIGINS")

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" && !isProdLike(cfg.AppEnv) {
		log.Printf("JWT_SECRET is empty, using the dev secret env=%s", cfg.AppEnv)
		cfg.JWTSecret = devJWTSecret
	}
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("app config: env=%s addr=%s redis=%t session_ttl=%s", cfg.AppEnv, cfg.HTTPAddr, cfg.Redis.Enabled, cfg.QuoteSessionTTL)

	return cfg, nil
}

// REDIS_ADDR or REDIS_HOST+REDIS_PORT, REDIS_PASSWORD, REDIS_DB, REDIS_TLS.
// REDIS_ENABLED=false turns the catalog cache off.
func loadRedisConfig() (RedisConfig, error) {
	rc := RedisConfig{
		Enabled:  parseBoolEnv("REDIS_ENABLED", "true"),
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
		TLS:      parseBoolEnv("REDIS_TLS", "false"),
	}

	host := strings.TrimSpace(os.Getenv("REDIS_HOST"))
	port := strings.TrimSpace(os.Getenv("REDIS_PORT"))
	if host != "" && port != "" {
		rc.Addr = host + ":" + port
	}
	if rc.Addr == "" {
		rc.Addr = defaultRedisAddr
	}

	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return rc, fmt.Errorf("invalid REDIS_DB value %q: %w", v, err)
		}
		rc.DB = n
	}
	return rc, nil
}

func validateConfig(cfg *AppConfig) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.CatalogCacheTTL <= 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must be > 0")
	}
	if cfg.QuoteSessionTTL <= 0 {
		return fmt.Errorf("QUOTE_SESSION_TTL must be > 0")
	}
	if cfg.JanitorInterval <= 0 {
		return fmt.Errorf("QUOTE_JANITOR_INTERVAL must be > 0")
	}
	if cfg.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}

	if isProdLike(cfg.AppEnv) {
		if !database.IsPostgres(cfg.DatabaseURL) {
			return fmt.Errorf("in prod/release DATABASE_URL must point at PostgreSQL")
		}
		if cfg.JWTSecret == "" || cfg.JWTSecret == devJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseBoolEnv(name, fallback string) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(name, fallback)))
	return value == "1" || value == "true" || value == "yes" || value == "on"
}

// parseListEnv splits a comma separated variable, dropping blanks.
func parseListEnv(name string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(name), ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
