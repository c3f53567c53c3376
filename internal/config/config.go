package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type JWTConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
	Leeway   time.Duration
}

type Config struct {
	Host           string
	Port           string
	PostgresDSN    string
	RedisAddr      string
	KafkaBrokers   []string
	OTLPEndpoint   string
	MetricsAddr    string
	LogLevel       string
	WalletCacheTTL time.Duration
	JWT            JWTConfig
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Load reads the configuration from the environment, after merging an
// optional .env file. KAPITALIST_DB and KAPITALIST_JWT_SECRET are required.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Host:         getenv("KAPITALIST_HOST", "0.0.0.0"),
		Port:         getenv("KAPITALIST_PORT", "5454"),
		PostgresDSN:  os.Getenv("KAPITALIST_DB"),
		RedisAddr:    getenv("KAPITALIST_REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: splitList(getenv("KAPITALIST_KAFKA_BROKERS", "localhost:9092")),
		OTLPEndpoint: os.Getenv("KAPITALIST_OTLP_ENDPOINT"),
		MetricsAddr:  getenv("KAPITALIST_METRICS_ADDR", ":9090"),
		LogLevel:     getenv("KAPITALIST_LOG_LEVEL", "info"),
		JWT: JWTConfig{
			Secret: os.Getenv("KAPITALIST_JWT_SECRET"),
			Issuer: getenv("KAPITALIST_JWT_ISSUER", "kapitalist"),
		},
	}

	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("KAPITALIST_DB is not set")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("KAPITALIST_JWT_SECRET is not set")
	}

	var err error
	if cfg.JWT.TokenTTL, err = parseDuration("KAPITALIST_TOKEN_TTL", "168h"); err != nil {
		return nil, err
	}
	if cfg.JWT.TokenTTL <= 0 {
		return nil, fmt.Errorf("KAPITALIST_TOKEN_TTL must be positive")
	}
	if cfg.JWT.Leeway, err = parseDuration("KAPITALIST_TOKEN_LEEWAY", "60s"); err != nil {
		return nil, err
	}
	if cfg.JWT.Leeway < 0 {
		return nil, fmt.Errorf("KAPITALIST_TOKEN_LEEWAY must not be negative")
	}
	if cfg.WalletCacheTTL, err = parseDuration("KAPITALIST_WALLET_CACHE_TTL", "5m"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getenv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
