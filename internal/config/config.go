package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultAppName        = "NovaBank"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultClientTimeout  = 5 * time.Second

	defaultRetryMaxAttempts     = 5
	defaultRetryInitialInterval = time.Second
	defaultRetryMultiplier      = 2.0
	defaultRetryMaxInterval     = 10 * time.Second

	defaultBlockerMaxAmount   = "1000"
	defaultBlockerProbability = 0.05
)

// RetryPolicy configures the notification delivery pipeline: how many delivery
// attempts a message gets and how the delay grows between them.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration
}

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName  string
	AppEnv   string
	Port     string
	LogLevel string

	DatabaseURL string
	RedisURL    string
	JWTSecret   string

	// Remote collaborators. AccountsURL is mandatory: the ledger is always
	// external. Blocker and exchange fall back to the in-process variants
	// when their URL is empty.
	AccountsURL string
	BlockerURL  string
	ExchangeURL string

	// Local fraud-gate tuning and the policy for an unreachable remote gate.
	BlockerFailClosed  bool
	BlockerMaxAmount   decimal.Decimal
	BlockerProbability float64

	ClientTimeout  time.Duration
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration
	Retry          RetryPolicy
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:            getEnv("APP_NAME", defaultAppName),
		AppEnv:             getEnv("APP_ENV", defaultAppEnv),
		Port:               getEnv("PORT", defaultPort),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AccountsURL:        os.Getenv("ACCOUNTS_URL"),
		BlockerURL:         os.Getenv("BLOCKER_URL"),
		ExchangeURL:        os.Getenv("EXCHANGE_URL"),
		BlockerProbability: defaultBlockerProbability,
		ClientTimeout:      defaultClientTimeout,
		ShutdownPeriod:     defaultShutdownDelay,
		IdempotencyTTL:     defaultIdempotencyTTL,
		Retry: RetryPolicy{
			MaxAttempts:     defaultRetryMaxAttempts,
			InitialInterval: defaultRetryInitialInterval,
			Multiplier:      defaultRetryMultiplier,
			MaxInterval:     defaultRetryMaxInterval,
		},
	}

	var err error
	if cfg.BlockerMaxAmount, err = decimal.NewFromString(getEnv("BLOCKER_MAX_AMOUNT", defaultBlockerMaxAmount)); err != nil {
		return Config{}, fmt.Errorf("invalid BLOCKER_MAX_AMOUNT: %w", err)
	}
	if v := os.Getenv("BLOCKER_SUSPICIOUS_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BLOCKER_SUSPICIOUS_PROBABILITY: %w", err)
		}
		cfg.BlockerProbability = p
	}
	if v := os.Getenv("BLOCKER_FAIL_CLOSED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BLOCKER_FAIL_CLOSED: %w", err)
		}
		cfg.BlockerFailClosed = b
	}

	if cfg.ClientTimeout, err = durationEnv("CLIENT_TIMEOUT", cfg.ClientTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownPeriod); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv("IDEMPOTENCY_TTL", cfg.IdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.Retry.InitialInterval, err = durationEnv("RETRY_INITIAL_INTERVAL", cfg.Retry.InitialInterval); err != nil {
		return Config{}, err
	}
	if cfg.Retry.MaxInterval, err = durationEnv("RETRY_MAX_INTERVAL", cfg.Retry.MaxInterval); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("RETRY_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid RETRY_MAX_ATTEMPTS: %q", v)
		}
		cfg.Retry.MaxAttempts = n
	}
	if v := os.Getenv("RETRY_MULTIPLIER"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_MULTIPLIER: %w", err)
		}
		cfg.Retry.Multiplier = m
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL must be set")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}
	if cfg.AccountsURL == "" {
		return Config{}, fmt.Errorf("ACCOUNTS_URL must be set")
	}

	return cfg, nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
