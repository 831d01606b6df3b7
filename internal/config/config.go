package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Session strategies.
const (
	StrategyToken  = "token"
	StrategyStored = "stored"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Session  SessionConfig
	Store    StoreConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	AuthRateLimitPerMin   int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	ConnectRetries uint64
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	ConnectRetries uint64
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret  string
	BcryptCost int
	LoginPath  string
	HomePath   string
	SeedUsers  []SeedUser
}

// SeedUser is an account created at startup.
type SeedUser struct {
	Email    string
	Password string
}

// SessionConfig selects how sessions are issued, carried and resolved.
type SessionConfig struct {
	Strategy          string
	Backend           string
	CookieName        string
	TTL               time.Duration
	CookieSecure      bool
	SweepIntervalSecs int
}

// StoreConfig selects the credential store persistence.
type StoreConfig struct {
	Backend string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	strategy := strings.ToLower(getEnv("SESSION_STRATEGY", StrategyStored))
	if strategy != StrategyToken && strategy != StrategyStored {
		return nil, fmt.Errorf("invalid SESSION_STRATEGY %q: want %q or %q", strategy, StrategyToken, StrategyStored)
	}

	sessionBackend := strings.ToLower(getEnv("SESSION_BACKEND", BackendMemory))
	if sessionBackend != BackendMemory && sessionBackend != BackendRedis {
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q: want %q or %q", sessionBackend, BackendMemory, BackendRedis)
	}

	storeBackend := strings.ToLower(getEnv("STORE_BACKEND", BackendMemory))
	if storeBackend != BackendMemory && storeBackend != BackendPostgres {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %q or %q", storeBackend, BackendMemory, BackendPostgres)
	}

	seeds, err := ParseSeedUsers(os.Getenv("SEED_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_USERS: %w", err)
	}

	cookieName, ttlHours := "session_id", 24*7
	if strategy == StrategyToken {
		cookieName, ttlHours = "token", 24
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "authgate"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			AuthRateLimitPerMin:   getEnvAsInt("HTTP_AUTH_RATE_LIMIT_PER_MINUTE", 20),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ConnectRetries: uint64(max(getEnvAsInt("POSTGRES_CONNECT_RETRIES", 5), 0)),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			ConnectRetries: uint64(max(getEnvAsInt("REDIS_CONNECT_RETRIES", 5), 0)),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("AUTH_JWT_SECRET", "dev-secret"),
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 12),
			LoginPath:  getEnv("AUTH_LOGIN_PATH", "/login"),
			HomePath:   getEnv("AUTH_HOME_PATH", "/dashboard"),
			SeedUsers:  seeds,
		},
		Session: SessionConfig{
			Strategy:          strategy,
			Backend:           sessionBackend,
			CookieName:        getEnv("SESSION_COOKIE_NAME", cookieName),
			TTL:               time.Duration(getEnvAsInt("SESSION_TTL_HOURS", ttlHours)) * time.Hour,
			CookieSecure:      getEnvAsBool("SESSION_COOKIE_SECURE", env == "production"),
			SweepIntervalSecs: getEnvAsInt("SESSION_SWEEP_INTERVAL_SECONDS", 300),
		},
		Store: StoreConfig{
			Backend: storeBackend,
		},
	}

	if cfg.Store.Backend == BackendPostgres && cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("STORE_BACKEND=postgres requires POSTGRES_DSN")
	}

	return cfg, nil
}

// ParseSeedUsers parses "email:password" pairs separated by commas.
// The password is everything after the first colon.
func ParseSeedUsers(raw string) ([]SeedUser, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	seeds := make([]SeedUser, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		email, password, ok := strings.Cut(part, ":")
		if !ok || email == "" || password == "" {
			return nil, fmt.Errorf("entry %d: want email:password", i+1)
		}
		seeds = append(seeds, SeedUser{Email: email, Password: password})
	}
	return seeds, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SweepInterval returns how often expired in-memory sessions are purged.
func (s SessionConfig) SweepInterval() time.Duration {
	if s.SweepIntervalSecs <= 0 {
		return 0
	}
	return time.Duration(s.SweepIntervalSecs) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
