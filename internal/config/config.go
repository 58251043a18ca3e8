package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session storage drivers.
const (
	SessionDriverMemory   = "memory"
	SessionDriverFile     = "file"
	SessionDriverDatabase = "database"
	SessionDriverRedis    = "redis"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Session  SessionConfig
	CSRF     CSRFConfig
	Mail     MailConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	SecureCookies         bool
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	BcryptCost              int
	PasswordResetTTLMinutes int
	LoginRatePerMinute      int
	LoginBurst              int
}

// SessionConfig selects and tunes the session backend.
type SessionConfig struct {
	Driver        string
	Lifetime      time.Duration
	EncryptionKey string
	SigningSecret string
	FileDir       string
	CookieName    string
	GCSchedule    string
}

// CSRFConfig tunes CSRF token issuance.
type CSRFConfig struct {
	TokenTTL time.Duration
}

// MailConfig holds SMTP settings for outgoing mail.
type MailConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	From         string
	ResetURLBase string
}

// Load reads configuration from environment variables, applying defaults where possible.
// Values from envFiles (or .env when none are given) never override the process environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			SecureCookies:         getEnvAsBool("APP_SECURE_COOKIES", false),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			BcryptCost:              getEnvAsInt("AUTH_BCRYPT_COST", 12),
			PasswordResetTTLMinutes: getEnvAsInt("AUTH_PASSWORD_RESET_TTL_MINUTES", 60),
			LoginRatePerMinute:      getEnvAsInt("AUTH_LOGIN_RATE_PER_MINUTE", 10),
			LoginBurst:              getEnvAsInt("AUTH_LOGIN_BURST", 5),
		},
		Session: SessionConfig{
			Driver:        getEnv("SESSION_DRIVER", SessionDriverDatabase),
			Lifetime:      getEnvAsDuration("SESSION_LIFETIME", 2*time.Hour),
			EncryptionKey: os.Getenv("SESSION_ENCRYPTION_KEY"),
			SigningSecret: getEnv("SESSION_SIGNING_SECRET", "dev-secret"),
			FileDir:       getEnv("SESSION_FILE_DIR", os.TempDir()),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "helpdesk_session"),
			GCSchedule:    getEnv("SESSION_GC_SCHEDULE", "@every 15m"),
		},
		CSRF: CSRFConfig{
			TokenTTL: getEnvAsDuration("CSRF_TOKEN_TTL", time.Hour),
		},
		Mail: MailConfig{
			Host:         os.Getenv("SMTP_HOST"),
			Port:         getEnvAsInt("SMTP_PORT", 587),
			Username:     os.Getenv("SMTP_USERNAME"),
			Password:     os.Getenv("SMTP_PASSWORD"),
			From:         getEnv("MAIL_FROM", "noreply@example.com"),
			ResetURLBase: getEnv("PASSWORD_RESET_URL", "http://localhost:8080/password-reset"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.Session.Driver {
	case SessionDriverMemory:
	case SessionDriverFile, SessionDriverRedis:
		if len(c.Session.EncryptionKey) < 32 {
			return errors.New("SESSION_ENCRYPTION_KEY must be at least 32 bytes for persisted sessions")
		}
	case SessionDriverDatabase:
		if len(c.Session.EncryptionKey) < 32 {
			return errors.New("SESSION_ENCRYPTION_KEY must be at least 32 bytes for persisted sessions")
		}
		if c.Postgres.DSN == "" {
			return errors.New("database session driver requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown SESSION_DRIVER %q", c.Session.Driver)
	}
	if c.Session.Lifetime <= 0 {
		return errors.New("SESSION_LIFETIME must be positive")
	}
	if c.CSRF.TokenTTL <= 0 {
		return errors.New("CSRF_TOKEN_TTL must be positive")
	}
	return nil
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

// PasswordResetTTL returns how long reset tokens stay valid.
func (a AuthConfig) PasswordResetTTL() time.Duration {
	if a.PasswordResetTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.PasswordResetTTLMinutes) * time.Minute
}

// Enabled reports whether SMTP delivery is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != ""
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}
