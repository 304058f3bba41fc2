// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all runtime configuration for the directory service.
type Config struct {
	Port        string `env:"PORT" envDefault:"8083"`
	GRPCPort    string `env:"GRPC_PORT" envDefault:"9083"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	DatabaseURL    string `env:"DATABASE_URL"`
	RedisURL       string `env:"REDIS_URL"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`

	DBMaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns        int32         `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`

	CompanyCacheTTL    time.Duration `env:"COMPANY_CACHE_TTL" envDefault:"10m"`
	CompanyRefreshSpec string        `env:"COMPANY_REFRESH_SPEC" envDefault:"@every 5m"`

	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	TalentRateLimit string        `env:"TALENT_RATE_LIMIT" envDefault:"10-H"`
	MaxResumeBytes  int64         `env:"MAX_RESUME_BYTES" envDefault:"5242880"`
	AdminToken      string        `env:"ADMIN_TOKEN"`
	SiteURL         string        `env:"SITE_URL" envDefault:"http://localhost:8083/jobs"`
	EmailFrom       string        `env:"EMAIL_FROM" envDefault:"Talent Network <talent@jobmate.local>"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	OTELEnabled     bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint    string `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"directory-service"`
}

// envFiles are loaded, in order, when present. Values already set in the
// process environment win.
var envFiles = []string{".env", ".env.local"}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements that struct tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.StoreDriver)
	}

	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.LogFormat)
	}

	if c.MaxResumeBytes <= 0 {
		return fmt.Errorf("MAX_RESUME_BYTES must be positive, got %d", c.MaxResumeBytes)
	}
	if c.CompanyCacheTTL <= 0 {
		return fmt.Errorf("COMPANY_CACHE_TTL must be positive, got %s", c.CompanyCacheTTL)
	}
	return nil
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load %v: %w", existing, err)
	}
	return nil
}
