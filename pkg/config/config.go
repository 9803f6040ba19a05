package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Env var names referenced from tests and docs.
const (
	EnvAppEnv = "SLABSTOCK_APP_ENV"
	EnvPort   = "SLABSTOCK_APP_PORT"
	EnvDBDSN  = "SLABSTOCK_DB_DSN"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Inventory    InventoryConfig
	Audit        AuditConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SLABSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"SLABSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SLABSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SLABSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SLABSTOCK_DB_DSN"`
	Driver string `envconfig:"SLABSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SLABSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"SLABSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SLABSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"SLABSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"SLABSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"SLABSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SLABSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SLABSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SLABSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SLABSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from the discrete legacy vars when one was not
// provided directly. A sqlite driver treats the DSN as a file path and needs
// no assembly.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if strings.EqualFold(d.Driver, DriverSQLite) {
		return fmt.Errorf("database DSN (file path) is required for the sqlite driver")
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database config incomplete: set %s or the discrete SLABSTOCK_DB_* vars", EnvDBDSN)
	}

	userInfo := url.User(d.LegacyUser)
	if d.LegacyPassword != "" {
		userInfo = url.UserPassword(d.LegacyUser, d.LegacyPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", d.LegacyHost, d.LegacyPort),
		Path:     "/" + d.LegacyName,
		RawQuery: "sslmode=" + d.LegacySSLMode,
	}
	d.DSN = u.String()
	return nil
}

// InventoryConfig tunes stock reporting.
type InventoryConfig struct {
	// LongStockAfter marks an unsold item as long stock once it has been
	// held longer than this window.
	LongStockAfter time.Duration `envconfig:"SLABSTOCK_LONG_STOCK_AFTER" default:"4320h"`
}

// AuditConfig tunes the stocktake domain.
type AuditConfig struct {
	// DueAfter marks a storage location as overdue when its last audit is
	// older than this window.
	DueAfter time.Duration `envconfig:"SLABSTOCK_AUDIT_DUE_AFTER" default:"2160h"`
	// CancelWindow bounds how long after the sales date a sale can still be
	// cancelled.
	SalesCancelWindow time.Duration `envconfig:"SLABSTOCK_SALES_CANCEL_WINDOW" default:"168h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SLABSTOCK_CRON_INTERVAL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SLABSTOCK_AUTO_MIGRATE" default:"true"`
}
