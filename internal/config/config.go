package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/segyhp/loan-reports/internal/filter"
)

// Supported store drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Report    ReportConfig    `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"SERVER_PORT"`
	Host            string        `mapstructure:"SERVER_HOST"`
	Env             string        `mapstructure:"ENV"`
	ReadTimeout     time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SERVER_SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"DATABASE_DRIVER"`
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
	ConnectTimeout  time.Duration `mapstructure:"DATABASE_CONNECT_TIMEOUT"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"REDIS_ENABLED"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type ReportConfig struct {
	CacheEnabled    bool          `mapstructure:"REPORT_CACHE_ENABLED"`
	CacheTTL        time.Duration `mapstructure:"REPORT_CACHE_TTL"`
	UpcomingVariant string        `mapstructure:"REPORT_UPCOMING_VARIANT"`
	SlowThreshold   time.Duration `mapstructure:"REPORT_SLOW_THRESHOLD"`
}

type SchedulerConfig struct {
	WarmSpec string        `mapstructure:"SCHEDULER_WARM_SPEC"`
	Timezone string        `mapstructure:"SCHEDULER_TIMEZONE"`
	LockTTL  time.Duration `mapstructure:"SCHEDULER_LOCK_TTL"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type HealthConfig struct {
	Timeout time.Duration `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var defaults = map[string]any{
	"SERVER_PORT":             "8080",
	"SERVER_HOST":             "0.0.0.0",
	"ENV":                     "development",
	"SERVER_READ_TIMEOUT":     "15s",
	"SERVER_WRITE_TIMEOUT":    "15s",
	"SERVER_SHUTDOWN_TIMEOUT": "30s",

	"DATABASE_DRIVER":            DriverMySQL,
	"DATABASE_URL":               "",
	"DATABASE_HOST":              "",
	"DATABASE_PORT":              "",
	"DATABASE_NAME":              "",
	"DATABASE_USER":              "",
	"DATABASE_PASSWORD":          "",
	"DATABASE_MAX_OPEN_CONNS":    10,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "5m",
	"DATABASE_CONNECT_TIMEOUT":   "3s",

	"REDIS_ENABLED":  false,
	"REDIS_HOST":     "localhost",
	"REDIS_PORT":     "6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"REPORT_CACHE_ENABLED":    false,
	"REPORT_CACHE_TTL":        "2m",
	"REPORT_UPCOMING_VARIANT": string(filter.UpcomingFromToday),
	"REPORT_SLOW_THRESHOLD":   "500ms",

	"SCHEDULER_WARM_SPEC": "0 */10 * * * *",
	"SCHEDULER_TIMEZONE":  "UTC",
	"SCHEDULER_LOCK_TTL":  "1m",

	"LOG_LEVEL":  "info",
	"LOG_FORMAT": "json",

	"HEALTH_CHECK_TIMEOUT": "5s",
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Don't fail if .env file doesn't exist
	_ = godotenv.Load(".env", "deployments/.env")

	return FromViper(viper.New())
}

// FromViper decodes configuration from v after applying defaults and
// environment overrides.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverPgx:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of mysql, postgres, pgx: got %q", c.Database.Driver)
	}

	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("DATABASE_CONNECT_TIMEOUT must be greater than 0")
	}

	if c.Report.CacheEnabled && c.Report.CacheTTL <= 0 {
		return fmt.Errorf("REPORT_CACHE_TTL must be greater than 0")
	}

	if _, err := filter.ParseVariant(c.Report.UpcomingVariant, filter.UpcomingFromToday); err != nil {
		return fmt.Errorf("REPORT_UPCOMING_VARIANT must be upcoming-from-today or upcoming-in-range: %w", err)
	}

	if _, err := cron.NewParser(cronFields).Parse(c.Scheduler.WarmSpec); err != nil {
		return fmt.Errorf("SCHEDULER_WARM_SPEC must be a valid cron spec: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid timezone: %w", err)
	}

	if c.Health.Timeout <= 0 {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be greater than 0")
	}

	return nil
}

// cronFields is the six-field layout (with seconds) the scheduler runs on.
const cronFields = cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor

// CronParser returns the parser matching SCHEDULER_WARM_SPEC.
func CronParser() cron.Parser {
	return cron.NewParser(cronFields)
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// GetUpcomingVariant returns the default upcoming schedule window.
func (c *Config) GetUpcomingVariant() filter.UpcomingVariant {
	v, _ := filter.ParseVariant(c.Report.UpcomingVariant, filter.UpcomingFromToday)
	return v
}

// GetSchedulerLocation returns the scheduler timezone.
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Configured reports whether a store connection is configured at all.
func (d DatabaseConfig) Configured() bool {
	return d.URL != "" || (d.Host != "" && d.Name != "")
}

// DSN returns DATABASE_URL when set, otherwise a driver-specific DSN built
// from the individual settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if !d.Configured() {
		return ""
	}

	switch d.Driver {
	case DriverPostgres, DriverPgx:
		port := d.Port
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(d.Host, port),
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		if d.User != "" {
			u.User = url.UserPassword(d.User, d.Password)
		}
		return u.String()
	default:
		port := d.Port
		if port == "" {
			port = "3306"
		}
		mc := mysql.NewConfig()
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(d.Host, port)
		mc.DBName = d.Name
		mc.User = d.User
		mc.Passwd = d.Password
		return mc.FormatDSN()
	}
}

// RedisAddr is the host:port of the redis server.
func (r RedisConfig) RedisAddr() string {
	return net.JoinHostPort(r.Host, r.Port)
}
