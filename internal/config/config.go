package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all runtime configuration for the service and its client.
type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Webhook   WebhookConfig
	Server    ServerConfig
	Log       LogConfig
	Client    ClientConfig
	Theme     ThemeConfig
}

// HTTPConfig holds HTTP server related configuration.
type HTTPConfig struct {
	Port string
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig selects the relational store.
type DatabaseConfig struct {
	Driver     string
	Postgres   PostgresConfig
	SQLitePath string
}

// PostgresConfig holds database connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the formatted connection string for pgx.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// RedisConfig holds redis connection settings. An empty Addr disables redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// SchedulerConfig holds delivery scheduling settings.
type SchedulerConfig struct {
	// Hour and Minute are the UTC wall-clock time of the daily run.
	Hour    int
	Minute  int
	LockTTL time.Duration
}

// WebhookConfig stores the optional outbound delivery webhook.
type WebhookConfig struct {
	URL     string
	AuthKey string
	Timeout time.Duration
}

// ServerConfig stores general server runtime configuration.
type ServerConfig struct {
	ShutdownTimeout time.Duration
}

// LogConfig controls the logger.
type LogConfig struct {
	Dir   string
	Debug bool
}

// ClientConfig configures the dashboard client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MinRefetch time.Duration
}

// ThemeConfig is the dashboard palette, as hex colors.
type ThemeConfig struct {
	Background    string
	Primary       string
	PrimaryText   string
	Secondary     string
	SecondaryText string
	Accent        string
	Error         string
	StatusText    string
	DisabledText  string
}

var defaults = map[string]string{
	"http_port": "5002",

	"db_driver":         DriverSQLite,
	"sqlite_path":       "habits.db",
	"postgres_host":     "postgres",
	"postgres_port":     "5432",
	"postgres_user":     "appuser",
	"postgres_password": "appsecret",
	"postgres_db":       "habitfree",
	"postgres_sslmode":  "disable",

	"redis_addr":     "",
	"redis_password": "",
	"redis_db":       "0",

	"scheduler_delivery_time": "00:00",
	"scheduler_lock_ttl":      "5m",

	"webhook_url":      "",
	"webhook_auth_key": "",
	"webhook_timeout":  "15s",

	"server_shutdown_timeout": "10s",

	"log_dir":   "logs",
	"log_debug": "false",

	"client_base_url":    "http://127.0.0.1:5002",
	"client_timeout":     "10s",
	"client_min_refetch": "1s",

	"theme_background":     "#F5F5F5",
	"theme_primary":        "#4CAF50",
	"theme_primary_text":   "#FFFFFF",
	"theme_secondary":      "#2196F3",
	"theme_secondary_text": "#333333",
	"theme_accent":         "#FF4081",
	"theme_error":          "#F44336",
	"theme_status_text":    "#2E7D32",
	"theme_disabled_text":  "#9E9E9E",
}

// Load builds configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile builds configuration from the given file (yaml, json or toml),
// overridden by environment variables. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	for key, def := range defaults {
		v.SetDefault(key, def)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	pgPort, err := getInt(v, "postgres_port")
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}

	redisDB, err := getInt(v, "redis_db")
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	hour, minute, err := parseClock(v.GetString("scheduler_delivery_time"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_DELIVERY_TIME: %w", err)
	}

	lockTTL, err := getDuration(v, "scheduler_lock_ttl")
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_LOCK_TTL: %w", err)
	}

	webhookTimeout, err := getDuration(v, "webhook_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration(v, "server_shutdown_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}

	clientTimeout, err := getDuration(v, "client_timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid CLIENT_TIMEOUT: %w", err)
	}

	minRefetch, err := getDuration(v, "client_min_refetch")
	if err != nil {
		return nil, fmt.Errorf("invalid CLIENT_MIN_REFETCH: %w", err)
	}

	debug, err := strconv.ParseBool(v.GetString("log_debug"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_DEBUG: %w", err)
	}

	driver := strings.ToLower(v.GetString("db_driver"))
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("invalid DB_DRIVER: %q", driver)
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Port: v.GetString("http_port"),
		},
		Database: DatabaseConfig{
			Driver:     driver,
			SQLitePath: v.GetString("sqlite_path"),
			Postgres: PostgresConfig{
				Host:     v.GetString("postgres_host"),
				Port:     pgPort,
				User:     v.GetString("postgres_user"),
				Password: v.GetString("postgres_password"),
				DBName:   v.GetString("postgres_db"),
				SSLMode:  v.GetString("postgres_sslmode"),
			},
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       redisDB,
		},
		Scheduler: SchedulerConfig{
			Hour:    hour,
			Minute:  minute,
			LockTTL: lockTTL,
		},
		Webhook: WebhookConfig{
			URL:     v.GetString("webhook_url"),
			AuthKey: v.GetString("webhook_auth_key"),
			Timeout: webhookTimeout,
		},
		Server: ServerConfig{
			ShutdownTimeout: shutdownTimeout,
		},
		Log: LogConfig{
			Dir:   v.GetString("log_dir"),
			Debug: debug,
		},
		Client: ClientConfig{
			BaseURL:    strings.TrimRight(v.GetString("client_base_url"), "/"),
			Timeout:    clientTimeout,
			MinRefetch: minRefetch,
		},
		Theme: ThemeConfig{
			Background:    v.GetString("theme_background"),
			Primary:       v.GetString("theme_primary"),
			PrimaryText:   v.GetString("theme_primary_text"),
			Secondary:     v.GetString("theme_secondary"),
			SecondaryText: v.GetString("theme_secondary_text"),
			Accent:        v.GetString("theme_accent"),
			Error:         v.GetString("theme_error"),
			StatusText:    v.GetString("theme_status_text"),
			DisabledText:  v.GetString("theme_disabled_text"),
		},
	}

	return cfg, nil
}

func getInt(v *viper.Viper, key string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(v.GetString(key)))
}

func getDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

// parseClock parses a "HH:MM" wall-clock time.
func parseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
