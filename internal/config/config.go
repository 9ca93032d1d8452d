package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port            string
	Store           string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPass          string
	DBName          string
	DatabaseURL     string
	Migrate         bool
	IndexLimit      int
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads .env (if present), then the environment, then command line
// flags. Flags win over the environment.
func Load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found")
	}

	indexLimit, err := envInt("POLLS_INDEX_LIMIT", 0)
	if err != nil {
		return Config{}, err
	}
	migrate, err := envBool("POLLS_MIGRATE", false)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	fs := flag.NewFlagSet("polls", flag.ContinueOnError)
	fs.StringVar(&cfg.Port, "port", getEnv("APP_PORT", "8080"), "HTTP listen port")
	fs.StringVar(&cfg.Store, "store", getEnv("POLLS_STORE", StorePostgres), "Question store: postgres or memory")
	fs.StringVar(&cfg.DBHost, "db-host", getEnv("POSTGRES_HOST", "localhost"), "Database host")
	fs.StringVar(&cfg.DBPort, "db-port", getEnv("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&cfg.DBUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&cfg.DBPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&cfg.DBName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	fs.StringVar(&cfg.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "Full connection string, overrides the db-* flags")
	fs.BoolVar(&cfg.Migrate, "migrate", migrate, "Apply the embedded migrations on start")
	fs.IntVar(&cfg.IndexLimit, "index-limit", indexLimit, "Maximum questions on the index page, 0 for no limit")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "json"), "Log format: json or text")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", shutdownTimeout, "Graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConnString returns DatabaseURL when set, otherwise a URL built from the
// individual database settings.
func (c Config) ConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" && (c.DBUser == "" || c.DBName == "") {
			return errors.New("postgres store needs DATABASE_URL or POSTGRES_USER and POSTGRES_DB")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
