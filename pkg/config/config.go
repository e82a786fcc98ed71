package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration. Values come from the environment (optionally
// loaded from a .env file) and can be overridden by command-line flags.
type Config struct {
	ListenAddr    string        // server listen address
	DBDir         string        // pebble directory
	TerrainFiles  []string      // terrain yaml/ascii files registered at startup
	DefaultBudget time.Duration // solve budget when the request gives none
	MaxBudget     time.Duration // upper bound of a single solve call
	Workers       int           // batch worker pool size
	SwaggerURL    string        // url of doc.json served to the swagger ui
	LogLevel      slog.Level
}

var ErrInvalidConfig = errors.New("invalid config")

// Load baca .env (kalau ada) lalu env, lalu flag dari args.
func Load(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	defaultBudget, err := getEnvAsDuration("GRIDROUTER_DEFAULT_BUDGET", 200*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	maxBudget, err := getEnvAsDuration("GRIDROUTER_MAX_BUDGET", 2*time.Second)
	if err != nil {
		return Config{}, err
	}
	workers, err := getEnvAsInt("GRIDROUTER_WORKERS", runtime.NumCPU())
	if err != nil {
		return Config{}, err
	}

	cfg := Config{}
	var terrainFiles, logLevel string

	fs := flag.NewFlagSet("gridrouter", flag.ContinueOnError)
	fs.StringVar(&cfg.ListenAddr, "listenaddr", getEnvWithDefault("GRIDROUTER_LISTEN_ADDR", ":5000"), "server listen address")
	fs.StringVar(&cfg.DBDir, "db", getEnvWithDefault("GRIDROUTER_DB_DIR", "gridrouterDB"), "pebble directory buat terrain & route")
	fs.StringVar(&terrainFiles, "terrains", getEnvWithDefault("GRIDROUTER_TERRAINS", ""), "comma separated terrain files (.yaml atau ascii) yang di-register saat start")
	fs.DurationVar(&cfg.DefaultBudget, "budget", defaultBudget, "default solve budget")
	fs.DurationVar(&cfg.MaxBudget, "maxbudget", maxBudget, "max solve budget per call")
	fs.IntVar(&cfg.Workers, "workers", workers, "batch worker count")
	fs.StringVar(&cfg.SwaggerURL, "swagger", getEnvWithDefault("GRIDROUTER_SWAGGER_URL", "http://localhost:5000/swagger/doc.json"), "swagger doc.json url")
	fs.StringVar(&logLevel, "loglevel", getEnvWithDefault("GRIDROUTER_LOG_LEVEL", "info"), "debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.TerrainFiles = splitList(terrainFiles)
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Config{}, fmt.Errorf("%w: log level %q", ErrInvalidConfig, logLevel)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.MaxBudget <= 0 {
		return fmt.Errorf("%w: max budget must be positive", ErrInvalidConfig)
	}
	if c.DefaultBudget <= 0 || c.DefaultBudget > c.MaxBudget {
		return fmt.Errorf("%w: default budget %s must be in (0, %s]", ErrInvalidConfig, c.DefaultBudget, c.MaxBudget)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidConfig, key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a duration: %v", ErrInvalidConfig, key, err)
	}
	return value, nil
}
