// package config loads service settings from a YAML file and the environment
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds every setting of the service. Environment variables take
// precedence over the file.
type Config struct {
	LogLevel string  `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO" env-description:"DEBUG, INFO, WARN or ERROR"`
	HTTP     HTTP    `yaml:"http" env-prefix:"HTTP_"`
	Storage  Storage `yaml:"storage" env-prefix:"STORAGE_"`
	Tracing  Tracing `yaml:"tracing" env-prefix:"TRACING_"`
}

// HTTP configures the listener
type HTTP struct {
	Address         string        `yaml:"address" env:"ADDRESS" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-default:"*" env-separator:","`
}

// Storage selects where todos live
type Storage struct {
	Driver string `yaml:"driver" env:"DRIVER" env-default:"memory" env-description:"memory, sqlite or postgres"`
	DSN    string `yaml:"dsn" env:"DSN" env-description:"sqlite file path or postgres connection string"`
	// SkipSeed leaves a fresh store empty instead of loading the sample todos
	SkipSeed bool `yaml:"skip_seed" env:"SKIP_SEED"`
}

// Tracing controls span export to stdout
type Tracing struct {
	Enabled     bool    `yaml:"enabled" env:"ENABLED"`
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO" env-default:"1" env-description:"fraction of new traces to keep, 0 to 1"`
	ServiceName string  `yaml:"service_name" env:"SERVICE_NAME" env-default:"todo-service"`
}

// Load reads the file at configPath, then the environment. A missing file
// or an empty path means environment only.
func Load(configPath string) (Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
		return cfg, cfg.Validate()
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("read config %q: %w", configPath, err)
		}

		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("read env: %w", err)
		}
	}

	return cfg, cfg.Validate()
}

// MustLoad is Load for process start up
func MustLoad(configPath string) Config {
	cfg, err := Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load config: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// Validate reports the first setting that cannot work
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}

	if c.HTTP.Address == "" {
		return errors.New("http address must not be empty")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http shutdown timeout must be positive, got %s", c.HTTP.ShutdownTimeout)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %q requires a dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Tracing.Enabled && (c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1) {
		return fmt.Errorf("tracing sample ratio must be within [0, 1], got %g", c.Tracing.SampleRatio)
	}

	return nil
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Usage describes the environment variables understood by Load
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return err.Error()
	}
	return text
}
