// Package daemon loads configuration and runs the HTTP service.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/cerditos-farm/cerditos/internal/app/finance"
	"github.com/cerditos-farm/cerditos/internal/app/session"
)

// ConfigFileName is the config file looked up inside the home directory.
const ConfigFileName = "config.toml"

// Config is the complete service configuration, read from config.toml.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Auth    AuthConfig    `toml:"auth"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
	Finance FinanceConfig `toml:"finance"`
}

// APIConfig is the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig locates the SQLite database. An empty Dir means the home
// directory.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// AuthConfig is the password gate. An empty password runs in demo mode.
type AuthConfig struct {
	Password   string `toml:"password"`
	SessionTTL string `toml:"session_ttl"`
}

// LogConfig selects the zap level and encoder ("json" or "console").
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// FinanceConfig tunes the IRR solver.
type FinanceConfig struct {
	IRRGuess         float64 `toml:"irr_guess"`
	IRRTolerance     float64 `toml:"irr_tolerance"`
	IRRMaxIterations int     `toml:"irr_max_iterations"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	irr := finance.DefaultIRRConfig()
	return Config{
		API:     APIConfig{Host: "127.0.0.1", Port: 8501},
		Auth:    AuthConfig{SessionTTL: "12h"},
		Log:     LogConfig{Level: "info", Format: "console"},
		Metrics: MetricsConfig{Enabled: true},
		Finance: FinanceConfig{
			IRRGuess:         irr.Guess,
			IRRTolerance:     irr.Tolerance,
			IRRMaxIterations: irr.MaxIterations,
		},
	}
}

// HomeDir returns $CERDITOS_HOME, or ~/.cerditos.
func HomeDir() string {
	if env := os.Getenv("CERDITOS_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cerditos")
}

// LoadConfig reads path over the defaults, then applies environment
// overrides. A missing file is not an error. An empty path means
// HomeDir()/config.toml. A .env file in the working directory is loaded first.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(HomeDir(), ConfigFileName)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.applyEnv()
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = HomeDir()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("APP_PASSWORD"); v != "" {
		c.Auth.Password = v
	}
	if v := os.Getenv("CERDITOS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CERDITOS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.API.Port = port
		}
	}
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if c.API.Port <= 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	if _, err := parseTTL(c.Auth.SessionTTL); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q: want json or console", c.Log.Format)
	}
	return nil
}

// Addr returns host:port for the listener.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// SessionTTL returns the parsed auth.session_ttl.
func (c Config) SessionTTL() time.Duration {
	d, _ := parseTTL(c.Auth.SessionTTL)
	return d
}

// IRR returns the solver settings.
func (c Config) IRR() finance.IRRConfig {
	return finance.IRRConfig{
		Guess:         c.Finance.IRRGuess,
		Tolerance:     c.Finance.IRRTolerance,
		MaxIterations: c.Finance.IRRMaxIterations,
	}
}

func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return session.DefaultTTL, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("auth.session_ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("auth.session_ttl must be positive, got %s", s)
	}
	return d, nil
}
