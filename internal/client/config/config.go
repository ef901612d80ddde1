package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the lingokeeper CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the remote service API, including the /api prefix.
//   - RequestTimeout: fixed budget for every remote call.
//   - DatabasePath: SQLite file holding the stored credential.
//   - TargetLang: language dialogue sessions are started in.
//   - DefaultPageSize: records page size before the user changes it.
//   - LogLevel, LogFormat: slog level name and "text" or "json".
type Config struct {
	ServerBaseURL   string        `env:"LINGO_SERVER_URL"`
	RequestTimeout  time.Duration `env:"LINGO_REQUEST_TIMEOUT"`
	DatabasePath    string        `env:"LINGO_DB_PATH"`
	TargetLang      string        `env:"LINGO_TARGET_LANG"`
	DefaultPageSize int           `env:"LINGO_PAGE_SIZE"`
	LogLevel        string        `env:"LINGO_LOG_LEVEL"`
	LogFormat       string        `env:"LINGO_LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "lingokeeper.db"
	c.TargetLang = "en"
	c.DefaultPageSize = 20
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseJson(cfg); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseEnv loads dotenv (a missing file is fine) and then overlays every
// LINGO_* variable that is set. Variables already in the environment win
// over the file.
func parseEnv(cfg *Config, dotenv string) error {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return cleanenv.ReadEnv(cfg)
}

func (c *Config) Validate() error {
	switch {
	case c.ServerBaseURL == "":
		return errors.New("server base URL is empty")
	case c.RequestTimeout <= 0:
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	case c.DefaultPageSize <= 0:
		return fmt.Errorf("page size must be positive, got %d", c.DefaultPageSize)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
