package config

import (
	"fmt"
	"strings"
)

// Config holds runtime settings shared by the CLI and the HTTP server.
type Config struct {
	Addr       string `env:"PUNNETT_ADDR" envDefault:"127.0.0.1:8080"`
	Store      string `env:"PUNNETT_STORE" envDefault:"sqlite"`
	DBPath     string `env:"PUNNETT_DB_PATH" envDefault:"punnett.db"`
	ReportsDir string `env:"PUNNETT_REPORTS_DIR" envDefault:"reports"`
	LogLevel   string `env:"PUNNETT_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"PUNNETT_LOG_FORMAT" envDefault:"text"`
}

// Load reads the environment without validating it; callers apply their
// own overrides and then call Validate.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unsupported store %q", c.Store)
	}
	if c.Store == "sqlite" && strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("sqlite store requires PUNNETT_DB_PATH")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}
