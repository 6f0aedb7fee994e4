package qpl

import (
	"os"
	"strconv"

	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

// Config holds the settings cmd/qplserver reads before doing anything else:
// the HTTP listen address, the log level, and the default type-checking
// setting new parse calls are given. cmd/qplctl takes its settings from
// flags instead.
type Config struct {
	HTTPAddr         string `yaml:"http_addr"`
	LogLevel         string `yaml:"log_level"`
	WithTypeChecking bool   `yaml:"with_type_checking"`
}

// DefaultConfig mirrors getDefaultOptions's with_type_checking default.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:         "0.0.0.0:8081",
		LogLevel:         "info",
		WithTypeChecking: true,
	}
}

// LoadConfig builds a Config from QPL_HTTP_ADDR, QPL_LOG_LEVEL, and
// QPL_TYPE_CHECKING, then applies path as a YAML override on top if path is
// non-empty, the same two-layer scheme sqlcode's cli/cmd/config.go uses for
// its own DatabaseConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("QPL_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("QPL_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("QPL_TYPE_CHECKING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Annotate(err, "parsing QPL_TYPE_CHECKING")
		}
		cfg.WithTypeChecking = b
	}

	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Annotatef(err, "reading config file %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Annotatef(err, "parsing config file %s", path)
	}
	return cfg, nil
}
