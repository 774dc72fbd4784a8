package app

import (
	"fmt"
	"strings"

	"github.com/vk/typeboot/internal/mapping"
)

// Config holds the settings a Builder starts from.
type Config struct {
	// ManifestPath is the manifest file or directory the CLI loads. The
	// Builder itself ignores it.
	ManifestPath string

	MappingStyle   string // "field" (default) or "accessor"
	TypeSafeValues bool

	LogFormat string // "text" (default) or "json"
	LogLevel  string // "debug", "info" (default), "warn", "error"
}

// NewConfig validates cfg and returns a normalized copy.
func NewConfig(cfg Config) (*Config, error) {
	style, err := mapping.Parse(cfg.MappingStyle)
	if err != nil {
		return nil, err
	}
	cfg.MappingStyle = style.String()

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	return &cfg, nil
}
