package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// LoadError reports a configuration file that could not be used.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %v", e.Err)
	}
	return fmt.Sprintf("invalid config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Format is the syntax of a configuration source.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .toml or .json is read as YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

func (f Format) parser() (koanf.Parser, error) {
	switch f {
	case FormatYAML, "":
		return yaml.Parser(), nil
	case FormatTOML:
		return toml.Parser(), nil
	case FormatJSON:
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", f)
	}
}

// Loader reads configuration files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a new configuration loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// LoadFromFile loads configuration from path. If the file doesn't exist the
// default configuration is returned with no error.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("config file not found, using defaults", zap.String("path", path))
			return DefaultConfig(), nil
		}
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	cfg, err := l.load(content, FormatFromPath(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	l.logger.Debug("loaded config",
		zap.String("path", path),
		zap.Int("commands", len(cfg.Commands)),
		zap.Int("aliases", len(cfg.Aliases)),
		zap.Int("completers", len(cfg.Completers)),
	)
	return cfg, nil
}

// LoadFromString loads configuration from source in the given format.
func (l *Loader) LoadFromString(source string, format Format) (*Config, error) {
	cfg, err := l.load([]byte(source), format)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return cfg, nil
}

func (l *Loader) load(content []byte, format Format) (*Config, error) {
	parser, err := format.parser()
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), parser); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := cfg.Options(); err != nil {
		return nil, err
	}
	for i, cmd := range cfg.Commands {
		if strings.TrimSpace(cmd.Name) == "" {
			return nil, fmt.Errorf("commands[%d]: name is required", i)
		}
	}
	return cfg, nil
}
