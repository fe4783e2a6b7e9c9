// Package config provides configuration management for gshcomplete.
package config

import (
	"fmt"
	"time"

	"github.com/atinylittleshell/gshcomplete/internal/completion"
	"github.com/atinylittleshell/gshcomplete/internal/completion/matcher"
)

// Config holds the settings read from the configuration file.
type Config struct {
	LogLevel   string           `koanf:"log_level"`
	Completion CompletionConfig `koanf:"completion"`
	Commands   []CommandConfig  `koanf:"commands"`
	// Aliases maps an alias name to its expansion.
	Aliases map[string]string `koanf:"aliases"`
	// Completers maps a command name to the shell function that completes
	// its arguments.
	Completers map[string]string `koanf:"completers"`
	// Functions is shell source evaluated at start-up, usually the
	// definitions of the completer functions.
	Functions string `koanf:"functions"`
}

// CompletionConfig holds the options every completion request runs with.
type CompletionConfig struct {
	CaseSensitive bool   `koanf:"case_sensitive"`
	Positional    bool   `koanf:"positional"`
	SortBy        string `koanf:"sort_by"`
	Matcher       string `koanf:"matcher"`
	// CompleterTimeout bounds a single completer function call.
	CompleterTimeout time.Duration `koanf:"completer_timeout"`
}

// CommandConfig declares an internal command.
type CommandConfig struct {
	Name        string `koanf:"name"`
	Description string `koanf:"description"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Completion: CompletionConfig{
			CaseSensitive:    true,
			Positional:       true,
			SortBy:           completion.SortAscending.String(),
			Matcher:          matcher.Fuzzy.String(),
			CompleterTimeout: 2 * time.Second,
		},
		Aliases:    map[string]string{},
		Completers: map[string]string{},
	}
}

// Options converts the completion section into completion.Options.
func (c *Config) Options() (completion.Options, error) {
	algo, err := matcher.ParseAlgorithm(c.Completion.Matcher)
	if err != nil {
		return completion.Options{}, fmt.Errorf("completion.matcher: %w", err)
	}
	sortBy, err := completion.ParseSortBy(c.Completion.SortBy)
	if err != nil {
		return completion.Options{}, fmt.Errorf("completion.sort_by: %w", err)
	}
	return completion.Options{
		CaseSensitive: c.Completion.CaseSensitive,
		Positional:    c.Completion.Positional,
		SortBy:        sortBy,
		Matcher:       algo,
	}, nil
}

// CompletionSpecs returns one function completion spec per configured
// completer.
func (c *Config) CompletionSpecs() []completion.CompletionSpec {
	specs := make([]completion.CompletionSpec, 0, len(c.Completers))
	for command, fn := range c.Completers {
		specs = append(specs, completion.CompletionSpec{
			Command: command,
			Type:    completion.FunctionCompletion,
			Value:   fn,
		})
	}
	return specs
}
