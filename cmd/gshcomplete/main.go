package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/interp"

	"github.com/atinylittleshell/gshcomplete/internal/bash"
	"github.com/atinylittleshell/gshcomplete/internal/completion"
	"github.com/atinylittleshell/gshcomplete/internal/config"
	"github.com/atinylittleshell/gshcomplete/internal/core"
	"github.com/atinylittleshell/gshcomplete/internal/environment"
	"github.com/atinylittleshell/gshcomplete/internal/styles"
	"github.com/atinylittleshell/gshcomplete/internal/symbols"
)

var BUILD_VERSION = "dev"

const helpText = `gshcomplete - complete a shell command line

USAGE:
  gshcomplete -line "git sta" [-pos N] [options]

Prints the completion candidates for the line with the cursor at byte
offset N (the end of the line by default).

OPTIONS:
`

type options struct {
	line       string
	pos        int
	configPath string
	logFile    string
	json       bool
	verbose    bool
	version    bool
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("gshcomplete", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, helpText)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.line, "line", "", "the command line to complete")
	fs.IntVar(&opts.pos, "pos", -1, "cursor byte offset in the line (default end of line)")
	fs.StringVar(&opts.configPath, "config", "", "config file (default ~/.gshcomplete/config.yaml)")
	fs.BoolVar(&opts.json, "json", false, "print suggestions as JSON")
	fs.BoolVar(&opts.verbose, "v", false, "log at debug level, also to stderr")
	fs.BoolVar(&opts.version, "ver", false, "display build version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	if opts.version {
		fmt.Println(BUILD_VERSION)
		return
	}

	if opts.configPath == "" {
		opts.configPath = core.ConfigFile()
	}
	opts.logFile = core.LogFile()

	if err := run(context.Background(), opts, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, styles.ERROR(err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options, stdout, stderr io.Writer) error {
	logger, logLevel, err := initializeLogger(opts.logFile, opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.NewLoader(logger).LoadFromFile(opts.configPath)
	if err != nil {
		return err
	}
	if !opts.verbose {
		if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
			logLevel.SetLevel(level)
		} else {
			logger.Warn("invalid log level, keeping default", zap.String("log_level", cfg.LogLevel))
		}
	}

	provider, err := initializeProvider(ctx, cfg, stderr, logger)
	if err != nil {
		return err
	}

	pos := opts.pos
	if pos < 0 {
		pos = len(opts.line)
	}
	suggestions, err := provider.GetCompletions(opts.line, pos)
	if err != nil {
		return err
	}
	logger.Debug("completed line",
		zap.String("line", opts.line),
		zap.Int("pos", pos),
		zap.Int("suggestions", len(suggestions)),
	)

	if opts.json {
		return writeJSON(stdout, suggestions)
	}

	palette := styles.NewPalette(stdout, termenv.Ascii)
	width := 0
	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		palette = styles.StdoutPalette()
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = w
		}
	}
	return renderSuggestions(stdout, suggestions, palette, width)
}

func initializeLogger(logFile string, verbose bool) (*zap.Logger, zap.AtomicLevel, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose || BUILD_VERSION == "dev" {
		logLevel.SetLevel(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{logFile}
	if verbose {
		loggerConfig.OutputPaths = append(loggerConfig.OutputPaths, "stderr")
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return logger, logLevel, nil
}

// initializeProvider builds the shell the completer functions run in and the
// provider that answers for it.
func initializeProvider(ctx context.Context, cfg *config.Config, stderr io.Writer, logger *zap.Logger) (*completion.Provider, error) {
	table := symbols.NewWithBuiltins()
	for _, cmd := range cfg.Commands {
		table.AddCommand(cmd.Name, cmd.Description)
	}
	for name, expansion := range cfg.Aliases {
		table.AddAlias(name, expansion)
	}

	registry := completion.NewSpecRegistry()
	for _, spec := range cfg.CompletionSpecs() {
		registry.AddSpec(spec)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	runner, err := bash.NewRunner(cwd, os.Environ(),
		completion.NewCompleteCommandHandler(registry),
		completion.NewCompgenCommandHandler(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shell: %w", err)
	}
	interp.StdIO(nil, io.Discard, stderr)(runner) //nolint:errcheck

	if cfg.Functions != "" {
		if err := bash.RunScriptFromReader(ctx, runner, strings.NewReader(cfg.Functions), "functions"); err != nil {
			return nil, fmt.Errorf("failed to load functions: %w", err)
		}
	}

	completionOptions, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	return completion.NewProvider(completion.ProviderConfig{
		Symbols:   table,
		Env:       environment.FromRunner(runner),
		Evaluator: bash.NewEvaluator(cfg.Completion.CompleterTimeout, logger),
		Stack:     bash.NewRunnerStack(runner),
		Registry:  registry,
		Options:   completionOptions,
		Logger:    logger,
	}), nil
}

func writeJSON(w io.Writer, suggestions []completion.Suggestion) error {
	if suggestions == nil {
		suggestions = []completion.Suggestion{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(suggestions)
}

// renderSuggestions prints one suggestion per line with descriptions aligned
// in a second column. A positive width truncates descriptions to fit.
func renderSuggestions(w io.Writer, suggestions []completion.Suggestion, palette *styles.Palette, width int) error {
	valueWidth := 0
	for _, s := range suggestions {
		valueWidth = max(valueWidth, uniseg.StringWidth(s.Value))
	}

	for _, s := range suggestions {
		line := palette.Value(s.Value, completion.ExternalMarker)
		if s.Description != "" {
			desc := s.Description
			if width > 0 {
				avail := width - valueWidth - 2
				if avail <= 1 {
					desc = ""
				} else {
					desc = truncate.StringWithTail(desc, uint(avail), "…")
				}
			}
			if desc != "" {
				padding := strings.Repeat(" ", valueWidth-uniseg.StringWidth(s.Value)+2)
				line += padding + palette.Description(desc)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	noun := "suggestions"
	if len(suggestions) == 1 {
		noun = "suggestion"
	}
	_, err := fmt.Fprintln(w, palette.Summary(fmt.Sprintf("%s %s", humanize.Comma(int64(len(suggestions))), noun)))
	return err
}
