package completion

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/atinylittleshell/gshcomplete/internal/completion/matcher"
	"github.com/atinylittleshell/gshcomplete/internal/shape"
	"github.com/atinylittleshell/gshcomplete/internal/value"
)

// CommandCompletion completes command names: builtins and configured commands
// from the symbol table, aliases, executables on PATH and file paths. It also
// recognises multi-word commands such as "git remote add".
type CommandCompletion struct {
	env       Environment
	paths     PathCompleter
	flattened []shape.Flat
	flatIdx   int
	flatShape shape.Shape
	logger    *zap.Logger
}

// NewCommandCompletion returns a completer for one request. flattened is the
// classified line, flatIdx and flatShape describe the token under the cursor.
func NewCommandCompletion(
	env Environment,
	paths PathCompleter,
	flattened []shape.Flat,
	flatIdx int,
	flatShape shape.Shape,
	logger *zap.Logger,
) *CommandCompletion {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandCompletion{
		env:       env,
		paths:     paths,
		flattened: flattened,
		flatIdx:   flatIdx,
		flatShape: flatShape,
		logger:    logger,
	}
}

func (c *CommandCompletion) Fetch(
	opts Options,
	ws WorkingSet,
	prefix []byte,
	span shape.Span,
	offset, pos int,
) ([]Suggestion, error) {
	m, err := matcher.New(opts.Matcher, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}

	if root, ok := subcommandRoot(c.flattened, pos); ok {
		subSpan := shape.Span{Start: root.Span.Start, End: pos}
		subcommands := c.completeCommands(ws, m, ws.SpanContents(subSpan), subSpan, offset, false)
		if len(subcommands) > 0 {
			return subcommands, nil
		}
	}

	var commands []Suggestion
	if inCommandPosition(c.flatShape, span) {
		commands = c.completeCommands(ws, m, prefix, span, offset, true)
	}

	cwd := c.lookupString("PWD")
	var preceding byte
	if span.Start > offset {
		if b := ws.SpanContents(shape.Span{Start: span.Start - 1, End: span.Start}); len(b) == 1 {
			preceding = b[0]
		}
	}

	var paths []PathMatch
	if c.paths != nil {
		paths = c.paths.Complete(span, string(prefix), cwd)
	}

	output := make([]Suggestion, 0, len(paths)+len(commands))
	for _, p := range paths {
		text := p.Text
		if c.flatIdx == 0 {
			text = c.decoratePath(text, cwd, preceding)
		}
		output = append(output, Suggestion{
			Value: text,
			Span:  p.Span.Shifted(offset),
		})
	}
	return append(output, commands...), nil
}

// Filter returns items unchanged: every source already matched against prefix.
func (c *CommandCompletion) Filter(_ []byte, items []Suggestion, _ Options) []Suggestion {
	return items
}

// completeCommands queries commands, aliases and optionally PATH executables
// for prefix. An external executable that shares its name with an internal
// result is suggested again behind the external marker.
func (c *CommandCompletion) completeCommands(
	ws WorkingSet,
	m matcher.Matcher,
	prefix []byte,
	span shape.Span,
	offset int,
	findExternals bool,
) []Suggestion {
	replace := span.Shifted(offset)

	entries := ws.FindCommandsByPrefix(prefix, func(haystack, needle []byte) bool {
		_, ok := m.Matches(string(haystack), string(needle))
		return ok
	})
	results := lo.Map(entries, func(e CommandEntry, _ int) Suggestion {
		return Suggestion{
			Value:       string(e.Name),
			Description: e.Description,
			Span:        replace,
			Score:       scored(matcher.FromDistance(e.Distance)),
		}
	})
	for _, alias := range ws.FindAliasesByPrefix(prefix) {
		results = append(results, Suggestion{
			Value: string(alias),
			Span:  replace,
		})
	}

	if !findExternals {
		return results
	}

	internal := make(map[string]bool, len(results))
	for _, s := range results {
		internal[s.Value] = true
	}

	for _, ext := range c.externalCommands(string(prefix), m) {
		if internal[ext.name] {
			results = append(results, Suggestion{
				Value: ExternalMarker + ext.name,
				Span:  replace,
			})
			continue
		}
		results = append(results, Suggestion{
			Value: ext.name,
			Span:  replace,
			Score: scored(ext.score),
		})
	}
	return results
}

// decoratePath marks a quoted executable path in command position with the
// external marker, unless the user already typed the marker.
func (c *CommandCompletion) decoratePath(text, cwd string, preceding byte) string {
	if preceding == ExternalMarker[0] || !isQuoted(text) {
		return text
	}

	unquoted := strings.Trim(text, "\"'`")
	resolved, err := canonicalize(unquoted, cwd)
	if err != nil {
		c.logger.Debug("path does not resolve", zap.String("path", unquoted), zap.Error(err))
		return text
	}
	if !isExecutable(resolved) {
		return text
	}
	return ExternalMarker + text
}

func (c *CommandCompletion) lookupString(name string) string {
	if c.env == nil {
		return ""
	}
	v, ok := c.env.Lookup(name)
	if !ok {
		return ""
	}
	s, ok := value.AsText(v)
	if !ok {
		return ""
	}
	return s
}

func isQuoted(text string) bool {
	return len(text) >= 2 && strings.ContainsRune("\"'`", rune(text[0]))
}

// canonicalize resolves path against cwd, expanding a leading ~ and following
// symlinks. It fails when the path does not exist.
func canonicalize(path, cwd string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
