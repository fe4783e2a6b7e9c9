package completion

import (
	"go.uber.org/zap"

	"github.com/atinylittleshell/gshcomplete/internal/shape"
)

// ProviderConfig wires a Provider to the shell it completes for.
type ProviderConfig struct {
	Symbols   SymbolTable
	Env       Environment
	Paths     PathCompleter
	Evaluator Evaluator
	Stack     Stack
	Registry  *SpecRegistry
	Options   Options
	Logger    *zap.Logger
}

// Provider answers completion requests for whole command lines. It classifies
// the line, picks a completer for the token under the cursor and orders the
// results.
type Provider struct {
	symbols   SymbolTable
	env       Environment
	paths     PathCompleter
	evaluator Evaluator
	stack     Stack
	registry  *SpecRegistry
	options   Options
	logger    *zap.Logger
}

// NewProvider creates a Provider. Paths defaults to FilePathCompletion and
// Registry to an empty registry.
func NewProvider(cfg ProviderConfig) *Provider {
	p := &Provider{
		symbols:   cfg.Symbols,
		env:       cfg.Env,
		paths:     cfg.Paths,
		evaluator: cfg.Evaluator,
		stack:     cfg.Stack,
		registry:  cfg.Registry,
		options:   cfg.Options,
		logger:    cfg.Logger,
	}
	if p.symbols == nil {
		p.symbols = emptySymbols{}
	}
	if p.paths == nil {
		p.paths = PathCompleterFunc(FilePathCompletion)
	}
	if p.registry == nil {
		p.registry = NewSpecRegistry()
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// RegisterSpec adds a completion spec to the provider's registry.
func (p *Provider) RegisterSpec(spec CompletionSpec) {
	p.registry.AddSpec(spec)
}

// Registry returns the registry the complete builtin should write to.
func (p *Provider) Registry() *SpecRegistry {
	return p.registry
}

// Options returns the options every request runs with.
func (p *Provider) Options() Options {
	return p.options
}

// GetCompletions returns the suggestions for line with the cursor at byte
// offset pos. Suggestion spans index into line.
func (p *Provider) GetCompletions(line string, pos int) ([]Suggestion, error) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(line) {
		pos = len(line)
	}

	flattened := shape.Classify(line, p.symbols.HasCommand)
	cur := locate(flattened, pos)
	prefix := []byte(line[cur.span.Start:cur.span.End])
	ws := NewWorkingSet(p.symbols, []byte(line), 0)

	completer := p.completerFor(line, flattened, cur)

	p.logger.Debug("completing",
		zap.String("line", line),
		zap.Int("pos", pos),
		zap.Stringer("shape", cur.flatShape),
		zap.Stringer("span", cur.span),
	)

	items, err := completer.Fetch(p.options, ws, prefix, cur.span, 0, pos)
	if err != nil {
		return nil, err
	}
	items = completer.Filter(prefix, items, p.options)
	return SortSuggestions(items, string(prefix), p.options.SortBy), nil
}

// completerFor uses the registered spec of the statement's command once the
// cursor has moved past the command name.
func (p *Provider) completerFor(line string, flattened []shape.Flat, cur cursorContext) Completer {
	if cur.headIdx >= 0 && cur.headIdx != cur.flatIdx {
		head := flattened[cur.headIdx].Span
		if spec, ok := p.registry.GetSpec(line[head.Start:head.End]); ok {
			return spec.Completer(p.evaluator, p.stack, line, p.logger)
		}
	}

	return NewCommandCompletion(p.env, p.paths, flattened, cur.flatIdx, cur.flatShape, p.logger)
}

type emptySymbols struct{}

func (emptySymbols) FindCommandsByPrefix([]byte, func(haystack, needle []byte) bool) []CommandEntry {
	return nil
}

func (emptySymbols) FindAliasesByPrefix([]byte) [][]byte { return nil }

func (emptySymbols) HasCommand(string) bool { return false }
