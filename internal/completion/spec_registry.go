package completion

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/atinylittleshell/gshcomplete/internal/completion/matcher"
	"github.com/atinylittleshell/gshcomplete/internal/shape"
)

// CompletionType represents the type of completion.
type CompletionType string

const (
	// WordListCompletion completes from a fixed list of words (-W option).
	WordListCompletion CompletionType = "W"
	// FunctionCompletion calls a shell function (-F option).
	FunctionCompletion CompletionType = "F"
)

// CompletionSpec registers how the arguments of one command are completed.
type CompletionSpec struct {
	Command string
	Type    CompletionType
	Value   string // function name or word list
}

// SpecRegistry maps command names to their completion specs. It is written by
// the complete builtin while the shell runs and read by the Provider.
type SpecRegistry struct {
	mu    sync.RWMutex
	specs map[string]CompletionSpec
}

// NewSpecRegistry creates an empty SpecRegistry.
func NewSpecRegistry() *SpecRegistry {
	return &SpecRegistry{
		specs: make(map[string]CompletionSpec),
	}
}

// AddSpec adds or replaces the spec for spec.Command.
func (r *SpecRegistry) AddSpec(spec CompletionSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[spec.Command] = spec
}

// RemoveSpec removes the spec for command.
func (r *SpecRegistry) RemoveSpec(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specs, command)
}

// Clear removes every spec.
func (r *SpecRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = make(map[string]CompletionSpec)
}

// GetSpec retrieves the spec for command.
func (r *SpecRegistry) GetSpec(command string) (CompletionSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[command]
	return spec, ok
}

// ListSpecs returns all specs ordered by command name.
func (r *SpecRegistry) ListSpecs() []CompletionSpec {
	r.mu.RLock()
	specs := make([]CompletionSpec, 0, len(r.specs))
	for _, spec := range r.specs {
		specs = append(specs, spec)
	}
	r.mu.RUnlock()

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Command < specs[j].Command
	})
	return specs
}

// Completer builds the completer for spec. Function specs call through
// evaluator with a clone of stack.
func (spec CompletionSpec) Completer(evaluator Evaluator, stack Stack, line string, logger *zap.Logger) Completer {
	if spec.Type == WordListCompletion {
		return &WordListCompleter{Words: strings.Fields(spec.Value)}
	}
	return NewCustomCompletion(evaluator, stack, spec.Value, line, logger)
}

// WordListCompleter completes from a fixed list of words.
type WordListCompleter struct {
	Words []string
}

func (w *WordListCompleter) Fetch(
	opts Options,
	_ WorkingSet,
	prefix []byte,
	span shape.Span,
	offset, _ int,
) ([]Suggestion, error) {
	m, err := matcher.New(opts.Matcher, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}

	replace := span.Shifted(offset)
	var out []Suggestion
	for _, word := range w.Words {
		score, ok := m.Matches(word, string(prefix))
		if !ok {
			continue
		}
		out = append(out, Suggestion{Value: word, Span: replace, Score: scored(score)})
	}
	return out, nil
}

// Filter returns items unchanged.
func (w *WordListCompleter) Filter(_ []byte, items []Suggestion, _ Options) []Suggestion {
	return items
}
