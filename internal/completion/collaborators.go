package completion

import (
	"context"

	"github.com/atinylittleshell/gshcomplete/internal/shape"
	"github.com/atinylittleshell/gshcomplete/internal/value"
)

// CommandEntry is one command returned by a symbol table query.
// Distance is an edit distance to the queried prefix: lower is better.
type CommandEntry struct {
	Name        []byte
	Description string
	Distance    int
}

// SymbolTable answers name queries against the commands and aliases the shell defines.
type SymbolTable interface {
	// FindCommandsByPrefix returns the commands whose name match accepts.
	FindCommandsByPrefix(prefix []byte, match func(haystack, needle []byte) bool) []CommandEntry
	// FindAliasesByPrefix returns alias names starting with prefix.
	FindAliasesByPrefix(prefix []byte) [][]byte
	// HasCommand reports whether name is a defined command or alias.
	HasCommand(name string) bool
}

// WorkingSet is the read-only view of shell state a completer queries during
// one request: the symbol table plus the buffer being edited.
type WorkingSet interface {
	SymbolTable
	// SpanContents returns the bytes of span, in the same absolute
	// coordinates as the classified spans.
	SpanContents(span shape.Span) []byte
}

// Environment exposes shell variables such as PATH and PWD.
type Environment interface {
	Lookup(name string) (value.Value, bool)
}

// PathMatch is one result of a path completer: the span it replaces and the
// literal text, quoted when it contains spaces.
type PathMatch struct {
	Span shape.Span
	Text string
}

// PathCompleter enumerates filesystem paths matching prefix relative to cwd.
type PathCompleter interface {
	Complete(span shape.Span, prefix, cwd string) []PathMatch
}

// PathCompleterFunc adapts a function to PathCompleter.
type PathCompleterFunc func(span shape.Span, prefix, cwd string) []PathMatch

func (f PathCompleterFunc) Complete(span shape.Span, prefix, cwd string) []PathMatch {
	return f(span, prefix, cwd)
}

// Stack is the mutable evaluation state a dynamic completer runs against.
type Stack interface {
	// Clone returns an independent copy; mutations on it are not visible to the original.
	Clone() Stack
}

// Call describes one invocation of a shell procedure.
type Call struct {
	Decl string
	Head shape.Span
	Args []value.Value
}

// Evaluator runs shell procedures on behalf of the completion engine.
type Evaluator interface {
	Invoke(ctx context.Context, stack Stack, call Call) (value.Value, error)
}

// workingSet joins a symbol table with the buffer under edit. The buffer
// starts at offset in absolute coordinates.
type workingSet struct {
	SymbolTable
	buffer []byte
	offset int
}

// NewWorkingSet returns a WorkingSet over buffer, whose first byte sits at
// absolute position offset.
func NewWorkingSet(symbols SymbolTable, buffer []byte, offset int) WorkingSet {
	return &workingSet{SymbolTable: symbols, buffer: buffer, offset: offset}
}

func (w *workingSet) SpanContents(span shape.Span) []byte {
	start := span.Start - w.offset
	end := span.End - w.offset
	if start < 0 {
		start = 0
	}
	if end > len(w.buffer) {
		end = len(w.buffer)
	}
	if start >= end {
		return []byte{}
	}
	return w.buffer[start:end]
}
