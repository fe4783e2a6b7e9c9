// Package completion produces ranked completion candidates for the shell line
// editor: builtin commands, aliases, external executables, file paths and the
// output of user-registered completion functions.
package completion

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/atinylittleshell/gshcomplete/internal/completion/matcher"
	"github.com/atinylittleshell/gshcomplete/internal/shape"
)

// ExternalMarker prefixed to a command name forces the external program over
// a builtin of the same name.
const ExternalMarker = "^"

var (
	// ErrUnknownMatcher is returned when the configured matcher is not supported.
	ErrUnknownMatcher = matcher.ErrUnknownMatcher
	// ErrUnknownSortBy is returned when the configured sort order is not supported.
	ErrUnknownSortBy = errors.New("unknown sort order")
)

// Suggestion is one completion candidate. Span is relative to the start of
// the edited buffer so the line editor can splice Value in directly.
type Suggestion struct {
	Value       string         `json:"value"`
	Description string         `json:"description,omitempty"`
	Extra       string         `json:"extra,omitempty"`
	Span        shape.Span     `json:"span"`
	Score       *matcher.Score `json:"score,omitempty"`
}

func scored(s matcher.Score) *matcher.Score {
	return &s
}

// SortBy is the order the line editor presents suggestions in.
type SortBy int

const (
	// SortAscending orders by value.
	SortAscending SortBy = iota
	// SortLevenshteinDistance orders by edit distance to the typed prefix.
	SortLevenshteinDistance
	// SortNone keeps the order the sources produced.
	SortNone
)

func (s SortBy) String() string {
	switch s {
	case SortAscending:
		return "ascending"
	case SortLevenshteinDistance:
		return "levenshtein"
	case SortNone:
		return "none"
	default:
		return fmt.Sprintf("sortby(%d)", int(s))
	}
}

// ParseSortBy maps a configuration name to a SortBy.
func ParseSortBy(name string) (SortBy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ascending", "":
		return SortAscending, nil
	case "levenshtein", "levenshtein_distance":
		return SortLevenshteinDistance, nil
	case "none":
		return SortNone, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSortBy, name)
	}
}

// Options configures a completion request. Callers own it and pass it by value.
type Options struct {
	CaseSensitive bool
	Positional    bool
	SortBy        SortBy
	Matcher       matcher.Algorithm
}

// DefaultOptions returns case sensitive, positional, ascending, fuzzy options.
func DefaultOptions() Options {
	return Options{
		CaseSensitive: true,
		Positional:    true,
		SortBy:        SortAscending,
		Matcher:       matcher.Fuzzy,
	}
}

// Completer is one completion source.
type Completer interface {
	// Fetch returns suggestions for prefix. span is the absolute range being
	// replaced, offset the absolute position of the buffer start and pos the
	// absolute cursor position.
	Fetch(opts Options, ws WorkingSet, prefix []byte, span shape.Span, offset, pos int) ([]Suggestion, error)
	// Filter post-processes the fetched suggestions.
	Filter(prefix []byte, items []Suggestion, opts Options) []Suggestion
}

// SortSuggestions returns a sorted copy of items. The sort is stable, so
// equal keys keep their source order.
func SortSuggestions(items []Suggestion, prefix string, by SortBy) []Suggestion {
	out := make([]Suggestion, len(items))
	copy(out, items)

	switch by {
	case SortAscending:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Value < out[j].Value
		})
	case SortLevenshteinDistance:
		distances := make(map[string]int, len(out))
		for _, s := range out {
			if _, ok := distances[s.Value]; !ok {
				distances[s.Value] = levenshtein.ComputeDistance(prefix, s.Value)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return distances[out[i].Value] < distances[out[j].Value]
		})
	}
	return out
}
