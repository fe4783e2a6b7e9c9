// Package matcher scores candidate strings against the text typed so far.
// Every algorithm reports its result on the same Score scale, where a
// higher value is a better match.
package matcher

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// ErrUnknownMatcher is returned when an Algorithm outside the supported set is selected.
var ErrUnknownMatcher = errors.New("unknown matcher")

// Matcher decides whether needle matches haystack and how well.
type Matcher interface {
	Matches(haystack, needle string) (Score, bool)
}

// Algorithm selects a Matcher implementation.
type Algorithm int

const (
	// Fuzzy matches when the needle is an ordered, not necessarily contiguous,
	// subsequence of the haystack.
	Fuzzy Algorithm = iota
	// Prefix matches when the haystack starts with the needle.
	Prefix
)

func (a Algorithm) String() string {
	switch a {
	case Fuzzy:
		return "fuzzy"
	case Prefix:
		return "prefix"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// ParseAlgorithm maps a configuration name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fuzzy", "":
		return Fuzzy, nil
	case "prefix":
		return Prefix, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMatcher, name)
	}
}

// New returns the Matcher for algo.
func New(algo Algorithm, caseSensitive bool) (Matcher, error) {
	switch algo {
	case Fuzzy:
		return FuzzyMatcher{CaseSensitive: caseSensitive}, nil
	case Prefix:
		return PrefixMatcher{CaseSensitive: caseSensitive}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMatcher, algo)
	}
}

// FuzzyMatcher accepts any haystack containing the needle's characters in order.
// The subsequence test decides the match; sahilm/fuzzy ranks it.
type FuzzyMatcher struct {
	CaseSensitive bool
}

func (m FuzzyMatcher) Matches(haystack, needle string) (Score, bool) {
	if needle == "" {
		return FromFuzzy(0), true
	}
	if !isSubsequence(haystack, needle, m.CaseSensitive) {
		return 0, false
	}

	matches := fuzzy.Find(needle, []string{haystack})
	if len(matches) == 0 {
		return FromFuzzy(0), true
	}
	return FromFuzzy(matches[0].Score), true
}

// PrefixMatcher accepts haystacks that start with the needle.
type PrefixMatcher struct {
	CaseSensitive bool
}

func (m PrefixMatcher) Matches(haystack, needle string) (Score, bool) {
	if !m.CaseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}
	if !strings.HasPrefix(haystack, needle) {
		return 0, false
	}
	return FromPrefixLength(utf8.RuneCountInString(needle)), true
}

func isSubsequence(haystack, needle string, caseSensitive bool) bool {
	if !caseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}

	want := []rune(needle)
	i := 0
	for _, r := range haystack {
		if i == len(want) {
			break
		}
		if r == want[i] {
			i++
		}
	}
	return i == len(want)
}
