package completion

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atinylittleshell/gshcomplete/internal/value"
)

// fakeSymbols is a SymbolTable over fixed commands and aliases. It records
// the prefixes it was queried with.
type fakeSymbols struct {
	commands map[string]string
	aliases  []string
	queries  []string
}

func newFakeSymbols(commands ...string) *fakeSymbols {
	s := &fakeSymbols{commands: make(map[string]string)}
	for _, c := range commands {
		s.commands[c] = ""
	}
	return s
}

func (s *fakeSymbols) FindCommandsByPrefix(prefix []byte, match func(haystack, needle []byte) bool) []CommandEntry {
	s.queries = append(s.queries, string(prefix))

	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []CommandEntry
	for _, name := range names {
		if match != nil && !match([]byte(name), prefix) {
			continue
		}
		out = append(out, CommandEntry{
			Name:        []byte(name),
			Description: s.commands[name],
			Distance:    len(name) - len(prefix),
		})
	}
	return out
}

func (s *fakeSymbols) FindAliasesByPrefix(prefix []byte) [][]byte {
	var out [][]byte
	for _, a := range s.aliases {
		if strings.HasPrefix(a, string(prefix)) {
			out = append(out, []byte(a))
		}
	}
	return out
}

func (s *fakeSymbols) HasCommand(name string) bool {
	if _, ok := s.commands[name]; ok {
		return true
	}
	for _, a := range s.aliases {
		if a == name {
			return true
		}
	}
	return false
}

// fakeEnv is an Environment backed by a map.
type fakeEnv map[string]value.Value

func (e fakeEnv) Lookup(name string) (value.Value, bool) {
	v, ok := e[name]
	return v, ok
}

func envWith(cwd string, pathDirs ...string) fakeEnv {
	env := fakeEnv{"PWD": &value.String{Value: cwd}}
	if pathDirs != nil {
		env["PATH"] = value.Strings(pathDirs...)
	}
	return env
}

// fakeStack counts clones; every clone shares the counter.
type fakeStack struct {
	clones *int
	id     int
}

func (s *fakeStack) Clone() Stack {
	*s.clones++
	return &fakeStack{clones: s.clones, id: *s.clones}
}

// fakeEvaluator returns a canned result and records the calls it received.
type fakeEvaluator struct {
	result value.Value
	err    error
	calls  []Call
	stacks []Stack
}

func (e *fakeEvaluator) Invoke(_ context.Context, stack Stack, call Call) (value.Value, error) {
	e.calls = append(e.calls, call)
	e.stacks = append(e.stacks, stack)
	return e.result, e.err
}

// writeExecutables creates executable files in dir.
func writeExecutables(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0755))
	}
}

func values(items []Suggestion) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.Value
	}
	return out
}

func countValue(items []Suggestion, v string) int {
	n := 0
	for _, s := range items {
		if s.Value == v {
			n++
		}
	}
	return n
}
