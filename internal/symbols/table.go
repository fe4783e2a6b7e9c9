// Package symbols holds the commands and aliases known to the shell and
// answers the prefix queries the completion engine issues against them.
package symbols

import (
	"sort"

	"github.com/agnivade/levenshtein"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/atinylittleshell/gshcomplete/internal/completion"
)

type command struct {
	name        string
	description string
}

// Table is an in-memory symbol table backed by two patricia tries.
// It is not safe for concurrent writes; reads may run concurrently once
// the table is populated.
type Table struct {
	commands *patricia.Trie
	aliases  *patricia.Trie
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		commands: patricia.NewTrie(),
		aliases:  patricia.NewTrie(),
	}
}

// NewWithBuiltins creates a Table seeded with the shell builtins.
func NewWithBuiltins() *Table {
	t := New()
	for _, b := range Builtins {
		t.AddCommand(b.Name, b.Description)
	}
	return t
}

// AddCommand defines or redefines a command. Multi-word names such as
// "git remote add" are allowed.
func (t *Table) AddCommand(name, description string) {
	if name == "" {
		return
	}
	t.commands.Set(patricia.Prefix(name), &command{name: name, description: description})
}

// AddAlias defines or redefines an alias.
func (t *Table) AddAlias(name, expansion string) {
	if name == "" {
		return
	}
	t.aliases.Set(patricia.Prefix(name), expansion)
}

// HasCommand reports whether name is a defined command or alias.
func (t *Table) HasCommand(name string) bool {
	key := patricia.Prefix(name)
	return t.commands.Get(key) != nil || t.aliases.Get(key) != nil
}

// AliasExpansion returns the text an alias stands for.
func (t *Table) AliasExpansion(name string) (string, bool) {
	item := t.aliases.Get(patricia.Prefix(name))
	if item == nil {
		return "", false
	}
	return item.(string), true
}

// FindCommandsByPrefix returns every command match accepts, in name order.
// Distance is the edit distance between the name and prefix.
func (t *Table) FindCommandsByPrefix(prefix []byte, match func(haystack, needle []byte) bool) []completion.CommandEntry {
	var entries []completion.CommandEntry
	needle := string(prefix)

	_ = t.commands.Visit(func(key patricia.Prefix, item patricia.Item) error {
		cmd := item.(*command)
		if match != nil && !match([]byte(cmd.name), prefix) {
			return nil
		}
		entries = append(entries, completion.CommandEntry{
			Name:        []byte(cmd.name),
			Description: cmd.description,
			Distance:    levenshtein.ComputeDistance(cmd.name, needle),
		})
		return nil
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return string(entries[i].Name) < string(entries[j].Name)
	})
	return entries
}

// FindAliasesByPrefix returns the alias names starting with prefix, in name order.
func (t *Table) FindAliasesByPrefix(prefix []byte) [][]byte {
	var names [][]byte
	_ = t.aliases.VisitSubtree(patricia.Prefix(prefix), func(key patricia.Prefix, _ patricia.Item) error {
		names = append(names, append([]byte(nil), key...))
		return nil
	})

	sort.SliceStable(names, func(i, j int) bool {
		return string(names[i]) < string(names[j])
	})
	return names
}
