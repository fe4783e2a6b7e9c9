package completion

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/atinylittleshell/gshcomplete/internal/shape"
)

// FilePathCompletion is the default PathCompleter. A leading quote in prefix
// is ignored and results containing spaces come back double-quoted.
func FilePathCompletion(span shape.Span, prefix, cwd string) []PathMatch {
	prefix = unquotePrefix(prefix)

	files := GetFileCompletions(prefix, cwd)
	matches := make([]PathMatch, 0, len(files))
	for _, file := range files {
		text := file
		if strings.ContainsAny(text, " \t") {
			text = `"` + text + `"`
		}
		matches = append(matches, PathMatch{Span: span, Text: text})
	}
	return matches
}

// GetFileCompletions lists the entries of the directory named by prefix whose
// names start with its last element. The directory part of prefix is kept as
// typed, so "./", "../", "~/" and absolute prefixes survive in the results.
// Directories end in a slash.
func GetFileCompletions(prefix, cwd string) []string {
	dirPart, namePart := "", prefix
	if i := strings.LastIndex(prefix, "/"); i >= 0 {
		dirPart, namePart = prefix[:i+1], prefix[i+1:]
	}

	searchDir, ok := resolveDir(dirPart, cwd)
	if !ok {
		return []string{}
	}

	entries, err := osReadDir(searchDir)
	if err != nil {
		return []string{}
	}

	results := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, namePart) {
			continue
		}
		candidate := dirPart + name
		if isDirEntry(searchDir, entry) {
			candidate += "/"
		}
		results = append(results, candidate)
	}
	sort.Strings(results)
	return results
}

func resolveDir(dirPart, cwd string) (string, bool) {
	switch {
	case dirPart == "":
		return cwd, true
	case strings.HasPrefix(dirPart, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(home, dirPart[2:]), true
	case filepath.IsAbs(dirPart):
		return dirPart, true
	default:
		return filepath.Join(cwd, dirPart), true
	}
}

// isDirEntry follows symlinks so a link to a directory completes like one.
func isDirEntry(dir string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := osStat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}

func unquotePrefix(prefix string) string {
	if prefix == "" || !strings.ContainsRune("\"'`", rune(prefix[0])) {
		return prefix
	}
	quote := prefix[0]
	prefix = prefix[1:]
	if n := len(prefix); n > 0 && prefix[n-1] == quote {
		prefix = prefix[:n-1]
	}
	return prefix
}
