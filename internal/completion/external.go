package completion

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/atinylittleshell/gshcomplete/internal/completion/matcher"
	"github.com/atinylittleshell/gshcomplete/internal/environment"
	"github.com/atinylittleshell/gshcomplete/internal/value"
)

// For testing purposes
var (
	osReadDir = os.ReadDir
	osStat    = os.Stat
)

type externalMatch struct {
	name  string
	score matcher.Score
}

// externalCommands scans every PATH directory for executables matching prefix.
// A name seen in an earlier directory shadows later ones. Unreadable
// directories and entries are skipped.
func (c *CommandCompletion) externalCommands(prefix string, m matcher.Matcher) []externalMatch {
	dirs := c.searchPath()
	seen := make(map[string]bool)
	var matches []externalMatch

	for _, dir := range dirs {
		entries, err := osReadDir(dir)
		if err != nil {
			c.logger.Debug("skipping unreadable PATH directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if seen[name] {
				continue
			}
			if !isExecutable(filepath.Join(dir, name)) {
				continue
			}
			score, ok := m.Matches(name, prefix)
			if !ok {
				continue
			}
			seen[name] = true
			matches = append(matches, externalMatch{name: name, score: score})
		}
	}
	return matches
}

// searchPath reads PATH as a list, accepting a plain string as well.
func (c *CommandCompletion) searchPath() []string {
	if c.env == nil {
		return nil
	}
	v, ok := c.env.Lookup("PATH")
	if !ok {
		return nil
	}

	switch path := v.(type) {
	case *value.List:
		var dirs []string
		for _, el := range path.Elements {
			if dir, ok := value.AsText(el); ok && dir != "" {
				dirs = append(dirs, dir)
			}
		}
		return dirs
	case *value.String:
		return environment.SplitList(path.Value)
	default:
		return nil
	}
}
