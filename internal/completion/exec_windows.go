//go:build windows

package completion

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// isExecutable reports whether path is a regular file whose extension is
// listed in PATHEXT.
func isExecutable(path string) bool {
	info, err := osStat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	pathExt := os.Getenv("PATHEXT")
	if pathExt == "" {
		pathExt = defaultPathExt
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range filepath.SplitList(pathExt) {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
