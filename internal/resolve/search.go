package resolve

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"dotlaunch/internal/project"
)

// searchSkipDirs keeps build-intermediate and VCS/cache trees out of the
// fallback search. bin stays searchable; that is where the results live.
var searchSkipDirs = map[string]bool{
	"obj":          true,
	".git":         true,
	".vs":          true,
	".idea":        true,
	"node_modules": true,
}

// searchBinary is the layered filesystem fallback: the conventional output
// tree for an exact name first, then any dll in that tree, then any dll
// anywhere under the project. Within a layer an exact project-name match is
// preferred, then the lexicographically first path for determinism.
func searchBinary(proj project.Project, configuration string) (string, bool) {
	fsys := os.DirFS(proj.Dir)
	dll := proj.Name + ".dll"

	patterns := []string{
		path.Join("bin", configuration, "**", dll),
		path.Join("bin", configuration, "**", "*.dll"),
		"**/*.dll",
	}

	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			continue
		}

		kept := matches[:0]
		for _, m := range matches {
			if !underSkippedDir(m) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			continue
		}

		return filepath.Join(proj.Dir, filepath.FromSlash(pick(kept, dll))), true
	}
	return "", false
}

func pick(matches []string, preferred string) string {
	sort.Strings(matches)
	for _, m := range matches {
		if path.Base(m) == preferred {
			return m
		}
	}
	return matches[0]
}

func underSkippedDir(rel string) bool {
	segments := strings.Split(rel, "/")
	for _, seg := range segments[:len(segments)-1] {
		if searchSkipDirs[seg] {
			return true
		}
	}
	return false
}
