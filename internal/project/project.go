// Package project identifies build units by their project file and finds
// them in a workspace.
package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
)

// projectPattern matches the SDK project file types msbuild understands.
const projectPattern = "**/*.{csproj,fsproj,vbproj}"

// skipDirs are directory names never searched for project files.
var skipDirs = map[string]bool{
	".git":         true,
	".vs":          true,
	".idea":        true,
	"bin":          true,
	"obj":          true,
	"node_modules": true,
}

// Project is one build unit. Fields are derived once from the project-file
// path and never change.
type Project struct {
	// File is the absolute project-file path.
	File string
	// Dir is the directory containing File.
	Dir string
	// Name is the project file name without its extension.
	Name string
}

// FromFile builds a Project from a path to an existing project file.
func FromFile(path string) (Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Project{}, errors.Wrapf(err, "failed to resolve project path: %s", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Project{}, errors.Wrapf(err, "failed to read project file: %s", abs)
	}
	if info.IsDir() {
		return Project{}, errors.Errorf("not a project file: %s", abs)
	}

	base := filepath.Base(abs)
	return Project{
		File: abs,
		Dir:  filepath.Dir(abs),
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}, nil
}

// Discover lists the projects under root, sorted by path. Build output, VCS,
// and editor cache directories are skipped.
func Discover(root string) ([]Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve workspace root: %s", root)
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, errors.Wrapf(err, "failed to read workspace root: %s", absRoot)
	}

	matches, err := doublestar.Glob(os.DirFS(absRoot), projectPattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan workspace: %s", absRoot)
	}

	var kept []string
	for _, match := range matches {
		if !skippedPath(match) {
			kept = append(kept, match)
		}
	}
	sort.Strings(kept)

	projects := make([]Project, 0, len(kept))
	for _, rel := range kept {
		p, err := FromFile(filepath.Join(absRoot, rel))
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// skippedPath reports whether any segment of the slash-separated relative
// path is an excluded directory.
func skippedPath(rel string) bool {
	segments := strings.Split(rel, "/")
	for _, seg := range segments[:len(segments)-1] {
		if skipDirs[seg] {
			return true
		}
	}
	return false
}
