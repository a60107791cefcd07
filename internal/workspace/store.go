// Package workspace persists the developer's start-project and profile
// selection under the workspace dot-directory.
package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"dotlaunch/internal/config"
)

const stateFile = "state.json"

// ErrNoSelection means no selection has been saved yet.
var ErrNoSelection = errors.New("no start project selected")

// Selection is the persisted choice handed to every resolution.
type Selection struct {
	// ProjectFile is the absolute project-file path.
	ProjectFile string `json:"projectFile"`
	// Profile is the chosen launch profile name.
	Profile string `json:"profile"`
	// Configuration overrides the configured default when set.
	Configuration string `json:"configuration,omitempty"`
	// UpdatedAt is stamped on save.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store reads and writes the selection under one workspace root.
type Store struct {
	root string
}

// NewStore returns a store rooted at the workspace directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Path returns the selection file location.
func (s *Store) Path() string {
	return filepath.Join(s.root, config.Dir, stateFile)
}

// Load returns the saved selection, or ErrNoSelection when none exists.
func (s *Store) Load() (Selection, error) {
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return Selection{}, errors.Wrapf(ErrNoSelection, "workspace %s", s.root)
		}
		return Selection{}, errors.Wrapf(err, "failed to read %s", s.Path())
	}

	var sel Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return Selection{}, errors.Wrapf(err, "failed to parse %s", s.Path())
	}
	if sel.ProjectFile == "" {
		return Selection{}, errors.Wrapf(ErrNoSelection, "workspace %s", s.root)
	}
	return sel, nil
}

// Save stamps and writes the selection, creating the dot-directory if
// needed.
func (s *Store) Save(sel Selection) error {
	sel.UpdatedAt = time.Now().UTC()

	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o755); err != nil {
		return errors.Wrap(err, "failed to create workspace directory")
	}

	data, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal selection")
	}
	if err := os.WriteFile(s.Path(), append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", s.Path())
	}
	return nil
}

// Clear removes the saved selection. Clearing a clean workspace is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to remove %s", s.Path())
	}
	return nil
}
