package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"dotlaunch/internal/config"
)

func TestStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	sel := Selection{
		ProjectFile:   filepath.Join(root, "src", "Api", "Api.csproj"),
		Profile:       "Dev",
		Configuration: "Release",
	}
	require.NoError(t, store.Save(sel))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, sel.ProjectFile, loaded.ProjectFile)
	require.Equal(t, "Dev", loaded.Profile)
	require.Equal(t, "Release", loaded.Configuration)
	require.False(t, loaded.UpdatedAt.IsZero(), "Save must stamp UpdatedAt")

	require.FileExists(t, filepath.Join(root, config.Dir, "state.json"))
}

func TestStoreLoadEmpty(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestStoreLoadBlankSelection(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, config.Dir), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{}"), 0o644))

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestStoreLoadCorrupt(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	require.NoError(t, os.MkdirAll(filepath.Join(root, config.Dir), 0o755))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{nope"), 0o644))

	_, err := store.Load()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoSelection)
}

func TestStoreClear(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Clear(), "clearing a clean workspace succeeds")

	require.NoError(t, store.Save(Selection{ProjectFile: "/x/App.csproj", Profile: "Dev"}))
	require.NoError(t, store.Clear())

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoSelection)
}
