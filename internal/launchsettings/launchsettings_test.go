package launchsettings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const twoProfiles = `{
  "profiles": {
    "Prod": {
      "commandName": "Project",
      "commandLineArgs": "--mode prod"
    },
    "Dev": {
      "commandName": "Project"
    }
  }
}`

func TestLocate(t *testing.T) {
	t.Run("prefers_properties_dir", func(t *testing.T) {
		dir := t.TempDir()
		preferred := writeSettings(t, dir, filepath.Join("Properties", FileName), twoProfiles)
		writeSettings(t, dir, FileName, twoProfiles)

		path, err := Locate(dir)
		require.NoError(t, err)
		require.Equal(t, preferred, path)
	})

	t.Run("falls_back_to_sibling", func(t *testing.T) {
		dir := t.TempDir()
		sibling := writeSettings(t, dir, FileName, twoProfiles)

		path, err := Locate(dir)
		require.NoError(t, err)
		require.Equal(t, sibling, path)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Locate(t.TempDir())
		require.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestList(t *testing.T) {
	t.Run("sorted", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), FileName, twoProfiles)

		names, err := List(path)
		require.NoError(t, err)
		require.Equal(t, []string{"Dev", "Prod"}, names)
	})

	t.Run("no_profiles_field", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), FileName, `{"iisSettings": {}}`)

		names, err := List(path)
		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("profiles_not_an_object", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), FileName, `{"profiles": [1, 2]}`)

		names, err := List(path)
		require.NoError(t, err)
		require.Empty(t, names)
	})

	t.Run("malformed_json", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), FileName, `{"profiles": `)

		_, err := List(path)
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("top_level_not_an_object", func(t *testing.T) {
		path := writeSettings(t, t.TempDir(), FileName, `[1, 2]`)

		_, err := List(path)
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestRead(t *testing.T) {
	full := `{
  "profiles": {
    "Dev": {
      "commandName": "Project",
      "commandLineArgs": "--verbose --port 5000",
      "applicationUrl": "http://localhost:5000",
      "environmentVariables": {
        "ASPNETCORE_ENVIRONMENT": "Development",
        "RETRIES": 3,
        "FLAGS": {"nested": true}
      }
    },
    "Bare": {
      "commandName": "Project"
    },
    "Odd": {
      "commandName": 42,
      "commandLineArgs": ["a", "b"]
    },
    "Scalar": "not an object"
  }
}`

	dir := t.TempDir()
	path := writeSettings(t, dir, FileName, full)

	t.Run("full_profile", func(t *testing.T) {
		p, err := Read(path, "Dev")
		require.NoError(t, err)
		require.Equal(t, "Dev", p.Name)
		require.Equal(t, CommandProject, p.Command)
		require.Equal(t, "--verbose --port 5000", p.Args)
		require.Equal(t, "http://localhost:5000", p.ApplicationURL)
		require.Equal(t, map[string]string{"ASPNETCORE_ENVIRONMENT": "Development"}, p.Env,
			"non-string environment values are dropped")
	})

	t.Run("bare_profile_has_empty_env", func(t *testing.T) {
		p, err := Read(path, "Bare")
		require.NoError(t, err)
		require.NotNil(t, p.Env)
		require.Empty(t, p.Env)
		require.Empty(t, p.Args)
	})

	t.Run("wrongly_typed_fields_read_as_absent", func(t *testing.T) {
		p, err := Read(path, "Odd")
		require.NoError(t, err)
		require.Empty(t, p.Command)
		require.Empty(t, p.Args)
	})

	t.Run("non_object_profile", func(t *testing.T) {
		p, err := Read(path, "Scalar")
		require.NoError(t, err)
		require.Equal(t, "Scalar", p.Name)
		require.Empty(t, p.Command)
	})

	t.Run("missing_profile", func(t *testing.T) {
		_, err := Read(path, "Staging")
		require.ErrorIs(t, err, ErrProfileNotFound)
	})
}
