package resolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"

	"dotlaunch/internal/msbuild"
	"dotlaunch/internal/project"
)

type fakeQuerier struct {
	props    msbuild.PropertySet
	err      error
	viaProps msbuild.PropertySet
	viaErr   error

	calls    int
	viaCalls int
}

func (f *fakeQuerier) QueryProperties(ctx context.Context, projectFile, configuration string, names []string) (msbuild.PropertySet, error) {
	f.calls++
	return f.props, f.err
}

func (f *fakeQuerier) QueryPropertiesViaTargets(ctx context.Context, projectFile, configuration string, names []string) (msbuild.PropertySet, error) {
	f.viaCalls++
	return f.viaProps, f.viaErr
}

func tempProject(t *testing.T) project.Project {
	t.Helper()
	dir := t.TempDir()
	return project.Project{
		File: filepath.Join(dir, "App.csproj"),
		Dir:  dir,
		Name: "App",
	}
}

func writeBinary(t *testing.T, root string, rel ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{root}, rel...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0o644))
	return path
}

func TestResolveToolReported(t *testing.T) {
	proj := tempProject(t)

	t.Run("absolute", func(t *testing.T) {
		q := &fakeQuerier{props: msbuild.PropertySet{
			msbuild.PropTargetPath: "/elsewhere/App.dll",
		}}
		res := NewResolver(q, nil).Resolve(context.Background(), proj, "Debug")

		require.Equal(t, "/elsewhere/App.dll", res.Path)
		require.Equal(t, ProvenanceToolReported, res.Provenance)
		require.Zero(t, q.viaCalls, "targets retry must not run after a direct answer")
	})

	t.Run("relative_anchored_to_project", func(t *testing.T) {
		q := &fakeQuerier{props: msbuild.PropertySet{
			msbuild.PropTargetPath: filepath.Join("bin", "Debug", "App.dll"),
		}}
		res := NewResolver(q, nil).Resolve(context.Background(), proj, "Debug")

		require.Equal(t, filepath.Join(proj.Dir, "bin", "Debug", "App.dll"), res.Path)
		require.Equal(t, ProvenanceToolReported, res.Provenance)
	})
}

// A direct tool answer outranks an on-disk candidate.
func TestResolveToolReportedBeatsSearch(t *testing.T) {
	proj := tempProject(t)
	writeBinary(t, proj.Dir, "bin", "Debug", "net8.0", "App.dll")

	q := &fakeQuerier{props: msbuild.PropertySet{
		msbuild.PropTargetPath: "/reported/App.dll",
	}}
	res := NewResolver(q, nil).Resolve(context.Background(), proj, "Debug")

	require.Equal(t, "/reported/App.dll", res.Path)
	require.Equal(t, ProvenanceToolReported, res.Provenance)
}

func TestResolveToolComputed(t *testing.T) {
	proj := tempProject(t)

	q := &fakeQuerier{props: msbuild.PropertySet{
		msbuild.PropTargetFramework: "net8.0",
		msbuild.PropOutputPath:      "bin/Debug/",
		msbuild.PropAssemblyName:    "App",
	}}
	res := NewResolver(q, nil).Resolve(context.Background(), proj, "Debug")

	require.Equal(t, filepath.Join(proj.Dir, "bin", "Debug", "net8.0", "App.dll"), res.Path)
	require.Equal(t, ProvenanceToolComputed, res.Provenance)
}

func TestResolveTargetsRetry(t *testing.T) {
	proj := tempProject(t)

	t.Run("after_query_error", func(t *testing.T) {
		q := &fakeQuerier{
			err:      errors.New("tool exploded"),
			viaProps: msbuild.PropertySet{msbuild.PropTargetPath: "/via/App.dll"},
		}
		res := NewResolver(q, nil).Resolve(context.Background(), proj, "Debug")

		require.Equal(t, 1, q.viaCalls)
		require.Equal(t, "/via/App.dll", res.Path)
		require.Equal(t, ProvenanceToolReported, res.Provenance)
	})

	t.Run("after_empty_answer", func(t *testing.T) {
		q := &fakeQuerier{
			props: msbuild.PropertySet{},
			viaProps: msbuild.PropertySet{
				msbuild.PropTargetFramework: "net8.0",
			},
		}
		res := NewResolver(q, nil).Resolve(context.Background(), proj, "Debug")

		require.Equal(t, 1, q.viaCalls)
		require.Equal(t, ProvenanceToolComputed, res.Provenance)
		require.Equal(t, filepath.Join(proj.Dir, "bin", "Debug", "net8.0", "App.dll"), res.Path)
	})
}

func TestResolveSearch(t *testing.T) {
	failing := func() *fakeQuerier {
		return &fakeQuerier{
			err:    errors.New("no tool"),
			viaErr: errors.New("no tool"),
		}
	}

	t.Run("conventional_tree", func(t *testing.T) {
		proj := tempProject(t)
		want := writeBinary(t, proj.Dir, "bin", "Debug", "net8.0", "App.dll")

		res := NewResolver(failing(), nil).Resolve(context.Background(), proj, "Debug")
		require.Equal(t, want, res.Path)
		require.Equal(t, ProvenanceSearch, res.Provenance)
	})

	t.Run("prefers_exact_name", func(t *testing.T) {
		proj := tempProject(t)
		writeBinary(t, proj.Dir, "bin", "Debug", "net8.0", "Aardvark.dll")
		want := writeBinary(t, proj.Dir, "bin", "Debug", "net8.0", "App.dll")

		res := NewResolver(failing(), nil).Resolve(context.Background(), proj, "Debug")
		require.Equal(t, want, res.Path)
	})

	t.Run("any_dll_in_conventional_tree", func(t *testing.T) {
		proj := tempProject(t)
		want := writeBinary(t, proj.Dir, "bin", "Debug", "net8.0", "Helper.dll")

		res := NewResolver(failing(), nil).Resolve(context.Background(), proj, "Debug")
		require.Equal(t, want, res.Path)
	})

	t.Run("anywhere_under_project", func(t *testing.T) {
		proj := tempProject(t)
		want := writeBinary(t, proj.Dir, "artifacts", "custom", "App.dll")

		res := NewResolver(failing(), nil).Resolve(context.Background(), proj, "Debug")
		require.Equal(t, want, res.Path)
	})

	t.Run("intermediate_output_excluded", func(t *testing.T) {
		proj := tempProject(t)
		writeBinary(t, proj.Dir, "obj", "Debug", "net8.0", "App.dll")

		res := NewResolver(failing(), nil).Resolve(context.Background(), proj, "Debug")
		require.Equal(t, filepath.Join(proj.Dir, "bin", "Debug", "App.dll"), res.Path,
			"obj must not satisfy the search; only the guess remains")
		require.Equal(t, ProvenanceSearch, res.Provenance)
	})
}

func TestResolveConventionalGuess(t *testing.T) {
	proj := tempProject(t)

	res := NewResolver(&fakeQuerier{err: errors.New("down"), viaErr: errors.New("down")}, nil).
		Resolve(context.Background(), proj, "Release")

	require.Equal(t, filepath.Join(proj.Dir, "bin", "Release", "App.dll"), res.Path)
	require.Equal(t, ProvenanceSearch, res.Provenance)
}

func TestResolveCanceledContextSkipsRetry(t *testing.T) {
	proj := tempProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := &fakeQuerier{err: context.Canceled}
	res := NewResolver(q, nil).Resolve(ctx, proj, "Debug")

	require.Zero(t, q.viaCalls)
	require.Equal(t, ProvenanceSearch, res.Provenance)
}
