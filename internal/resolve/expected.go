package resolve

import (
	"path/filepath"
	"strings"

	"dotlaunch/internal/msbuild"
	"dotlaunch/internal/project"
)

// ExpectedTargetPath computes where the build tool will place the compiled
// binary, reproducing its own output-layout convention from whatever
// properties were reported. An empty property set computes nothing; the
// conventional guess belongs to the caller's final fallback, not here.
func ExpectedTargetPath(proj project.Project, configuration string, props msbuild.PropertySet) (string, bool) {
	if len(props) == 0 {
		return "", false
	}

	moniker := frameworkMoniker(props)

	dir, _ := props.First(msbuild.PropOutputPath, msbuild.PropBaseOutputPath)
	if dir == "" {
		dir = filepath.Join("bin", configuration)
	} else {
		dir = normalizeSlashes(dir)
	}

	// The segment check runs against the directory as configured, before it
	// is anchored, so a moniker-like segment in the project path itself does
	// not suppress appending.
	appendMoniker := moniker != "" && shouldAppendMoniker(props) && !hasSegment(dir, moniker)

	if !filepath.IsAbs(dir) {
		dir = filepath.Join(proj.Dir, dir)
	}
	if appendMoniker {
		dir = filepath.Join(dir, moniker)
	}

	fileName, _ := props.Get(msbuild.PropTargetFileName)
	if fileName == "" {
		assembly, _ := props.Get(msbuild.PropAssemblyName)
		if assembly == "" {
			assembly = proj.Name
		}
		ext, _ := props.Get(msbuild.PropTargetExt)
		if ext == "" {
			ext = ".dll"
		}
		fileName = assembly + ext
	}

	return filepath.Join(dir, fileName), true
}

// frameworkMoniker prefers the single-framework property and falls back to
// the first entry of a semicolon-separated multi-framework list.
func frameworkMoniker(props msbuild.PropertySet) string {
	if tfm, ok := props.Get(msbuild.PropTargetFramework); ok {
		return tfm
	}
	if list, ok := props.Get(msbuild.PropTargetFrameworks); ok {
		first, _, _ := strings.Cut(list, ";")
		return strings.TrimSpace(first)
	}
	return ""
}

// shouldAppendMoniker reads the append flag; anything but an explicit
// "false" appends.
func shouldAppendMoniker(props msbuild.PropertySet) bool {
	flag, ok := props.Get(msbuild.PropAppendTargetFrameworkToOutputPath)
	return !ok || !strings.EqualFold(flag, "false")
}

func hasSegment(dir, segment string) bool {
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if strings.EqualFold(part, segment) {
			return true
		}
	}
	return false
}

// normalizeSlashes converts Windows-style separators that project files
// commonly use in output paths, whatever the host OS.
func normalizeSlashes(p string) string {
	return filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
}
