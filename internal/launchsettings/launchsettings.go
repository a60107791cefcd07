// Package launchsettings reads named run profiles from a project's
// launchSettings.json.
package launchsettings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
)

// FileName is the run-configuration file name.
const FileName = "launchSettings.json"

// CommandProject is the only command kind whose profiles launch a project's
// build output.
const CommandProject = "Project"

// Profile is one named run configuration. Fields the file declares with the
// wrong JSON type read as absent.
type Profile struct {
	Name string
	// Command is the declared commandName.
	Command string
	// Args is the raw, untokenized commandLineArgs string.
	Args string
	// ApplicationURL seeds ASPNETCORE_URLS unless the profile sets that
	// variable explicitly.
	ApplicationURL string
	// Env holds the string-valued environmentVariables entries. Never nil.
	Env map[string]string
}

// Locate returns the project's launch settings path, preferring
// Properties/launchSettings.json over a sibling launchSettings.json.
func Locate(projectDir string) (string, error) {
	candidates := []string{
		filepath.Join(projectDir, "Properties", FileName),
		filepath.Join(projectDir, FileName),
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.Wrapf(ErrFileNotFound, "project %s", projectDir)
}

// List returns the profile names in the file, sorted for stable display.
// A missing or non-object profiles field yields an empty list, not an error.
func List(path string) ([]string, error) {
	profiles, err := decode(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the named profile. The name must match exactly.
func Read(path, name string) (Profile, error) {
	profiles, err := decode(path)
	if err != nil {
		return Profile{}, err
	}

	entry, ok := profiles[name]
	if !ok {
		return Profile{}, errors.Wrapf(ErrProfileNotFound, "%q in %s", name, path)
	}

	// Tolerant decode: a non-object entry reads as a profile with every
	// field absent.
	var fields map[string]any
	_ = json.Unmarshal(entry, &fields)

	profile := Profile{
		Name:           name,
		Command:        stringField(fields, "commandName"),
		Args:           stringField(fields, "commandLineArgs"),
		ApplicationURL: stringField(fields, "applicationUrl"),
		Env:            make(map[string]string),
	}
	if rawEnv, ok := fields["environmentVariables"].(map[string]any); ok {
		for key, value := range rawEnv {
			if s, ok := value.(string); ok {
				profile.Env[key] = s
			}
		}
	}
	return profile, nil
}

func decode(path string) (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, errors.Wrapf(errors.Mark(err, ErrMalformed), "failed to parse %s", path)
	}

	profilesRaw, ok := top["profiles"]
	if !ok {
		return nil, nil
	}
	var profiles map[string]json.RawMessage
	if err := json.Unmarshal(profilesRaw, &profiles); err != nil {
		// profiles is present but not an object; treat as empty.
		return nil, nil
	}
	return profiles, nil
}

func stringField(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}
