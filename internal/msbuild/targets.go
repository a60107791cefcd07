package msbuild

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const propertiesTarget = "DotlaunchPrintProperties"

// QueryPropertiesViaTargets re-runs the property query through a temporary
// targets file hooked in with CustomAfterMicrosoftCommonTargets, for SDKs
// whose msbuild lacks -getProperty. The target prints each property as a
// "Name: value" message that the line parser understands. The temp directory
// is removed on every exit path.
func (c *Client) QueryPropertiesViaTargets(ctx context.Context, projectFile, configuration string, names []string) (PropertySet, error) {
	tmpDir, err := os.MkdirTemp("", "dotlaunch-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	targetsPath, err := writeTargetsFile(tmpDir, names)
	if err != nil {
		return nil, err
	}

	args := []string{
		"msbuild", projectFile, "-nologo",
		"-t:" + propertiesTarget,
		"-p:CustomAfterMicrosoftCommonTargets=" + targetsPath,
		"-property:Configuration=" + configuration,
		"-v:minimal",
	}

	c.log.Debug("querying build properties via targets file",
		zap.String("project", projectFile),
		zap.String("targets", targetsPath))

	out, err := c.run(ctx, c.cfg.QueryTimeout, filepath.Dir(projectFile), nil, args...)
	if err != nil {
		return nil, errors.Mark(err, ErrQueryFailed)
	}
	return ParseProperties(out, names), nil
}

// writeTargetsFile renders a one-target project file that echoes each named
// property at high importance so it survives minimal verbosity.
func writeTargetsFile(dir string, names []string) (string, error) {
	var b strings.Builder
	b.WriteString("<Project>\n")
	fmt.Fprintf(&b, "  <Target Name=%q>\n", propertiesTarget)
	for _, name := range names {
		fmt.Fprintf(&b, "    <Message Importance=\"high\" Text=\"%s: $(%s)\" />\n", name, name)
	}
	b.WriteString("  </Target>\n")
	b.WriteString("</Project>\n")

	path := filepath.Join(dir, "dotlaunch.targets")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write targets file: %s", path)
	}
	return path, nil
}
