// Package msbuild drives the dotnet CLI: property queries against a project
// file, a custom-targets fallback for SDKs without -getProperty support, and
// build invocations.
package msbuild

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultTool is the runtime launcher binary expected on PATH.
const DefaultTool = "dotnet"

const (
	defaultQueryTimeout = 15 * time.Second
	defaultBuildTimeout = 120 * time.Second
	defaultMaxOutput    = 4 << 20
)

// Config controls how the client invokes the build tool.
type Config struct {
	// Tool is the CLI binary name or absolute path. Defaults to "dotnet".
	Tool string
	// QueryTimeout bounds property-query invocations.
	QueryTimeout time.Duration
	// BuildTimeout bounds full build invocations.
	BuildTimeout time.Duration
	// MaxOutputBytes caps captured subprocess output.
	MaxOutputBytes int64
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Tool:           DefaultTool,
		QueryTimeout:   defaultQueryTimeout,
		BuildTimeout:   defaultBuildTimeout,
		MaxOutputBytes: defaultMaxOutput,
	}
}

// Client shells out to the build tool. Calls run one subprocess at a time;
// the zero value is not usable, construct with NewClient.
type Client struct {
	cfg Config
	log *zap.Logger
}

// NewClient builds a client, filling unset config fields with defaults.
// A nil logger disables logging.
func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}
	if cfg.BuildTimeout <= 0 {
		cfg.BuildTimeout = defaultBuildTimeout
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = defaultMaxOutput
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{cfg: cfg, log: log}
}

// Tool returns the configured CLI binary.
func (c *Client) Tool() string { return c.cfg.Tool }

// Version reports the tool's version string, or an error when the tool
// cannot be run at all.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, c.cfg.QueryTimeout, "", nil, "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// QueryProperties asks msbuild for the named properties of projectFile under
// the given configuration and parses the answer. Invocation failures are
// marked ErrQueryFailed; callers treat them as "try the next tier", not as
// fatal.
func (c *Client) QueryProperties(ctx context.Context, projectFile, configuration string, names []string) (PropertySet, error) {
	args := make([]string, 0, len(names)+4)
	args = append(args, "msbuild", projectFile, "-nologo")
	for _, name := range names {
		args = append(args, "-getProperty:"+name)
	}
	args = append(args, "-property:Configuration="+configuration)

	c.log.Debug("querying build properties",
		zap.String("project", projectFile),
		zap.String("configuration", configuration),
		zap.Strings("properties", names))

	out, err := c.run(ctx, c.cfg.QueryTimeout, filepath.Dir(projectFile), nil, args...)
	if err != nil {
		return nil, errors.Mark(err, ErrQueryFailed)
	}
	return ParseProperties(out, names), nil
}

// Build compiles the project. Output streams to sink when one is given;
// otherwise it is captured and logged on failure.
func (c *Client) Build(ctx context.Context, projectFile, configuration string, sink io.Writer) error {
	args := []string{"build", projectFile, "-c", configuration, "-v", "minimal"}

	c.log.Info("building project",
		zap.String("project", projectFile),
		zap.String("configuration", configuration))

	out, err := c.run(ctx, c.cfg.BuildTimeout, filepath.Dir(projectFile), sink, args...)
	if err != nil {
		if out != "" {
			c.log.Warn("build output", zap.String("tail", tail(out, 2000)))
		}
		return errors.Mark(err, ErrBuildFailed)
	}
	return nil
}

// run executes the tool with a hard timeout. When sink is nil the combined
// stdout/stderr text is captured (size-capped) and returned; otherwise it is
// streamed to sink and the returned string is empty.
func (c *Client) run(ctx context.Context, timeout time.Duration, dir string, sink io.Writer, args ...string) (string, error) {
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, c.cfg.Tool, args...)
	cmd.Dir = dir
	// Settle even if a grandchild inherits the output pipes past the kill.
	cmd.WaitDelay = time.Second

	var buf bytes.Buffer
	limited := &limitedWriter{w: &buf, max: c.cfg.MaxOutputBytes}
	var out io.Writer = limited
	if sink != nil {
		out = sink
	}
	cmd.Stdout = out
	cmd.Stderr = out

	started := time.Now()
	err := cmd.Run()
	captured := buf.String()

	if limited.truncated {
		c.log.Warn("tool output truncated", zap.Int64("discarded_bytes", limited.discarded))
	}

	if err != nil {
		switch {
		case execCtx.Err() == context.DeadlineExceeded:
			c.log.Warn("tool killed on timeout",
				zap.String("tool", c.cfg.Tool),
				zap.Duration("timeout", timeout))
			return captured, errors.Wrapf(err, "%s timed out after %s", c.cfg.Tool, timeout)
		case execCtx.Err() == context.Canceled:
			return captured, execCtx.Err()
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			c.log.Debug("tool exited non-zero",
				zap.String("tool", c.cfg.Tool),
				zap.Int("code", exitErr.ExitCode()))
			return captured, errors.Wrapf(err, "%s exited with code %d", c.cfg.Tool, exitErr.ExitCode())
		}
		return captured, errors.Wrapf(err, "failed to run %s", c.cfg.Tool)
	}

	c.log.Debug("tool finished",
		zap.String("tool", c.cfg.Tool),
		zap.Duration("duration", time.Since(started)),
		zap.Int("output_bytes", buf.Len()))
	return captured, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// limitedWriter caps total bytes written, discarding the overflow while
// reporting full writes to keep the producer from failing.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
	discarded int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)

	if lw.written >= lw.max {
		lw.truncated = true
		lw.discarded += int64(n)
		return n, nil
	}

	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		lw.discarded += int64(n) - remaining
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err
	}

	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
