package launch

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"dotlaunch/internal/cmdline"
	"dotlaunch/internal/launchsettings"
	"dotlaunch/internal/msbuild"
	"dotlaunch/internal/project"
	"dotlaunch/internal/resolve"
)

// DefaultConfiguration is used when a request does not name one.
const DefaultConfiguration = "Debug"

// BinaryResolver yields a best-effort binary location. It never fails.
type BinaryResolver interface {
	Resolve(ctx context.Context, proj project.Project, configuration string) resolve.Resolution
}

// BuildRunner compiles a project. The builder invokes it at most once per
// request, when the resolved binary is missing on disk.
type BuildRunner interface {
	Build(ctx context.Context, projectFile, configuration string, sink io.Writer) error
}

// Request names what to launch.
type Request struct {
	Project     project.Project
	ProfileName string
	// Configuration defaults to Debug.
	Configuration string
}

// BuilderConfig carries the builder's fixed collaborator settings.
type BuilderConfig struct {
	// Tool is the runtime launcher recorded as the descriptor's program.
	// Defaults to the dotnet CLI.
	Tool string
	// BuildOutput receives build output during the missing-binary retry.
	// Nil discards it.
	BuildOutput io.Writer
}

// Builder assembles launch descriptors. Construct with NewBuilder.
type Builder struct {
	resolver BinaryResolver
	runner   BuildRunner
	cfg      BuilderConfig
	log      *zap.Logger
}

// NewBuilder wires a builder. runner may be nil, in which case a missing
// binary is a terminal failure instead of triggering a build. A nil logger
// disables logging.
func NewBuilder(resolver BinaryResolver, runner BuildRunner, cfg BuilderConfig, log *zap.Logger) *Builder {
	if cfg.Tool == "" {
		cfg.Tool = msbuild.DefaultTool
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{resolver: resolver, runner: runner, cfg: cfg, log: log}
}

// Build resolves the request into a ready launch descriptor: profile read
// and validated, binary located (building once if it is missing), arguments
// tokenized, environment merged.
func (b *Builder) Build(ctx context.Context, req Request) (*Descriptor, error) {
	if req.Configuration == "" {
		req.Configuration = DefaultConfiguration
	}

	settingsPath, err := launchsettings.Locate(req.Project.Dir)
	if err != nil {
		return nil, err
	}

	profile, err := launchsettings.Read(settingsPath, req.ProfileName)
	if err != nil {
		return nil, err
	}
	if profile.Command != launchsettings.CommandProject {
		return nil, errors.Wrapf(ErrUnsupportedProfileKind,
			"profile %q declares commandName %q", profile.Name, profile.Command)
	}

	resolution, err := b.locateBinary(ctx, req)
	if err != nil {
		return nil, err
	}

	desc := &Descriptor{
		Type:                   TypeCoreCLR,
		Request:                RequestLaunch,
		Name:                   DescriptorName,
		Program:                b.cfg.Tool,
		Args:                   append([]string{resolution.Path}, cmdline.Split(profile.Args)...),
		Cwd:                    req.Project.Dir,
		Console:                ConsoleIntegrated,
		InternalConsoleOptions: ConsoleOptionsNeverOpen,
		Env:                    MergeEnvironment(profile.Env, profile.ApplicationURL),
		AlreadyResolved:        true,
	}

	b.log.Info("launch descriptor ready",
		zap.String("project", req.Project.Name),
		zap.String("profile", profile.Name),
		zap.String("binary", resolution.Path),
		zap.String("provenance", string(resolution.Provenance)))
	return desc, nil
}

// locateBinary resolves the binary and, when the resolved path does not
// exist, builds the project and resolves exactly once more.
func (b *Builder) locateBinary(ctx context.Context, req Request) (resolve.Resolution, error) {
	resolution := b.resolver.Resolve(ctx, req.Project, req.Configuration)
	if fileExists(resolution.Path) {
		return resolution, nil
	}

	if b.runner == nil {
		return resolve.Resolution{}, errors.Wrapf(ErrBinaryUnresolved,
			"expected %s", resolution.Path)
	}

	b.log.Info("binary missing, building project",
		zap.String("project", req.Project.Name),
		zap.String("expected", resolution.Path))
	if err := b.runner.Build(ctx, req.Project.File, req.Configuration, b.cfg.BuildOutput); err != nil {
		return resolve.Resolution{}, err
	}

	resolution = b.resolver.Resolve(ctx, req.Project, req.Configuration)
	if !fileExists(resolution.Path) {
		return resolve.Resolution{}, errors.Wrapf(ErrBinaryUnresolved,
			"expected %s after building", resolution.Path)
	}
	return resolution, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
