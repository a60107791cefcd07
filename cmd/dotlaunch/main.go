// Package main implements the dotlaunch CLI. Each cmd_*.go file carries one
// command family; shared flag state and collaborator wiring live here.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dotlaunch/internal/config"
	"dotlaunch/internal/msbuild"
	"dotlaunch/internal/project"
	"dotlaunch/internal/workspace"
)

var (
	// Global flags
	verbose       bool
	workspaceFlag string
	configFile    string
	configuration string
	toolPath      string

	// Loaded in PersistentPreRunE, shared by every command.
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dotlaunch",
	Short: "dotlaunch - resolve .NET launch profiles into debugger launch requests",
	Long: `dotlaunch turns a selected .NET project and launch profile into a concrete
debugger launch request.

It queries the build tool for output properties, computes the expected binary
path when the answer is incomplete, and falls back to a filesystem search when
the tool cannot be asked at all. The resulting descriptor (program, arguments,
working directory, environment) is printed as JSON for the editor's debug
subsystem.

Pick a start project once with 'dotlaunch use'; every later 'dotlaunch launch'
reuses that selection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = config.DefaultPath(workspaceRoot())
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if toolPath != "" {
			cfg.Tool.Path = toolPath
		}
		if configuration != "" {
			cfg.Launch.Configuration = configuration
		}

		// Initialize logger
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Logging.Level))
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		// Keep stdout clean for descriptor JSON; logs go to stderr.
		zapCfg.OutputPaths = []string{"stderr"}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: <workspace>/.dotlaunch/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&configuration, "configuration", "c", "", "Build configuration (default: Debug)")
	rootCmd.PersistentFlags().StringVar(&toolPath, "dotnet", "", "dotnet CLI binary (default: dotnet on PATH)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// workspaceRoot resolves the directory holding .dotlaunch/.
func workspaceRoot() string {
	if workspaceFlag != "" {
		return workspaceFlag
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

func selectionStore() *workspace.Store {
	return workspace.NewStore(workspaceRoot())
}

func newClient() *msbuild.Client {
	return msbuild.NewClient(msbuild.Config{
		Tool:         cfg.Tool.Path,
		QueryTimeout: cfg.QueryTimeout(),
		BuildTimeout: cfg.BuildTimeout(),
	}, logger)
}

// targetProject resolves which project a command acts on: an explicit path
// argument wins, else the saved selection. A directory argument is accepted
// when it contains exactly one project file.
func targetProject(args []string) (project.Project, error) {
	if len(args) > 0 {
		return projectFromArg(args[0])
	}

	sel, err := selectionStore().Load()
	if err != nil {
		return project.Project{}, err
	}
	return project.FromFile(sel.ProjectFile)
}

func projectFromArg(arg string) (project.Project, error) {
	info, err := os.Stat(arg)
	if err == nil && info.IsDir() {
		projects, err := project.Discover(arg)
		if err != nil {
			return project.Project{}, err
		}
		switch len(projects) {
		case 0:
			return project.Project{}, fmt.Errorf("no project files under %s", arg)
		case 1:
			return projects[0], nil
		default:
			return project.Project{}, fmt.Errorf("%d projects under %s, pass the project file explicitly", len(projects), arg)
		}
	}
	return project.FromFile(arg)
}

// selectedProfile returns the profile name for a launch: the flag wins, else
// the saved selection.
func selectedProfile(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	sel, err := selectionStore().Load()
	if err != nil {
		return "", err
	}
	if sel.Profile == "" {
		return "", fmt.Errorf("no launch profile selected, pass --profile or run 'dotlaunch use --profile'")
	}
	return sel.Profile, nil
}

// activeConfiguration returns the build configuration for a command,
// honoring a saved per-selection override when the flag is unset.
func activeConfiguration() string {
	if configuration != "" {
		return configuration
	}
	if sel, err := selectionStore().Load(); err == nil && sel.Configuration != "" {
		return sel.Configuration
	}
	return cfg.Launch.Configuration
}

func relativeToWorkspace(path string) string {
	rel, err := filepath.Rel(workspaceRoot(), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
