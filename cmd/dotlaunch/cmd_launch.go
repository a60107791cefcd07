package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dotlaunch/internal/launch"
	"dotlaunch/internal/resolve"
)

var (
	launchProfile string
	launchNoBuild bool
)

// launchCmd assembles the full debugger launch descriptor
var launchCmd = &cobra.Command{
	Use:   "launch [project]",
	Short: "Build the debugger launch descriptor",
	Long: `Resolves the selected project and profile into a complete launch request
and prints it as JSON on stdout. When the compiled binary is missing the
project is built once and resolution retried; --no-build turns that off.

The printed descriptor is what an editor hands to its .NET debugger:
program, argument list, working directory, console mode, and the profile's
environment (with ASPNETCORE_URLS synthesized from applicationUrl unless the
profile sets it explicitly).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLaunch,
}

// buildCmd delegates a build to the dotnet CLI
var buildCmd = &cobra.Command{
	Use:   "build [project]",
	Short: "Build a project with the dotnet CLI",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	launchCmd.Flags().StringVar(&launchProfile, "profile", "", "Launch profile (default: saved selection)")
	launchCmd.Flags().BoolVar(&launchNoBuild, "no-build", false, "Fail instead of building when the binary is missing")

	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(buildCmd)
}

func runLaunch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	proj, err := targetProject(args)
	if err != nil {
		return err
	}
	profileName, err := selectedProfile(launchProfile)
	if err != nil {
		return err
	}

	client := newClient()
	resolver := resolve.NewResolver(client, logger)

	var runner launch.BuildRunner
	if !launchNoBuild {
		runner = client
	}
	builder := launch.NewBuilder(resolver, runner, launch.BuilderConfig{
		Tool:        cfg.Tool.Path,
		BuildOutput: os.Stderr,
	}, logger)

	descriptor, err := builder.Build(ctx, launch.Request{
		Project:       proj,
		ProfileName:   profileName,
		Configuration: activeConfiguration(),
	})
	if err != nil {
		logger.Error("launch failed",
			zap.String("project", proj.Name),
			zap.String("profile", profileName),
			zap.Error(err))
		return err
	}

	out, err := json.MarshalIndent(descriptor, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	proj, err := targetProject(args)
	if err != nil {
		return err
	}

	if err := newClient().Build(ctx, proj.File, activeConfiguration(), os.Stdout); err != nil {
		return err
	}
	fmt.Printf("Built %s (%s)\n", proj.Name, activeConfiguration())
	return nil
}
