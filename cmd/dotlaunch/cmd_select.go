// Selection commands: persist the start project and profile so launch does
// not ask again.
package main

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dotlaunch/internal/launchsettings"
	"dotlaunch/internal/workspace"
)

var useProfile string

// useCmd persists the start-project selection
var useCmd = &cobra.Command{
	Use:   "use <project>",
	Short: "Select the start project (and optionally a profile)",
	Long: `Saves the start project under .dotlaunch/ so later commands can omit it.

Examples:
  dotlaunch use src/Api/Api.csproj
  dotlaunch use src/Api --profile Dev`,
	Args: cobra.ExactArgs(1),
	RunE: runUse,
}

// statusCmd shows the current selection
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved selection and its launch settings",
	RunE:  runStatus,
}

// clearCmd forgets the selection
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved start project",
	RunE:  runClear,
}

func init() {
	useCmd.Flags().StringVar(&useProfile, "profile", "", "Launch profile to select")

	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)
}

func runUse(cmd *cobra.Command, args []string) error {
	proj, err := projectFromArg(args[0])
	if err != nil {
		return err
	}

	// A named profile must exist in the project's settings before it is
	// pinned.
	if useProfile != "" {
		settingsPath, err := launchsettings.Locate(proj.Dir)
		if err != nil {
			return err
		}
		names, err := launchsettings.List(settingsPath)
		if err != nil {
			return err
		}
		if !slices.Contains(names, useProfile) {
			return errors.Wrapf(launchsettings.ErrProfileNotFound,
				"%q (available: %v)", useProfile, names)
		}
	}

	sel := workspace.Selection{
		ProjectFile:   proj.File,
		Profile:       useProfile,
		Configuration: configuration,
	}
	if err := selectionStore().Save(sel); err != nil {
		return err
	}
	logger.Info("selection saved",
		zap.String("project", proj.File),
		zap.String("profile", useProfile))

	fmt.Printf("Start project: %s\n", relativeToWorkspace(proj.File))
	if useProfile != "" {
		fmt.Printf("Profile:       %s\n", useProfile)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	sel, err := selectionStore().Load()
	if err != nil {
		if errors.Is(err, workspace.ErrNoSelection) {
			fmt.Println("No start project selected. Run 'dotlaunch use <project>'.")
			return nil
		}
		return err
	}

	fmt.Printf("Start project: %s\n", relativeToWorkspace(sel.ProjectFile))
	if sel.Profile != "" {
		fmt.Printf("Profile:       %s\n", sel.Profile)
	} else {
		fmt.Println("Profile:       (none)")
	}
	fmt.Printf("Configuration: %s\n", activeConfiguration())

	proj, err := targetProject(nil)
	if err != nil {
		fmt.Printf("Project file:  missing (%v)\n", err)
		return nil
	}
	settingsPath, err := launchsettings.Locate(proj.Dir)
	if err != nil {
		fmt.Println("Settings:      not found")
		return nil
	}
	fmt.Printf("Settings:      %s\n", relativeToWorkspace(settingsPath))

	if names, err := launchsettings.List(settingsPath); err == nil {
		fmt.Printf("Profiles:      %v\n", names)
	}
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := selectionStore().Clear(); err != nil {
		return err
	}
	fmt.Println("Selection cleared.")
	return nil
}
