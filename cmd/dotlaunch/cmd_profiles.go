package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dotlaunch/internal/launchsettings"
)

// profilesCmd lists the run profiles a project declares
var profilesCmd = &cobra.Command{
	Use:   "profiles [project]",
	Short: "List launch profiles declared by a project",
	Long: `Reads the project's launchSettings.json and prints its profile names in
alphabetical order. Profiles whose commandName is not "Project" are listed
but marked unsupported; only "Project" profiles can be launched.

Without an argument the saved start project is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func runProfiles(cmd *cobra.Command, args []string) error {
	proj, err := targetProject(args)
	if err != nil {
		return err
	}

	settingsPath, err := launchsettings.Locate(proj.Dir)
	if err != nil {
		return err
	}

	names, err := launchsettings.List(settingsPath)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("No profiles in %s\n", relativeToWorkspace(settingsPath))
		return nil
	}

	selected := ""
	if sel, selErr := selectionStore().Load(); selErr == nil && sel.ProjectFile == proj.File {
		selected = sel.Profile
	}

	for _, name := range names {
		marker := " "
		if name == selected {
			marker = "*"
		}
		note := ""
		if profile, readErr := launchsettings.Read(settingsPath, name); readErr == nil && profile.Command != launchsettings.CommandProject {
			kind := profile.Command
			if kind == "" {
				kind = "none"
			}
			note = fmt.Sprintf("  (unsupported: %s)", kind)
		}
		fmt.Printf("%s %s%s\n", marker, name, note)
	}
	return nil
}
