package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dotlaunch/internal/project"
)

// projectsCmd lists the build units an editor picker can offer
var projectsCmd = &cobra.Command{
	Use:   "projects [root]",
	Short: "List project files under the workspace",
	Long: `Scans the workspace for .csproj/.fsproj/.vbproj files, skipping build
output and VCS directories. The selected start project is marked with '*'.

Example:
  dotlaunch projects
  dotlaunch projects ./services`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	root := workspaceRoot()
	if len(args) > 0 {
		root = args[0]
	}

	projects, err := project.Discover(root)
	if err != nil {
		return err
	}
	logger.Debug("workspace scanned",
		zap.String("root", root),
		zap.Int("projects", len(projects)))

	if len(projects) == 0 {
		fmt.Println("No project files found.")
		return nil
	}

	selected := ""
	if sel, err := selectionStore().Load(); err == nil {
		selected = sel.ProjectFile
	}

	for _, p := range projects {
		marker := " "
		if p.File == selected {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, relativeToWorkspace(p.File))
	}
	return nil
}
