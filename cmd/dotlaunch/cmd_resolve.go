package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dotlaunch/internal/resolve"
)

var resolveJSON bool

// resolveCmd runs the binary resolution pipeline on its own
var resolveCmd = &cobra.Command{
	Use:   "resolve [project]",
	Short: "Resolve a project's compiled binary path",
	Long: `Runs the resolution pipeline without launching: build-tool property
query, computed expectation, filesystem search. Prints the winning path, the
tier that produced it, and whether the file exists.

Example:
  dotlaunch resolve
  dotlaunch resolve src/Api/Api.csproj --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the resolution as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	proj, err := targetProject(args)
	if err != nil {
		return err
	}

	resolver := resolve.NewResolver(newClient(), logger)
	resolution := resolver.Resolve(context.Background(), proj, activeConfiguration())

	exists := false
	if info, statErr := os.Stat(resolution.Path); statErr == nil && !info.IsDir() {
		exists = true
	}

	if resolveJSON {
		out, err := json.MarshalIndent(struct {
			Path       string             `json:"path"`
			Provenance resolve.Provenance `json:"provenance"`
			Exists     bool               `json:"exists"`
		}{resolution.Path, resolution.Provenance, exists}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Binary:     %s\n", resolution.Path)
	fmt.Printf("Provenance: %s\n", resolution.Provenance)
	if !exists {
		fmt.Println("Exists:     no (run 'dotlaunch build' first)")
	} else {
		fmt.Println("Exists:     yes")
	}
	return nil
}
