package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dotlaunch/internal/launchsettings"
	"dotlaunch/internal/watch"
)

// watchCmd re-reports launch inputs whenever they change on disk
var watchCmd = &cobra.Command{
	Use:   "watch [project]",
	Short: "Watch launch inputs and report changes",
	Long: `Watches the project file and its launchSettings.json. After each burst
of changes settles, the profile list is re-read and printed, so an editor
picker (or a developer) sees renamed and added profiles without re-running
'dotlaunch profiles'. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	proj, err := targetProject(args)
	if err != nil {
		return err
	}
	settingsPath, err := launchsettings.Locate(proj.Dir)
	if err != nil && !errors.Is(err, launchsettings.ErrFileNotFound) {
		return err
	}

	watcher, err := watch.New(cfg.WatchDebounce(), func(ctx context.Context, paths []string) {
		for _, path := range paths {
			fmt.Printf("changed: %s\n", relativeToWorkspace(path))
		}
		reportProfiles(proj.Dir)
	}, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(proj.File); err != nil {
		return err
	}
	if settingsPath != "" {
		if err := watcher.Add(settingsPath); err != nil {
			return err
		}
	} else {
		// No settings yet: watch the conventional locations so a created
		// file is picked up. The Properties candidate needs its directory
		// to exist, so that Add is best-effort.
		if err := watcher.Add(filepath.Join(proj.Dir, launchsettings.FileName)); err != nil {
			return err
		}
		_ = watcher.Add(filepath.Join(proj.Dir, "Properties", launchsettings.FileName))
	}

	fmt.Printf("Watching %s", relativeToWorkspace(proj.File))
	if settingsPath != "" {
		fmt.Printf(" and %s", relativeToWorkspace(settingsPath))
	}
	fmt.Println(" (Ctrl+C to stop)")
	reportProfiles(proj.Dir)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(ctx) })
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reportProfiles prints the current profile list, or why there is none.
func reportProfiles(projectDir string) {
	settingsPath, err := launchsettings.Locate(projectDir)
	if err != nil {
		fmt.Println("  no launch settings file")
		return
	}
	names, err := launchsettings.List(settingsPath)
	if err != nil {
		fmt.Printf("  %v\n", err)
		return
	}
	fmt.Printf("  profiles: %v\n", names)
}
