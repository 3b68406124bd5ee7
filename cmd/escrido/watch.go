package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"escrido/internal/watcher"

	"github.com/spf13/cobra"
)

var watchDelay time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build, then rebuild whenever a file below the include paths changes",
	Long: `Build the documentation once and rebuild it on every change below the
include paths. Changes arriving within the debounce delay are built once.
Output directories inside an include path are ignored.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := setup(cmd)
		ctx := cmd.Context()

		if _, err := build(ctx, cfg, logger); err != nil {
			logger.Error("build failed", "error", err)
		}

		fw, err := watcher.NewFileWatcher(watchDelay, logger)
		if err != nil {
			log.Fatalf("Failed to create file watcher: %v", err)
		}
		defer fw.Close()

		fw.AddFilter(watcher.NoHiddenFilter)
		fw.AddFilter(watcher.ExtensionFilter(cfg.Extensions...))
		fw.AddFilter(watcher.OutsideFilter(cfg.HTML.OutDir, cfg.LaTeX.OutDir, cfg.DB, cfg.Report))
		fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
			fmt.Printf("📁 %d file(s) changed\n", len(events))
			for _, e := range events {
				logger.Debug("change", "type", e.Type, "path", e.Path)
			}
			start := time.Now()
			if _, err := build(ctx, cfg, logger); err != nil {
				return fmt.Errorf("rebuild: %w", err)
			}
			fmt.Printf("🔄 Rebuilt in %v\n", time.Since(start).Round(time.Millisecond))
			return nil
		})

		for _, root := range cfg.Include {
			if err := fw.AddRecursive(root); err != nil {
				log.Fatalf("Failed to watch %s: %v", root, err)
			}
		}

		fmt.Println("👀 Watching for changes. Press Ctrl+C to stop.")
		if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Watcher stopped: %v", err)
		}
		fmt.Println("👋 Stopped watching.")
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDelay, "delay", 300*time.Millisecond, "Debounce delay for change bursts")
}
