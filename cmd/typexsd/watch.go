package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the schemas whenever the model file changes",
		Long: `Generate the schemas, then watch the model file and regenerate on every
change until interrupted. A failed generation is logged and the previous
output is kept.

Examples:
  typexsd watch --model company.yaml --out ./xsd`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, g)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, cfg, g.logger)
		},
	}
	bindFlags(cmd)
	return cmd
}

// watch regenerates on every write to the model file until ctx is done.
func watch(ctx context.Context, cfg *config, logger *slog.Logger) error {
	path, err := filepath.Abs(cfg.Model)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so atomic saves (rename over the file) are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	regenerate := func() {
		if _, err := generate(ctx, cfg, logger); err != nil {
			logger.Error("generation failed, keeping previous output", "model", cfg.Model, "error", err)
		}
	}
	regenerate()
	logger.Info("watching model for changes", "path", path)

	filename := filepath.Base(path)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				logger.Debug("model changed", "event", event.Op.String(), "file", event.Name)
				regenerate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("file watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
