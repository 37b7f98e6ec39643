package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/render"
)

// configurationWatchCmd represents the configuration watch command
var configurationWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the configuration when the overlay file changes",
	Long: `Watch the overlay file and render the configuration again each time it
changes. The configuration is also rendered once on start.

Changes to environment variables are NOT picked up because process
environments are static once a process has started.

Example:
  sentryctl configuration watch
  sentryctl configuration watch --format yaml --out /etc/sentry/config.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := watchConfiguration(ctx, format, out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationWatchCmd)
	configurationWatchCmd.Flags().StringP("format", "f", string(render.FormatPython), "Output format (python or yaml)")
	configurationWatchCmd.Flags().StringP("out", "O", "", "Output path")
}

func watchConfiguration(ctx context.Context, formatName, out string) error {
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := config.Reload()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	filename := cfg.ConfigFilePath()
	path := renderPath(cfg, format, out)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// The directory is watched so that atomic replaces and late creation of
	// the file are seen.
	dir := filepath.Dir(filename)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	if err := rerender(cfg, format, path); err != nil {
		return err
	}

	log.WithFields(log.Fields{"file": filename, "out": path}).Info("Watching overlay file")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(filename) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			log.WithFields(log.Fields{"file": filename, "op": event.Op.String()}).Info("Overlay file changed, reloading")

			cfg, err := config.Reload()
			if err != nil {
				log.WithFields(log.Fields{"err": err}).Error("Reloading configuration")
				continue
			}
			if err := rerender(cfg, format, path); err != nil {
				log.WithFields(log.Fields{"err": err}).Error("Rendering configuration")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithFields(log.Fields{"err": err}).Error("Watcher error")
		case <-ctx.Done():
			log.Info("Shutting down")
			return nil
		}
	}
}

func rerender(cfg *config.SentryConfig, format render.Format, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := render.WriteFile(path, format, cfg); err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": path, "format": string(format)}).Info("Rendered configuration")
	return nil
}
