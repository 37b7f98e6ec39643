package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/render"
)

// configurationRenderCmd represents the configuration render command
var configurationRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the configuration for Sentry",
	Long: `Render the configuration as a sentry.conf.py settings module or a
config.yml options file.

Without --out the file is written to the configuration directory
($SENTRY_CONF, default /etc/sentry). Use --out - to write to stdout.

Example:
  sentryctl configuration render
  sentryctl configuration render --format yaml
  sentryctl configuration render --out -`,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		if err := renderConfiguration(os.Stdout, format, out); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationRenderCmd)
	configurationRenderCmd.Flags().StringP("format", "f", string(render.FormatPython), "Output format (python or yaml)")
	configurationRenderCmd.Flags().StringP("out", "O", "", "Output path, or - for stdout")
}

func renderConfiguration(w io.Writer, formatName, out string) error {
	format, err := render.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if out == "-" {
		return render.Write(w, format, cfg)
	}

	path := renderPath(cfg, format, out)
	if err := render.WriteFile(path, format, cfg); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Wrote %s\n", path)
	return err
}

// renderPath puts the file next to the overlay file unless out is given.
func renderPath(cfg *config.SentryConfig, format render.Format, out string) string {
	if out != "" {
		return out
	}
	return filepath.Join(filepath.Dir(cfg.ConfigFilePath()), format.DefaultFileName())
}
