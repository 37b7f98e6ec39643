package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sentryctl",
	Short: "Configure and front a Sentry deployment",
	Long: `sentryctl turns the deployment environment into Sentry settings, checks
the services Sentry depends on, and runs a front server that applies the
security headers before forwarding to the Sentry web workers.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Setup()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
