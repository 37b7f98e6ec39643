package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/sentry-deploy/pkg/config"
	"github.com/doodlesbykumbi/sentry-deploy/pkg/health"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the database and Redis are reachable",
	Long: `Connect to the database named by DATABASE_URL and the Redis host named by
REDIS_URL and report whether each responds.

Only postgres databases can be checked.

Example:
  sentryctl check
  sentryctl check --timeout 10s`,
	Run: func(cmd *cobra.Command, args []string) {
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if err := runChecks(cmd.Context(), os.Stdout, timeout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed checks: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Duration("timeout", health.DefaultTimeout, "Timeout for each check")
}

func runChecks(ctx context.Context, w io.Writer, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	checker, closeAll, err := newChecker(cfg)
	if err != nil {
		return err
	}
	defer closeAll()
	checker.Timeout = timeout

	if ctx == nil {
		ctx = context.Background()
	}
	report := checker.Check(ctx)
	printReport(w, report)

	if !report.OK() {
		return fmt.Errorf("%d of %d checks failed", failed(report), len(report.Checks))
	}
	return nil
}

func printReport(w io.Writer, report health.Report) {
	for _, res := range report.Checks {
		line := fmt.Sprintf("%-10s %-6s %s", res.Name, res.Status, res.Duration.Round(time.Millisecond))
		if res.Error != "" {
			line += "  " + res.Error
		}
		fmt.Fprintln(w, line)
	}
}

func failed(report health.Report) int {
	n := 0
	for _, res := range report.Checks {
		if res.Status != health.StatusOK {
			n++
		}
	}
	return n
}
