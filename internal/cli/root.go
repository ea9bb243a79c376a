package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sessiontrack",
	Short: "Archive conversations and track projects with budget-aware AI insights",
	Long: `sessiontrack archives multi-party conversation sessions, organizes them
under long-lived projects, and attaches AI-generated summaries, topics and
action items while keeping AI spend within a monthly budget.

Configuration is read from SESSIONTRACK_* environment variables.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(serveCmd)
}
