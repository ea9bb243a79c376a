package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Inspect the monthly AI budget",
}

var budgetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show spend for the current billing period",
	RunE:  runBudgetStatus,
}

var budgetRolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Start the billing period for the current month",
	Long: `Move the ledger to the current calendar month (UTC), resetting spend
when the month has changed. This happens automatically on startup unless
SESSIONTRACK_AUTO_ROLLOVER=false.`,
	RunE: runBudgetRollover,
}

var budgetHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List spend for every recorded billing period",
	RunE:  runBudgetHistory,
}

func init() {
	budgetCmd.AddCommand(budgetStatusCmd)
	budgetCmd.AddCommand(budgetRolloverCmd)
	budgetCmd.AddCommand(budgetHistoryCmd)
}

func runBudgetStatus(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		renderBudgetStatus(cmd.OutOrStdout(), app.Budget.Status(), app.Config.Gemini().Enabled())
		return nil
	})
}

func runBudgetRollover(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		changed, err := app.Budget.Rollover(cmd.Context(), time.Now())
		if err != nil {
			return err
		}
		st := app.Budget.Status()
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled over to %s\n", st.Period)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Already in period %s\n", st.Period)
		}
		return nil
	})
}

func runBudgetHistory(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		history, err := app.Budget.History(cmd.Context())
		if err != nil {
			return err
		}
		renderBudgetHistory(cmd.OutOrStdout(), history)
		return nil
	})
}
