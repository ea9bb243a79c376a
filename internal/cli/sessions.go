package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse archived sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions, newest first",
	Long: `List archived sessions, newest first.

Examples:
  sessiontrack sessions list             # Last 10 sessions
  sessiontrack sessions list --last 50   # Last 50 sessions`,
	RunE: runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session with its messages and insight",
	Long: `Show a session. The id may be any unique part of the session id;
when several sessions match, the newest one is shown.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsShow,
}

var sessionsLast int

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)

	sessionsListCmd.Flags().IntVarP(&sessionsLast, "last", "n", 10, "Number of sessions to show")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		summaries, err := app.Sessions.List(cmd.Context(), sessionsLast)
		if err != nil {
			return err
		}
		renderSessionList(cmd.OutOrStdout(), summaries)
		return nil
	})
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		session, err := app.Sessions.Get(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %q not found", args[0])
		}
		if err != nil {
			return err
		}
		renderSession(cmd.OutOrStdout(), session, true)
		return nil
	})
}
