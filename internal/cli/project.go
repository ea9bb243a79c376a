package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/sessiontrack/internal/domain"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects and their action items",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Long: `Create a new active project.

Examples:
  sessiontrack project create Apollo --description "Moon landing" --tags space,nasa`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectCreate,
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, newest first",
	RunE:  runProjectList,
}

var projectViewCmd = &cobra.Command{
	Use:   "view <project-id>",
	Short: "Show a project with its sessions and action items",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectView,
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Update project fields",
	Long: `Update project fields. Only the flags given are changed; metadata
entries are merged into the existing metadata.

Examples:
  sessiontrack project update <id> --status paused
  sessiontrack project update <id> --meta repo=github.com/x/y --meta owner=boone`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectUpdate,
}

var projectLinkCmd = &cobra.Command{
	Use:   "link <project-id> <session-path>",
	Short: "Link an archived session file to a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectLink,
}

var projectActionCmd = &cobra.Command{
	Use:   "action <project-id> <description>",
	Short: "Add an action item to a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectAction,
}

var projectDoneCmd = &cobra.Command{
	Use:   "done <project-id> <action-item-id>",
	Short: "Set the status of an action item (done by default)",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectDone,
}

var (
	projectDescription string
	projectTags        []string
	projectStatus      string
	projectName        string
	projectMeta        map[string]string
	projectPriority    string
	projectItemStatus  string
)

func init() {
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectViewCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectLinkCmd)
	projectCmd.AddCommand(projectActionCmd)
	projectCmd.AddCommand(projectDoneCmd)

	projectCreateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "Project description")
	projectCreateCmd.Flags().StringSliceVarP(&projectTags, "tags", "t", nil, "Comma-separated tags")

	projectListCmd.Flags().StringVar(&projectStatus, "status", "", "Filter by status: active, completed, paused")

	projectUpdateCmd.Flags().StringVar(&projectName, "name", "", "New name")
	projectUpdateCmd.Flags().StringVarP(&projectDescription, "description", "d", "", "New description")
	projectUpdateCmd.Flags().StringSliceVarP(&projectTags, "tags", "t", nil, "Replace tags")
	projectUpdateCmd.Flags().StringVar(&projectStatus, "status", "", "New status: active, completed, paused")
	projectUpdateCmd.Flags().StringToStringVar(&projectMeta, "meta", nil, "Metadata key=value to merge")

	projectActionCmd.Flags().StringVarP(&projectPriority, "priority", "p", "medium", "Priority: low, medium, high")

	projectDoneCmd.Flags().StringVar(&projectItemStatus, "status", string(domain.ActionDone), "New status: pending, in_progress, done")
}

func runProjectCreate(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		id, err := app.Projects.Create(cmd.Context(), args[0], projectDescription, projectTags)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", args[0], id)
		return nil
	})
}

func runProjectList(cmd *cobra.Command, args []string) error {
	var status *domain.ProjectStatus
	if projectStatus != "" {
		st, err := domain.ParseProjectStatus(projectStatus)
		if err != nil {
			return err
		}
		status = &st
	}
	return withApp(cmd.Context(), func(app *AppContext) error {
		summaries, err := app.Projects.List(cmd.Context(), status)
		if err != nil {
			return err
		}
		renderProjectList(cmd.OutOrStdout(), summaries)
		return nil
	})
}

func runProjectView(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		p, err := app.Projects.Get(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("project %q not found", args[0])
		}
		if err != nil {
			return err
		}
		renderProject(cmd.OutOrStdout(), p)
		return nil
	})
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	u, err := projectUpdateFromFlags(cmd)
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(app *AppContext) error {
		ok, err := app.Projects.Update(cmd.Context(), args[0], u)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("project %q not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", args[0])
		return nil
	})
}

// projectUpdateFromFlags builds an update from the flags actually set.
func projectUpdateFromFlags(cmd *cobra.Command) (domain.ProjectUpdate, error) {
	var u domain.ProjectUpdate
	flags := cmd.Flags()
	if flags.Changed("name") {
		u.Name = &projectName
	}
	if flags.Changed("description") {
		u.Description = &projectDescription
	}
	if flags.Changed("tags") {
		u.Tags = projectTags
	}
	if flags.Changed("status") {
		st, err := domain.ParseProjectStatus(projectStatus)
		if err != nil {
			return u, err
		}
		u.Status = &st
	}
	if flags.Changed("meta") {
		u.Metadata = projectMeta
	}
	if u.Name == nil && u.Description == nil && u.Tags == nil && u.Status == nil && len(u.Metadata) == 0 {
		return u, errors.New("nothing to update: pass at least one of --name, --description, --tags, --status, --meta")
	}
	return u, nil
}

func runProjectLink(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		ok, err := app.Projects.AddSessionLink(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("project %q not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to project %s\n", args[1], args[0])
		return nil
	})
}

func runProjectAction(cmd *cobra.Command, args []string) error {
	return withApp(cmd.Context(), func(app *AppContext) error {
		id, err := app.Projects.AddActionItem(cmd.Context(), args[0], strings.TrimSpace(args[1]), projectPriority)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("project %q not found", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added action item %s\n", id)
		return nil
	})
}

func runProjectDone(cmd *cobra.Command, args []string) error {
	status, err := domain.ParseActionStatus(projectItemStatus)
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(app *AppContext) error {
		err := app.Projects.SetActionItemStatus(cmd.Context(), args[0], args[1], status)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("project %q or action item %q not found", args[0], args[1])
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Action item %s is now %s\n", args[1], status)
		return nil
	})
}
