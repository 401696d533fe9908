// Package projects implements the projects command for inspecting and
// maintaining the stored project records.
package projects

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	cmdcommon "github.com/netly-dev/gobid/cmd/common"
	"github.com/netly-dev/gobid/internal/domain"
	"github.com/netly-dev/gobid/internal/logger"
)

// Command returns the projects command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Inspect and maintain stored projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newDeleteCommand())

	return cmd
}

// TableRenderer handles the display of project data in a table format
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderTable formats and displays the projects in a table format
func (r *TableRenderer) RenderTable(projects []*domain.Project) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"ID", "Marketplace", "Title", "Price", "Status", "Created"})

	for _, project := range projects {
		t.AppendRow(table.Row{
			project.ID,
			project.Marketplace,
			project.Title,
			fmt.Sprintf("%d %s", project.Price, project.Currency),
			statusLabel(project),
			project.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	t.Render()
	return nil
}

// statusLabel names a project's resolution state for display.
func statusLabel(project *domain.Project) string {
	switch {
	case project.IsBidPlaced:
		return "placed"
	case project.IsBidSkipped:
		return "skipped"
	default:
		return "active"
	}
}

func newListCommand() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored projects",
		Long:  `List the projects currently stored, with their resolution state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			return runList(cmd.Context(), deps, activeOnly)
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "show only unresolved projects")

	return cmd
}

func runList(ctx context.Context, deps cmdcommon.CommandDeps, activeOnly bool) error {
	store, err := cmdcommon.CreateStorage(ctx, deps)
	if err != nil {
		return err
	}
	defer store.DB.Close()

	var projects []*domain.Project
	if activeOnly {
		projects, err = store.Repository.GetActiveProjects(ctx)
	} else {
		projects, err = store.Repository.GetAll(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to get projects: %w", err)
	}

	if len(projects) == 0 {
		deps.Logger.Info("No projects stored")
		return nil
	}

	return NewTableRenderer(deps.Logger).RenderTable(projects)
}

func newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored project",
		Long: `Delete one stored project by its identifier. The project becomes
eligible for rediscovery on the next scrape.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}
			return runDelete(cmd.Context(), deps, args[0])
		},
	}

	return cmd
}

func runDelete(ctx context.Context, deps cmdcommon.CommandDeps, id string) error {
	store, err := cmdcommon.CreateStorage(ctx, deps)
	if err != nil {
		return err
	}
	defer store.DB.Close()

	if err := store.Repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	deps.Logger.Info("Project deleted", "id", id)
	return nil
}
