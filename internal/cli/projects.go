package cli

import (
	"github.com/spf13/cobra"

	"weekboard/internal/model"
)

type projectRows []model.Project

type projectRow model.Project

func (p projectRow) Table() ([]string, [][]string) {
	return projectRows{model.Project(p)}.Table()
}

func (ps projectRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{p.ID, p.Name})
	}
	return []string{"ID", "NAME"}, rows
}

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsAddCmd(app))
	cmd.AddCommand(newProjectsListCmd(app))
	return cmd
}

func newProjectsAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			b, err := openBackend(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()
			if b.local == nil {
				return writeErr(cmd, errRemoteUnsupported)
			}

			p, err := b.local.CreateProject(ctx, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, projectRow(p))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			b, err := openBackend(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			ps, err := b.svc.FetchProjects(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, projectRows(ps))
		},
	}
	return cmd
}
