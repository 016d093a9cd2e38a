package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"weekboard/internal/board"
	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

type taskRows []model.Task

func (ts taskRows) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(ts))
	for _, t := range ts {
		week := ""
		if t.Dated() {
			week = strconv.Itoa(t.Week)
		}
		rows = append(rows, []string{t.ID, t.Name, week, t.CompletionDate.String(), string(t.Status), string(t.Handler), t.AssignedProjectID})
	}
	return []string{"ID", "NAME", "WEEK", "DATE", "STATUS", "HANDLER", "PROJECT"}, rows
}

type taskRow model.Task

func (t taskRow) Table() ([]string, [][]string) {
	return taskRows{model.Task(t)}.Table()
}

// recorder keeps the last task the service returned so commands can print it even
// when it left the loaded board year.
type recorder struct {
	board.Service
	last model.Task
}

func (r *recorder) keep(t model.Task, err error) (model.Task, error) {
	if err == nil {
		r.last = t
	}
	return t, err
}

func (r *recorder) SetTaskDateToWeekStart(ctx context.Context, id string, year, week int) (model.Task, error) {
	return r.keep(r.Service.SetTaskDateToWeekStart(ctx, id, year, week))
}

func (r *recorder) ShiftTaskByWeeks(ctx context.Context, id string, weeks int) (model.Task, error) {
	return r.keep(r.Service.ShiftTaskByWeeks(ctx, id, weeks))
}

func (r *recorder) UpdateTaskField(ctx context.Context, id string, field model.Field, value string) (model.Task, error) {
	return r.keep(r.Service.UpdateTaskField(ctx, id, field, value))
}

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksShiftCmd(app))
	cmd.AddCommand(newTasksSetCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var (
		year    int
		project string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a board year (undated tasks included)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			b, err := openBackend(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			if all {
				if b.local == nil {
					return writeErr(cmd, errRemoteUnsupported)
				}
				ts, err := b.local.ListTasks(ctx, project)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, taskRows(ts))
			}

			res, err := b.svc.FetchTasksForYear(ctx, app.boardYear(year))
			if err != nil {
				return writeErr(cmd, err)
			}
			out := taskRows{}
			for _, t := range res.Tasks {
				if project == "" || t.AssignedProjectID == project {
					out = append(out, t)
				}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Board year (default: current)")
	cmd.Flags().StringVar(&project, "project", "", "Only tasks of this project id")
	cmd.Flags().BoolVar(&all, "all", false, "Every task regardless of year (local db only)")
	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var (
		name        string
		description string
		date        string
		handler     string
		status      string
		project     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := model.Task{
				Name:              strings.TrimSpace(name),
				Description:       description,
				AssignedProjectID: strings.TrimSpace(project),
			}
			var err error
			if t.CompletionDate, err = calendar.ParseDate(date); err != nil {
				return writeErr(cmd, err)
			}
			if handler != "" {
				if t.Handler, err = model.ParseHandler(handler); err != nil {
					return writeErr(cmd, err)
				}
			}
			if status != "" {
				if t.Status, err = model.ParseStatus(status); err != nil {
					return writeErr(cmd, err)
				}
			}

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

			created, err := b.local.CreateTask(ctx, t)
			if err != nil {
				return writeErr(cmd, err)
			}
			b.invalidate(ctx)
			return writeOut(cmd, app, taskRow(created))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&description, "description", "", "Description (markdown)")
	cmd.Flags().StringVar(&date, "date", "", "Completion date YYYY-MM-DD (empty: task goes to the pool)")
	cmd.Flags().StringVar(&handler, "handler", "", "Internal|Customer|Other")
	cmd.Flags().StringVar(&status, "status", "", "Status label, e.g. \"On Track\"")
	cmd.Flags().StringVar(&project, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTasksMoveCmd(app *App) *cobra.Command {
	var year, week int

	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Put a task on the first day of a week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runOnBoard(cmd, app, id, app.boardYear(year), func(e *board.Engine) (board.Effects, error) {
				if week < 1 || week > e.State().WeekCount {
					return board.Effects{}, fmt.Errorf("%w: week %d (board %d has %d weeks)", model.ErrInvalidValue, week, e.State().Year, e.State().WeekCount)
				}
				e.DragStart(id)
				return e.DropOnWeek(week), nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Board year (default: current)")
	cmd.Flags().IntVar(&week, "week", 0, "Week number")
	_ = cmd.MarkFlagRequired("week")
	return cmd
}

func newTasksShiftCmd(app *App) *cobra.Command {
	var year, weeks int

	cmd := &cobra.Command{
		Use:   "shift <task-id>",
		Short: "Move a dated task by a number of weeks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return runOnBoard(cmd, app, id, year, func(e *board.Engine) (board.Effects, error) {
				t, _ := e.State().Task(id)
				if !t.Dated() {
					return board.Effects{}, model.ErrNoDate
				}
				e.Select(id)
				return e.ShiftSelected(weeks), nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Board year the task is on (default: found from the task)")
	cmd.Flags().IntVar(&weeks, "weeks", 1, "Weeks to move (negative moves earlier)")
	return cmd
}

func newTasksSetCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "set <task-id> <field> <value>",
		Short: "Set one field (name, description, completionDate, handler, status, assignedProjectId)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			field, err := model.ParseField(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return runOnBoard(cmd, app, id, year, func(e *board.Engine) (board.Effects, error) {
				fx := e.EditField(id, field, args[2])
				fx.Add(e.Save())
				return fx, nil
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Board year the task is on (default: found from the task)")
	return cmd
}

// runOnBoard loads the board holding id, applies one intent through the engine and
// prints the task as the service returned it.
func runOnBoard(cmd *cobra.Command, app *App, id string, year int, intent func(*board.Engine) (board.Effects, error)) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	b, err := openBackend(ctx, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer b.Close()

	if year <= 0 {
		year = app.locateYear(ctx, b, id)
	}
	rec := &recorder{Service: b.svc}
	e, r, err := loadBoard(ctx, app, rec, year)
	if err != nil {
		return writeErr(cmd, err)
	}
	if _, ok := e.State().Task(id); !ok {
		return writeErr(cmd, errNotOnBoard(id, year))
	}

	fx, err := intent(e)
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := r.Run(ctx, fx); err != nil {
		return writeErr(cmd, err)
	}
	if rec.last.ID == "" {
		t, _ := e.State().Task(id)
		return writeOut(cmd, app, taskRow(t))
	}
	return writeOut(cmd, app, taskRow(rec.last))
}

// locateYear finds the board year a task sits on. Undated tasks and remote backends
// fall back to the current year.
func (app *App) locateYear(ctx context.Context, b *backend, id string) int {
	if b.local != nil {
		if t, err := b.local.GetTask(ctx, id); err == nil && t.Dated() {
			return calendar.WeekYear(t.CompletionDate, app.conv)
		}
	}
	return app.boardYear(0)
}
