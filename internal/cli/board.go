package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"weekboard/internal/board"
	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

type boardWeek struct {
	Week    int           `json:"week"`
	Start   calendar.Date `json:"start"`
	Current bool          `json:"current,omitempty"`
	Tasks   []model.Task  `json:"tasks"`
}

type boardOutput struct {
	Year          int          `json:"year"`
	WeekCount     int          `json:"weekCount"`
	Convention    string       `json:"convention"`
	CurrentWeek   int          `json:"currentWeek,omitempty"`
	ProjectFilter string       `json:"projectFilter,omitempty"`
	Pool          []model.Task `json:"pool"`
	Weeks         []boardWeek  `json:"weeks"`

	projectName func(string) string
}

func newBoardOutput(v board.View, all bool) boardOutput {
	out := boardOutput{
		Year:          v.Year,
		WeekCount:     v.WeekCount,
		Convention:    v.Convention.String(),
		CurrentWeek:   v.CurrentWeek,
		ProjectFilter: v.ProjectFilter,
		Pool:          append([]model.Task{}, v.Pool...),
		Weeks:         []boardWeek{},
		projectName:   v.ProjectName,
	}
	for _, w := range v.Weeks {
		if !all && len(w.Tasks) == 0 && !w.Current {
			continue
		}
		out.Weeks = append(out.Weeks, boardWeek{
			Week:    w.Number,
			Start:   w.Start,
			Current: w.Current,
			Tasks:   append([]model.Task{}, w.Tasks...),
		})
	}
	return out
}

func (b boardOutput) Table() ([]string, [][]string) {
	rows := [][]string{{"pool", "", b.cards(b.Pool)}}
	for _, w := range b.Weeks {
		label := strconv.Itoa(w.Week)
		if w.Current {
			label += " *"
		}
		rows = append(rows, []string{label, w.Start.String(), b.cards(w.Tasks)})
	}
	return []string{"WEEK", "START", "TASKS"}, rows
}

func (b boardOutput) cards(ts []model.Task) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		s := t.Name + " [" + string(t.Status) + "]"
		if t.AssignedProjectID != "" && b.projectName != nil {
			s += " (" + b.projectName(t.AssignedProjectID) + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

func newBoardCmd(app *App) *cobra.Command {
	var (
		year    int
		project string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the week board of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()
			b, err := openBackend(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer b.Close()

			e, _, err := loadBoard(ctx, app, b.svc, app.boardYear(year))
			if err != nil {
				return writeErr(cmd, err)
			}
			e.ChangeProjectFilter(strings.TrimSpace(project))
			return writeOut(cmd, app, newBoardOutput(e.View(), all))
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Board year (default: current)")
	cmd.Flags().StringVar(&project, "project", "", "Only tasks of this project id")
	cmd.Flags().BoolVar(&all, "all-weeks", false, "Include empty weeks")
	return cmd
}
