package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

type weekInfo struct {
	Date        calendar.Date `json:"date"`
	Year        int           `json:"year"`
	Week        int           `json:"week"`
	Start       calendar.Date `json:"start"`
	End         calendar.Date `json:"end"`
	WeeksInYear int           `json:"weeksInYear"`
	Convention  string        `json:"convention"`
}

func newWeekInfo(year, week int, c calendar.Convention) weekInfo {
	start := calendar.WeekStartDate(year, week, c)
	return weekInfo{
		Year:        year,
		Week:        week,
		Start:       start,
		End:         start.AddDays(6),
		WeeksInYear: calendar.WeeksInYear(year, c),
		Convention:  c.String(),
	}
}

func (w weekInfo) Table() ([]string, [][]string) {
	return []string{"YEAR", "WEEK", "START", "END", "WEEKS"}, [][]string{{
		strconv.Itoa(w.Year), strconv.Itoa(w.Week), w.Start.String(), w.End.String(), strconv.Itoa(w.WeeksInYear),
	}}
}

func newWeekCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Week number arithmetic",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "of [date]",
		Short: "Week year and number of a date (default: today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := calendar.Today()
			if len(args) == 1 {
				parsed, err := calendar.ParseDate(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				if !parsed.IsZero() {
					d = parsed
				}
			}
			w := newWeekInfo(calendar.WeekYear(d, app.conv), calendar.WeekOf(d, app.conv), app.conv)
			w.Date = d
			return writeOut(cmd, app, w)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "start <year> <week>",
		Short: "First day of a week",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%w: year %q", model.ErrInvalidValue, args[0]))
			}
			week, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("%w: week %q", model.ErrInvalidValue, args[1]))
			}
			if n := calendar.WeeksInYear(year, app.conv); week < 1 || week > n {
				return writeErr(cmd, fmt.Errorf("%w: week %d (%d has %d weeks)", model.ErrInvalidValue, week, year, n))
			}
			return writeOut(cmd, app, newWeekInfo(year, week, app.conv))
		},
	})

	return cmd
}
