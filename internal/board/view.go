package board

import (
	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

// Week is one column of the board.
type Week struct {
	Number  int
	Start   calendar.Date
	Current bool
	Tasks   []model.Task
}

// View is everything a renderer needs for one frame.
type View struct {
	Year        int
	WeekCount   int
	Convention  calendar.Convention
	CurrentWeek int // 0 when today is not in Year
	LoadingYear int // 0 when no load is outstanding

	Pool         []model.Task
	PoolByStatus map[model.Status][]model.Task
	Weeks        []Week

	Selected      string
	Dragging      string
	ProjectFilter string
	Projects      []model.Project
	Busy          int
}

func (e *Engine) View() View {
	s := e.state
	c := Classify(s, s.ProjectFilter)
	cur, _ := calendar.CurrentWeek(e.cfg.Today(), s.Year, s.Convention)

	weeks := make([]Week, 0, s.WeekCount)
	for n := 1; n <= s.WeekCount; n++ {
		weeks = append(weeks, Week{
			Number:  n,
			Start:   calendar.WeekStartDate(s.Year, n, s.Convention),
			Current: n == cur,
			Tasks:   c.ByWeek[n],
		})
	}
	return View{
		Year:          s.Year,
		WeekCount:     s.WeekCount,
		Convention:    s.Convention,
		CurrentWeek:   cur,
		LoadingYear:   e.loadingYear,
		Pool:          c.Pool,
		PoolByStatus:  c.PoolByStatus,
		Weeks:         weeks,
		Selected:      s.Selected,
		Dragging:      e.dragging,
		ProjectFilter: s.ProjectFilter,
		Projects:      e.projects,
		Busy:          e.Busy(),
	}
}

// ProjectName resolves a project id against the loaded project list.
func (v View) ProjectName(id string) string {
	for _, p := range v.Projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
