package board

import (
	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

// State is one board year in memory: tasks keyed by id in insertion order, plus the
// selection and the project filter.
//
// State is a value. Every transition returns a new State and never writes through to
// the tasks of the State it was given, so a snapshot is simply a kept copy.
type State struct {
	Year          int
	WeekCount     int
	Convention    calendar.Convention
	Selected      string
	ProjectFilter string

	order []string
	tasks map[string]model.Task
}

func NewState(year int, c calendar.Convention) State {
	return State{
		Year:       year,
		WeekCount:  calendar.DefaultWeekCount,
		Convention: c,
		tasks:      map[string]model.Task{},
	}
}

// Load builds the State for a fetched year. Every task gets its week recomputed.
func Load(res model.YearTasks, c calendar.Convention) State {
	s := NewState(res.Year, c)
	if res.WeekCount > 0 {
		s.WeekCount = res.WeekCount
	}
	for _, t := range res.Tasks {
		if t.ID == "" {
			continue
		}
		s = s.put(t, false)
	}
	return s
}

func (s State) Len() int { return len(s.order) }

func (s State) Task(id string) (model.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns the tasks in insertion order.
func (s State) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id])
	}
	return out
}

// SelectedTask returns the selected task, if any.
func (s State) SelectedTask() (model.Task, bool) {
	if s.Selected == "" {
		return model.Task{}, false
	}
	return s.Task(s.Selected)
}

// Belongs reports whether t is shown on this board year: undated tasks always are,
// dated tasks only when their week is numbered in s.Year.
func (s State) Belongs(t model.Task) bool {
	if !t.Dated() {
		return true
	}
	return calendar.WeekYear(t.CompletionDate, s.Convention) == s.Year
}

func (s State) clone() State {
	out := s
	out.order = append([]string(nil), s.order...)
	out.tasks = make(map[string]model.Task, len(s.tasks))
	for id, t := range s.tasks {
		out.tasks[id] = t
	}
	return out
}

// put stores t with a recomputed week. An existing entry keeps its position unless
// toEnd is set. A task that no longer belongs to the year is dropped instead, and the
// selection is cleared if it pointed at it.
func (s State) put(t model.Task, toEnd bool) State {
	t = t.WithWeek(s.Convention)
	out := s.clone()
	_, exists := out.tasks[t.ID]

	if !out.Belongs(t) {
		if exists {
			out.order = removeID(out.order, t.ID)
			delete(out.tasks, t.ID)
		}
		if out.Selected == t.ID {
			out.Selected = ""
		}
		return out
	}

	switch {
	case !exists:
		out.order = append(out.order, t.ID)
	case toEnd:
		out.order = append(removeID(out.order, t.ID), t.ID)
	}
	out.tasks[t.ID] = t
	return out
}

func removeID(ids []string, id string) []string {
	var out []string
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
