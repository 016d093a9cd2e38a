package board

import (
	"context"
	"testing"

	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

type fakeService struct {
	tasks    map[string]model.Task
	projects []model.Project
	fail     error
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	return &fakeService{
		tasks: map[string]model.Task{
			"a": {ID: "a", Name: "Alpha", Status: model.StatusNotStarted},
			"b": {ID: "b", Name: "Beta", CompletionDate: date(t, "2024-01-29"), Status: model.StatusOnTrack},
		},
		projects: []model.Project{{ID: "p1", Name: "Apollo"}},
	}
}

func (f *fakeService) FetchTasksForYear(_ context.Context, year int) (model.YearTasks, error) {
	res := model.YearTasks{Year: year, WeekCount: calendar.WeeksInYear(year, calendar.ISO)}
	for _, id := range []string{"a", "b"} {
		if t, ok := f.tasks[id]; ok {
			res.Tasks = append(res.Tasks, t)
		}
	}
	return res, nil
}

func (f *fakeService) FetchProjects(context.Context) ([]model.Project, error) {
	return f.projects, nil
}

func (f *fakeService) update(id string, fn func(*model.Task) error) (model.Task, error) {
	if f.fail != nil {
		return model.Task{}, f.fail
	}
	t, ok := f.tasks[id]
	if !ok {
		return model.Task{}, model.NotFoundError{Kind: "task", ID: id}
	}
	if err := fn(&t); err != nil {
		return model.Task{}, err
	}
	f.tasks[id] = t
	return t, nil
}

func (f *fakeService) SetTaskDateToWeekStart(_ context.Context, id string, year, week int) (model.Task, error) {
	return f.update(id, func(t *model.Task) error {
		t.CompletionDate = calendar.WeekStartDate(year, week, calendar.ISO)
		return nil
	})
}

func (f *fakeService) ShiftTaskByWeeks(_ context.Context, id string, weeks int) (model.Task, error) {
	return f.update(id, func(t *model.Task) error {
		t.CompletionDate = calendar.ShiftWeeks(t.CompletionDate, weeks)
		return nil
	})
}

func (f *fakeService) UpdateTaskField(_ context.Context, id string, field model.Field, value string) (model.Task, error) {
	return f.update(id, func(t *model.Task) error {
		next, err := model.ApplyField(*t, field, value)
		*t = next
		return err
	})
}
