package board

import (
	"context"
	"fmt"

	"weekboard/internal/model"
)

// Service is the authoritative task/project data service the board talks to.
// Every call may fail independently; the board never retries.
type Service interface {
	FetchTasksForYear(ctx context.Context, year int) (model.YearTasks, error)
	FetchProjects(ctx context.Context) ([]model.Project, error)
	SetTaskDateToWeekStart(ctx context.Context, taskID string, year, week int) (model.Task, error)
	ShiftTaskByWeeks(ctx context.Context, taskID string, weeks int) (model.Task, error)
	UpdateTaskField(ctx context.Context, taskID string, field model.Field, value string) (model.Task, error)
}

type Op int

const (
	OpSetDateToWeekStart Op = iota + 1
	OpShiftByWeeks
	OpUpdateField
)

func (o Op) String() string {
	switch o {
	case OpSetDateToWeekStart:
		return "set-date-to-week-start"
	case OpShiftByWeeks:
		return "shift-by-weeks"
	case OpUpdateField:
		return "update-field"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Request describes one remote call the caller must issue. ID ties the completion
// back to the engine.
type Request struct {
	ID     int
	Op     Op
	TaskID string

	// OpSetDateToWeekStart
	Year int
	Week int

	// OpShiftByWeeks
	Weeks int

	// OpUpdateField
	Field model.Field
	Value string
}

// Do issues the request against svc.
func (r Request) Do(ctx context.Context, svc Service) (model.Task, error) {
	switch r.Op {
	case OpSetDateToWeekStart:
		return svc.SetTaskDateToWeekStart(ctx, r.TaskID, r.Year, r.Week)
	case OpShiftByWeeks:
		return svc.ShiftTaskByWeeks(ctx, r.TaskID, r.Weeks)
	case OpUpdateField:
		return svc.UpdateTaskField(ctx, r.TaskID, r.Field, r.Value)
	default:
		return model.Task{}, fmt.Errorf("unknown request op: %s", r.Op)
	}
}
