package model

import (
	"weekboard/internal/calendar"
)

type Handler string

const (
	HandlerInternal Handler = "Internal"
	HandlerCustomer Handler = "Customer"
	HandlerOther    Handler = "Other"
)

var Handlers = []Handler{HandlerInternal, HandlerCustomer, HandlerOther}

type Status string

const (
	StatusNotStarted         Status = "Not Started"
	StatusOnTrack            Status = "On Track"
	StatusLate               Status = "Late"
	StatusOnHold             Status = "On Hold"
	StatusCompleted          Status = "Completed"
	StatusClosedNotCompleted Status = "Closed, not Completed"
)

// Statuses lists every status in board display order.
var Statuses = []Status{
	StatusNotStarted,
	StatusOnTrack,
	StatusLate,
	StatusOnHold,
	StatusCompleted,
	StatusClosedNotCompleted,
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Task struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description,omitempty"`
	CompletionDate    calendar.Date `json:"completionDate"`
	Handler           Handler       `json:"handler"`
	Status            Status        `json:"status"`
	AssignedProjectID string        `json:"assignedProjectId,omitempty"`

	// Week is derived from CompletionDate and never persisted.
	// It is 0 for tasks without a completion date.
	Week int `json:"week,omitempty"`
}

// Dated reports whether the task sits on the calendar rather than in the pool.
func (t Task) Dated() bool {
	return !t.CompletionDate.IsZero()
}

// WithWeek recomputes Week from CompletionDate under c.
func (t Task) WithWeek(c calendar.Convention) Task {
	if t.Dated() {
		t.Week = calendar.WeekOf(t.CompletionDate, c)
	} else {
		t.Week = 0
	}
	return t
}

// YearTasks is the data service's answer for one board year: every task dated in that
// week year plus every undated task, and the number of week slots the year has.
type YearTasks struct {
	Year      int    `json:"year"`
	Tasks     []Task `json:"tasks"`
	WeekCount int    `json:"weekCount"`
}
