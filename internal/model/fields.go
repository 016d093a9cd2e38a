package model

import (
	"errors"
	"fmt"
	"strings"

	"weekboard/internal/calendar"
)

var (
	ErrInvalidValue = errors.New("invalid value")
	// ErrNoDate is returned when a week shift targets a task without a completion date.
	ErrNoDate = errors.New("task has no completion date")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Field names an editable task attribute. The string value is its wire name.
type Field string

const (
	FieldName              Field = "name"
	FieldDescription       Field = "description"
	FieldCompletionDate    Field = "completionDate"
	FieldHandler           Field = "handler"
	FieldStatus            Field = "status"
	FieldAssignedProjectID Field = "assignedProjectId"
)

var Fields = []Field{
	FieldName,
	FieldDescription,
	FieldCompletionDate,
	FieldHandler,
	FieldStatus,
	FieldAssignedProjectID,
}

func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	for _, f := range Fields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	switch strings.ToLower(s) {
	case "date", "due":
		return FieldCompletionDate, nil
	case "project":
		return FieldAssignedProjectID, nil
	case "title":
		return FieldName, nil
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrInvalidValue, s)
}

// FreeText reports whether the field receives keystroke-rate input.
func (f Field) FreeText() bool {
	return f == FieldName || f == FieldDescription
}

func ParseHandler(s string) (Handler, error) {
	s = strings.TrimSpace(s)
	for _, h := range Handlers {
		if strings.EqualFold(string(h), s) {
			return h, nil
		}
	}
	return "", fmt.Errorf("%w: unknown handler %q", ErrInvalidValue, s)
}

// ParseStatus accepts the display label, case-insensitively, or its compact
// form without spaces and punctuation ("ontrack", "closednotcompleted").
func ParseStatus(s string) (Status, error) {
	want := compactLabel(s)
	for _, st := range Statuses {
		if compactLabel(string(st)) == want {
			return st, nil
		}
	}
	if want == "closed" {
		return StatusClosedNotCompleted, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidValue, s)
}

func compactLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FieldValue renders the current value of f in its wire form.
func (t Task) FieldValue(f Field) string {
	switch f {
	case FieldName:
		return t.Name
	case FieldDescription:
		return t.Description
	case FieldCompletionDate:
		return t.CompletionDate.String()
	case FieldHandler:
		return string(t.Handler)
	case FieldStatus:
		return string(t.Status)
	case FieldAssignedProjectID:
		return t.AssignedProjectID
	default:
		return ""
	}
}

// ApplyField returns a copy of t with f set to the wire value v.
// Week is not touched; callers recompute it when the completion date changes.
func ApplyField(t Task, f Field, v string) (Task, error) {
	switch f {
	case FieldName:
		if strings.TrimSpace(v) == "" {
			return t, fmt.Errorf("%w: name is required", ErrInvalidValue)
		}
		t.Name = v
	case FieldDescription:
		t.Description = v
	case FieldCompletionDate:
		d, err := calendar.ParseDate(v)
		if err != nil {
			return t, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		t.CompletionDate = d
	case FieldHandler:
		h, err := ParseHandler(v)
		if err != nil {
			return t, err
		}
		t.Handler = h
	case FieldStatus:
		st, err := ParseStatus(v)
		if err != nil {
			return t, err
		}
		t.Status = st
	case FieldAssignedProjectID:
		t.AssignedProjectID = strings.TrimSpace(v)
	default:
		return t, fmt.Errorf("%w: unknown field %q", ErrInvalidValue, string(f))
	}
	return t, nil
}

// NextStatus cycles through Statuses; an unknown status starts over at the first one.
func NextStatus(s Status) Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return Statuses[0]
}

// NextHandler cycles through Handlers.
func NextHandler(h Handler) Handler {
	for i, x := range Handlers {
		if x == h {
			return Handlers[(i+1)%len(Handlers)]
		}
	}
	return Handlers[0]
}
