package board

import (
	"fmt"

	"weekboard/internal/model"
)

// LoadFailure reports a failed year (or project list) fetch. The previous state is kept.
type LoadFailure struct {
	Year int // 0 for the project list
	Err  error
}

func (e LoadFailure) Error() string {
	if e.Year == 0 {
		return fmt.Sprintf("load projects: %v", e.Err)
	}
	return fmt.Sprintf("load %d: %v", e.Year, e.Err)
}

func (e LoadFailure) Unwrap() error { return e.Err }

// MutationFailure reports a rejected move or shift. The optimistic change was undone.
type MutationFailure struct {
	Op     Op
	TaskID string
	Err    error
}

func (e MutationFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.TaskID, e.Err)
}

func (e MutationFailure) Unwrap() error { return e.Err }

// FieldSaveFailure reports a field edit the service did not accept. The local value is
// left in place.
type FieldSaveFailure struct {
	TaskID string
	Field  model.Field
	Err    error
}

func (e FieldSaveFailure) Error() string {
	return fmt.Sprintf("save %s of %s: %v", e.Field, e.TaskID, e.Err)
}

func (e FieldSaveFailure) Unwrap() error { return e.Err }
