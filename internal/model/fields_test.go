package model

import (
	"errors"
	"testing"

	"weekboard/internal/calendar"
)

func TestApplyField(t *testing.T) {
	t.Parallel()

	base := Task{ID: "t1", Name: "Draft", Handler: HandlerInternal, Status: StatusNotStarted}

	tests := []struct {
		name  string
		field Field
		value string
		check func(Task) bool
	}{
		{name: "name", field: FieldName, value: "Final", check: func(t Task) bool { return t.Name == "Final" }},
		{name: "description", field: FieldDescription, value: "# notes", check: func(t Task) bool { return t.Description == "# notes" }},
		{name: "date", field: FieldCompletionDate, value: "2024-03-04", check: func(t Task) bool { return t.CompletionDate.String() == "2024-03-04" }},
		{name: "clear date", field: FieldCompletionDate, value: "", check: func(t Task) bool { return !t.Dated() }},
		{name: "handler", field: FieldHandler, value: "customer", check: func(t Task) bool { return t.Handler == HandlerCustomer }},
		{name: "status label", field: FieldStatus, value: "On Hold", check: func(t Task) bool { return t.Status == StatusOnHold }},
		{name: "status compact", field: FieldStatus, value: "closednotcompleted", check: func(t Task) bool { return t.Status == StatusClosedNotCompleted }},
		{name: "project", field: FieldAssignedProjectID, value: " p1 ", check: func(t Task) bool { return t.AssignedProjectID == "p1" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ApplyField(base, tt.field, tt.value)
			if err != nil {
				t.Fatalf("ApplyField: %v", err)
			}
			if !tt.check(got) {
				t.Fatalf("unexpected task: %+v", got)
			}
			if got.FieldValue(tt.field) == "" && tt.value != "" {
				t.Fatalf("FieldValue(%s) is empty after setting %q", tt.field, tt.value)
			}
		})
	}
}

func TestApplyField_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	base := Task{ID: "t1", Name: "Draft"}
	bad := []struct {
		field Field
		value string
	}{
		{FieldName, "  "},
		{FieldCompletionDate, "2024-13-01"},
		{FieldHandler, "Vendor"},
		{FieldStatus, "Done-ish"},
		{Field("colour"), "red"},
	}
	for _, b := range bad {
		if _, err := ApplyField(base, b.field, b.value); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("ApplyField(%s, %q): expected ErrInvalidValue, got %v", b.field, b.value, err)
		}
	}
}

func TestTask_WithWeek(t *testing.T) {
	t.Parallel()

	tk := Task{ID: "t1", CompletionDate: calendar.NewDate(2024, 3, 4), Week: 99}
	if got := tk.WithWeek(calendar.ISO).Week; got != 10 {
		t.Fatalf("expected week 10, got %d", got)
	}
	tk.CompletionDate = calendar.Date{}
	if got := tk.WithWeek(calendar.ISO).Week; got != 0 {
		t.Fatalf("expected undated task to have week 0, got %d", got)
	}
}

func TestParseField_Aliases(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Field{"date": FieldCompletionDate, "Project": FieldAssignedProjectID, "NAME": FieldName} {
		got, err := ParseField(in)
		if err != nil || got != want {
			t.Fatalf("ParseField(%q) = %q, %v", in, got, err)
		}
	}
}

func TestNextStatus_Cycles(t *testing.T) {
	t.Parallel()

	s := StatusNotStarted
	for range Statuses {
		s = NextStatus(s)
	}
	if s != StatusNotStarted {
		t.Fatalf("expected full cycle back to %q, got %q", StatusNotStarted, s)
	}
	if NextHandler(HandlerOther) != HandlerInternal {
		t.Fatalf("expected handler cycle to wrap")
	}
}
