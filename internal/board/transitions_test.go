package board

import (
	"reflect"
	"testing"

	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

func date(t *testing.T, s string) calendar.Date {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func sampleState(t *testing.T) State {
	t.Helper()
	return Load(model.YearTasks{
		Year:      2024,
		WeekCount: 52,
		Tasks: []model.Task{
			{ID: "pool-1", Name: "Write brief", Status: model.StatusNotStarted, AssignedProjectID: "p1"},
			{ID: "w5", Name: "Kickoff", CompletionDate: date(t, "2024-01-29"), Status: model.StatusOnTrack, AssignedProjectID: "p1"},
			{ID: "w10", Name: "Review", CompletionDate: date(t, "2024-03-06"), Status: model.StatusLate, AssignedProjectID: "p2"},
			{ID: "pool-2", Name: "Backlog", Status: model.StatusOnHold, AssignedProjectID: "p2"},
		},
	}, calendar.ISO)
}

func TestLoad_ComputesWeeks(t *testing.T) {
	t.Parallel()

	s := sampleState(t)
	if s.Len() != 4 {
		t.Fatalf("expected 4 tasks, got %d", s.Len())
	}
	for id, want := range map[string]int{"pool-1": 0, "w5": 5, "w10": 10} {
		tk, ok := s.Task(id)
		if !ok || tk.Week != want {
			t.Fatalf("task %s: week=%d ok=%v, want %d", id, tk.Week, ok, want)
		}
	}
}

func TestMoveToWeek_FromPool(t *testing.T) {
	t.Parallel()

	s := sampleState(t)
	next, req := MoveToWeek(s, "pool-1", 10)
	if req == nil {
		t.Fatalf("expected a request")
	}
	if req.Op != OpSetDateToWeekStart || req.TaskID != "pool-1" || req.Year != 2024 || req.Week != 10 {
		t.Fatalf("unexpected request: %+v", *req)
	}
	tk, _ := next.Task("pool-1")
	if tk.CompletionDate.String() != "2024-03-04" || tk.Week != 10 {
		t.Fatalf("expected 2024-03-04 in week 10, got %s week %d", tk.CompletionDate, tk.Week)
	}

	c := Classify(next, "")
	if len(c.Pool) != 1 || c.Pool[0].ID != "pool-2" {
		t.Fatalf("expected pool to hold only pool-2, got %+v", c.Pool)
	}
	wk := c.ByWeek[10]
	if len(wk) != 2 || wk[1].ID != "pool-1" {
		t.Fatalf("expected moved task last in week 10, got %+v", wk)
	}

	// The input state is untouched.
	if tk, _ := s.Task("pool-1"); tk.Dated() {
		t.Fatalf("MoveToWeek wrote through to its input")
	}
}

func TestMoveToWeek_UnknownTaskIsNoop(t *testing.T) {
	t.Parallel()

	s := sampleState(t)
	next, req := MoveToWeek(s, "missing", 3)
	if req != nil || !reflect.DeepEqual(next, s) {
		t.Fatalf("expected no-op, got req=%+v", req)
	}
}

func TestShiftByWeeks(t *testing.T) {
	t.Parallel()

	s := sampleState(t)
	next, req := ShiftByWeeks(s, "w5", -1)
	if req == nil || req.Op != OpShiftByWeeks || req.Weeks != -1 {
		t.Fatalf("unexpected request: %+v", req)
	}
	tk, _ := next.Task("w5")
	if tk.CompletionDate.String() != "2024-01-22" || tk.Week != 4 {
		t.Fatalf("expected 2024-01-22 in week 4, got %s week %d", tk.CompletionDate, tk.Week)
	}

	if _, req := ShiftByWeeks(s, "pool-1", 2); req != nil {
		t.Fatalf("expected undated task to be left alone")
	}
	if _, req := ShiftByWeeks(s, "w5", 0); req != nil {
		t.Fatalf("expected zero shift to be a no-op")
	}
}

func TestShiftByWeeks_OutOfYearDropsTask(t *testing.T) {
	t.Parallel()

	s := SelectTask(sampleState(t), "w5")
	next, req := ShiftByWeeks(s, "w5", -6)
	if req == nil {
		t.Fatalf("expected a request")
	}
	if _, ok := next.Task("w5"); ok {
		t.Fatalf("expected task dated in 2023 to leave the 2024 board")
	}
	if next.Selected != "" {
		t.Fatalf("expected selection to clear, got %q", next.Selected)
	}
}

func TestClassify_PoolAndWeeksAreDisjoint(t *testing.T) {
	t.Parallel()

	s := sampleState(t)
	c := Classify(s, "")
	seen := map[string]int{}
	for _, tk := range c.Pool {
		seen[tk.ID]++
	}
	for w, tasks := range c.ByWeek {
		for _, tk := range tasks {
			if tk.Week != w {
				t.Fatalf("task %s in bucket %d has week %d", tk.ID, w, tk.Week)
			}
			seen[tk.ID]++
		}
	}
	if len(seen) != s.Len() {
		t.Fatalf("expected every task classified, got %v", seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("task %s appears %d times", id, n)
		}
	}
	if got := c.PoolByStatus[model.StatusOnHold]; len(got) != 1 || got[0].ID != "pool-2" {
		t.Fatalf("unexpected status grouping: %+v", c.PoolByStatus)
	}
}

func TestClassify_ProjectFilter(t *testing.T) {
	t.Parallel()

	c := Classify(sampleState(t), "p1")
	if len(c.Pool) != 1 || c.Pool[0].ID != "pool-1" {
		t.Fatalf("unexpected filtered pool: %+v", c.Pool)
	}
	if len(c.ByWeek[10]) != 0 || len(c.ByWeek[5]) != 1 {
		t.Fatalf("unexpected filtered weeks: %+v", c.ByWeek)
	}
}

func TestReconcile_IsIdempotent(t *testing.T) {
	t.Parallel()

	s := SelectTask(sampleState(t), "w10")
	server := model.Task{ID: "w10", Name: "Review (server)", CompletionDate: date(t, "2024-03-11"), Status: model.StatusOnTrack}

	once := Reconcile(s, server)
	twice := Reconcile(once, server)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("reconcile is not idempotent")
	}
	tk, _ := once.SelectedTask()
	if tk.Name != "Review (server)" || tk.Week != 11 {
		t.Fatalf("expected selection to see the merged task, got %+v", tk)
	}
	if got := once.Tasks()[2].ID; got != "w10" {
		t.Fatalf("expected reconcile to keep position, got %s at index 2", got)
	}
}

func TestReconcile_AddsUnknownTask(t *testing.T) {
	t.Parallel()

	next := Reconcile(sampleState(t), model.Task{ID: "new", Name: "Fresh"})
	if next.Len() != 5 || next.Tasks()[4].ID != "new" {
		t.Fatalf("expected new task appended, got %+v", next.Tasks())
	}
}

func TestRollback_RestoresSnapshot(t *testing.T) {
	t.Parallel()

	before := SelectTask(sampleState(t), "pool-1")
	moved, _ := MoveToWeek(before, "pool-1", 10)
	restored := Rollback(moved, before)
	if !reflect.DeepEqual(restored, before) {
		t.Fatalf("rollback did not restore the snapshot")
	}
	if restored.Selected != "pool-1" {
		t.Fatalf("expected selection pool-1, got %q", restored.Selected)
	}
}

func TestRollback_RestoresSelectionOfTaskMovedOffTheYear(t *testing.T) {
	t.Parallel()

	before := SelectTask(sampleState(t), "w5")
	cases := []struct {
		name string
		fn   func(State) (State, *Request)
	}{
		{"drop on week 53", func(s State) (State, *Request) { return MoveToWeek(s, "w5", 53) }},
		{"shift into next year", func(s State) (State, *Request) { return ShiftByWeeks(s, "w5", 48) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			moved, req := c.fn(before)
			if req == nil {
				t.Fatalf("expected a request")
			}
			if moved.Selected != "" {
				t.Fatalf("expected the move to clear the selection, got %q", moved.Selected)
			}
			restored := Rollback(moved, before)
			if !reflect.DeepEqual(restored, before) {
				t.Fatalf("rollback did not restore the snapshot")
			}
			if restored.Selected != "w5" {
				t.Fatalf("expected selection w5, got %q", restored.Selected)
			}
		})
	}
}

func TestRollbackTask_KeepsOtherChanges(t *testing.T) {
	t.Parallel()

	before := sampleState(t)
	moved, _ := MoveToWeek(before, "pool-1", 10)
	shifted, _ := ShiftByWeeks(moved, "w5", 1)

	out := rollbackTask(shifted, before, "pool-1")
	if tk, _ := out.Task("pool-1"); tk.Dated() {
		t.Fatalf("expected pool-1 back in the pool")
	}
	if tk, _ := out.Task("w5"); tk.Week != 6 {
		t.Fatalf("expected unrelated shift to survive, got week %d", tk.Week)
	}
	if got := out.Tasks()[0].ID; got != "pool-1" {
		t.Fatalf("expected pool-1 back at its original position, got %s first", got)
	}
}

func TestSelectTask_UnknownClears(t *testing.T) {
	t.Parallel()

	s := SelectTask(sampleState(t), "w5")
	if s.Selected != "w5" {
		t.Fatalf("expected w5 selected")
	}
	if s = SelectTask(s, "nope"); s.Selected != "" {
		t.Fatalf("expected selection cleared, got %q", s.Selected)
	}
}
