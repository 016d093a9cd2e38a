package board

import (
	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

// Classification is the read-only view a renderer draws from.
type Classification struct {
	Pool         []model.Task
	PoolByStatus map[model.Status][]model.Task
	ByWeek       map[int][]model.Task
}

// Classify splits the board into the undated pool and per-week buckets. A non-empty
// filter keeps only tasks assigned to that project, in the pool and the weeks alike.
// Bucket order is the state's insertion order.
func Classify(s State, filter string) Classification {
	c := Classification{
		PoolByStatus: map[model.Status][]model.Task{},
		ByWeek:       map[int][]model.Task{},
	}
	for _, id := range s.order {
		t := s.tasks[id]
		if filter != "" && t.AssignedProjectID != filter {
			continue
		}
		if !t.Dated() {
			c.Pool = append(c.Pool, t)
			c.PoolByStatus[t.Status] = append(c.PoolByStatus[t.Status], t)
			continue
		}
		c.ByWeek[t.Week] = append(c.ByWeek[t.Week], t)
	}
	return c
}

// SelectTask selects id. Selecting an unknown id clears the selection.
func SelectTask(s State, id string) State {
	if _, ok := s.tasks[id]; ok {
		s.Selected = id
	} else {
		s.Selected = ""
	}
	return s
}

// MoveToWeek dates the task on the first day of week in the board year, whether it
// came from the pool or from another week. The moved task goes to the end of its new
// bucket.
func MoveToWeek(s State, id string, week int) (State, *Request) {
	t, ok := s.Task(id)
	if !ok || week < 1 {
		return s, nil
	}
	t.CompletionDate = calendar.WeekStartDate(s.Year, week, s.Convention)
	return s.put(t, true), &Request{
		Op:     OpSetDateToWeekStart,
		TaskID: id,
		Year:   s.Year,
		Week:   week,
	}
}

// ShiftByWeeks moves a dated task n weeks. Undated or unknown tasks are left alone.
func ShiftByWeeks(s State, id string, n int) (State, *Request) {
	t, ok := s.Task(id)
	if !ok || !t.Dated() || n == 0 {
		return s, nil
	}
	t.CompletionDate = calendar.ShiftWeeks(t.CompletionDate, n)
	return s.put(t, true), &Request{
		Op:     OpShiftByWeeks,
		TaskID: id,
		Weeks:  n,
	}
}

// Reconcile replaces the local copy of a task with the server's version. Applying the
// same server task twice is the same as applying it once.
func Reconcile(s State, server model.Task) State {
	if server.ID == "" {
		return s
	}
	return s.put(server, false)
}

// Rollback restores the tasks of snapshot. The current selection survives if the task
// still exists afterwards. An empty selection falls back to the snapshot's, which covers
// a mutation that moved the selected task off the board year.
func Rollback(s, snapshot State) State {
	out := snapshot.clone()
	out.ProjectFilter = s.ProjectFilter
	if _, ok := out.tasks[s.Selected]; ok {
		out.Selected = s.Selected
	} else if _, ok := out.tasks[snapshot.Selected]; !ok {
		out.Selected = ""
	}
	return out
}

// rollbackTask restores a single task to its snapshot version and position, leaving
// every other task as it is now.
func rollbackTask(s, snapshot State, id string) State {
	out := s.clone()
	prev, had := snapshot.tasks[id]
	out.order = removeID(out.order, id)
	delete(out.tasks, id)
	if had {
		out.order = insertAfterNeighbour(out.order, snapshot.order, id)
		out.tasks[id] = prev
	}
	if _, ok := out.tasks[out.Selected]; !ok {
		out.Selected = ""
	}
	if had && out.Selected == "" && snapshot.Selected == id {
		out.Selected = id
	}
	return out
}

// insertAfterNeighbour puts id back after the closest task that preceded it in ref.
func insertAfterNeighbour(order, ref []string, id string) []string {
	at := -1
	for i, x := range ref {
		if x == id {
			at = i
			break
		}
	}
	pos := 0
	for i := at - 1; i >= 0 && at > 0; i-- {
		if j := indexOf(order, ref[i]); j >= 0 {
			pos = j + 1
			break
		}
	}
	out := make([]string, 0, len(order)+1)
	out = append(out, order[:pos]...)
	out = append(out, id)
	return append(out, order[pos:]...)
}

func indexOf(ids []string, id string) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return -1
}

// applyField sets one field on the local copy of a task.
func applyField(s State, id string, f model.Field, v string) (State, error) {
	t, ok := s.Task(id)
	if !ok {
		return s, model.NotFoundError{Kind: "task", ID: id}
	}
	t, err := model.ApplyField(t, f, v)
	if err != nil {
		return s, err
	}
	return s.put(t, false), nil
}
