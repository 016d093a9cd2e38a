package board

import (
	"time"

	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

const DefaultTextDebounce = 500 * time.Millisecond

type Config struct {
	Convention calendar.Convention
	// TextDebounce delays commits of free-text fields (name, description).
	// Other fields commit immediately.
	TextDebounce time.Duration
	Today        func() calendar.Date
}

// Engine owns the board state of one session and turns user intents into state
// changes plus Effects. It does no I/O and is not safe for concurrent use; callers
// serialize intents and completions on one goroutine.
type Engine struct {
	cfg   Config
	state State

	// rev identifies the current task content. Selection and filter changes do not
	// move it.
	rev     int
	lastRev int
	// gen counts completed loads. Completions from before a reload never roll back.
	gen int

	loadSeq     int
	loadingYear int

	projects []model.Project
	dragging string

	lastReqID   int
	outstanding map[int]outstanding
	edits       *editBatcher
}

type outstanding struct {
	req        Request
	gen        int
	snapshot   State
	snapRev    int
	appliedRev int
}

func NewEngine(cfg Config, year int) *Engine {
	if cfg.TextDebounce <= 0 {
		cfg.TextDebounce = DefaultTextDebounce
	}
	if cfg.Today == nil {
		cfg.Today = calendar.Today
	}
	return &Engine{
		cfg:         cfg,
		state:       NewState(year, cfg.Convention),
		outstanding: map[int]outstanding{},
		edits:       newEditBatcher(),
	}
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Projects() []model.Project { return e.projects }

func (e *Engine) Selected() (model.Task, bool) { return e.state.SelectedTask() }

// Dragging returns the id of the task picked up by DragStart, if any.
func (e *Engine) Dragging() string { return e.dragging }

// Busy reports how many remote calls and queued edits are outstanding.
func (e *Engine) Busy() int { return len(e.outstanding) + e.edits.busy() }

// EditPhase reports where the edit stream for (taskID, field) is.
func (e *Engine) EditPhase(taskID string, f model.Field) EditPhase {
	return e.edits.phase(FieldKey{TaskID: taskID, Field: f})
}

func (e *Engine) setTasks(s State) {
	e.state = s
	e.lastRev++
	e.rev = e.lastRev
}

// Start asks for the initial year and the project list.
func (e *Engine) Start() Effects {
	fx := e.fetch(e.state.Year)
	fx.FetchProjects = true
	return fx
}

// Reload refetches the current year.
func (e *Engine) Reload() Effects {
	year := e.state.Year
	if e.loadingYear != 0 {
		year = e.loadingYear
	}
	return e.fetch(year)
}

// ChangeYear moves the board delta years. The shown state stays until the new year
// has loaded.
func (e *Engine) ChangeYear(delta int) Effects {
	if delta == 0 {
		return Effects{}
	}
	year := e.state.Year
	if e.loadingYear != 0 {
		year = e.loadingYear
	}
	return e.fetch(year + delta)
}

// GoToYear loads year directly.
func (e *Engine) GoToYear(year int) Effects {
	if year <= 0 {
		return Effects{}
	}
	return e.fetch(year)
}

func (e *Engine) fetch(year int) Effects {
	e.loadSeq++
	e.loadingYear = year
	return Effects{Fetches: []Fetch{{Seq: e.loadSeq, Year: year}}}
}

// Loaded installs a fetched year. Results of superseded fetches are dropped. On
// failure the previous state is kept.
func (e *Engine) Loaded(seq, year int, res model.YearTasks, err error) Effects {
	if seq != e.loadSeq {
		return Effects{}
	}
	e.loadingYear = 0
	if err != nil {
		return notify(Notification{Kind: NotifyLoadFailed, Year: year, Err: LoadFailure{Year: year, Err: err}})
	}

	res.Year = year
	next := Load(res, e.cfg.Convention)
	next.ProjectFilter = e.state.ProjectFilter
	if year == e.state.Year {
		next = SelectTask(next, e.state.Selected)
	} else {
		e.dragging = ""
	}
	if _, ok := next.Task(e.dragging); !ok {
		e.dragging = ""
	}
	e.gen++
	e.setTasks(next)
	for _, t := range next.Tasks() {
		e.overlayEdits(t.ID)
	}
	return notify(Notification{Kind: NotifyLoaded, Year: year})
}

// ProjectsLoaded installs the project list used for filtering.
func (e *Engine) ProjectsLoaded(projects []model.Project, err error) Effects {
	if err != nil {
		return notify(Notification{Kind: NotifyLoadFailed, Err: LoadFailure{Err: err}})
	}
	e.projects = append([]model.Project(nil), projects...)
	return Effects{}
}

func (e *Engine) Select(id string) Effects {
	e.state = SelectTask(e.state, id)
	return Effects{}
}

// ChangeProjectFilter shows only tasks of projectID; "" shows everything.
func (e *Engine) ChangeProjectFilter(projectID string) Effects {
	e.state.ProjectFilter = projectID
	return Effects{}
}

// DragStart picks up a task. The drop target decides what happens to it.
func (e *Engine) DragStart(id string) Effects {
	if _, ok := e.state.Task(id); ok {
		e.dragging = id
	}
	return Effects{}
}

func (e *Engine) CancelDrag() Effects {
	e.dragging = ""
	return Effects{}
}

// DropOnWeek dates the dragged task on the start of week.
func (e *Engine) DropOnWeek(week int) Effects {
	id := e.dragging
	e.dragging = ""
	if id == "" {
		return Effects{}
	}
	return e.mutate(func(s State) (State, *Request) { return MoveToWeek(s, id, week) })
}

// ShiftSelected moves the selected task n weeks.
func (e *Engine) ShiftSelected(n int) Effects {
	id := e.state.Selected
	if id == "" {
		return Effects{}
	}
	return e.mutate(func(s State) (State, *Request) { return ShiftByWeeks(s, id, n) })
}

func (e *Engine) mutate(fn func(State) (State, *Request)) Effects {
	snap, snapRev := e.state.clone(), e.rev
	next, req := fn(e.state)
	if req == nil {
		return Effects{}
	}
	e.lastReqID++
	req.ID = e.lastReqID
	e.setTasks(next)
	e.outstanding[req.ID] = outstanding{
		req:        *req,
		gen:        e.gen,
		snapshot:   snap,
		snapRev:    snapRev,
		appliedRev: e.rev,
	}
	return Effects{Requests: []Request{*req}}
}

// EditField shows value locally at once and schedules its commit. Free-text fields
// wait for the debounce delay so a burst of keystrokes sends only the last value.
func (e *Engine) EditField(taskID string, f model.Field, value string) Effects {
	next, err := applyField(e.state, taskID, f, value)
	if err != nil {
		return notify(Notification{
			Kind:   NotifyFieldSaveFailed,
			TaskID: taskID,
			Field:  f,
			Err:    FieldSaveFailure{TaskID: taskID, Field: f, Err: err},
		})
	}
	e.setTasks(next)
	delay := time.Duration(0)
	if f.FreeText() {
		delay = e.cfg.TextDebounce
	}
	return Effects{Timers: []Timer{e.edits.edit(FieldKey{TaskID: taskID, Field: f}, value, delay)}}
}

// Save commits every queued edit now.
func (e *Engine) Save() Effects {
	var fx Effects
	for _, key := range e.edits.flush() {
		fx.Requests = append(fx.Requests, e.fieldRequest(key, e.edits.take(key)))
	}
	return fx
}

// TimerFired handles a Timer from an earlier EditField.
func (e *Engine) TimerFired(key FieldKey, seq int) Effects {
	v, ok := e.edits.fire(key, seq)
	if !ok {
		return Effects{}
	}
	return Effects{Requests: []Request{e.fieldRequest(key, v)}}
}

func (e *Engine) fieldRequest(key FieldKey, value string) Request {
	e.lastReqID++
	req := Request{
		ID:     e.lastReqID,
		Op:     OpUpdateField,
		TaskID: key.TaskID,
		Field:  key.Field,
		Value:  value,
	}
	e.edits.started(key, req.ID, value)
	e.outstanding[req.ID] = outstanding{req: req, gen: e.gen}
	return req
}

// Completed feeds back the outcome of a Request. Unknown ids are ignored.
func (e *Engine) Completed(reqID int, server model.Task, err error) Effects {
	o, ok := e.outstanding[reqID]
	if !ok {
		return Effects{}
	}
	delete(e.outstanding, reqID)
	if o.req.Op == OpUpdateField {
		return e.fieldCompleted(o, server, err)
	}

	if err != nil {
		fail := MutationFailure{Op: o.req.Op, TaskID: o.req.TaskID, Err: err}
		if o.gen == e.gen {
			e.rollback(o)
		}
		return notify(Notification{Kind: NotifyRolledBack, TaskID: o.req.TaskID, Err: fail})
	}
	e.merge(server)
	return notify(Notification{Kind: NotifyMerged, TaskID: server.ID})
}

// rollback undoes a failed mutation. If nothing changed since it was applied the
// whole snapshot comes back; otherwise only the task it touched is restored.
func (e *Engine) rollback(o outstanding) {
	if e.rev == o.appliedRev {
		e.state = Rollback(e.state, o.snapshot)
		e.rev = o.snapRev
		return
	}
	e.setTasks(rollbackTask(e.state, o.snapshot, o.req.TaskID))
	e.overlayEdits(o.req.TaskID)
	if _, ok := e.state.Task(e.dragging); !ok {
		e.dragging = ""
	}
}

func (e *Engine) fieldCompleted(o outstanding, server model.Task, err error) Effects {
	key := FieldKey{TaskID: o.req.TaskID, Field: o.req.Field}
	var fx Effects
	if v, ok := e.edits.done(key, o.req.ID); ok {
		fx.Requests = append(fx.Requests, e.fieldRequest(key, v))
	}
	if err != nil {
		fx.Notifications = append(fx.Notifications, Notification{
			Kind:   NotifyFieldSaveFailed,
			TaskID: key.TaskID,
			Field:  key.Field,
			Err:    FieldSaveFailure{TaskID: key.TaskID, Field: key.Field, Err: err},
		})
		return fx
	}
	e.merge(server)
	fx.Notifications = append(fx.Notifications, Notification{Kind: NotifyFieldSaved, TaskID: key.TaskID, Field: key.Field})
	return fx
}

// merge reconciles a server task and puts back any local edits the server has not
// seen yet.
func (e *Engine) merge(server model.Task) {
	if server.ID == "" {
		return
	}
	e.setTasks(Reconcile(e.state, server))
	e.overlayEdits(server.ID)
	if _, ok := e.state.Task(e.dragging); !ok {
		e.dragging = ""
	}
}

func (e *Engine) overlayEdits(taskID string) {
	vals := e.edits.overlay(taskID)
	if len(vals) == 0 {
		return
	}
	s := e.state
	for _, fv := range vals {
		next, err := applyField(s, taskID, fv.field, fv.value)
		if err != nil {
			continue
		}
		s = next
	}
	e.setTasks(s)
}
