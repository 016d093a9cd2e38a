package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"weekboard/internal/board"
	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

// Options configures one board session.
type Options struct {
	Service board.Service
	Engine  board.Config
	Year    int
	Log     log.FieldLogger
}

// editor is the open name or description editor. Every change goes to the engine
// as it is typed; the engine batches the commits.
type editor struct {
	taskID string
	field  model.Field
	orig   string
	input  textinput.Model
	area   textarea.Model
}

func (ed *editor) value() string {
	if ed.field == model.FieldDescription {
		return ed.area.Value()
	}
	return ed.input.Value()
}

type appModel struct {
	ctx    context.Context
	svc    board.Service
	log    log.FieldLogger
	engine *board.Engine
	today  func() calendar.Date

	keys keyMap
	help help.Model

	width  int
	height int

	// focusCol 0 is the pool, 1..WeekCount are weeks. focusYear is the year the focus
	// was placed for; a new year moves focus to its current (or first) week.
	focusCol  int
	focusRow  int
	firstWeek int
	focusYear int

	edit *editor

	minibuffer    string
	minibufferErr bool
	minibufferSeq int

	// tick schedules delayed messages; tests replace it.
	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	today := opts.Engine.Today
	if today == nil {
		today = calendar.Today
	}
	opts.Engine.Today = today
	year := opts.Year
	if year <= 0 {
		year = calendar.WeekYear(today(), opts.Engine.Convention)
	}
	return appModel{
		ctx:       ctx,
		svc:       opts.Service,
		log:       logger,
		engine:    board.NewEngine(opts.Engine, year),
		today:     today,
		keys:      defaultKeyMap(),
		help:      help.New(),
		firstWeek: 1,
		tick:      tea.Tick,
	}
}

// Run opens the board full-screen until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()
	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m appModel) Init() tea.Cmd {
	return m.run(m.engine.Start())
}

// columnTasks lists the cards of a column in display order. The pool is grouped by
// status.
func columnTasks(v board.View, col int) []model.Task {
	if col == 0 {
		out := make([]model.Task, 0, len(v.Pool))
		for _, st := range model.Statuses {
			out = append(out, v.PoolByStatus[st]...)
		}
		return out
	}
	if col < 1 || col > len(v.Weeks) {
		return nil
	}
	return v.Weeks[col-1].Tasks
}

func (m *appModel) focusedTask(v board.View) (model.Task, bool) {
	ts := columnTasks(v, m.focusCol)
	if m.focusRow < 0 || m.focusRow >= len(ts) {
		return model.Task{}, false
	}
	return ts[m.focusRow], true
}

// target is the task an edit applies to: the selection, else the focused card.
func (m *appModel) target(v board.View) (model.Task, bool) {
	if t, ok := m.engine.Selected(); ok {
		return t, true
	}
	return m.focusedTask(v)
}

// clampFocus keeps focus inside the board after the state changed underneath it.
func (m *appModel) clampFocus(v board.View) {
	if v.Year != m.focusYear {
		m.focusYear = v.Year
		m.focusCol = 1
		if v.CurrentWeek > 0 {
			m.focusCol = v.CurrentWeek
		}
		m.focusRow = 0
	}
	if m.focusCol > v.WeekCount {
		m.focusCol = v.WeekCount
	}
	if m.focusCol < 0 {
		m.focusCol = 0
	}
	n := len(columnTasks(v, m.focusCol))
	if m.focusRow >= n {
		m.focusRow = n - 1
	}
	if m.focusRow < 0 {
		m.focusRow = 0
	}
	m.scrollToFocus(v)
}

// followTask moves focus onto the card of id, wherever it is now.
func (m *appModel) followTask(v board.View, id string) {
	for col := 0; col <= v.WeekCount; col++ {
		for row, t := range columnTasks(v, col) {
			if t.ID == id {
				m.focusCol, m.focusRow = col, row
				m.scrollToFocus(v)
				return
			}
		}
	}
}

const (
	poolWidth = 30
	weekWidth = 24
)

func (m *appModel) visibleWeeks() int {
	n := (m.width - poolWidth) / weekWidth
	if n < 1 {
		n = 1
	}
	return n
}

func (m *appModel) scrollToFocus(v board.View) {
	n := m.visibleWeeks()
	if m.focusCol > 0 {
		if m.focusCol < m.firstWeek {
			m.firstWeek = m.focusCol
		}
		if m.focusCol >= m.firstWeek+n {
			m.firstWeek = m.focusCol - n + 1
		}
	}
	if m.firstWeek > v.WeekCount-n+1 {
		m.firstWeek = v.WeekCount - n + 1
	}
	if m.firstWeek < 1 {
		m.firstWeek = 1
	}
}

func (m *appModel) openEditor(t model.Task, f model.Field) {
	ed := &editor{taskID: t.ID, field: f, orig: t.FieldValue(f)}
	if f == model.FieldDescription {
		ed.area = textarea.New()
		ed.area.ShowLineNumbers = false
		ed.area.CharLimit = 0
		ed.area.SetWidth(max(20, m.width-4))
		ed.area.SetHeight(6)
		ed.area.Cursor.SetMode(cursor.CursorStatic)
		ed.area.SetValue(ed.orig)
		ed.area.Focus()
	} else {
		ed.input = textinput.New()
		ed.input.Prompt = ""
		ed.input.Cursor.SetMode(cursor.CursorStatic)
		ed.input.SetValue(ed.orig)
		ed.input.CursorEnd()
		ed.input.Focus()
	}
	m.edit = ed
}
