package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"weekboard/internal/board"
	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampFocus(m.engine.View())
		return m, nil

	case loadedMsg:
		cmd := m.run(m.engine.Loaded(msg.seq, msg.year, msg.res, msg.err))
		m.clampFocus(m.engine.View())
		return m, cmd

	case projectsLoadedMsg:
		return m, m.run(m.engine.ProjectsLoaded(msg.projects, msg.err))

	case completedMsg:
		cmd := m.run(m.engine.Completed(msg.reqID, msg.task, msg.err))
		m.clampFocus(m.engine.View())
		return m, cmd

	case timerMsg:
		return m, m.run(m.engine.TimerFired(msg.key, msg.seq))

	case minibufferDoneMsg:
		if msg.seq == m.minibufferSeq {
			m.minibuffer = ""
			m.minibufferErr = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.edit != nil {
			return m.updateEditor(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m appModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.engine.View()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.focusCol > 0 {
			m.focusCol--
		}
		m.clampFocus(v)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.focusCol < v.WeekCount {
			m.focusCol++
		}
		m.clampFocus(v)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.focusRow--
		m.clampFocus(v)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.focusRow++
		m.clampFocus(v)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if t, ok := m.focusedTask(v); ok {
			m.engine.Select(t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if m.engine.Dragging() != "" {
			m.engine.CancelDrag()
			return m, nil
		}
		m.engine.Select("")
		return m, nil

	case key.Matches(msg, m.keys.Pick):
		return m.pickOrDrop(v)

	case key.Matches(msg, m.keys.Earlier), key.Matches(msg, m.keys.Later):
		n := 1
		if key.Matches(msg, m.keys.Earlier) {
			n = -1
		}
		return m.shift(v, n)

	case key.Matches(msg, m.keys.PrevYear):
		return m, m.run(m.engine.ChangeYear(-1))

	case key.Matches(msg, m.keys.NextYear):
		return m, m.run(m.engine.ChangeYear(1))

	case key.Matches(msg, m.keys.Today):
		today := m.today()
		if y := calendar.WeekYear(today, v.Convention); y != v.Year {
			return m, m.run(m.engine.GoToYear(y))
		}
		if v.CurrentWeek > 0 {
			m.focusCol, m.focusRow = v.CurrentWeek, 0
			m.clampFocus(v)
		}
		return m, nil

	case key.Matches(msg, m.keys.Project):
		m.engine.ChangeProjectFilter(nextProject(v.Projects, v.ProjectFilter))
		v = m.engine.View()
		m.clampFocus(v)
		label := "all projects"
		if v.ProjectFilter != "" {
			label = v.ProjectName(v.ProjectFilter)
		}
		return m, m.showMinibuffer("filter: "+label, false)

	case key.Matches(msg, m.keys.Name), key.Matches(msg, m.keys.Desc):
		t, ok := m.target(v)
		if !ok {
			return m, nil
		}
		m.engine.Select(t.ID)
		f := model.FieldName
		if key.Matches(msg, m.keys.Desc) {
			f = model.FieldDescription
		}
		m.openEditor(t, f)
		return m, nil

	case key.Matches(msg, m.keys.Status):
		t, ok := m.target(v)
		if !ok {
			return m, nil
		}
		return m, m.run(m.engine.EditField(t.ID, model.FieldStatus, string(model.NextStatus(t.Status))))

	case key.Matches(msg, m.keys.Handler):
		t, ok := m.target(v)
		if !ok {
			return m, nil
		}
		return m, m.run(m.engine.EditField(t.ID, model.FieldHandler, string(model.NextHandler(t.Handler))))

	case key.Matches(msg, m.keys.Save):
		return m, m.run(m.engine.Save())

	case key.Matches(msg, m.keys.Reload):
		return m, m.run(m.engine.Reload())
	}
	return m, nil
}

// pickOrDrop picks up the focused card, or drops the carried one on the focused week.
func (m appModel) pickOrDrop(v board.View) (tea.Model, tea.Cmd) {
	dragging := m.engine.Dragging()
	if dragging == "" {
		t, ok := m.focusedTask(v)
		if !ok {
			return m, nil
		}
		m.engine.DragStart(t.ID)
		return m, m.showMinibuffer("moving "+t.Name+": pick a week and press space", false)
	}
	if m.focusCol == 0 {
		return m, m.showMinibuffer("tasks can only be dropped on a week", true)
	}
	cmd := m.run(m.engine.DropOnWeek(m.focusCol))
	m.followTask(m.engine.View(), dragging)
	return m, cmd
}

func (m appModel) shift(v board.View, n int) (tea.Model, tea.Cmd) {
	t, ok := m.target(v)
	if !ok {
		return m, nil
	}
	if !t.Dated() {
		return m, m.showMinibuffer(t.Name+" has no date; drop it on a week first", true)
	}
	m.engine.Select(t.ID)
	cmd := m.run(m.engine.ShiftSelected(n))
	next := m.engine.View()
	m.followTask(next, t.ID)
	m.clampFocus(next)
	return m, cmd
}

func (m appModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.edit
	switch msg.String() {
	case "esc":
		m.edit = nil
		if ed.value() == ed.orig {
			return m, nil
		}
		return m, m.run(m.engine.EditField(ed.taskID, ed.field, ed.orig))
	case "ctrl+s":
		return m.closeEditor()
	case "enter":
		if ed.field != model.FieldDescription {
			return m.closeEditor()
		}
	}

	before := ed.value()
	if ed.field == model.FieldDescription {
		ed.area, _ = ed.area.Update(msg)
	} else {
		ed.input, _ = ed.input.Update(msg)
	}
	after := ed.value()
	if after == before || (ed.field == model.FieldName && strings.TrimSpace(after) == "") {
		return m, nil
	}
	return m, m.run(m.engine.EditField(ed.taskID, ed.field, after))
}

// closeEditor commits what was typed. An empty name is sent to the engine so the
// rejection is reported.
func (m appModel) closeEditor() (tea.Model, tea.Cmd) {
	ed := m.edit
	m.edit = nil
	var fx board.Effects
	if cur, ok := m.engine.State().Task(ed.taskID); ok && cur.FieldValue(ed.field) != ed.value() {
		fx.Add(m.engine.EditField(ed.taskID, ed.field, ed.value()))
	}
	fx.Add(m.engine.Save())
	return m, m.run(fx)
}

// nextProject cycles "" (all) through every project and back.
func nextProject(projects []model.Project, cur string) string {
	if len(projects) == 0 {
		return ""
	}
	if cur == "" {
		return projects[0].ID
	}
	for i, p := range projects {
		if p.ID == cur {
			if i+1 < len(projects) {
				return projects[i+1].ID
			}
			return ""
		}
	}
	return ""
}
