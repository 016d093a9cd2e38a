package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"weekboard/internal/board"
	"weekboard/internal/model"
)

const (
	cardLines   = 2
	detailLines = 8
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}
	v := m.engine.View()

	header := m.renderHeader(v)
	footer := m.renderFooter()
	detail := m.renderDetail(v)
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(detail)
	if bodyH < 3 {
		bodyH = 3
	}

	cols := []string{m.renderColumn(v, 0, poolWidth, bodyH)}
	last := min(v.WeekCount, m.firstWeek+m.visibleWeeks()-1)
	for w := m.firstWeek; w <= last; w++ {
		cols = append(cols, m.renderColumn(v, w, weekWidth, bodyH))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, detail, footer)
}

func (m appModel) renderHeader(v board.View) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccentFg).Background(colorAccent).Padding(0, 1)
	parts := []string{
		title.Render("weekboard " + strconv.Itoa(v.Year)),
		fmt.Sprintf("%d weeks (%s)", v.WeekCount, v.Convention),
	}
	if v.CurrentWeek > 0 {
		parts = append(parts, "this week: "+strconv.Itoa(v.CurrentWeek))
	}
	if v.ProjectFilter != "" {
		parts = append(parts, "project: "+v.ProjectName(v.ProjectFilter))
	}
	if v.LoadingYear != 0 {
		parts = append(parts, "loading "+strconv.Itoa(v.LoadingYear)+"…")
	}
	if v.Busy > 0 {
		parts = append(parts, "saving "+strconv.Itoa(v.Busy)+"…")
	}
	if v.Dragging != "" {
		if t, ok := m.engine.State().Task(v.Dragging); ok {
			parts = append(parts, glyphDrag()+" "+t.Name)
		}
	}
	return fitWidth(strings.Join(parts, "  "), m.width)
}

func (m appModel) renderColumn(v board.View, col, width, height int) string {
	focused := m.focusCol == col
	titleStyle := lipgloss.NewStyle().Bold(true)
	if focused {
		titleStyle = titleStyle.Foreground(colorAccentFg).Background(colorAccent)
	}

	var title string
	if col == 0 {
		title = "Pool (" + strconv.Itoa(len(v.Pool)) + ")"
	} else {
		w := v.Weeks[col-1]
		title = fmt.Sprintf("W%d %s", w.Number, w.Start.String()[5:])
		if w.Current {
			title += " " + lipgloss.NewStyle().Foreground(colorCurrentWeek).Render(glyphCurrent())
		}
	}

	inner := width - 1
	lines := []string{fitWidth(titleStyle.Render(" "+title), inner)}
	lines = append(lines, styleMuted().Render(strings.Repeat("─", inner)))

	tasks := columnTasks(v, col)
	// Keep the focused card in view.
	capacity := (height - len(lines)) / cardLines
	offset := 0
	if focused && capacity > 0 && m.focusRow >= capacity {
		offset = m.focusRow - capacity + 1
	}

	status := model.Status("")
	for i := offset; i < len(tasks); i++ {
		t := tasks[i]
		if col == 0 && t.Status != status {
			status = t.Status
			lines = append(lines, styleMuted().Render(" "+string(status)))
		}
		lines = append(lines, m.renderCard(v, t, inner, focused && i == m.focusRow)...)
	}
	if len(tasks) == 0 {
		lines = append(lines, styleMuted().Render(" "+glyphBullet()))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(colorCardBorder).
		Render(normalizePane(strings.Join(lines, "\n"), inner, height))
}

func (m appModel) renderCard(v board.View, t model.Task, width int, focused bool) []string {
	bar := lipgloss.NewStyle().Foreground(handlerColor(t.Handler)).Render("▌")
	name := lipgloss.NewStyle()
	if t.ID == v.Selected {
		name = name.Bold(true).Underline(true).Foreground(colorSelectedBorder)
	}
	if focused {
		name = name.Background(colorControlBg)
	}
	prefix := ""
	if t.ID == v.Dragging {
		prefix = glyphDrag() + " "
	}

	meta := string(t.Status)
	if t.AssignedProjectID != "" {
		meta += " · " + v.ProjectName(t.AssignedProjectID)
	}
	return []string{
		fitWidth(bar+name.Render(fitWidth(prefix+t.Name, width-1)), width),
		fitWidth(bar+styleMuted().Render(meta), width),
	}
}

func (m appModel) renderDetail(v board.View) string {
	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(colorCardBorder).
		Width(m.width)

	if m.edit != nil {
		label := "name"
		view := renderInputLine(m.width-2, m.edit.input.View())
		if m.edit.field == model.FieldDescription {
			label = "description (ctrl+s saves, esc reverts)"
			view = m.edit.area.View()
		}
		return style.Render(styleMuted().Render("editing "+label) + "\n" + view)
	}

	t, ok := m.engine.Selected()
	if !ok {
		return style.Render(styleMuted().Render("enter selects a card"))
	}
	when := "no date (pool)"
	if t.Dated() {
		when = fmt.Sprintf("%s · week %d", t.CompletionDate, t.Week)
	}
	meta := []string{when, string(t.Status), string(t.Handler)}
	if t.AssignedProjectID != "" {
		meta = append(meta, v.ProjectName(t.AssignedProjectID))
	}
	head := lipgloss.NewStyle().Bold(true).Render(t.Name) + "  " + styleMuted().Render(strings.Join(meta, " · "))
	body := renderMarkdown(t.Description, m.width-2)
	return style.Render(normalizePane(head+"\n"+body, m.width, detailLines-1))
}

func (m appModel) renderFooter() string {
	mini := m.minibuffer
	if m.minibufferErr {
		mini = lipgloss.NewStyle().Foreground(colorError).Render(mini)
	}
	return fitWidth(mini, m.width) + "\n" + m.help.View(m.keys)
}

// renderInputLine draws a text input on the input background as one line.
func renderInputLine(width int, inputView string) string {
	if width < 10 {
		width = 10
	}
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	return lipgloss.PlaceHorizontal(
		width,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
}
