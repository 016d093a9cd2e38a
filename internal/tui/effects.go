package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"weekboard/internal/board"
	"weekboard/internal/model"
)

type loadedMsg struct {
	seq  int
	year int
	res  model.YearTasks
	err  error
}

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type completedMsg struct {
	reqID int
	task  model.Task
	err   error
}

type timerMsg struct {
	key board.FieldKey
	seq int
}

type minibufferDoneMsg struct {
	seq int
}

// run turns engine effects into commands. Service calls run off the update loop and
// report back as messages; notifications are shown and logged right away.
func (m *appModel) run(fx board.Effects) tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range fx.Notifications {
		board.LogNotification(m.log, n)
		cmds = append(cmds, m.notify(n))
	}
	if fx.FetchProjects {
		cmds = append(cmds, fetchProjectsCmd(m.ctx, m.svc))
	}
	for _, f := range fx.Fetches {
		cmds = append(cmds, fetchCmd(m.ctx, m.svc, f))
	}
	for _, r := range fx.Requests {
		cmds = append(cmds, requestCmd(m.ctx, m.svc, r))
	}
	for _, t := range fx.Timers {
		cmds = append(cmds, m.timerCmd(t))
	}
	return tea.Batch(cmds...)
}

func fetchCmd(ctx context.Context, svc board.Service, f board.Fetch) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.FetchTasksForYear(ctx, f.Year)
		return loadedMsg{seq: f.Seq, year: f.Year, res: res, err: err}
	}
}

func fetchProjectsCmd(ctx context.Context, svc board.Service) tea.Cmd {
	return func() tea.Msg {
		ps, err := svc.FetchProjects(ctx)
		return projectsLoadedMsg{projects: ps, err: err}
	}
}

func requestCmd(ctx context.Context, svc board.Service, r board.Request) tea.Cmd {
	return func() tea.Msg {
		t, err := r.Do(ctx, svc)
		return completedMsg{reqID: r.ID, task: t, err: err}
	}
}

func (m *appModel) timerCmd(t board.Timer) tea.Cmd {
	msg := timerMsg{key: t.Key, seq: t.Seq}
	if t.Delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return m.tick(t.Delay, func(time.Time) tea.Msg { return msg })
}

const minibufferTTL = 4 * time.Second

// notify shows n in the minibuffer. Successful loads and merges stay quiet.
func (m *appModel) notify(n board.Notification) tea.Cmd {
	switch n.Kind {
	case board.NotifyLoaded, board.NotifyMerged:
		return nil
	}
	return m.showMinibuffer(n.String(), n.Failed())
}

func (m *appModel) showMinibuffer(text string, isErr bool) tea.Cmd {
	m.minibuffer = text
	m.minibufferErr = isErr
	m.minibufferSeq++
	seq := m.minibufferSeq
	return m.tick(minibufferTTL, func(time.Time) tea.Msg { return minibufferDoneMsg{seq: seq} })
}
