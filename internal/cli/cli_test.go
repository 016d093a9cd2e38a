package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"

	"weekboard/internal/api"
	"weekboard/internal/calendar"
	"weekboard/internal/model"
	"weekboard/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config and data at temp dirs and returns the flags every call needs.
func isolate(t *testing.T) []string {
	t.Helper()
	t.Setenv("WEEKBOARD_CONFIG_DIR", t.TempDir())
	t.Setenv("WEEKBOARD_REMOTE", "")
	t.Setenv("WEEKBOARD_REDIS", "")
	t.Setenv("WEEKBOARD_CONVENTION", "")
	return []string{"--data-dir", t.TempDir(), "--format", "json"}
}

func mustRunJSON(t *testing.T, base []string, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, append(append([]string{}, base...), args...))
	if err != nil {
		t.Fatalf("command failed: weekboard %v\nerr: %v\nstderr:\n%s", args, err, string(stderr))
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, string(stdout))
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("expected data envelope; got %s", string(stdout))
	}
	return data
}

func obj(t *testing.T, v any) map[string]any {
	t.Helper()
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object; got %#v", v)
	}
	return m
}

func TestWeekCommands(t *testing.T) {
	base := isolate(t)

	of := obj(t, mustRunJSON(t, base, "week", "of", "2024-12-30"))
	if of["year"] != float64(2025) || of["week"] != float64(1) || of["start"] != "2024-12-30" {
		t.Fatalf("unexpected week of: %#v", of)
	}

	start := obj(t, mustRunJSON(t, base, "week", "start", "2024", "10"))
	if start["start"] != "2024-03-04" || start["end"] != "2024-03-10" || start["weeksInYear"] != float64(52) {
		t.Fatalf("unexpected week start: %#v", start)
	}

	if w53 := obj(t, mustRunJSON(t, base, "week", "start", "2020", "53")); w53["start"] != "2020-12-28" {
		t.Fatalf("unexpected 2020-W53: %#v", w53)
	}

	_, _, err := runCLI(t, append(base, "week", "start", "2021", "53"))
	if !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected invalid value for 2021-W53; got %v", err)
	}

	sunday := obj(t, mustRunJSON(t, base, "--convention", "sunday", "week", "start", "2024", "1"))
	if sunday["start"] != "2023-12-31" {
		t.Fatalf("unexpected sunday week start: %#v", sunday)
	}
}

func TestTasksLifecycle(t *testing.T) {
	base := isolate(t)

	mustRunJSON(t, base, "init")
	p := obj(t, mustRunJSON(t, base, "projects", "add", "--name", "Ops"))
	projectID, _ := p["id"].(string)
	if projectID == "" {
		t.Fatalf("expected project id; got %#v", p)
	}

	a := obj(t, mustRunJSON(t, base, "tasks", "add", "--name", "Audit", "--date", "2024-03-06", "--project", projectID))
	aID, _ := a["id"].(string)
	if aID == "" || a["week"] != float64(10) || a["status"] != "Not Started" || a["handler"] != "Internal" {
		t.Fatalf("unexpected created task: %#v", a)
	}
	b := obj(t, mustRunJSON(t, base, "tasks", "add", "--name", "Backlog item"))
	bID, _ := b["id"].(string)
	if b["completionDate"] != nil {
		t.Fatalf("expected undated task; got %#v", b)
	}

	list, ok := mustRunJSON(t, base, "tasks", "list", "--year", "2024").([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected 2 tasks on the 2024 board; got %#v", list)
	}
	if other, _ := mustRunJSON(t, base, "tasks", "list", "--year", "2023").([]any); len(other) != 1 {
		t.Fatalf("expected only the undated task on 2023; got %#v", other)
	}

	moved := obj(t, mustRunJSON(t, base, "tasks", "move", bID, "--year", "2024", "--week", "5"))
	if moved["completionDate"] != "2024-01-29" || moved["week"] != float64(5) {
		t.Fatalf("unexpected moved task: %#v", moved)
	}

	shifted := obj(t, mustRunJSON(t, base, "tasks", "shift", aID, "--weeks", "1"))
	if shifted["completionDate"] != "2024-03-13" || shifted["week"] != float64(11) {
		t.Fatalf("unexpected shifted task: %#v", shifted)
	}

	set := obj(t, mustRunJSON(t, base, "tasks", "set", aID, "status", "On Track"))
	if set["status"] != "On Track" {
		t.Fatalf("unexpected status: %#v", set)
	}
	renamed := obj(t, mustRunJSON(t, base, "tasks", "set", aID, "name", "Audit v2"))
	if renamed["name"] != "Audit v2" {
		t.Fatalf("unexpected name: %#v", renamed)
	}

	brd := obj(t, mustRunJSON(t, base, "board", "--year", "2024"))
	if pool, _ := brd["pool"].([]any); len(pool) != 0 {
		t.Fatalf("expected empty pool; got %#v", brd["pool"])
	}
	weeks, _ := brd["weeks"].([]any)
	var got []float64
	for _, w := range weeks {
		got = append(got, obj(t, w)["week"].(float64))
	}
	if len(got) < 2 || !containsWeek(got, 5) || !containsWeek(got, 11) {
		t.Fatalf("expected weeks 5 and 11 on the board; got %v", got)
	}

	filtered := obj(t, mustRunJSON(t, base, "board", "--year", "2024", "--project", projectID))
	for _, w := range filtered["weeks"].([]any) {
		if wk := obj(t, w); wk["week"] == float64(5) && len(wk["tasks"].([]any)) != 0 {
			t.Fatalf("expected week 5 task to be filtered out; got %#v", wk)
		}
	}
}

func containsWeek(ws []float64, w float64) bool {
	for _, x := range ws {
		if x == w {
			return true
		}
	}
	return false
}

func TestTasksErrors(t *testing.T) {
	base := isolate(t)

	pool := obj(t, mustRunJSON(t, base, "tasks", "add", "--name", "Someday"))
	poolID := pool["id"].(string)
	dated := obj(t, mustRunJSON(t, base, "tasks", "add", "--name", "Dated", "--date", "2024-06-05"))
	datedID := dated["id"].(string)

	t.Run("shift undated", func(t *testing.T) {
		_, _, err := runCLI(t, append(base, "tasks", "shift", poolID, "--year", "2024"))
		if !errors.Is(err, model.ErrNoDate) {
			t.Fatalf("expected ErrNoDate; got %v", err)
		}
	})

	t.Run("not on board", func(t *testing.T) {
		_, stderr, err := runCLI(t, append(base, "tasks", "move", datedID, "--year", "2023", "--week", "3"))
		if err == nil || !strings.Contains(string(stderr), "not on the 2023 board") {
			t.Fatalf("expected not-on-board error; got %v\nstderr: %s", err, string(stderr))
		}
	})

	t.Run("week out of range", func(t *testing.T) {
		_, _, err := runCLI(t, append(base, "tasks", "move", datedID, "--year", "2024", "--week", "53"))
		if !errors.Is(err, model.ErrInvalidValue) {
			t.Fatalf("expected invalid week; got %v", err)
		}
	})

	t.Run("bad field value", func(t *testing.T) {
		_, _, err := runCLI(t, append(base, "tasks", "set", datedID, "handler", "Robot"))
		if !errors.Is(err, model.ErrInvalidValue) {
			t.Fatalf("expected invalid handler; got %v", err)
		}
		all, _ := mustRunJSON(t, base, "tasks", "list", "--all").([]any)
		for _, x := range all {
			if tk := obj(t, x); tk["id"] == datedID && tk["handler"] != "Internal" {
				t.Fatalf("rejected handler was stored: %#v", tk)
			}
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		_, _, err := runCLI(t, append(base, "tasks", "add", "--name", "x", "--project", "nope"))
		var nf model.NotFoundError
		if !errors.As(err, &nf) || nf.Kind != "project" {
			t.Fatalf("expected project not found; got %v", err)
		}
	})

	t.Run("remote cannot create", func(t *testing.T) {
		_, _, err := runCLI(t, append(base, "--remote", "http://127.0.0.1:1", "projects", "add", "--name", "x"))
		if !errors.Is(err, errRemoteUnsupported) {
			t.Fatalf("expected errRemoteUnsupported; got %v", err)
		}
	})
}

func TestRemoteBackend(t *testing.T) {
	base := isolate(t)

	st, err := store.Open(context.Background(), t.TempDir(), calendar.ISO)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	tk, err := st.CreateTask(context.Background(), model.Task{Name: "Remote"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	srv := httptest.NewServer(api.New(st, logger))
	t.Cleanup(srv.Close)

	remote := append(append([]string{}, base...), "--remote", srv.URL)
	moved := obj(t, mustRunJSON(t, remote, "tasks", "move", tk.ID, "--year", "2024", "--week", "10"))
	if moved["completionDate"] != "2024-03-04" {
		t.Fatalf("unexpected remote move: %#v", moved)
	}

	got, err := st.GetTask(context.Background(), tk.ID)
	if err != nil || got.CompletionDate.String() != "2024-03-04" {
		t.Fatalf("expected the server store to be updated; got %+v (%v)", got, err)
	}

	_, _, err = runCLI(t, append(remote, "tasks", "set", tk.ID, "status", "Nope", "--year", "2024"))
	if !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected invalid status; got %v", err)
	}
}

func TestTableOutput(t *testing.T) {
	base := isolate(t)
	mustRunJSON(t, base, "projects", "add", "--name", "Tabled")

	stdout, stderr, err := runCLI(t, append(base, "--format", "table", "projects", "list"))
	if err != nil {
		t.Fatalf("projects list: %v\n%s", err, string(stderr))
	}
	out := string(stdout)
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "Tabled") {
		t.Fatalf("expected a table with the project; got:\n%s", out)
	}
}
