package remote

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"

	"weekboard/internal/api"
	"weekboard/internal/calendar"
	"weekboard/internal/model"
	"weekboard/internal/store"
)

// newServer runs the real API over a temp sqlite store.
func newServer(t *testing.T) (*Client, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), t.TempDir(), calendar.ISO)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	srv := httptest.NewServer(api.New(st, logger))
	t.Cleanup(srv.Close)
	return New(srv.URL + "/"), st
}

func TestClient_RoundTripsThroughServer(t *testing.T) {
	c, st := newServer(t)
	ctx := context.Background()

	p, err := st.CreateProject(ctx, "Apollo")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	tk, err := st.CreateTask(ctx, model.Task{Name: "Launch", AssignedProjectID: p.ID})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := c.Healthy(ctx); err != nil {
		t.Fatalf("healthz: %v", err)
	}
	ps, err := c.FetchProjects(ctx)
	if err != nil || len(ps) != 1 || ps[0].Name != "Apollo" {
		t.Fatalf("unexpected projects %+v (%v)", ps, err)
	}

	moved, err := c.SetTaskDateToWeekStart(ctx, tk.ID, 2024, 10)
	if err != nil {
		t.Fatalf("set week: %v", err)
	}
	if moved.CompletionDate.String() != "2024-03-04" || moved.Week != 10 {
		t.Fatalf("unexpected moved task: %+v", moved)
	}

	shifted, err := c.ShiftTaskByWeeks(ctx, tk.ID, -1)
	if err != nil || shifted.CompletionDate.String() != "2024-02-26" {
		t.Fatalf("unexpected shift %+v (%v)", shifted, err)
	}

	edited, err := c.UpdateTaskField(ctx, tk.ID, model.FieldName, "Launch v2")
	if err != nil || edited.Name != "Launch v2" {
		t.Fatalf("unexpected edit %+v (%v)", edited, err)
	}

	res, err := c.FetchTasksForYear(ctx, 2024)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.WeekCount != 52 || len(res.Tasks) != 1 || res.Tasks[0].Week != 9 {
		t.Fatalf("unexpected year: %+v", res)
	}
}

func TestClient_RebuildsTypedErrors(t *testing.T) {
	c, st := newServer(t)
	ctx := context.Background()

	var nf model.NotFoundError
	if _, err := c.ShiftTaskByWeeks(ctx, "task-missing", 1); !errors.As(err, &nf) || nf.ID != "task-missing" {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	tk, err := st.CreateTask(ctx, model.Task{Name: "Undated"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := c.ShiftTaskByWeeks(ctx, tk.ID, 1); !errors.Is(err, model.ErrNoDate) {
		t.Fatalf("expected ErrNoDate, got %v", err)
	}
	if _, err := c.UpdateTaskField(ctx, tk.ID, model.FieldStatus, "Sideways"); !errors.Is(err, model.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	if _, err := New(url).FetchProjects(context.Background()); err == nil {
		t.Fatalf("expected an error from a closed server")
	}
}
