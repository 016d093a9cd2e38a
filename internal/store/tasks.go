package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"weekboard/internal/calendar"
	"weekboard/internal/model"
)

const taskColumns = `id, name, description, completion_date, handler, status, project_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanTask(r rowScanner) (model.Task, error) {
	var (
		t               model.Task
		date, projectID sql.NullString
		handler, status string
	)
	if err := r.Scan(&t.ID, &t.Name, &t.Description, &date, &handler, &status, &projectID); err != nil {
		return model.Task{}, err
	}
	if date.Valid {
		d, err := calendar.ParseDate(date.String)
		if err != nil {
			return model.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.CompletionDate = d
	}
	t.Handler = model.Handler(handler)
	t.Status = model.Status(status)
	t.AssignedProjectID = projectID.String
	return t.WithWeek(s.Convention), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// FetchTasksForYear returns every task dated in a week numbered in year, plus every
// undated task, in insertion order.
func (s *Store) FetchTasksForYear(ctx context.Context, year int) (model.YearTasks, error) {
	if year <= 0 {
		return model.YearTasks{}, fmt.Errorf("%w: year %d", model.ErrInvalidValue, year)
	}
	weeks := calendar.WeeksInYear(year, s.Convention)
	from := calendar.WeekStartDate(year, 1, s.Convention)
	to := calendar.WeekStartDate(year, weeks+1, s.Convention)

	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks
		WHERE completion_date IS NULL OR (completion_date >= ? AND completion_date < ?)
		ORDER BY seq`, from.String(), to.String())
	if err != nil {
		return model.YearTasks{}, err
	}
	defer rows.Close()

	res := model.YearTasks{Year: year, WeekCount: weeks, Tasks: []model.Task{}}
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return model.YearTasks{}, err
		}
		res.Tasks = append(res.Tasks, t)
	}
	return res, rows.Err()
}

// ListTasks returns every task in insertion order. A non-empty projectID narrows the
// list to that project.
func (s *Store) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if projectID = strings.TrimSpace(projectID); projectID != "" {
		q += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	rows, err := s.db.QueryContext(ctx, q+` ORDER BY seq`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		t, err := s.scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id string) (model.Task, error) {
	return s.getTask(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) getTask(ctx context.Context, q querier, id string) (model.Task, error) {
	t, err := s.scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, model.NotFoundError{Kind: "task", ID: id}
	}
	return t, err
}

// CreateTask inserts t with a fresh id. Handler and status default to Internal and
// Not Started.
func (s *Store) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if strings.TrimSpace(t.Name) == "" {
		return model.Task{}, fmt.Errorf("%w: name is required", model.ErrInvalidValue)
	}
	if t.Handler == "" {
		t.Handler = model.HandlerInternal
	}
	if t.Status == "" {
		t.Status = model.StatusNotStarted
	}
	if _, err := model.ParseHandler(string(t.Handler)); err != nil {
		return model.Task{}, err
	}
	if _, err := model.ParseStatus(string(t.Status)); err != nil {
		return model.Task{}, err
	}
	if err := s.checkProject(ctx, s.db, t.AssignedProjectID); err != nil {
		return model.Task{}, err
	}
	id, err := newID("task")
	if err != nil {
		return model.Task{}, err
	}
	t.ID = id
	_, err = s.db.ExecContext(ctx, `INSERT INTO tasks(id, name, description, completion_date, handler, status, project_id)
		VALUES(?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, nullable(t.CompletionDate.String()), string(t.Handler), string(t.Status), nullable(t.AssignedProjectID))
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t.WithWeek(s.Convention), nil
}

// SetTaskDateToWeekStart dates the task on the first day of week in year.
func (s *Store) SetTaskDateToWeekStart(ctx context.Context, id string, year, week int) (model.Task, error) {
	if year <= 0 || week < 1 || week > calendar.WeeksInYear(year, s.Convention) {
		return model.Task{}, fmt.Errorf("%w: week %d of %d", model.ErrInvalidValue, week, year)
	}
	return s.updateTask(ctx, id, func(t *model.Task) error {
		t.CompletionDate = calendar.WeekStartDate(year, week, s.Convention)
		return nil
	})
}

// ShiftTaskByWeeks moves a dated task by n weeks.
func (s *Store) ShiftTaskByWeeks(ctx context.Context, id string, weeks int) (model.Task, error) {
	return s.updateTask(ctx, id, func(t *model.Task) error {
		if !t.Dated() {
			return model.ErrNoDate
		}
		t.CompletionDate = calendar.ShiftWeeks(t.CompletionDate, weeks)
		return nil
	})
}

// UpdateTaskField sets one field from its wire value.
func (s *Store) UpdateTaskField(ctx context.Context, id string, field model.Field, value string) (model.Task, error) {
	return s.updateTask(ctx, id, func(t *model.Task) error {
		next, err := model.ApplyField(*t, field, value)
		if err != nil {
			return err
		}
		*t = next
		return nil
	})
}

func (s *Store) updateTask(ctx context.Context, id string, fn func(*model.Task) error) (model.Task, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return model.Task{}, err
	}
	defer func() { _ = tx.Rollback() }()

	t, err := s.getTask(ctx, tx, id)
	if err != nil {
		return model.Task{}, err
	}
	if err := fn(&t); err != nil {
		return model.Task{}, err
	}
	if err := s.checkProject(ctx, tx, t.AssignedProjectID); err != nil {
		return model.Task{}, err
	}
	_, err = tx.ExecContext(ctx, `UPDATE tasks SET name = ?, description = ?, completion_date = ?, handler = ?, status = ?, project_id = ?
		WHERE id = ?`,
		t.Name, t.Description, nullable(t.CompletionDate.String()), string(t.Handler), string(t.Status), nullable(t.AssignedProjectID), t.ID)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return model.Task{}, err
	}
	return t.WithWeek(s.Convention), nil
}
