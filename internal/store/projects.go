package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"weekboard/internal/model"
)

func (s *Store) FetchProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM projects ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, name string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, fmt.Errorf("%w: project name is required", model.ErrInvalidValue)
	}
	id, err := newID("proj")
	if err != nil {
		return model.Project{}, err
	}
	p := model.Project{ID: id, Name: name}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO projects(id, name) VALUES(?, ?)`, p.ID, p.Name); err != nil {
		return model.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// checkProject fails with NotFoundError when id names no project. An empty id is fine.
func (s *Store) checkProject(ctx context.Context, q querier, id string) error {
	if id == "" {
		return nil
	}
	var got string
	err := q.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = ?`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NotFoundError{Kind: "project", ID: id}
	}
	return err
}
