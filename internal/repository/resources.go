package repository

import (
	"context"
	"strings"

	"seti/workshop/internal/model"
)

func (s *Store) CreateResourceCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO resource_categories (name) VALUES ($1) RETURNING id`,
		name,
	).Scan(&id)
	return id, err
}

func (s *Store) ListResourceCategories(ctx context.Context) ([]model.ResourceCategory, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM resource_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.ResourceCategory
	for rows.Next() {
		var c model.ResourceCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type NewResource struct {
	Name        string
	CategoryID  int64
	SessionID   *int64
	URL         string
	Description *string
}

func (s *Store) CreateResource(ctx context.Context, r NewResource) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO resources (name, category_id, session_id, url, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, r.Name, r.CategoryID, r.SessionID, r.URL, r.Description).Scan(&id)
	return id, err
}

func (s *Store) ListResources(ctx context.Context) ([]model.Resource, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category_id, session_id, url, description, created_at
		FROM resources
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []model.Resource
	for rows.Next() {
		var r model.Resource
		if err := rows.Scan(&r.ID, &r.Name, &r.CategoryID, &r.SessionID, &r.URL, &r.Description, &r.CreatedAt); err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// ListResourceViews is the student-facing listing with category names joined in.
func (s *Store) ListResourceViews(ctx context.Context) ([]model.ResourceView, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.name, r.url, r.description, rc.name
		FROM resources r
		JOIN resource_categories rc ON r.category_id = rc.id
		ORDER BY r.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []model.ResourceView
	for rows.Next() {
		var v model.ResourceView
		if err := rows.Scan(&v.ID, &v.Name, &v.URL, &v.Description, &v.Category); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

type ResourceUpdate struct {
	Name        *string
	CategoryID  *int64
	SessionID   *int64
	URL         *string
	Description *string
}

func (u ResourceUpdate) empty() bool {
	return u.Name == nil && u.CategoryID == nil && u.SessionID == nil && u.URL == nil && u.Description == nil
}

func (s *Store) UpdateResource(ctx context.Context, id int64, u ResourceUpdate) (bool, error) {
	if u.empty() {
		return false, ErrNoFields
	}

	var setters []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		setters = append(setters, column+" = $"+itoa(len(args)))
	}
	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.CategoryID != nil {
		add("category_id", *u.CategoryID)
	}
	if u.SessionID != nil {
		add("session_id", *u.SessionID)
	}
	if u.URL != nil {
		add("url", *u.URL)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}

	args = append(args, id)
	query := `UPDATE resources SET ` + strings.Join(setters, ", ") + ` WHERE id = $` + itoa(len(args))
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteResource(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
