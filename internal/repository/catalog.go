package repository

import (
	"context"
	"strings"
	"time"

	"seti/workshop/internal/model"
)

func (s *Store) CreateCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING category_id`, name).Scan(&id)
	return id, err
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT category_id, name FROM categories ORDER BY category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, categoryID int64) (model.Category, error) {
	var category model.Category
	err := s.pool.QueryRow(ctx,
		`SELECT category_id, name FROM categories WHERE category_id = $1`, categoryID).
		Scan(&category.ID, &category.Name)
	return category, err
}

func (s *Store) UpdateCategory(ctx context.Context, categoryID int64, name string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE categories SET name = $1 WHERE category_id = $2`, name, categoryID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteCategory(ctx context.Context, categoryID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const workshopColumns = `
	workshop_id, category_id, category_name, name, description, duration_days,
	minutes_per_session, sessions_per_day, capacity, fee, instructor, status,
	workshop_image, start_date, created_at, updated_at`

func scanWorkshop(row interface{ Scan(...any) error }) (model.Workshop, error) {
	var workshop model.Workshop
	err := row.Scan(
		&workshop.ID,
		&workshop.CategoryID,
		&workshop.CategoryName,
		&workshop.Name,
		&workshop.Description,
		&workshop.DurationDays,
		&workshop.MinutesPerSession,
		&workshop.SessionsPerDay,
		&workshop.Capacity,
		&workshop.Fee,
		&workshop.Instructor,
		&workshop.Status,
		&workshop.WorkshopImage,
		&workshop.StartDate,
		&workshop.CreatedAt,
		&workshop.UpdatedAt,
	)
	return workshop, err
}

type NewWorkshop struct {
	CategoryID        int64
	CategoryName      string
	Name              string
	Description       *string
	DurationDays      int
	MinutesPerSession int
	SessionsPerDay    int
	Capacity          int
	Fee               float64
	Instructor        *string
	Status            string
	WorkshopImage     *string
	StartDate         *time.Time
}

func (s *Store) CreateWorkshop(ctx context.Context, workshop NewWorkshop) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO workshops
			(category_id, category_name, name, description, duration_days,
			 minutes_per_session, sessions_per_day, capacity, fee, instructor,
			 status, workshop_image, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING workshop_id
	`,
		workshop.CategoryID, workshop.CategoryName, workshop.Name,
		workshop.Description, workshop.DurationDays, workshop.MinutesPerSession,
		workshop.SessionsPerDay, workshop.Capacity, workshop.Fee,
		workshop.Instructor, workshop.Status, workshop.WorkshopImage,
		workshop.StartDate,
	).Scan(&id)
	return id, err
}

func (s *Store) ListWorkshops(ctx context.Context) ([]model.Workshop, error) {
	rows, err := s.pool.Query(ctx, `SELECT`+workshopColumns+` FROM workshops ORDER BY workshop_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workshops []model.Workshop
	for rows.Next() {
		workshop, err := scanWorkshop(rows)
		if err != nil {
			return nil, err
		}
		workshops = append(workshops, workshop)
	}
	return workshops, rows.Err()
}

func (s *Store) GetWorkshop(ctx context.Context, workshopID int64) (model.Workshop, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+workshopColumns+` FROM workshops WHERE workshop_id = $1`, workshopID)
	return scanWorkshop(row)
}

// WorkshopUpdate is the fixed allow-list of updatable workshop columns.
type WorkshopUpdate struct {
	Name              *string
	Description       *string
	DurationDays      *int
	MinutesPerSession *int
	SessionsPerDay    *int
	Capacity          *int
	Fee               *float64
	Instructor        *string
	Status            *string
	WorkshopImage     *string
	StartDate         *time.Time
}

func (u WorkshopUpdate) empty() bool {
	return u.Name == nil && u.Description == nil && u.DurationDays == nil &&
		u.MinutesPerSession == nil && u.SessionsPerDay == nil &&
		u.Capacity == nil && u.Fee == nil && u.Instructor == nil &&
		u.Status == nil && u.WorkshopImage == nil && u.StartDate == nil
}

func (s *Store) UpdateWorkshop(ctx context.Context, workshopID int64, update WorkshopUpdate) (bool, error) {
	if update.empty() {
		return false, ErrNoFields
	}

	setters := make([]string, 0, 12)
	args := make([]any, 0, 13)
	add := func(column string, value any) {
		args = append(args, value)
		setters = append(setters, column+" = $"+itoa(len(args)))
	}
	if update.Name != nil {
		add("name", *update.Name)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.DurationDays != nil {
		add("duration_days", *update.DurationDays)
	}
	if update.MinutesPerSession != nil {
		add("minutes_per_session", *update.MinutesPerSession)
	}
	if update.SessionsPerDay != nil {
		add("sessions_per_day", *update.SessionsPerDay)
	}
	if update.Capacity != nil {
		add("capacity", *update.Capacity)
	}
	if update.Fee != nil {
		add("fee", *update.Fee)
	}
	if update.Instructor != nil {
		add("instructor", *update.Instructor)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.WorkshopImage != nil {
		add("workshop_image", *update.WorkshopImage)
	}
	if update.StartDate != nil {
		add("start_date", *update.StartDate)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, workshopID)
	query := `UPDATE workshops SET ` + strings.Join(setters, ", ") +
		` WHERE workshop_id = $` + itoa(len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteWorkshop(ctx context.Context, workshopID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM workshops WHERE workshop_id = $1`, workshopID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
