package repository

import (
	"context"
	"strings"
	"time"

	"seti/workshop/internal/model"
)

const batchColumns = `
	id, workshop_id, category_id, workshop_name, batch_name, instructor,
	status, start_date, start_time, end_time, location, zoom_link,
	zoom_meeting_id, zoom_password, created_at, updated_at`

func scanBatch(row interface{ Scan(...any) error }) (model.Batch, error) {
	var batch model.Batch
	err := row.Scan(
		&batch.ID,
		&batch.WorkshopID,
		&batch.CategoryID,
		&batch.WorkshopName,
		&batch.BatchName,
		&batch.Instructor,
		&batch.Status,
		&batch.StartDate,
		&batch.StartTime,
		&batch.EndTime,
		&batch.Location,
		&batch.ZoomLink,
		&batch.ZoomMeetingID,
		&batch.ZoomPassword,
		&batch.CreatedAt,
		&batch.UpdatedAt,
	)
	return batch, err
}

type NewBatch struct {
	WorkshopID    int64
	CategoryID    int64
	WorkshopName  string
	BatchName     *string
	Instructor    *string
	Status        string
	StartDate     *time.Time
	StartTime     *string
	EndTime       *string
	Location      *string
	ZoomLink      *string
	ZoomMeetingID *string
	ZoomPassword  *string
}

func (s *Store) CreateBatch(ctx context.Context, batch NewBatch) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO batches
			(workshop_id, category_id, workshop_name, batch_name, instructor,
			 status, start_date, start_time, end_time, location, zoom_link,
			 zoom_meeting_id, zoom_password)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		batch.WorkshopID, batch.CategoryID, batch.WorkshopName, batch.BatchName,
		batch.Instructor, batch.Status, batch.StartDate, batch.StartTime,
		batch.EndTime, batch.Location, batch.ZoomLink, batch.ZoomMeetingID,
		batch.ZoomPassword,
	).Scan(&id)
	return id, err
}

func (s *Store) ListBatches(ctx context.Context) ([]model.Batch, error) {
	rows, err := s.pool.Query(ctx, `SELECT`+batchColumns+` FROM batches ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []model.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

func (s *Store) GetBatch(ctx context.Context, batchID int64) (model.Batch, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+batchColumns+` FROM batches WHERE id = $1`, batchID)
	return scanBatch(row)
}

// BatchUpdate is the fixed allow-list of updatable batch columns.
type BatchUpdate struct {
	BatchName     *string
	Instructor    *string
	Status        *string
	StartDate     *time.Time
	StartTime     *string
	EndTime       *string
	Location      *string
	ZoomLink      *string
	ZoomMeetingID *string
	ZoomPassword  *string
}

func (u BatchUpdate) empty() bool {
	return u.BatchName == nil && u.Instructor == nil && u.Status == nil &&
		u.StartDate == nil && u.StartTime == nil && u.EndTime == nil &&
		u.Location == nil && u.ZoomLink == nil && u.ZoomMeetingID == nil &&
		u.ZoomPassword == nil
}

func (s *Store) UpdateBatch(ctx context.Context, batchID int64, update BatchUpdate) (bool, error) {
	if update.empty() {
		return false, ErrNoFields
	}

	setters := make([]string, 0, 11)
	args := make([]any, 0, 12)
	add := func(column string, value any) {
		args = append(args, value)
		setters = append(setters, column+" = $"+itoa(len(args)))
	}
	if update.BatchName != nil {
		add("batch_name", *update.BatchName)
	}
	if update.Instructor != nil {
		add("instructor", *update.Instructor)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.StartDate != nil {
		add("start_date", *update.StartDate)
	}
	if update.StartTime != nil {
		add("start_time", *update.StartTime)
	}
	if update.EndTime != nil {
		add("end_time", *update.EndTime)
	}
	if update.Location != nil {
		add("location", *update.Location)
	}
	if update.ZoomLink != nil {
		add("zoom_link", *update.ZoomLink)
	}
	if update.ZoomMeetingID != nil {
		add("zoom_meeting_id", *update.ZoomMeetingID)
	}
	if update.ZoomPassword != nil {
		add("zoom_password", *update.ZoomPassword)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, batchID)
	query := `UPDATE batches SET ` + strings.Join(setters, ", ") +
		` WHERE id = $` + itoa(len(args))

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteBatch(ctx context.Context, batchID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM batches WHERE id = $1`, batchID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
