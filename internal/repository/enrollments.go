package repository

import (
	"context"

	"seti/workshop/internal/model"
)

func (s *Store) IsEnrolled(ctx context.Context, studentID, workshopID, batchID int64) (bool, error) {
	return s.exists(ctx, `
		SELECT 1 FROM student_enrollments
		WHERE student_id = $1 AND workshop_id = $2 AND batch_id = $3
	`, studentID, workshopID, batchID)
}

func (s *Store) CreateEnrollment(ctx context.Context, studentID, workshopID, batchID int64, status string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO student_enrollments (student_id, workshop_id, batch_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING enrollment_id
	`, studentID, workshopID, batchID, status).Scan(&id)
	return id, err
}

func (s *Store) ListStudentEnrollments(ctx context.Context, studentID int64) ([]model.EnrollmentView, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT w.name, b.batch_name, se.status, se.enrollment_date
		FROM student_enrollments se
		JOIN workshops w ON se.workshop_id = w.workshop_id
		JOIN batches b ON se.batch_id = b.id
		WHERE se.student_id = $1
		ORDER BY se.enrollment_date DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.EnrollmentView
	for rows.Next() {
		var enrollment model.EnrollmentView
		if err := rows.Scan(
			&enrollment.WorkshopName,
			&enrollment.BatchName,
			&enrollment.Status,
			&enrollment.EnrollmentDate,
		); err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}
	return enrollments, rows.Err()
}
