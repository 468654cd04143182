package repository

import (
	"context"
	"strings"
	"time"

	"seti/workshop/internal/model"
)

const studentColumns = `
	student_id, first_name, last_name, email, phone, address, password,
	email_consent, profession, designation, gender, google_id,
	profile_completed, created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (model.Student, error) {
	var student model.Student
	err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Phone,
		&student.Address,
		&student.Password,
		&student.EmailConsent,
		&student.Profession,
		&student.Designation,
		&student.Gender,
		&student.GoogleID,
		&student.ProfileCompleted,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	return student, err
}

func (s *Store) GetStudentByID(ctx context.Context, studentID int64) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+studentColumns+` FROM students WHERE student_id = $1`, studentID)
	return scanStudent(row)
}

func (s *Store) GetStudentByEmail(ctx context.Context, email string) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+studentColumns+` FROM students WHERE email = $1`, email)
	return scanStudent(row)
}

func (s *Store) GetStudentByPhone(ctx context.Context, phone string) (model.Student, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+studentColumns+` FROM students WHERE phone = $1`, phone)
	return scanStudent(row)
}

type NewStudent struct {
	FirstName    string
	LastName     *string
	Email        string
	Phone        *string
	Address      *string
	Password     string
	EmailConsent bool
	Profession   *string
	Designation  *string
	Gender       *string
	GoogleID     *string
}

func (s *Store) CreateStudent(ctx context.Context, student NewStudent) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO students
			(first_name, last_name, email, phone, address, password,
			 email_consent, profession, designation, gender, google_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING student_id
	`,
		student.FirstName, student.LastName, student.Email, student.Phone,
		student.Address, student.Password, student.EmailConsent,
		student.Profession, student.Designation, student.Gender,
		student.GoogleID,
	).Scan(&id)
	return id, err
}

// StudentUpdate is the fixed allow-list of updatable student columns.
// Nil fields are left untouched.
type StudentUpdate struct {
	FirstName    *string
	LastName     *string
	Email        *string
	Phone        *string
	Address      *string
	EmailConsent *bool
	Profession   *string
	Designation  *string
	Gender       *string
}

func (u StudentUpdate) empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Email == nil &&
		u.Phone == nil && u.Address == nil && u.EmailConsent == nil &&
		u.Profession == nil && u.Designation == nil && u.Gender == nil
}

// UpdateStudent applies the non-nil fields, recomputes profile_completed,
// and returns the fresh row.
func (s *Store) UpdateStudent(ctx context.Context, studentID int64, update StudentUpdate) (model.Student, error) {
	if update.empty() {
		return model.Student{}, ErrNoFields
	}

	setters := make([]string, 0, 10)
	args := make([]any, 0, 11)
	add := func(column string, value any) {
		args = append(args, value)
		setters = append(setters, column+" = $"+itoa(len(args)))
	}
	if update.FirstName != nil {
		add("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		add("last_name", *update.LastName)
	}
	if update.Email != nil {
		add("email", *update.Email)
	}
	if update.Phone != nil {
		add("phone", *update.Phone)
	}
	if update.Address != nil {
		add("address", *update.Address)
	}
	if update.EmailConsent != nil {
		add("email_consent", *update.EmailConsent)
	}
	if update.Profession != nil {
		add("profession", *update.Profession)
	}
	if update.Designation != nil {
		add("designation", *update.Designation)
	}
	if update.Gender != nil {
		add("gender", *update.Gender)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, studentID)
	query := `UPDATE students SET ` + strings.Join(setters, ", ") +
		` WHERE student_id = $` + itoa(len(args)) + ` RETURNING` + studentColumns

	student, err := scanStudent(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Student{}, err
	}

	completed := student.LastName != nil && student.Phone != nil &&
		student.Address != nil && student.Profession != nil &&
		student.Designation != nil && student.Gender != nil
	if completed != student.ProfileCompleted {
		_, err = s.pool.Exec(ctx,
			`UPDATE students SET profile_completed = $1 WHERE student_id = $2`,
			completed, studentID)
		if err != nil {
			return model.Student{}, err
		}
		student.ProfileCompleted = completed
	}
	return student, nil
}

func (s *Store) UpdateStudentPassword(ctx context.Context, studentID int64, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE students SET password = $1, updated_at = now() WHERE student_id = $2`,
		passwordHash, studentID)
	return err
}

func (s *Store) UpdateStudentGoogleID(ctx context.Context, studentID int64, googleID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE students SET google_id = $1, updated_at = now() WHERE student_id = $2`,
		googleID, studentID)
	return err
}

func (s *Store) UpdateStudentNames(ctx context.Context, studentID int64, firstName string, lastName *string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE students SET first_name = $1, last_name = $2, updated_at = now() WHERE student_id = $3`,
		firstName, lastName, studentID)
	return err
}

func (s *Store) DeleteStudent(ctx context.Context, studentID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteIncompleteStudent removes the student only while their profile is
// still incomplete.
func (s *Store) DeleteIncompleteStudent(ctx context.Context, studentID int64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM students WHERE student_id = $1 AND NOT profile_completed`, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

const studentOverviewQuery = `
	SELECT
		s.student_id, s.first_name, s.last_name, s.email, s.phone, s.address,
		s.password, s.email_consent, s.profession, s.designation, s.gender,
		s.google_id, s.profile_completed, s.created_at, s.updated_at,
		se.enrollment_id, se.status, se.enrollment_date,
		b.id, b.batch_name, b.status,
		w.workshop_id, w.name
	FROM students s
	LEFT JOIN student_enrollments se ON s.student_id = se.student_id
	LEFT JOIN batches b ON se.batch_id = b.id
	LEFT JOIN workshops w ON se.workshop_id = w.workshop_id`

func scanStudentOverview(row interface{ Scan(...any) error }) (model.StudentOverview, error) {
	var overview model.StudentOverview
	err := row.Scan(
		&overview.ID,
		&overview.FirstName,
		&overview.LastName,
		&overview.Email,
		&overview.Phone,
		&overview.Address,
		&overview.Password,
		&overview.EmailConsent,
		&overview.Profession,
		&overview.Designation,
		&overview.Gender,
		&overview.GoogleID,
		&overview.ProfileCompleted,
		&overview.CreatedAt,
		&overview.UpdatedAt,
		&overview.EnrollmentID,
		&overview.EnrollmentStatus,
		&overview.EnrollmentDate,
		&overview.BatchID,
		&overview.BatchName,
		&overview.BatchStatus,
		&overview.WorkshopID,
		&overview.WorkshopName,
	)
	return overview, err
}

func (s *Store) ListStudentOverviews(ctx context.Context) ([]model.StudentOverview, error) {
	rows, err := s.pool.Query(ctx, studentOverviewQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []model.StudentOverview
	for rows.Next() {
		overview, err := scanStudentOverview(rows)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, overview)
	}
	return overviews, rows.Err()
}

func (s *Store) GetStudentOverview(ctx context.Context, studentID int64) (model.StudentOverview, error) {
	row := s.pool.QueryRow(ctx, studentOverviewQuery+` WHERE s.student_id = $1`, studentID)
	return scanStudentOverview(row)
}
