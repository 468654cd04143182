package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"seti/workshop/internal/model"
)

const clarityCallColumns = "id, student_id, mentor_name, call_status, scheduled_date, notes"

func scanClarityCall(row interface{ Scan(...any) error }) (model.ClarityCall, error) {
	var c model.ClarityCall
	err := row.Scan(&c.ID, &c.StudentID, &c.MentorName, &c.CallStatus, &c.ScheduledDate, &c.Notes)
	return c, err
}

type NewClarityCall struct {
	StudentID     int64
	MentorName    string
	CallStatus    string
	ScheduledDate time.Time
	Notes         *string
}

func (s *Store) CreateClarityCall(ctx context.Context, c NewClarityCall) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO clarity_calls (student_id, mentor_name, call_status, scheduled_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, c.StudentID, c.MentorName, c.CallStatus, c.ScheduledDate, c.Notes).Scan(&id)
	return id, err
}

func (s *Store) ListClarityCalls(ctx context.Context) ([]model.ClarityCall, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+clarityCallColumns+` FROM clarity_calls ORDER BY scheduled_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClarityCalls(rows)
}

func (s *Store) ListStudentClarityCalls(ctx context.Context, studentID int64) ([]model.ClarityCall, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+clarityCallColumns+` FROM clarity_calls WHERE student_id = $1 ORDER BY scheduled_date DESC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectClarityCalls(rows)
}

func collectClarityCalls(rows pgx.Rows) ([]model.ClarityCall, error) {
	var calls []model.ClarityCall
	for rows.Next() {
		c, err := scanClarityCall(rows)
		if err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// LatestClarityCallStatus returns the status of the student's most recently
// scheduled call, or ("", false, nil) when none exists.
func (s *Store) LatestClarityCallStatus(ctx context.Context, studentID int64) (string, bool, error) {
	var status string
	err := s.pool.QueryRow(ctx, `
		SELECT call_status FROM clarity_calls
		WHERE student_id = $1
		ORDER BY scheduled_date DESC
		LIMIT 1
	`, studentID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

type ClarityCallUpdate struct {
	MentorName    *string
	CallStatus    *string
	ScheduledDate *time.Time
	Notes         *string
}

func (u ClarityCallUpdate) empty() bool {
	return u.MentorName == nil && u.CallStatus == nil && u.ScheduledDate == nil && u.Notes == nil
}

func (s *Store) UpdateClarityCall(ctx context.Context, id int64, u ClarityCallUpdate) (model.ClarityCall, error) {
	if u.empty() {
		return model.ClarityCall{}, ErrNoFields
	}

	var setters []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		setters = append(setters, column+" = $"+itoa(len(args)))
	}
	if u.MentorName != nil {
		add("mentor_name", *u.MentorName)
	}
	if u.CallStatus != nil {
		add("call_status", *u.CallStatus)
	}
	if u.ScheduledDate != nil {
		add("scheduled_date", *u.ScheduledDate)
	}
	if u.Notes != nil {
		add("notes", *u.Notes)
	}

	args = append(args, id)
	query := `UPDATE clarity_calls SET ` + strings.Join(setters, ", ") +
		` WHERE id = $` + itoa(len(args)) + ` RETURNING ` + clarityCallColumns
	return scanClarityCall(s.pool.QueryRow(ctx, query, args...))
}

func (s *Store) DeleteClarityCall(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clarity_calls WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListClarityQuestions(ctx context.Context) ([]model.ClarityQuestion, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, question, options FROM clarity_questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.ClarityQuestion
	for rows.Next() {
		var q model.ClarityQuestion
		if err := rows.Scan(&q.ID, &q.Question, &q.Options); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) ClarityQuestionExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM clarity_questions WHERE id = $1`, id)
}

func (s *Store) SaveClarityResponse(ctx context.Context, studentID, questionID int64, answer string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO clarity_responses (student_id, question_id, answer)
		VALUES ($1, $2, $3)
	`, studentID, questionID, answer)
	return err
}

// ListClarityResponses returns the student's submitted answers joined with
// their question text.
func (s *Store) ListClarityResponses(ctx context.Context, studentID int64) ([]model.ClarityAnswer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.question, r.answer
		FROM clarity_responses r
		JOIN clarity_questions q ON r.question_id = q.id
		WHERE r.student_id = $1
		ORDER BY r.id
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.ClarityAnswer
	for rows.Next() {
		var a model.ClarityAnswer
		if err := rows.Scan(&a.Question, &a.Answer); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
