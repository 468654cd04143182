package repository

import (
	"context"
	"strings"
	"time"

	"seti/workshop/internal/model"
)

const quoteColumns = "id, quote, author, category, color, featured, created_at, updated_at"

func scanQuote(row interface{ Scan(...any) error }) (model.Quote, error) {
	var q model.Quote
	err := row.Scan(&q.ID, &q.Quote, &q.Author, &q.Category, &q.Color, &q.Featured, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

type NewQuote struct {
	Quote    string
	Author   *string
	Category string
	Color    *string
	Featured bool
}

func (s *Store) CreateQuote(ctx context.Context, q NewQuote) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO quotes (quote, author, category, color, featured)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, q.Quote, q.Author, q.Category, q.Color, q.Featured).Scan(&id)
	return id, err
}

func (s *Store) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+quoteColumns+` FROM quotes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []model.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// ListFeaturedQuotes returns the quotes surfaced on the student dashboard.
func (s *Store) ListFeaturedQuotes(ctx context.Context) ([]model.Quote, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE featured ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []model.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (s *Store) GetQuote(ctx context.Context, id int64) (model.Quote, error) {
	return scanQuote(s.pool.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
}

type QuoteUpdate struct {
	Quote    *string
	Author   *string
	Category *string
	Color    *string
	Featured *bool
}

func (u QuoteUpdate) empty() bool {
	return u.Quote == nil && u.Author == nil && u.Category == nil && u.Color == nil && u.Featured == nil
}

func (s *Store) UpdateQuote(ctx context.Context, id int64, u QuoteUpdate) (model.Quote, error) {
	if u.empty() {
		return model.Quote{}, ErrNoFields
	}

	var setters []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		setters = append(setters, column+" = $"+itoa(len(args)))
	}
	if u.Quote != nil {
		add("quote", *u.Quote)
	}
	if u.Author != nil {
		add("author", *u.Author)
	}
	if u.Category != nil {
		add("category", *u.Category)
	}
	if u.Color != nil {
		add("color", *u.Color)
	}
	if u.Featured != nil {
		add("featured", *u.Featured)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := `UPDATE quotes SET ` + strings.Join(setters, ", ") + ` WHERE id = $` + itoa(len(args)) +
		` RETURNING ` + quoteColumns
	return scanQuote(s.pool.QueryRow(ctx, query, args...))
}

func (s *Store) DeleteQuote(ctx context.Context, id int64) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
