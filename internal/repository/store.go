package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoFields is returned by the allow-list update methods when every
// field of the update struct is nil.
var ErrNoFields = errors.New("no fields to update")

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (`+query+`)`, args...).Scan(&exists)
	return exists, err
}
