package repository

import (
	"context"

	"seti/workshop/internal/model"
)

func (s *Store) BlacklistToken(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO blacklisted_tokens (token) VALUES ($1)`, token)
	return err
}

func (s *Store) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM blacklisted_tokens WHERE token = $1`, token)
}

func (s *Store) ListBlacklistedTokens(ctx context.Context) ([]model.BlacklistedToken, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, token, created_at FROM blacklisted_tokens`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.BlacklistedToken
	for rows.Next() {
		var entry model.BlacklistedToken
		if err := rows.Scan(&entry.ID, &entry.Token, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteBlacklistedToken(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM blacklisted_tokens WHERE id = $1`, id)
	return err
}
