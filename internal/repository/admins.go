package repository

import (
	"context"

	"seti/workshop/internal/model"
)

const adminColumns = ` admin_id, first_name, last_name, email, password, created_at, updated_at`

func scanAdmin(row interface{ Scan(...any) error }) (model.Admin, error) {
	var admin model.Admin
	err := row.Scan(
		&admin.ID,
		&admin.FirstName,
		&admin.LastName,
		&admin.Email,
		&admin.Password,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	return admin, err
}

func (s *Store) GetAdminByID(ctx context.Context, adminID int64) (model.Admin, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+adminColumns+` FROM admins WHERE admin_id = $1`, adminID)
	return scanAdmin(row)
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (model.Admin, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+adminColumns+` FROM admins WHERE email = $1`, email)
	return scanAdmin(row)
}

func (s *Store) CreateAdmin(ctx context.Context, firstName string, lastName *string, email, passwordHash string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO admins (first_name, last_name, email, password)
		VALUES ($1, $2, $3, $4)
		RETURNING admin_id
	`, firstName, lastName, email, passwordHash).Scan(&id)
	return id, err
}

func (s *Store) UpdateAdminPassword(ctx context.Context, adminID int64, passwordHash string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE admins SET password = $1, updated_at = now() WHERE admin_id = $2`,
		passwordHash, adminID)
	return err
}
