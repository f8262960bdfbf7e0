package store

import (
	"context"
	"database/sql"
	"fmt"

	"findr/internal/model"
)

// CreateAdmin inserts an admin account with a pre-hashed password.
func (s *SQLite) CreateAdmin(ctx context.Context, username, passwordHash string) (*model.Admin, error) {
	result, err := s.DB.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting admin id: %w", err)
	}

	admin := &model.Admin{}
	err = s.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE id = ?`, id,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting admin: %w", err)
	}
	return admin, nil
}

// GetAdminByUsername returns an admin account by username.
func (s *SQLite) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	admin := &model.Admin{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin: %w", err)
	}
	return admin, nil
}
