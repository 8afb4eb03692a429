package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/store"
)

// CreateAdminUser inserts a new admin account.
// Returns store.ErrAlreadyExists if the username is taken.
func (s *Store) CreateAdminUser(ctx context.Context, u *domain.AdminUser) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_users (id, created_at, updated_at, username, password_hash)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
		u.Username,
		u.PasswordHash,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetAdminUserByUsername retrieves an admin account by username.
// Returns store.ErrNotFound if no such account exists.
func (s *Store) GetAdminUserByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, updated_at, username, password_hash
		FROM admin_users
		WHERE username = ?`, username)

	var (
		u         domain.AdminUser
		createdAt string
		updatedAt string
	)
	err := row.Scan(&u.ID, &createdAt, &updatedAt, &u.Username, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CountAdminUsers returns the number of admin accounts.
func (s *Store) CountAdminUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
