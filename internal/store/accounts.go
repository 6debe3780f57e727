package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nativesins/shop-api/internal/models"
)

// AccountStore owns the 'users' table.
type AccountStore struct {
	DB *sql.DB
}

// CreateUser registers a new account. The plaintext password is bcrypt
// hashed before it touches the database; only the hash is ever stored.
// A colliding email address fails with ErrDuplicateIdentity.
func (s *AccountStore) CreateUser(ctx context.Context, firstName, lastName, email, plaintext, role string) (*models.User, error) {
	var password models.Password
	if err := password.Set(plaintext); err != nil {
		return nil, err
	}

	var existingID int64
	err := s.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	if err == nil {
		return nil, ErrDuplicateIdentity
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: password.Hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail fetches a user by email address.
func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.DB.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, role, created_at, updated_at
		FROM users WHERE email = ?`, email))
}

// GetByID fetches a user by primary key.
func (s *AccountStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.DB.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash, role, created_at, updated_at
		FROM users WHERE id = ?`, id))
}

// EditDetails rewrites the user's name and email. Moving to an email that
// belongs to a *different* existing user fails with ErrDuplicateIdentity.
func (s *AccountStore) EditDetails(ctx context.Context, userID int64, firstName, lastName, email string) error {
	var existingID int64
	err := s.DB.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ? AND id <> ?", email, userID).Scan(&existingID)
	if err == nil {
		return ErrDuplicateIdentity
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	result, err := s.DB.ExecContext(ctx, `
		UPDATE users SET first_name = ?, last_name = ?, email = ?, updated_at = ?
		WHERE id = ?`,
		firstName, lastName, email, time.Now(), userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetPassword unconditionally rehashes and stores the new password.
func (s *AccountStore) ResetPassword(ctx context.Context, userID int64, plaintext string) error {
	var password models.Password
	if err := password.Set(plaintext); err != nil {
		return err
	}

	result, err := s.DB.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		password.Hash, time.Now(), userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
