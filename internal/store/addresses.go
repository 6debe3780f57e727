package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nativesins/shop-api/internal/models"
)

// AddressBook owns the 'addresses' table. Every lookup is scoped to the
// owning user, so another user's address id simply reads as ErrNotFound.
type AddressBook struct {
	DB *sql.DB
}

// AddAddress stores a new address for the user. The user's first address
// becomes their default; later ones start non-default until chosen.
func (b *AddressBook) AddAddress(ctx context.Context, userID int64, line1, line2, town, city, postcode string) (*models.Address, error) {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM addresses WHERE user_id = ?", userID).Scan(&count); err != nil {
		return nil, err
	}

	address := &models.Address{
		UserID:    userID,
		Line1:     line1,
		Line2:     line2,
		Town:      town,
		City:      city,
		Postcode:  postcode,
		IsDefault: count == 0,
		CreatedAt: time.Now(),
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO addresses (user_id, line1, line2, town, city, postcode, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		address.UserID, address.Line1, address.Line2, address.Town, address.City,
		address.Postcode, address.IsDefault, address.CreatedAt)
	if err != nil {
		return nil, err
	}
	address.ID, err = result.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return address, nil
}

// ListAddresses returns all of the user's addresses, newest first.
func (b *AddressBook) ListAddresses(ctx context.Context, userID int64) ([]models.Address, error) {
	rows, err := b.DB.QueryContext(ctx, `
		SELECT id, user_id, line1, line2, town, city, postcode, is_default, created_at
		FROM addresses WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.Town, &a.City, &a.Postcode, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// GetAddress fetches one of the user's addresses by id.
func (b *AddressBook) GetAddress(ctx context.Context, userID, addressID int64) (*models.Address, error) {
	return scanAddress(b.DB.QueryRowContext(ctx, `
		SELECT id, user_id, line1, line2, town, city, postcode, is_default, created_at
		FROM addresses WHERE id = ? AND user_id = ?`, addressID, userID))
}

// GetDefault returns the user's default address, or ErrNotFound when no
// address is marked default.
func (b *AddressBook) GetDefault(ctx context.Context, userID int64) (*models.Address, error) {
	return scanAddress(b.DB.QueryRowContext(ctx, `
		SELECT id, user_id, line1, line2, town, city, postcode, is_default, created_at
		FROM addresses WHERE user_id = ? AND is_default = ?`, userID, true))
}

// ChangeDefault makes the given address the user's default. The old default
// is cleared and the new one set inside a single transaction so the
// "at most one default per user" invariant cannot be half-applied.
func (b *AddressBook) ChangeDefault(ctx context.Context, userID, addressID int64) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var targetID int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM addresses WHERE id = ? AND user_id = ?", addressID, userID).Scan(&targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE addresses SET is_default = ? WHERE user_id = ? AND is_default = ?",
		false, userID, true); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE addresses SET is_default = ? WHERE id = ?",
		true, targetID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteAddress removes one of the user's addresses. If it was the default,
// the most-recently-created remaining address of the *same user* becomes
// the new default.
func (b *AddressBook) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var wasDefault bool
	err = tx.QueryRowContext(ctx,
		"SELECT is_default FROM addresses WHERE id = ? AND user_id = ?",
		addressID, userID).Scan(&wasDefault)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM addresses WHERE id = ?", addressID); err != nil {
		return err
	}

	if wasDefault {
		var nextID int64
		err = tx.QueryRowContext(ctx, `
			SELECT id FROM addresses WHERE user_id = ?
			ORDER BY created_at DESC, id DESC LIMIT 1`, userID).Scan(&nextID)
		switch {
		case err == nil:
			if _, err := tx.ExecContext(ctx, "UPDATE addresses SET is_default = ? WHERE id = ?", true, nextID); err != nil {
				return err
			}
		case errors.Is(err, sql.ErrNoRows):
			// Last address deleted, nothing to re-point.
		default:
			return err
		}
	}
	return tx.Commit()
}

func scanAddress(row *sql.Row) (*models.Address, error) {
	var a models.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.Town, &a.City, &a.Postcode, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
