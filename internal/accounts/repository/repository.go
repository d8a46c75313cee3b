package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrAddressNotFound = errors.New("address not found")

// Address is one delivery address on a user's book.
type Address struct {
	ID         int64
	UserID     string
	Line1      string
	City       string
	PostalCode string
	IsDefault  bool
}

// Repository is the address-book collaborator the checkout consults. It
// shares the storefront's sqlite database.
type Repository struct {
	db *sql.DB
}

type RepoInterface interface {
	HasAddress(ctx context.Context, userID string) (bool, error)
	ListAddresses(ctx context.Context, userID string) ([]Address, error)
	AddAddress(ctx context.Context, addr Address) (int64, error)
	SetDefault(ctx context.Context, userID string, addressID int64) error
	Delete(ctx context.Context, userID string, addressID int64) error
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// HasAddress is the checkout precondition: at least one saved address.
func (r *Repository) HasAddress(ctx context.Context, userID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM addresses WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count addresses: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ListAddresses(ctx context.Context, userID string) ([]Address, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, line1, city, postal_code, is_default
		 FROM addresses WHERE user_id = ?
		 ORDER BY is_default DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	var addrs []Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Line1, &a.City, &a.PostalCode, &a.IsDefault); err != nil {
			return nil, fmt.Errorf("scan address: %w", err)
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

func (r *Repository) AddAddress(ctx context.Context, addr Address) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO addresses (user_id, line1, city, postal_code, is_default)
		 VALUES (?, ?, ?, ?, ?)`,
		addr.UserID, addr.Line1, addr.City, addr.PostalCode, addr.IsDefault)
	if err != nil {
		return 0, fmt.Errorf("insert address: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// SetDefault marks one address default and demotes the rest, in one
// transaction.
func (r *Repository) SetDefault(ctx context.Context, userID string, addressID int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set-default: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE addresses SET is_default = 1 WHERE id = ? AND user_id = ?`,
		addressID, userID)
	if err != nil {
		return fmt.Errorf("promote address: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		err = ErrAddressNotFound
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE addresses SET is_default = 0 WHERE user_id = ? AND id != ?`,
		userID, addressID); err != nil {
		return fmt.Errorf("demote addresses: %w", err)
	}

	return tx.Commit()
}

func (r *Repository) Delete(ctx context.Context, userID string, addressID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM addresses WHERE id = ? AND user_id = ?`, addressID, userID)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}
