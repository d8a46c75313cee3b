package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SqliteLedger commits stock against the catalog's products table. All
// line decrements run inside one transaction; the first shortfall rolls
// everything back.
type SqliteLedger struct {
	db *sql.DB
}

func NewSqliteLedger(db *sql.DB) *SqliteLedger {
	return &SqliteLedger{db: db}
}

func (l *SqliteLedger) Commit(ctx context.Context, lines []Line) (err error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stock transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, line := range lines {
		// Guarded decrement: matches zero rows when stock is short, so
		// the quantity can never go negative.
		res, execErr := tx.ExecContext(ctx,
			`UPDATE products SET stock_quantity = stock_quantity - ?
			 WHERE id = ? AND stock_quantity >= ?`,
			line.Quantity, line.ProductID, line.Quantity)
		if execErr != nil {
			err = fmt.Errorf("decrement stock for product %d: %w", line.ProductID, execErr)
			return err
		}

		affected, raErr := res.RowsAffected()
		if raErr != nil {
			err = fmt.Errorf("rows affected for product %d: %w", line.ProductID, raErr)
			return err
		}
		if affected == 0 {
			err = l.shortfall(ctx, tx, line.ProductID)
			return err
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		err = fmt.Errorf("commit stock transaction: %w", commitErr)
		return err
	}
	return nil
}

// shortfall distinguishes a missing product from one that is simply out of
// units, reading inside the same transaction.
func (l *SqliteLedger) shortfall(ctx context.Context, tx *sql.Tx, productID int64) error {
	var name string
	var available int
	row := tx.QueryRowContext(ctx,
		`SELECT name, stock_quantity FROM products WHERE id = ?`, productID)
	if scanErr := row.Scan(&name, &available); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("read shortfall for product %d: %w", productID, scanErr)
	}
	return &InsufficientStockError{
		ProductID: productID,
		Name:      name,
		Available: available,
	}
}
