package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/ponovno/internal/model"
)

const transactionColumns = `id, item_id, requester_id, owner_id, message, offered_price, proposed_item_id,
	contact_email, status, note, created_at, updated_at`

// CreateTransaction inserts a pending transaction.
func CreateTransaction(ctx context.Context, db *sql.DB, t *model.Transaction) (*model.Transaction, error) {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO transactions (item_id, requester_id, owner_id, message, offered_price,
		                           proposed_item_id, contact_email, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ItemID, t.RequesterID, t.OwnerID, t.Message, t.OfferedPrice,
		t.ProposedItemID, nullString(t.ContactEmail), model.StatusPending, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting transaction id: %w", err)
	}

	return GetTransaction(ctx, db, id)
}

// GetTransaction returns a transaction by ID, or nil.
func GetTransaction(ctx context.Context, db *sql.DB, id int64) (*model.Transaction, error) {
	t, err := scanTransaction(db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return t, nil
}

// transactionWhere restricts a listing to transactions actorID takes part in,
// narrowed by the filter.
func transactionWhere(actorID int64, f model.TransactionFilter) (string, []any) {
	var where []string
	var args []any

	switch f.Direction {
	case model.DirectionIncoming:
		where = append(where, "owner_id = ?")
		args = append(args, actorID)
	case model.DirectionOutgoing:
		where = append(where, "requester_id = ?")
		args = append(args, actorID)
	default:
		where = append(where, "(requester_id = ? OR owner_id = ?)")
		args = append(args, actorID, actorID)
	}

	if f.ItemID != 0 {
		where = append(where, "item_id = ?")
		args = append(args, f.ItemID)
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}

	return " WHERE " + strings.Join(where, " AND "), args
}

// ListTransactions returns one page of actorID's transactions, newest first.
func ListTransactions(ctx context.Context, db *sql.DB, actorID int64, f model.TransactionFilter) ([]model.Transaction, error) {
	where, args := transactionWhere(actorID, f)
	args = append(args, f.Limit, offset(f.Page, f.Limit))

	rows, err := db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var list []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// CountTransactions counts actorID's transactions matching the filter,
// ignoring paging.
func CountTransactions(ctx context.Context, db *sql.DB, actorID int64, f model.TransactionFilter) (int, error) {
	where, args := transactionWhere(actorID, f)

	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting transactions: %w", err)
	}
	return count, nil
}

// UpdateTransactionStatus sets a transaction's status. A nil note leaves the
// stored note unchanged.
func UpdateTransactionStatus(ctx context.Context, db *sql.DB, id int64, status string, note *string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE transactions SET status = ?, note = COALESCE(?, note), updated_at = ? WHERE id = ?`,
		status, note, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating transaction status: %w", err)
	}
	return nil
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	t := &model.Transaction{}
	var offered sql.NullFloat64
	var proposed sql.NullInt64
	var contact, note sql.NullString
	if err := row.Scan(&t.ID, &t.ItemID, &t.RequesterID, &t.OwnerID, &t.Message, &offered, &proposed,
		&contact, &t.Status, &note, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if offered.Valid {
		t.OfferedPrice = &offered.Float64
	}
	if proposed.Valid {
		t.ProposedItemID = &proposed.Int64
	}
	t.ContactEmail = contact.String
	t.Note = note.String
	return t, nil
}
