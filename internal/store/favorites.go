package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/ponovno/internal/model"
)

// ToggleFavorite flips whether itemID is in userID's favorites and reports
// whether it was added. Both steps run in one transaction so concurrent
// toggles by the same user serialize.
func ToggleFavorite(ctx context.Context, db *sql.DB, userID, itemID int64) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND item_id = ?`, userID, itemID,
	)
	if err != nil {
		return false, fmt.Errorf("removing favorite: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking removed favorite: %w", err)
	}

	added := removed == 0
	if added {
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO favorites (user_id, item_id, created_at) VALUES (?, ?, ?)`,
			userID, itemID, time.Now().UTC(),
		)
		if err != nil {
			return false, fmt.Errorf("adding favorite: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing favorite toggle: %w", err)
	}
	return added, nil
}

// ListFavorites returns a user's favorite items, most recently favorited
// first. Inactive items are included.
func ListFavorites(ctx context.Context, db *sql.DB, userID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+itemFrom+`
		 JOIN favorites f ON f.item_id = i.id
		 WHERE f.user_id = ?
		 ORDER BY f.created_at DESC, f.rowid DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CountFavorites counts a user's favorites.
func CountFavorites(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting favorites: %w", err)
	}
	return count, nil
}
