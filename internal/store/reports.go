package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/ponovno/internal/model"
)

// CreateReport records a moderation report against an item.
func CreateReport(ctx context.Context, db *sql.DB, r *model.Report) (*model.Report, error) {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO reports (item_id, reporter_email, reason, created_at) VALUES (?, ?, ?, ?)`,
		r.ItemID, r.ReporterEmail, r.Reason, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report id: %w", err)
	}

	return &model.Report{
		ID:            id,
		ItemID:        r.ItemID,
		ReporterEmail: r.ReporterEmail,
		Reason:        r.Reason,
		CreatedAt:     now,
	}, nil
}

// CountReports counts the reports filed against an item.
func CountReports(ctx context.Context, db *sql.DB, itemID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE item_id = ?`, itemID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting reports: %w", err)
	}
	return count, nil
}
