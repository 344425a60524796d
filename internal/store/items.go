package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/ponovno/internal/model"
)

const itemColumns = `i.id, i.title, i.description, i.category, i.condition, i.transaction_type,
	i.price, i.location, i.image, i.owner_id, i.active, i.created_at, i.updated_at,
	u.id, u.name, u.email, u.city, u.photo`

const itemFrom = ` FROM items i JOIN users u ON u.id = i.owner_id`

// CreateItem inserts an active item.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, title_folded, description, category, condition, transaction_type,
		                    price, location, image, owner_id, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		item.Title, fold(item.Title), item.Description, item.Category, item.Condition, item.TransactionType, item.Price,
		nullString(item.Location), nullString(item.Image), item.OwnerID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID regardless of its active flag, or nil.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// itemWhere builds the WHERE clause shared by ListItems and CountItems.
func itemWhere(f model.ItemFilter) (string, []any) {
	where := []string{"i.active = 1"}
	var args []any

	if f.Query != "" {
		where = append(where, `i.title_folded LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(f.Query))
	}
	if f.Category != "" {
		where = append(where, "i.category = ?")
		args = append(args, f.Category)
	}
	if f.TransactionType != "" {
		where = append(where, "i.transaction_type = ?")
		args = append(args, f.TransactionType)
	}

	return " WHERE " + strings.Join(where, " AND "), args
}

// ListItems returns one page of active items matching the filter.
func ListItems(ctx context.Context, db *sql.DB, f model.ItemFilter) ([]model.Item, error) {
	where, args := itemWhere(f)

	order := ` ORDER BY i.created_at DESC, i.id DESC`
	if f.Sort == model.SortOldest {
		order = ` ORDER BY i.created_at ASC, i.id ASC`
	}

	args = append(args, f.Limit, offset(f.Page, f.Limit))
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+itemFrom+where+order+` LIMIT ? OFFSET ?`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CountItems counts all active items matching the filter, ignoring paging.
func CountItems(ctx context.Context, db *sql.DB, f model.ItemFilter) (int, error) {
	where, args := itemWhere(f)

	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items i`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// ListItemsByOwner returns every item of an owner, active or not, newest first.
func ListItemsByOwner(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.owner_id = ? ORDER BY i.created_at DESC, i.id DESC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing owner items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CountItemsByOwner counts every item an owner has published.
func CountItemsByOwner(ctx context.Context, db *sql.DB, ownerID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE owner_id = ?`, ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting owner items: %w", err)
	}
	return count, nil
}

// UpdateItem writes an item's mutable fields. Owner and active flag are not
// touched.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, title_folded = ?, description = ?, category = ?, condition = ?,
		        transaction_type = ?, price = ?, location = ?, updated_at = ?
		 WHERE id = ?`,
		item.Title, fold(item.Title), item.Description, item.Category, item.Condition,
		item.TransactionType, item.Price, nullString(item.Location), time.Now().UTC(), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// FoldItemTitles fills in the search column of items stored before it
// existed and returns how many were updated.
func FoldItemTitles(ctx context.Context, db *sql.DB) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, title FROM items WHERE title_folded = ''`)
	if err != nil {
		return 0, fmt.Errorf("listing unfolded titles: %w", err)
	}
	titles := map[int64]string{}
	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning title: %w", err)
		}
		titles[id] = title
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("listing unfolded titles: %w", err)
	}

	for id, title := range titles {
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET title_folded = ? WHERE id = ?`, fold(title), id,
		); err != nil {
			return 0, fmt.Errorf("folding title: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return len(titles), nil
}

// DeactivateItem soft-deletes an item. Deactivating an inactive item is a
// no-op.
func DeactivateItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET active = 0, updated_at = ? WHERE id = ? AND active = 1`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("deactivating item: %w", err)
	}
	return nil
}

// SetItemImage stores an item's image data and points the image reference at
// ref.
func SetItemImage(ctx context.Context, db *sql.DB, id int64, data []byte, mime, ref string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET image_data = ?, image_mime = ?, image = ?, updated_at = ? WHERE id = ?`,
		data, mime, ref, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image_data, image_mime FROM items WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return data, mime.String, nil
}

// CategoryCount is the number of active items in one category.
type CategoryCount struct {
	Category string
	Count    int
}

// CountActiveByCategory groups active items by category.
func CountActiveByCategory(ctx context.Context, db *sql.DB) ([]CategoryCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM items WHERE active = 1 GROUP BY category ORDER BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting items by category: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	owner := &model.PublicUser{}
	var location, image, city, photo sql.NullString
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Category, &item.Condition,
		&item.TransactionType, &item.Price, &location, &image, &item.OwnerID, &item.Active,
		&item.CreatedAt, &item.UpdatedAt,
		&owner.ID, &owner.Name, &owner.Email, &city, &photo); err != nil {
		return nil, err
	}
	item.Location = location.String
	item.Image = image.String
	owner.City = city.String
	owner.Photo = photo.String
	item.Owner = owner
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
