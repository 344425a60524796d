package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/ponovno/internal/model"
)

const userColumns = `id, name, email, password_hash, city, photo, created_at, updated_at`

// CreateUser inserts a user. Email must already be case-folded.
func CreateUser(ctx context.Context, db *sql.DB, u *model.User) (*model.User, error) {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, city, photo, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, nullString(u.City), nullString(u.Photo), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if it does not exist.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by case-folded email, or nil.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// UpdateUserProfile updates a user's name and city.
func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, name, city string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET name = ?, city = ?, updated_at = ? WHERE id = ?`,
		name, nullString(city), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// SetUserPhoto stores an uploaded profile photo and points the photo
// reference at ref.
func SetUserPhoto(ctx context.Context, db *sql.DB, id int64, data []byte, mime, ref string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET photo_data = ?, photo_mime = ?, photo = ?, updated_at = ? WHERE id = ?`,
		data, mime, ref, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("setting user photo: %w", err)
	}
	return nil
}

// GetUserPhoto returns an uploaded profile photo and its MIME type.
func GetUserPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo_data, photo_mime FROM users WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting user photo: %w", err)
	}
	return data, mime.String, nil
}

func scanUser(row scanner) (*model.User, error) {
	u := &model.User{}
	var city, photo sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &city, &photo, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.City = city.String
	u.Photo = photo.String
	return u, nil
}
