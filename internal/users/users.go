// Package users owns user profiles and the favorites relation.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/erazemk/ponovno/internal/apperr"
	"github.com/erazemk/ponovno/internal/imaging"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
)

// Directory manages users and their favorites.
type Directory struct {
	DB     *sql.DB
	Images imaging.Processor
}

// ProfilePatch holds profile fields to change. Nil fields are left unchanged.
type ProfilePatch struct {
	Name *string `json:"name"`
	City *string `json:"city"`
}

// Get returns a user by ID.
func (d *Directory) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := store.GetUser(ctx, d.DB, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound("user")
	}
	return u, nil
}

// Profile returns a user with their favorites populated.
func (d *Directory) Profile(ctx context.Context, id int64) (*model.User, error) {
	u, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Favorites, err = d.Favorites(ctx, id); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes a user's name and city.
func (d *Directory) UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (*model.User, error) {
	u, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
		if u.Name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
	}
	if patch.City != nil {
		u.City = strings.TrimSpace(*patch.City)
	}

	if err := store.UpdateUserProfile(ctx, d.DB, id, u.Name, u.City); err != nil {
		return nil, err
	}

	slog.Info("profile updated", "user_id", id)
	return d.Get(ctx, id)
}

// SetPhoto replaces a user's profile photo.
func (d *Directory) SetPhoto(ctx context.Context, id int64, r io.Reader) (*model.User, error) {
	if _, err := d.Get(ctx, id); err != nil {
		return nil, err
	}

	img, err := d.Images.Process(r)
	if errors.Is(err, imaging.ErrInvalidImage) {
		return nil, apperr.Validation(err.Error())
	}
	if err != nil {
		return nil, err
	}

	ref := fmt.Sprintf("/api/users/%d/photo", id)
	if err := store.SetUserPhoto(ctx, d.DB, id, img.Data, img.MIME, ref); err != nil {
		return nil, err
	}

	slog.Info("profile photo uploaded", "user_id", id, "bytes", len(img.Data))
	return d.Get(ctx, id)
}

// Photo returns a user's uploaded profile photo.
func (d *Directory) Photo(ctx context.Context, id int64) (*imaging.Image, error) {
	data, mime, err := store.GetUserPhoto(ctx, d.DB, id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, apperr.NotFound("photo")
	}
	return &imaging.Image{Data: data, MIME: mime}, nil
}

// OwnItems returns every item a user has published, including inactive ones.
func (d *Directory) OwnItems(ctx context.Context, id int64) ([]model.Item, error) {
	items, err := store.ListItemsByOwner(ctx, d.DB, id)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// Stats summarizes a user's published items and favorites.
func (d *Directory) Stats(ctx context.Context, id int64) (*model.UserStats, error) {
	published, err := store.CountItemsByOwner(ctx, d.DB, id)
	if err != nil {
		return nil, err
	}
	favorites, err := store.CountFavorites(ctx, d.DB, id)
	if err != nil {
		return nil, err
	}
	return &model.UserStats{TotalPublished: published, TotalFavorites: favorites}, nil
}

// ToggleFavorite adds itemID to the user's favorites, or removes it if it is
// already there, and returns the resulting favorites.
func (d *Directory) ToggleFavorite(ctx context.Context, userID, itemID int64) ([]model.Item, error) {
	item, err := store.GetItem(ctx, d.DB, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item")
	}

	added, err := store.ToggleFavorite(ctx, d.DB, userID, itemID)
	if err != nil {
		return nil, err
	}

	slog.Info("favorite toggled", "user_id", userID, "item_id", itemID, "added", added)
	return d.Favorites(ctx, userID)
}

// Favorites returns a user's favorite items, most recent first.
func (d *Directory) Favorites(ctx context.Context, userID int64) ([]model.Item, error) {
	items, err := store.ListFavorites(ctx, d.DB, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}
