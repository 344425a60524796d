package users

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"sync"
	"testing"

	"github.com/erazemk/ponovno/internal/apperr"
	"github.com/erazemk/ponovno/internal/db"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
)

func setup(t *testing.T) (*Directory, *model.User, *model.Item) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, database, &model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatal(err)
	}
	item, err := store.CreateItem(ctx, database, &model.Item{
		Title: "Book", Category: "books", Condition: model.ConditionGood,
		TransactionType: model.TypeDonation, OwnerID: u.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	return &Directory{DB: database}, u, item
}

func TestToggleFavoriteInvolution(t *testing.T) {
	d, u, item := setup(t)
	ctx := context.Background()

	favs, err := d.ToggleFavorite(ctx, u.ID, item.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if len(favs) != 1 || favs[0].ID != item.ID {
		t.Fatalf("expected item in favorites, got %+v", favs)
	}
	if favs[0].Owner == nil {
		t.Error("expected populated owner")
	}

	favs, err = d.ToggleFavorite(ctx, u.ID, item.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	if len(favs) != 0 {
		t.Errorf("expected favorites to be empty after second toggle, got %d", len(favs))
	}
}

func TestToggleFavoriteMissingItem(t *testing.T) {
	d, u, _ := setup(t)

	if _, err := d.ToggleFavorite(context.Background(), u.ID, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestToggleFavoriteConcurrentNoDuplicates(t *testing.T) {
	d, u, item := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.ToggleFavorite(ctx, u.ID, item.ID)
		}()
	}
	wg.Wait()

	// Five toggles leave the item in, exactly once.
	favs, _ := d.Favorites(ctx, u.ID)
	if len(favs) != 1 {
		t.Errorf("expected exactly one favorite, got %d", len(favs))
	}
}

func TestProfileAndStats(t *testing.T) {
	d, u, item := setup(t)
	ctx := context.Background()

	d.ToggleFavorite(ctx, u.ID, item.ID)

	p, err := d.Profile(ctx, u.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if len(p.Favorites) != 1 {
		t.Errorf("expected 1 favorite in profile, got %d", len(p.Favorites))
	}

	stats, err := d.Stats(ctx, u.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalPublished != 1 || stats.TotalFavorites != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	own, _ := d.OwnItems(ctx, u.ID)
	if len(own) != 1 {
		t.Errorf("expected 1 own item, got %d", len(own))
	}
}

func TestUpdateProfile(t *testing.T) {
	d, u, _ := setup(t)
	ctx := context.Background()

	city := "Celje"
	updated, err := d.UpdateProfile(ctx, u.ID, ProfilePatch{City: &city})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.City != "Celje" || updated.Name != "Ana" {
		t.Errorf("unexpected profile: %+v", updated)
	}

	empty := " "
	if _, err := d.UpdateProfile(ctx, u.ID, ProfilePatch{Name: &empty}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := d.Get(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestPhoto(t *testing.T) {
	d, u, _ := setup(t)
	ctx := context.Background()

	if _, err := d.Photo(ctx, u.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected no photo yet, got %v", err)
	}

	var buf bytes.Buffer
	jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil)

	updated, err := d.SetPhoto(ctx, u.ID, &buf)
	if err != nil {
		t.Fatalf("SetPhoto: %v", err)
	}
	if updated.Photo == "" {
		t.Error("expected photo reference")
	}

	photo, err := d.Photo(ctx, u.ID)
	if err != nil {
		t.Fatalf("Photo: %v", err)
	}
	if len(photo.Data) == 0 {
		t.Error("expected photo data")
	}
}
