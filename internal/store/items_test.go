package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/ponovno/internal/db"
	"github.com/erazemk/ponovno/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "owner@example.com")
	item, err := CreateItem(ctx, database, &model.Item{
		Title:           "Jacket",
		Description:     "Warm",
		Category:        "clothing",
		Condition:       model.ConditionUsed,
		TransactionType: model.TypeSale,
		Price:           12.5,
		Location:        "Koper",
		OwnerID:         owner.ID,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if !item.Active {
		t.Error("expected new item to be active")
	}
	if item.Price != 12.5 {
		t.Errorf("expected price 12.5, got %v", item.Price)
	}
	if item.Owner == nil || item.Owner.Email != "owner@example.com" {
		t.Errorf("expected owner projection, got %+v", item.Owner)
	}

	missing, err := GetItem(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	mustItem(t, database, owner.ID, "Red Chair", "furniture", model.TypeDonation)
	mustItem(t, database, owner.ID, "Blue chair", "furniture", model.TypeSale)
	mustItem(t, database, owner.ID, "Novel", "books", model.TypeExchange)
	gone := mustItem(t, database, owner.ID, "Old chair", "furniture", model.TypeDonation)
	if err := DeactivateItem(ctx, database, gone.ID); err != nil {
		t.Fatalf("DeactivateItem: %v", err)
	}

	tests := []struct {
		name   string
		filter model.ItemFilter
		want   int
	}{
		{"all active", model.ItemFilter{}, 3},
		{"query is case-insensitive", model.ItemFilter{Query: "CHAIR"}, 2},
		{"category", model.ItemFilter{Category: "books"}, 1},
		{"type", model.ItemFilter{TransactionType: model.TypeDonation}, 1},
		{"combined", model.ItemFilter{Query: "chair", TransactionType: model.TypeSale}, 1},
		{"wildcards are literal", model.ItemFilter{Query: "%"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Page = 1
			tt.filter.Limit = 20

			items, err := ListItems(ctx, database, tt.filter)
			if err != nil {
				t.Fatalf("ListItems: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, len(items))
			}

			total, err := CountItems(ctx, database, tt.filter)
			if err != nil {
				t.Fatalf("CountItems: %v", err)
			}
			if total != tt.want {
				t.Errorf("expected total %d, got %d", tt.want, total)
			}
		})
	}
}

func TestListItemsQueryFoldsCase(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	mustItem(t, database, owner.ID, "ÁLBUM de fotos", "other", model.TypeDonation)
	mustItem(t, database, owner.ID, "Televisor Электроника", "electronics", model.TypeSale)
	mustItem(t, database, owner.ID, "Bicycle", "other", model.TypeSale)

	tests := []struct {
		query string
		want  int
	}{
		{"ÁLBUM", 1},
		{"álbum", 1},
		{"ÁLbum", 1},
		{"lbum de", 1},
		{"электроника", 1},
		{"ЭЛЕКТРОНИКА", 1},
		{"BiCy", 1},
		{"album", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := model.ItemFilter{Query: tt.query, Page: 1, Limit: 20}
			items, err := ListItems(ctx, database, f)
			if err != nil {
				t.Fatalf("ListItems: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("expected %d items, got %d", tt.want, len(items))
			}
			total, err := CountItems(ctx, database, f)
			if err != nil {
				t.Fatalf("CountItems: %v", err)
			}
			if total != tt.want {
				t.Errorf("expected total %d, got %d", tt.want, total)
			}
		})
	}
}

func TestUpdateItemRefoldsTitle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	item := mustItem(t, database, owner.ID, "Lamp", "furniture", model.TypeDonation)
	item.Title = "ŠKATLA"
	if err := UpdateItem(ctx, database, item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	found, err := ListItems(ctx, database, model.ItemFilter{Query: "škatla", Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("expected the renamed item, got %d items", len(found))
	}

	stale, err := ListItems(ctx, database, model.ItemFilter{Query: "lamp", Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(stale) != 0 {
		t.Errorf("expected old title to stop matching, got %d items", len(stale))
	}
}

func TestFoldItemTitles(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	mustItem(t, database, owner.ID, "ÁLBUM", "other", model.TypeDonation)
	if _, err := database.ExecContext(ctx, `UPDATE items SET title_folded = ''`); err != nil {
		t.Fatal(err)
	}

	n, err := FoldItemTitles(ctx, database)
	if err != nil {
		t.Fatalf("FoldItemTitles: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 folded title, got %d", n)
	}

	total, err := CountItems(ctx, database, model.ItemFilter{Query: "álbum"})
	if err != nil {
		t.Fatalf("CountItems: %v", err)
	}
	if total != 1 {
		t.Errorf("expected folded title to match, got %d", total)
	}

	if n, err := FoldItemTitles(ctx, database); err != nil || n != 0 {
		t.Errorf("expected nothing left to fold, got %d, %v", n, err)
	}
}

func TestListItemsSortAndPaging(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	first := mustItem(t, database, owner.ID, "first", "books", model.TypeDonation)
	time.Sleep(2 * time.Millisecond)
	mustItem(t, database, owner.ID, "second", "books", model.TypeDonation)
	time.Sleep(2 * time.Millisecond)
	last := mustItem(t, database, owner.ID, "third", "books", model.TypeDonation)

	newest, _ := ListItems(ctx, database, model.ItemFilter{Page: 1, Limit: 2})
	if len(newest) != 2 || newest[0].ID != last.ID {
		t.Fatalf("expected newest first, got %+v", newest)
	}

	oldest, _ := ListItems(ctx, database, model.ItemFilter{Sort: model.SortOldest, Page: 1, Limit: 2})
	if len(oldest) != 2 || oldest[0].ID != first.ID {
		t.Fatalf("expected oldest first, got %+v", oldest)
	}

	page2, _ := ListItems(ctx, database, model.ItemFilter{Page: 2, Limit: 2})
	if len(page2) != 1 || page2[0].ID != first.ID {
		t.Errorf("expected first item alone on page 2, got %+v", page2)
	}

	total, _ := CountItems(ctx, database, model.ItemFilter{Page: 2, Limit: 2})
	if total != 3 {
		t.Errorf("expected total 3 regardless of page, got %d", total)
	}
}

func TestDeactivateItemKeepsRecord(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	item := mustItem(t, database, owner.ID, "Lamp", "electronics", model.TypeSale)

	if err := DeactivateItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeactivateItem: %v", err)
	}
	if err := DeactivateItem(ctx, database, item.ID); err != nil {
		t.Fatalf("second DeactivateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got == nil {
		t.Fatal("expected deactivated item to still be fetchable")
	}
	if got.Active {
		t.Error("expected item to be inactive")
	}

	owned, _ := ListItemsByOwner(ctx, database, owner.ID)
	if len(owned) != 1 {
		t.Errorf("expected owner listing to include inactive items, got %d", len(owned))
	}
	count, _ := CountItemsByOwner(ctx, database, owner.ID)
	if count != 1 {
		t.Errorf("expected owner count 1, got %d", count)
	}
}

func TestUpdateItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	item := mustItem(t, database, owner.ID, "Lamp", "electronics", model.TypeSale)

	item.Title = "Desk lamp"
	item.Price = 7
	if err := UpdateItem(ctx, database, item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Title != "Desk lamp" || got.Price != 7 {
		t.Errorf("unexpected item after update: %+v", got)
	}
	if got.OwnerID != owner.ID {
		t.Error("expected owner to be unchanged")
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	item := mustItem(t, database, owner.ID, "Lamp", "electronics", model.TypeSale)

	if err := SetItemImage(ctx, database, item.ID, []byte("jpeg"), "image/jpeg", "/api/items/1/image"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	data, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "jpeg" || mime != "image/jpeg" {
		t.Errorf("unexpected image: %q %q", data, mime)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Image != "/api/items/1/image" {
		t.Errorf("expected image reference, got %q", got.Image)
	}
}

func TestCountActiveByCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustUser(t, database, "o@example.com")
	mustItem(t, database, owner.ID, "a", "furniture", model.TypeDonation)
	mustItem(t, database, owner.ID, "b", "clothing", model.TypeDonation)
	mustItem(t, database, owner.ID, "c", "clothing", model.TypeDonation)
	gone := mustItem(t, database, owner.ID, "d", "books", model.TypeDonation)
	DeactivateItem(ctx, database, gone.ID)

	counts, err := CountActiveByCategory(ctx, database)
	if err != nil {
		t.Fatalf("CountActiveByCategory: %v", err)
	}

	want := []CategoryCount{{"clothing", 2}, {"furniture", 1}}
	if len(counts) != len(want) {
		t.Fatalf("expected %v, got %v", want, counts)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %v, want %v", i, counts[i], want[i])
		}
	}
}
