package impact

import (
	"context"
	"testing"

	"github.com/erazemk/ponovno/internal/db"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/store"
)

func seed(t *testing.T, categories ...string) *Aggregator {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner, err := store.CreateUser(ctx, database, &model.User{Name: "O", Email: "o@example.com", PasswordHash: "h"})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range categories {
		_, err := store.CreateItem(ctx, database, &model.Item{
			Title: c, Category: c, Condition: model.ConditionGood,
			TransactionType: model.TypeDonation, OwnerID: owner.ID,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return New(database, nil, 0)
}

func TestEnvironmentClothingAndFurniture(t *testing.T) {
	a := seed(t, "clothing", "furniture")

	report, err := a.Environment(context.Background())
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if report.ObjectsReused != 2 {
		t.Errorf("expected 2 objects, got %d", report.ObjectsReused)
	}
	if report.EstimatedKgSaved != 6 {
		t.Errorf("expected 6 kg, got %v", report.EstimatedKgSaved)
	}

	want := []model.CategoryImpact{
		{Category: "clothing", Count: 1, Kg: 1},
		{Category: "furniture", Count: 1, Kg: 5},
	}
	if len(report.ByCategory) != len(want) {
		t.Fatalf("expected %v, got %v", want, report.ByCategory)
	}
	for i := range want {
		if report.ByCategory[i] != want[i] {
			t.Errorf("by_category[%d] = %v, want %v", i, report.ByCategory[i], want[i])
		}
	}
}

func TestEnvironmentEmpty(t *testing.T) {
	a := seed(t)

	report, err := a.Environment(context.Background())
	if err != nil {
		t.Fatalf("Environment: %v", err)
	}
	if report.ObjectsReused != 0 || report.EstimatedKgSaved != 0 {
		t.Errorf("expected zero report, got %+v", report)
	}
	if report.ByCategory == nil {
		t.Error("expected empty by_category, not nil")
	}
}

func TestWeight(t *testing.T) {
	a := New(nil, map[string]float64{"Furniture": 7}, 0.5)

	tests := []struct {
		category string
		want     float64
	}{
		{"furniture", 7},
		{"FURNITURE", 7},
		{"toys", 0.5},
	}
	for _, tt := range tests {
		if got := a.Weight(tt.category); got != tt.want {
			t.Errorf("Weight(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}

	d := New(nil, nil, 0)
	if d.Weight("Electronics") != 2 || d.Weight("unknown") != DefaultFallback {
		t.Error("unexpected default weights")
	}
}
