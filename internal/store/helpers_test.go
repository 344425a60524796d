package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/ponovno/internal/model"
)

func mustUser(t *testing.T, database *sql.DB, email string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, &model.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return u
}

func mustItem(t *testing.T, database *sql.DB, ownerID int64, title, category, txType string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, &model.Item{
		Title:           title,
		Category:        category,
		Condition:       model.ConditionGood,
		TransactionType: txType,
		OwnerID:         ownerID,
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", title, err)
	}
	return item
}
