package store

import (
	"context"
	"testing"

	"github.com/erazemk/ponovno/internal/db"
)

func TestSigningSecretGeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	secret1, err := SigningSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	secret2, err := SigningSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestEnsureSettingKeepsFirstValue(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, ok, _ := GetSetting(ctx, database, "k"); ok {
		t.Fatal("expected no setting yet")
	}

	v, err := EnsureSetting(ctx, database, "k", "first")
	if err != nil {
		t.Fatal(err)
	}
	if v != "first" {
		t.Errorf("expected 'first', got %q", v)
	}

	v, _ = EnsureSetting(ctx, database, "k", "second")
	if v != "first" {
		t.Errorf("expected stored value to win, got %q", v)
	}
}
