package app

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/erazemk/ponovno/internal/config"
	"github.com/erazemk/ponovno/internal/db"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:             config.EnvLocal,
		TokenTTL:        time.Hour,
		ShutdownTimeout: time.Second,
	}
}

func TestNewGeneratesSigningSecret(t *testing.T) {
	database := db.NewTestDB(t)

	a, err := NewWithDB(context.Background(), testConfig(), database)
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	if a.services.Auth.Secret == "" {
		t.Error("expected a generated signing secret")
	}
	if a.services.Workflow.Transitions.Strict() {
		t.Error("expected permissive transitions by default")
	}
}

func TestNewStrictTransitions(t *testing.T) {
	cfg := testConfig()
	cfg.StrictTransitions = true
	cfg.JWTSecret = "configured"

	a, err := NewWithDB(context.Background(), cfg, db.NewTestDB(t))
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}
	if !a.services.Workflow.Transitions.Strict() {
		t.Error("expected strict transitions")
	}
	if a.services.Auth.Secret != "configured" {
		t.Errorf("expected configured secret, got %q", a.services.Auth.Secret)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	a, err := NewWithDB(context.Background(), testConfig(), db.NewTestDB(t))
	if err != nil {
		t.Fatalf("NewWithDB: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/metrics/environment")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
