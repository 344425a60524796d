package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestLevelRouter(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(&levelRouter{
		stdout: slog.NewTextHandler(&out, nil),
		stderr: slog.NewTextHandler(&errOut, nil),
	})

	logger.Info("hello")
	logger.Warn("careful")
	logger.Error("broken")

	if !bytes.Contains(out.Bytes(), []byte("hello")) || !bytes.Contains(out.Bytes(), []byte("careful")) {
		t.Errorf("expected info and warn on stdout, got %q", out.String())
	}
	if bytes.Contains(out.Bytes(), []byte("broken")) {
		t.Error("error leaked to stdout")
	}
	if !bytes.Contains(errOut.Bytes(), []byte("broken")) {
		t.Errorf("expected error on stderr, got %q", errOut.String())
	}

	if (&levelRouter{}).Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled")
	}
}

func TestRunRejectsExtraArguments(t *testing.T) {
	if err := run([]string{"serve"}); err == nil {
		t.Error("expected error for positional argument")
	}
}
