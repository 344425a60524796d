package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindMatching(t *testing.T) {
	err := NotFound("item")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("NotFound should not match ErrForbidden")
	}
	if err.Error() != "item not found" {
		t.Errorf("expected message 'item not found', got %q", err.Error())
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading: %w", Forbidden("not yours"))
	if !errors.Is(err, ErrForbidden) {
		t.Error("expected wrapped error to match ErrForbidden")
	}
	if !IsKinded(err) {
		t.Error("expected wrapped error to be kinded")
	}
}

func TestPlainErrorIsNotKinded(t *testing.T) {
	if IsKinded(errors.New("disk on fire")) {
		t.Error("plain error should not be kinded")
	}
}
