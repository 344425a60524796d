package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/ponovno/internal/apperr"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps a service error to its status code. Errors without a kind
// are logged and reported as internal errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *apperr.Error
	if errors.As(err, &e) {
		jsonError(w, statusFor(e.Kind), e.Message)
		return
	}

	slog.Error("request failed",
		"method", r.Method, "path", r.URL.Path, "request_id", RequestID(r.Context()), "error", err)
	jsonError(w, http.StatusInternalServerError, "internal error")
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, apperr.ErrUnauthenticated), errors.Is(kind, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(kind, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, apperr.ErrInvalidOperation), errors.Is(kind, apperr.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// queryInt parses an optional integer query parameter. A missing parameter
// yields 0.
func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// writeImage serves stored image bytes.
func writeImage(w http.ResponseWriter, data []byte, mime string) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
