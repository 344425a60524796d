package api

import (
	"net/http"

	"github.com/erazemk/ponovno/internal/impact"
)

// MetricsHandler serves public marketplace metrics.
type MetricsHandler struct {
	Impact *impact.Aggregator
}

// Environment handles GET /api/metrics/environment.
func (h *MetricsHandler) Environment(w http.ResponseWriter, r *http.Request) {
	report, err := h.Impact.Environment(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, report)
}
