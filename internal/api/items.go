package api

import (
	"net/http"

	"github.com/erazemk/ponovno/internal/catalog"
	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/users"
)

// maxUploadSize bounds image upload request bodies.
const maxUploadSize = 10 << 20

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Catalog *catalog.Catalog
	Users   *users.Directory
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid page")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	q := r.URL.Query()
	txType := q.Get("transaction_type")
	if txType == "" {
		txType = q.Get("type")
	}
	result, err := h.Catalog.List(r.Context(), model.ItemFilter{
		Query:           q.Get("q"),
		Category:        q.Get("category"),
		TransactionType: txType,
		Sort:            q.Get("sort"),
		Page:            page,
		Limit:           limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req catalog.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Catalog.Create(r.Context(), req, GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req catalog.ItemPatch
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Catalog.Update(r.Context(), id, req, GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Catalog.SoftDelete(r.Context(), id, GetUser(r.Context()).ID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	item, err := h.Catalog.SetImage(r.Context(), id, GetUser(r.Context()).ID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetImage handles GET /api/items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	img, err := h.Catalog.Image(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeImage(w, img.Data, img.MIME)
}

// ToggleFavorite handles POST /api/items/{id}/favorite.
func (h *ItemsHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	favorites, err := h.Users.ToggleFavorite(r.Context(), GetUser(r.Context()).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, favorites)
}

// Report handles POST /api/reports.
func (h *ItemsHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req catalog.ReportInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.Catalog.Report(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, report)
}
