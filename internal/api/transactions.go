package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/ponovno/internal/model"
	"github.com/erazemk/ponovno/internal/workflow"
)

// TransactionsHandler handles request negotiation endpoints.
type TransactionsHandler struct {
	Workflow *workflow.Workflow
}

type respondRequest struct {
	Status string  `json:"status"`
	Note   *string `json:"note"`
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req workflow.CreateInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.Workflow.Create(r.Context(), GetUser(r.Context()).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, tx)
}

// List handles GET /api/transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.TransactionFilter{
		Status:    q.Get("status"),
		Direction: q.Get("direction"),
	}

	if v := q.Get("item_id"); v != "" {
		itemID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		filter.ItemID = itemID
	}

	var err error
	if filter.Page, err = queryInt(r, "page"); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid page")
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	page, err := h.Workflow.List(r.Context(), GetUser(r.Context()).ID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, page)
}

// Get handles GET /api/transactions/{id}.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	tx, err := h.Workflow.Get(r.Context(), id, GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}

// Respond handles POST /api/transactions/{id}/respond.
func (h *TransactionsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.Workflow.Respond(r.Context(), id, GetUser(r.Context()).ID, req.Status, req.Note)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}

// Cancel handles POST /api/transactions/{id}/cancel.
func (h *TransactionsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	tx, err := h.Workflow.Cancel(r.Context(), id, GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}

// Complete handles POST /api/transactions/{id}/complete.
func (h *TransactionsHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	tx, err := h.Workflow.Complete(r.Context(), id, GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, tx)
}
