package api

import (
	"net/http"

	"github.com/erazemk/ponovno/internal/users"
)

// UsersHandler handles profile endpoints.
type UsersHandler struct {
	Users *users.Directory
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Users.Profile(r.Context(), GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// UpdateMe handles PUT /api/users/me.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req users.ProfilePatch
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Users.UpdateProfile(r.Context(), GetUser(r.Context()).ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// UploadPhoto handles PUT /api/users/me/photo.
func (h *UsersHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	user, err := h.Users.SetPhoto(r.Context(), GetUser(r.Context()).ID, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, user)
}

// Photo handles GET /api/users/{id}/photo.
func (h *UsersHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	img, err := h.Users.Photo(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeImage(w, img.Data, img.MIME)
}

// MyItems handles GET /api/users/me/items.
func (h *UsersHandler) MyItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Users.OwnItems(r.Context(), GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// MyStats handles GET /api/users/me/stats.
func (h *UsersHandler) MyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Users.Stats(r.Context(), GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}

// MyFavorites handles GET /api/users/me/favorites.
func (h *UsersHandler) MyFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.Users.Favorites(r.Context(), GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, favorites)
}
