package api

import (
	"net/http"

	"github.com/futureed/archive/internal/catalog"
)

// FavoritesHandler handles heart endpoints.
type FavoritesHandler struct {
	Svc *catalog.Service
}

type toggleRequest struct {
	UserID int64 `json:"user_id" validate:"gte=0"`
	BookID int64 `json:"book_id" validate:"required,gt=0"`
}

type toggleResponse struct {
	Message string `json:"message"`
	Active  bool   `json:"active"`
	Liked   bool   `json:"liked"`
}

// Toggle handles POST /api/toggle-heart.
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[toggleRequest](w, r)
	if !ok {
		return
	}

	active, err := h.Svc.ToggleFavorite(r.Context(), GetClaims(r.Context()), req.UserID, req.BookID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	msg := "Heart removed"
	if active {
		msg = "Heart added"
	}
	jsonResponse(w, http.StatusOK, toggleResponse{Message: msg, Active: active, Liked: active})
}

// List handles GET /api/hearts/{userId}.
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	items, err := h.Svc.ListFavorites(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}
