package api

import (
	"net/http"

	"github.com/futureed/archive/internal/catalog"
	"github.com/futureed/archive/internal/model"
)

// CommentsHandler handles comment endpoints.
type CommentsHandler struct {
	Svc *catalog.Service
}

type createCommentRequest struct {
	UserID  int64  `json:"user_id" validate:"gte=0"`
	ItemID  int64  `json:"item_id" validate:"required,gt=0"`
	Comment string `json:"comment" validate:"required"`
}

type updateCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// Create handles POST /api/comments.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[createCommentRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Svc.PostComment(r.Context(), GetClaims(r.Context()), req.UserID, req.ItemID, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, c)
}

// List handles GET /api/comments/{id}, where id names the item.
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	itemID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.Svc.ListComments(r.Context(), itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, comments)
}

// Update handles PUT /api/comments/{id}. Only the author may edit.
func (h *CommentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req, ok := decodeAndValidate[updateCommentRequest](w, r)
	if !ok {
		return
	}

	c, err := h.Svc.EditComment(r.Context(), id, GetClaims(r.Context()).UserID, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, struct {
		Message string         `json:"message"`
		Comment *model.Comment `json:"data"`
	}{"Comment updated", c})
}

// Delete handles DELETE /api/comments/{id}. Only the author may delete.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteComment(r.Context(), id, GetClaims(r.Context()).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}
