package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/futureed/archive/internal/catalog"
)

// multipartOverhead is allowed on top of the image cap for form fields and
// part headers.
const multipartOverhead = 1 << 20

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Svc            *catalog.Service
	MaxUploadBytes int64
}

type decreaseRequest struct {
	Amount int `json:"amount"`
}

type decreaseResponse struct {
	Message  string `json:"message"`
	NewStock int    `json:"newStock"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Upload handles POST /api/upload. The item is owned by the caller.
func (h *ItemsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.MaxUploadBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, catalog.CodeInvalidInput, "upload too large")
			return
		}
		jsonError(w, http.StatusBadRequest, catalog.CodeInvalidInput, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	if v := r.FormValue("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id != claims.UserID {
			jsonError(w, http.StatusForbidden, catalog.CodeNotOwner, "cannot upload for another user")
			return
		}
	}

	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, catalog.CodeInvalidInput, "stock must be an integer")
		return
	}

	in := catalog.NewItem{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
		Stock:   stock,
	}

	var file multipart.File
	file, _, err = r.FormFile("image")
	switch {
	case err == nil:
		defer file.Close()
		in.Image = file
	case !errors.Is(err, http.ErrMissingFile):
		jsonError(w, http.StatusBadRequest, catalog.CodeInvalidInput, "invalid image upload")
		return
	}

	item, err := h.Svc.CreateItem(r.Context(), claims.UserID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/book/{id}. Each read counts as a view.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.Svc.ViewItem(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteItem(r.Context(), id, GetClaims(r.Context()).UserID); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// Decrease handles POST /api/items/{id}/decrease.
func (h *ItemsHandler) Decrease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req decreaseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, catalog.CodeInvalidInput, "invalid request body")
		return
	}

	stock, err := h.Svc.Purchase(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, decreaseResponse{Message: "Stock decreased successfully", NewStock: stock})
}

// Search handles GET /api/search/{key}.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.SearchItems(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// pathID parses a positive integer URL parameter, writing a 400 if it is
// not one.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, catalog.CodeInvalidInput, "invalid "+name)
		return 0, false
	}
	return id, true
}
