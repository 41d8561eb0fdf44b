package api

import (
	"net/http"

	"github.com/futureed/archive/internal/catalog"
)

// AuthHandler handles registration, login and identity endpoints.
type AuthHandler struct {
	Svc *catalog.Service
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type signupResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Signup handles POST /api/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[signupRequest](w, r)
	if !ok {
		return
	}

	user, err := h.Svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusCreated, signupResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAndValidate[loginRequest](w, r)
	if !ok {
		return
	}

	token, _, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, loginResponse{Message: "Login successful", Token: token})
}

// Protected handles GET /api/protected.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Welcome to the protected route!",
		"user":    GetClaims(r.Context()),
	})
}

// ListUsers handles GET /api/users.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, users)
}
