package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"chatwire/internal/auth"
	"chatwire/internal/chaterr"
	"chatwire/internal/middleware"
	"chatwire/internal/models"
	"chatwire/internal/store"
)

var validate = validator.New()

type AuthHandler struct {
	Store  store.Store
	Tokens *auth.Tokens
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
		return
	}

	user := &models.User{Name: req.Name, Email: req.Email, Password: hashed}
	if err := h.Store.CreateUser(user); err != nil {
		if errors.Is(err, chaterr.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "Email is already registered.")
			return
		}
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
		return
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// One generic failure for unknown email and wrong password alike,
	// to avoid user enumeration.
	user, err := h.Store.GetUserByEmail(req.Email)
	if err != nil || !auth.ComparePassword(user.Password, req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := h.Tokens.Generate(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, internalErrorMsg)
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// Logout acknowledges the request. Tokens are stateless JWTs, so there
// is nothing to revoke server-side; the token lapses at its TTL.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUserByID(middleware.UserID(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthenticated.")
		return
	}
	respondJSON(w, http.StatusOK, user)
}
