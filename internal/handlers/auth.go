package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/eco-routes/internal/auth"
	"github.com/ukydev/eco-routes/internal/models"
)

// AuthHandler handles sign-in requests
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Anonymous signs the caller in under a fresh user id
func (h *AuthHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp, err := h.authService.SignInAnonymously()
	if err != nil {
		log.WithError(err).Error("Anonymous sign-in failed")
		http.Error(w, "Failed to sign in", http.StatusInternalServerError)
		return
	}

	log.WithField("user_id", resp.UserID).Info("Anonymous sign-in")
	writeJSON(w, http.StatusOK, resp)
}

// CustomToken exchanges an externally issued token for a session
func (h *AuthHandler) CustomToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.CustomTokenRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Token == "" {
		http.Error(w, "Token is required", http.StatusBadRequest)
		return
	}

	resp, err := h.authService.SignInWithCustomToken(req.Token)
	switch {
	case errors.Is(err, auth.ErrCustomTokenDisabled):
		http.Error(w, "Custom token sign-in is disabled", http.StatusNotImplemented)
		return
	case errors.Is(err, auth.ErrExpiredToken):
		http.Error(w, "Token expired", http.StatusUnauthorized)
		return
	case err != nil:
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	log.WithField("user_id", resp.UserID).Info("Custom token sign-in")
	writeJSON(w, http.StatusOK, resp)
}
