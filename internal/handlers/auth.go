package handlers

import (
	"net/http"

	"github.com/echotask/echotask/internal/middleware"
	"github.com/echotask/echotask/internal/services/oidc"
	"github.com/gorilla/mux"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	oidcProvider *oidc.Provider
	redirectURI  string
}

// NewAuthHandler creates a new auth handler. redirectURI is where the
// frontend completes the authorization code flow.
func NewAuthHandler(oidcProvider *oidc.Provider, redirectURI string) *AuthHandler {
	return &AuthHandler{oidcProvider: oidcProvider, redirectURI: redirectURI}
}

// RegisterRoutes registers auth routes on the given router
// The router should already have the /api/v1/auth prefix
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/oidc/login", h.GetOIDCLogin).Methods("GET")
	r.HandleFunc("/me", h.GetMe).Methods("GET")
}

// GetOIDCLogin returns OIDC login configuration for the frontend
func (h *AuthHandler) GetOIDCLogin(w http.ResponseWriter, r *http.Request) {
	loginConfig := h.oidcProvider.GetLoginConfig(r.Context(), h.redirectURI)
	respondJSON(w, http.StatusOK, loginConfig)
}

// GetMe returns current user information
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
