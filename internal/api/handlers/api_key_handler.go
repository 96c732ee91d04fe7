package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "hookwire/internal/api/context"
	"hookwire/internal/engine/keys"
	"hookwire/internal/pkg/errors"
	"hookwire/internal/platform/auth"
)

type APIKeyHandler struct {
	keys *keys.Service
}

func NewAPIKeyHandler(svc *keys.Service) *APIKeyHandler {
	return &APIKeyHandler{keys: svc}
}

// Create issues a new key and returns the plaintext exactly once.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	plaintext, key, err := h.keys.Issue(claims.OwnerID, req.Name)
	if err != nil {
		if err == keys.ErrInvalidName {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "A valid key name is required", nil)
			return
		}
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate API key", nil)
		return
	}

	response := struct {
		ID        string `json:"id"`
		Key       string `json:"key"`
		Name      string `json:"name"`
		CreatedAt int64  `json:"created_at"`
		Warning   string `json:"warning"`
	}{
		ID:        key.ID,
		Key:       plaintext,
		Name:      key.Name,
		CreatedAt: key.CreatedAt,
		Warning:   "Store this key securely. It will not be shown again.",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(response)
}

func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	list, err := h.keys.List(claims.OwnerID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to list API keys", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// SetActive toggles a key's active flag. Revoke and reactivate are the same
// idempotent operation; a key belonging to another owner looks exactly like
// a key that does not exist.
func (h *APIKeyHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	keyID := params.ByName("key_id")

	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Field 'active' is required", nil)
		return
	}

	ok, err := h.keys.SetActive(keyID, claims.OwnerID, *req.Active)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update API key", nil)
		return
	}
	if !ok {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "API key not found", nil)
		return
	}

	response := struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
	}{ID: keyID, IsActive: *req.Active}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
