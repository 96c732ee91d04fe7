package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"

	apiContext "hookwire/internal/api/context"
	"hookwire/internal/engine/secrets"
	"hookwire/internal/pkg/errors"
	"hookwire/internal/platform/auth"
	"hookwire/internal/platform/models"
	"hookwire/internal/platform/repositories"
)

type WebhookHandler struct {
	repo *repositories.WebhookRepository
	box  *secrets.Box
}

func NewWebhookHandler(repo *repositories.WebhookRepository, box *secrets.Box) *WebhookHandler {
	return &WebhookHandler{repo: repo, box: box}
}

// Create registers an outbound hook for the calling owner. HTTPS is
// enforced at write time as defense in depth; the dispatcher re-validates
// the destination on every delivery regardless.
func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req struct {
		DestinationURL string `json:"destination_url"`
		Secret         string `json:"secret"`
		TriggerEvent   string `json:"trigger_event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.DestinationURL == "" || req.Secret == "" || req.TriggerEvent == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput,
			"destination_url, secret and trigger_event are required", nil)
		return
	}

	u, err := url.Parse(req.DestinationURL)
	if err != nil || u.Hostname() == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid destination URL format", nil)
		return
	}
	if u.Scheme != "https" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeProtocolViolation,
			"Webhook destinations must use HTTPS", nil)
		return
	}

	encrypted, err := h.box.Encrypt(req.Secret)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to store webhook credential", nil)
		return
	}

	hook := &models.WebhookCredential{
		OwnerID:        claims.OwnerID,
		DestinationURL: req.DestinationURL,
		Secret:         encrypted,
		TriggerEvent:   req.TriggerEvent,
	}
	if err := h.repo.Create(hook); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to store webhook credential", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(hook)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	hooks, err := h.repo.ListByOwner(claims.OwnerID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to list webhooks", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hooks)
}

func (h *WebhookHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	hookID := params.ByName("webhook_id")

	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Field 'active' is required", nil)
		return
	}

	ok, err := h.repo.SetActive(hookID, claims.OwnerID, *req.Active)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to update webhook", nil)
		return
	}
	if !ok {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Webhook not found", nil)
		return
	}

	response := struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
	}{ID: hookID, IsActive: *req.Active}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	hookID := params.ByName("webhook_id")

	ok, err := h.repo.Delete(hookID, claims.OwnerID)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to delete webhook", nil)
		return
	}
	if !ok {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Webhook not found", nil)
		return
	}

	w.WriteHeader(http.StatusOK)
}
