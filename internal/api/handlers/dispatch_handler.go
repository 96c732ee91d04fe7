package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"hookwire/internal/engine/dispatch"
	"hookwire/internal/engine/ssrf"
	"hookwire/internal/pkg/errors"
)

type dispatcher interface {
	Dispatch(ctx context.Context, req dispatch.Request) (*dispatch.Result, error)
}

type DispatchHandler struct {
	dispatcher dispatcher
}

func NewDispatchHandler(d dispatcher) *DispatchHandler {
	return &DispatchHandler{dispatcher: d}
}

type dispatchResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
	TargetStatus int    `json:"target_status,omitempty"`
}

// Dispatch accepts {destination_url, secret_key, payload} and attempts one
// guarded delivery. Validation and security rejections come back as 400/403
// with a specific reason. Once the request passes validation the response
// is always 200 with a JSON body; remote rejection and transport failure
// set success=false there, so callers branch on the body rather than the
// transport status.
func (h *DispatchHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DestinationURL string          `json:"destination_url"`
		SecretKey      string          `json:"secret_key"`
		Payload        json.RawMessage `json:"payload"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid JSON body", nil)
		return
	}
	if string(req.Payload) == "null" {
		req.Payload = nil
	}

	result, err := h.dispatcher.Dispatch(r.Context(), dispatch.Request{
		DestinationURL: req.DestinationURL,
		Secret:         req.SecretKey,
		Payload:        req.Payload,
	})
	if err != nil {
		writeDispatchRejection(w, err)
		return
	}

	resp := dispatchResponse{
		Success:      result.Delivered(),
		TargetStatus: result.TargetStatus,
	}
	if result.Delivered() {
		resp.Message = "Webhook delivered successfully."
	} else {
		resp.Error = result.Detail
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeDispatchRejection(w http.ResponseWriter, err error) {
	if err == dispatch.ErrInvalidRequest {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput,
			"Missing destination_url, secret_key, or payload in the request body", nil)
		return
	}

	if rej, ok := err.(*ssrf.Rejection); ok {
		switch rej.Reason {
		case ssrf.ReasonInvalidURL:
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput,
				"Invalid destination URL format", nil)
		case ssrf.ReasonProtocolViolation:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeProtocolViolation,
				"Protocol violation: only HTTPS endpoints are permitted", nil)
		case ssrf.ReasonResolutionFailed:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeResolutionFailed,
				"Target hostname could not be resolved", nil)
		case ssrf.ReasonPrivateNetwork:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodePrivateNetworkBlocked,
				"Target resolves to a private or reserved network; request blocked", nil)
		default:
			errors.WriteError(w, http.StatusForbidden, errors.ErrCodeForbidden, rej.Detail, nil)
		}
		return
	}

	errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal,
		"Internal error during dispatch", nil)
}
