package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "hookwire/internal/api/context"
	"hookwire/internal/engine/dispatch"
	"hookwire/internal/pkg/errors"
)

type EventHandler struct {
	trigger *dispatch.Trigger
}

func NewEventHandler(trigger *dispatch.Trigger) *EventHandler {
	return &EventHandler{trigger: trigger}
}

// Fire accepts a domain event from an API-key-authenticated caller and fans
// it out to the owner's registered hooks. Deliveries are asynchronous, so
// the response is an acknowledgement, not a delivery report.
func (h *EventHandler) Fire(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Context().Value(apiContext.OwnerID).(string)
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	event := params.ByName("event")

	var data interface{}
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid JSON body", nil)
		return
	}

	if err := h.trigger.Fire(ownerID, event, data); err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to trigger event", nil)
		return
	}

	response := struct {
		Accepted bool   `json:"accepted"`
		Event    string `json:"event"`
	}{Accepted: true, Event: event}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(response)
}
