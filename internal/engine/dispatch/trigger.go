package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hookwire/internal/engine/secrets"
	"hookwire/internal/platform/repositories"
)

// Event is the envelope delivered to registered hooks.
type Event struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Timestamp int64       `json:"timestamp"`
	OwnerID   string      `json:"owner_id"`
	Data      interface{} `json:"data"`
}

// Sender is the delivery half of the dispatcher, split out so fan-out can
// be tested without the network.
type Sender interface {
	Dispatch(ctx context.Context, req Request) (*Result, error)
}

// Trigger fans a domain event out to the owner's active hooks registered
// for it. Each delivery is independent; there is no ordering guarantee and
// a failing hook never blocks its siblings.
type Trigger struct {
	repo   *repositories.WebhookRepository
	box    *secrets.Box
	sender Sender
}

func NewTrigger(repo *repositories.WebhookRepository, box *secrets.Box, sender Sender) *Trigger {
	return &Trigger{repo: repo, box: box, sender: sender}
}

// Fire loads the owner's active hooks for the event and dispatches to each
// concurrently. Deliveries are detached from the inbound request: the
// caller gets an acknowledgement, not delivery results.
func (t *Trigger) Fire(ownerID, eventType string, data interface{}) error {
	hooks, err := t.repo.ListActiveByEvent(ownerID, eventType)
	if err != nil {
		return err
	}

	event := &Event{
		ID:        fmt.Sprintf("evt_%d", time.Now().UnixNano()),
		Event:     eventType,
		Timestamp: time.Now().Unix(),
		OwnerID:   ownerID,
		Data:      data,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	for _, hook := range hooks {
		secret, err := t.box.Decrypt(hook.Secret)
		if err != nil {
			log.Error().Err(err).Str("webhook_id", hook.ID).Msg("stored webhook secret could not be decrypted")
			continue
		}

		go func(id, destination, secret string) {
			result, err := t.sender.Dispatch(context.Background(), Request{
				DestinationURL: destination,
				Secret:         secret,
				Payload:        payload,
			})
			if err != nil {
				log.Warn().Err(err).Str("webhook_id", id).Msg("webhook dispatch rejected")
				return
			}
			log.Info().
				Str("webhook_id", id).
				Str("event_id", event.ID).
				Str("outcome", string(result.Outcome)).
				Int("target_status", result.TargetStatus).
				Msg("webhook dispatched")
		}(hook.ID, hook.DestinationURL, secret)
	}
	return nil
}
