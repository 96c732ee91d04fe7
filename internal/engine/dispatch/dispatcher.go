package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"hookwire/internal/engine/ssrf"
)

// ErrInvalidRequest is returned before any network activity when a required
// field is missing.
var ErrInvalidRequest = errors.New("destinationUrl, secretKey and payload are all required")

const (
	secretHeader = "X-Webhook-Secret"
	userAgent    = "hookwire-dispatcher/1.0"
)

type Outcome string

const (
	OutcomeDelivered        Outcome = "delivered"
	OutcomeRemoteRejected   Outcome = "remote_rejected"
	OutcomeTransportFailure Outcome = "transport_failure"
)

type Request struct {
	DestinationURL string
	Secret         string
	Payload        json.RawMessage
}

// Result describes a delivery attempt that got past validation. Remote
// rejection and transport failure are soft outcomes: expected business
// conditions for the caller to act on, not system errors.
type Result struct {
	Outcome      Outcome
	TargetStatus int // remote HTTP status, zero when the target was unreachable
	Detail       string
}

func (r *Result) Delivered() bool { return r.Outcome == OutcomeDelivered }

// Authorizer approves an outbound destination before any bytes are sent.
type Authorizer interface {
	Authorize(ctx context.Context, rawURL string) (*ssrf.Target, error)
}

type Dispatcher struct {
	guard  Authorizer
	client *http.Client
}

func NewDispatcher(guard Authorizer, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		guard:  guard,
		client: &http.Client{Timeout: timeout},
	}
}

// Dispatch makes a single best-effort POST to the destination. The secret
// travels in a dedicated header, never in the body, so generic payload
// logging cannot leak it. Validation and security rejections come back as
// errors; once the request is on the wire every outcome is a Result. No
// retry is performed here; retry policy belongs to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	if req.DestinationURL == "" || req.Secret == "" || len(req.Payload) == 0 {
		return nil, ErrInvalidRequest
	}

	if _, err := d.guard.Authorize(ctx, req.DestinationURL); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.DestinationURL, bytes.NewReader(req.Payload))
	if err != nil {
		return nil, ErrInvalidRequest
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(secretHeader, req.Secret)
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Str("destination", req.DestinationURL).Msg("webhook transport failure")
		return &Result{
			Outcome: OutcomeTransportFailure,
			Detail:  fmt.Sprintf("network connection failed or timed out: %v", err),
		}, nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Result{Outcome: OutcomeDelivered, TargetStatus: resp.StatusCode}, nil
	}

	return &Result{
		Outcome:      OutcomeRemoteRejected,
		TargetStatus: resp.StatusCode,
		Detail:       fmt.Sprintf("target responded with status %d", resp.StatusCode),
	}, nil
}
