package ssrf

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"
)

type Reason string

const (
	ReasonInvalidURL        Reason = "invalid_url"
	ReasonProtocolViolation Reason = "protocol_violation"
	ReasonResolutionFailed  Reason = "resolution_failed"
	ReasonPrivateNetwork    Reason = "private_network_blocked"
)

// Rejection is a refusal to authorize a destination. It is a validation or
// security outcome with a specific reason, not a transport error.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("destination rejected (%s): %s", r.Reason, r.Detail)
}

// Target is an authorized destination together with the address it resolved
// to at check time.
type Target struct {
	URL  *url.URL
	Host string
	IP   string
}

type hostResolver interface {
	Resolve(ctx context.Context, hostname string) (string, error)
}

// Guard approves or rejects outbound destinations before any bytes leave
// the process.
type Guard struct {
	resolver hostResolver
}

func NewGuard(resolver *Resolver) *Guard {
	return &Guard{resolver: resolver}
}

// Authorize runs the full destination check: parse, protocol lock, live DNS
// resolution, private-range classification. The check runs once per
// dispatch and its result must never be cached or reused: a hostname can be
// rebound between validation and use, so resolution and dispatch have to
// happen within the same short-lived request.
func (g *Guard) Authorize(ctx context.Context, rawURL string) (*Target, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return nil, &Rejection{Reason: ReasonInvalidURL, Detail: "invalid destination URL format"}
	}

	// Hard business rule, not a recommendation: plaintext transport is
	// never permitted for credential-bearing deliveries.
	if u.Scheme != "https" {
		return nil, &Rejection{
			Reason: ReasonProtocolViolation,
			Detail: "only HTTPS endpoints are permitted",
		}
	}

	ip, err := g.resolver.Resolve(ctx, u.Hostname())
	if err != nil {
		return nil, &Rejection{
			Reason: ReasonResolutionFailed,
			Detail: "target hostname could not be resolved",
		}
	}

	if IsReservedOrPrivate(ip) {
		log.Warn().
			Str("destination", rawURL).
			Str("resolved_ip", ip).
			Msg("blocked dispatch to private or reserved network")
		return nil, &Rejection{
			Reason: ReasonPrivateNetwork,
			Detail: "target resolves to a private or reserved network",
		}
	}

	return &Target{URL: u, Host: u.Hostname(), IP: ip}, nil
}
