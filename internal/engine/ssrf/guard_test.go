package ssrf

import (
	"context"
	"errors"
	"testing"
)

type stubResolver struct {
	addrs  map[string]string
	called bool
}

func (s *stubResolver) Resolve(ctx context.Context, hostname string) (string, error) {
	s.called = true
	if ip, ok := s.addrs[hostname]; ok {
		return ip, nil
	}
	return "", ErrResolutionFailed
}

func rejectionReason(t *testing.T, err error) Reason {
	t.Helper()
	var rej *Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected *Rejection, got %v", err)
	}
	return rej.Reason
}

func TestAuthorizeInvalidURL(t *testing.T) {
	g := &Guard{resolver: &stubResolver{}}

	for _, raw := range []string{"", "http//broken", "https://exa mple.com/x"} {
		_, err := g.Authorize(context.Background(), raw)
		if got := rejectionReason(t, err); got != ReasonInvalidURL {
			t.Errorf("Authorize(%q) reason = %s, want %s", raw, got, ReasonInvalidURL)
		}
	}
}

func TestAuthorizeProtocolLock(t *testing.T) {
	resolver := &stubResolver{addrs: map[string]string{"example.com": "93.184.216.34"}}
	g := &Guard{resolver: resolver}

	_, err := g.Authorize(context.Background(), "http://example.com/hook")
	if got := rejectionReason(t, err); got != ReasonProtocolViolation {
		t.Fatalf("reason = %s, want %s", got, ReasonProtocolViolation)
	}
	if resolver.called {
		t.Error("resolver consulted before the protocol check rejected the URL")
	}
}

func TestAuthorizeResolutionFailure(t *testing.T) {
	g := &Guard{resolver: &stubResolver{}}

	_, err := g.Authorize(context.Background(), "https://missing.invalid/hook")
	if got := rejectionReason(t, err); got != ReasonResolutionFailed {
		t.Errorf("reason = %s, want %s", got, ReasonResolutionFailed)
	}
}

func TestAuthorizePrivateNetwork(t *testing.T) {
	g := &Guard{resolver: &stubResolver{addrs: map[string]string{
		"internal.example.com": "10.0.0.8",
		"localhost":            "127.0.0.1",
	}}}

	for _, raw := range []string{
		"https://internal.example.com/hook",
		"https://localhost/anything",
	} {
		_, err := g.Authorize(context.Background(), raw)
		if got := rejectionReason(t, err); got != ReasonPrivateNetwork {
			t.Errorf("Authorize(%q) reason = %s, want %s", raw, got, ReasonPrivateNetwork)
		}
	}
}

func TestAuthorizeLiteralPrivateIP(t *testing.T) {
	// A literal IPv4 destination never reaches DNS; the real resolver
	// passes it straight to the classifier.
	g := NewGuard(NewResolver(0))

	_, err := g.Authorize(context.Background(), "https://127.0.0.1/x")
	if got := rejectionReason(t, err); got != ReasonPrivateNetwork {
		t.Errorf("reason = %s, want %s", got, ReasonPrivateNetwork)
	}
}

func TestAuthorizePublicTarget(t *testing.T) {
	g := &Guard{resolver: &stubResolver{addrs: map[string]string{
		"hooks.example.com": "93.184.216.34",
	}}}

	target, err := g.Authorize(context.Background(), "https://hooks.example.com/deliver")
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if target.Host != "hooks.example.com" || target.IP != "93.184.216.34" {
		t.Errorf("unexpected target %+v", target)
	}
}
