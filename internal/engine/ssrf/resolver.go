package ssrf

import (
	"context"
	"errors"
	"net"
	"regexp"
	"time"
)

// ErrResolutionFailed means DNS lookup errored or returned no usable record.
// Resolution failure blocks dispatch; it is never treated as approval.
var ErrResolutionFailed = errors.New("hostname could not be resolved")

var dottedQuad = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// Resolver maps a hostname to the IPv4 address it currently points at.
type Resolver struct {
	lookup  *net.Resolver
	timeout time.Duration
}

func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		lookup:  net.DefaultResolver,
		timeout: timeout,
	}
}

// Resolve returns the address for hostname. A literal dotted-quad is
// returned unchanged without touching DNS. Otherwise all address records
// are requested and the first A record wins; if the answer carries no IPv4
// address at all, the first record of any family is returned and left for
// the classifier to reject.
func (r *Resolver) Resolve(ctx context.Context, hostname string) (string, error) {
	if dottedQuad.MatchString(hostname) {
		return hostname, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.lookup.LookupIPAddr(ctx, hostname)
	if err != nil || len(addrs) == 0 {
		return "", ErrResolutionFailed
	}

	for _, addr := range addrs {
		if v4 := addr.IP.To4(); v4 != nil {
			return v4.String(), nil
		}
	}
	return addrs[0].IP.String(), nil
}
