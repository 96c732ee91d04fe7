package middleware

import (
	"context"
	"net/http"
	"strings"

	apiContext "hookwire/internal/api/context"
	"hookwire/internal/engine/keys"
	"hookwire/internal/pkg/errors"
)

// APIKeyMiddleware authenticates programmatic callers by their issued key.
// The bearer token is resolved to an owner id through the verifier; no
// session state is involved.
type APIKeyMiddleware struct {
	keys *keys.Service
}

func NewAPIKeyMiddleware(svc *keys.Service) *APIKeyMiddleware {
	return &APIKeyMiddleware{keys: svc}
}

func (m *APIKeyMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Missing authorization header", nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid authorization header format", nil)
			return
		}

		ownerID, ok, err := m.keys.ResolveOwner(parts[1])
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to verify API key", nil)
			return
		}
		if !ok {
			errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid or revoked API key", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.OwnerID, ownerID)
		next(w, r.WithContext(ctx))
	}
}
