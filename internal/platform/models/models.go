package models

// APIKey is a stored credential. Only the bcrypt hash of the secret is ever
// persisted; the plaintext exists momentarily at issuance and is returned
// to the caller exactly once.
type APIKey struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Name       string `json:"name"`
	KeyHash    string `json:"-"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  int64  `json:"created_at"`
	LastUsedAt *int64 `json:"last_used_at,omitempty"`
}

// ActiveKey is the verification snapshot row: just enough to compare a
// presented secret and attribute it to an owner.
type ActiveKey struct {
	ID      string
	OwnerID string
	KeyHash string
}

// WebhookCredential is an owner-scoped outbound hook registration. Secret
// holds the encrypted-at-rest form and is never serialized.
type WebhookCredential struct {
	ID             string `json:"id"`
	OwnerID        string `json:"owner_id"`
	DestinationURL string `json:"destination_url"`
	Secret         string `json:"-"`
	TriggerEvent   string `json:"trigger_event"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}
