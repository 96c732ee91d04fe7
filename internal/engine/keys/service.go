package keys

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"hookwire/internal/platform/models"
	"hookwire/internal/platform/repositories"
)

// Every issued key starts with this prefix so keys are self-identifying in
// logs and UI without revealing the secret part.
const keyPrefix = "sk_ai_"

const randomBodyBytes = 24 // 32 base64url characters

var ErrInvalidName = errors.New("a valid key name is required")

type Service struct {
	repo *repositories.APIKeyRepository
	cost int
}

func NewService(repo *repositories.APIKeyRepository, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, cost: bcryptCost}
}

// Issue generates a new API key for the owner and persists only its bcrypt
// hash. The returned plaintext is handed to the caller exactly once; no
// code path can reconstruct it afterwards.
func (s *Service) Issue(ownerID, name string) (string, *models.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, ErrInvalidName
	}

	body := make([]byte, randomBodyBytes)
	if _, err := rand.Read(body); err != nil {
		return "", nil, err
	}
	plaintext := keyPrefix + base64.RawURLEncoding.EncodeToString(body)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", nil, err
	}

	key := &models.APIKey{
		OwnerID: ownerID,
		Name:    name,
		KeyHash: string(hash),
	}
	if err := s.repo.Create(key); err != nil {
		return "", nil, err
	}

	return plaintext, key, nil
}

// ResolveOwner maps a presented plaintext key to its owner, or reports that
// no active key matches. Active hashes are snapshotted once and compared in
// turn; bcrypt's comparison is constant time per hash. The scan is O(n)
// with one expensive comparison each, which holds up to a few thousand
// active keys per deployment. Past that, index candidates by a fast hash of
// the key prefix instead of widening this loop.
func (s *Service) ResolveOwner(presented string) (string, bool, error) {
	records, err := s.repo.ListActive()
	if err != nil {
		return "", false, err
	}

	for _, rec := range records {
		if bcrypt.CompareHashAndPassword([]byte(rec.KeyHash), []byte(presented)) == nil {
			// Record last use off the request path, scoped to the
			// single matched row.
			go func(id string) {
				if err := s.repo.UpdateLastUsed(id); err != nil {
					log.Error().Err(err).Str("key_id", id).Msg("failed to record key use")
				}
			}(rec.ID)
			return rec.OwnerID, true, nil
		}
	}
	return "", false, nil
}

// List returns the owner's key metadata; hashes never leave the repository.
func (s *Service) List(ownerID string) ([]*models.APIKey, error) {
	return s.repo.ListByOwner(ownerID)
}

// SetActive toggles a key for its owner. Revocation flips a boolean rather
// than deleting the row, so it is reversible. A false return means no row
// matched, whether because the id is unknown or because it belongs to
// someone else.
func (s *Service) SetActive(keyID, ownerID string, active bool) (bool, error) {
	return s.repo.SetActive(keyID, ownerID, active)
}
