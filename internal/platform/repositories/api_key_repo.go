package repositories

import (
	"database/sql"
	"time"

	"hookwire/internal/platform/models"

	"github.com/google/uuid"
)

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Create(key *models.APIKey) error {
	if key.ID == "" {
		key.ID = "key_" + uuid.New().String()
	}
	key.CreatedAt = time.Now().Unix()
	key.IsActive = true

	query := `
		INSERT INTO api_keys (id, owner_id, name, key_hash, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, key.ID, key.OwnerID, key.Name, key.KeyHash, key.IsActive, key.CreatedAt)
	return err
}

// ListActive returns the verification snapshot: id, owner and hash of every
// active key across all owners, fetched once per request so concurrent
// comparisons never share a live cursor.
func (r *APIKeyRepository) ListActive() ([]*models.ActiveKey, error) {
	rows, err := r.db.Query(`SELECT id, owner_id, key_hash FROM api_keys WHERE is_active = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.ActiveKey
	for rows.Next() {
		var k models.ActiveKey
		if err := rows.Scan(&k.ID, &k.OwnerID, &k.KeyHash); err != nil {
			return nil, err
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// ListByOwner returns non-secret metadata only; key_hash is never selected.
func (r *APIKeyRepository) ListByOwner(ownerID string) ([]*models.APIKey, error) {
	query := `
		SELECT id, name, is_active, created_at, last_used_at
		FROM api_keys WHERE owner_id = ? ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		var lastUsedAt sql.NullInt64
		if err := rows.Scan(&k.ID, &k.Name, &k.IsActive, &k.CreatedAt, &lastUsedAt); err != nil {
			return nil, err
		}
		if lastUsedAt.Valid {
			k.LastUsedAt = new(int64)
			*k.LastUsedAt = lastUsedAt.Int64
		}
		k.OwnerID = ownerID
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// SetActive toggles a key, but only when the row belongs to ownerID. The
// ownership filter lives in the WHERE clause so a mismatch is
// indistinguishable from a key that does not exist.
func (r *APIKeyRepository) SetActive(id, ownerID string, active bool) (bool, error) {
	res, err := r.db.Exec(`UPDATE api_keys SET is_active = ? WHERE id = ? AND owner_id = ?`, active, id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *APIKeyRepository) UpdateLastUsed(id string) error {
	_, err := r.db.Exec(`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}
