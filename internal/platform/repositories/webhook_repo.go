package repositories

import (
	"database/sql"
	"time"

	"hookwire/internal/platform/models"

	"github.com/google/uuid"
)

type WebhookRepository struct {
	db *sql.DB
}

func NewWebhookRepository(db *sql.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Create(hook *models.WebhookCredential) error {
	if hook.ID == "" {
		hook.ID = "wh_" + uuid.New().String()
	}
	now := time.Now().Unix()
	hook.CreatedAt = now
	hook.UpdatedAt = now
	hook.IsActive = true

	query := `
		INSERT INTO webhook_credentials (id, owner_id, destination_url, secret, trigger_event, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, hook.ID, hook.OwnerID, hook.DestinationURL, hook.Secret, hook.TriggerEvent, hook.IsActive, hook.CreatedAt, hook.UpdatedAt)
	return err
}

func (r *WebhookRepository) GetByID(id, ownerID string) (*models.WebhookCredential, error) {
	query := `
		SELECT id, owner_id, destination_url, secret, trigger_event, is_active, created_at, updated_at
		FROM webhook_credentials WHERE id = ? AND owner_id = ?
	`
	var w models.WebhookCredential
	err := r.db.QueryRow(query, id, ownerID).
		Scan(&w.ID, &w.OwnerID, &w.DestinationURL, &w.Secret, &w.TriggerEvent, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *WebhookRepository) ListByOwner(ownerID string) ([]*models.WebhookCredential, error) {
	query := `
		SELECT id, owner_id, destination_url, secret, trigger_event, is_active, created_at, updated_at
		FROM webhook_credentials WHERE owner_id = ? ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hooks []*models.WebhookCredential
	for rows.Next() {
		var w models.WebhookCredential
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.DestinationURL, &w.Secret, &w.TriggerEvent, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		hooks = append(hooks, &w)
	}
	return hooks, rows.Err()
}

// ListActiveByEvent returns the owner's active hooks registered for the
// given trigger event. Inactive hooks are never dispatched.
func (r *WebhookRepository) ListActiveByEvent(ownerID, event string) ([]*models.WebhookCredential, error) {
	query := `
		SELECT id, owner_id, destination_url, secret, trigger_event, is_active, created_at, updated_at
		FROM webhook_credentials WHERE owner_id = ? AND trigger_event = ? AND is_active = 1
	`
	rows, err := r.db.Query(query, ownerID, event)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hooks []*models.WebhookCredential
	for rows.Next() {
		var w models.WebhookCredential
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.DestinationURL, &w.Secret, &w.TriggerEvent, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		hooks = append(hooks, &w)
	}
	return hooks, rows.Err()
}

func (r *WebhookRepository) SetActive(id, ownerID string, active bool) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE webhook_credentials SET is_active = ?, updated_at = ? WHERE id = ? AND owner_id = ?`,
		active, time.Now().Unix(), id, ownerID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete hard-deletes the credential by owner request. Like every mutation
// here, it is filtered by owner_id server-side.
func (r *WebhookRepository) Delete(id, ownerID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM webhook_credentials WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
