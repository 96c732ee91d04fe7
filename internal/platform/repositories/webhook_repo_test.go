package repositories

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"hookwire/internal/platform/models"
)

func setupWebhookDB(t *testing.T) *WebhookRepository {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	query := `
	CREATE TABLE webhook_credentials (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		destination_url TEXT NOT NULL,
		secret TEXT NOT NULL,
		trigger_event TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return NewWebhookRepository(db)
}

func seedHook(t *testing.T, repo *WebhookRepository, owner, event string) *models.WebhookCredential {
	t.Helper()
	hook := &models.WebhookCredential{
		OwnerID:        owner,
		DestinationURL: "https://hooks.example.com/in",
		Secret:         "ciphertext",
		TriggerEvent:   event,
	}
	if err := repo.Create(hook); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return hook
}

func TestWebhookGetByIDScopedToOwner(t *testing.T) {
	repo := setupWebhookDB(t)
	hook := seedHook(t, repo, "user1", "task.completed")

	got, err := repo.GetByID(hook.ID, "user1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.ID != hook.ID {
		t.Fatalf("got %+v, want id %s", got, hook.ID)
	}

	other, err := repo.GetByID(hook.ID, "user2")
	if err != nil {
		t.Fatalf("GetByID other owner: %v", err)
	}
	if other != nil {
		t.Error("foreign owner could read the credential")
	}
}

func TestWebhookListActiveByEvent(t *testing.T) {
	repo := setupWebhookDB(t)

	match := seedHook(t, repo, "user1", "task.completed")
	seedHook(t, repo, "user1", "task.failed")
	seedHook(t, repo, "user2", "task.completed")
	revoked := seedHook(t, repo, "user1", "task.completed")
	if ok, err := repo.SetActive(revoked.ID, "user1", false); err != nil || !ok {
		t.Fatalf("SetActive: ok=%v err=%v", ok, err)
	}

	hooks, err := repo.ListActiveByEvent("user1", "task.completed")
	if err != nil {
		t.Fatalf("ListActiveByEvent: %v", err)
	}
	if len(hooks) != 1 {
		t.Fatalf("got %d hooks, want 1", len(hooks))
	}
	if hooks[0].ID != match.ID {
		t.Errorf("got hook %s, want %s", hooks[0].ID, match.ID)
	}
}

func TestWebhookDeleteWrongOwner(t *testing.T) {
	repo := setupWebhookDB(t)
	hook := seedHook(t, repo, "user1", "task.completed")

	ok, err := repo.Delete(hook.ID, "user2")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok {
		t.Error("delete succeeded for a foreign owner")
	}

	still, err := repo.GetByID(hook.ID, "user1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if still == nil {
		t.Fatal("credential was removed despite owner mismatch")
	}

	ok, err = repo.Delete(hook.ID, "user1")
	if err != nil || !ok {
		t.Fatalf("owner delete: ok=%v err=%v", ok, err)
	}
}

func TestWebhookSetActiveReversible(t *testing.T) {
	repo := setupWebhookDB(t)
	hook := seedHook(t, repo, "user1", "task.completed")

	if ok, _ := repo.SetActive(hook.ID, "user1", false); !ok {
		t.Fatal("deactivate failed")
	}
	hooks, _ := repo.ListActiveByEvent("user1", "task.completed")
	if len(hooks) != 0 {
		t.Fatalf("deactivated hook still listed: %d", len(hooks))
	}

	if ok, _ := repo.SetActive(hook.ID, "user1", true); !ok {
		t.Fatal("reactivate failed")
	}
	hooks, _ = repo.ListActiveByEvent("user1", "task.completed")
	if len(hooks) != 1 {
		t.Fatalf("reactivated hook not listed: %d", len(hooks))
	}
}
