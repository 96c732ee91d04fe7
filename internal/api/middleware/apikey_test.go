package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	apiContext "hookwire/internal/api/context"
	"hookwire/internal/engine/keys"
	"hookwire/internal/platform/repositories"
)

const activeKeysQuery = "SELECT id, owner_id, key_hash FROM api_keys WHERE is_active = 1"

func TestAPIKeyMiddlewareValidKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	token := "sk_ai_test-token"
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "owner_id", "key_hash"}).
		AddRow("key_1", "user_42", string(hash))
	mock.ExpectQuery(activeKeysQuery).WillReturnRows(rows)
	mock.ExpectExec("UPDATE api_keys SET last_used_at").
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := keys.NewService(repositories.NewAPIKeyRepository(db), bcrypt.MinCost)
	m := NewAPIKeyMiddleware(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	var gotOwner string
	handler := m.Handle(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = r.Context().Value(apiContext.OwnerID).(string)
		w.WriteHeader(http.StatusOK)
	})
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if gotOwner != "user_42" {
		t.Errorf("owner id = %q, want user_42", gotOwner)
	}

	// The last-used write happens off the request path.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mock.ExpectationsWereMet() == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("unmet expectations: %v", mock.ExpectationsWereMet())
}

func TestAPIKeyMiddlewareUnknownKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("sk_ai_someone-else"), bcrypt.MinCost)
	rows := sqlmock.NewRows([]string{"id", "owner_id", "key_hash"}).
		AddRow("key_1", "user_42", string(hash))
	mock.ExpectQuery(activeKeysQuery).WillReturnRows(rows)

	svc := keys.NewService(repositories.NewAPIKeyRepository(db), bcrypt.MinCost)
	m := NewAPIKeyMiddleware(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/test", nil)
	req.Header.Set("Authorization", "Bearer sk_ai_wrong")

	rr := httptest.NewRecorder()
	handler := m.Handle(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be called")
	})
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestAPIKeyMiddlewareMissingHeader(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	svc := keys.NewService(repositories.NewAPIKeyRepository(db), bcrypt.MinCost)
	m := NewAPIKeyMiddleware(svc)

	for _, header := range []string{"", "Token abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		rr := httptest.NewRecorder()
		handler := m.Handle(func(w http.ResponseWriter, r *http.Request) {
			t.Error("Handler should not be called")
		})
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rr.Code)
		}
	}
}
