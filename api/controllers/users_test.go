package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockroom-backend/internal/users"
	"stockroom-backend/pkg/db/models"
)

func newUsersRepo(t *testing.T) *users.Repository {
	t.Helper()
	dsn := "file:controllers_users_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return users.NewRepository(conn)
}

func usersRouter(repo *users.Repository) http.Handler {
	r := chi.NewRouter()
	r.Post("/users", UserRegister(repo, testLogger()))
	r.Get("/users/{userID}", UserGet(repo, testLogger()))
	r.Get("/admin/users", UsersList(repo, testLogger()))
	return r
}

func TestUserRegisterThenGet(t *testing.T) {
	t.Parallel()

	router := usersRouter(newUsersRepo(t))

	body := `{"user_id": 7, "username": "ann", "first_name": "Ann"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("register: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/users/7", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data struct {
			ID        int64  `json:"id"`
			FirstName string `json:"first_name"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.ID != 7 || envelope.Data.FirstName != "Ann" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestUserGetUnknownContact(t *testing.T) {
	t.Parallel()

	router := usersRouter(newUsersRepo(t))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/users/999", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestUsersListReturnsContacts(t *testing.T) {
	t.Parallel()

	router := usersRouter(newUsersRepo(t))

	for _, body := range []string{
		`{"user_id": 42, "first_name": "Bob"}`,
		`{"user_id": 7, "first_name": "Ann"}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("register: expected 200 got %d: %s", resp.Code, resp.Body.String())
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Users []struct {
				ID int64 `json:"id"`
			} `json:"users"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(envelope.Data.Users))
	}
	if envelope.Data.Users[0].ID != 42 {
		t.Fatalf("expected earliest registration first, got %d", envelope.Data.Users[0].ID)
	}
}
