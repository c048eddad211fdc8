package routes_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"stockroom-backend/api/routes"
	archivesvc "stockroom-backend/internal/archive"
	worklistsvc "stockroom-backend/internal/worklist"
	"stockroom-backend/pkg/config"
	"stockroom-backend/pkg/logger"
)

const testAPIKey = "router-test-key"

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubWorklist struct{}

func (stubWorklist) AddLine(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*worklistsvc.Line, error) {
	return &worklistsvc.Line{ProductID: productID, Quantity: quantity}, nil
}

func (stubWorklist) GetLines(context.Context, int64) ([]worklistsvc.Line, error) {
	return []worklistsvc.Line{}, nil
}

func (stubWorklist) Department(context.Context, int64) (*int, error) { return nil, nil }

func (stubWorklist) UpdateLineQuantity(ctx context.Context, userID int64, productID uuid.UUID, quantity int) (*worklistsvc.Line, error) {
	return &worklistsvc.Line{ProductID: productID, Quantity: quantity}, nil
}

func (stubWorklist) RemoveLine(context.Context, int64, uuid.UUID) error { return nil }

func (stubWorklist) Clear(context.Context, int64) error { return nil }

type stubArchive struct{}

func (stubArchive) ListByUser(context.Context, int64) ([]archivesvc.ListDTO, error) {
	return []archivesvc.ListDTO{}, nil
}

func (stubArchive) UsersWithArchives(context.Context) ([]int64, error) {
	return []int64{7}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Gateway.APIKey = testAPIKey

	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel, Output: io.Discard})

	router := routes.NewRouter(routes.Deps{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        stubPinger{},
		RedisPinger:     stubPinger{},
		WorklistService: stubWorklist{},
		ArchiveService:  stubArchive{},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthEndpointsAreOpen(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200 got %d", path, resp.StatusCode)
		}
		if got := resp.Header.Get("X-Stockroom-Env"); got != "test" {
			t.Fatalf("GET %s: expected env header got %q", path, got)
		}
	}
}

func TestBusinessRoutesRequireAPIKey(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/worklist?user_id=7")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatal(err)
	}
	if envelope.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("expected UNAUTHORIZED got %q", envelope.Error.Code)
	}
}

func TestBusinessRoutesAcceptConfiguredKey(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/worklist?user_id=7", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Api-Key", testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("expected a request id header on routed responses")
	}
}

func TestArchiveRouteIsWired(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/archives?user_id=7", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Api-Key", testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
}
