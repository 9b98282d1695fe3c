package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/VolleyStudios/VolleyBotGo/pkg/stats"
	"github.com/VolleyStudios/VolleyBotGo/pkg/store"
)

func newTestServer(t *testing.T) (*Server, *stats.Engine) {
	t.Helper()

	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	engine, err := stats.NewEngine(s)
	if err != nil {
		t.Fatalf("stats.NewEngine: %v", err)
	}

	srv := NewServer()
	SetupAPIRoutes(srv, engine)
	return srv, engine
}

func TestHealthRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %q, want %q", body["status"], "healthy")
	}
}

func TestTeamsRouteReflectsRegisteredMatches(t *testing.T) {
	srv, engine := newTestServer(t)

	if _, _, err := engine.RegisterMatch("Halcones", "Tigres", 3, 1); err != nil {
		t.Fatalf("RegisterMatch: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/teams", nil)
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Teams map[string]struct {
			Played int `json:"jugados"`
			Won    int `json:"ganados"`
		} `json:"teams"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	halcones, ok := body.Teams["Halcones"]
	if !ok {
		t.Fatal("Halcones missing from teams response")
	}
	if halcones.Played != 1 || halcones.Won != 1 {
		t.Errorf("Halcones = %+v, want played=1 won=1", halcones)
	}
}

func TestMatchesRouteLimit(t *testing.T) {
	srv, engine := newTestServer(t)

	for i := 0; i < 15; i++ {
		if _, _, err := engine.RegisterMatch("A", "B", i, 0); err != nil {
			t.Fatalf("RegisterMatch: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats/matches?limit=5", nil)
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Total   int               `json:"total"`
		Matches []json.RawMessage `json:"matches"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if body.Total != 15 {
		t.Errorf("total = %d, want 15", body.Total)
	}
	if len(body.Matches) != 5 {
		t.Errorf("matches length = %d, want 5", len(body.Matches))
	}
}

func TestUnknownRouteReturns404JSON(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	srv.Engine().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
