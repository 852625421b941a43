package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/example/movie-memo/services/moviememo/internal/prefs"
)

func TestGetPrefs_RequiresSession(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/prefs", nil)
	GetPrefs(prefs.NewMemoryStore(), zap.NewNop()).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestPrefs_RoundTrip(t *testing.T) {
	store := prefs.NewMemoryStore()
	log := zap.NewNop()

	body := `{"query":"dune","filters":{"genre":"878"},"sort":"rating","page":2,"view_mode":"list","dark_mode":true}`
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodPut, "/v1/prefs", body, nil)
	PutPrefs(store, log).ServeHTTP(rr, withSession(req, "client-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/prefs", nil)
	GetPrefs(store, log).ServeHTTP(rr, withSession(req, "client-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var p prefs.Preferences
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p.Query != "dune" || p.Filters.Genre != "878" || !p.DarkMode {
		t.Fatalf("unexpected prefs: %+v", p)
	}
}

func TestGetPrefs_FreshClientGetsDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/prefs", nil)
	GetPrefs(prefs.NewMemoryStore(), zap.NewNop()).ServeHTTP(rr, withSession(req, "client-9"))

	var p prefs.Preferences
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if p != prefs.Defaults() {
		t.Fatalf("expected defaults, got %+v", p)
	}
}
