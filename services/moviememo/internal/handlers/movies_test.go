package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/movie-memo/services/moviememo/internal/tmdb"
)

type stubCatalog struct {
	movie        *tmdb.Movie
	movieErr     error
	movieCalls   int
	providers    *tmdb.RegionProviders
	providersErr error
	page         *tmdb.SearchPage
	searchErr    error
	searchCalls  int
	suggestions  []tmdb.Suggestion
	suggestCalls int
}

func (s *stubCatalog) GetMovie(context.Context, int) (*tmdb.Movie, error) {
	s.movieCalls++
	return s.movie, s.movieErr
}

func (s *stubCatalog) GetWatchProviders(context.Context, int) (*tmdb.RegionProviders, error) {
	return s.providers, s.providersErr
}

func (s *stubCatalog) Search(context.Context, string, int) (*tmdb.SearchPage, error) {
	s.searchCalls++
	return s.page, s.searchErr
}

func (s *stubCatalog) Suggest(context.Context, string) ([]tmdb.Suggestion, error) {
	s.suggestCalls++
	return s.suggestions, nil
}

func (s *stubCatalog) PosterURL(m *tmdb.Movie) string {
	if m.PosterPath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/w500" + m.PosterPath
}

func (s *stubCatalog) BackdropURL(m *tmdb.Movie) string {
	if m.BackdropPath == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/original" + m.BackdropPath
}

func (s *stubCatalog) LogoURL(path string) string {
	if path == "" {
		return ""
	}
	return "https://image.tmdb.org/t/p/w92" + path
}

func TestGetMovie_OK(t *testing.T) {
	stub := &stubCatalog{movie: &tmdb.Movie{
		ID:         550,
		Title:      "ファイト・クラブ",
		Overview:   "男が出会ったのは",
		PosterPath: "/poster.jpg",
	}}
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodGet, "/v1/movies/550", "", map[string]string{"movie_id": "550"})
	GetMovie(stub, NewNoopCache(), nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp movieResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID != 550 || resp.Title != "ファイト・クラブ" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.PosterURL != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Fatalf("unexpected poster url %q", resp.PosterURL)
	}
	if !resp.JapaneseOverview {
		t.Fatal("expected japanese_overview=true for a Japanese overview")
	}
}

func TestGetMovie_EnglishOverviewFlagged(t *testing.T) {
	stub := &stubCatalog{movie: &tmdb.Movie{ID: 550, Overview: "A man meets a soap salesman."}}
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodGet, "/v1/movies/550", "", map[string]string{"movie_id": "550"})
	GetMovie(stub, NewNoopCache(), nil).ServeHTTP(rr, req)

	var resp movieResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.JapaneseOverview {
		t.Fatal("expected japanese_overview=false for an English overview")
	}
}

func TestGetMovie_InvalidID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodGet, "/v1/movies/abc", "", map[string]string{"movie_id": "abc"})
	GetMovie(&stubCatalog{}, NewNoopCache(), nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetMovie_UpstreamNotFound(t *testing.T) {
	stub := &stubCatalog{movieErr: fmt.Errorf("wrapped: %w", tmdb.ErrNotFound)}
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodGet, "/v1/movies/42", "", map[string]string{"movie_id": "42"})
	GetMovie(stub, NewNoopCache(), nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetMovie_UpstreamDown(t *testing.T) {
	stub := &stubCatalog{movieErr: errors.New("connection refused")}
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodGet, "/v1/movies/42", "", map[string]string{"movie_id": "42"})
	GetMovie(stub, NewNoopCache(), nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rr.Code)
	}
	if code := decodeErrCode(t, rr); code != "UPSTREAM_UNAVAILABLE" {
		t.Fatalf("expected UPSTREAM_UNAVAILABLE, got %q", code)
	}
}

func TestGetMovie_SecondRequestServedFromCache(t *testing.T) {
	stub := &stubCatalog{movie: &tmdb.Movie{ID: 550, Title: "Fight Club"}}
	cache := NewTTLCache(60, nil, "")
	handler := GetMovie(stub, cache, nil)

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		req := chiReq(http.MethodGet, "/v1/movies/550", "", map[string]string{"movie_id": "550"})
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rr.Code)
		}
	}
	if stub.movieCalls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", stub.movieCalls)
	}
}

func TestGetWatchProviders_NoListing(t *testing.T) {
	stub := &stubCatalog{providers: nil}
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodGet, "/v1/movies/550/providers", "", map[string]string{"movie_id": "550"})
	GetWatchProviders(stub, NewNoopCache()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp providersResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Available || len(resp.Flatrate) != 0 {
		t.Fatalf("expected empty unavailable listing, got %+v", resp)
	}
}

func TestGetWatchProviders_WithListing(t *testing.T) {
	stub := &stubCatalog{providers: &tmdb.RegionProviders{
		Link: "https://example.com/jp/550",
		Flatrate: []tmdb.Provider{
			{ProviderID: 8, ProviderName: "Netflix", LogoPath: "/n.jpg"},
		},
	}}
	rr := httptest.NewRecorder()
	req := chiReq(http.MethodGet, "/v1/movies/550/providers", "", map[string]string{"movie_id": "550"})
	GetWatchProviders(stub, NewNoopCache()).ServeHTTP(rr, req)

	var resp providersResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Available || len(resp.Flatrate) != 1 {
		t.Fatalf("unexpected listing: %+v", resp)
	}
	if resp.Flatrate[0].LogoURL != "https://image.tmdb.org/t/p/w92/n.jpg" {
		t.Fatalf("unexpected logo url %q", resp.Flatrate[0].LogoURL)
	}
}

func TestSearchMovies_MissingQuery(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies/search", nil)
	SearchMovies(&stubCatalog{}, NewNoopCache(), nil).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSearchMovies_OK(t *testing.T) {
	stub := &stubCatalog{page: &tmdb.SearchPage{
		Page:       1,
		TotalPages: 3,
		Results:    []tmdb.SearchHit{{ID: 550, Title: "Fight Club"}},
	}}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies/search?q=fight", nil)
	SearchMovies(stub, NewNoopCache(), nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp tmdb.SearchPage
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalPages != 3 || len(resp.Results) != 1 {
		t.Fatalf("unexpected page: %+v", resp)
	}
}

func TestSuggestMovies_ShortQuerySkipsCatalog(t *testing.T) {
	stub := &stubCatalog{}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies/suggest?q=a", nil)
	SuggestMovies(stub, NewNoopCache()).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Suggestions []tmdb.Suggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %d", len(resp.Suggestions))
	}
	if stub.suggestCalls != 0 {
		t.Fatalf("short query must not reach the catalog, got %d calls", stub.suggestCalls)
	}
}

func TestSuggestMovies_OK(t *testing.T) {
	stub := &stubCatalog{suggestions: []tmdb.Suggestion{
		{ID: 550, Title: "Fight Club", ReleaseYear: 1999},
	}}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies/suggest?q=fight", nil)
	SuggestMovies(stub, NewNoopCache()).ServeHTTP(rr, req)

	var resp struct {
		Suggestions []tmdb.Suggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Suggestions) != 1 || resp.Suggestions[0].ReleaseYear != 1999 {
		t.Fatalf("unexpected suggestions: %+v", resp.Suggestions)
	}
}
