package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/movie-memo/internal/platform/config"
)

const suggestionLimit = 5

// ErrNotFound marks an id the upstream catalog does not know.
var ErrNotFound = errors.New("tmdb: not found")

type Client struct {
	BaseURL    string
	ImageURL   string
	APIKey     string
	Language   string
	Region     string
	HTTPClient *http.Client
}

func New(cfg config.TMDBConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	imageURL := cfg.ImageURL
	if imageURL == "" {
		imageURL = "https://image.tmdb.org/t/p"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ImageURL:   strings.TrimRight(imageURL, "/"),
		APIKey:     cfg.APIKey,
		Language:   cfg.Language,
		Region:     cfg.Region,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Genre is an id+name pair from the catalog's fixed genre table.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is one credited performer.
type CastMember struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is the detail record for a single catalog entry.
type Movie struct {
	ID               int          `json:"id"`
	Title            string       `json:"title"`
	Overview         string       `json:"overview"`
	ReleaseDate      string       `json:"release_date"`
	Runtime          int          `json:"runtime"`
	OriginalLanguage string       `json:"original_language"`
	Genres           []Genre      `json:"genres"`
	PosterPath       string       `json:"poster_path"`
	BackdropPath     string       `json:"backdrop_path"`
	Credits          struct {
		Cast []CastMember `json:"cast"`
	} `json:"credits"`
}

// PosterURL returns the w500 poster URL, or "" when no poster exists.
func (c *Client) PosterURL(m *Movie) string {
	if m.PosterPath == "" {
		return ""
	}
	return c.ImageURL + "/w500" + m.PosterPath
}

// BackdropURL returns the full-size backdrop URL, or "" when absent.
func (c *Client) BackdropURL(m *Movie) string {
	if m.BackdropPath == "" {
		return ""
	}
	return c.ImageURL + "/original" + m.BackdropPath
}

// LogoURL returns the w92 provider-logo URL.
func (c *Client) LogoURL(path string) string {
	if path == "" {
		return ""
	}
	return c.ImageURL + "/w92" + path
}

// Provider is one streaming provider entry in a region listing.
type Provider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

// RegionProviders is the flatrate-tier listing for a single region.
type RegionProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
}

// SearchHit is one row in a search result page.
type SearchHit struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
}

// SearchPage is one page of search results plus pagination metadata.
type SearchPage struct {
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Results    []SearchHit `json:"results"`
}

// Suggestion is a compact search hit for live type-ahead.
type Suggestion struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseYear int    `json:"release_year,omitempty"`
	PosterURL   string `json:"poster_url,omitempty"`
}

// GetMovie fetches a movie's detail record including its credited cast.
func (c *Client) GetMovie(ctx context.Context, movieID int) (*Movie, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("movieID required")
	}

	q := url.Values{}
	q.Set("api_key", c.APIKey)
	q.Set("language", c.Language)
	q.Set("append_to_response", "credits")
	rawURL := c.BaseURL + "/movie/" + strconv.Itoa(movieID) + "?" + q.Encode()

	var out Movie
	if err := c.getJSON(ctx, rawURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetWatchProviders fetches the streaming listing for the client's region.
// A movie with no listing for the region returns (nil, nil).
func (c *Client) GetWatchProviders(ctx context.Context, movieID int) (*RegionProviders, error) {
	if movieID <= 0 {
		return nil, fmt.Errorf("movieID required")
	}

	q := url.Values{}
	q.Set("api_key", c.APIKey)
	rawURL := c.BaseURL + "/movie/" + strconv.Itoa(movieID) + "/watch/providers?" + q.Encode()

	var out struct {
		Results map[string]RegionProviders `json:"results"`
	}
	if err := c.getJSON(ctx, rawURL, &out); err != nil {
		return nil, err
	}
	if region, ok := out.Results[c.Region]; ok {
		return &region, nil
	}
	return nil, nil
}

// Search queries the catalog by title and returns one result page.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	if page <= 0 {
		page = 1
	}

	q := url.Values{}
	q.Set("api_key", c.APIKey)
	q.Set("language", c.Language)
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	rawURL := c.BaseURL + "/search/movie?" + q.Encode()

	var out SearchPage
	if err := c.getJSON(ctx, rawURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Suggest returns at most five compact hits for type-ahead. Callers enforce
// the minimum query length before asking.
func (c *Client) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	page, err := c.Search(ctx, query, 1)
	if err != nil {
		return nil, err
	}

	hits := page.Results
	if len(hits) > suggestionLimit {
		hits = hits[:suggestionLimit]
	}
	out := make([]Suggestion, 0, len(hits))
	for _, h := range hits {
		s := Suggestion{ID: h.ID, Title: h.Title}
		if len(h.ReleaseDate) >= 4 {
			if y, err := strconv.Atoi(h.ReleaseDate[:4]); err == nil {
				s.ReleaseYear = y
			}
		}
		if h.PosterPath != "" {
			s.PosterURL = c.ImageURL + "/w92" + h.PosterPath
		}
		out = append(out, s)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "movie-memo/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: status 404 body=%q", ErrNotFound, string(b[:min(len(b), 200)]))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("tmdb: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return nil
}
