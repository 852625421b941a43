package tmdb

import "context"

// Catalog is the port for read-only movie metadata lookups.
type Catalog interface {
	GetMovie(ctx context.Context, movieID int) (*Movie, error)
	GetWatchProviders(ctx context.Context, movieID int) (*RegionProviders, error)
	Search(ctx context.Context, query string, page int) (*SearchPage, error)
	Suggest(ctx context.Context, query string) ([]Suggestion, error)
	PosterURL(m *Movie) string
	BackdropURL(m *Movie) string
	LogoURL(path string) string
}
