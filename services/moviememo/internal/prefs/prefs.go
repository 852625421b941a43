// Package prefs persists per-client UI state (last query, filters, sort,
// page, view and theme) so the home screen restores where the client
// left off. State is cosmetic; reads degrade to defaults rather than fail.
package prefs

import (
	"context"
)

// Filters mirror the search screen's filter controls.
type Filters struct {
	Genre  string `json:"genre"`
	Year   string `json:"year"`
	Rating string `json:"rating"`
}

// Preferences is the full persisted UI state for one client.
type Preferences struct {
	Query    string  `json:"query"`
	Filters  Filters `json:"filters"`
	Sort     string  `json:"sort"`
	Page     int     `json:"page"`
	ViewMode string  `json:"view_mode"`
	DarkMode bool    `json:"dark_mode"`
}

// Defaults is the state every client starts from.
func Defaults() Preferences {
	return Preferences{
		Sort:     "relevance",
		Page:     1,
		ViewMode: "grid",
	}
}

// Store persists preferences per client.
type Store interface {
	// Get returns the client's saved preferences, or Defaults when
	// nothing has been saved yet.
	Get(ctx context.Context, clientID string) (Preferences, error)
	// Put replaces the client's saved preferences.
	Put(ctx context.Context, clientID string, p Preferences) error
}

// New returns a redis-backed store when redisURL is set, otherwise an
// in-memory one. Unlike the like ledger, losing preferences is harmless,
// so memory is acceptable in any environment.
func New(redisURL string) Store {
	if redisURL == "" {
		return NewMemoryStore()
	}
	return newRedisStore(redisURL)
}
