package ports

import (
	"context"
)

// TrackResolver defines the interface for loading/searching tracks.
type TrackResolver interface {
	// LoadTracks resolves a URL or a prefixed search query.
	LoadTracks(ctx context.Context, query string) (*LoadResult, error)
}

// FallbackSearcher finds a playable URL for a search term when the primary
// resolver has nothing.
type FallbackSearcher interface {
	// Name identifies the searcher in annotations and logs.
	Name() string

	// Search returns the best hit for query, or nil if there is none.
	Search(ctx context.Context, query string) (*SearchHit, error)
}
