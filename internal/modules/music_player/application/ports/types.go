package ports

import "github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"

// LoadResult represents the result of loading tracks.
type LoadResult struct {
	Type         LoadType
	Tracks       []domain.TrackInfo
	PlaylistName string

	// SelectedIndex is the playlist entry the URL pointed at, or -1 when the
	// whole playlist was requested.
	SelectedIndex int

	// Message carries the backend's explanation for LoadTypeError.
	Message string
}

// LoadType represents the type of load result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// SearchHit is a fallback search result.
type SearchHit struct {
	URL    string
	Title  string
	Author string
}
