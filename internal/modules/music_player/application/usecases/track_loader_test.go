package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

func trackIDsOf(tracks []*domain.Track) []string {
	ids := make([]string, len(tracks))
	for i, track := range tracks {
		ids[i] = track.Info.Identifier
	}
	return ids
}

func TestTrackLoaderService_Resolve(t *testing.T) {
	playlist := func(selected int) *ports.LoadResult {
		r := trackResult("p1", "p2", "p3")
		r.Type = ports.LoadTypePlaylist
		r.PlaylistName = "Mix"
		r.SelectedIndex = selected
		return r
	}

	tests := []struct {
		name         string
		query        string
		results      map[string]*ports.LoadResult
		wantIDs      []string
		wantPlaylist string
		wantErr      error
	}{
		{
			name:    "search takes the first candidate",
			query:   "some song",
			results: map[string]*ports.LoadResult{"dzsearch:some song": trackResult("a", "b", "c")},
			wantIDs: []string{"a"},
		},
		{
			name:    "single track URL",
			query:   "https://example.com/a",
			results: map[string]*ports.LoadResult{"https://example.com/a": trackResult("a")},
			wantIDs: []string{"a"},
		},
		{
			name:         "playlist without selection",
			query:        "https://example.com/list",
			results:      map[string]*ports.LoadResult{"https://example.com/list": playlist(-1)},
			wantIDs:      []string{"p1", "p2", "p3"},
			wantPlaylist: "Mix",
		},
		{
			name:    "playlist with selection",
			query:   "https://example.com/list",
			results: map[string]*ports.LoadResult{"https://example.com/list": playlist(1)},
			wantIDs: []string{"p2"},
		},
		{
			name:    "playlist selecting the first entry",
			query:   "https://example.com/list",
			results: map[string]*ports.LoadResult{"https://example.com/list": playlist(0)},
			wantIDs: []string{"p1"},
		},
		{
			name:    "nothing found",
			query:   "nothing",
			wantErr: ErrNoResults,
		},
		{
			name:    "empty query",
			query:   "<>",
			wantErr: ErrNoResults,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for query, result := range tt.results {
				f.resolver.results[query] = result
			}

			out, err := f.loader.Resolve(context.Background(), ResolveInput{
				Query:       tt.query,
				RequesterID: testUserID,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr != nil {
				return
			}

			got := trackIDsOf(out.Tracks)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("expected tracks %v, got %v", tt.wantIDs, got)
			}
			for i := range got {
				if got[i] != tt.wantIDs[i] {
					t.Errorf("expected tracks %v, got %v", tt.wantIDs, got)
					break
				}
			}
			if out.PlaylistName != tt.wantPlaylist {
				t.Errorf("expected playlist name %q, got %q", tt.wantPlaylist, out.PlaylistName)
			}
			for _, track := range out.Tracks {
				if track.Annotation.RequesterID != testUserID {
					t.Errorf("expected requester %d on %s, got %d",
						testUserID, track.Info.Identifier, track.Annotation.RequesterID)
				}
				if track.ID == "" {
					t.Error("expected every track to get an ID")
				}
			}
		})
	}
}

func TestTrackLoaderService_ResolveStripsAngleBrackets(t *testing.T) {
	f := newFixture(t)
	f.resolver.results["https://x/y"] = trackResult("a")

	if _, err := f.loader.Resolve(context.Background(), ResolveInput{Query: "<https://x/y>"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queries := f.resolver.recordedQueries()
	if len(queries) != 1 || queries[0] != "https://x/y" {
		t.Errorf("expected resolver to receive https://x/y, got %v", queries)
	}
}

func TestTrackLoaderService_ResolveErrors(t *testing.T) {
	t.Run("resolver failure", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.loadErr = errors.New("connection refused")

		_, err := f.loader.Resolve(context.Background(), ResolveInput{Query: "https://example.com/a"})
		if !errors.Is(err, ErrResolveFailed) {
			t.Errorf("expected ErrResolveFailed, got %v", err)
		}
	})

	t.Run("backend error result", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.results["https://example.com/a"] = &ports.LoadResult{
			Type:    ports.LoadTypeError,
			Message: "video unavailable",
		}

		_, err := f.loader.Resolve(context.Background(), ResolveInput{Query: "https://example.com/a"})
		if !errors.Is(err, ErrResolveFailed) {
			t.Errorf("expected ErrResolveFailed, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		f := newFixture(t)
		f.resolver.block = true

		_, err := f.loader.Resolve(context.Background(), ResolveInput{Query: "https://example.com/a"})
		if !errors.Is(err, ErrResolveTimeout) {
			t.Errorf("expected ErrResolveTimeout, got %v", err)
		}
	})
}

func TestTrackLoaderService_Fallback(t *testing.T) {
	failing := &mockFallbackSearcher{name: "first", err: errors.New("rate limited")}
	empty := &mockFallbackSearcher{name: "second"}
	hitting := &mockFallbackSearcher{
		name: "third",
		hit: &ports.SearchHit{
			URL:    "https://youtube.com/watch?v=abc",
			Title:  "Real Title",
			Author: "Real Artist",
		},
	}

	f := newFixture(t, failing, empty, hitting)
	f.resolver.results["https://youtube.com/watch?v=abc"] = trackResult("yt")

	out, err := f.loader.Resolve(context.Background(), ResolveInput{
		Query:       "obscure song",
		RequesterID: testUserID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.ResolvedBy != "third" {
		t.Errorf("expected resolver third, got %q", out.ResolvedBy)
	}
	if len(out.Tracks) != 1 {
		t.Fatalf("expected 1 track, got %d", len(out.Tracks))
	}

	track := out.Tracks[0]
	if track.Info.Title != "Real Title" || track.Info.Author != "Real Artist" {
		t.Errorf("expected fallback metadata, got %q by %q", track.Info.Title, track.Info.Author)
	}
	if track.Info.URI != "https://youtube.com/watch?v=abc" {
		t.Errorf("expected fallback URI, got %q", track.Info.URI)
	}
	if !track.Annotation.IsFallback() || track.Annotation.RequesterID != testUserID {
		t.Errorf("unexpected annotation: %+v", track.Annotation)
	}

	for _, s := range []*mockFallbackSearcher{failing, empty, hitting} {
		if len(s.queries) != 1 || s.queries[0] != "obscure song" {
			t.Errorf("searcher %s: expected query %q, got %v", s.name, "obscure song", s.queries)
		}
	}
}

func TestTrackLoaderService_FallbackAfterPrimaryFailure(t *testing.T) {
	searcher := &mockFallbackSearcher{name: "yt", hit: &ports.SearchHit{URL: "https://youtube.com/watch?v=x"}}
	f := newFixture(t, searcher)
	f.resolver.loadErr = errors.New("node down")

	_, err := f.loader.Resolve(context.Background(), ResolveInput{Query: "song"})
	if !errors.Is(err, ErrResolveFailed) {
		t.Errorf("expected primary failure to surface, got %v", err)
	}
	if len(searcher.queries) != 1 {
		t.Errorf("expected fallback to be tried, got %d searches", len(searcher.queries))
	}
}

func TestTrackLoaderService_NoFallbackForURLs(t *testing.T) {
	searcher := &mockFallbackSearcher{name: "yt"}
	f := newFixture(t, searcher)

	_, err := f.loader.Resolve(context.Background(), ResolveInput{Query: "https://example.com/missing"})
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("expected ErrNoResults, got %v", err)
	}
	if len(searcher.queries) != 0 {
		t.Errorf("expected no fallback search for a URL, got %v", searcher.queries)
	}
}
