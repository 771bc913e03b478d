package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// DefaultResolveTimeout bounds a single resolver call.
const DefaultResolveTimeout = 10 * time.Second

// ResolveInput contains the input for the Resolve use case.
type ResolveInput struct {
	Query       string
	RequesterID snowflake.ID
}

// ResolveOutput contains the result of the Resolve use case.
type ResolveOutput struct {
	Tracks       []*domain.Track
	PlaylistName string // empty unless a whole playlist was loaded
	ResolvedBy   string // name of the fallback searcher, if one was used
}

// TrackLoaderService turns user queries into annotated tracks.
type TrackLoaderService struct {
	trackResolver ports.TrackResolver
	fallbacks     []ports.FallbackSearcher
	searchPrefix  string
	timeout       time.Duration
}

// NewTrackLoaderService creates a new TrackLoaderService. Fallback searchers
// are tried in order when the primary resolver has nothing for a search term.
func NewTrackLoaderService(
	trackResolver ports.TrackResolver,
	searchPrefix string,
	timeout time.Duration,
	fallbacks ...ports.FallbackSearcher,
) *TrackLoaderService {
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	return &TrackLoaderService{
		trackResolver: trackResolver,
		fallbacks:     fallbacks,
		searchPrefix:  searchPrefix,
		timeout:       timeout,
	}
}

// Resolve loads the tracks a query refers to and annotates them with the requester.
func (s *TrackLoaderService) Resolve(ctx context.Context, input ResolveInput) (*ResolveOutput, error) {
	query := domain.NewSearchQuery(input.Query, s.searchPrefix)
	if !query.IsValid() {
		return nil, ErrNoResults
	}

	result, primaryErr := s.load(ctx, query.BackendQuery())
	if primaryErr == nil {
		infos, playlistName := selectTracks(result)
		if len(infos) > 0 {
			return &ResolveOutput{
				Tracks:       s.newTracks(infos, input.RequesterID),
				PlaylistName: playlistName,
			}, nil
		}
	} else {
		slog.Warn("primary resolver failed", "query", query.Query, "error", primaryErr)
	}

	// Links are not searched for elsewhere.
	if !query.IsURL {
		if output := s.resolveFallback(ctx, query.Query, input.RequesterID); output != nil {
			return output, nil
		}
	}

	if primaryErr != nil {
		return nil, primaryErr
	}
	return nil, ErrNoResults
}

func (s *TrackLoaderService) resolveFallback(
	ctx context.Context,
	term string,
	requesterID snowflake.ID,
) *ResolveOutput {
	for _, searcher := range s.fallbacks {
		searchCtx, cancel := context.WithTimeout(ctx, s.timeout)
		hit, err := searcher.Search(searchCtx, term)
		cancel()
		if err != nil {
			slog.Warn("fallback search failed", "searcher", searcher.Name(), "query", term, "error", err)
			continue
		}
		if hit == nil || hit.URL == "" {
			continue
		}

		result, err := s.load(ctx, hit.URL)
		if err != nil {
			slog.Warn("failed to load fallback hit",
				"searcher", searcher.Name(),
				"url", hit.URL,
				"error", err,
			)
			continue
		}
		infos, _ := selectTracks(result)
		if len(infos) == 0 {
			continue
		}

		track := s.newTracks(infos[:1], requesterID)[0]
		track = track.WithResolved(searcher.Name(), hit.Title, hit.Author, hit.URL)

		slog.Debug("resolved query through fallback",
			"searcher", searcher.Name(),
			"query", term,
			"url", hit.URL,
		)

		return &ResolveOutput{
			Tracks:     []*domain.Track{track},
			ResolvedBy: searcher.Name(),
		}
	}
	return nil
}

func (s *TrackLoaderService) load(ctx context.Context, query string) (*ports.LoadResult, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.trackResolver.LoadTracks(loadCtx, query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(loadCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %w", ErrResolveTimeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty response", ErrResolveFailed)
	}
	if result.Type == ports.LoadTypeError {
		return nil, fmt.Errorf("%w: %s", ErrResolveFailed, result.Message)
	}
	return result, nil
}

func (s *TrackLoaderService) newTracks(infos []domain.TrackInfo, requesterID snowflake.ID) []*domain.Track {
	tracks := make([]*domain.Track, len(infos))
	for i, info := range infos {
		tracks[i] = domain.NewTrack(domain.TrackID(uuid.NewString()), info, requesterID)
	}
	return tracks
}

// selectTracks picks what to enqueue from a load result: the first candidate
// of a search, the selected entry of a playlist, or the whole playlist.
func selectTracks(result *ports.LoadResult) ([]domain.TrackInfo, string) {
	if result == nil || len(result.Tracks) == 0 {
		return nil, ""
	}

	switch result.Type {
	case ports.LoadTypeTrack, ports.LoadTypeSearch:
		return result.Tracks[:1], ""
	case ports.LoadTypePlaylist:
		if i := result.SelectedIndex; i >= 0 && i < len(result.Tracks) {
			return result.Tracks[i : i+1], ""
		}
		return result.Tracks, result.PlaylistName
	default:
		return nil, ""
	}
}
