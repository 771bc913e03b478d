package infrastructure

import (
	"context"
	"fmt"

	"github.com/ppalone/ytsearch"
	"github.com/raitonoberu/ytmusic"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"golang.org/x/time/rate"
)

const (
	youTubeMusicWatchURL = "https://music.youtube.com/watch?v="
	youTubeWatchURL      = "https://www.youtube.com/watch?v="
)

// NewSearchLimiter returns a limiter shared by every fallback searcher.
func NewSearchLimiter(perSecond float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// searchFunc queries a catalog. It may ignore ctx; callers bound it.
type searchFunc func(ctx context.Context, query string) (*ports.SearchHit, error)

// catalogSearcher adapts a catalog search to ports.FallbackSearcher.
type catalogSearcher struct {
	name    string
	limiter *rate.Limiter
	search  searchFunc
}

var _ ports.FallbackSearcher = (*catalogSearcher)(nil)

// NewYouTubeMusicSearcher searches YouTube Music tracks.
func NewYouTubeMusicSearcher(limiter *rate.Limiter) ports.FallbackSearcher {
	return &catalogSearcher{
		name:    "YouTube Music",
		limiter: limiter,
		search:  searchYouTubeMusic,
	}
}

// NewYouTubeSearcher searches YouTube videos.
func NewYouTubeSearcher(limiter *rate.Limiter) ports.FallbackSearcher {
	client := ytsearch.NewClient(nil)
	return &catalogSearcher{
		name:    "YouTube",
		limiter: limiter,
		search: func(ctx context.Context, query string) (*ports.SearchHit, error) {
			res, err := client.Search(ctx, query)
			if err != nil {
				return nil, err
			}
			for _, v := range res.Results {
				if v.VideoID == "" {
					continue
				}
				return &ports.SearchHit{
					URL:    youTubeWatchURL + v.VideoID,
					Title:  v.Title,
					Author: v.Channel,
				}, nil
			}
			return nil, nil
		},
	}
}

func searchYouTubeMusic(_ context.Context, query string) (*ports.SearchHit, error) {
	res, err := ytmusic.TrackSearch(query).Next()
	if err != nil {
		return nil, err
	}
	for _, v := range res.Tracks {
		if v.VideoID == "" {
			continue
		}
		hit := &ports.SearchHit{
			URL:   youTubeMusicWatchURL + v.VideoID,
			Title: v.Title,
		}
		if len(v.Artists) > 0 {
			hit.Author = v.Artists[0].Name
		}
		return hit, nil
	}
	return nil, nil
}

// Name returns the catalog name shown to users.
func (s *catalogSearcher) Name() string {
	return s.name
}

// Search waits for the shared limiter and returns the first playable hit, or
// nil if the catalog has none.
func (s *catalogSearcher) Search(ctx context.Context, query string) (*ports.SearchHit, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s search rate limited: %w", s.name, err)
		}
	}

	type result struct {
		hit *ports.SearchHit
		err error
	}
	done := make(chan result, 1)
	go func() {
		hit, err := s.search(ctx, query)
		done <- result{hit, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%s search failed: %w", s.name, r.err)
		}
		return r.hit, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%s search cancelled: %w", s.name, ctx.Err())
	}
}
