package usecases

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/player"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// DefaultListSize is how many queued tracks a listing shows.
const DefaultListSize = 10

// QueueListOutput contains the result of the QueueList use case.
type QueueListOutput struct {
	Status       domain.PlaybackStatus
	CurrentTrack *domain.Track
	Position     time.Duration
	LoopEnabled  bool
	Tracks       []*domain.Track // at most DefaultListSize entries
	TotalTracks  int
}

// QueueRemoveInput contains the input for the QueueRemove use case.
type QueueRemoveInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
	Index                 int          // 1-based
}

// QueueSwapInput contains the input for the QueueSwap use case.
type QueueSwapInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
	First                 int          // 1-based
	Second                int          // 1-based
}

// QueueSwapOutput contains the result of the QueueSwap use case.
type QueueSwapOutput struct {
	First  *domain.Track // track that was at the first index
	Second *domain.Track // track that was at the second index
}

// QueueService handles queue operations.
type QueueService struct {
	registry *player.Registry
}

// NewQueueService creates a new QueueService.
func NewQueueService(registry *player.Registry) *QueueService {
	return &QueueService{registry: registry}
}

// List returns the current track and the head of the queue.
func (q *QueueService) List(ctx context.Context, input GuildInput) (*QueueListOutput, error) {
	pc, err := getSession(ctx, q.registry, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return nil, err
	}

	snap, err := pc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	tracks := snap.Tracks
	if len(tracks) > DefaultListSize {
		tracks = tracks[:DefaultListSize]
	}

	return &QueueListOutput{
		Status:       snap.Status,
		CurrentTrack: snap.Current,
		Position:     snap.Position,
		LoopEnabled:  snap.LoopEnabled,
		Tracks:       tracks,
		TotalTracks:  len(snap.Tracks),
	}, nil
}

// Remove removes the track at a 1-based queue index.
func (q *QueueService) Remove(ctx context.Context, input QueueRemoveInput) (*domain.Track, error) {
	pc, err := getSession(ctx, q.registry, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return nil, err
	}
	return pc.RemoveAt(ctx, input.Index)
}

// Swap exchanges the tracks at two 1-based queue indexes.
func (q *QueueService) Swap(ctx context.Context, input QueueSwapInput) (*QueueSwapOutput, error) {
	pc, err := getSession(ctx, q.registry, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return nil, err
	}

	first, second, err := pc.SwapAt(ctx, input.First, input.Second)
	if err != nil {
		return nil, err
	}
	return &QueueSwapOutput{First: first, Second: second}, nil
}

// Shuffle randomizes the queue and returns how many tracks it holds.
func (q *QueueService) Shuffle(ctx context.Context, input GuildInput) (int, error) {
	pc, err := getSession(ctx, q.registry, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return 0, err
	}
	return pc.Shuffle(ctx)
}

// Clear removes every queued track. The current track keeps playing.
func (q *QueueService) Clear(ctx context.Context, input GuildInput) (int, error) {
	pc, err := getSession(ctx, q.registry, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return 0, err
	}
	return pc.Clear(ctx)
}
