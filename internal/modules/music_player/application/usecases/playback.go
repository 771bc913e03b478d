package usecases

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/player"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// PlayInput contains the input for the Play use case.
type PlayInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID // requester; also used to find a channel to join
	NotificationChannelID snowflake.ID
	Locale                string
	Query                 string // empty resumes the queue
}

// PlayOutput contains the result of the Play use case.
type PlayOutput struct {
	Tracks       []*domain.Track // enqueued tracks, nil for the resume flow
	PlaylistName string
	ResolvedBy   string
	Joined       bool

	// Position is the 1-based queue position of the first enqueued track,
	// or 0 if it started playing right away.
	Position int

	// Started is the track that started playing because of this call, if any.
	Started *domain.Track
}

// GuildInput is the input of use cases that only need the guild.
type GuildInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
}

// SeekInput contains the input for the Seek use case.
type SeekInput struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID // Optional: updates notification channel if non-zero
	Seconds               int
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	SkippedTrack *domain.Track
	NextTrack    *domain.Track // nil if queue is empty
}

// PlaybackService handles playback operations.
type PlaybackService struct {
	registry *player.Registry
	loader   *TrackLoaderService
	voice    *VoiceChannelService
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	registry *player.Registry,
	loader *TrackLoaderService,
	voice *VoiceChannelService,
) *PlaybackService {
	return &PlaybackService{
		registry: registry,
		loader:   loader,
		voice:    voice,
	}
}

// Play resolves a query and enqueues the result, joining the caller's voice
// channel when the guild has no session. An empty query resumes the queue.
func (p *PlaybackService) Play(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return p.resumeQueue(ctx, input)
	}

	// Resolving happens before touching the session so a slow resolver never
	// holds up other commands for the guild.
	resolved, err := p.loader.Resolve(ctx, ResolveInput{
		Query:       input.Query,
		RequesterID: input.UserID,
	})
	if err != nil {
		return nil, err
	}

	pc, joined, err := p.session(ctx, input)
	if err != nil {
		return nil, err
	}

	result, err := pc.Enqueue(ctx, resolved.Tracks)
	if err != nil {
		return nil, err
	}

	return &PlayOutput{
		Tracks:       resolved.Tracks,
		PlaylistName: resolved.PlaylistName,
		ResolvedBy:   resolved.ResolvedBy,
		Joined:       joined,
		Position:     result.Position,
		Started:      result.Started,
	}, nil
}

// session returns the guild's player context, joining the caller's channel if needed.
func (p *PlaybackService) session(
	ctx context.Context,
	input PlayInput,
) (*player.PlayerContext, bool, error) {
	if pc, ok := p.registry.Get(input.GuildID); ok {
		if err := updateNotificationChannel(ctx, pc, input.NotificationChannelID); err != nil {
			return nil, false, err
		}
		return pc, false, nil
	}

	out, err := p.voice.Join(ctx, JoinInput{
		GuildID:               input.GuildID,
		UserID:                input.UserID,
		NotificationChannelID: input.NotificationChannelID,
		Locale:                input.Locale,
	})
	if err != nil && !errors.Is(err, ErrAlreadyConnected) {
		return nil, false, err
	}

	pc, ok := p.registry.Get(input.GuildID)
	if !ok {
		return nil, false, ErrNotConnected
	}
	return pc, out != nil && out.Created, nil
}

func (p *PlaybackService) resumeQueue(ctx context.Context, input PlayInput) (*PlayOutput, error) {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return nil, err
	}

	started, err := pc.ResumeQueue(ctx)
	if err != nil {
		return nil, err
	}
	return &PlayOutput{Started: started}, nil
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, input GuildInput) error {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return err
	}
	return pc.Pause(ctx)
}

// Resume resumes the paused playback.
func (p *PlaybackService) Resume(ctx context.Context, input GuildInput) error {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return err
	}
	return pc.Resume(ctx)
}

// maxSeekSeconds is the largest second that converts to a time.Duration.
const maxSeekSeconds = math.MaxInt64 / int(time.Second)

// Seek moves the current track to the given second.
func (p *PlaybackService) Seek(ctx context.Context, input SeekInput) error {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return err
	}
	if input.Seconds < 0 || input.Seconds > maxSeekSeconds {
		return domain.ErrSeekOutOfRange
	}
	return pc.Seek(ctx, time.Duration(input.Seconds)*time.Second)
}

// Skip skips the current track and plays the next one from the queue.
// Skip always advances to the next track, even when looping.
func (p *PlaybackService) Skip(ctx context.Context, input GuildInput) (*SkipOutput, error) {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return nil, err
	}

	result, err := pc.Skip(ctx)
	if err != nil {
		return nil, err
	}
	return &SkipOutput{
		SkippedTrack: result.Skipped,
		NextTrack:    result.Next,
	}, nil
}

// Stop stops the current track without advancing the queue.
func (p *PlaybackService) Stop(ctx context.Context, input GuildInput) (*domain.Track, error) {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return nil, err
	}
	return pc.Stop(ctx)
}

// LoopStart makes finished tracks replay.
func (p *PlaybackService) LoopStart(ctx context.Context, input GuildInput) error {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return err
	}
	return pc.SetLoop(ctx, true)
}

// LoopEnd stops replaying finished tracks.
func (p *PlaybackService) LoopEnd(ctx context.Context, input GuildInput) error {
	pc, err := p.get(ctx, input.GuildID, input.NotificationChannelID)
	if err != nil {
		return err
	}
	return pc.SetLoop(ctx, false)
}

func (p *PlaybackService) get(
	ctx context.Context,
	guildID, notificationChannelID snowflake.ID,
) (*player.PlayerContext, error) {
	return getSession(ctx, p.registry, guildID, notificationChannelID)
}

// getSession returns the player context of a connected guild and records the
// channel the command came from.
func getSession(
	ctx context.Context,
	registry *player.Registry,
	guildID, notificationChannelID snowflake.ID,
) (*player.PlayerContext, error) {
	pc, ok := registry.Get(guildID)
	if !ok {
		return nil, ErrNotConnected
	}
	if err := updateNotificationChannel(ctx, pc, notificationChannelID); err != nil {
		return nil, err
	}
	return pc, nil
}
