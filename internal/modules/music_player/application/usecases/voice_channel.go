package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/player"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
	VoiceChannelID        snowflake.ID // Optional: specific channel to join (0 means use user's channel)
	Locale                string
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
	Created        bool // a new session was established
}

// LeaveInput contains the input for the Leave use case.
type LeaveInput struct {
	GuildID snowflake.ID
}

// BotVoiceStateChangeInput contains the input for handling bot voice state changes.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID *snowflake.ID // nil means disconnected
}

// VoiceChannelService handles voice channel operations.
type VoiceChannelService struct {
	registry        *player.Registry
	voiceConnection ports.VoiceConnection
	voiceState      ports.VoiceStateProvider
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(
	registry *player.Registry,
	voiceConnection ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
) *VoiceChannelService {
	return &VoiceChannelService{
		registry:        registry,
		voiceConnection: voiceConnection,
		voiceState:      voiceState,
	}
}

// Join joins the bot to a voice channel, creating the guild's session.
// Joining another channel while connected moves the session and keeps its queue.
func (v *VoiceChannelService) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	voiceChannelID := input.VoiceChannelID
	if voiceChannelID == 0 {
		userChannel, err := v.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user voice channel: %w", err)
		}
		if userChannel == 0 {
			return nil, ErrUserNotInVoice
		}
		voiceChannelID = userChannel
	}

	pc, created := v.registry.GetOrCreate(input.GuildID, domain.SessionContext{
		VoiceChannelID:        voiceChannelID,
		NotificationChannelID: input.NotificationChannelID,
		Locale:                input.Locale,
	})

	if !created {
		return v.move(ctx, pc, input, voiceChannelID)
	}

	if err := v.voiceConnection.JoinChannel(ctx, input.GuildID, voiceChannelID); err != nil {
		v.registry.Remove(input.GuildID, pc)
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	pc.MarkConnected()

	slog.Info("joined voice channel", "guild", input.GuildID, "channel", voiceChannelID)

	return &JoinOutput{VoiceChannelID: voiceChannelID, Created: true}, nil
}

func (v *VoiceChannelService) move(
	ctx context.Context,
	pc *player.PlayerContext,
	input JoinInput,
	voiceChannelID snowflake.ID,
) (*JoinOutput, error) {
	session, err := pc.Session(ctx)
	if err != nil {
		return nil, err
	}

	if session.VoiceChannelID == voiceChannelID {
		if err := updateNotificationChannel(ctx, pc, input.NotificationChannelID); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyConnected
	}

	if err := v.voiceConnection.JoinChannel(ctx, input.GuildID, voiceChannelID); err != nil {
		return nil, fmt.Errorf("failed to move to voice channel: %w", err)
	}

	err = pc.UpdateSession(ctx, func(s *domain.SessionContext) {
		s.VoiceChannelID = voiceChannelID
		if input.NotificationChannelID != 0 {
			s.NotificationChannelID = input.NotificationChannelID
		}
	})
	if err != nil {
		return nil, err
	}

	return &JoinOutput{VoiceChannelID: voiceChannelID}, nil
}

// Leave leaves the voice channel and tears down the guild's session.
func (v *VoiceChannelService) Leave(ctx context.Context, input LeaveInput) error {
	pc, ok := v.registry.Get(input.GuildID)
	if !ok {
		return ErrNotConnected
	}

	if err := v.voiceConnection.LeaveChannel(ctx, input.GuildID); err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}

	v.registry.Remove(input.GuildID, pc)

	slog.Info("left voice channel", "guild", input.GuildID)

	return nil
}

// HandleBotVoiceStateChange handles external voice state changes (bot moved or disconnected).
// This should be called when the bot's voice state changes due to external factors
// (e.g., being moved by a user or disconnected by Discord).
func (v *VoiceChannelService) HandleBotVoiceStateChange(
	ctx context.Context,
	input BotVoiceStateChangeInput,
) {
	pc, ok := v.registry.Get(input.GuildID)
	if !ok {
		return
	}

	if input.NewChannelID == nil {
		// A disconnect seen while the join handshake is still running belongs
		// to the previous connection.
		if !pc.Connected() {
			return
		}
		if v.registry.Remove(input.GuildID, pc) {
			slog.Info("bot was disconnected from voice, session closed", "guild", input.GuildID)
		}
		return
	}

	err := pc.UpdateSession(ctx, func(s *domain.SessionContext) {
		s.VoiceChannelID = *input.NewChannelID
	})
	if err != nil {
		slog.Error("failed to update voice channel", "guild", input.GuildID, "error", err)
	}
}

// Shutdown tears down every session.
func (v *VoiceChannelService) Shutdown() {
	v.registry.CloseAll()
}

func updateNotificationChannel(
	ctx context.Context,
	pc *player.PlayerContext,
	channelID snowflake.ID,
) error {
	if channelID == 0 {
		return nil
	}
	return pc.UpdateSession(ctx, func(s *domain.SessionContext) {
		s.NotificationChannelID = channelID
	})
}
