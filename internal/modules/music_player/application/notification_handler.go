package application

import (
	"context"
	"log/slog"

	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// NotificationEventHandler relays playback events to the guild's notification channel.
// Auto-advance has no user command behind it, so this is the only way users
// learn that the next track started or that the queue ran out.
type NotificationEventHandler struct {
	subscriber ports.EventSubscriber
	notifier   ports.NotificationSender
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
func NewNotificationEventHandler(
	subscriber ports.EventSubscriber,
	notifier ports.NotificationSender,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		subscriber: subscriber,
		notifier:   notifier,
	}
}

// Start registers event handlers with the subscriber.
func (h *NotificationEventHandler) Start() {
	h.subscriber.OnTrackStarted(h.handleTrackStarted)
	h.subscriber.OnTrackEnded(h.handleTrackEnded)

	slog.Debug("notification event handlers properly registered")
}

func (h *NotificationEventHandler) handleTrackStarted(
	_ context.Context,
	event domain.TrackStartedEvent,
) {
	channelID := event.Session.NotificationChannelID
	if channelID == 0 || event.Track == nil {
		return
	}

	slog.Debug("sending now playing notification", "guild", event.GuildID, "track", event.Track.ID)

	if err := h.notifier.SendNowPlaying(channelID, event.Track, event.Looped); err != nil {
		slog.Error(
			"failed to send now playing notification",
			"guild", event.GuildID,
			"channel", channelID,
			"error", err,
		)
	}
}

func (h *NotificationEventHandler) handleTrackEnded(
	_ context.Context,
	event domain.TrackEndedEvent,
) {
	channelID := event.Session.NotificationChannelID
	if channelID == 0 {
		return
	}

	if event.AdvanceErr != nil {
		err := h.notifier.SendError(channelID, "Couldn't start the next track. Use /play to try again.")
		if err != nil {
			slog.Error("failed to send advance error", "guild", event.GuildID, "channel", channelID, "error", err)
		}
		return
	}

	if !event.QueueDrained() {
		return
	}

	if err := h.notifier.SendQueueFinished(channelID); err != nil {
		slog.Error(
			"failed to send queue finished notification",
			"guild", event.GuildID,
			"channel", channelID,
			"error", err,
		)
	}
}
