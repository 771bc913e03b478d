package ports

import (
	"context"

	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// EventSubscriber defines the interface for subscribing to outbound notifications.
type EventSubscriber interface {
	OnTrackStarted(handler func(context.Context, domain.TrackStartedEvent))
	OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent))
}
