package ports

import "github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"

// EventPublisher defines the interface for publishing outbound notifications.
// Publishing never blocks the caller.
type EventPublisher interface {
	PublishTrackStarted(event domain.TrackStartedEvent)
	PublishTrackEnded(event domain.TrackEndedEvent)
}
