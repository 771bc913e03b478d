package ports

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// NotificationSender defines the interface for sending notifications to Discord channels.
type NotificationSender interface {
	// SendNowPlaying announces that track started playing.
	SendNowPlaying(channelID snowflake.ID, track *domain.Track, looped bool) error

	// SendQueueFinished announces that the queue ran out of tracks.
	SendQueueFinished(channelID snowflake.ID) error

	// SendError sends an error message to the channel.
	SendError(channelID snowflake.ID, message string) error
}
