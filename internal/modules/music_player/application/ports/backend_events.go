package ports

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// BackendEventHandler receives asynchronous events from the audio backend.
// Implementations must tolerate duplicated and out-of-order events.
type BackendEventHandler interface {
	// OnReady is called once the voice connection of a guild was handed to the backend.
	OnReady(guildID snowflake.ID)

	// OnTrackStart is called when the backend started rendering a playback.
	OnTrackStart(guildID snowflake.ID, playID domain.PlayID)

	// OnTrackEnd is called when a playback stopped rendering.
	OnTrackEnd(guildID snowflake.ID, playID domain.PlayID, reason domain.TrackEndReason)
}
