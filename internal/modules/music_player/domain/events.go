package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the track was stopped by a command.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the backend cleaned up the player.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvanceQueue returns true if this end reason should advance the queue.
// Stopped and replaced tracks are ended by our own commands, which already
// moved the player on.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// SessionContext is the per-guild presentation context attached when a session
// is created.
type SessionContext struct {
	VoiceChannelID        snowflake.ID
	NotificationChannelID snowflake.ID
	Locale                string
}

// TrackStartedEvent is published when the backend confirms a track began playing.
type TrackStartedEvent struct {
	GuildID snowflake.ID
	Session SessionContext
	Track   *Track
	PlayID  PlayID
	Looped  bool // the track is a loop replay of the previous one
}

// TrackEndedEvent is published when the current track ended on its own and the
// player tried to advance.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	Session SessionContext
	Track   *Track
	Reason  TrackEndReason
	Next    *Track // nil when the queue was drained

	// AdvanceErr is set when the next track could not be started. The track
	// stays at the head of the queue.
	AdvanceErr error
}

// QueueDrained reports whether the player went idle after this track because
// nothing was left to play.
func (e TrackEndedEvent) QueueDrained() bool {
	return e.Next == nil && e.AdvanceErr == nil
}
