package domain

import "time"

// PlayID identifies one playback of a track. A track replayed by a loop gets a
// new PlayID, so backend events can be matched to the exact playback.
type PlayID string

// PlaybackStatus is the coarse state of a guild player.
type PlaybackStatus string

const (
	StatusIdle    PlaybackStatus = "idle"
	StatusPlaying PlaybackStatus = "playing"
	StatusPaused  PlaybackStatus = "paused"
)

// PlayerState is the playback snapshot of a guild.
// Invariant: current is nil if and only if nothing is rendering.
type PlayerState struct {
	current *Track
	playID  PlayID
	started bool // backend confirmed that the current play began

	paused bool

	// Position is tracked as a base plus the time elapsed since the last
	// (re)start. resumedAt is zero while paused or idle.
	positionBase time.Duration
	resumedAt    time.Time

	loopEnabled bool

	now func() time.Time
}

// NewPlayerState creates an idle PlayerState.
func NewPlayerState() *PlayerState {
	return &PlayerState{now: time.Now}
}

// NewPlayerStateWithClock creates an idle PlayerState that reads time from now.
func NewPlayerStateWithClock(now func() time.Time) *PlayerState {
	return &PlayerState{now: now}
}

// Status returns the coarse playback status.
func (p *PlayerState) Status() PlaybackStatus {
	switch {
	case p.current == nil:
		return StatusIdle
	case p.paused:
		return StatusPaused
	default:
		return StatusPlaying
	}
}

// IsIdle returns true if no track is current.
func (p *PlayerState) IsIdle() bool {
	return p.current == nil
}

// Current returns the current track, or nil when idle.
func (p *PlayerState) Current() *Track {
	return p.current
}

// PlayID returns the id of the current playback, or "" when idle.
func (p *PlayerState) PlayID() PlayID {
	return p.playID
}

// IsPaused returns true if playback is paused.
func (p *PlayerState) IsPaused() bool {
	return p.paused
}

// Started reports whether the backend confirmed the current playback.
func (p *PlayerState) Started() bool {
	return p.started
}

// MarkStarted records the backend's confirmation of the current playback.
// It returns false if id is not the current playback or it was already marked.
func (p *PlayerState) MarkStarted(id PlayID) bool {
	if p.current == nil || id != p.playID || p.started {
		return false
	}
	p.started = true
	return true
}

// Start makes track the current one under the given play id.
// It fails with ErrAlreadyPlaying if a track is already current.
func (p *PlayerState) Start(track *Track, id PlayID) error {
	if p.current != nil {
		return ErrAlreadyPlaying
	}
	p.current = track
	p.playID = id
	p.started = false
	p.paused = false
	p.positionBase = 0
	p.resumedAt = p.now()
	return nil
}

// Clear drops the current track and returns it. The player becomes idle.
func (p *PlayerState) Clear() *Track {
	prev := p.current
	p.current = nil
	p.playID = ""
	p.started = false
	p.paused = false
	p.positionBase = 0
	p.resumedAt = time.Time{}
	return prev
}

// Pause marks playback as paused and freezes the position.
func (p *PlayerState) Pause() error {
	if p.current == nil {
		return ErrNothingPlaying
	}
	if p.paused {
		return ErrAlreadyPaused
	}
	p.positionBase = p.Position()
	p.resumedAt = time.Time{}
	p.paused = true
	return nil
}

// Resume continues a paused playback.
func (p *PlayerState) Resume() error {
	if p.current == nil {
		return ErrNothingPlaying
	}
	if !p.paused {
		return ErrNotPaused
	}
	p.paused = false
	p.resumedAt = p.now()
	return nil
}

// ValidateSeek checks that position is a legal seek target for the current track.
func (p *PlayerState) ValidateSeek(position time.Duration) error {
	if p.current == nil {
		return ErrNothingPlaying
	}
	if !p.current.CanSeek() {
		return ErrNotSeekable
	}
	if position < 0 || position > p.current.Info.Duration {
		return ErrSeekOutOfRange
	}
	return nil
}

// Seek moves the playback position of the current track.
func (p *PlayerState) Seek(position time.Duration) error {
	if err := p.ValidateSeek(position); err != nil {
		return err
	}
	p.positionBase = position
	if !p.paused {
		p.resumedAt = p.now()
	}
	return nil
}

// Position returns the playback position of the current track, capped at its duration.
func (p *PlayerState) Position() time.Duration {
	if p.current == nil {
		return 0
	}
	pos := p.positionBase
	if !p.paused && !p.resumedAt.IsZero() {
		pos += p.now().Sub(p.resumedAt)
	}
	if d := p.current.Info.Duration; !p.current.Info.IsStream && d > 0 && pos > d {
		pos = d
	}
	return pos
}

// LoopEnabled returns true if finished tracks are replayed.
func (p *PlayerState) LoopEnabled() bool {
	return p.loopEnabled
}

// SetLoop enables or disables looping and reports whether the flag changed.
func (p *PlayerState) SetLoop(enabled bool) bool {
	changed := p.loopEnabled != enabled
	p.loopEnabled = enabled
	return changed
}
