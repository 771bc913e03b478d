package domain

import "errors"

// User-input errors. The command is rejected and no state changes.
var (
	// ErrIndexOutOfRange is returned when a 1-based queue index is outside [1, length].
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrSameIndex is returned when a swap is asked for two equal indexes.
	ErrSameIndex = errors.New("can't swap between the same indexes")

	// ErrSeekOutOfRange is returned when a seek position is outside [0, duration].
	ErrSeekOutOfRange = errors.New("seek position out of range")

	// ErrNotSeekable is returned when the current track does not support seeking.
	ErrNotSeekable = errors.New("the current track can't be seeked")
)

// State-conflict errors. These are notices, not failures.
var (
	// ErrAlreadyPlaying is returned when starting playback while a track is current.
	ErrAlreadyPlaying = errors.New("a track is already playing")

	// ErrNothingPlaying is returned when an operation needs a current track.
	ErrNothingPlaying = errors.New("nothing is currently playing")

	// ErrNothingToSkip is returned when skipping without a current track.
	ErrNothingToSkip = errors.New("nothing to skip")

	// ErrEmptyQueue is returned when the queue has no tracks to start.
	ErrEmptyQueue = errors.New("the queue is empty")

	// ErrAlreadyEmpty is returned when clearing a queue that has no tracks.
	ErrAlreadyEmpty = errors.New("the queue is already empty")

	// ErrAlreadyPaused is returned when trying to pause while already paused.
	ErrAlreadyPaused = errors.New("playback is already paused")

	// ErrNotPaused is returned when trying to resume while not paused.
	ErrNotPaused = errors.New("playback is not paused")

	// ErrAlreadyLooping is returned when enabling a loop that is already on.
	ErrAlreadyLooping = errors.New("looping is already enabled")

	// ErrNotLooping is returned when disabling a loop that is already off.
	ErrNotLooping = errors.New("looping is not enabled")
)

var notices = []error{
	ErrAlreadyPlaying,
	ErrNothingPlaying,
	ErrNothingToSkip,
	ErrEmptyQueue,
	ErrAlreadyEmpty,
	ErrAlreadyPaused,
	ErrNotPaused,
	ErrAlreadyLooping,
	ErrNotLooping,
}

// IsNotice reports whether err is a state-conflict condition that should be
// shown to the user as information rather than as a failure.
func IsNotice(err error) bool {
	for _, n := range notices {
		if errors.Is(err, n) {
			return true
		}
	}
	return false
}
