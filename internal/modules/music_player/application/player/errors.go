package player

import "errors"

var (
	// ErrBackendUnavailable is returned when the audio backend rejected or failed a command.
	ErrBackendUnavailable = errors.New("the audio backend is unavailable")

	// ErrSessionClosed is returned when a command reaches a player context that was torn down.
	ErrSessionClosed = errors.New("the player session was closed")

	// ErrNotReady is returned when playback is requested before the voice connection is ready.
	ErrNotReady = errors.New("still connecting to the voice channel")

	// ErrInternal is returned when a command broke an internal invariant.
	ErrInternal = errors.New("internal player error")
)
