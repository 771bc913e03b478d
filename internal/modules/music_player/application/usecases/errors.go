package usecases

import "errors"

// Errors for the music player use cases.
var (
	// ErrNotConnected is returned when an operation requires the bot to be in a voice channel.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrAlreadyConnected is returned when joining the channel the bot is already in.
	ErrAlreadyConnected = errors.New("already connected to this voice channel")

	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = errors.New("you must be in a voice channel")

	// ErrNoResults is returned when no resolver found anything for a query.
	ErrNoResults = errors.New("no results found")

	// ErrResolveFailed is returned when the resolver failed to load a query.
	ErrResolveFailed = errors.New("failed to resolve query")

	// ErrResolveTimeout is returned when the resolver did not answer in time.
	ErrResolveTimeout = errors.New("timed out resolving query")
)
