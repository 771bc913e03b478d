package usecases

import (
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// PlaybackStatus is re-exported for the presentation layer.
type PlaybackStatus = domain.PlaybackStatus

const (
	StatusIdle    = domain.StatusIdle
	StatusPlaying = domain.StatusPlaying
	StatusPaused  = domain.StatusPaused
)
