package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/player"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/usecases"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorNotice  = 0xF1C40F
	colorError   = 0xE74C3C
)

// trackLink renders a track as [`author - title`](<uri>), or just the code
// span when the track has no link. The angle brackets suppress Discord's embed.
func trackLink(track *domain.Track) string {
	name := fmt.Sprintf("`%s`", track.DisplayName())
	if track.Info.URI == "" {
		return name
	}
	return fmt.Sprintf("[%s](<%s>)", name, track.Info.URI)
}

// formatQueue renders a queue listing: the now-playing line, then one line per
// listed track as "N -> track".
func formatQueue(out *usecases.QueueListOutput) string {
	var sb strings.Builder

	sb.WriteString("Now playing: ")
	if out.CurrentTrack == nil {
		sb.WriteString("Nothing")
	} else {
		seconds := int(out.Position.Seconds())
		fmt.Fprintf(&sb, "%s | %s (Second %d)",
			trackLink(out.CurrentTrack),
			domain.FormatClock(out.Position, false),
			seconds,
		)
		if out.Status == usecases.StatusPaused {
			sb.WriteString(" (paused)")
		}
	}
	if out.LoopEnabled {
		sb.WriteString("\n\U0001F502 Looping the current track") // 🔂
	}
	sb.WriteString("\n\n")

	if len(out.Tracks) == 0 {
		sb.WriteString("Empty queue")
		return sb.String()
	}

	lines := lo.Map(out.Tracks, func(track *domain.Track, i int) string {
		return fmt.Sprintf("%d -> %s", i+1, trackLink(track))
	})
	sb.WriteString(strings.Join(lines, "\n"))

	if hidden := out.TotalTracks - len(out.Tracks); hidden > 0 {
		fmt.Fprintf(&sb, "\n*...and %d more*", hidden)
	}

	return sb.String()
}

// formatEnqueued describes what a /play call added or started.
func formatEnqueued(out *usecases.PlayOutput) string {
	var sb strings.Builder

	switch {
	case out.PlaylistName != "":
		fmt.Fprintf(&sb, "Added **%d tracks** from playlist **%s** to the queue.",
			len(out.Tracks), out.PlaylistName)
	case out.Started != nil:
		fmt.Fprintf(&sb, "Now playing %s.", trackLink(out.Started))
	case len(out.Tracks) > 0:
		fmt.Fprintf(&sb, "Added %s to the queue at position %d.", trackLink(out.Tracks[0]), out.Position)
	}

	if out.ResolvedBy != "" {
		fmt.Fprintf(&sb, "\n-# Found via %s", out.ResolvedBy)
	}
	return sb.String()
}

// errorMessage maps an error to the text shown to the user and the embed color.
// ok is false for errors the user can't act on; those are logged by the caller.
func errorMessage(err error) (msg string, color int, ok bool) {
	if domain.IsNotice(err) {
		return capitalize(err.Error()) + ".", colorNotice, true
	}

	known := []error{
		usecases.ErrNotConnected,
		usecases.ErrAlreadyConnected,
		usecases.ErrUserNotInVoice,
		usecases.ErrNoResults,
		usecases.ErrResolveFailed,
		usecases.ErrResolveTimeout,
		domain.ErrIndexOutOfRange,
		domain.ErrSameIndex,
		domain.ErrSeekOutOfRange,
		domain.ErrNotSeekable,
	}
	for _, k := range known {
		if errors.Is(err, k) {
			return capitalize(k.Error()) + ".", colorError, true
		}
	}

	if errors.Is(err, player.ErrNotReady) {
		return "Still connecting to the voice channel. The queue starts once connected.", colorNotice, true
	}
	if errors.Is(err, player.ErrBackendUnavailable) {
		return "The audio backend is unavailable. Try again in a moment.", colorError, false
	}
	return "Something went wrong while processing your command.", colorError, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
