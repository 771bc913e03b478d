package player

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// DefaultEventTimeout bounds how long a backend event may wait for its player context.
const DefaultEventTimeout = 10 * time.Second

// EventBridge routes backend events to the PlayerContext of their guild.
type EventBridge struct {
	registry *Registry
	timeout  time.Duration
	stale    atomic.Uint64
}

// NewEventBridge creates a new EventBridge.
func NewEventBridge(registry *Registry, timeout time.Duration) *EventBridge {
	if timeout <= 0 {
		timeout = DefaultEventTimeout
	}
	return &EventBridge{
		registry: registry,
		timeout:  timeout,
	}
}

var _ ports.BackendEventHandler = (*EventBridge)(nil)

// StaleEvents returns how many events were discarded because they no longer
// matched the playback of their guild.
func (b *EventBridge) StaleEvents() uint64 {
	return b.stale.Load()
}

// OnReady implements ports.BackendEventHandler.
func (b *EventBridge) OnReady(guildID snowflake.ID) {
	b.dispatch(guildID, "ready", func(ctx context.Context, pc *PlayerContext) (eventOutcome, error) {
		return pc.onReady(ctx)
	})
}

// OnTrackStart implements ports.BackendEventHandler.
func (b *EventBridge) OnTrackStart(guildID snowflake.ID, playID domain.PlayID) {
	b.dispatch(guildID, "track start", func(ctx context.Context, pc *PlayerContext) (eventOutcome, error) {
		return pc.onTrackStart(ctx, playID)
	})
}

// OnTrackEnd implements ports.BackendEventHandler.
func (b *EventBridge) OnTrackEnd(
	guildID snowflake.ID,
	playID domain.PlayID,
	reason domain.TrackEndReason,
) {
	b.dispatch(guildID, "track end", func(ctx context.Context, pc *PlayerContext) (eventOutcome, error) {
		return pc.onTrackEnd(ctx, playID, reason)
	})
}

func (b *EventBridge) dispatch(
	guildID snowflake.ID,
	kind string,
	handle func(context.Context, *PlayerContext) (eventOutcome, error),
) {
	pc, ok := b.registry.Get(guildID)
	if !ok {
		b.stale.Add(1)
		slog.Debug("discarded backend event for guild without session", "guild", guildID, "event", kind)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	outcome, err := handle(ctx, pc)
	if err != nil {
		slog.Error("failed to handle backend event", "guild", guildID, "event", kind, "error", err)
		return
	}
	if outcome == eventStale {
		b.stale.Add(1)
		slog.Debug("discarded stale backend event", "guild", guildID, "event", kind)
	}
}
