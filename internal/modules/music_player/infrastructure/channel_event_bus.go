package infrastructure

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event handling.
// Publishing never blocks, so player contexts can publish while serving a command.
type ChannelEventBus struct {
	trackStarted chan domain.TrackStartedEvent
	trackEnded   chan domain.TrackEndedEvent

	trackStartedHandlers []func(context.Context, domain.TrackStartedEvent)
	trackEndedHandlers   []func(context.Context, domain.TrackEndedEvent)

	dropped atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		trackStarted: make(chan domain.TrackStartedEvent, bufferSize),
		trackEnded:   make(chan domain.TrackEndedEvent, bufferSize),
		ctx:          ctx,
		cancel:       cancel,
	}

	bus.wg.Add(2)
	go dispatch(bus, bus.trackStarted, func() []func(context.Context, domain.TrackStartedEvent) {
		return bus.trackStartedHandlers
	})
	go dispatch(bus, bus.trackEnded, func() []func(context.Context, domain.TrackEndedEvent) {
		return bus.trackEndedHandlers
	})

	return bus
}

// dispatch delivers events from ch to the handlers registered at delivery time.
func dispatch[E any](
	b *ChannelEventBus,
	ch <-chan E,
	handlers func() []func(context.Context, E),
) {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			b.mu.RLock()
			hs := handlers()
			b.mu.RUnlock()
			for _, handler := range hs {
				handler(b.ctx, event)
			}
		}
	}
}

// publish sends event to ch without blocking; the event is dropped when the buffer is full.
func publish[E any](b *ChannelEventBus, ch chan<- E, kind string, guildID any, event E) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", kind)
		return
	}

	select {
	case ch <- event:
		slog.Debug("published event", "type", kind, "guild", guildID)
	default:
		b.dropped.Add(1)
		slog.Warn("event buffer full, dropping event", "type", kind, "guild", guildID)
	}
}

// Dropped returns how many events were discarded because a buffer was full.
func (b *ChannelEventBus) Dropped() uint64 {
	return b.dropped.Load()
}

// PublishTrackStarted publishes a TrackStartedEvent.
func (b *ChannelEventBus) PublishTrackStarted(event domain.TrackStartedEvent) {
	publish(b, b.trackStarted, "TrackStarted", event.GuildID, event)
}

// PublishTrackEnded publishes a TrackEndedEvent.
func (b *ChannelEventBus) PublishTrackEnded(event domain.TrackEndedEvent) {
	publish(b, b.trackEnded, "TrackEnded", event.GuildID, event)
}

// OnTrackStarted registers a handler for TrackStartedEvent.
func (b *ChannelEventBus) OnTrackStarted(handler func(context.Context, domain.TrackStartedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackStartedHandlers = append(b.trackStartedHandlers, handler)
}

// OnTrackEnded registers a handler for TrackEndedEvent.
func (b *ChannelEventBus) OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackEndedHandlers = append(b.trackEndedHandlers, handler)
}

// Close closes all event channels and stops dispatchers.
// After calling Close, publishing will no longer send events.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()

	close(b.trackStarted)
	close(b.trackEnded)

	b.wg.Wait()

	slog.Debug("channel event bus closed")
}
