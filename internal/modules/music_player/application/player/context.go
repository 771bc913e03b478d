package player

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// DefaultMailboxSize is the default number of commands that may wait for a player context.
const DefaultMailboxSize = 32

// Options configures a PlayerContext.
type Options struct {
	MailboxSize int
	Clock       func() time.Time
	NewPlayID   func() domain.PlayID
}

func (o Options) withDefaults() Options {
	if o.MailboxSize <= 0 {
		o.MailboxSize = DefaultMailboxSize
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.NewPlayID == nil {
		o.NewPlayID = func() domain.PlayID { return domain.PlayID(uuid.NewString()) }
	}
	return o
}

// command is one unit of work for the run loop. It is claimed exactly once:
// by the run loop, which executes it, or by a caller that stopped waiting,
// which withdraws it.
type command struct {
	ctx     context.Context
	claimed atomic.Bool
	run     func()
	abandon func(error)
}

func (c *command) claim() bool {
	return c.claimed.CompareAndSwap(false, true)
}

type reply[T any] struct {
	value T
	err   error
}

// eventOutcome tells the bridge what a backend event did.
type eventOutcome int

const (
	eventApplied eventOutcome = iota
	eventIgnored
	eventStale
)

// PlayerContext owns the queue and playback state of one guild.
// Every command runs on the context's own goroutine, one at a time, in
// arrival order.
type PlayerContext struct {
	guildID snowflake.ID

	// Owned by the run loop.
	session domain.SessionContext
	queue   *domain.Queue
	state   *domain.PlayerState
	ready   bool
	looped  bool // current playback is a loop replay

	connected atomic.Bool

	audio     ports.AudioPlayer
	publisher ports.EventPublisher
	newPlayID func() domain.PlayID

	mailbox   chan *command
	quit      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewPlayerContext creates a PlayerContext and starts its run loop.
func NewPlayerContext(
	guildID snowflake.ID,
	session domain.SessionContext,
	audio ports.AudioPlayer,
	publisher ports.EventPublisher,
	opts Options,
) *PlayerContext {
	opts = opts.withDefaults()

	p := &PlayerContext{
		guildID:   guildID,
		session:   session,
		queue:     domain.NewQueue(),
		state:     domain.NewPlayerStateWithClock(opts.Clock),
		audio:     audio,
		publisher: publisher,
		newPlayID: opts.NewPlayID,
		mailbox:   make(chan *command, opts.MailboxSize),
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	go p.run()

	return p
}

// GuildID returns the guild this context belongs to.
func (p *PlayerContext) GuildID() snowflake.ID {
	return p.guildID
}

// MarkConnected records that the voice connection for this session is established.
func (p *PlayerContext) MarkConnected() {
	p.connected.Store(true)
}

// Connected reports whether the voice connection was established.
func (p *PlayerContext) Connected() bool {
	return p.connected.Load()
}

// Close stops the run loop. Commands waiting for the context fail with ErrSessionClosed.
func (p *PlayerContext) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
	})
	<-p.stopped
}

func (p *PlayerContext) run() {
	defer close(p.stopped)

	for {
		select {
		case <-p.quit:
			return
		case cmd := <-p.mailbox:
			if !cmd.claim() {
				continue
			}
			if err := cmd.ctx.Err(); err != nil {
				cmd.abandon(err)
				continue
			}
			cmd.run()
		}
	}
}

func exec[T any](
	p *PlayerContext,
	ctx context.Context,
	fn func(context.Context) (T, error),
) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recovered panic in player context",
				"guild", p.guildID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			var zero T
			value, err = zero, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	return fn(ctx)
}

// call runs fn on the context's goroutine and returns its result.
// A command whose caller gave up before it started is never run. Once
// started, the caller waits for it to finish so the reported result always
// matches the state.
func call[T any](
	p *PlayerContext,
	ctx context.Context,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	replies := make(chan reply[T], 1)
	cmd := &command{ctx: ctx}
	cmd.run = func() {
		value, err := exec(p, ctx, fn)
		replies <- reply[T]{value: value, err: err}
	}
	cmd.abandon = func(err error) {
		replies <- reply[T]{err: err}
	}

	select {
	case p.mailbox <- cmd:
	case <-p.stopped:
		return zero, ErrSessionClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case r := <-replies:
		return r.value, r.err
	case <-p.stopped:
		// The run loop only exits between commands.
		select {
		case r := <-replies:
			return r.value, r.err
		default:
			return zero, ErrSessionClosed
		}
	case <-ctx.Done():
		if cmd.claim() {
			return zero, ctx.Err()
		}
		r := <-replies
		return r.value, r.err
	}
}

// do is call for commands without a result value.
func (p *PlayerContext) do(ctx context.Context, fn func(context.Context) error) error {
	_, err := call(p, ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// render issues a play command for track and makes it current.
// The previous track, if any, is replaced.
func (p *PlayerContext) render(ctx context.Context, track *domain.Track) error {
	id := p.newPlayID()
	if err := p.audio.Play(ctx, p.guildID, track, id); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	p.state.Clear()
	p.looped = false
	return p.state.Start(track, id)
}

// startNext pops the head of the queue and plays it. It returns nil when the
// queue is empty. A head that fails to play is put back.
func (p *PlayerContext) startNext(ctx context.Context) (*domain.Track, error) {
	next, ok := p.queue.PopFront()
	if !ok {
		return nil, nil
	}

	if err := p.render(ctx, next); err != nil {
		p.queue.PushFront(next)
		return nil, err
	}

	slog.Debug("started track", "guild", p.guildID, "track", next.ID, "play_id", p.state.PlayID())

	return next, nil
}

// Session returns the presentation context of the session.
func (p *PlayerContext) Session(ctx context.Context) (domain.SessionContext, error) {
	return call(p, ctx, func(context.Context) (domain.SessionContext, error) {
		return p.session, nil
	})
}

// UpdateSession applies fn to the presentation context of the session.
func (p *PlayerContext) UpdateSession(ctx context.Context, fn func(*domain.SessionContext)) error {
	return p.do(ctx, func(context.Context) error {
		fn(&p.session)
		return nil
	})
}

// Play makes track current. It is only valid while idle and once the voice
// connection is ready.
func (p *PlayerContext) Play(ctx context.Context, track *domain.Track) error {
	return p.do(ctx, func(ctx context.Context) error {
		if !p.ready {
			return ErrNotReady
		}
		if !p.state.IsIdle() {
			return domain.ErrAlreadyPlaying
		}
		return p.render(ctx, track)
	})
}

// EnqueueResult describes what Enqueue did.
type EnqueueResult struct {
	Count int

	// Position is the 1-based queue position of the first enqueued track,
	// or 0 if that track started playing.
	Position int

	// Started is the track that started playing because the player was idle.
	Started *domain.Track
}

// Enqueue appends tracks and starts playback when the player is idle.
// Nothing starts before the voice connection is ready; the ready event
// starts the queue instead.
func (p *PlayerContext) Enqueue(ctx context.Context, tracks []*domain.Track) (EnqueueResult, error) {
	return call(p, ctx, func(ctx context.Context) (EnqueueResult, error) {
		result := EnqueueResult{
			Count:    len(tracks),
			Position: p.queue.Len() + 1,
		}
		p.queue.AppendMany(tracks)

		if !p.ready || !p.state.IsIdle() {
			return result, nil
		}

		started, err := p.startNext(ctx)
		if err != nil {
			return EnqueueResult{}, err
		}
		if started != nil {
			result.Started = started
			result.Position--
		}
		return result, nil
	})
}

// ResumeQueue starts the head of the queue when nothing is playing.
func (p *PlayerContext) ResumeQueue(ctx context.Context) (*domain.Track, error) {
	return call(p, ctx, func(ctx context.Context) (*domain.Track, error) {
		if !p.ready {
			return nil, ErrNotReady
		}
		if !p.state.IsIdle() {
			return nil, domain.ErrAlreadyPlaying
		}
		if p.queue.IsEmpty() {
			return nil, domain.ErrEmptyQueue
		}
		return p.startNext(ctx)
	})
}

// Pause pauses the current track.
func (p *PlayerContext) Pause(ctx context.Context) error {
	return p.do(ctx, func(ctx context.Context) error {
		if p.state.IsIdle() {
			return domain.ErrNothingPlaying
		}
		if p.state.IsPaused() {
			return domain.ErrAlreadyPaused
		}
		if err := p.audio.Pause(ctx, p.guildID); err != nil {
			return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return p.state.Pause()
	})
}

// Resume continues the paused track.
func (p *PlayerContext) Resume(ctx context.Context) error {
	return p.do(ctx, func(ctx context.Context) error {
		if p.state.IsIdle() {
			return domain.ErrNothingPlaying
		}
		if !p.state.IsPaused() {
			return domain.ErrNotPaused
		}
		if err := p.audio.Resume(ctx, p.guildID); err != nil {
			return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return p.state.Resume()
	})
}

// Seek moves the position of the current track. Positions outside
// [0, duration] are rejected.
func (p *PlayerContext) Seek(ctx context.Context, position time.Duration) error {
	return p.do(ctx, func(ctx context.Context) error {
		if err := p.state.ValidateSeek(position); err != nil {
			return err
		}
		if err := p.audio.Seek(ctx, p.guildID, position); err != nil {
			return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return p.state.Seek(position)
	})
}

// SkipResult describes what Skip did.
type SkipResult struct {
	Skipped *domain.Track
	Next    *domain.Track // nil when the queue was empty
}

// Skip discards the current track and plays the head of the queue.
// Looping does not re-queue a skipped track.
func (p *PlayerContext) Skip(ctx context.Context) (SkipResult, error) {
	return call(p, ctx, func(ctx context.Context) (SkipResult, error) {
		current := p.state.Current()
		if current == nil {
			return SkipResult{}, domain.ErrNothingToSkip
		}

		if p.queue.IsEmpty() {
			if err := p.audio.Stop(ctx, p.guildID); err != nil {
				return SkipResult{}, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
			}
			return SkipResult{Skipped: p.state.Clear()}, nil
		}

		next, err := p.startNext(ctx)
		if err != nil {
			return SkipResult{}, err
		}
		return SkipResult{Skipped: current, Next: next}, nil
	})
}

// Stop discards the current track without advancing the queue.
func (p *PlayerContext) Stop(ctx context.Context) (*domain.Track, error) {
	return call(p, ctx, func(ctx context.Context) (*domain.Track, error) {
		if p.state.IsIdle() {
			return nil, domain.ErrNothingPlaying
		}
		if err := p.audio.Stop(ctx, p.guildID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
		}
		return p.state.Clear(), nil
	})
}

// SetLoop enables or disables replaying finished tracks.
func (p *PlayerContext) SetLoop(ctx context.Context, enabled bool) error {
	return p.do(ctx, func(context.Context) error {
		if p.state.SetLoop(enabled) {
			return nil
		}
		if enabled {
			return domain.ErrAlreadyLooping
		}
		return domain.ErrNotLooping
	})
}

// Snapshot is a read-only view of a player context.
type Snapshot struct {
	Status      domain.PlaybackStatus
	Current     *domain.Track
	Position    time.Duration
	LoopEnabled bool
	Tracks      []*domain.Track
	Session     domain.SessionContext
}

// Snapshot returns the current playback state and queue contents.
func (p *PlayerContext) Snapshot(ctx context.Context) (Snapshot, error) {
	return call(p, ctx, func(context.Context) (Snapshot, error) {
		return Snapshot{
			Status:      p.state.Status(),
			Current:     p.state.Current(),
			Position:    p.state.Position(),
			LoopEnabled: p.state.LoopEnabled(),
			Tracks:      p.queue.PeekAll(),
			Session:     p.session,
		}, nil
	})
}

// RemoveAt removes the queued track at the 1-based index.
func (p *PlayerContext) RemoveAt(ctx context.Context, index int) (*domain.Track, error) {
	return call(p, ctx, func(context.Context) (*domain.Track, error) {
		return p.queue.RemoveAt(index)
	})
}

type swapped struct {
	first, second *domain.Track
}

// SwapAt exchanges the queued tracks at the 1-based indexes.
func (p *PlayerContext) SwapAt(ctx context.Context, i, j int) (*domain.Track, *domain.Track, error) {
	result, err := call(p, ctx, func(context.Context) (swapped, error) {
		first, second, err := p.queue.SwapAt(i, j)
		return swapped{first, second}, err
	})
	return result.first, result.second, err
}

// Shuffle randomizes the queue order and returns the queue length.
func (p *PlayerContext) Shuffle(ctx context.Context) (int, error) {
	return call(p, ctx, func(context.Context) (int, error) {
		p.queue.Shuffle()
		return p.queue.Len(), nil
	})
}

// Clear empties the queue and returns how many tracks were removed.
func (p *PlayerContext) Clear(ctx context.Context) (int, error) {
	return call(p, ctx, func(context.Context) (int, error) {
		return p.queue.Clear()
	})
}

// Backend events.

func (p *PlayerContext) onReady(ctx context.Context) (eventOutcome, error) {
	return call(p, ctx, func(ctx context.Context) (eventOutcome, error) {
		if p.ready {
			return eventIgnored, nil
		}
		p.ready = true

		if !p.state.IsIdle() {
			return eventApplied, nil
		}
		_, err := p.startNext(ctx)
		return eventApplied, err
	})
}

func (p *PlayerContext) onTrackStart(ctx context.Context, id domain.PlayID) (eventOutcome, error) {
	return call(p, ctx, func(context.Context) (eventOutcome, error) {
		if !p.state.MarkStarted(id) {
			return eventStale, nil
		}

		p.publisher.PublishTrackStarted(domain.TrackStartedEvent{
			GuildID: p.guildID,
			Session: p.session,
			Track:   p.state.Current(),
			PlayID:  id,
			Looped:  p.looped,
		})
		return eventApplied, nil
	})
}

func (p *PlayerContext) onTrackEnd(
	ctx context.Context,
	id domain.PlayID,
	reason domain.TrackEndReason,
) (eventOutcome, error) {
	return call(p, ctx, func(ctx context.Context) (eventOutcome, error) {
		if p.state.IsIdle() || p.state.PlayID() != id {
			return eventStale, nil
		}

		finished := p.state.Clear()
		if !reason.ShouldAdvanceQueue() {
			// The backend dropped the track on its own; nothing is rendering.
			slog.Debug("track ended without advancing", "guild", p.guildID, "reason", reason)
			return eventApplied, nil
		}

		// A track that failed to load is not replayed.
		loop := p.state.LoopEnabled() && reason == domain.TrackEndFinished
		if loop {
			p.queue.PushFront(finished)
		}

		next, err := p.startNext(ctx)
		if err != nil {
			p.publisher.PublishTrackEnded(domain.TrackEndedEvent{
				GuildID:    p.guildID,
				Session:    p.session,
				Track:      finished,
				Reason:     reason,
				AdvanceErr: err,
			})
			return eventApplied, err
		}
		p.looped = loop && next == finished

		slog.Debug("track ended, advanced queue",
			"guild", p.guildID,
			"reason", reason,
			"looped", p.looped,
			"idle", next == nil,
		)

		p.publisher.PublishTrackEnded(domain.TrackEndedEvent{
			GuildID: p.guildID,
			Session: p.session,
			Track:   finished,
			Reason:  reason,
			Next:    next,
		})
		return eventApplied, nil
	})
}
