package player

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

const testGuildID = snowflake.ID(1)

func mockTrack(id string) *domain.Track {
	return domain.NewTrack(domain.TrackID(id), domain.TrackInfo{
		Identifier: id,
		Encoded:    "encoded-" + id,
		Title:      "Track " + id,
		Author:     "Artist",
		Duration:   3 * time.Minute,
		IsSeekable: true,
	}, snowflake.ID(123))
}

func mockTracks(ids ...string) []*domain.Track {
	tracks := make([]*domain.Track, len(ids))
	for i, id := range ids {
		tracks[i] = mockTrack(id)
	}
	return tracks
}

type playCall struct {
	track  *domain.Track
	playID domain.PlayID
}

type mockAudioPlayer struct {
	mu        sync.Mutex
	plays     []playCall
	stops     int
	seeks     []time.Duration
	playErr   error
	stopErr   error
	pauseErr  error
	resumeErr error
	seekErr   error
	panicOn   bool

	// When set, Play signals entered and then waits for release.
	entered chan struct{}
	release chan struct{}
}

// holdPlays makes the next Play calls block until the returned func is called.
func (m *mockAudioPlayer) holdPlays() (entered <-chan struct{}, release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entered = make(chan struct{}, 1)
	m.release = make(chan struct{})
	return m.entered, func() { close(m.release) }
}

func (m *mockAudioPlayer) Play(
	_ context.Context,
	_ snowflake.ID,
	track *domain.Track,
	playID domain.PlayID,
) error {
	m.mu.Lock()
	entered, release := m.entered, m.release
	m.mu.Unlock()
	if release != nil {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.panicOn {
		panic("backend exploded")
	}
	if m.playErr != nil {
		return m.playErr
	}
	m.plays = append(m.plays, playCall{track: track, playID: playID})
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopErr != nil {
		return m.stopErr
	}
	m.stops++
	return nil
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	return m.pauseErr
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	return m.resumeErr
}

func (m *mockAudioPlayer) Seek(_ context.Context, _ snowflake.ID, position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seekErr != nil {
		return m.seekErr
	}
	m.seeks = append(m.seeks, position)
	return nil
}

func (m *mockAudioPlayer) playCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plays)
}

func (m *mockAudioPlayer) lastPlay() playCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.plays) == 0 {
		return playCall{}
	}
	return m.plays[len(m.plays)-1]
}

type mockEventPublisher struct {
	mu      sync.Mutex
	started []domain.TrackStartedEvent
	ended   []domain.TrackEndedEvent
}

func (m *mockEventPublisher) PublishTrackStarted(event domain.TrackStartedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, event)
}

func (m *mockEventPublisher) PublishTrackEnded(event domain.TrackEndedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = append(m.ended, event)
}

func (m *mockEventPublisher) startedEvents() []domain.TrackStartedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TrackStartedEvent(nil), m.started...)
}

func (m *mockEventPublisher) endedEvents() []domain.TrackEndedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TrackEndedEvent(nil), m.ended...)
}

// sequentialPlayIDs returns a generator producing play-1, play-2, ...
func sequentialPlayIDs() func() domain.PlayID {
	var mu sync.Mutex
	n := 0
	return func() domain.PlayID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return domain.PlayID("play-" + strconv.Itoa(n))
	}
}

// newTestContext returns a player context whose voice connection is ready.
func newTestContext(t *testing.T) (*PlayerContext, *mockAudioPlayer, *mockEventPublisher) {
	t.Helper()

	pc, audio, publisher := newPendingTestContext(t)
	markReady(t, pc)
	return pc, audio, publisher
}

// newPendingTestContext returns a player context that is still waiting for
// its voice connection, as right after a join.
func newPendingTestContext(t *testing.T) (*PlayerContext, *mockAudioPlayer, *mockEventPublisher) {
	t.Helper()

	audio := &mockAudioPlayer{}
	publisher := &mockEventPublisher{}
	pc := NewPlayerContext(testGuildID, domain.SessionContext{
		VoiceChannelID:        snowflake.ID(100),
		NotificationChannelID: snowflake.ID(200),
	}, audio, publisher, Options{NewPlayID: sequentialPlayIDs()})
	t.Cleanup(pc.Close)

	return pc, audio, publisher
}

// markReady delivers the ready event so the queue may start playing.
func markReady(t *testing.T, pc *PlayerContext) {
	t.Helper()
	if _, err := pc.onReady(context.Background()); err != nil {
		t.Fatalf("onReady: %v", err)
	}
}
