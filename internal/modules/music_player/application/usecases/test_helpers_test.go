package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/player"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

const (
	testGuildID        = snowflake.ID(1)
	testUserID         = snowflake.ID(2)
	testTextChannelID  = snowflake.ID(3)
	testVoiceChannelID = snowflake.ID(4)
)

func mockTrackInfo(id string) domain.TrackInfo {
	return domain.TrackInfo{
		Identifier: id,
		Encoded:    "encoded-" + id,
		Title:      "Track " + id,
		Author:     "Artist",
		URI:        "https://example.com/" + id,
		SourceName: "deezer",
		Duration:   3 * time.Minute,
		IsSeekable: true,
	}
}

func mockTrack(id string) *domain.Track {
	return domain.NewTrack(domain.TrackID(id), mockTrackInfo(id), testUserID)
}

func trackResult(ids ...string) *ports.LoadResult {
	infos := make([]domain.TrackInfo, len(ids))
	for i, id := range ids {
		infos[i] = mockTrackInfo(id)
	}
	loadType := ports.LoadTypeSearch
	if len(ids) == 1 {
		loadType = ports.LoadTypeTrack
	}
	return &ports.LoadResult{Type: loadType, Tracks: infos, SelectedIndex: -1}
}

type mockAudioPlayer struct {
	mu      sync.Mutex
	played  []domain.TrackID
	stops   int
	playErr error
}

func (m *mockAudioPlayer) Play(
	_ context.Context,
	_ snowflake.ID,
	track *domain.Track,
	_ domain.PlayID,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, track.ID)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	return nil
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	return nil
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	return nil
}

func (m *mockAudioPlayer) Seek(_ context.Context, _ snowflake.ID, _ time.Duration) error {
	return nil
}

func (m *mockAudioPlayer) playCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.played)
}

type mockEventPublisher struct{}

func (mockEventPublisher) PublishTrackStarted(domain.TrackStartedEvent) {}
func (mockEventPublisher) PublishTrackEnded(domain.TrackEndedEvent)     {}

type mockVoiceConnection struct {
	mu       sync.Mutex
	joined   []snowflake.ID
	left     int
	joinErr  error
	leaveErr error

	// When set, JoinChannel signals joining and then waits for release.
	joining chan struct{}
	release chan struct{}
}

// holdJoins makes JoinChannel block until the returned func is called.
func (m *mockVoiceConnection) holdJoins() (joining <-chan struct{}, release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joining = make(chan struct{}, 1)
	m.release = make(chan struct{})
	return m.joining, func() { close(m.release) }
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	m.mu.Lock()
	joining, release := m.joining, m.release
	m.mu.Unlock()
	if release != nil {
		select {
		case joining <- struct{}{}:
		default:
		}
		<-release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.leaveErr != nil {
		return m.leaveErr
	}
	m.left++
	return nil
}

// mockTrackResolver answers LoadTracks from a fixed table and records every query.
type mockTrackResolver struct {
	mu      sync.Mutex
	results map[string]*ports.LoadResult
	loadErr error
	block   bool // wait for the context instead of answering
	queries []string
}

func newMockTrackResolver() *mockTrackResolver {
	return &mockTrackResolver{results: make(map[string]*ports.LoadResult)}
}

func (m *mockTrackResolver) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	block, err := m.block, m.loadErr
	result, ok := m.results[query]
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ports.LoadResult{Type: ports.LoadTypeEmpty, SelectedIndex: -1}, nil
	}
	return result, nil
}

func (m *mockTrackResolver) recordedQueries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

type mockFallbackSearcher struct {
	name    string
	hit     *ports.SearchHit
	err     error
	queries []string
}

func (m *mockFallbackSearcher) Name() string {
	return m.name
}

func (m *mockFallbackSearcher) Search(_ context.Context, query string) (*ports.SearchHit, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.hit, nil
}

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID // userID -> channelID
	err      error
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(
	_, userID snowflake.ID,
) (snowflake.ID, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.channels[userID], nil
}

// fixture wires the use case services to a real registry backed by mocks.
type fixture struct {
	registry   *player.Registry
	bridge     *player.EventBridge
	audio      *mockAudioPlayer
	connection *mockVoiceConnection
	voiceState *mockVoiceStateProvider
	resolver   *mockTrackResolver

	voice    *VoiceChannelService
	loader   *TrackLoaderService
	playback *PlaybackService
	queue    *QueueService
}

func newFixture(t *testing.T, fallbacks ...ports.FallbackSearcher) *fixture {
	t.Helper()

	f := &fixture{
		audio:      &mockAudioPlayer{},
		connection: &mockVoiceConnection{},
		voiceState: &mockVoiceStateProvider{
			channels: map[snowflake.ID]snowflake.ID{testUserID: testVoiceChannelID},
		},
		resolver: newMockTrackResolver(),
	}
	f.registry = player.NewRegistry(func(guildID snowflake.ID, session domain.SessionContext) *player.PlayerContext {
		return player.NewPlayerContext(guildID, session, f.audio, mockEventPublisher{}, player.Options{})
	})
	t.Cleanup(f.registry.CloseAll)

	f.bridge = player.NewEventBridge(f.registry, time.Second)
	f.voice = NewVoiceChannelService(f.registry, f.connection, f.voiceState)
	f.loader = NewTrackLoaderService(f.resolver, "dzsearch", time.Second, fallbacks...)
	f.playback = NewPlaybackService(f.registry, f.loader, f.voice)
	f.queue = NewQueueService(f.registry)

	return f
}

// connect establishes a ready session for the test guild.
func (f *fixture) connect(t *testing.T) *player.PlayerContext {
	t.Helper()

	if _, err := f.voice.Join(context.Background(), JoinInput{
		GuildID:               testGuildID,
		UserID:                testUserID,
		NotificationChannelID: testTextChannelID,
	}); err != nil {
		t.Fatalf("Join: %v", err)
	}
	f.bridge.OnReady(testGuildID)

	pc, ok := f.registry.Get(testGuildID)
	if !ok {
		t.Fatal("expected a session after Join")
	}
	return pc
}

// enqueue adds tracks to a connected session without going through the resolver.
func (f *fixture) enqueue(t *testing.T, pc *player.PlayerContext, ids ...string) {
	t.Helper()

	tracks := make([]*domain.Track, len(ids))
	for i, id := range ids {
		tracks[i] = mockTrack(id)
	}
	if _, err := pc.Enqueue(context.Background(), tracks); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
}
