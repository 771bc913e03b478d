package discord

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/player"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/usecases"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

const (
	testGuildID        = snowflake.ID(100)
	testUserID         = snowflake.ID(200)
	testTextChannelID  = snowflake.ID(300)
	testVoiceChannelID = snowflake.ID(400)
	testBotID          = snowflake.ID(500)
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

type mockAudioPlayer struct {
	mu     sync.Mutex
	played []domain.TrackID
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, track *domain.Track, _ domain.PlayID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.played = append(m.played, track.ID)
	return nil
}

func (m *mockAudioPlayer) Stop(context.Context, snowflake.ID) error                { return nil }
func (m *mockAudioPlayer) Pause(context.Context, snowflake.ID) error               { return nil }
func (m *mockAudioPlayer) Resume(context.Context, snowflake.ID) error              { return nil }
func (m *mockAudioPlayer) Seek(context.Context, snowflake.ID, time.Duration) error { return nil }

type mockEventPublisher struct{}

func (mockEventPublisher) PublishTrackStarted(domain.TrackStartedEvent) {}
func (mockEventPublisher) PublishTrackEnded(domain.TrackEndedEvent)     {}

type mockVoiceConnection struct{}

func (mockVoiceConnection) JoinChannel(context.Context, snowflake.ID, snowflake.ID) error { return nil }
func (mockVoiceConnection) LeaveChannel(context.Context, snowflake.ID) error              { return nil }

type mockVoiceStateProvider struct {
	channels map[snowflake.ID]snowflake.ID
}

func (m *mockVoiceStateProvider) GetUserVoiceChannel(_, userID snowflake.ID) (snowflake.ID, error) {
	return m.channels[userID], nil
}

type mockTrackResolver struct {
	results map[string]*ports.LoadResult
}

func (m *mockTrackResolver) LoadTracks(_ context.Context, query string) (*ports.LoadResult, error) {
	if result, ok := m.results[query]; ok {
		return result, nil
	}
	return &ports.LoadResult{Type: ports.LoadTypeEmpty, SelectedIndex: -1}, nil
}

// fixture wires the command handlers to real services backed by mocks.
type fixture struct {
	registry *player.Registry
	bridge   *player.EventBridge
	resolver *mockTrackResolver

	voice    *usecases.VoiceChannelService
	queue    *usecases.QueueService
	handlers *CommandHandlers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	audio := &mockAudioPlayer{}
	f := &fixture{
		resolver: &mockTrackResolver{results: make(map[string]*ports.LoadResult)},
	}
	f.registry = player.NewRegistry(func(guildID snowflake.ID, session domain.SessionContext) *player.PlayerContext {
		return player.NewPlayerContext(guildID, session, audio, mockEventPublisher{}, player.Options{})
	})
	t.Cleanup(f.registry.CloseAll)

	f.bridge = player.NewEventBridge(f.registry, time.Second)
	f.voice = usecases.NewVoiceChannelService(f.registry, mockVoiceConnection{}, &mockVoiceStateProvider{
		channels: map[snowflake.ID]snowflake.ID{testUserID: testVoiceChannelID},
	})
	loader := usecases.NewTrackLoaderService(f.resolver, "dzsearch", time.Second)
	playback := usecases.NewPlaybackService(f.registry, loader, f.voice)
	f.queue = usecases.NewQueueService(f.registry)
	f.handlers = NewCommandHandlers(f.voice, playback, f.queue, time.Second)

	return f
}

// connect joins the test guild and marks the backend ready.
func (f *fixture) connect(t *testing.T) *player.PlayerContext {
	t.Helper()

	if _, err := f.voice.Join(context.Background(), usecases.JoinInput{
		GuildID: testGuildID,
		UserID:  testUserID,
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

func id(v snowflake.ID) string {
	return strconv.FormatUint(uint64(v), 10)
}

// newInteraction builds a guild slash command interaction.
func newInteraction(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   id(testGuildID),
			ChannelID: id(testTextChannelID),
			Member:    &discordgo.Member{User: &discordgo.User{ID: id(testUserID)}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func subCommand(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:    name,
		Type:    discordgo.ApplicationCommandOptionSubCommand,
		Options: options,
	}
}

func intOpt(name string, v int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}

func stringOpt(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: v,
	}
}
