package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// ErrNoNode is returned when no Lavalink node is available.
var ErrNoNode = errors.New("no available Lavalink node")

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
	Secure   bool
}

// LavalinkAdapter wraps DisGoLink to implement the backend ports.
type LavalinkAdapter struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID

	voice *voiceHandshakes

	handlerMu sync.RWMutex
	handler   ports.BackendEventHandler
}

// Ensure LavalinkAdapter implements port interfaces.
var (
	_ ports.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*LavalinkAdapter)(nil)
	_ ports.TrackResolver   = (*LavalinkAdapter)(nil)
)

// NewLavalinkAdapter connects to the Lavalink node. The Discord session must be open.
func NewLavalinkAdapter(
	ctx context.Context,
	session *discordgo.Session,
	config LavalinkConfig,
) (*LavalinkAdapter, error) {
	if session.State == nil || session.State.User == nil {
		return nil, errors.New("discord session is not open")
	}
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		session: session,
		botID:   botID,
		voice:   newVoiceHandshakes(),
	}

	adapter.link = disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
		disgolink.WithListenerFunc(adapter.onWebSocketClosed),
	)

	node, err := adapter.link.AddNode(ctx, disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   config.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return adapter, nil
}

// SetEventHandler sets where backend events are delivered.
func (c *LavalinkAdapter) SetEventHandler(handler ports.BackendEventHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	c.handler = handler
}

func (c *LavalinkAdapter) eventHandler() ports.BackendEventHandler {
	c.handlerMu.RLock()
	defer c.handlerMu.RUnlock()
	return c.handler
}

// Close disconnects from every Lavalink node.
func (c *LavalinkAdapter) Close() {
	c.link.Close()
}

// JoinChannel connects to a voice channel.
// It waits for both VoiceStateUpdate and VoiceServerUpdate events before returning.
func (c *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	waiter := c.voice.expect(guildID)
	defer c.voice.forget(guildID, waiter)

	err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, true)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	select {
	case <-waiter.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return errors.New("timeout waiting for voice connection")
	}
}

// LeaveChannel destroys the guild's player and disconnects from voice.
func (c *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	if player := c.link.ExistingPlayer(guildID); player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false)
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play starts track, replacing whatever the guild's player was rendering.
// The play ID travels with the track and comes back on its start and end events.
func (c *LavalinkAdapter) Play(
	ctx context.Context,
	guildID snowflake.ID,
	track *domain.Track,
	playID domain.PlayID,
) error {
	userData, err := encodeUserData(track, playID)
	if err != nil {
		return fmt.Errorf("failed to encode track user data: %w", err)
	}

	player := c.link.Player(guildID)
	update := lavalink.WithTrack(lavalink.Track{
		Encoded:  track.Info.Encoded,
		UserData: userData,
	})
	if err := player.Update(ctx, update); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}

	return nil
}

// Stop stops the current playback.
func (c *LavalinkAdapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	if err := c.link.Player(guildID).Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

// Pause pauses the current playback.
func (c *LavalinkAdapter) Pause(ctx context.Context, guildID snowflake.ID) error {
	if err := c.link.Player(guildID).Update(ctx, lavalink.WithPaused(true)); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}
	return nil
}

// Resume resumes the current playback.
func (c *LavalinkAdapter) Resume(ctx context.Context, guildID snowflake.ID) error {
	if err := c.link.Player(guildID).Update(ctx, lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}
	return nil
}

// Seek moves the current playback to position.
func (c *LavalinkAdapter) Seek(ctx context.Context, guildID snowflake.ID, position time.Duration) error {
	update := lavalink.WithPosition(lavalink.Duration(position.Milliseconds()))
	if err := c.link.Player(guildID).Update(ctx, update); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// LoadTracks loads tracks from Lavalink.
func (c *LavalinkAdapter) LoadTracks(ctx context.Context, query string) (*ports.LoadResult, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, ErrNoNode
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	return convertLoadResult(result), nil
}

// OnVoiceServerUpdate handles Discord voice server updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	if data, complete := c.voice.setServer(guildID, event.Token, event.Endpoint); complete {
		c.forward(guildID, data)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates for the bot itself.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	// Disconnects need no voice server update.
	if event.ChannelID == "" {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, event.SessionID)
		c.voice.clear(guildID)
		return
	}

	channelID, err := snowflake.Parse(event.ChannelID)
	if err != nil {
		slog.Error("failed to parse channel ID in voice state update", "error", err)
		return
	}

	if data, complete := c.voice.setState(guildID, channelID, event.SessionID); complete {
		c.forward(guildID, data)
	}
}

// forward hands a complete voice handshake to Lavalink and reports the guild ready.
func (c *LavalinkAdapter) forward(guildID snowflake.ID, data voiceHandshake) {
	slog.Debug("forwarding voice handshake to Lavalink",
		"guild", guildID,
		"channel", data.channelID,
		"hasSessionID", data.sessionID != "",
	)

	c.link.OnVoiceStateUpdate(context.Background(), guildID, &data.channelID, data.sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, data.token, data.endpoint)

	if handler := c.eventHandler(); handler != nil {
		handler.OnReady(guildID)
	}
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	playID := decodePlayID(event.Track.UserData)
	slog.Debug("track started",
		"guild", player.GuildID(),
		"track", event.Track.Info.Title,
		"play_id", playID,
	)

	if handler := c.eventHandler(); handler != nil {
		handler.OnTrackStart(player.GuildID(), playID)
	}
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	playID := decodePlayID(event.Track.UserData)
	reason := convertEndReason(event.Reason)
	slog.Debug("track ended", "guild", player.GuildID(), "reason", reason, "play_id", playID)

	if handler := c.eventHandler(); handler != nil {
		handler.OnTrackEnd(player.GuildID(), playID, reason)
	}
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception",
		"guild", player.GuildID(),
		"track", event.Track.Info.Title,
		"error", event.Exception.Message,
	)
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
}

func (c *LavalinkAdapter) onWebSocketClosed(
	player disgolink.Player,
	event lavalink.WebSocketClosedEvent,
) {
	slog.Warn("lavalink voice websocket closed",
		"guild", player.GuildID(),
		"code", event.Code,
		"reason", event.Reason,
	)
}

// trackUserData is attached to every track sent to Lavalink.
type trackUserData struct {
	TrackID     string `json:"track_id"`
	PlayID      string `json:"play_id"`
	RequesterID string `json:"requester_id"`
}

func encodeUserData(track *domain.Track, playID domain.PlayID) ([]byte, error) {
	return json.Marshal(trackUserData{
		TrackID:     string(track.ID),
		PlayID:      string(playID),
		RequesterID: track.Annotation.RequesterID.String(),
	})
}

// decodePlayID returns the play ID carried in a track's user data, or "" if
// there is none. Events without a play ID never match a playback.
func decodePlayID(raw []byte) domain.PlayID {
	if len(raw) == 0 {
		return ""
	}
	var data trackUserData
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Debug("ignoring malformed track user data", "error", err)
		return ""
	}
	return domain.PlayID(data.PlayID)
}

// convertLoadResult converts a Lavalink result to a ports result.
func convertLoadResult(result *lavalink.LoadResult) *ports.LoadResult {
	out := &ports.LoadResult{Type: ports.LoadTypeEmpty, SelectedIndex: -1}
	if result == nil {
		return out
	}

	switch data := result.Data.(type) {
	case lavalink.Track:
		out.Type = ports.LoadTypeTrack
		out.Tracks = []domain.TrackInfo{convertTrack(data)}

	case lavalink.Playlist:
		out.Type = ports.LoadTypePlaylist
		out.Tracks = convertTracks(data.Tracks)
		out.PlaylistName = data.Info.Name
		out.SelectedIndex = data.Info.SelectedTrack

	case lavalink.Search:
		out.Type = ports.LoadTypeSearch
		out.Tracks = convertTracks(data)

	case lavalink.Exception:
		out.Type = ports.LoadTypeError
		out.Message = data.Message
	}

	return out
}

func convertTracks(tracks []lavalink.Track) []domain.TrackInfo {
	infos := make([]domain.TrackInfo, len(tracks))
	for i, track := range tracks {
		infos[i] = convertTrack(track)
	}
	return infos
}

func convertTrack(track lavalink.Track) domain.TrackInfo {
	info := track.Info
	return domain.TrackInfo{
		Identifier: info.Identifier,
		Encoded:    track.Encoded,
		Title:      info.Title,
		Author:     info.Author,
		URI:        stringValue(info.URI),
		ArtworkURL: stringValue(info.ArtworkURL),
		SourceName: info.SourceName,
		Duration:   time.Duration(info.Length) * time.Millisecond,
		IsStream:   info.IsStream,
		IsSeekable: info.IsSeekable,
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func convertEndReason(reason lavalink.TrackEndReason) domain.TrackEndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return domain.TrackEndFinished
	case lavalink.TrackEndReasonLoadFailed:
		return domain.TrackEndLoadFailed
	case lavalink.TrackEndReasonStopped:
		return domain.TrackEndStopped
	case lavalink.TrackEndReasonReplaced:
		return domain.TrackEndReplaced
	case lavalink.TrackEndReasonCleanup:
		return domain.TrackEndCleanup
	default:
		return domain.TrackEndStopped
	}
}
