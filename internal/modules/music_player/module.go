package music_player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/bot"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/player"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/usecases"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/infrastructure"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/presentation/discord"
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides music playback commands.
type MusicPlayerModule struct {
	config          *Config
	commandHandlers *discord.CommandHandlers
	autocomplete    *discord.AutocompleteHandler
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter

	registry     *player.Registry
	bridge       *player.EventBridge
	voiceChannel *usecases.VoiceChannelService

	// Event-driven components
	eventBus            *infrastructure.ChannelEventBus
	notificationHandler *application.NotificationEventHandler

	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":   m.commandHandlers.HandleJoin,
		"leave":  m.commandHandlers.HandleLeave,
		"play":   m.commandHandlers.HandlePlay,
		"pause":  m.commandHandlers.HandlePause,
		"resume": m.commandHandlers.HandleResume,
		"seek":   m.commandHandlers.HandleSeek,
		"skip":   m.commandHandlers.HandleSkip,
		"stop":   m.commandHandlers.HandleStop,
		"queue":  m.commandHandlers.HandleQueue,
		"loop":   m.commandHandlers.HandleLoop,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		return errors.New("music_player requires a Discord session")
	}
	if m.config == nil {
		return errors.New("music_player config was not loaded")
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())

	// Event bus for notifications published by player contexts.
	m.eventBus = infrastructure.NewChannelEventBus(m.config.EventBufferSize)

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(m.ctx, deps.Session, infrastructure.LavalinkConfig{
		Address:  m.config.LavalinkAddress,
		Password: m.config.LavalinkPassword,
		Secure:   m.config.LavalinkSecure,
	})
	if err != nil {
		return err
	}
	m.lavalinkAdapter = lavalinkAdapter

	// One player context per guild, all rendering through the same backend.
	opts := player.Options{MailboxSize: m.config.MailboxSize}
	m.registry = player.NewRegistry(func(guildID snowflake.ID, session domain.SessionContext) *player.PlayerContext {
		return player.NewPlayerContext(guildID, session, lavalinkAdapter, m.eventBus, opts)
	})
	m.bridge = player.NewEventBridge(m.registry, player.DefaultEventTimeout)
	lavalinkAdapter.SetEventHandler(m.bridge)

	// Create infrastructure
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session)

	var fallbacks []ports.FallbackSearcher
	if m.config.FallbackEnabled {
		limiter := infrastructure.NewSearchLimiter(m.config.FallbackRate, m.config.FallbackBurst)
		fallbacks = append(fallbacks,
			infrastructure.NewYouTubeMusicSearcher(limiter),
			infrastructure.NewYouTubeSearcher(limiter),
		)
	}

	// Create services
	trackLoader := usecases.NewTrackLoaderService(
		lavalinkAdapter,
		m.config.SearchPrefix,
		m.config.ResolveTimeout,
		fallbacks...,
	)
	m.voiceChannel = usecases.NewVoiceChannelService(m.registry, lavalinkAdapter, voiceState)
	playback := usecases.NewPlaybackService(m.registry, trackLoader, m.voiceChannel)
	queue := usecases.NewQueueService(m.registry)

	m.notificationHandler = application.NewNotificationEventHandler(m.eventBus, notifier)
	m.notificationHandler.Start()

	// Create presentation handlers
	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return fmt.Errorf("failed to parse bot ID: %w", err)
	}
	m.commandHandlers = discord.NewCommandHandlers(
		m.voiceChannel,
		playback,
		queue,
		playTimeout(m.config.ResolveTimeout, len(fallbacks)),
	)
	m.autocomplete = discord.NewAutocompleteHandler(queue)
	m.eventHandlers = discord.NewEventHandlers(botID, m.voiceChannel)

	slog.Info("music_player module initialized",
		"search_prefix", m.config.SearchPrefix,
		"fallbacks", len(fallbacks),
	)

	return nil
}

// playTimeout bounds /play: the primary lookup and every fallback may each
// use a full resolve timeout, and joining voice comes on top.
func playTimeout(resolveTimeout time.Duration, fallbacks int) time.Duration {
	return resolveTimeout*time.Duration(1+fallbacks) + discord.DefaultCommandTimeout
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}

	if m.voiceChannel != nil {
		m.voiceChannel.Shutdown()
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}

	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Close()
	}

	if m.bridge != nil && m.eventBus != nil {
		slog.Info("music_player module stopped",
			"stale_events", m.bridge.StaleEvents(),
			"dropped_notifications", m.eventBus.Dropped(),
		)
	}

	return nil
}

// Event handlers.

func (m *MusicPlayerModule) handleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceServerUpdate(event)
	}
}

func (m *MusicPlayerModule) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceStateUpdate(event)
	}
	if m.eventHandlers != nil {
		m.eventHandlers.HandleVoiceStateUpdate(s, event)
	}
}

func (m *MusicPlayerModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete || m.autocomplete == nil {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != "queue" || len(data.Options) == 0 {
		return
	}

	switch data.Options[0].Name {
	case "remove", "swap":
		m.autocomplete.HandleQueuePosition(s, i)
	}
}
