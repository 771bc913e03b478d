package meta

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/bot"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/meta/presentation"
)

func init() {
	bot.Register(&MetaModule{})
}

// MetaModule provides utility commands like /ping, /echo and arithmetic.
type MetaModule struct {
	pingHandler      *presentation.PingHandler
	calculateHandler *presentation.CalculateHandler
}

// Name returns the module name.
func (m *MetaModule) Name() string {
	return "meta"
}

// Commands returns the slash commands for this module.
func (m *MetaModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MetaModule) CommandHandlers() map[string]bot.InteractionHandler {
	handlers := m.calculateHandler.Handlers()
	handlers["ping"] = m.pingHandler.Handle
	handlers["echo"] = presentation.HandleEcho
	return handlers
}

// EventHandlers returns the event handlers for this module.
func (m *MetaModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *MetaModule) Init(deps bot.ModuleDependencies) error {
	var latency func() time.Duration
	if deps.Session != nil {
		latency = deps.Session.HeartbeatLatency
	}

	m.pingHandler = presentation.NewPingHandler(latency)
	m.calculateHandler = presentation.NewCalculateHandler()
	return nil
}

// Shutdown cleans up module resources.
func (m *MetaModule) Shutdown() error {
	return nil
}
