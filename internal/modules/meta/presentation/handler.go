package presentation

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/bot"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/meta/application"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/meta/domain"
)

// PingHandler handles the /ping command.
type PingHandler struct {
	interactor *application.PingInteractor
}

// NewPingHandler creates a new PingHandler.
func NewPingHandler(latency func() time.Duration) *PingHandler {
	return &PingHandler{
		interactor: application.NewPingInteractor(latency),
	}
}

// Handle processes the ping command and sends the response.
func (h *PingHandler) Handle(
	_ *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	result := h.interactor.Execute()
	return respondContent(r, result.Message)
}

// HandleEcho repeats the text option back to the caller.
func HandleEcho(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var text string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "text" {
			text = opt.StringValue()
		}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			// Never let echoed text ping anyone.
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

// CalculateHandler handles the arithmetic commands.
type CalculateHandler struct {
	interactor *application.CalculateInteractor
}

// NewCalculateHandler creates a new CalculateHandler.
func NewCalculateHandler() *CalculateHandler {
	return &CalculateHandler{
		interactor: application.NewCalculateInteractor(),
	}
}

// Handlers returns one interaction handler per arithmetic command.
func (h *CalculateHandler) Handlers() map[string]bot.InteractionHandler {
	handlers := make(map[string]bot.InteractionHandler, len(arithmeticCommands))
	for _, c := range arithmeticCommands {
		op := c.op
		handlers[string(op)] = func(_ *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
			return h.handle(op, i, r)
		}
	}
	return handlers
}

func (h *CalculateHandler) handle(op domain.Operation, i *discordgo.InteractionCreate, r bot.Responder) error {
	var a, b float64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "a":
			a = opt.FloatValue()
		case "b":
			b = opt.FloatValue()
		}
	}

	result, err := h.interactor.Execute(op, a, b)
	switch {
	case errors.Is(err, domain.ErrDivisionByZero), errors.Is(err, domain.ErrNotFinite):
		return respondContent(r, fmt.Sprintf("Error: %s.", errors.Unwrap(err)))
	case err != nil:
		return err
	}

	return respondContent(r, result)
}

func respondContent(r bot.Responder, content string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}
