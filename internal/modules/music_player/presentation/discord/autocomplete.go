package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/usecases"
)

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	queue *usecases.QueueService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(queue *usecases.QueueService) *AutocompleteHandler {
	return &AutocompleteHandler{queue: queue}
}

// HandleQueuePosition suggests queue positions for /queue remove and /queue swap.
func (h *AutocompleteHandler) HandleQueuePosition(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		slog.Warn("failed to parse guild ID in autocomplete", "error", err, "guild", i.GuildID)
		return
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: h.positionChoices(guildID),
		},
	})
}

// positionChoices lists the head of the queue using the same 1-based
// positions as /queue list. A guild without a session gets no choices.
func (h *AutocompleteHandler) positionChoices(guildID snowflake.ID) []*discordgo.ApplicationCommandOptionChoice {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultCommandTimeout)
	defer cancel()

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, usecases.DefaultListSize)

	output, err := h.queue.List(ctx, usecases.GuildInput{GuildID: guildID})
	if err != nil {
		return choices
	}

	for idx, track := range output.Tracks {
		pos := idx + 1
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%d. %s", pos, truncate(track.DisplayName(), 90)),
			Value: pos,
		})
	}
	return choices
}
