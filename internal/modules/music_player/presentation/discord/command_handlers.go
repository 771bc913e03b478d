package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/bot"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/usecases"
)

// DefaultCommandTimeout bounds a command that does not resolve anything.
const DefaultCommandTimeout = 15 * time.Second

var errInvalidInteraction = errors.New("invalid interaction")

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	voiceChannel *usecases.VoiceChannelService
	playback     *usecases.PlaybackService
	queue        *usecases.QueueService

	// playTimeout bounds /play, which may wait for the resolver chain.
	playTimeout time.Duration
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(
	voiceChannel *usecases.VoiceChannelService,
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
	playTimeout time.Duration,
) *CommandHandlers {
	if playTimeout <= 0 {
		playTimeout = DefaultCommandTimeout
	}
	return &CommandHandlers{
		voiceChannel: voiceChannel,
		playback:     playback,
		queue:        queue,
		playTimeout:  playTimeout,
	}
}

// interactionIDs holds the snowflakes every handler needs.
type interactionIDs struct {
	guild   snowflake.ID
	user    snowflake.ID
	channel snowflake.ID
	locale  string
}

func parseInteraction(i *discordgo.InteractionCreate) (interactionIDs, error) {
	var ids interactionIDs
	if i.Member == nil || i.Member.User == nil {
		return ids, fmt.Errorf("%w: command used outside a guild", errInvalidInteraction)
	}

	var err error
	if ids.guild, err = snowflake.Parse(i.GuildID); err != nil {
		return ids, fmt.Errorf("%w: guild: %w", errInvalidInteraction, err)
	}
	if ids.user, err = snowflake.Parse(i.Member.User.ID); err != nil {
		return ids, fmt.Errorf("%w: user: %w", errInvalidInteraction, err)
	}
	if ids.channel, err = snowflake.Parse(i.ChannelID); err != nil {
		return ids, fmt.Errorf("%w: channel: %w", errInvalidInteraction, err)
	}

	ids.locale = string(i.Locale)
	if i.GuildLocale != nil {
		ids.locale = string(*i.GuildLocale)
	}
	return ids, nil
}

func (ids interactionIDs) guildInput() usecases.GuildInput {
	return usecases.GuildInput{GuildID: ids.guild, NotificationChannelID: ids.channel}
}

// HandleJoin handles the /join command.
func (h *CommandHandlers) HandleJoin(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	var voiceChannelID snowflake.ID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "channel" {
			voiceChannelID, err = snowflake.Parse(opt.ChannelValue(s).ID)
			if err != nil {
				return respondError(r, fmt.Errorf("%w: voice channel: %w", errInvalidInteraction, err))
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultCommandTimeout)
	defer cancel()

	output, err := h.voiceChannel.Join(ctx, usecases.JoinInput{
		GuildID:               ids.guild,
		UserID:                ids.user,
		NotificationChannelID: ids.channel,
		VoiceChannelID:        voiceChannelID,
		Locale:                ids.locale,
	})
	if err != nil {
		return respondError(r, err)
	}

	return respondSuccess(r, fmt.Sprintf("Connected to <#%d>.", output.VoiceChannelID))
}

// HandleLeave handles the /leave command.
func (h *CommandHandlers) HandleLeave(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultCommandTimeout)
	defer cancel()

	if err := h.voiceChannel.Leave(ctx, usecases.LeaveInput{GuildID: ids.guild}); err != nil {
		return respondError(r, err)
	}

	return respondSuccess(r, "Disconnected.")
}

// HandlePlay handles the /play command.
// The response is deferred because resolving may take longer than Discord's
// three second limit for the initial response.
func (h *CommandHandlers) HandlePlay(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.playTimeout)
	defer cancel()

	output, err := h.playback.Play(ctx, usecases.PlayInput{
		GuildID:               ids.guild,
		UserID:                ids.user,
		NotificationChannelID: ids.channel,
		Locale:                ids.locale,
		Query:                 query,
	})
	if err != nil {
		return editError(r, err)
	}

	return editEmbed(r, &discordgo.MessageEmbed{
		Description: formatEnqueued(output),
		Color:       colorSuccess,
	})
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
		return "Paused.", h.playback.Pause(ctx, in)
	})
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
		return "Resumed.", h.playback.Resume(ctx, in)
	})
}

// HandleSeek handles the /seek command.
func (h *CommandHandlers) HandleSeek(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var seconds int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "second" {
			seconds = int(opt.IntValue())
		}
	}

	return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
		err := h.playback.Seek(ctx, usecases.SeekInput{
			GuildID:               in.GuildID,
			NotificationChannelID: in.NotificationChannelID,
			Seconds:               seconds,
		})
		return fmt.Sprintf("Seeked to second %d.", seconds), err
	})
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
		out, err := h.playback.Skip(ctx, in)
		if err != nil {
			return "", err
		}
		msg := fmt.Sprintf("Skipped %s.", trackLink(out.SkippedTrack))
		if out.NextTrack != nil {
			msg += fmt.Sprintf("\nNow playing %s.", trackLink(out.NextTrack))
		}
		return msg, nil
	})
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
		stopped, err := h.playback.Stop(ctx, in)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Stopped %s.", trackLink(stopped)), nil
	})
}

// HandleLoop handles the /loop command.
func (h *CommandHandlers) HandleLoop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, fmt.Errorf("%w: missing subcommand", errInvalidInteraction))
	}

	switch options[0].Name {
	case "start":
		return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
			return "Looping the current track.", h.playback.LoopStart(ctx, in)
		})
	case "end":
		return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
			return "Stopped looping.", h.playback.LoopEnd(ctx, in)
		})
	default:
		return respondError(r, fmt.Errorf("%w: unknown subcommand %q", errInvalidInteraction, options[0].Name))
	}
}

// HandleQueue handles the /queue command.
func (h *CommandHandlers) HandleQueue(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, fmt.Errorf("%w: missing subcommand", errInvalidInteraction))
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "list":
		return h.handleQueueList(i, r)
	case "remove":
		index := intOption(subCmd.Options, "index")
		return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
			removed, err := h.queue.Remove(ctx, usecases.QueueRemoveInput{
				GuildID:               in.GuildID,
				NotificationChannelID: in.NotificationChannelID,
				Index:                 index,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Removed %s.", trackLink(removed)), nil
		})
	case "swap":
		first, second := intOption(subCmd.Options, "first"), intOption(subCmd.Options, "second")
		return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
			out, err := h.queue.Swap(ctx, usecases.QueueSwapInput{
				GuildID:               in.GuildID,
				NotificationChannelID: in.NotificationChannelID,
				First:                 first,
				Second:                second,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Swapped %s and %s.", trackLink(out.First), trackLink(out.Second)), nil
		})
	case "shuffle":
		return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
			n, err := h.queue.Shuffle(ctx, in)
			return fmt.Sprintf("Shuffled %d tracks.", n), err
		})
	case "clear":
		return h.guildCommand(i, r, func(ctx context.Context, in usecases.GuildInput) (string, error) {
			n, err := h.queue.Clear(ctx, in)
			return fmt.Sprintf("Cleared %d tracks from the queue.", n), err
		})
	default:
		return respondError(r, fmt.Errorf("%w: unknown subcommand %q", errInvalidInteraction, subCmd.Name))
	}
}

func (h *CommandHandlers) handleQueueList(i *discordgo.InteractionCreate, r bot.Responder) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultCommandTimeout)
	defer cancel()

	output, err := h.queue.List(ctx, ids.guildInput())
	if err != nil {
		return respondError(r, err)
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       fmt.Sprintf("Queue (%d)", output.TotalTracks),
					Description: formatQueue(output),
				},
			},
		},
	})
}

// guildCommand runs op for a guild command and responds with its message.
func (h *CommandHandlers) guildCommand(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	op func(context.Context, usecases.GuildInput) (string, error),
) error {
	ids, err := parseInteraction(i)
	if err != nil {
		return respondError(r, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultCommandTimeout)
	defer cancel()

	msg, err := op(ctx, ids.guildInput())
	if err != nil {
		return respondError(r, err)
	}
	return respondSuccess(r, msg)
}

func intOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	for _, opt := range options {
		if opt.Name == name {
			return int(opt.IntValue())
		}
	}
	return 0
}

// Response helpers.

func respondSuccess(r bot.Responder, description string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

func respondError(r bot.Responder, err error) error {
	return respondEmbed(r, errorEmbed(err))
}

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func editError(r bot.Responder, err error) error {
	return editEmbed(r, errorEmbed(err))
}

func editEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Edit(&discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}

func errorEmbed(err error) *discordgo.MessageEmbed {
	if errors.Is(err, errInvalidInteraction) {
		slog.Warn("received invalid interaction", "error", err)
		return &discordgo.MessageEmbed{
			Description: "This command can only be used in a server.",
			Color:       colorError,
		}
	}

	msg, color, ok := errorMessage(err)
	if !ok {
		slog.Error("failed to run music command", "error", err)
	}
	return &discordgo.MessageEmbed{
		Description: msg,
		Color:       color,
	}
}
