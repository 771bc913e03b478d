package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/application/ports"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/music_player/domain"
)

const (
	colorRed   = 0xE74C3C
	colorGreen = 0x2ECC71
)

const thumbnailProbeTimeout = 5 * time.Second

// Notifier sends playback notifications to Discord channels.
type Notifier struct {
	session    *discordgo.Session
	httpClient *http.Client
}

var _ ports.NotificationSender = (*Notifier)(nil)

// NewNotifier creates a new Notifier.
func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{
		session: session,
		httpClient: &http.Client{
			Timeout: thumbnailProbeTimeout,
		},
	}
}

// SendNowPlaying announces track and mentions whoever requested it.
func (n *Notifier) SendNowPlaying(channelID snowflake.ID, track *domain.Track, looped bool) error {
	embed := nowPlayingEmbed(track, looped)
	if thumbnail := n.bestThumbnail(track); thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: thumbnail}
	}

	msg := &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		// Mention the requester without pinging everyone else named in titles.
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{track.Annotation.RequesterID.String()},
		},
	}
	if track.Annotation.RequesterID != 0 {
		msg.Content = fmt.Sprintf("<@%s>", track.Annotation.RequesterID)
	}

	_, err := n.session.ChannelMessageSendComplex(channelID.String(), msg)
	return err
}

// SendQueueFinished announces that auto-advance ran out of tracks.
func (n *Notifier) SendQueueFinished(channelID snowflake.ID) error {
	embed := &discordgo.MessageEmbed{
		Description: "The queue has finished.",
		Color:       colorGreen,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// SendError sends an error message embed to the channel.
func (n *Notifier) SendError(channelID snowflake.ID, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: message,
		Color:       colorRed,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

func nowPlayingEmbed(track *domain.Track, looped bool) *discordgo.MessageEmbed {
	heading := "Now Playing"
	if looped {
		heading = "Now Playing (loop)"
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{Name: heading},
		Title:  track.Info.Title,
		URL:    track.Info.URI,
		Color:  track.Source().Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: orUnknown(track.Info.Author), Inline: true},
			{Name: "Duration", Value: track.FormattedDuration(), Inline: true},
		},
	}

	if track.Annotation.IsFallback() {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Found via " + track.Annotation.ResolvedBy,
		}
	}

	return embed
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// bestThumbnail returns the highest quality artwork that could be found for track.
func (n *Notifier) bestThumbnail(track *domain.Track) string {
	switch track.Source() {
	case domain.TrackSourceYouTube:
		return n.youTubeThumbnail(track.Info.Identifier, track.Info.ArtworkURL)
	case domain.TrackSourceTwitch:
		return n.twitchThumbnail(track.Info.ArtworkURL)
	default:
		return track.Info.ArtworkURL
	}
}

func (n *Notifier) youTubeThumbnail(videoID, fallbackURL string) string {
	if videoID == "" {
		return fallbackURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*thumbnailProbeTimeout)
	defer cancel()

	for _, quality := range []string{"maxresdefault", "sddefault", "hqdefault"} {
		url := fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", videoID, quality)
		if n.urlExists(ctx, url) {
			return url
		}
	}
	return fallbackURL
}

func (n *Notifier) twitchThumbnail(artworkURL string) string {
	highRes := strings.Replace(artworkURL, "440x248", "1280x720", 1)
	if highRes == artworkURL {
		return artworkURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), thumbnailProbeTimeout)
	defer cancel()

	if n.urlExists(ctx, highRes) {
		return highRes
	}
	return artworkURL
}

func (n *Notifier) urlExists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}
