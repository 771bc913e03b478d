package presentation

import (
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/bot"
)

func commandInteraction(
	name string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
		},
	}
}

func numberOpt(name string, v float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionNumber,
		Value: v,
	}
}

func TestPingHandler_ReturnsMessage(t *testing.T) {
	handler := NewPingHandler(func() time.Duration { return 20 * time.Millisecond })
	responder := &bot.MockResponder{}

	if err := handler.Handle(nil, nil, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := responder.LastResponse()
	if resp == nil {
		t.Fatal("expected response, got nil")
	}
	if resp.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("expected response type %d, got %d",
			discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	}
	if resp.Data == nil || resp.Data.Content != "Pong! (20ms)" {
		t.Errorf("unexpected response data %+v", resp.Data)
	}
}

func TestPingHandler_ResponderError(t *testing.T) {
	handler := NewPingHandler(nil)
	expectedErr := errors.New("responder failed")
	responder := &bot.MockResponder{Err: expectedErr}

	err := handler.Handle(nil, nil, responder)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestHandleEcho(t *testing.T) {
	responder := &bot.MockResponder{}
	i := commandInteraction("echo", &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "text",
		Type:  discordgo.ApplicationCommandOptionString,
		Value: "hello @everyone",
	})

	if err := HandleEcho(nil, i, responder); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data := responder.LastResponse().Data
	if data.Content != "hello @everyone" {
		t.Errorf("expected echoed text, got %q", data.Content)
	}
	if data.AllowedMentions == nil || len(data.AllowedMentions.Parse) != 0 {
		t.Error("expected echo to suppress mentions")
	}
}

func TestCalculateHandler(t *testing.T) {
	tests := []struct {
		command string
		a, b    float64
		want    string
	}{
		{command: "add", a: 1, b: 2, want: "3"},
		{command: "subtract", a: 1, b: 2.5, want: "-1.5"},
		{command: "multiply", a: 3, b: 4, want: "12"},
		{command: "divide", a: 1, b: 4, want: "0.25"},
		{command: "divide", a: 1, b: 0, want: "Error: can't divide by zero."},
	}

	handlers := NewCalculateHandler().Handlers()
	for _, tt := range tests {
		t.Run(tt.command+" "+tt.want, func(t *testing.T) {
			handler, ok := handlers[tt.command]
			if !ok {
				t.Fatalf("no handler for %q", tt.command)
			}

			responder := &bot.MockResponder{}
			i := commandInteraction(tt.command, numberOpt("a", tt.a), numberOpt("b", tt.b))
			if err := handler(nil, i, responder); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := responder.LastResponse().Data.Content; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCommands_HaveHandlers(t *testing.T) {
	handlers := NewCalculateHandler().Handlers()
	for _, cmd := range Commands() {
		if cmd.Name == "ping" || cmd.Name == "echo" {
			continue
		}
		if _, ok := handlers[cmd.Name]; !ok {
			t.Errorf("command %q has no handler", cmd.Name)
		}
	}
}
