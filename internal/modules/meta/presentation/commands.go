package presentation

import (
	"github.com/bwmarrin/discordgo"
	"github.com/vicky5124-DAM2/Discord-Jukebox/internal/modules/meta/domain"
)

// arithmeticCommands maps each arithmetic slash command to its operation.
var arithmeticCommands = []struct {
	op          domain.Operation
	description string
}{
	{domain.OperationAdd, "Add two numbers"},
	{domain.OperationSubtract, "Subtract the second number from the first"},
	{domain.OperationMultiply, "Multiply two numbers"},
	{domain.OperationDivide, "Divide the first number by the second"},
}

// Commands returns all slash commands of the meta module.
func Commands() []*discordgo.ApplicationCommand {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Checks that the bot is alive",
		},
		{
			Name:        "echo",
			Description: "Repeats your input",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "Text to repeat",
					Required:    true,
				},
			},
		},
	}

	for _, c := range arithmeticCommands {
		commands = append(commands, &discordgo.ApplicationCommand{
			Name:        string(c.op),
			Description: c.description,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "a",
					Description: "First number",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "b",
					Description: "Second number",
					Required:    true,
				},
			},
		})
	}

	return commands
}
