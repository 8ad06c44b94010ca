package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Embed colors
const (
	colorSuccess = 0x00ff00
	colorInfo    = 0x3498db
	colorError   = 0xff0000
)

// CommandHandler defines the interface for Discord command handlers
type CommandHandler interface {
	// GetName returns the command name
	GetName() string

	// GetCommand returns the application command definition
	GetCommand() *discordgo.ApplicationCommand

	// Handle processes a Discord interaction
	Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// BaseCommand provides common functionality for all commands
type BaseCommand struct {
	Name        string
	Description string
	Options     []*discordgo.ApplicationCommandOption
}

// GetName returns the command name
func (c *BaseCommand) GetName() string {
	return c.Name
}

// GetCommand returns the application command definition
func (c *BaseCommand) GetCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
}

// reply is a rendered command response
type reply struct {
	title       string
	description string
	fields      []*discordgo.MessageEmbedField
	footer      string
	files       []*discordgo.File

	// ephemeral replies are only shown to the caller
	ephemeral bool
	isError   bool
}

func errorReply(message string) *reply {
	return &reply{
		title:       "Error",
		description: message,
		ephemeral:   true,
		isError:     true,
	}
}

// embed builds the message embed for r
func (r *reply) embed() *discordgo.MessageEmbed {
	color := colorSuccess
	if r.isError {
		color = colorError
	} else if r.ephemeral {
		color = colorInfo
	}

	embed := &discordgo.MessageEmbed{
		Title:       r.title,
		Description: r.description,
		Color:       color,
		Fields:      r.fields,
	}
	if r.footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: r.footer}
	}
	return embed
}

// responseData builds the interaction response payload for r
func (r *reply) responseData() *discordgo.InteractionResponseData {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{r.embed()},
		Files:  r.files,
	}
	if r.ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return data
}

// respond sends the reply to an interaction
func respond(s *discordgo.Session, i *discordgo.InteractionCreate, r *reply) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: r.responseData(),
	})
}
