package botutil

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

type MessageResponder interface {
	CreateMessage(discord.MessageCreate, ...rest.RequestOpt) error
}

// Respond replies to an interaction with plain content.
func Respond(e MessageResponder, content string) error {
	return e.CreateMessage(discord.MessageCreate{Content: content})
}

// CommandRegistrar is the part of rest.Rest used to publish application commands.
type CommandRegistrar interface {
	SetGlobalCommands(applicationID snowflake.ID, commandCreates []discord.ApplicationCommandCreate, opts ...rest.RequestOpt) ([]discord.ApplicationCommand, error)
	SetGuildCommands(applicationID snowflake.ID, guildID snowflake.ID, commandCreates []discord.ApplicationCommandCreate, opts ...rest.RequestOpt) ([]discord.ApplicationCommand, error)
}

// RegisterCommands registers commands in guildID, or globally when guildID is 0.
func RegisterCommands(r CommandRegistrar, applicationID, guildID snowflake.ID, commands []discord.ApplicationCommandCreate, log *slog.Logger) error {
	if guildID == 0 {
		if _, err := r.SetGlobalCommands(applicationID, commands); err != nil {
			return fmt.Errorf("registering global commands: %w", err)
		}
		log.Info("Registered global commands", "count", len(commands))
		return nil
	}
	if _, err := r.SetGuildCommands(applicationID, guildID, commands); err != nil {
		return fmt.Errorf("registering guild commands for %d: %w", guildID, err)
	}
	log.Info("Registered guild commands", "guild_id", guildID, "count", len(commands))
	return nil
}

// InviteURL is the OAuth2 URL that adds the bot to a server with the given permissions.
func InviteURL(client *bot.Client, permissions discord.Permissions) string {
	return fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%d&scope=bot%%20applications.commands&permissions=%d", client.ApplicationID, permissions)
}
