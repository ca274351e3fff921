package echobot

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/sadbox/echobot/pkg/botutil"
)

func slashCommands() []discord.ApplicationCommandCreate {
	perm := discord.PermissionSendMessages
	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:                     cmdTest,
			Description:              "Echo a message back",
			DefaultMemberPermissions: omit.NewPtr(perm),
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        optTestInput,
					Description: "Text to echo",
				},
			},
		},
	}
}

func (b *Bot) registerSlashCommands() error {
	return botutil.RegisterCommands(b.Client.Rest, b.Client.ApplicationID, b.cfg.GuildID, slashCommands(), b.Log)
}

func (b *Bot) onCommand(e *events.ApplicationCommandInteractionCreate) {
	d, ok := e.Data.(discord.SlashCommandInteractionData)
	if !ok {
		return
	}
	b.dispatchSlash(d.CommandName(), optionalString(d, optTestInput), e)
}

func (b *Bot) dispatchSlash(name string, arg *string, r botutil.MessageResponder) bool {
	h, ok := b.commands[name]
	if !ok {
		return false
	}
	b.invoke(name, h, func(content string) error {
		return botutil.Respond(r, content)
	}, arg)
	return true
}

func optionalString(d discord.SlashCommandInteractionData, name string) *string {
	v, ok := d.OptString(name)
	if !ok {
		return nil
	}
	return &v
}
