package echobot

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const channelCacheSize = 128

// Messenger is what the handlers need from Discord.
type Messenger interface {
	// ChannelExists reports whether the bot can see the channel.
	ChannelExists(channelID snowflake.ID) bool
	Send(channelID snowflake.ID, content string) error
}

// restAPI is the subset of rest.Rest the messenger calls.
type restAPI interface {
	GetChannel(channelID snowflake.ID, opts ...rest.RequestOpt) (discord.Channel, error)
	CreateMessage(channelID snowflake.ID, messageCreate discord.MessageCreate, opts ...rest.RequestOpt) (*discord.Message, error)
}

// restMessenger talks to the REST API and remembers channels it has already
// resolved, so reconnects do not refetch the announcement channel.
type restMessenger struct {
	rest  restAPI
	known *lru.Cache[snowflake.ID, discord.ChannelType]
	log   *slog.Logger
}

func newRESTMessenger(r restAPI, log *slog.Logger) (*restMessenger, error) {
	known, err := lru.New[snowflake.ID, discord.ChannelType](channelCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating channel cache: %w", err)
	}
	return &restMessenger{rest: r, known: known, log: log}, nil
}

func (m *restMessenger) ChannelExists(channelID snowflake.ID) bool {
	if _, ok := m.known.Get(channelID); ok {
		return true
	}
	ch, err := m.rest.GetChannel(channelID)
	if err != nil || ch == nil {
		m.log.Debug("Channel lookup failed", "channel_id", channelID, "error", err)
		return false
	}
	m.known.Add(channelID, ch.Type())
	return true
}

// Send posts content to channelID. A failed send forgets the channel, so the
// next lookup asks Discord again in case access was revoked.
func (m *restMessenger) Send(channelID snowflake.ID, content string) error {
	_, err := m.rest.CreateMessage(channelID, discord.MessageCreate{Content: content})
	if err != nil {
		m.known.Remove(channelID)
	}
	return err
}
