package echobot

import (
	"strings"
	"time"

	"github.com/disgoorg/disgo/events"
)

func (b *Bot) onReady(e *events.Ready) {
	b.handleReady(e.User.Username, e.User.Discriminator)
}

func (b *Bot) handleReady(username, discriminator string) {
	now := time.Now()
	if b.startupTime.CompareAndSwap(nil, &now) {
		b.Log.Info("Bot is initializing...", "startup_time", now.Format(time.RFC3339))
	}
	if !b.MarkReady() {
		b.Log.Info("Reconnected", "uptime", time.Since(*b.startupTime.Load()).Round(time.Second))
	}

	channelID := b.cfg.ChannelID
	if !b.messenger.ChannelExists(channelID) {
		b.Log.Warn("Announcement channel not found, skipping activation message", "channel_id", channelID)
		return
	}

	if err := b.messenger.Send(channelID, activationMessage(displayName(username, discriminator))); err != nil {
		b.Log.Error("Failed to send activation message", "channel_id", channelID, "error", err)
		return
	}
	b.Log.Info("Bot has successfully activated", "channel_id", channelID)
}

// displayName renders a user the way Discord shows a tag: the bare username
// for accounts without a legacy discriminator, username#1234 otherwise.
func displayName(username, discriminator string) string {
	if discriminator == "" || discriminator == "0" {
		return username
	}
	return username + "#" + discriminator
}

func activationMessage(name string) string {
	return strings.ReplaceAll(name, "/d", "") + " is activated"
}
