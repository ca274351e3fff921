// Package echobot is a Discord bot that announces itself in one channel and
// answers the test command by echoing its argument.
package echobot

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"

	"github.com/sadbox/echobot/pkg/botutil"
	"github.com/sadbox/echobot/pkg/config"
)

const invitePermissions = discord.PermissionViewChannel | discord.PermissionSendMessages

// tokenVerifier asks Discord for the bot's gateway info, which fails for a
// rejected token.
type tokenVerifier interface {
	GetGatewayBot(opts ...rest.RequestOpt) (*discord.GatewayBot, error)
}

type Bot struct {
	*botutil.BaseBot
	cfg         *config.Config
	messenger   Messenger
	verifier    tokenVerifier
	commands    map[string]commandHandler
	startupTime atomic.Pointer[time.Time]
}

// New builds the bot and its gateway client. It does not connect.
func New(cfg *config.Config, log *slog.Logger) (*Bot, error) {
	b := newBot(cfg, log)

	client, err := disgo.New(cfg.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentDirectMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithEventListenerFunc(b.onReady),
		bot.WithEventListenerFunc(b.onMessage),
		bot.WithEventListenerFunc(b.onCommand),
	)
	if err != nil {
		return nil, &ClientConstructionError{Err: err}
	}

	messenger, err := newRESTMessenger(client.Rest, b.Log)
	if err != nil {
		return nil, &ClientConstructionError{Err: err}
	}

	b.Client = client
	b.messenger = messenger
	b.verifier = client.Rest
	return b, nil
}

func newBot(cfg *config.Config, log *slog.Logger) *Bot {
	b := &Bot{
		BaseBot: botutil.NewBaseBot(cfg.Env, cfg.HealthcheckEndpoint, log),
		cfg:     cfg,
	}
	b.registerCommands()
	return b
}

// StartupTime returns when the first Ready event arrived.
func (b *Bot) StartupTime() (time.Time, bool) {
	t := b.startupTime.Load()
	if t == nil {
		return time.Time{}, false
	}
	return *t, true
}

// Run connects to the gateway and blocks until a shutdown signal arrives or
// ctx is done. A rejected token is returned as an error.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.verifier.GetGatewayBot(); err != nil {
		return fmt.Errorf("verifying bot token: %w", err)
	}

	if err := b.Client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("opening gateway: %w", err)
	}
	defer b.Client.Close(context.Background())

	if b.cfg.SlashCommands {
		if err := b.registerSlashCommands(); err != nil {
			return fmt.Errorf("registering commands: %w", err)
		}
	}

	loopCtx, stopLoops := context.WithCancel(ctx)
	defer stopLoops()
	go botutil.RunLoop(loopCtx, &b.Ready, 30*time.Second, b.PingHealthcheck)

	b.Log.Info("Invite: " + botutil.InviteURL(b.Client, invitePermissions))
	botutil.WaitForShutdown(ctx, b.Log, "Echobot")
	return nil
}
