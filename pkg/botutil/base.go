package botutil

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/disgoorg/disgo/bot"
)

// BaseBot holds the fields every bot needs besides its own handlers.
type BaseBot struct {
	Client              *bot.Client
	Env                 string
	Log                 *slog.Logger
	Ready               atomic.Bool
	healthcheckEndpoint string
	httpClient          *http.Client
}

// NewBaseBot creates a BaseBot for the given environment. Healthcheck pings
// go to endpoint, and only when env is "prod".
func NewBaseBot(env, endpoint string, log *slog.Logger) *BaseBot {
	if log == nil {
		log = slog.Default()
	}
	return &BaseBot{
		Env:                 env,
		Log:                 log,
		healthcheckEndpoint: endpoint,
		httpClient:          &http.Client{Timeout: 10 * time.Second},
	}
}

// PingHealthcheck sends a GET to the configured healthcheck endpoint.
// It is a no-op outside prod or if no endpoint is configured.
func (b *BaseBot) PingHealthcheck() {
	if b.Env != "prod" || b.healthcheckEndpoint == "" {
		return
	}
	resp, err := b.httpClient.Get(b.healthcheckEndpoint)
	if err != nil {
		b.Log.Info("Healthcheck ping failed", "error", err)
		return
	}
	resp.Body.Close()
}

// MarkReady records that the gateway session is up. It reports whether this
// was the first time.
func (b *BaseBot) MarkReady() bool {
	return b.Ready.CompareAndSwap(false, true)
}
