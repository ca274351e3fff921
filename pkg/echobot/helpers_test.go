package echobot

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sadbox/echobot/pkg/config"
	"github.com/sadbox/echobot/pkg/testutil"
)

const testChannelID snowflake.ID = 1142519200682876938

type sentMessage struct {
	ChannelID snowflake.ID
	Content   string
}

type fakeMessenger struct {
	mu       sync.Mutex
	channels map[snowflake.ID]bool
	sent     []sentMessage
	sendErr  error
}

func (f *fakeMessenger) ChannelExists(id snowflake.ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.channels[id]
}

func (f *fakeMessenger) Send(id snowflake.ID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMessage{ChannelID: id, Content: content})
	return nil
}

func (f *fakeMessenger) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

func testConfig() *config.Config {
	return &config.Config{
		CommandPrefix: "!",
		ChannelID:     testChannelID,
		Token:         "token",
		LogLevel:      "info",
		Env:           "dev",
	}
}

// newTestBot returns a bot wired to a fake messenger and a log recorder.
func newTestBot() (*Bot, *fakeMessenger, *testutil.LogRecorder) {
	rec := testutil.NewLogRecorder()
	m := &fakeMessenger{channels: map[snowflake.ID]bool{testChannelID: true}}
	b := newBot(testConfig(), rec.Logger())
	b.messenger = m
	return b, m, rec
}

func errorRecords(rec *testutil.LogRecorder) []testutil.Record {
	return rec.AtLevel(slog.LevelError)
}

var errTest = errors.New("test failure")

// unauthorized is the error the REST client returns for a 401 response.
func unauthorized() *rest.Error {
	return &rest.Error{
		Response: &http.Response{StatusCode: http.StatusUnauthorized, Status: "401 Unauthorized"},
		Message:  "401: Unauthorized",
	}
}
