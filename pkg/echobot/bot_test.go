package echobot

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"

	"github.com/sadbox/echobot/pkg/testutil"
)

func TestNewRejectsEmptyToken(t *testing.T) {
	cfg := testConfig()
	cfg.Token = ""
	_, err := New(cfg, testutil.DiscardLogger())
	var ctorErr *ClientConstructionError
	if !errors.As(err, &ctorErr) {
		t.Fatalf("err = %v, want *ClientConstructionError", err)
	}
}

func TestNewBotRegistersTestCommand(t *testing.T) {
	b := newBot(testConfig(), testutil.DiscardLogger())
	if _, ok := b.commands[cmdTest]; !ok {
		t.Errorf("%q not registered", cmdTest)
	}
	if len(b.commands) != 1 {
		t.Errorf("got %d commands, want 1", len(b.commands))
	}
	if b.Env != "dev" {
		t.Errorf("Env = %q, want dev", b.Env)
	}
}

type fakeVerifier struct {
	calls int
	err   error
}

func (f *fakeVerifier) GetGatewayBot(...rest.RequestOpt) (*discord.GatewayBot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &discord.GatewayBot{}, nil
}

func TestRunRejectedToken(t *testing.T) {
	b, _, _ := newTestBot()
	v := &fakeVerifier{err: unauthorized()}
	b.verifier = v

	// b.Client is nil, so getting as far as OpenGateway would panic.
	err := b.Run(context.Background())
	if err == nil {
		t.Fatal("Run returned nil for a rejected token")
	}
	var restErr *rest.Error
	if !errors.As(err, &restErr) {
		t.Errorf("err = %v, want wrapped *rest.Error", err)
	}
	if v.calls != 1 {
		t.Errorf("token checked %d times, want 1", v.calls)
	}
	if b.Ready.Load() {
		t.Error("bot marked ready after a rejected token")
	}
}
