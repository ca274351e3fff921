package botutil

import (
	"errors"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"

	"github.com/sadbox/echobot/pkg/testutil"
)

type fakeRegistrar struct {
	global  int
	guild   snowflake.ID
	guildN  int
	failErr error
}

func (f *fakeRegistrar) SetGlobalCommands(_ snowflake.ID, cmds []discord.ApplicationCommandCreate, _ ...rest.RequestOpt) ([]discord.ApplicationCommand, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.global = len(cmds)
	return nil, nil
}

func (f *fakeRegistrar) SetGuildCommands(_ snowflake.ID, guildID snowflake.ID, cmds []discord.ApplicationCommandCreate, _ ...rest.RequestOpt) ([]discord.ApplicationCommand, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.guild = guildID
	f.guildN = len(cmds)
	return nil, nil
}

func TestRegisterCommandsGlobal(t *testing.T) {
	r := &fakeRegistrar{}
	cmds := []discord.ApplicationCommandCreate{discord.SlashCommandCreate{Name: "test", Description: "Echo"}}
	if err := RegisterCommands(r, 1, 0, cmds, testutil.DiscardLogger()); err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	if r.global != 1 || r.guildN != 0 {
		t.Errorf("global=%d guild=%d, want global registration only", r.global, r.guildN)
	}
}

func TestRegisterCommandsGuild(t *testing.T) {
	r := &fakeRegistrar{}
	cmds := []discord.ApplicationCommandCreate{discord.SlashCommandCreate{Name: "test", Description: "Echo"}}
	if err := RegisterCommands(r, 1, 1013566342345019512, cmds, testutil.DiscardLogger()); err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	if r.guild != 1013566342345019512 || r.guildN != 1 {
		t.Errorf("guild=%d count=%d", r.guild, r.guildN)
	}
	if r.global != 0 {
		t.Error("unexpected global registration")
	}
}

func TestRegisterCommandsError(t *testing.T) {
	r := &fakeRegistrar{failErr: errors.New("missing access")}
	err := RegisterCommands(r, 1, 0, nil, testutil.DiscardLogger())
	if err == nil || !errors.Is(err, r.failErr) {
		t.Fatalf("err = %v, want wrapped %v", err, r.failErr)
	}
}

type fakeResponder struct {
	got discord.MessageCreate
}

func (f *fakeResponder) CreateMessage(m discord.MessageCreate, _ ...rest.RequestOpt) error {
	f.got = m
	return nil
}

func TestRespond(t *testing.T) {
	f := &fakeResponder{}
	if err := Respond(f, "hello"); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if f.got.Content != "hello" {
		t.Errorf("Content = %q, want hello", f.got.Content)
	}
}
