package echobot

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

const (
	cmdTest      = "test"
	testUsage    = "> Need a message: !test <message>"
	optTestInput = "message"
)

// replyFunc sends content back to wherever the command was invoked.
type replyFunc func(content string) error

// commandHandler runs one command. arg is nil when nothing follows the
// command name. A returned error is logged by the dispatcher.
type commandHandler func(reply replyFunc, arg *string) error

func (b *Bot) registerCommands() {
	b.commands = map[string]commandHandler{
		cmdTest: b.handleTest,
	}
}

// parseCommand splits "<prefix><name> <rest>" into name and trimmed rest.
// ok is false when content does not start with prefix or names no command.
func parseCommand(content, prefix string) (name string, arg *string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	body := strings.TrimPrefix(content, prefix)
	end := strings.IndexFunc(body, unicode.IsSpace)
	if end == -1 {
		end = len(body)
	}
	name = body[:end]
	if name == "" {
		return "", nil, false
	}
	rest := strings.TrimSpace(body[end:])
	if rest == "" {
		return name, nil, true
	}
	return name, &rest, true
}

func (b *Bot) onMessage(e *events.MessageCreate) {
	if e.Message.Author.Bot {
		return
	}
	b.dispatch(e.ChannelID, e.Message.Content)
}

// dispatch runs the command named in content, if any, replying in channelID.
// It reports whether a registered command was found.
func (b *Bot) dispatch(channelID snowflake.ID, content string) bool {
	name, arg, ok := parseCommand(content, b.cfg.CommandPrefix)
	if !ok {
		return false
	}
	h, ok := b.commands[name]
	if !ok {
		return false
	}
	b.invoke(name, h, func(content string) error {
		return b.messenger.Send(channelID, content)
	}, arg)
	return true
}

// invoke runs h and logs, never propagates, whatever goes wrong.
func (b *Bot) invoke(name string, h commandHandler, reply replyFunc, arg *string) {
	defer func() {
		if r := recover(); r != nil {
			err := &UnexpectedHandlerError{Command: name, Err: fmt.Errorf("panic: %v", r)}
			b.Log.Error("There has been an unexpected error", "command", name, "error", err)
		}
	}()

	if err := h(reply, arg); err != nil {
		err = classifySendError(name, err)
		switch err.(type) {
		case *TransportSendError:
			b.Log.Error("Failed to send reply", "command", name, "error", err)
		default:
			b.Log.Error("There has been an unexpected error", "command", name, "error", err)
		}
	}
}

func (b *Bot) handleTest(reply replyFunc, arg *string) error {
	b.Log.Info("!test command has been sent")
	if arg == nil {
		if err := reply(testUsage); err != nil {
			return err
		}
		b.Log.Info("Sent info message about the command: !test")
		return nil
	}
	if err := reply(*arg); err != nil {
		return err
	}
	b.Log.Info("Command successfully called!", "command", cmdTest)
	return nil
}
