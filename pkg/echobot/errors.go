package echobot

import (
	"errors"
	"fmt"
	"net"

	"github.com/disgoorg/disgo/rest"
)

// ClientConstructionError is returned by New when the gateway client cannot be built.
type ClientConstructionError struct {
	Err error
}

func (e *ClientConstructionError) Error() string {
	return fmt.Sprintf("creating discord client: %v", e.Err)
}

func (e *ClientConstructionError) Unwrap() error { return e.Err }

// TransportSendError is a send rejected by Discord or lost on the network.
type TransportSendError struct {
	Command string
	Err     error
}

func (e *TransportSendError) Error() string {
	return fmt.Sprintf("%s: sending reply: %v", e.Command, e.Err)
}

func (e *TransportSendError) Unwrap() error { return e.Err }

// UnexpectedHandlerError is any other failure inside a command handler,
// including a recovered panic.
type UnexpectedHandlerError struct {
	Command string
	Err     error
}

func (e *UnexpectedHandlerError) Error() string {
	return fmt.Sprintf("%s: unexpected error: %v", e.Command, e.Err)
}

func (e *UnexpectedHandlerError) Unwrap() error { return e.Err }

func classifySendError(command string, err error) error {
	var restErr *rest.Error
	var netErr net.Error
	if errors.As(err, &restErr) || errors.As(err, &netErr) {
		return &TransportSendError{Command: command, Err: err}
	}
	return &UnexpectedHandlerError{Command: command, Err: err}
}
