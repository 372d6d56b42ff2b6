package irc

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotConnected is returned by Send and SendRaw when the client has no
	// established connection.
	ErrNotConnected = errors.New("irc: not connected")

	// ErrAlreadyConnected is returned by Connect when the client is not in the
	// disconnected state.
	ErrAlreadyConnected = errors.New("irc: already connected")

	// ErrUnknownCommand is returned by Serialize for commands with no
	// registered templates. It unwraps from the returned ValidationError.
	ErrUnknownCommand = errors.New("irc: unknown command")
)

// ValidationError is returned by Serialize when a command cannot be encoded
// with the given fields: no template's required fields were satisfied, a
// conditional field was present without its prerequisite, or sibling
// multi-valued fields had irreconcilable lengths.
//
// No line is ever written to the connection when a ValidationError occurs.
type ValidationError struct {
	Command string
	Reason  string
	err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("irc: cannot serialize %s: %s", e.Command, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.err }

// ParseError is returned when an inbound line does not match any known
// structural grammar or maps to no known event. The pipeline's terminal
// handler swallows these so one malformed line never stops the read loop.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("irc: cannot parse line %q: %s", e.Line, e.Reason)
}

// RegistrationError is returned by On when a handler's shape is unusable:
// not a function, variadic, an unsupported signature, or a struct binding
// with colliding field names. It is always reported at registration time,
// never deferred to the first trigger.
type RegistrationError struct {
	Event  string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("irc: cannot register handler for %s: %s", e.Event, e.Reason)
}
