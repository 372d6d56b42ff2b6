package irc

import (
	"strings"
)

// Message represents the structural parts of one IRC line.
//
// IRC is a line-delimited, text-based protocol. A line consists of an
// optional source prefix, a command (verb or numeric), space-delimited
// middle parameters, and an optional trailing parameter introduced by ':'
// which may contain spaces.
type Message struct {

	// Source is where the message originated from.
	// It's set by the prefix portion of an IRC message.
	Source Prefix

	// Command is the IRC verb or numeric such as PRIVMSG, NOTICE, 001, etc.
	// It is stored upper-cased, not resolved against the synonym table;
	// Synonym returns the canonical event name.
	Command string

	// Params contains the middle (space-delimited) parameters.
	Params []string

	// Trailing is the free-text parameter following the ':' separator.
	// It is empty when the line had no trailing component.
	Trailing string

	// hasTrailing distinguishes an empty trailing parameter (":")
	// from a line with no trailing component at all. TOPIC uses an
	// empty trailing parameter to clear a topic.
	hasTrailing bool
}

// HasTrailing reports whether the line included the ':' trailing
// separator, even with empty text after it.
func (m *Message) HasTrailing() bool {
	return m.hasTrailing || m.Trailing != ""
}

// Prefix is the optional message (line) prefix,
// which indicates the source (user or server) of the message,
// depending on the prefix format.
//
// Example line with no prefix:
//
//	PING :86F3E357
//
// Example nickname-only prefix:
//
//	:Travis MODE Travis :+ixz
//
// Example "fulladdress" prefix:
//
//	:NickServ!services@services.host NOTICE Travis :This nickname is registered...
//
// Example server prefix:
//
//	:fiery.ca.us.SwiftIRC.net MODE #foo +nt
type Prefix struct {
	Nick string
	User string
	Host string
}

// IsServer returns true when the message originated from a server (as
// opposed to a user/client). When true, the server name will be contained
// in the Host field.
func (p Prefix) IsServer() bool {
	return p.Host != "" && p.Nick == ""
}

// String implements fmt.Stringer
func (p Prefix) String() string {
	switch {
	case p.Nick == "" && p.User == "" && p.Host == "":
		return ""
	case p.Nick == "" && p.User == "":
		return p.Host
	case p.User == "" && p.Host == "":
		return p.Nick
	default:
		return p.Nick + "!" + p.User + "@" + p.Host
	}
}

// Param returns the nth middle parameter (starting at 0),
// or "" (empty string) if it did not exist.
//
// Because parameters have meaning based on their position in the argument
// list, Param does not differentiate between missing and empty parameters.
func (m *Message) Param(n int) string {
	if n < 0 || n >= len(m.Params) {
		return ""
	}
	return m.Params[n]
}

// lastParam returns the final middle parameter, or "" if there are none.
func (m *Message) lastParam() string {
	if len(m.Params) == 0 {
		return ""
	}
	return m.Params[len(m.Params)-1]
}

// String renders the message in wire format without the terminating CR-LF.
// The trailing parameter is always written with the ':' separator so a
// round trip is stable even when it contains spaces.
func (m *Message) String() string {
	var b strings.Builder
	if src := m.Source.String(); src != "" {
		b.WriteByte(':')
		b.WriteString(src)
		b.WriteByte(' ')
	}
	b.WriteString(m.Command)
	for _, p := range m.Params {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	if m.HasTrailing() {
		b.WriteString(" :")
		b.WriteString(m.Trailing)
	}
	return b.String()
}

// ParseLine splits one IRC line into its structural parts.
// line should not include the terminating CR-LF pair, although stray
// CR or LF characters at the end are tolerated.
//
// ParseLine performs no semantic interpretation; Unpack maps a line onto
// a canonical event name with named fields.
func ParseLine(line string) (*Message, error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, &ParseError{Line: line, Reason: "empty line"}
	}

	m := new(Message)
	rest := line

	if strings.HasPrefix(rest, ":") {
		prefix, remainder, found := strings.Cut(rest[1:], " ")
		if !found {
			return nil, &ParseError{Line: line, Reason: "prefix without command"}
		}
		if prefix == "" {
			return nil, &ParseError{Line: line, Reason: "empty prefix"}
		}
		m.Source = parsePrefix(prefix)
		rest = strings.TrimLeft(remainder, " ")
	}

	cmd, remainder, _ := strings.Cut(rest, " ")
	if cmd == "" || strings.HasPrefix(cmd, ":") {
		return nil, &ParseError{Line: line, Reason: "missing command"}
	}
	m.Command = strings.ToUpper(cmd)
	rest = strings.TrimLeft(remainder, " ")

	for rest != "" {
		if strings.HasPrefix(rest, ":") {
			m.Trailing = rest[1:]
			m.hasTrailing = true
			break
		}
		var param string
		param, rest, _ = strings.Cut(rest, " ")
		m.Params = append(m.Params, param)
		rest = strings.TrimLeft(rest, " ")
	}

	return m, nil
}

// parsePrefix splits a message prefix into nick, user, and host.
//
// A prefix containing '!' is in the nick!user@host form. Without '!',
// a token containing '.' is a server name (dots are not valid inside
// nicknames); anything else is a bare nickname.
func parsePrefix(prefix string) Prefix {
	if nick, rest, found := strings.Cut(prefix, "!"); found {
		user, host, _ := strings.Cut(rest, "@")
		return Prefix{Nick: nick, User: user, Host: host}
	}
	if strings.Contains(prefix, ".") {
		return Prefix{Host: prefix}
	}
	return Prefix{Nick: prefix}
}
