package irc

import (
	"strconv"
	"strings"
)

// Unpack parses one inbound line and maps it onto a canonical event name
// with named fields.
//
// Numeric reply codes resolve through Synonym, so "001" and "RPL_WELCOME"
// are the same event. MODE splits into USERMODE or CHANNELMODE depending
// on whether its first parameter names a channel. Lines with a known
// structure but an unknown command are a ParseError; the pipeline's
// terminal handler logs and swallows those so the read loop keeps going.
func Unpack(line string) (string, Fields, error) {
	m, err := ParseLine(line)
	if err != nil {
		return "", nil, err
	}

	event := Synonym(m.Command)
	if event == "MODE" {
		if isChannel(m.Param(0)) {
			event = "CHANNELMODE"
		} else {
			event = "USERMODE"
		}
	}

	fields := Fields{}
	switch event {
	case "PING", "PONG":
		fields["message"] = textParam(m, 0)

	case "PRIVMSG", "NOTICE":
		addNickmask(m, fields)
		fields["target"] = m.Param(0)
		fields["message"] = m.Trailing

	case "JOIN":
		addNickmask(m, fields)
		fields["channel"] = textParam(m, 0)

	case "PART":
		addNickmask(m, fields)
		fields["channel"] = m.Param(0)
		fields["message"] = m.Trailing

	case "QUIT":
		addNickmask(m, fields)
		fields["message"] = m.Trailing

	case "NICK":
		addNickmask(m, fields)
		fields["new_nick"] = textParam(m, 0)

	case "INVITE":
		addNickmask(m, fields)
		fields["target"] = m.Param(0)
		fields["channel"] = textParam(m, 1)

	case "KICK":
		addNickmask(m, fields)
		fields["channel"] = m.Param(0)
		fields["target"] = m.Param(1)
		fields["message"] = m.Trailing

	case "USERMODE":
		addNickmask(m, fields)
		fields["target"] = m.Param(0)
		fields["modes"] = textParam(m, 1)

	case "CHANNELMODE":
		addNickmask(m, fields)
		fields["channel"] = m.Param(0)
		fields["modes"] = textParam(m, 1)
		fields["params"] = tailParams(m, 2)

	case "TOPIC":
		fields["channel"] = m.lastParam()
		// TOPIC with an empty trailing parameter clears the topic;
		// TOPIC with no trailing parameter at all is a query.
		if m.HasTrailing() {
			fields["message"] = m.Trailing
		}

	case "RPL_TOPIC", "RPL_NOTOPIC", "RPL_ENDOFNAMES":
		fields["channel"] = m.lastParam()
		fields["message"] = m.Trailing

	case "RPL_NAMREPLY":
		fields["target"] = m.Param(0)
		channelType := ""
		if len(m.Params) >= 3 {
			channelType = m.Param(1)
		}
		fields["channel_type"] = channelType
		fields["channel"] = m.lastParam()
		fields["users"] = strings.Fields(m.Trailing)

	case "RPL_WHOREPLY":
		fields["target"] = m.Param(0)
		fields["channel"] = m.Param(1)
		fields["user"] = m.Param(2)
		fields["host"] = m.Param(3)
		fields["server"] = m.Param(4)
		fields["nick"] = m.Param(5)
		fields["hg_code"] = m.Param(6)
		hops, realName, _ := strings.Cut(m.Trailing, " ")
		n, err := strconv.Atoi(hops)
		if err != nil {
			return "", nil, &ParseError{Line: line, Reason: "bad hopcount " + strconv.Quote(hops)}
		}
		fields["hopcount"] = n
		fields["real_name"] = realName

	case "RPL_ENDOFWHO":
		fields["name"] = m.Param(0)
		fields["message"] = m.Trailing

	case "RPL_WELCOME", "RPL_YOURHOST", "RPL_CREATED",
		"RPL_MOTDSTART", "RPL_MOTD", "RPL_ENDOFMOTD",
		"RPL_LUSERCLIENT", "RPL_LUSERME", "ERR_NOMOTD", "ERROR":
		fields["message"] = m.Trailing

	case "RPL_LUSEROP", "RPL_LUSERUNKNOWN", "RPL_LUSERCHANNELS":
		// ":srv 252 nick 3 :operator(s) online" carries the count as a
		// middle parameter; some servers put it in the trailing text.
		raw, message := m.Trailing, ""
		if len(m.Params) >= 2 {
			raw, message = m.Param(1), m.Trailing
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return "", nil, &ParseError{Line: line, Reason: "bad count " + strconv.Quote(raw)}
		}
		fields["count"] = n
		fields["message"] = message

	case "RPL_MYINFO", "RPL_BOUNCE":
		fields["info"] = tailParams(m, 1)
		fields["message"] = m.Trailing

	default:
		return "", nil, &ParseError{Line: line, Reason: "unknown command " + strconv.Quote(event)}
	}

	return event, fields, nil
}

// isChannel reports whether name carries one of the channel type prefixes
// from RFC 2811.
func isChannel(name string) bool {
	return name != "" && strings.IndexByte("#&+!", name[0]) >= 0
}

// addNickmask copies the non-empty parts of the message prefix into
// fields. A nick!user@host prefix yields all three; a server prefix
// yields only host.
func addNickmask(m *Message, fields Fields) {
	if m.Source.Nick != "" {
		fields["nick"] = m.Source.Nick
	}
	if m.Source.User != "" {
		fields["user"] = m.Source.User
	}
	if m.Source.Host != "" {
		fields["host"] = m.Source.Host
	}
}

// textParam returns the nth middle parameter, falling back to the trailing
// text when the parameter list runs out. Servers are split on which form
// they use for single-argument commands such as PING and NICK.
func textParam(m *Message, n int) string {
	if n < len(m.Params) {
		return m.Params[n]
	}
	return m.Trailing
}

// tailParams returns a copy of the middle parameters from position n on.
func tailParams(m *Message, n int) []string {
	if n >= len(m.Params) {
		return []string{}
	}
	return append([]string{}, m.Params[n:]...)
}
