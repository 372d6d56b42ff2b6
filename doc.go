/*
Package irc implements the core of an IRC (RFC 2812) client: a command
serializer, a line parser, an event bus, and a connection manager with a
pluggable line pipeline.

This overview provides brief introductions for the main types and
concepts. The godoc for each type contains expanded documentation, and
the package examples show what client code looks like.

# Client

The Client type manages one connection to an IRC server. It dials the
transport, reads CR-LF delimited lines, runs each line through the
pipeline, and dispatches events to registered handlers:

	c := irc.New("irc.example.org:6697")

	c.On("PRIVMSG", func(e irc.Event) {
		fmt.Println(e.String("nick"), "said", e.String("message"))
	})

	c.On(irc.EventClientConnect, func(e irc.Event) {
		c.Send("NICK", irc.Fields{"nick": "gopher"})
		c.Send("USER", irc.Fields{"user": "gopher", "realname": "A Gopher"})
	})

	err := c.Connect(ctx)

The connection lifecycle is delivered as ordinary events. CLIENT_CONNECT
fires once per successful Connect; CLIENT_DISCONNECT fires exactly once
per connection, no matter whether the close came from Disconnect, a
remote hangup, or a transport error. Reconnect policy stays in caller
code:

	c.On(irc.EventClientDisconnect, func(e irc.Event) {
		time.Sleep(5 * time.Second)
		c.Connect(context.Background())
	})

# Sending commands

Send takes a command name and named fields, and the Serializer picks the
best matching wire shape for the fields given:

	c.Send("JOIN", irc.Fields{"channel": "#go"})
	c.Send("JOIN", irc.Fields{"channel": []string{"#go", "#irc"}, "key": "hunter2"})
	c.Send("PRIVMSG", irc.Fields{"target": "#go", "message": "Hello, World!"})

Commands with optional parameters have one template per shape; the
template with the most satisfied required fields wins. SendRaw writes an
arbitrary preformatted line for anything the registered command surface
does not cover.

# Events and handlers

Inbound lines are parsed into a canonical event name (numerics resolve
to their RPL_ and ERR_ names) plus named fields. Handlers registered with
On receive an Event, or a struct whose fields are populated by name:

	type privmsg struct {
		Nick    string
		Target  string
		Message string
	}
	c.On("PRIVMSG", func(m privmsg) { ... })

Every handler scheduled by one trigger runs in its own goroutine, and
the Fire handle returned by Trigger resolves after all of them return.
Wait and WaitFor suspend until an event arrives:

	// race the end of the MOTD against its absence
	c.WaitFor(ctx, []string{"RPL_ENDOFMOTD", "ERR_NOMOTD"}, irc.WaitFirst)

# Pipeline

Each line read from the connection passes through Client.LineHandlers in
order. A handler forwards the line by calling next, or consumes it by
returning without calling next. ParseDispatch is the terminal handler
that parses and triggers; PingHandler answers server keepalives:

	c.LineHandlers = []irc.LineHandler{irc.PingHandler, irc.ParseDispatch}

# Transport

The Client dials Addr with TLS by default. Any io.ReadWriteCloser
carrying CRLF-delimited lines works via the Dial field: plain TCP, a
WebSocket adapter (see the ircws package), or a mock server for tests
(see the irctest package).
*/
package irc
