// Package ircws adapts an IRC-over-WebSocket endpoint to the
// io.ReadWriteCloser expected by an irc.Client's Dial field.
//
// Per the WebSocket subprotocol used by IRC gateways, each WebSocket
// text message carries exactly one IRC line without the CR-LF pair. The
// adapter restores CR-LF on reads and splits writes back into one
// message per line, so the Client can treat the stream like any other
// connection:
//
//	c := irc.New("")
//	c.Dial = func() (io.ReadWriteCloser, error) {
//		return ircws.Dial(context.Background(), "wss://irc.example.org/webirc", nil)
//	}
package ircws

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Dial connects to url and returns the adapted connection.
func Dial(ctx context.Context, url string, header http.Header) (io.ReadWriteCloser, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return NewConn(ws), nil
}

// NewConn wraps an established WebSocket connection. Useful when the
// handshake needs a custom dialer or TLS configuration.
func NewConn(ws *websocket.Conn) io.ReadWriteCloser {
	return &conn{ws: ws}
}

type conn struct {
	ws      *websocket.Conn
	readBuf []byte
	writeMu sync.Mutex
}

// Read yields the next WebSocket message as a CR-LF terminated line,
// spread over as many calls as the destination buffer requires.
func (c *conn) Read(p []byte) (int, error) {
	for len(c.readBuf) == 0 {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return 0, err
		}
		if len(payload) == 0 {
			continue
		}
		c.readBuf = append(payload, '\r', '\n')
	}
	n := copy(p, c.readBuf)
	c.readBuf = c.readBuf[n:]
	return n, nil
}

// Write sends each CR-LF delimited line in p as one text message.
// The Client writes whole lines, so p never ends mid-line.
func (c *conn) Write(p []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if err := c.ws.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Close sends a close frame, then tears down the underlying connection.
func (c *conn) Close() error {
	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, deadline)
	return c.ws.Close()
}
