package ircws_test

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graylag/irc"
	"github.com/graylag/irc/ircws"
)

var upgrader = websocket.Upgrader{}

// newGateway starts a WebSocket endpoint that answers every PING line
// with a PONG carrying the same token.
func newGateway(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, payload, err := ws.ReadMessage()
			if err != nil {
				return
			}
			line := string(payload)
			if token, ok := strings.CutPrefix(line, "PING "); ok {
				if err := ws.WriteMessage(websocket.TextMessage, []byte("PONG "+token)); err != nil {
					return
				}
			}
		}
	}))
}

func wsURL(s *httptest.Server) string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func TestConnRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	gateway := newGateway(t)
	defer gateway.Close()

	conn, err := ircws.Dial(ctx, wsURL(gateway), nil)
	require.NoError(t, err)
	defer conn.Close()

	_, err = io.WriteString(conn, "PING tok-1\r\n")
	require.NoError(t, err)

	r := bufio.NewScanner(conn)
	require.True(t, r.Scan())
	assert.Equal(t, "PONG tok-1", r.Text())
}

func TestConnSplitsBatchedWrites(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	gateway := newGateway(t)
	defer gateway.Close()

	conn, err := ircws.Dial(ctx, wsURL(gateway), nil)
	require.NoError(t, err)
	defer conn.Close()

	// two lines in one write become two messages, so two pongs come back
	_, err = io.WriteString(conn, "PING a\r\nPING b\r\n")
	require.NoError(t, err)

	r := bufio.NewScanner(conn)
	require.True(t, r.Scan())
	assert.Equal(t, "PONG a", r.Text())
	require.True(t, r.Scan())
	assert.Equal(t, "PONG b", r.Text())
}

func TestConnAsClientTransport(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	gateway := newGateway(t)
	defer gateway.Close()

	client := irc.New("")
	client.Dial = func() (io.ReadWriteCloser, error) {
		return ircws.Dial(ctx, wsURL(gateway), nil)
	}

	pong := make(chan irc.Event, 1)
	_, err := client.On("PONG", func(e irc.Event) {
		pong <- e
	})
	require.NoError(t, err)

	require.NoError(t, client.Connect(ctx))
	require.NoError(t, client.Send("PING", irc.Fields{"message": "tok-ws"}))

	select {
	case e := <-pong:
		assert.Equal(t, "tok-ws", e.String("message"))
	case <-ctx.Done():
		t.Fatal("no PONG came back through the gateway")
	}

	require.NoError(t, client.Disconnect(ctx))
}
