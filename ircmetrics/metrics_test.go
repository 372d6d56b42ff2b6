package ircmetrics

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graylag/irc"
	"github.com/graylag/irc/irctest"
)

func TestCollectorCountsLines(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	server := irctest.NewServer()
	defer server.Close()

	client := irc.New("irc.example.com:6697")
	client.Dial = func() (io.ReadWriteCloser, error) {
		return server, nil
	}

	col := NewCollector(prometheus.NewRegistry())
	require.NoError(t, col.Install(client))

	require.NoError(t, client.Connect(ctx))

	got := make(chan struct{}, 2)
	_, err := client.On("PRIVMSG", func(e irc.Event) {
		got <- struct{}{}
	})
	require.NoError(t, err)

	server.WriteString(":n!u@h PRIVMSG #go :one")
	server.WriteString(":bad_prefix_without_command")
	server.WriteString(":n!u@h PRIVMSG #go :two")

	for i := 0; i < 2; i++ {
		select {
		case <-got:
		case <-ctx.Done():
			t.Fatal("timed out waiting for dispatched lines")
		}
	}

	require.NoError(t, client.Disconnect(ctx))

	assert.Equal(t, float64(3), testutil.ToFloat64(col.lines))
	assert.Equal(t, float64(1), testutil.ToFloat64(col.parseFailures))
	assert.Equal(t, float64(2), testutil.ToFloat64(col.events.WithLabelValues("PRIVMSG")))
	assert.Equal(t, float64(1), testutil.ToFloat64(col.disconnects))

	// the connect handler runs on the bus; give it a beat
	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(col.connects) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCollectorRegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	for _, want := range []string{
		"irc_lines_read_total",
		"irc_parse_failures_total",
		"irc_connects_total",
		"irc_disconnects_total",
	} {
		assert.Contains(t, names, want)
	}
}
