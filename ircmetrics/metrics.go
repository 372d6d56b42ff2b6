// Package ircmetrics exposes Prometheus counters for an irc.Client:
// lines read, parse failures, events dispatched, and connection
// lifecycle transitions.
package ircmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/graylag/irc"
)

// Collector holds the per-client counters. Create one with NewCollector
// and wire it to a client with Install.
type Collector struct {
	lines         prometheus.Counter
	parseFailures prometheus.Counter
	events        *prometheus.CounterVec
	connects      prometheus.Counter
	disconnects   prometheus.Counter
}

// NewCollector registers the counters with reg. Pass
// prometheus.DefaultRegisterer outside of tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		lines: factory.NewCounter(prometheus.CounterOpts{
			Name: "irc_lines_read_total",
			Help: "Lines read from the connection.",
		}),
		parseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "irc_parse_failures_total",
			Help: "Inbound lines that did not match any known grammar.",
		}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "irc_events_total",
			Help: "Inbound lines by canonical event name.",
		}, []string{"event"}),
		connects: factory.NewCounter(prometheus.CounterOpts{
			Name: "irc_connects_total",
			Help: "Successful connection establishments.",
		}),
		disconnects: factory.NewCounter(prometheus.CounterOpts{
			Name: "irc_disconnects_total",
			Help: "Connection teardowns from any cause.",
		}),
	}
}

// LineHandler counts every line flowing through the pipeline and
// forwards it unchanged. Place it ahead of irc.ParseDispatch.
func (col *Collector) LineHandler(next irc.NextLineHandler, c *irc.Client, line []byte) {
	col.lines.Inc()
	if event, _, err := irc.Unpack(string(line)); err != nil {
		col.parseFailures.Inc()
	} else {
		col.events.WithLabelValues(event).Inc()
	}
	next(c, line)
}

// Install prepends the line counter to c's pipeline and registers bus
// handlers for the connection lifecycle counters.
func (col *Collector) Install(c *irc.Client) error {
	c.LineHandlers = append([]irc.LineHandler{col.LineHandler}, c.LineHandlers...)
	if _, err := c.On(irc.EventClientConnect, func(irc.Event) {
		col.connects.Inc()
	}); err != nil {
		return err
	}
	if _, err := c.On(irc.EventClientDisconnect, func(irc.Event) {
		col.disconnects.Inc()
	}); err != nil {
		return err
	}
	return nil
}
