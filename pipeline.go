package irc

// NextLineHandler forwards a line to the remainder of the pipeline.
type NextLineHandler func(c *Client, line []byte)

// LineHandler processes one inbound line. A handler either passes the
// line on by calling next, possibly transformed, or consumes it by not
// calling next at all.
type LineHandler func(next NextLineHandler, c *Client, line []byte)

// runPipeline feeds line through handlers in order. The chain for one
// line is independent of the chains for other lines; handlers advance it
// explicitly through next.
func runPipeline(handlers []LineHandler, c *Client, line []byte) {
	var next NextLineHandler
	i := 0
	next = func(c *Client, line []byte) {
		if i >= len(handlers) {
			return
		}
		h := handlers[i]
		i++
		h(next, c, line)
	}
	next(c, line)
}

// ParseDispatch is the terminal pipeline handler: it unpacks the line and
// triggers the matching event. A line that fails to parse is logged at
// debug level and dropped, so one malformed line never stops the read
// loop. The line is forwarded either way.
func ParseDispatch(next NextLineHandler, c *Client, line []byte) {
	event, fields, err := Unpack(string(line))
	if err != nil {
		c.logger().Debug("failed to parse line", "line", string(line), "err", err)
	} else {
		c.Trigger(event, fields)
	}
	next(c, line)
}

// PingHandler answers server PING lines with a PONG carrying the same
// token, then forwards the line. Install it ahead of ParseDispatch when
// the caller does not want to manage keepalive itself:
//
//	c.LineHandlers = []LineHandler{PingHandler, ParseDispatch}
func PingHandler(next NextLineHandler, c *Client, line []byte) {
	if event, fields, err := Unpack(string(line)); err == nil && event == "PING" {
		if err := c.Send("PONG", Fields{"message": fields["message"]}); err != nil {
			c.logger().Warn("failed to answer ping", "err", err)
		}
	}
	next(c, line)
}
