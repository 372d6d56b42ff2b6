/*
Package ircdebug contains helpers for inspecting the traffic of an IRC
connection while developing a client.
*/
package ircdebug

import (
	"io"
)

// WriteTo returns an io.ReadWriteCloser that copies all reads and writes
// on rwc to w, prefixed with inPrefix and outPrefix respectively. Wrap
// the connection returned by a Client's Dial to trace the session, e.g.
// to os.Stdout or a file.
//
// It is not safe for concurrent use, so replies can interleave with
// connection reads in the trace.
func WriteTo(w io.Writer, rwc io.ReadWriteCloser, outPrefix string, inPrefix string) io.ReadWriteCloser {
	return &traceConn{
		ReadWriteCloser: rwc,
		r:               io.TeeReader(rwc, &prefixWriter{w: w, prefix: inPrefix}),
		w:               io.MultiWriter(rwc, &prefixWriter{w: w, prefix: outPrefix}),
	}
}

type traceConn struct {
	io.ReadWriteCloser
	r io.Reader
	w io.Writer
}

func (tc *traceConn) Read(p []byte) (int, error) {
	return tc.r.Read(p)
}

func (tc *traceConn) Write(p []byte) (int, error) {
	return tc.w.Write(p)
}

type prefixWriter struct {
	w      io.Writer
	prefix string
}

func (pw *prefixWriter) Write(p []byte) (n int, err error) {
	n, err = pw.w.Write(append([]byte(pw.prefix), p...))

	// report the count without the prefix so io.MultiWriter doesn't see
	// mismatched byte counts across its writers
	return n - len(pw.prefix), err
}
