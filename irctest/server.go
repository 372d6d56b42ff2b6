// Package irctest provides an in-memory IRC server mock that implements
// io.ReadWriteCloser, for wiring into a Client's Dial in tests.
package irctest

import (
	"bufio"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/graylag/irc"
)

// Handler responds to one line received from the client under test.
type Handler func(s *Server, m *irc.Message)

// NewServer creates a new mock irc server that implements
// io.ReadWriteCloser. Don't forget to close.
func NewServer() *Server {
	s := &Server{}
	s.sendReader, s.sendWriter = io.Pipe()
	s.recvReader, s.recvWriter = io.Pipe()

	s.recv = make(chan []byte, 1)

	// both exit when Close() is called
	go s.read()
	go s.write()
	return s
}

// Server is the client's io.ReadWriteCloser end of a mock connection.
// Lines written by the client are parsed and handed to Handler; lines
// sent with WriteString appear on the client's read side.
type Server struct {
	// Handler is called for every parsed line the client writes.
	// It may be nil; received lines are recorded either way.
	Handler Handler

	closeOnce sync.Once
	recv      chan []byte

	mu       sync.Mutex
	received []string

	recvReader *io.PipeReader
	recvWriter *io.PipeWriter

	sendReader *io.PipeReader
	sendWriter *io.PipeWriter
}

// Read is how the client reads lines from the server.
func (s *Server) Read(p []byte) (int, error) {
	return s.sendReader.Read(p)
}

// Write is how the client sends lines to the server.
func (s *Server) Write(p []byte) (int, error) {
	b := make([]byte, len(p))
	copy(b, p)
	s.recv <- b
	return len(p), nil
}

// Close tears down both pipe ends. The client's reader observes EOF.
func (s *Server) Close() error {
	_ = s.recvWriter.Close()
	_ = s.sendWriter.Close()
	s.closeOnce.Do(func() {
		close(s.recv)
	})
	return nil
}

// WriteString sends one line from the server to the client, appending
// CR-LF when missing.
func (s *Server) WriteString(str string) {
	if !strings.HasSuffix(str, "\r\n") {
		str = str + "\r\n"
	}
	if _, err := s.sendWriter.Write([]byte(str)); err != nil {
		log.Println("mock server write error:", err)
	}
}

// WriteMessage sends a message from the server to the client.
func (s *Server) WriteMessage(m *irc.Message) {
	s.WriteString(m.String())
}

// Received returns a copy of the raw lines the client has sent so far,
// in order, without CR-LF.
func (s *Server) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

func (s *Server) read() {
	scanner := bufio.NewScanner(s.recvReader)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		s.mu.Lock()
		s.received = append(s.received, line)
		s.mu.Unlock()

		m, err := irc.ParseLine(line)
		if err != nil {
			log.Println("mock server parse error:", err)
			continue
		}
		if s.Handler != nil {
			s.Handler(s, m)
		}
	}
}

func (s *Server) write() {
	for b := range s.recv {
		if _, err := s.recvWriter.Write(b); err != nil {
			log.Println("mock server write error:", err)
		}
	}
}
