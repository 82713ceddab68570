package session

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by Send after the session has been torn down.
var ErrClosed = errors.New("session closed")

// wire is the subset of *websocket.Conn the session needs. Kept as an
// interface so tests can substitute an in-memory transport.
type wire interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Session is the server-side state for one live client connection. It owns
// the send side of the socket: all writes (responses and broadcasts) are
// serialized through its write mutex.
type Session struct {
	id           string
	conn         wire
	writeTimeout time.Duration

	writeMu sync.Mutex

	mu     sync.Mutex
	closed bool
}

// New creates a session around an accepted connection.
func New(id string, conn wire, writeTimeout time.Duration) *Session {
	return &Session{
		id:           id,
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

// ID returns the session's opaque identifier.
func (s *Session) ID() string {
	return s.id
}

// Send writes one text message to the connection with a write deadline.
func (s *Session) Send(data []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears down the connection. Safe to call more than once; only the
// first call sends the close frame.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return s.conn.Close()
}
