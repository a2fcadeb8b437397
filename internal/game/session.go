package game

import (
	"sync"

	"github.com/google/uuid"
)

const sessionBuffer = 64

// Conn is a line-oriented client transport.
type Conn interface {
	ReadLine() (string, error)
	WriteString(string) error
	Close() error
}

// Session is one connected client. Output is drained by a writer goroutine
// that forwards each message to the transport; a full buffer drops messages
// rather than stalling the sender.
type Session struct {
	id        string
	addr      string
	transport string
	conn      Conn
	Output    chan string

	mu     sync.Mutex
	closed bool

	// character is guarded by the world lock. The session's own goroutine
	// is its only writer.
	character *Character
}

// NewSession wraps conn. A nil conn is allowed for sessions that are driven
// entirely through Output, as tests do.
func NewSession(conn Conn, addr, transport string) *Session {
	return &Session{
		id:        uuid.NewString(),
		addr:      addr,
		transport: transport,
		conn:      conn,
		Output:    make(chan string, sessionBuffer),
	}
}

func (s *Session) ID() string { return s.id }

// Addr is the remote address the session connected from.
func (s *Session) Addr() string { return s.addr }

// Transport names the protocol the session arrived on.
func (s *Session) Transport() string { return s.transport }

// Character returns the logged-in character, or nil for guests. It is safe
// to call from the session's own goroutine.
func (s *Session) Character() *Character { return s.character }

// Send queues msg for delivery. It never blocks and is a no-op once the
// session has been closed.
func (s *Session) Send(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.Output <- msg:
	default:
	}
}

// Tell sends text formatted as a private message.
func (s *Session) Tell(text string) {
	s.Send(FormatMessage(text))
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.Output)
}
