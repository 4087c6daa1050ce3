package runtime

import (
	"bufio"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"chat-relay/errors"
)

// Session is the server-side state of one connected client.
//
// The outbound side is single-writer: every reply and every unsolicited
// relay goes through Enqueue into a buffered channel drained by one
// WriteLoop goroutine, so a relay from another session can never
// interleave bytes with a direct reply on the same socket.
type Session struct {
	// ID is the connection identity, stable for the socket's lifetime and
	// used as the registry key before a display name exists.
	ID     string
	Remote string

	log *slog.Logger

	mu   sync.RWMutex
	name string

	out    chan string
	closed chan struct{}
	once   sync.Once
}

func NewSession(remote string, outboundBuffer int, log *slog.Logger) *Session {
	return &Session{
		ID:     uuid.NewString(),
		Remote: remote,
		log:    log,
		out:    make(chan string, outboundBuffer),
		closed: make(chan struct{}),
	}
}

// Name returns the bound display name, or "" while the session is
// unjoined.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// Joined reports whether a display name has been bound by a successful
// JOIN.
func (s *Session) Joined() bool {
	return s.Name() != ""
}

func (s *Session) setName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Enqueue hands one line to the session's writer. It blocks while the
// outbound buffer is full and fails once the session is closed; callers
// relaying to other sessions treat that failure as best-effort delivery.
func (s *Session) Enqueue(line string) error {
	select {
	case <-s.closed:
		return errors.ErrSessionClosed
	default:
	}
	select {
	case s.out <- line:
		return nil
	case <-s.closed:
		return errors.ErrSessionClosed
	}
}

// WriteLoop drains the outbound queue onto w, one newline-terminated line
// per record, flushing after each. A write error closes the session; the
// read side notices through Done.
func (s *Session) WriteLoop(w io.Writer) {
	bw := bufio.NewWriter(w)
	for {
		select {
		case <-s.closed:
			return
		case line := <-s.out:
			if _, err := bw.WriteString(line + "\n"); err != nil {
				s.log.Debug("Session write failed", "remote", s.Remote, "err", err)
				s.Close()
				return
			}
			if err := bw.Flush(); err != nil {
				s.log.Debug("Session flush failed", "remote", s.Remote, "err", err)
				s.Close()
				return
			}
		}
	}
}

// Close marks the session dead. Safe to call from the reader, the writer,
// and the server teardown concurrently; only the first call takes effect.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.closed)
	})
}

// Done is closed when the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.closed
}
