package runtime

import (
	"bufio"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-relay/errors"
)

func TestSession_WriteLoop_Emits_One_Line_Per_Record(t *testing.T) {
	req := require.New(t)
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})

	sess := NewSession("test:1", 8, slog.Default())
	go sess.WriteLoop(server)

	req.NoError(sess.Enqueue("OK"))
	req.NoError(sess.Enqueue("RECEIVE_PRIVATE alice hi"))

	scanner := bufio.NewScanner(client)
	req.True(scanner.Scan())
	req.Equal("OK", scanner.Text())
	req.True(scanner.Scan())
	req.Equal("RECEIVE_PRIVATE alice hi", scanner.Text())
}

func TestSession_Enqueue_Fails_After_Close(t *testing.T) {
	req := require.New(t)
	sess := NewSession("test:1", 8, slog.Default())

	sess.Close()
	sess.Close() // closing twice is safe

	req.ErrorIs(sess.Enqueue("OK"), errors.ErrSessionClosed)

	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel not closed")
	}
}

func TestSession_Write_Error_Closes_The_Session(t *testing.T) {
	req := require.New(t)
	server, client := net.Pipe()
	client.Close() // peer gone, first write must fail

	sess := NewSession("test:1", 8, slog.Default())
	go sess.WriteLoop(server)

	_ = sess.Enqueue("OK")

	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("session not closed after write error")
	}
	req.ErrorIs(sess.Enqueue("more"), errors.ErrSessionClosed)
}

func TestSession_Starts_Unjoined(t *testing.T) {
	req := require.New(t)
	sess := NewSession("test:1", 8, slog.Default())

	req.False(sess.Joined())
	req.Empty(sess.Name())
	req.NotEmpty(sess.ID)
}
