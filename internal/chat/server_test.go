package chat

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServerRejectsWhenFull(t *testing.T) {
	srv := NewServer("127.0.0.1:0", 1, nil, testLogger())
	require.NoError(t, srv.Start())
	defer srv.Stop()

	ana := dialAndLogin(t, srv, "Ana")
	defer ana.Close()

	late, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	peer := NewLineTransport(late)

	got := readMsg(t, peer)
	require.Equal(t, KindSystem, got.Kind)
	require.Equal(t, NoticeServerFull, got.Body)
	requireEOF(t, peer)

	require.Equal(t, 1, srv.Registry().Count())
}

func TestServerEndToEndBroadcast(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log.txt")
	activity := NewActivityLog(logPath, testLogger())

	srv := NewServer("127.0.0.1:0", 5, activity, testLogger())
	require.NoError(t, srv.Start())
	defer srv.Stop()

	ana := dialAndLogin(t, srv, "Ana")
	defer ana.Close()
	beto := dialAndLogin(t, srv, "Beto")
	defer beto.Close()

	require.Equal(t, ">> Beto se ha unido al chat", readMsg(t, ana).Body)

	require.NoError(t, ana.WriteMessage(&Message{Body: "hola desde tcp"}))

	got := readMsg(t, beto)
	require.Equal(t, KindPublic, got.Kind)
	require.Equal(t, "Ana", got.Sender)
	require.Equal(t, "hola desde tcp", got.Body)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		if err != nil {
			return false
		}
		content := string(data)
		return strings.Contains(content, "SERVIDOR INICIADO en puerto") &&
			strings.Contains(content, "Usuario entra: Ana") &&
			strings.Contains(content, "Mensaje público de Ana: hola desde tcp")
	}, time.Second, 20*time.Millisecond)
}

func TestServerAbruptDisconnectRemovesClient(t *testing.T) {
	srv := NewServer("127.0.0.1:0", 5, nil, testLogger())
	require.NoError(t, srv.Start())
	defer srv.Stop()

	ana := dialAndLogin(t, srv, "Ana")
	beto := dialAndLogin(t, srv, "Beto")
	defer beto.Close()
	readMsg(t, ana) // Beto's join notice

	require.NoError(t, ana.Close())

	require.Equal(t, "<< Ana ha abandonado el chat", readMsg(t, beto).Body)
	require.Eventually(t, func() bool { return srv.Registry().Count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestServerStopWithoutStartReturns(t *testing.T) {
	srv := NewServer("127.0.0.1:0", 5, nil, testLogger())

	done := make(chan struct{})
	go func() {
		srv.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop before Start must not block")
	}
}

func TestServerStopIsIdempotent(t *testing.T) {
	srv := NewServer("127.0.0.1:0", 5, nil, testLogger())
	require.NoError(t, srv.Start())

	srv.Stop()
	srv.Stop()
}

func dialAndLogin(t *testing.T, srv *Server, name string) Transport {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	peer := NewLineTransport(conn)

	require.Equal(t, NoticeNamePrompt, readMsg(t, peer).Body)
	require.NoError(t, peer.WriteMessage(&Message{Sender: name}))
	require.Eventually(t, func() bool {
		for _, n := range srv.Registry().Names() {
			if n == name {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond, "login of %s", name)
	return peer
}
