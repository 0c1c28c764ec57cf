package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatusLineToleratesEmptyServer(t *testing.T) {
	reg := NewRegistry(5, nil, testLogger())
	sr := NewStatusReporter(reg, time.Minute, testLogger())

	line := sr.statusLine()
	require.Contains(t, line, "Usuarios conectados: 0")
	require.Contains(t, line, "Último mensaje: Ninguno")
}

func TestStatusLineReflectsActivity(t *testing.T) {
	reg := NewRegistry(5, nil, testLogger())
	ana := registerClient(t, reg, "Ana")
	registerClient(t, reg, "Beto")
	reg.Broadcast(NewPublic("Ana", "hola"), ana)

	sr := NewStatusReporter(reg, time.Minute, testLogger())
	line := sr.statusLine()
	require.Contains(t, line, "Usuarios conectados: 2")
	require.Contains(t, line, "Último mensaje: hola")
}

func TestStatusReporterStops(t *testing.T) {
	sr := NewStatusReporter(NewRegistry(5, nil, testLogger()), 5*time.Millisecond, testLogger())

	go sr.Run()
	time.Sleep(15 * time.Millisecond)
	sr.Stop()
	sr.Wait()

	// A second Stop after the loop has exited must be a no-op.
	sr.Stop()
}

func TestFormatUptime(t *testing.T) {
	require.Equal(t, "00h:00m:00s", formatUptime(0))
	require.Equal(t, "00h:01m:05s", formatUptime(65*time.Second))
	require.Equal(t, "26h:03m:04s", formatUptime(26*time.Hour+3*time.Minute+4*time.Second))
}
