package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageConstructorsSetKindAndRecipient(t *testing.T) {
	pub := NewPublic("Ana", "hola")
	require.Equal(t, KindPublic, pub.Kind)
	require.Empty(t, pub.Recipient)
	require.NotEmpty(t, pub.Timestamp)

	priv := NewPrivate("Ana", "Beto", "psst")
	require.Equal(t, KindPrivate, priv.Kind)
	require.Equal(t, "Beto", priv.Recipient)

	sys := NewSystem(NoticeNamePrompt)
	require.Equal(t, KindSystem, sys.Kind)
	require.Equal(t, SystemSender, sys.Sender)
}

func TestMessageStringForms(t *testing.T) {
	pub := &Message{Sender: "Ana", Body: "hola", Kind: KindPublic, Timestamp: "2026-01-02 10:00:00"}
	require.Equal(t, "[2026-01-02 10:00:00] Ana: hola", pub.String())

	priv := &Message{Sender: "Ana", Recipient: "Beto", Body: "psst", Kind: KindPrivate, Timestamp: "2026-01-02 10:00:01"}
	require.Equal(t, "[2026-01-02 10:00:01] (privado) Ana -> Beto: psst", priv.String())

	sys := &Message{Sender: SystemSender, Body: "aviso", Kind: KindSystem, Timestamp: "2026-01-02 10:00:02"}
	require.Equal(t, "[2026-01-02 10:00:02] (sistema): aviso", sys.String())
}

func TestIsDisconnect(t *testing.T) {
	require.True(t, IsDisconnect("DESCONECTAR"))
	require.True(t, IsDisconnect("desconectar"))
	require.True(t, IsDisconnect("/quit"))
	require.True(t, IsDisconnect("/QUIT"))
	require.False(t, IsDisconnect("hola"))
	require.False(t, IsDisconnect(""))
}
