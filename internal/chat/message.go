package chat

import (
	"fmt"
	"strings"
	"time"
)

// Kind classifies a chat event on the wire and in logs.
type Kind string

const (
	KindPublic  Kind = "public"
	KindPrivate Kind = "private"
	KindSystem  Kind = "system"
)

// timeLayout is the display and log timestamp format.
const timeLayout = "2006-01-02 15:04:05"

// Protocol constants exchanged with clients. The server-full notice is the
// only one sent before a connection ever reaches the handshake.
const (
	SystemSender = "SERVER"

	NoticeNamePrompt    = "SOLICITAR_NOMBRE"
	NoticeServerFull    = "ERROR:SERVIDOR_LLENO"
	NoticeNameInvalid   = "ERROR:NOMBRE_INVALIDO"
	NoticeNameDuplicate = "ERROR:NOMBRE_DUPLICADO"
)

// Message is one chat event: a public broadcast, a private message to a
// named recipient, or a system notice. The timestamp is assigned at
// construction and never changes.
type Message struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient,omitempty"`
	Body      string `json:"body"`
	Kind      Kind   `json:"kind"`
	Timestamp string `json:"timestamp"`
}

// NewPublic builds a broadcast message from sender.
func NewPublic(sender, body string) *Message {
	return &Message{
		Sender:    sender,
		Body:      body,
		Kind:      KindPublic,
		Timestamp: time.Now().Format(timeLayout),
	}
}

// NewPrivate builds a message addressed to exactly one recipient.
func NewPrivate(sender, recipient, body string) *Message {
	return &Message{
		Sender:    sender,
		Recipient: recipient,
		Body:      body,
		Kind:      KindPrivate,
		Timestamp: time.Now().Format(timeLayout),
	}
}

// NewSystem builds a server-originated notice.
func NewSystem(body string) *Message {
	return &Message{
		Sender:    SystemSender,
		Body:      body,
		Kind:      KindSystem,
		Timestamp: time.Now().Format(timeLayout),
	}
}

// String renders the message the way clients display and logs record it.
func (m *Message) String() string {
	switch m.Kind {
	case KindPrivate:
		return fmt.Sprintf("[%s] (privado) %s -> %s: %s", m.Timestamp, m.Sender, m.Recipient, m.Body)
	case KindSystem:
		return fmt.Sprintf("[%s] (sistema): %s", m.Timestamp, m.Body)
	default:
		return fmt.Sprintf("[%s] %s: %s", m.Timestamp, m.Sender, m.Body)
	}
}

// IsDisconnect reports whether body is one of the client disconnect commands.
func IsDisconnect(body string) bool {
	return strings.EqualFold(body, "DESCONECTAR") || strings.EqualFold(body, "/quit")
}
