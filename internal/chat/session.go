package chat

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Session drives one connection through handshake, receive loop, and
// teardown. Reads happen only on the session goroutine; writes go through
// the client's outbound writer.
type Session struct {
	client   *Client
	registry *Registry
	logger   *slog.Logger
	teardown sync.Once
}

// HandleSession runs the full lifecycle of one accepted connection and
// returns when the connection is closed.
func HandleSession(c *Client, registry *Registry, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{client: c, registry: registry, logger: logger}
	s.run()
}

func (s *Session) run() {
	defer s.close()

	s.client.startWriter()

	if err := s.handshake(); err != nil {
		s.logger.Info("handshake rejected", "id", s.client.ID(), "reason", err)
		return
	}

	s.registry.Broadcast(NewSystem(fmt.Sprintf(">> %s se ha unido al chat", s.client.Name())), s.client)
	s.receiveLoop()
}

// handshake reads the login record. Its sender field carries the proposed
// display name; the kind is irrelevant at this stage.
func (s *Session) handshake() error {
	s.client.deliver(NewSystem(NoticeNamePrompt))

	login, err := s.client.transport.ReadMessage()
	if err != nil {
		s.client.deliver(NewSystem(NoticeNameInvalid))
		return ErrNameInvalid
	}

	err = s.registry.Register(s.client, login.Sender)
	switch err {
	case nil:
		return nil
	case ErrNameTaken:
		s.client.deliver(NewSystem(NoticeNameDuplicate))
	default:
		s.client.deliver(NewSystem(NoticeNameInvalid))
	}
	return err
}

func (s *Session) receiveLoop() {
	for {
		m, err := s.client.transport.ReadMessage()
		if err != nil {
			// Transport failure and end-of-stream are both an implicit
			// disconnect; the departure notice is emitted by teardown.
			return
		}

		body := strings.TrimSpace(m.Body)
		if body == "" {
			continue
		}
		if IsDisconnect(body) {
			return
		}

		if recipient := strings.TrimSpace(m.Recipient); recipient != "" {
			s.sendPrivate(recipient, body)
			continue
		}
		s.registry.Broadcast(NewPublic(s.client.Name(), body), s.client)
	}
}

func (s *Session) sendPrivate(recipient, body string) {
	err := s.registry.Unicast(NewPrivate(s.client.Name(), recipient, body))
	if err != nil {
		s.client.deliver(NewSystem(fmt.Sprintf("Usuario '%s' no encontrado.", recipient)))
		return
	}
	s.client.deliver(NewSystem(fmt.Sprintf("Has enviado (privado) a %s: %s", recipient, body)))
}

// close runs teardown exactly once, whichever exit path got here first:
// unregister, notify the remaining clients, seal the outbound queue so the
// writer drains and releases the transport.
func (s *Session) close() {
	s.teardown.Do(func() {
		if s.registry.Unregister(s.client) {
			s.registry.Broadcast(NewSystem(fmt.Sprintf("<< %s ha abandonado el chat", s.client.Name())), s.client)
		}
		s.client.setState(StateClosed)
		s.client.closeOut()
	})
}
