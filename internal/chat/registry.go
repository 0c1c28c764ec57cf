package chat

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// noLastMessage is reported until the first message has been routed.
const noLastMessage = "Ninguno"

// Registry is the shared set of registered clients, keyed by lowercased
// display name, plus the routing state derived from it (last routed message).
// One mutex guards membership, routing, and activity-log appends, so log
// lines appear in exactly the order the operations took effect. Delivery
// inside the lock is a bounded channel enqueue, never a network write.
type Registry struct {
	mu          sync.Mutex
	clients     map[string]*Client
	lastMessage string
	limit       int
	activity    *ActivityLog
	logger      *slog.Logger
}

// NewRegistry creates an empty registry admitting at most limit clients.
func NewRegistry(limit int, activity *ActivityLog, logger *slog.Logger) *Registry {
	if limit <= 0 {
		limit = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		clients:     make(map[string]*Client),
		lastMessage: noLastMessage,
		limit:       limit,
		activity:    activity,
		logger:      logger,
	}
}

// Admit checks capacity for a connection that has not yet handshaked,
// returning ErrServerFull when the registry is at its limit. The rejection
// is logged under the same lock so it is ordered against the registrations
// it lost to.
func (r *Registry) Admit(remote string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.clients) >= r.limit {
		r.activity.Append("Conexión rechazada (servidor lleno) desde " + remote)
		RejectedConnections.Inc()
		return ErrServerFull
	}
	return nil
}

// Register claims name for c. Names are unique case-insensitively; an
// attempted duplicate is rejected, never overwritten.
func (r *Registry) Register(c *Client, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameInvalid
	}
	key := strings.ToLower(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[key]; exists {
		return ErrNameTaken
	}
	c.name = name
	c.setState(StateActive)
	r.clients[key] = c

	r.activity.Append("Usuario entra: " + name)
	r.logger.Info("user registered", "id", c.ID(), "username", name)
	ConnectedClients.Set(float64(len(r.clients)))
	return nil
}

// Unregister removes c from the registry. It reports whether c was actually
// removed, so a second teardown of the same connection is a no-op. The
// client object itself is untouched; its resources belong to its session.
func (r *Registry) Unregister(c *Client) bool {
	if c == nil || c.name == "" {
		return false
	}
	key := strings.ToLower(c.name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clients[key] != c {
		return false
	}
	delete(r.clients, key)
	c.setState(StateClosed)

	r.activity.Append("Usuario sale: " + c.name)
	r.logger.Info("user left", "username", c.name)
	ConnectedClients.Set(float64(len(r.clients)))
	return true
}

// Broadcast routes m to every registered client except sender. Membership is
// fixed for the duration of the call: a client that completed registration
// before the broadcast receives it, one that unregistered before does not.
// Enqueue failures for individual recipients never abort the rest.
func (r *Registry) Broadcast(m *Message, sender *Client) {
	start := time.Now()

	r.mu.Lock()
	r.lastMessage = m.Body
	r.activity.Append(fmt.Sprintf("Mensaje público de %s: %s", m.Sender, m.Body))
	for _, c := range r.clients {
		if c == sender {
			continue
		}
		c.deliver(m)
	}
	r.mu.Unlock()

	MessagesTotal.WithLabelValues(string(m.Kind)).Inc()
	RoutingDuration.WithLabelValues(string(m.Kind)).Observe(time.Since(start).Seconds())
}

// Unicast routes m to the client registered under m.Recipient, matched
// case-insensitively. When the recipient is not registered the message is
// dropped and ErrRecipientNotFound returned; notifying the sender is the
// caller's job.
func (r *Registry) Unicast(m *Message) error {
	start := time.Now()

	r.mu.Lock()
	target, ok := r.clients[strings.ToLower(m.Recipient)]
	if !ok {
		r.mu.Unlock()
		return ErrRecipientNotFound
	}
	r.lastMessage = fmt.Sprintf("[PRIVADO] %s -> %s: %s", m.Sender, m.Recipient, m.Body)
	r.activity.Append("Mensaje privado: " + r.lastMessage)
	target.deliver(m)
	r.mu.Unlock()

	MessagesTotal.WithLabelValues(string(m.Kind)).Inc()
	RoutingDuration.WithLabelValues(string(m.Kind)).Observe(time.Since(start).Seconds())
	return nil
}

// Count returns the number of registered clients.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// LastMessage returns the most recently routed message text.
func (r *Registry) LastMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastMessage
}

// Names returns the registered display names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.clients))
	for _, c := range r.clients {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}
