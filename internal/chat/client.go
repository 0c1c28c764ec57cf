package chat

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// State tracks a connection's position in the Pending -> Active -> Closed
// lifecycle. There is no transition out of StateClosed.
type State int32

const (
	StatePending State = iota
	StateActive
	StateClosed
)

// outboundBuffer bounds the per-client outbound queue. A full buffer drops
// messages for that client only, so one stalled receiver cannot hold up
// delivery to the rest.
const outboundBuffer = 32

// Client is one accepted connection. The display name is assigned exactly
// once, when registration succeeds, and is immutable afterwards.
type Client struct {
	id        string
	transport Transport
	name      string
	state     atomic.Int32

	out       chan *Message
	closeOnce sync.Once
}

func newClient(t Transport) *Client {
	return &Client{
		id:        uuid.NewString(),
		transport: t,
		out:       make(chan *Message, outboundBuffer),
	}
}

// ID is the pre-registration identity used in diagnostics before a display
// name exists.
func (c *Client) ID() string { return c.id }

// Name returns the registered display name, or "" while still pending.
func (c *Client) Name() string { return c.name }

// State returns the current lifecycle state.
func (c *Client) State() State { return State(c.state.Load()) }

func (c *Client) setState(s State) { c.state.Store(int32(s)) }

// deliver enqueues a message for the outbound writer without blocking.
// Registered clients are only delivered to under the registry lock; before
// registration only the owning session goroutine calls deliver. Either way
// deliver never races closeOut.
func (c *Client) deliver(m *Message) {
	select {
	case c.out <- m:
	default:
		DroppedMessages.Inc()
	}
}

// closeOut seals the outbound queue. The writer drains what was already
// enqueued and then releases the transport.
func (c *Client) closeOut() {
	c.closeOnce.Do(func() {
		close(c.out)
	})
}

// startWriter drains the outbound queue onto the transport. Best-effort: the
// first write failure stops the writer, and the transport is released when
// the writer exits for any reason.
func (c *Client) startWriter() {
	go func() {
		defer c.transport.Close()
		for m := range c.out {
			if err := c.transport.WriteMessage(m); err != nil {
				return
			}
		}
	}()
}
