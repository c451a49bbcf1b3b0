package transport

import (
	"context"
	"sync"
)

// MemoryBroker is an in-process bus for tests and local loopback. Delivery
// is synchronous on the publisher's goroutine and payloads are copied, as
// they would be on the wire.
type MemoryBroker struct {
	mu      sync.RWMutex
	clients map[*MemoryClient]struct{}
	// RejectCode, when non-zero, is returned to every Connect.
	RejectCode byte
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{clients: make(map[*MemoryClient]struct{})}
}

// Client returns a new unconnected client of b.
func (b *MemoryBroker) Client() *MemoryClient {
	return &MemoryClient{broker: b, subs: make(map[string]Handler)}
}

func (b *MemoryBroker) deliver(topic string, payload []byte) {
	b.mu.RLock()
	var targets []Handler
	for c := range b.clients {
		if h := c.handler(topic); h != nil {
			targets = append(targets, h)
		}
	}
	b.mu.RUnlock()
	for _, h := range targets {
		h(topic, append([]byte(nil), payload...))
	}
}

type MemoryClient struct {
	broker *MemoryBroker

	mu        sync.Mutex
	connected bool
	subs      map[string]Handler
}

func (c *MemoryClient) Connect(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return CodeNetworkError, err
	}
	if code := c.broker.RejectCode; code != CodeAccepted {
		return code, nil
	}
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	c.broker.mu.Lock()
	c.broker.clients[c] = struct{}{}
	c.broker.mu.Unlock()
	return CodeAccepted, nil
}

func (c *MemoryClient) handler(topic string) Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	return c.subs[topic]
}

func (c *MemoryClient) Subscribe(topic string, h Handler) error {
	c.mu.Lock()
	c.subs[topic] = h
	c.mu.Unlock()
	return nil
}

func (c *MemoryClient) Publish(topic string, payload []byte) error {
	c.mu.Lock()
	connected := c.connected
	c.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}
	c.broker.deliver(topic, payload)
	return nil
}

func (c *MemoryClient) Close() error {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	c.broker.mu.Lock()
	delete(c.broker.clients, c)
	c.broker.mu.Unlock()
	return nil
}

var _ Bus = (*MemoryClient)(nil)
