package relay

import (
	"sync"
)

// Hub tracks which relay connections subscribe to which topics.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*peer]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[*peer]struct{})}
}

func (h *Hub) Subscribe(topic string, p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.topics[topic]
	if !ok {
		set = make(map[*peer]struct{})
		h.topics[topic] = set
	}
	set[p] = struct{}{}
}

// Remove drops p from every topic.
func (h *Hub) Remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, set := range h.topics {
		delete(set, p)
		if len(set) == 0 {
			delete(h.topics, topic)
		}
	}
}

// ForEachSubscriber executes fn with a snapshot of the peers subscribed to topic.
func (h *Hub) ForEachSubscriber(topic string, fn func(p *peer)) {
	h.mu.RLock()
	peers := make([]*peer, 0, len(h.topics[topic]))
	for p := range h.topics[topic] {
		peers = append(peers, p)
	}
	h.mu.RUnlock()
	for _, p := range peers {
		fn(p)
	}
}

// Subscribers returns how many peers listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
