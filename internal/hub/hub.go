package hub

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Topics events are published on.
const (
	TopicCategory = "category"
	TopicGame     = "game"
)

// ValidTopic reports whether topic is one clients may subscribe to.
func ValidTopic(topic string) bool {
	return topic == TopicCategory || topic == TopicGame
}

// Event represents a catalog change sent to subscribers.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is a subscriber's inbox. The SSE handler drains it.
type Client chan []byte

// Hub fans catalog events out to subscribers grouped by topic.
type Hub struct {
	topics map[string]map[Client]bool
	mu     sync.RWMutex
	log    logrus.FieldLogger
}

// New creates a new Hub.
func New(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		topics: make(map[string]map[Client]bool),
		log:    log,
	}
}

// Subscribe adds a client to a topic.
func (h *Hub) Subscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[Client]bool)
	}
	h.topics[topic][client] = true
}

// Unsubscribe removes a client from a topic and closes its channel.
func (h *Hub) Unsubscribe(topic string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.topics[topic]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.topics, topic)
			}
		}
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic, clients := range h.topics {
		for client := range clients {
			close(client)
		}
		delete(h.topics, topic)
	}
}

// Subscribers returns the number of clients listening on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Broadcast sends an event to every client of a topic.
// Sends never block: a client with a full inbox misses the event.
func (h *Hub) Broadcast(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.topics[topic]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).WithField("type", event.Type).Error("Failed to encode event.")
		return
	}

	for client := range clients {
		select {
		case client <- messageBytes:
		default:
			h.log.WithField("topic", topic).Warn("Subscriber inbox full, dropping event.")
		}
	}
}
