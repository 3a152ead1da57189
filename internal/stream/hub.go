package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

const feedChannel = "spots:feed"

// Hub fans newly created public spots out to connected websocket clients.
// When redis is configured the feed is bridged across instances via pub/sub.
type Hub struct {
	redis   *redis.Client
	clients map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Send chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register() *Client {
	client := &Client{
		Send: make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Publish delivers the payload to every client on the feed exactly once.
// Without redis the fan-out is local. With redis the payload goes through the
// feed channel and comes back via the subscription, on this instance and every
// other one; fanning out locally as well would deliver it twice here.
func (h *Hub) Publish(payload []byte) {
	if h.redis == nil {
		h.fanOut(payload)
		return
	}

	if err := h.redis.Publish(context.Background(), feedChannel, payload).Err(); err != nil {
		log.Printf("redis publish error: %v", err)
		h.fanOut(payload)
	}
}

func (h *Hub) fanOut(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redis.Subscribe(context.Background(), feedChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.fanOut([]byte(msg.Payload))
	}
}
