// Package ws carries the real-time side of the chat: clients connect
// over WebSocket, subscribe to per-chatroom topics and receive events
// published by the HTTP send path. Delivery is best-effort and
// at-most-once: no acknowledgement, no retry, no replay for late
// subscribers.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Topic names the broadcast topic for a chatroom.
func Topic(chatroomID int) string {
	return fmt.Sprintf("chatroom.%d", chatroomID)
}

// Frame is the envelope for every message written to a client.
type Frame struct {
	Type  string `json:"type"`
	Topic string `json:"topic,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Member identifies a topic subscriber in presence frames.
type Member struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type subscription struct {
	client *Client
	topic  string
}

type outbound struct {
	topic string
	data  []byte
	// exclude is the socket id of the connection that triggered the
	// event; that connection never receives it.
	exclude string
}

type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Topic subscriptions, topic name to subscriber set.
	topics map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	publish     chan outbound

	log *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		topics:      make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		publish:     make(chan outbound, 64),
		log:         log,
	}
}

// Publish fans an event out to every subscriber of the topic except the
// excluded socket. It never blocks the caller: when the hub's queue is
// full the event is dropped and logged.
func (h *Hub) Publish(topic, event string, payload any, excludeSocket string) {
	data, err := json.Marshal(Frame{Type: event, Topic: topic, Data: payload})
	if err != nil {
		h.log.Error("marshal event", "topic", topic, "error", err)
		return
	}

	select {
	case h.publish <- outbound{topic: topic, data: data, exclude: excludeSocket}:
	default:
		h.log.Warn("publish queue full, dropping event", "topic", topic)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}

		case sub := <-h.subscribe:
			h.addSubscriber(sub.client, sub.topic)

		case sub := <-h.unsubscribe:
			if sub.client.topics[sub.topic] {
				h.removeSubscriber(sub.client, sub.topic)
			}

		case out := <-h.publish:
			for client := range h.topics[out.topic] {
				if client.SocketID == out.exclude {
					continue
				}
				h.write(client, out.data)
			}
		}
	}
}

func (h *Hub) addSubscriber(client *Client, topic string) {
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]bool)
	}
	if h.topics[topic][client] {
		return
	}

	// Presence: the new subscriber gets the current member list, the
	// existing members learn about the newcomer.
	members := make([]Member, 0, len(h.topics[topic]))
	for member := range h.topics[topic] {
		members = append(members, Member{ID: member.UserID, Name: member.Name})
	}

	h.topics[topic][client] = true
	client.topics[topic] = true

	h.send(client, Frame{Type: "presence", Topic: topic, Data: map[string]any{
		"event":   "here",
		"members": members,
	}})
	h.broadcast(topic, client, Frame{Type: "presence", Topic: topic, Data: map[string]any{
		"event":  "joining",
		"member": Member{ID: client.UserID, Name: client.Name},
	}})
}

func (h *Hub) removeSubscriber(client *Client, topic string) {
	delete(h.topics[topic], client)
	delete(client.topics, topic)
	if len(h.topics[topic]) == 0 {
		delete(h.topics, topic)
		return
	}
	h.broadcast(topic, nil, Frame{Type: "presence", Topic: topic, Data: map[string]any{
		"event":  "leaving",
		"member": Member{ID: client.UserID, Name: client.Name},
	}})
}

// broadcast sends a frame to every subscriber of the topic except skip.
func (h *Hub) broadcast(topic string, skip *Client, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.Error("marshal frame", "topic", topic, "error", err)
		return
	}
	for client := range h.topics[topic] {
		if client == skip {
			continue
		}
		h.write(client, data)
	}
}

func (h *Hub) send(client *Client, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.log.Error("marshal frame", "error", err)
		return
	}
	h.write(client, data)
}

// write queues data on the client; a client that cannot keep up is
// dropped, matching the per-client buffered send pattern.
func (h *Hub) write(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.drop(client)
	}
}

// drop removes the client from every topic (announcing its departure to
// remaining subscribers) and from the hub.
func (h *Hub) drop(client *Client) {
	for topic := range client.topics {
		h.removeSubscriber(client, topic)
	}
	delete(h.clients, client)
	close(client.send)
}
