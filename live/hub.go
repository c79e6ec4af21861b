// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 16
)

// Hub fans status list replacements out to the websocket subscribers of
// each user.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

// Subscription queues the lists published for one user until Serve writes
// them to the connection.
type Subscription struct {
	userID string
	send   chan []byte

	// dropped is closed when the hub gives up on a slow subscriber
	dropped  chan struct{}
	dropOnce sync.Once
}

func (s *Subscription) drop() {
	s.dropOnce.Do(func() { close(s.dropped) })
}

func (s *Subscription) offer(data []byte) {
	select {
	case s.send <- data:
	default:
		slog.Warn("live subscriber too slow, dropping", "user_id", s.userID)
		s.drop()
	}
}

// Send queues list for this subscription alone.
func (s *Subscription) Send(list progress.StatusList) {
	data, err := newMessage(s.userID, list)
	if err != nil {
		slog.Error("failed to encode live message", "user_id", s.userID, "error", err)
		return
	}
	s.offer(data)
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[*Subscription]struct{}),
		done: make(chan struct{}),
	}
}

func newMessage(userID string, list progress.StatusList) ([]byte, error) {
	if list == nil {
		list = progress.StatusList{}
	}
	return json.Marshal(models.LiveMessage{
		Type:      models.MessageStatusReplace,
		UserID:    userID,
		Statuses:  list,
		Timestamp: time.Now().UTC(),
	})
}

// Publish queues a status_replace message for every subscriber of userID.
// It never blocks; subscribers that cannot keep up are disconnected.
func (h *Hub) Publish(userID string, list progress.StatusList) {
	data, err := newMessage(userID, list)
	if err != nil {
		slog.Error("failed to encode live message", "user_id", userID, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[userID] {
		sub.offer(data)
	}
}

// Subscribe registers a subscription for userID. Every list published from
// now on is queued for it, so callers subscribe before reading the state
// they send first. Unsubscribe must be called when done.
func (h *Hub) Subscribe(userID string) *Subscription {
	sub := &Subscription{
		userID:  userID,
		send:    make(chan []byte, sendBuffer),
		dropped: make(chan struct{}),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[sub.userID], sub)
	if len(h.subs[sub.userID]) == 0 {
		delete(h.subs, sub.userID)
	}
}

// Serve upgrades the request to a websocket and streams everything queued
// on sub until the client goes away or the hub is closed.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sub *Subscription) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Warn("websocket upgrade failed", "user_id", sub.userID, "error", err)
		return
	}

	slog.Info("live subscriber connected", "user_id", sub.userID, "subscribers", h.SubscriberCount(sub.userID))

	// client messages are ignored; ctx ends when the connection closes
	ctx := conn.CloseRead(r.Context())

	for {
		select {
		case data := <-sub.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				slog.Info("live subscriber write failed", "user_id", sub.userID, "error", err)
				return
			}
		case <-sub.dropped:
			conn.Close(websocket.StatusPolicyViolation, "too slow")
			return
		case <-h.done:
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case <-ctx.Done():
			return
		}
	}
}

// SubscriberCount returns the number of connected subscribers for userID
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Close disconnects every subscriber. Publish keeps working but reaches
// nobody new.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
