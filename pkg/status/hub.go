// Package status exposes the local session to observers over HTTP: a health
// probe, the current board in several encodings, Prometheus metrics and a
// websocket feed of changes.
package status

import (
    "sync"

    "uttnet/pkg/game"
)

// Status is what observers see.
type Status struct {
    Role  string        `json:"role" cbor:"role"`
    Ready bool          `json:"ready" cbor:"ready"`
    Board game.Snapshot `json:"board" cbor:"board"`
}

// Hub holds the latest Status and fans it out. Subscribers only ever see the
// newest value; one that falls behind skips intermediate states.
type Hub struct {
    mu     sync.Mutex
    latest Status
    subs   map[chan Status]struct{}
}

func NewHub() *Hub {
    return &Hub{
        latest: Status{Role: "idle"},
        subs:   make(map[chan Status]struct{}),
    }
}

func (h *Hub) Publish(s Status) {
    h.mu.Lock()
    defer h.mu.Unlock()
    h.latest = s
    for ch := range h.subs {
        select {
        case <-ch:
        default:
        }
        ch <- s
    }
}

func (h *Hub) Latest() Status {
    h.mu.Lock()
    defer h.mu.Unlock()
    return h.latest
}

// Subscribe returns a channel primed with the current status.
func (h *Hub) Subscribe() chan Status {
    ch := make(chan Status, 1)
    h.mu.Lock()
    ch <- h.latest
    h.subs[ch] = struct{}{}
    h.mu.Unlock()
    return ch
}

func (h *Hub) Unsubscribe(ch chan Status) {
    h.mu.Lock()
    delete(h.subs, ch)
    h.mu.Unlock()
}

// Subscribers counts open subscriptions.
func (h *Hub) Subscribers() int {
    h.mu.Lock()
    defer h.mu.Unlock()
    return len(h.subs)
}
