// Package transport carries bitpack payloads between two session endpoints.
//
// Key concepts:
// - Transport: dials/listens for Conns of a specific Kind (TCP/QUIC/pipe/mem)
// - Conn: one framed, bidirectional link; frames carry a type, a channel and
//   a delivery mode ahead of the payload
// - Endpoint: a poll-driven peer manager on top of a Transport. Background
//   goroutines only read links and queue events; every callback runs inside
//   PollEvents on the caller's goroutine.
//
// Two delivery modes exist. ReliableOrdered frames arrive once and in order.
// Sequenced frames may be lost, and the Endpoint drops any that arrive older
// than one already delivered on the same channel.
package transport
