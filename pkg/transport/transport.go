package transport

import (
    "context"
    "net"
)

// Kind identifies transport/link type.
type Kind int

const (
    KindUnknown Kind = iota
    KindTCP
    KindQUIC
    KindWinPipe
    KindMem
)

func (k Kind) String() string {
    switch k {
    case KindTCP:
        return "tcp"
    case KindQUIC:
        return "quic"
    case KindWinPipe:
        return "winpipe"
    case KindMem:
        return "mem"
    default:
        return "unknown"
    }
}

// Delivery selects the guarantees for one frame.
type Delivery uint8

const (
    // ReliableOrdered frames are delivered exactly once, in send order.
    ReliableOrdered Delivery = iota
    // Sequenced frames may be dropped; stale ones are discarded on receipt.
    Sequenced
)

func (d Delivery) String() string {
    switch d {
    case ReliableOrdered:
        return "reliable_ordered"
    case Sequenced:
        return "sequenced"
    default:
        return "unknown"
    }
}

// PeerID is an opaque peer identity, derived from the remote address until
// something better is known.
type PeerID string

// Conn is one framed link to a remote endpoint.
// Exactly one reader goroutine is expected; Send may be called concurrently.
type Conn interface {
    Send(f Frame) error
    // Recv blocks for the next frame. The returned Frame owns its Data.
    Recv() (Frame, error)
    LocalAddr() net.Addr
    RemoteAddr() net.Addr
    Close() error
}

// Listener accepts inbound Conns.
type Listener interface {
    // Accept blocks until an inbound conn is available or ctx is done.
    Accept(ctx context.Context) (Conn, error)
    // Addr returns the local listening address.
    Addr() net.Addr
    // Close stops the listener and unblocks Accept.
    Close() error
}

// Transport provides dialing/listening for a specific link kind.
type Transport interface {
    Kind() Kind
    // Listen starts accepting inbound conns on address (transport-specific format).
    Listen(ctx context.Context, address string) (Listener, error)
    // Dial creates an outbound conn to address.
    Dial(ctx context.Context, address string) (Conn, error)
}
