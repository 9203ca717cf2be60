package transport

import (
    "errors"
    "net"
    "sync"
    "sync/atomic"
)

var ErrNotConnected = errors.New("transport: peer not connected")

// PeerState tracks a peer through its connection lifetime.
type PeerState int

const (
    PeerConnecting PeerState = iota
    PeerConnected
    PeerDisconnected
)

func (s PeerState) String() string {
    switch s {
    case PeerConnecting:
        return "connecting"
    case PeerConnected:
        return "connected"
    default:
        return "disconnected"
    }
}

// DisconnectReason says why a peer left.
type DisconnectReason int

const (
    ConnectionFailed DisconnectReason = iota
    ConnectionRejected
    RemoteConnectionClose
    DisconnectPeerCalled
)

func (r DisconnectReason) String() string {
    switch r {
    case ConnectionFailed:
        return "connection_failed"
    case ConnectionRejected:
        return "connection_rejected"
    case RemoteConnectionClose:
        return "remote_connection_close"
    case DisconnectPeerCalled:
        return "disconnect_peer_called"
    default:
        return "unknown"
    }
}

// DisconnectInfo accompanies OnPeerDisconnected.
type DisconnectInfo struct {
    Reason DisconnectReason
    Err    error
}

// Peer is one remote endpoint. Its state and sequence counters are only
// touched on the goroutine that calls PollEvents.
type Peer struct {
    ID       PeerID
    Outbound bool

    ep      *Endpoint
    addr    string
    state   PeerState
    closing atomic.Bool

    mu   sync.Mutex
    conn Conn // set by the dialing goroutine

    sendSeq map[byte]uint16
    recvSeq map[byte]uint16
}

func newPeer(ep *Endpoint, addr string, c Conn, outbound bool) *Peer {
    p := &Peer{
        Outbound: outbound,
        ep:       ep,
        addr:     addr,
        conn:     c,
        sendSeq:  make(map[byte]uint16),
        recvSeq:  make(map[byte]uint16),
    }
    p.ID = PeerID("temp:" + ep.tr.Kind().String() + ":" + addr)
    if c != nil { p.ID = TempPeerID(ep.tr.Kind(), c.RemoteAddr()) }
    return p
}

func (p *Peer) setConn(c Conn) {
    p.mu.Lock(); p.conn = c; p.mu.Unlock()
}

func (p *Peer) link() Conn {
    p.mu.Lock(); defer p.mu.Unlock()
    return p.conn
}

// State returns the current lifecycle state.
func (p *Peer) State() PeerState { return p.state }

// Addr is the address the peer was dialed at or accepted from.
func (p *Peer) Addr() string { return p.addr }

// RemoteAddr of the underlying conn, or nil while connecting.
func (p *Peer) RemoteAddr() net.Addr {
    c := p.link()
    if c == nil { return nil }
    return c.RemoteAddr()
}

// Send queues payload on channel ch with the given delivery.
func (p *Peer) Send(payload []byte, ch byte, d Delivery) error {
    if p.state != PeerConnected { return ErrNotConnected }
    f := Frame{Type: FrameData, Channel: ch, Delivery: d, Data: payload}
    if d == Sequenced {
        p.sendSeq[ch]++
        f.Seq = p.sendSeq[ch]
    }
    return p.link().Send(f)
}

// Disconnect closes the link. OnPeerDisconnected fires with
// DisconnectPeerCalled on the next PollEvents.
func (p *Peer) Disconnect() {
    if p.state == PeerDisconnected || !p.closing.CompareAndSwap(false, true) { return }
    if c := p.link(); c != nil {
        if p.state == PeerConnected { _ = c.Send(Frame{Type: FrameDisconnect}) }
        _ = c.Close()
    }
    p.ep.push(event{kind: evDisconnected, peer: p, info: DisconnectInfo{Reason: DisconnectPeerCalled}})
}

// acceptSequenced applies the sequenced-delivery filter for an inbound frame.
func (p *Peer) acceptSequenced(f Frame) bool {
    last, seen := p.recvSeq[f.Channel]
    if seen && !SeqNewer(f.Seq, last) { return false }
    p.recvSeq[f.Channel] = f.Seq
    return true
}

// ConnectionRequest is an inbound connect awaiting a decision. A request that
// is neither accepted nor rejected inside OnConnectionRequest is rejected.
type ConnectionRequest struct {
    ep      *Endpoint
    conn    Conn
    decided bool
}

func (r *ConnectionRequest) RemoteAddr() net.Addr { return r.conn.RemoteAddr() }

// Accept admits the peer. OnPeerConnected follows on the next PollEvents.
func (r *ConnectionRequest) Accept() *Peer {
    if r.decided { return nil }
    r.decided = true
    addr := ""
    if ra := r.conn.RemoteAddr(); ra != nil { addr = ra.String() }
    p := newPeer(r.ep, addr, r.conn, false)
    if err := r.conn.Send(Frame{Type: FrameAccept}); err != nil {
        _ = r.conn.Close()
        p.state = PeerDisconnected
        return nil
    }
    r.ep.adopt(p)
    return p
}

// Reject refuses the peer; its side sees ConnectionRejected.
func (r *ConnectionRequest) Reject() {
    if r.decided { return }
    r.decided = true
    _ = r.conn.Send(Frame{Type: FrameReject})
    _ = r.conn.Close()
    r.ep.forgetPending(r.conn)
}
