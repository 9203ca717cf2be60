package transport

import (
    "context"
    "errors"
    "net"
    "sync"
    "time"

    "go.uber.org/zap"
)

var ErrNotRunning = errors.New("transport: endpoint not running")

// Handler receives endpoint events. All methods run inside PollEvents.
type Handler interface {
    OnConnectionRequest(req *ConnectionRequest)
    OnPeerConnected(p *Peer)
    OnPeerDisconnected(p *Peer, info DisconnectInfo)
    OnReceive(p *Peer, f Frame)
}

// HandlerFuncs adapts plain functions to Handler. Nil fields are no-ops, and
// a nil ConnectionRequest func rejects every request.
type HandlerFuncs struct {
    ConnectionRequest func(req *ConnectionRequest)
    PeerConnected     func(p *Peer)
    PeerDisconnected  func(p *Peer, info DisconnectInfo)
    Receive           func(p *Peer, f Frame)
}

func (h HandlerFuncs) OnConnectionRequest(req *ConnectionRequest) {
    if h.ConnectionRequest != nil { h.ConnectionRequest(req) }
}
func (h HandlerFuncs) OnPeerConnected(p *Peer) {
    if h.PeerConnected != nil { h.PeerConnected(p) }
}
func (h HandlerFuncs) OnPeerDisconnected(p *Peer, info DisconnectInfo) {
    if h.PeerDisconnected != nil { h.PeerDisconnected(p, info) }
}
func (h HandlerFuncs) OnReceive(p *Peer, f Frame) {
    if h.Receive != nil { h.Receive(p, f) }
}

type eventKind int

const (
    evConnectRequest eventKind = iota
    evConnected
    evDisconnected
    evReceive
)

type event struct {
    kind  eventKind
    peer  *Peer
    req   *ConnectionRequest
    frame Frame
    info  DisconnectInfo
}

// Options tune an Endpoint.
type Options struct {
    // ConnectTimeout bounds dialing plus waiting for the accept/reject reply,
    // and how long an inbound conn may take to send its connect frame.
    ConnectTimeout time.Duration
    Logger         *zap.Logger
}

// Endpoint manages peers over one Transport in a poll-driven way.
type Endpoint struct {
    tr   Transport
    h    Handler
    log  *zap.Logger
    opts Options

    ctx    context.Context
    cancel context.CancelFunc
    wg     sync.WaitGroup

    running  bool
    listener Listener
    peers    []*Peer // caller goroutine only

    mu      sync.Mutex
    queue   []event
    pending map[Conn]struct{}
    live    bool // mirrors running for background goroutines
}

func NewEndpoint(tr Transport, h Handler, opts Options) *Endpoint {
    if opts.ConnectTimeout <= 0 { opts.ConnectTimeout = 5 * time.Second }
    if opts.Logger == nil { opts.Logger = zap.L() }
    if h == nil { h = HandlerFuncs{} }
    return &Endpoint{
        tr:      tr,
        h:       h,
        opts:    opts,
        log:     opts.Logger.With(zap.String("transport", tr.Kind().String())),
        pending: make(map[Conn]struct{}),
    }
}

// Start brings the endpoint up. A non-empty listenAddr also accepts inbound
// connections on it.
func (e *Endpoint) Start(ctx context.Context, listenAddr string) error {
    if e.running { return errors.New("transport: endpoint already running") }
    e.ctx, e.cancel = context.WithCancel(ctx)
    if listenAddr != "" {
        l, err := e.tr.Listen(e.ctx, listenAddr)
        if err != nil {
            e.cancel()
            return err
        }
        e.listener = l
        e.log.Info("listening", zap.String("addr", l.Addr().String()))
    }
    e.running = true
    e.mu.Lock(); e.live = true; e.queue = nil; e.mu.Unlock()
    if e.listener != nil {
        e.wg.Add(1)
        go e.acceptLoop(e.listener)
    }
    return nil
}

// IsRunning reports whether Start succeeded and Stop has not been called.
func (e *Endpoint) IsRunning() bool { return e.running }

// Addr returns the listening address, or nil for a dial-only endpoint.
func (e *Endpoint) Addr() net.Addr {
    if e.listener == nil { return nil }
    return e.listener.Addr()
}

// Connect dials addr in the background and returns the peer in the
// connecting state. The outcome arrives as OnPeerConnected or as
// OnPeerDisconnected with ConnectionFailed or ConnectionRejected.
func (e *Endpoint) Connect(addr string) (*Peer, error) {
    if !e.running { return nil, ErrNotRunning }
    p := newPeer(e, addr, nil, true)
    e.peers = append(e.peers, p)
    e.wg.Add(1)
    go e.dial(p)
    return p, nil
}

// Stop closes every peer and the listener and discards queued events.
// No callbacks fire for peers closed this way.
func (e *Endpoint) Stop() {
    if !e.running { return }
    e.running = false
    e.cancel()
    e.mu.Lock()
    e.live = false
    e.queue = nil
    pending := e.pending
    e.pending = make(map[Conn]struct{})
    e.mu.Unlock()

    for _, p := range e.peers {
        p.closing.Store(true)
        if c := p.link(); c != nil {
            if p.state == PeerConnected { _ = c.Send(Frame{Type: FrameDisconnect}) }
            _ = c.Close()
        }
        p.state = PeerDisconnected
    }
    e.peers = nil
    for c := range pending { _ = c.Close() }
    if e.listener != nil { _ = e.listener.Close(); e.listener = nil }
    e.wg.Wait()
    e.log.Debug("endpoint stopped")
}

// ConnectedPeersCount counts peers in the connected state.
func (e *Endpoint) ConnectedPeersCount() int {
    n := 0
    for _, p := range e.peers {
        if p.state == PeerConnected { n++ }
    }
    return n
}

// FirstPeer returns the earliest connected peer, or nil.
func (e *Endpoint) FirstPeer() *Peer {
    for _, p := range e.peers {
        if p.state == PeerConnected { return p }
    }
    return nil
}

// SendToAll sends payload to every connected peer except the given one.
func (e *Endpoint) SendToAll(payload []byte, ch byte, d Delivery, except *Peer) {
    for _, p := range e.peers {
        if p == except || p.state != PeerConnected { continue }
        if err := p.Send(payload, ch, d); err != nil {
            e.log.Debug("send failed", zap.String("peer", string(p.ID)), zap.Error(err))
        }
    }
}

// PollEvents dispatches every event queued so far. Events raised by the
// callbacks themselves are dispatched on the next call.
func (e *Endpoint) PollEvents() {
    if !e.running { return }
    e.mu.Lock()
    batch := e.queue
    e.queue = nil
    e.mu.Unlock()

    for _, ev := range batch {
        if !e.running { return }
        switch ev.kind {
        case evConnectRequest:
            e.h.OnConnectionRequest(ev.req)
            if !ev.req.decided {
                ev.req.Reject()
            }
        case evConnected:
            if ev.peer.state != PeerConnecting { continue }
            ev.peer.state = PeerConnected
            e.h.OnPeerConnected(ev.peer)
        case evDisconnected:
            if ev.peer.state == PeerDisconnected { continue }
            ev.peer.state = PeerDisconnected
            e.remove(ev.peer)
            e.h.OnPeerDisconnected(ev.peer, ev.info)
        case evReceive:
            if ev.peer.state != PeerConnected { continue }
            if ev.frame.Delivery == Sequenced && !ev.peer.acceptSequenced(ev.frame) {
                e.log.Debug("stale sequenced frame dropped",
                    zap.Uint8("channel", ev.frame.Channel), zap.Uint16("seq", ev.frame.Seq))
                continue
            }
            e.h.OnReceive(ev.peer, ev.frame)
        }
    }
}

func (e *Endpoint) push(ev event) {
    e.mu.Lock()
    if e.live { e.queue = append(e.queue, ev) }
    e.mu.Unlock()
}

func (e *Endpoint) remove(p *Peer) {
    for i, q := range e.peers {
        if q == p {
            e.peers = append(e.peers[:i], e.peers[i+1:]...)
            return
        }
    }
}

// trackPending registers an inbound conn that has not been decided yet. It
// reports false when the endpoint is already stopping.
func (e *Endpoint) trackPending(c Conn) bool {
    e.mu.Lock(); defer e.mu.Unlock()
    if !e.live { return false }
    e.pending[c] = struct{}{}
    return true
}

func (e *Endpoint) forgetPending(c Conn) {
    e.mu.Lock(); delete(e.pending, c); e.mu.Unlock()
}

// adopt moves an accepted conn into the peer set and starts reading it.
func (e *Endpoint) adopt(p *Peer) {
    e.forgetPending(p.conn)
    e.peers = append(e.peers, p)
    e.push(event{kind: evConnected, peer: p})
    e.wg.Add(1)
    go func() {
        defer e.wg.Done()
        e.readLoop(p)
    }()
}

func (e *Endpoint) acceptLoop(l Listener) {
    defer e.wg.Done()
    for {
        c, err := l.Accept(e.ctx)
        if err != nil {
            if e.ctx.Err() == nil { e.log.Warn("accept stopped", zap.Error(err)) }
            return
        }
        if !e.trackPending(c) {
            _ = c.Close()
            return
        }
        e.wg.Add(1)
        go e.awaitConnect(c)
    }
}

// awaitConnect waits for the connect frame of an inbound conn and turns it
// into a ConnectionRequest.
func (e *Endpoint) awaitConnect(c Conn) {
    defer e.wg.Done()
    t := time.AfterFunc(e.opts.ConnectTimeout, func() { _ = c.Close() })
    f, err := c.Recv()
    t.Stop()
    if err != nil || f.Type != FrameConnect {
        e.log.Debug("inbound conn dropped before connect", zap.Any("remote", c.RemoteAddr()), zap.Error(err))
        _ = c.Close()
        e.forgetPending(c)
        return
    }
    e.push(event{kind: evConnectRequest, req: &ConnectionRequest{ep: e, conn: c}})
}

func (e *Endpoint) dial(p *Peer) {
    defer e.wg.Done()
    fail := func(reason DisconnectReason, err error) {
        e.push(event{kind: evDisconnected, peer: p, info: DisconnectInfo{Reason: reason, Err: err}})
    }
    ctx, cancel := context.WithTimeout(e.ctx, e.opts.ConnectTimeout)
    c, err := e.tr.Dial(ctx, p.addr)
    cancel()
    if err != nil {
        fail(ConnectionFailed, err)
        return
    }
    p.setConn(c)
    if p.closing.Load() {
        _ = c.Close()
        return
    }
    if err := c.Send(Frame{Type: FrameConnect}); err != nil {
        _ = c.Close()
        fail(ConnectionFailed, err)
        return
    }
    t := time.AfterFunc(e.opts.ConnectTimeout, func() { _ = c.Close() })
    f, err := c.Recv()
    t.Stop()
    switch {
    case err != nil:
        _ = c.Close()
        fail(ConnectionFailed, err)
        return
    case f.Type == FrameReject:
        _ = c.Close()
        fail(ConnectionRejected, nil)
        return
    case f.Type != FrameAccept:
        _ = c.Close()
        fail(ConnectionFailed, errors.New("transport: unexpected "+f.Type.String()+" frame during connect"))
        return
    }
    if p.closing.Load() {
        _ = c.Close()
        return
    }
    e.push(event{kind: evConnected, peer: p})
    e.readLoop(p)
}

func (e *Endpoint) readLoop(p *Peer) {
    for {
        f, err := p.link().Recv()
        if err != nil {
            if !p.closing.Load() {
                e.push(event{kind: evDisconnected, peer: p, info: DisconnectInfo{Reason: RemoteConnectionClose, Err: err}})
            }
            return
        }
        switch f.Type {
        case FrameData:
            e.push(event{kind: evReceive, peer: p, frame: f})
        case FrameDisconnect:
            if p.closing.CompareAndSwap(false, true) {
                _ = p.link().Close()
                e.push(event{kind: evDisconnected, peer: p, info: DisconnectInfo{Reason: RemoteConnectionClose}})
            }
            return
        default:
            e.log.Debug("unexpected frame", zap.String("type", f.Type.String()))
        }
    }
}
