package session

import (
    "context"
    "time"

    "go.uber.org/zap"

    "uttnet/pkg/game"
    "uttnet/pkg/observability"
    "uttnet/pkg/transport"
)

// Options configure a Node.
type Options struct {
    Transport transport.Transport
    // ListenAddr is where the node hosts, both on Host and after failover.
    ListenAddr string
    // Failover turns a lost host link into hosting instead of going idle.
    Failover       bool
    SyncInterval   time.Duration
    ConnectTimeout time.Duration
    Logger         *zap.Logger
    Metrics        *observability.Metrics
}

// Node owns the session context and at most one running endpoint.
type Node struct {
    ctx  context.Context
    opts Options
    sc   *Context

    host   *HostEndpoint
    joined *JoinedEndpoint
}

func NewNode(ctx context.Context, opts Options) *Node {
    if opts.Logger == nil { opts.Logger = zap.L() }
    sc := NewContext(opts.Logger.Named("session"), opts.Metrics)
    if opts.SyncInterval > 0 { sc.SyncInterval = opts.SyncInterval }
    return &Node{ctx: ctx, opts: opts, sc: sc}
}

func (n *Node) endpointOptions() transport.Options {
    return transport.Options{ConnectTimeout: n.opts.ConnectTimeout, Logger: n.opts.Logger}
}

// Host stops whatever is running and starts hosting on ListenAddr.
func (n *Node) Host() error {
    n.stopEndpoints()
    h := NewHostEndpoint(n.sc, n.opts.Transport, n.endpointOptions())
    if err := h.Start(n.ctx, n.opts.ListenAddr); err != nil {
        n.sc.setRole(Idle)
        return err
    }
    n.host = h
    n.sc.setRole(Host)
    return nil
}

// Join stops whatever is running and connects to addr.
func (n *Node) Join(addr string) error {
    n.stopEndpoints()
    j := NewJoinedEndpoint(n.sc, n.opts.Transport, n.endpointOptions())
    if err := j.Join(n.ctx, addr); err != nil {
        n.sc.setRole(Idle)
        return err
    }
    n.joined = j
    n.sc.setRole(Joined)
    return nil
}

// Stop leaves the session.
func (n *Node) Stop() {
    n.stopEndpoints()
    n.sc.setRole(Idle)
}

func (n *Node) stopEndpoints() {
    if n.host != nil { n.host.Stop(); n.host = nil }
    if n.joined != nil { n.joined.Stop(); n.joined = nil }
}

// PollEvents runs one tick: it drains transport events, applies inbound
// packets, streams the cursor when due and performs failover.
func (n *Node) PollEvents(dt time.Duration) {
    switch {
    case n.host != nil:
        n.host.PollEvents(dt)
    case n.joined != nil:
        n.joined.PollEvents(dt)
        if lost, reason := n.joined.Lost(); lost { n.failover(reason) }
    }
}

func (n *Node) failover(reason transport.DisconnectReason) {
    n.joined.Stop()
    n.joined = nil
    if !n.opts.Failover {
        n.sc.setRole(Idle)
        return
    }
    n.sc.log.Info("taking over as host", zap.Stringer("reason", reason), zap.String("listen", n.opts.ListenAddr))
    if err := n.Host(); err != nil {
        n.sc.log.Error("failover listen", zap.Error(err))
    }
}

// Play makes a local move and relays it to the peer.
func (n *Node) Play(macro, micro int) error {
    switch {
    case n.host != nil:
        return n.host.Play(macro, micro)
    case n.joined != nil:
        return n.joined.Play(macro, micro)
    }
    return ErrIdle
}

// ResetGame clears the board on both sides.
func (n *Node) ResetGame() error {
    switch {
    case n.host != nil:
        return n.host.Reset()
    case n.joined != nil:
        return n.joined.Reset()
    }
    n.sc.Board.Reset()
    n.sc.changed()
    return nil
}

func (n *Node) SetPointer(x, y float32) { n.sc.Local = Point{X: x, Y: y} }

func (n *Node) Pointer() Point { return n.sc.Local }

// RemotePointer is the last cursor position received from the peer.
func (n *Node) RemotePointer() Point { return n.sc.Remote }

func (n *Node) Role() Role { return n.sc.Role }

func (n *Node) Board() *game.Board { return n.sc.Board }

// Ready reports whether the handshake with the current peer completed.
func (n *Node) Ready() bool { return n.sc.Ready }

// Addr is the listen address while hosting.
func (n *Node) Addr() string {
    if n.host != nil { return n.host.Addr() }
    return ""
}

// OnChange registers fn to run after every board or role change, on the
// polling goroutine.
func (n *Node) OnChange(fn func(game.Snapshot)) { n.sc.onChange = fn }
