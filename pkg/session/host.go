package session

import (
    "context"
    "time"

    "go.uber.org/zap"

    "uttnet/pkg/transport"
)

// HostEndpoint is the authoritative side. It admits one peer at a time and
// opens every connection with a handshake marker.
type HostEndpoint struct {
    sc   *Context
    ep   *transport.Endpoint
    peer *transport.Peer
}

func NewHostEndpoint(sc *Context, tr transport.Transport, opts transport.Options) *HostEndpoint {
    h := &HostEndpoint{sc: sc}
    h.ep = transport.NewEndpoint(tr, h, opts)
    return h
}

// Start listens on addr.
func (h *HostEndpoint) Start(ctx context.Context, addr string) error {
    h.sc.Ready = false
    return h.ep.Start(ctx, addr)
}

func (h *HostEndpoint) Stop() {
    h.ep.Stop()
    h.peer = nil
    h.sc.Ready = false
}

func (h *HostEndpoint) IsRunning() bool { return h.ep.IsRunning() }

// Addr is the bound listen address.
func (h *HostEndpoint) Addr() string {
    if a := h.ep.Addr(); a != nil { return a.String() }
    return ""
}

// HasPeer reports whether a peer is connected.
func (h *HostEndpoint) HasPeer() bool { return h.peer != nil }

// PollEvents drains transport events and runs the cursor timer.
func (h *HostEndpoint) PollEvents(dt time.Duration) {
    h.ep.PollEvents()
    if h.ep.IsRunning() { h.sc.tick(h.ep, dt) }
}

func (h *HostEndpoint) Play(macro, micro int) error { return h.sc.play(h.ep, macro, micro) }

func (h *HostEndpoint) Reset() error { return h.sc.reset(h.ep) }

func (h *HostEndpoint) OnConnectionRequest(req *transport.ConnectionRequest) {
    if h.peer != nil {
        h.sc.log.Info("rejecting connection, peer already present", zap.Any("remote", req.RemoteAddr()))
        h.sc.metrics.Rejected()
        req.Reject()
        return
    }
    h.peer = req.Accept()
}

func (h *HostEndpoint) OnPeerConnected(p *transport.Peer) {
    h.sc.log.Info("peer connected", zap.String("peer", string(p.ID)))
    h.sc.sendMarker(p)
}

func (h *HostEndpoint) OnPeerDisconnected(p *transport.Peer, info transport.DisconnectInfo) {
    h.sc.log.Info("peer disconnected", zap.String("peer", string(p.ID)), zap.Stringer("reason", info.Reason), zap.Error(info.Err))
    if p == h.peer {
        h.peer = nil
        h.sc.Ready = false
    }
}

func (h *HostEndpoint) OnReceive(p *transport.Peer, f transport.Frame) {
    if p != h.peer { return }
    if !h.sc.dispatch(f) { return }
    // a marker from the joined side acknowledges the baseline
    if h.sc.Ready {
        h.sc.log.Warn("duplicate handshake ack ignored", zap.String("peer", string(p.ID)))
        return
    }
    h.sc.Board.Reset()
    h.sc.Ready = true
    h.sc.log.Info("handshake complete", zap.String("peer", string(p.ID)))
    h.sc.changed()
}
