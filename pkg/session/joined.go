package session

import (
    "context"
    "time"

    "go.uber.org/zap"

    "uttnet/pkg/transport"
)

type connState int

const (
    awaitingHandshake connState = iota
    active
)

// JoinedEndpoint is the non-authoritative side. It stays silent until the
// host's marker arrives, then acknowledges it and joins the game.
type JoinedEndpoint struct {
    sc    *Context
    ep    *transport.Endpoint
    peer  *transport.Peer
    state connState

    lost   bool
    reason transport.DisconnectReason
}

func NewJoinedEndpoint(sc *Context, tr transport.Transport, opts transport.Options) *JoinedEndpoint {
    j := &JoinedEndpoint{sc: sc}
    j.ep = transport.NewEndpoint(tr, j, opts)
    return j
}

// Join starts a dial-only endpoint and connects to addr. The outcome is
// reported through PollEvents.
func (j *JoinedEndpoint) Join(ctx context.Context, addr string) error {
    j.sc.Ready = false
    j.state = awaitingHandshake
    j.lost = false
    if err := j.ep.Start(ctx, ""); err != nil { return err }
    p, err := j.ep.Connect(addr)
    if err != nil {
        j.ep.Stop()
        return err
    }
    j.peer = p
    return nil
}

func (j *JoinedEndpoint) Stop() {
    j.ep.Stop()
    j.peer = nil
    j.state = awaitingHandshake
    j.sc.Ready = false
}

func (j *JoinedEndpoint) IsRunning() bool { return j.ep.IsRunning() }

// Lost reports whether the link to the host has gone, and why.
func (j *JoinedEndpoint) Lost() (bool, transport.DisconnectReason) { return j.lost, j.reason }

func (j *JoinedEndpoint) PollEvents(dt time.Duration) {
    j.ep.PollEvents()
    if j.ep.IsRunning() && !j.lost { j.sc.tick(j.ep, dt) }
}

func (j *JoinedEndpoint) Play(macro, micro int) error { return j.sc.play(j.ep, macro, micro) }

func (j *JoinedEndpoint) Reset() error { return j.sc.reset(j.ep) }

func (j *JoinedEndpoint) OnConnectionRequest(req *transport.ConnectionRequest) { req.Reject() }

func (j *JoinedEndpoint) OnPeerConnected(p *transport.Peer) {
    j.sc.log.Info("connected to host", zap.String("peer", string(p.ID)))
}

func (j *JoinedEndpoint) OnPeerDisconnected(p *transport.Peer, info transport.DisconnectInfo) {
    if p != j.peer { return }
    j.sc.log.Info("host link lost", zap.Stringer("reason", info.Reason), zap.Error(info.Err))
    j.peer = nil
    j.sc.Ready = false
    j.lost = true
    j.reason = info.Reason
}

func (j *JoinedEndpoint) OnReceive(p *transport.Peer, f transport.Frame) {
    if p != j.peer { return }
    if !j.sc.dispatch(f) { return }
    if j.state == active {
        j.sc.log.Warn("handshake marker while active ignored")
        return
    }
    j.sc.Board.Reset()
    j.sc.sendMarker(p)
    j.state = active
    j.sc.Ready = true
    j.sc.log.Info("handshake complete")
    j.sc.changed()
}
