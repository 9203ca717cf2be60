package session

import (
    "errors"
    "strconv"
    "time"

    "go.uber.org/zap"

    "uttnet/pkg/game"
    "uttnet/pkg/observability"
    "uttnet/pkg/protocol"
    "uttnet/pkg/transport"
)

var (
    ErrIdle        = errors.New("session: not in a session")
    ErrNotReady    = errors.New("session: handshake not complete")
    ErrNotYourTurn = errors.New("session: not the local player's turn")
)

// DefaultSyncInterval is the cursor stream period.
const DefaultSyncInterval = time.Second / 60

// Point is a pointer position in board space.
type Point struct {
    X, Y float32
}

// Context is the state shared by whichever endpoint is running. Endpoints
// receive it explicitly and never keep their own copy of the board.
type Context struct {
    Role   Role
    Board  *game.Board
    Local  Point
    Remote Point
    // Ready is set once the handshake with the current peer completed.
    Ready bool

    SyncInterval time.Duration
    sinceSync    time.Duration

    reg      *protocol.Registry
    dec      *protocol.Decoder
    log      *zap.Logger
    metrics  *observability.Metrics
    onChange func(game.Snapshot)
}

// NewContext builds a context around a fresh board.
func NewContext(log *zap.Logger, m *observability.Metrics) *Context {
    if log == nil { log = zap.L() }
    return &Context{
        Board:        game.NewBoard(),
        SyncInterval: DefaultSyncInterval,
        reg:          protocol.NewRegistry(),
        dec:          protocol.NewDecoder(),
        log:          log,
        metrics:      m,
    }
}

func (c *Context) changed() {
    if c.onChange != nil { c.onChange(c.Board.Snapshot()) }
}

func (c *Context) setRole(r Role) {
    if c.Role == r { return }
    c.log.Info("role change", zap.Stringer("from", c.Role), zap.Stringer("to", r))
    c.metrics.Transition(c.Role.String(), r.String())
    c.Role = r
    c.changed()
}

// send encodes pkt and hands it to every connected peer of ep.
func (c *Context) send(ep *transport.Endpoint, pkt protocol.Packet) error {
    b, err := c.reg.Marshal(pkt)
    if err != nil { return err }
    rt := protocol.RouteFor(pkt.Kind())
    ep.SendToAll(b, rt.Channel, rt.Delivery, nil)
    c.metrics.Sent(pkt.Kind().String(), strconv.Itoa(int(rt.Channel)))
    return nil
}

func (c *Context) sendMarker(p *transport.Peer) {
    if err := p.Send(c.reg.Marker(), protocol.MarkerRoute.Channel, protocol.MarkerRoute.Delivery); err != nil {
        c.log.Warn("send marker", zap.String("peer", string(p.ID)), zap.Error(err))
        return
    }
    c.metrics.Sent("marker", strconv.Itoa(int(protocol.MarkerRoute.Channel)))
}

// play validates a local move, applies it and relays it.
func (c *Context) play(ep *transport.Endpoint, macro, micro int) error {
    if !c.Ready { return ErrNotReady }
    if c.Board.Turn() != c.Role.Mark() { return ErrNotYourTurn }
    pkt := protocol.MakePlay{Macro: macro, Micro: micro}
    if err := pkt.Validate(); err != nil { return err }
    if err := c.Board.MakePlay(macro, micro); err != nil { return err }
    c.changed()
    return c.send(ep, pkt)
}

func (c *Context) reset(ep *transport.Endpoint) error {
    c.Board.Reset()
    c.changed()
    if !c.Ready { return nil }
    return c.send(ep, protocol.ResetGame{})
}

// tick advances the sync timer and emits at most one cursor packet per call
// once an interval has elapsed.
func (c *Context) tick(ep *transport.Endpoint, dt time.Duration) {
    c.sinceSync += dt
    if c.sinceSync < c.SyncInterval { return }
    c.sinceSync %= c.SyncInterval
    if !c.Ready || c.Board.Turn() != c.Role.Mark() { return }
    if ep.ConnectedPeersCount() == 0 { return }
    if err := c.send(ep, protocol.SyncPlayer{X: c.Local.X, Y: c.Local.Y}); err != nil {
        c.log.Debug("cursor send", zap.Error(err))
    }
}

// dispatch decodes one data frame from the peer. Markers are left to the
// caller; it reports whether f was a marker.
func (c *Context) dispatch(f transport.Frame) (marker bool) {
    if c.dec.IsMarker(f.Data, f.Offset) { return true }
    pkt, err := c.dec.Decode(f.Data, f.Offset)
    if err != nil {
        reason := "malformed"
        if errors.Is(err, protocol.ErrUnknownKind) { reason = "unknown_kind" }
        c.log.Warn("dropping packet", zap.String("reason", reason), zap.Error(err))
        c.metrics.Dropped(reason)
        return false
    }
    if !c.Ready {
        c.metrics.Dropped("before_handshake")
        c.log.Debug("packet before handshake", zap.Stringer("kind", pkt.Kind()))
        return false
    }
    c.metrics.Received(pkt.Kind().String(), strconv.Itoa(int(f.Channel)))
    remote := c.Role.Mark().Opponent()
    switch p := pkt.(type) {
    case protocol.SyncPlayer:
        // the stream belongs to whoever moves next
        if c.Board.Turn() != remote {
            c.metrics.Dropped("cursor_not_owner")
            return false
        }
        c.Remote = Point{X: p.X, Y: p.Y}
    case protocol.MakePlay:
        if c.Board.Turn() != remote {
            c.log.Warn("remote move out of turn", zap.Int("macro", p.Macro), zap.Int("micro", p.Micro))
            c.metrics.Dropped("out_of_turn")
            return false
        }
        if err := c.Board.MakePlay(p.Macro, p.Micro); err != nil {
            c.log.Warn("remote move rejected", zap.Int("macro", p.Macro), zap.Int("micro", p.Micro), zap.Error(err))
            c.metrics.Dropped("illegal_move")
            return false
        }
        c.changed()
    case protocol.ResetGame:
        c.Board.Reset()
        c.changed()
    }
    return false
}
