package transport

import (
    "context"
    "errors"
    "net"
    "sync"
)

// netListener adapts a net.Listener whose conns carry length-prefixed frames.
type netListener struct {
    l       net.Listener
    newCh   chan Conn
    closeCh chan struct{}
    once    sync.Once
}

// NewNetListener starts accepting on l until ctx is done or Close is called.
func NewNetListener(ctx context.Context, l net.Listener) Listener {
    nl := &netListener{l: l, newCh: make(chan Conn, 8), closeCh: make(chan struct{})}
    go nl.acceptLoop()
    go func() {
        select {
        case <-ctx.Done():
            _ = nl.Close()
        case <-nl.closeCh:
        }
    }()
    return nl
}

func (l *netListener) Addr() net.Addr { return l.l.Addr() }

func (l *netListener) Accept(ctx context.Context) (Conn, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-l.closeCh:
        return nil, errors.New("listener closed")
    case c := <-l.newCh:
        return c, nil
    }
}

func (l *netListener) Close() error {
    var err error
    l.once.Do(func() {
        close(l.closeCh)
        err = l.l.Close()
    })
    return err
}

func (l *netListener) acceptLoop() {
    for {
        c, err := l.l.Accept()
        if err != nil { return }
        sc := NewStreamConn(c, c.LocalAddr(), c.RemoteAddr())
        select { case l.newCh <- sc: default: _ = sc.Close() }
    }
}
