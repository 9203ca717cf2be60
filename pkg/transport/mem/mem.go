// Package mem is an in-process transport over net.Pipe, used by tests and
// for running both roles inside one process.
package mem

import (
    "context"
    "errors"
    "fmt"
    "net"
    "sync"
    "sync/atomic"

    "uttnet/pkg/transport"
)

// Transport routes dials to listeners registered under a name.
type Transport struct {
    mu        sync.Mutex
    listeners map[string]*listener
    dials     atomic.Uint64
}

func New() *Transport { return &Transport{listeners: make(map[string]*listener)} }

var (
    sharedOnce sync.Once
    shared     *Transport
)

// Shared returns the process-wide instance so independently built endpoints
// can reach each other.
func Shared() *Transport {
    sharedOnce.Do(func() { shared = New() })
    return shared
}

func (t *Transport) Kind() transport.Kind { return transport.KindMem }

func (t *Transport) Listen(ctx context.Context, name string) (transport.Listener, error) {
    t.mu.Lock(); defer t.mu.Unlock()
    if _, ok := t.listeners[name]; ok {
        return nil, errors.New("mem: listener already exists")
    }
    l := &listener{name: name, newCh: make(chan transport.Conn, 8), closeCh: make(chan struct{})}
    l.release = func() {
        t.mu.Lock()
        if t.listeners[name] == l { delete(t.listeners, name) }
        t.mu.Unlock()
    }
    t.listeners[name] = l
    go func() {
        select {
        case <-ctx.Done():
            _ = l.Close()
        case <-l.closeCh:
        }
    }()
    return l, nil
}

func (t *Transport) Dial(ctx context.Context, name string) (transport.Conn, error) {
    t.mu.Lock(); l := t.listeners[name]; t.mu.Unlock()
    if l == nil { return nil, errors.New("mem: no such listener") }
    c1, c2 := net.Pipe()
    client := memAddr(fmt.Sprintf("%s#%d", name, t.dials.Add(1)))
    srv := transport.NewStreamConn(c1, memAddr(name), client)
    cli := transport.NewStreamConn(c2, client, memAddr(name))
    select {
    case l.newCh <- srv:
    case <-l.closeCh:
        _ = srv.Close(); _ = cli.Close()
        return nil, errors.New("mem: listener closed")
    case <-ctx.Done():
        _ = srv.Close(); _ = cli.Close()
        return nil, ctx.Err()
    }
    return cli, nil
}

type listener struct {
    name    string
    newCh   chan transport.Conn
    closeCh chan struct{}
    once    sync.Once
    release func()
}

func (l *listener) Addr() net.Addr { return memAddr(l.name) }

func (l *listener) Accept(ctx context.Context) (transport.Conn, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-l.closeCh:
        return nil, errors.New("mem listener closed")
    case c := <-l.newCh:
        return c, nil
    }
}

func (l *listener) Close() error {
    l.once.Do(func() {
        close(l.closeCh)
        l.release()
    })
    return nil
}

type memAddr string

func (a memAddr) Network() string { return "mem" }
func (a memAddr) String() string  { return string(a) }
