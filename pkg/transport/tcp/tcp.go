// Package tcp carries frames over TCP with u32 LE length prefixes.
package tcp

import (
    "context"
    "net"

    "uttnet/pkg/transport"
)

// Transport implements a stream-based TCP transport.
type Transport struct{}

func New() *Transport { return &Transport{} }

func (t *Transport) Kind() transport.Kind { return transport.KindTCP }

func (t *Transport) Listen(ctx context.Context, address string) (transport.Listener, error) {
    l, err := net.Listen("tcp", address)
    if err != nil { return nil, err }
    return transport.NewNetListener(ctx, l), nil
}

func (t *Transport) Dial(ctx context.Context, address string) (transport.Conn, error) {
    d := &net.Dialer{}
    c, err := d.DialContext(ctx, "tcp", address)
    if err != nil { return nil, err }
    if tc, ok := c.(*net.TCPConn); ok {
        // cursor frames are tiny and latency-bound
        _ = tc.SetNoDelay(true)
    }
    return transport.NewStreamConn(c, c.LocalAddr(), c.RemoteAddr()), nil
}
