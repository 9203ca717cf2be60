//go:build windows

// Package winpipe carries frames over Windows named pipes.
package winpipe

import (
    "context"

    "github.com/Microsoft/go-winio"
    "uttnet/pkg/transport"
)

type Transport struct{}

func New() *Transport { return &Transport{} }

func (t *Transport) Kind() transport.Kind { return transport.KindWinPipe }

// Listen accepts on pipeName, e.g. `\\.\pipe\uttnet`.
func (t *Transport) Listen(ctx context.Context, pipeName string) (transport.Listener, error) {
    l, err := winio.ListenPipe(pipeName, &winio.PipeConfig{MessageMode: false})
    if err != nil { return nil, err }
    return transport.NewNetListener(ctx, l), nil
}

func (t *Transport) Dial(ctx context.Context, pipeName string) (transport.Conn, error) {
    c, err := winio.DialPipeContext(ctx, pipeName)
    if err != nil { return nil, err }
    return transport.NewStreamConn(c, c.LocalAddr(), c.RemoteAddr()), nil
}
