package transport

import (
    "bufio"
    "errors"
    "io"
    "net"
    "sync"
)

var ErrClosed = errors.New("transport: conn closed")

// streamConn frames a byte stream (TCP socket, pipe, QUIC stream) with
// length-prefixed frames.
type streamConn struct {
    mu     sync.Mutex
    rwc    io.ReadWriteCloser
    br     *bufio.Reader
    bw     *bufio.Writer
    local  net.Addr
    remote net.Addr

    closeOnce sync.Once
    closed    chan struct{}
}

// NewStreamConn wraps rwc as a Conn. Addresses may be nil when the stream
// has none.
func NewStreamConn(rwc io.ReadWriteCloser, local, remote net.Addr) Conn {
    return &streamConn{
        rwc:    rwc,
        br:     bufio.NewReader(rwc),
        bw:     bufio.NewWriter(rwc),
        local:  local,
        remote: remote,
        closed: make(chan struct{}),
    }
}

func (c *streamConn) LocalAddr() net.Addr  { return c.local }
func (c *streamConn) RemoteAddr() net.Addr { return c.remote }

func (c *streamConn) Send(f Frame) error {
    select {
    case <-c.closed:
        return ErrClosed
    default:
    }
    c.mu.Lock(); defer c.mu.Unlock()
    return WriteFrame(c.bw, f)
}

func (c *streamConn) Recv() (Frame, error) {
    f, err := ReadFrame(c.br)
    if err != nil {
        select {
        case <-c.closed:
            return Frame{}, ErrClosed
        default:
        }
        return Frame{}, err
    }
    return f, nil
}

func (c *streamConn) Close() error {
    var err error
    c.closeOnce.Do(func() {
        close(c.closed)
        err = c.rwc.Close()
    })
    return err
}
