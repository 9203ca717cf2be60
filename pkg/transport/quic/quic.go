// Package quic carries frames over QUIC. ReliableOrdered and control frames
// share one bidirectional stream opened by the dialer; Sequenced data frames
// travel as unreliable datagrams when the peer negotiated them.
package quic

import (
    "context"
    "crypto/rand"
    "crypto/rsa"
    "crypto/tls"
    "crypto/x509"
    "errors"
    "math/big"
    "net"
    "sync"
    "time"

    quicgo "github.com/quic-go/quic-go"
    "go.uber.org/zap"

    "uttnet/pkg/transport"
)

const alpn = "uttnet"

// closeLinger is how long Close waits for the peer to drain the stream before
// tearing the connection down.
const closeLinger = 250 * time.Millisecond

// Transport implements QUIC-based conns.
type Transport struct {
    tlsConf  *tls.Config
    quicConf *quicgo.Config
}

func New() *Transport {
    // Generate an ephemeral self-signed certificate for server side.
    cert, err := selfSignedCert()
    if err != nil { zap.L().Error("quic: self-signed certificate", zap.Error(err)) }
    tlsConf := &tls.Config{
        Certificates: []tls.Certificate{cert},
        NextProtos:   []string{alpn},
        MinVersion:   tls.VersionTLS13,
    }
    qconf := &quicgo.Config{
        EnableDatagrams: true,
        KeepAlivePeriod: 5 * time.Second,
        MaxIdleTimeout:  30 * time.Second,
    }
    return &Transport{tlsConf: tlsConf, quicConf: qconf}
}

func (t *Transport) Kind() transport.Kind { return transport.KindQUIC }

func (t *Transport) Listen(ctx context.Context, address string) (transport.Listener, error) {
    l, err := quicgo.ListenAddr(address, t.tlsConf, t.quicConf)
    if err != nil { return nil, err }
    ql := &listener{l: l, newCh: make(chan transport.Conn, 8), closeCh: make(chan struct{})}
    go ql.acceptLoop(ctx)
    go func() {
        select {
        case <-ctx.Done():
            _ = ql.Close()
        case <-ql.closeCh:
        }
    }()
    return ql, nil
}

func (t *Transport) Dial(ctx context.Context, address string) (transport.Conn, error) {
    // The session layer has no peer identity to verify against.
    tlsClient := &tls.Config{
        InsecureSkipVerify: true,
        NextProtos:         []string{alpn},
        MinVersion:         tls.VersionTLS13,
    }
    qc, err := quicgo.DialAddr(ctx, address, tlsClient, t.quicConf)
    if err != nil { return nil, err }
    st, err := qc.OpenStreamSync(ctx)
    if err != nil {
        _ = qc.CloseWithError(0, "open stream")
        return nil, err
    }
    return newConn(qc, st), nil
}

// ---- Listener ----

type listener struct {
    l       *quicgo.Listener
    newCh   chan transport.Conn
    closeCh chan struct{}
    once    sync.Once
}

func (l *listener) Addr() net.Addr { return l.l.Addr() }

func (l *listener) Accept(ctx context.Context) (transport.Conn, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-l.closeCh:
        return nil, errors.New("quic listener closed")
    case c := <-l.newCh:
        return c, nil
    }
}

func (l *listener) Close() error {
    var err error
    l.once.Do(func() {
        close(l.closeCh)
        err = l.l.Close()
    })
    return err
}

func (l *listener) acceptLoop(ctx context.Context) {
    for {
        qc, err := l.l.Accept(ctx)
        if err != nil { return }
        go func(qc quicgo.Connection) {
            // the stream becomes visible once the dialer writes its connect frame
            sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
            st, err := qc.AcceptStream(sctx)
            cancel()
            if err != nil {
                _ = qc.CloseWithError(0, "no stream")
                return
            }
            c := newConn(qc, st)
            select {
            case l.newCh <- c:
            case <-l.closeCh:
                _ = c.Close()
            }
        }(qc)
    }
}

// ---- Conn ----

type conn struct {
    qc     quicgo.Connection
    st     transport.Conn
    dgram  bool
    frames chan transport.Frame
    errCh  chan error

    closeOnce sync.Once
    closed    chan struct{}
}

func newConn(qc quicgo.Connection, st quicgo.Stream) *conn {
    c := &conn{
        qc:     qc,
        st:     transport.NewStreamConn(stream{st}, qc.LocalAddr(), qc.RemoteAddr()),
        dgram:  qc.ConnectionState().SupportsDatagrams,
        frames: make(chan transport.Frame),
        errCh:  make(chan error, 1),
        closed: make(chan struct{}),
    }
    go c.pumpStream()
    if c.dgram { go c.pumpDatagrams() }
    return c
}

func (c *conn) LocalAddr() net.Addr  { return c.qc.LocalAddr() }
func (c *conn) RemoteAddr() net.Addr { return c.qc.RemoteAddr() }

func (c *conn) Send(f transport.Frame) error {
    if c.dgram && f.Type == transport.FrameData && f.Delivery == transport.Sequenced {
        err := c.qc.SendDatagram(transport.MarshalFrame(f))
        var tooLarge *quicgo.DatagramTooLargeError
        if !errors.As(err, &tooLarge) { return err }
    }
    return c.st.Send(f)
}

func (c *conn) Recv() (transport.Frame, error) {
    select {
    case f := <-c.frames:
        return f, nil
    case err := <-c.errCh:
        return transport.Frame{}, err
    case <-c.closed:
        return transport.Frame{}, transport.ErrClosed
    }
}

func (c *conn) Close() error {
    c.closeOnce.Do(func() {
        close(c.closed)
        _ = c.st.Close()
        go func() {
            select {
            case <-c.qc.Context().Done():
            case <-time.After(closeLinger):
            }
            _ = c.qc.CloseWithError(0, "")
        }()
    })
    return nil
}

func (c *conn) deliver(f transport.Frame) bool {
    select {
    case c.frames <- f:
        return true
    case <-c.closed:
        return false
    }
}

func (c *conn) pumpStream() {
    for {
        f, err := c.st.Recv()
        if err != nil {
            c.errCh <- err
            return
        }
        if !c.deliver(f) { return }
    }
}

func (c *conn) pumpDatagrams() {
    for {
        b, err := c.qc.ReceiveDatagram(c.qc.Context())
        if err != nil { return }
        f, err := transport.ParseFrame(b)
        if err != nil { continue }
        if !c.deliver(f) { return }
    }
}

// stream closes both directions so a blocked reader returns.
type stream struct{ quicgo.Stream }

func (s stream) Close() error {
    s.Stream.CancelRead(0)
    return s.Stream.Close()
}

// ---- Helpers ----

// selfSignedCert generates a short-lived self-signed TLS certificate for local QUIC use.
func selfSignedCert() (tls.Certificate, error) {
    priv, err := rsa.GenerateKey(rand.Reader, 2048)
    if err != nil { return tls.Certificate{}, err }
    tmpl := x509.Certificate{
        SerialNumber: big.NewInt(time.Now().UnixNano()),
        NotBefore:    time.Now().Add(-time.Minute),
        NotAfter:     time.Now().Add(24 * time.Hour),
        KeyUsage:     x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
        ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
        BasicConstraintsValid: true,
        DNSNames:     []string{"localhost"},
    }
    der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
    if err != nil { return tls.Certificate{}, err }
    return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: priv}, nil
}
