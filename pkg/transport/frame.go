package transport

import (
    "bufio"
    "encoding/binary"
    "errors"
    "fmt"
    "io"
)

// FrameType distinguishes connection control from application data.
type FrameType uint8

const (
    FrameData FrameType = iota
    FrameConnect
    FrameAccept
    FrameReject
    FrameDisconnect
)

func (t FrameType) String() string {
    switch t {
    case FrameData:
        return "data"
    case FrameConnect:
        return "connect"
    case FrameAccept:
        return "accept"
    case FrameReject:
        return "reject"
    case FrameDisconnect:
        return "disconnect"
    default:
        return fmt.Sprintf("frame(%d)", uint8(t))
    }
}

// HeaderSize is the fixed frame header: [type][channel][delivery][seq u16 LE].
const HeaderSize = 5

// MaxFrameSize bounds header plus payload.
const MaxFrameSize = 1 << 24

var ErrFrameSize = errors.New("transport: invalid frame size")

// Frame is one unit on a Conn. On receive Data holds the whole frame and the
// payload starts at Offset, so decoders can read in place. On send Data is
// the payload and Offset is usually zero.
type Frame struct {
    Type     FrameType
    Channel  byte
    Delivery Delivery
    Seq      uint16
    Data     []byte
    Offset   int
}

// Payload returns the application bytes of f.
func (f Frame) Payload() []byte {
    if f.Offset >= len(f.Data) { return nil }
    return f.Data[f.Offset:]
}

func putHeader(b []byte, f Frame) {
    b[0] = byte(f.Type)
    b[1] = f.Channel
    b[2] = byte(f.Delivery)
    binary.LittleEndian.PutUint16(b[3:5], f.Seq)
}

// MarshalFrame returns header and payload in one buffer, for message-oriented
// links such as QUIC datagrams.
func MarshalFrame(f Frame) []byte {
    p := f.Payload()
    out := make([]byte, HeaderSize+len(p))
    putHeader(out, f)
    copy(out[HeaderSize:], p)
    return out
}

// ParseFrame reads the header of b. The returned frame aliases b.
func ParseFrame(b []byte) (Frame, error) {
    if len(b) < HeaderSize { return Frame{}, ErrFrameSize }
    return Frame{
        Type:     FrameType(b[0]),
        Channel:  b[1],
        Delivery: Delivery(b[2]),
        Seq:      binary.LittleEndian.Uint16(b[3:5]),
        Data:     b,
        Offset:   HeaderSize,
    }, nil
}

// WriteFrame writes f behind a u32 LE length prefix and flushes bw.
func WriteFrame(bw *bufio.Writer, f Frame) error {
    p := f.Payload()
    n := HeaderSize + len(p)
    if n > MaxFrameSize { return ErrFrameSize }
    var hdr [4 + HeaderSize]byte
    binary.LittleEndian.PutUint32(hdr[:4], uint32(n))
    putHeader(hdr[4:], f)
    if _, err := bw.Write(hdr[:]); err != nil { return err }
    if _, err := bw.Write(p); err != nil { return err }
    return bw.Flush()
}

// ReadFrame reads one length-prefixed frame written by WriteFrame.
func ReadFrame(br *bufio.Reader) (Frame, error) {
    var lenbuf [4]byte
    if _, err := io.ReadFull(br, lenbuf[:]); err != nil { return Frame{}, err }
    n := int(binary.LittleEndian.Uint32(lenbuf[:]))
    if n < HeaderSize || n > MaxFrameSize { return Frame{}, ErrFrameSize }
    buf := make([]byte, n)
    if _, err := io.ReadFull(br, buf); err != nil { return Frame{}, err }
    return ParseFrame(buf)
}

// SeqNewer reports whether a was sent after b, allowing for wrap-around.
func SeqNewer(a, b uint16) bool { return int16(a-b) > 0 }
