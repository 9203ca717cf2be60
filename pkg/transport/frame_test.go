package transport

import (
    "bufio"
    "bytes"
    "errors"
    "testing"
)

func TestFrameWireLayout(t *testing.T) {
    var buf bytes.Buffer
    bw := bufio.NewWriter(&buf)
    f := Frame{Type: FrameData, Channel: 1, Delivery: Sequenced, Seq: 0x0102, Data: []byte{0xAA, 0xBB}}
    if err := WriteFrame(bw, f); err != nil { t.Fatalf("write: %v", err) }
    want := []byte{7, 0, 0, 0, byte(FrameData), 1, byte(Sequenced), 0x02, 0x01, 0xAA, 0xBB}
    if !bytes.Equal(buf.Bytes(), want) { t.Fatalf("wire = %x, want %x", buf.Bytes(), want) }

    got, err := ReadFrame(bufio.NewReader(&buf))
    if err != nil { t.Fatalf("read: %v", err) }
    if got.Type != FrameData || got.Channel != 1 || got.Delivery != Sequenced || got.Seq != 0x0102 { t.Fatalf("header = %+v", got) }
    if got.Offset != HeaderSize || !bytes.Equal(got.Payload(), []byte{0xAA, 0xBB}) { t.Fatalf("payload = %x at %d", got.Payload(), got.Offset) }
}

func TestMarshalParseFrame(t *testing.T) {
    b := MarshalFrame(Frame{Type: FrameData, Channel: 0, Data: []byte{0x05}})
    f, err := ParseFrame(b)
    if err != nil { t.Fatalf("parse: %v", err) }
    if !bytes.Equal(f.Payload(), []byte{0x05}) { t.Fatalf("payload = %x", f.Payload()) }
    if _, err := ParseFrame(b[:HeaderSize-1]); !errors.Is(err, ErrFrameSize) { t.Fatalf("short header: %v", err) }
}

func TestReadFrameRejectsBadLength(t *testing.T) {
    br := bufio.NewReader(bytes.NewReader([]byte{2, 0, 0, 0, 0, 0}))
    if _, err := ReadFrame(br); !errors.Is(err, ErrFrameSize) { t.Fatalf("err = %v", err) }
}

func TestSeqNewerWraps(t *testing.T) {
    if !SeqNewer(2, 1) || SeqNewer(1, 2) || SeqNewer(5, 5) { t.Fatalf("basic ordering") }
    if !SeqNewer(3, 65530) { t.Fatalf("wrap-around not treated as newer") }
    if SeqNewer(65530, 3) { t.Fatalf("older across wrap treated as newer") }
}

func TestSequencedFilter(t *testing.T) {
    p := &Peer{recvSeq: make(map[byte]uint16)}
    accept := func(ch byte, seq uint16) bool { return p.acceptSequenced(Frame{Channel: ch, Seq: seq}) }
    if !accept(1, 10) || !accept(1, 11) { t.Fatalf("in-order frames dropped") }
    if accept(1, 9) || accept(1, 11) { t.Fatalf("stale or duplicate frame accepted") }
    if !accept(2, 1) { t.Fatalf("channels must be independent") }
}
