package protocol

import (
    "bytes"
    "errors"
    "testing"

    "uttnet/pkg/bitpack"
    "uttnet/pkg/transport"
)

func TestTagWidth(t *testing.T) {
    if TagBits != 2 { t.Fatalf("TagBits = %d", TagBits) }
}

func TestRoundtripAllKinds(t *testing.T) {
    reg := NewRegistry()
    dec := NewDecoder()
    cases := []Packet{
        SyncPlayer{X: 412.5, Y: -3.25},
        MakePlay{Macro: 4, Micro: 7},
        MakePlay{Macro: 0, Micro: 8},
        ResetGame{},
    }
    for _, in := range cases {
        b, err := reg.Marshal(in)
        if err != nil { t.Fatalf("marshal %#v: %v", in, err) }
        out, err := dec.Decode(b, 0)
        if err != nil { t.Fatalf("decode %#v: %v", in, err) }
        if out != in { t.Fatalf("roundtrip mismatch: %#v != %#v", out, in) }
    }
}

func TestGoldenBytes(t *testing.T) {
    reg := NewRegistry()
    b, _ := reg.Marshal(MakePlay{Macro: 4, Micro: 7})
    if !bytes.Equal(b, []byte{0x8B, 0x0E}) { t.Fatalf("make_play bytes = %x", b) }
    b, _ = reg.Marshal(ResetGame{})
    if !bytes.Equal(b, []byte{0x13}) { t.Fatalf("reset_game bytes = %x", b) }
    b, _ = reg.Marshal(SyncPlayer{})
    if len(b) != 9 { t.Fatalf("sync_player length = %d", len(b)) }
}

func TestMarshalIsRepeatable(t *testing.T) {
    reg := NewRegistry()
    first, _ := reg.Marshal(SyncPlayer{X: 1, Y: 2})
    first = append([]byte(nil), first...)
    reg.Marshal(SyncPlayer{X: 1e9, Y: -1e9})
    again, _ := reg.Marshal(SyncPlayer{X: 1, Y: 2})
    if !bytes.Equal(first, again) { t.Fatalf("%x != %x", first, again) }
}

func TestMarshalRejectsOutOfRange(t *testing.T) {
    reg := NewRegistry()
    if _, err := reg.Marshal(MakePlay{Macro: 9, Micro: 0}); !errors.Is(err, ErrOutOfRange) { t.Fatalf("err = %v", err) }
    if _, err := reg.Marshal(MakePlay{Macro: 0, Micro: -1}); !errors.Is(err, ErrOutOfRange) { t.Fatalf("err = %v", err) }
}

func TestDecodeUnknownKind(t *testing.T) {
    w := bitpack.NewWriter()
    w.PutBits(3, TagBits)
    _, err := NewDecoder().Decode(w.Bytes(), 0)
    if !errors.Is(err, ErrUnknownKind) { t.Fatalf("err = %v", err) }
}

func TestDecodeOutOfRangeCell(t *testing.T) {
    w := bitpack.NewWriter()
    w.PutBits(uint64(KindMakePlay), TagBits)
    w.PutBits(12, 4)
    w.PutBits(0, 4)
    _, err := NewDecoder().Decode(w.Bytes(), 0)
    if !errors.Is(err, ErrOutOfRange) { t.Fatalf("err = %v", err) }
}

func TestDecodeTruncated(t *testing.T) {
    reg := NewRegistry()
    b, _ := reg.Marshal(SyncPlayer{X: 1, Y: 2})
    for n := 1; n < len(b); n++ {
        _, err := NewDecoder().Decode(b[:n], 0)
        if !errors.Is(err, ErrTruncated) { t.Fatalf("len %d: err = %v", n, err) }
    }
}

func TestMarker(t *testing.T) {
    reg := NewRegistry()
    dec := NewDecoder()
    if !dec.IsMarker(reg.Marker(), 0) { t.Fatalf("marker not recognized") }
    if !dec.IsMarker(nil, 0) { t.Fatalf("zero-length payload should count as marker") }
    b, _ := reg.Marshal(ResetGame{})
    if dec.IsMarker(b, 0) { t.Fatalf("reset_game taken for marker") }
    if _, err := dec.Decode(reg.Marker(), 0); !errors.Is(err, ErrMarker) { t.Fatalf("err = %v", err) }
}

func TestDecodeAtOffset(t *testing.T) {
    reg := NewRegistry()
    b, _ := reg.Marshal(MakePlay{Macro: 2, Micro: 5})
    framed := append(make([]byte, transport.HeaderSize), b...)
    p, err := NewDecoder().Decode(framed, transport.HeaderSize)
    if err != nil { t.Fatalf("decode: %v", err) }
    if p != (MakePlay{Macro: 2, Micro: 5}) { t.Fatalf("packet = %#v", p) }
}

func TestBuilderScope(t *testing.T) {
    reg := NewRegistry()
    b := reg.Begin(KindMakePlay)
    b.Writer().PutRange(1, 0, CellMax)
    b.Writer().PutRange(2, 0, CellMax)
    out := b.Finish()
    p, err := NewDecoder().Decode(out, 0)
    if err != nil || p != (MakePlay{Macro: 1, Micro: 2}) { t.Fatalf("decode = %#v, %v", p, err) }

    stale := reg.Begin(KindMakePlay)
    reg.Begin(KindMakePlay)
    defer func() {
        if recover() == nil { t.Fatalf("finishing a superseded builder should panic") }
    }()
    stale.Finish()
}

func TestRoutes(t *testing.T) {
    if r := RouteFor(KindSyncPlayer); r.Channel != ChannelCursor || r.Delivery != transport.Sequenced { t.Fatalf("sync route = %+v", r) }
    if r := RouteFor(KindMakePlay); r.Channel != ChannelGameplay || r.Delivery != transport.ReliableOrdered { t.Fatalf("play route = %+v", r) }
    if RouteFor(KindResetGame) != MarkerRoute { t.Fatalf("reset route differs from marker route") }
}
