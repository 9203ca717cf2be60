package bitpack

import (
    "bytes"
    "errors"
    "fmt"
    "math"
    "testing"
)

func TestBitsToHold(t *testing.T) {
    cases := []struct {
        v    uint64
        want int
    }{{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {8, 4}, {255, 8}, {256, 9}, {math.MaxUint64, 64}}
    for _, c := range cases {
        if got := BitsToHold(c.v); got != c.want {
            t.Fatalf("BitsToHold(%d) = %d, want %d", c.v, got, c.want)
        }
    }
    if got := BitsToHoldRange(3, 3); got != 1 { t.Fatalf("single value range = %d bits", got) }
    if got := BitsToHoldRange(0, 8); got != 4 { t.Fatalf("0..8 = %d bits", got) }
    if got := BitsToHoldRange(-4, 3); got != 3 { t.Fatalf("-4..3 = %d bits", got) }
}

func TestEmptyWriterIsMarker(t *testing.T) {
    w := NewWriter()
    b := w.Bytes()
    if !bytes.Equal(b, []byte{0x05}) { t.Fatalf("empty payload = %x", b) }
    r := NewReader(b, 0)
    if !r.EndOfData() { t.Fatalf("empty payload should be at end of data") }
    if r.Err() != nil { t.Fatalf("unexpected err: %v", r.Err()) }

    r.Reset(nil, 0)
    if !r.EndOfData() { t.Fatalf("zero-length payload should be at end of data") }
}

func TestSingleBitLayout(t *testing.T) {
    w := NewWriter()
    w.PutBool(true)
    // prefix carries correction 4, payload bit sits at bit 3
    if b := w.Bytes(); !bytes.Equal(b, []byte{0x0C}) { t.Fatalf("bytes = %x", b) }
    if w.LengthBits() != 1 || w.LengthBytes() != 1 { t.Fatalf("lengths = %d/%d", w.LengthBits(), w.LengthBytes()) }
}

func TestRoundtripFixedWidth(t *testing.T) {
    w := NewWriter()
    w.PutBool(true)
    w.PutUint8(0xAB)
    w.PutInt8(-5)
    w.PutBool(false)
    w.PutUint16(0xBEEF)
    w.PutInt16(-30000)
    w.PutUint32(0xDEADBEEF)
    w.PutInt32(math.MinInt32)
    w.PutUint64(0x0102030405060708)
    w.PutInt64(-1)
    w.PutFloat32(3.25)
    w.PutFloat64(-1e300)

    r := NewReader(w.Bytes(), 0)
    if !r.ReadBool() { t.Fatalf("bool") }
    if v := r.ReadUint8(); v != 0xAB { t.Fatalf("u8 = %x", v) }
    if v := r.ReadInt8(); v != -5 { t.Fatalf("i8 = %d", v) }
    if r.ReadBool() { t.Fatalf("bool false") }
    if v := r.ReadUint16(); v != 0xBEEF { t.Fatalf("u16 = %x", v) }
    if v := r.ReadInt16(); v != -30000 { t.Fatalf("i16 = %d", v) }
    if v := r.ReadUint32(); v != 0xDEADBEEF { t.Fatalf("u32 = %x", v) }
    if v := r.ReadInt32(); v != math.MinInt32 { t.Fatalf("i32 = %d", v) }
    if v := r.ReadUint64(); v != 0x0102030405060708 { t.Fatalf("u64 = %x", v) }
    if v := r.ReadInt64(); v != -1 { t.Fatalf("i64 = %d", v) }
    if v := r.ReadFloat32(); v != 3.25 { t.Fatalf("f32 = %v", v) }
    if v := r.ReadFloat64(); v != -1e300 { t.Fatalf("f64 = %v", v) }
    if !r.EndOfData() { t.Fatalf("expected end of data, %d bits left", r.Remaining()) }
    if r.Err() != nil { t.Fatalf("err: %v", r.Err()) }
}

func TestRangeUsesMinimalWidth(t *testing.T) {
    w := NewWriter()
    if n := w.PutRange(5, 0, 8); n != 4 { t.Fatalf("0..8 width = %d", n) }
    if n := w.PutRange(-2, -3, 3); n != 3 { t.Fatalf("-3..3 width = %d", n) }
    if n := w.PutRange(7, 7, 7); n != 1 { t.Fatalf("7..7 width = %d", n) }
    if n := w.PutRangeUint64(1<<40, 1<<39, 1<<41); n != 41 { t.Fatalf("u64 width = %d", n) }
    if w.LengthBits() != 4+3+1+41 { t.Fatalf("length bits = %d", w.LengthBits()) }

    r := NewReader(w.Bytes(), 0)
    if v := r.ReadRange(0, 8); v != 5 { t.Fatalf("range = %d", v) }
    if v := r.ReadRange(-3, 3); v != -2 { t.Fatalf("signed range = %d", v) }
    if v := r.ReadRange(7, 7); v != 7 { t.Fatalf("single range = %d", v) }
    if v := r.ReadRangeUint64(1<<39, 1<<41); v != 1<<40 { t.Fatalf("u64 range = %d", v) }
}

func TestRangeClampsOnWrite(t *testing.T) {
    w := NewWriter()
    w.PutRange(42, 0, 8)
    w.PutRange(-1, 0, 8)
    r := NewReader(w.Bytes(), 0)
    if v := r.ReadRange(0, 8); v != 8 { t.Fatalf("high clamp = %d", v) }
    if v := r.ReadRange(0, 8); v != 0 { t.Fatalf("low clamp = %d", v) }
}

func TestQuantizedAndRotation(t *testing.T) {
    w := NewWriter()
    w.PutQuantized(0.5, 0, 1, 8)
    w.PutQuantized(-10, 0, 1, 8)
    w.PutQuantized(640, 0, 1280, 12)
    w.PutRotation(1.0, 10)
    w.PutRotation(-math.Pi/2, 8)
    w.PutRotation(3*math.Pi, 8)

    r := NewReader(w.Bytes(), 0)
    if v := r.ReadQuantized(0, 1, 8); math.Abs(float64(v)-0.5) > 1.0/255 { t.Fatalf("quantized = %v", v) }
    if v := r.ReadQuantized(0, 1, 8); v != 0 { t.Fatalf("clamped quantized = %v", v) }
    if v := r.ReadQuantized(0, 1280, 12); math.Abs(float64(v)-640) > 1280.0/4095 { t.Fatalf("quantized wide = %v", v) }
    if v := r.ReadRotation(10); math.Abs(float64(v)-1.0) > 2*math.Pi/1024 { t.Fatalf("rotation = %v", v) }
    if v := r.ReadRotation(8); math.Abs(float64(v)+math.Pi/2) > 2*math.Pi/256 { t.Fatalf("rotation neg = %v", v) }
    // 3π wraps to -π
    if v := r.ReadRotation(8); math.Abs(float64(v)+math.Pi) > 2*math.Pi/256 { t.Fatalf("rotation wrap = %v", v) }
}

func TestPoint(t *testing.T) {
    rect := Rect{Left: -10, Top: 0, Right: 10, Bottom: 100}
    w := NewWriter()
    w.PutPoint(-3, 77, rect)
    r := NewReader(w.Bytes(), 0)
    x, y := r.ReadPoint(rect)
    if x != -3 || y != 77 { t.Fatalf("point = %d,%d", x, y) }
}

func TestStringsAndVarUint(t *testing.T) {
    w := NewWriter()
    w.PutBool(true) // misalign the byte path
    if n := w.PutVarUint(300); n != 2 { t.Fatalf("varuint bytes = %d", n) }
    w.PutString("")
    w.PutString("héllo")
    w.PutBytes([]byte{1, 2, 3})

    r := NewReader(w.Bytes(), 0)
    r.ReadBool()
    if v := r.ReadVarUint(); v != 300 { t.Fatalf("varuint = %d", v) }
    if s, ok := r.ReadString(); !ok || s != "" { t.Fatalf("empty string = %q %v", s, ok) }
    if s, ok := r.ReadString(); !ok || s != "héllo" { t.Fatalf("string = %q %v", s, ok) }
    if b := r.ReadBytes(3); !bytes.Equal(b, []byte{1, 2, 3}) { t.Fatalf("bytes = %v", b) }
    if !r.EndOfData() { t.Fatalf("expected end of data") }
}

func TestReadStringDeclaredLengthTooLong(t *testing.T) {
    w := NewWriter()
    w.PutVarUint(10)
    w.PutBytes([]byte("abc"))
    r := NewReader(w.Bytes(), 0)
    s, ok := r.ReadString()
    if ok || s != "" { t.Fatalf("expected sentinel, got %q %v", s, ok) }
    if !r.EndOfData() { t.Fatalf("cursor should be at end") }
    if !errors.Is(r.Err(), ErrShortRead) { t.Fatalf("err = %v", r.Err()) }
}

func TestTruncatedPayloadNeverOverreads(t *testing.T) {
    w := NewWriter()
    w.PutUint32(0xCAFEBABE)
    w.PutFloat32(1.5)
    full := append([]byte(nil), w.Bytes()...)
    for n := 0; n < len(full); n++ {
        r := NewReader(full[:n], 0)
        a := r.ReadUint32()
        f := r.ReadFloat32()
        if r.Err() == nil { t.Fatalf("len %d: expected short read", n) }
        if !r.EndOfData() { t.Fatalf("len %d: expected end of data", n) }
        if f != 0 { t.Fatalf("len %d: value past end should be zero, got %v (a=%x)", n, f, a) }
    }
}

func TestUserDataOffset(t *testing.T) {
    w := NewWriter()
    w.PutRange(6, 0, 8)
    w.PutString("x")
    framed := append([]byte{0xAA, 0xBB, 0xCC}, w.Bytes()...)
    r := NewReader(framed, 3)
    if v := r.ReadRange(0, 8); v != 6 { t.Fatalf("range = %d", v) }
    if s, ok := r.ReadString(); !ok || s != "x" { t.Fatalf("string = %q", s) }
    if !r.EndOfData() { t.Fatalf("expected end") }

    r.Reset(framed, 4)
    if r.Position() != 4*8+3 { t.Fatalf("position = %d", r.Position()) }
    r.Reset(framed, 10)
    if !r.EndOfData() { t.Fatalf("offset past end should read as empty") }
}

func TestClearReuseIsIdempotent(t *testing.T) {
    fresh := NewWriter()
    fresh.PutRange(3, 0, 2)
    fresh.PutFloat32(12.5)
    want := append([]byte(nil), fresh.Bytes()...)

    w := NewWriter()
    w.PutUint64(math.MaxUint64)
    w.PutUint64(math.MaxUint64)
    w.Bytes()
    for i := 0; i < 3; i++ {
        w.Clear(0)
        w.PutRange(3, 0, 2)
        w.PutFloat32(12.5)
        if got := w.Bytes(); !bytes.Equal(got, want) {
            t.Fatalf("pass %d: %x != %x", i, got, want)
        }
    }
}

func TestClearKeepsLeadingBits(t *testing.T) {
    w := NewWriter()
    w.PutRange(2, 0, 2) // 2-bit tag
    w.PutUint16(0xFFFF)
    w.Clear(2)
    w.PutBool(true)
    r := NewReader(w.Bytes(), 0)
    if tag := r.ReadRange(0, 2); tag != 2 { t.Fatalf("tag = %d", tag) }
    if !r.ReadBool() { t.Fatalf("body bit") }
    if !r.EndOfData() { t.Fatalf("stale bits leaked past Clear") }
}

func ExampleWriter() {
    w := NewWriter()
    w.PutRange(4, 0, 8)
    w.PutRange(7, 0, 8)
    r := NewReader(w.Bytes(), 0)
    fmt.Println(len(w.Bytes()), r.ReadRange(0, 8), r.ReadRange(0, 8), r.EndOfData())
    // Output: 2 4 7 true
}
