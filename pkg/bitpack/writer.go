package bitpack

import (
    "math"
)

// Writer appends bit-packed values to a growable buffer.
// It is not safe for concurrent use.
type Writer struct {
    data       []byte
    lengthBits int // includes the correction prefix
}

// NewWriter returns an empty writer.
func NewWriter() *Writer { return NewWriterSize(0) }

// NewWriterSize returns an empty writer with room for capacityBits payload
// bits before it has to grow.
func NewWriterSize(capacityBits int) *Writer {
    w := &Writer{lengthBits: prefixBits}
    w.data = make([]byte, 1, (prefixBits+capacityBits+7)>>3)
    return w
}

// LengthBits is the number of payload bits written, excluding the prefix.
func (w *Writer) LengthBits() int { return w.lengthBits - prefixBits }

// LengthBytes is the number of bytes Bytes will return.
func (w *Writer) LengthBytes() int { return (w.lengthBits + 7) >> 3 }

// Clear rewinds the writer so the next value lands startBits after the
// prefix. Bits already written below that point are kept.
func (w *Writer) Clear(startBits int) {
    if startBits < 0 { startBits = 0 }
    w.lengthBits = prefixBits + startBits
    w.ensure(w.lengthBits)
}

// Reset rewinds the writer to an empty payload.
func (w *Writer) Reset() { w.Clear(0) }

// Bytes stamps the length correction and returns the finished buffer. The
// slice aliases the writer and is only valid until the next write or Clear.
func (w *Writer) Bytes() []byte {
    n := w.LengthBytes()
    correction := n*8 - w.lengthBits
    w.data[0] = w.data[0]&^0x07 | byte(correction)
    if correction > 0 {
        // zero padding so a reused writer yields the same bytes as a fresh one
        w.data[n-1] &= byte(0xFF >> uint(correction))
    }
    return w.data[:n]
}

func (w *Writer) ensure(bits int) {
    n := (bits + 7) >> 3
    if n <= len(w.data) { return }
    if n <= cap(w.data) {
        w.data = w.data[:n]
        return
    }
    grown := make([]byte, n, max(n, 2*cap(w.data)))
    copy(grown, w.data)
    w.data = grown
}

// PutBits writes the low n bits of v (n in 0..64).
func (w *Writer) PutBits(v uint64, n int) {
    if n <= 0 { return }
    if n > 64 { n = 64 }
    w.ensure(w.lengthBits + n)
    v &= mask(n)
    for n > 0 {
        pos, off := w.lengthBits>>3, w.lengthBits&7
        chunk := min(8-off, n)
        m := byte(mask(chunk))
        w.data[pos] = w.data[pos]&^(m<<uint(off)) | (byte(v)&m)<<uint(off)
        v >>= uint(chunk)
        n -= chunk
        w.lengthBits += chunk
    }
}

func (w *Writer) PutBool(v bool) {
    if v {
        w.PutBits(1, 1)
    } else {
        w.PutBits(0, 1)
    }
}

func (w *Writer) PutUint8(v uint8)   { w.PutBits(uint64(v), 8) }
func (w *Writer) PutInt8(v int8)     { w.PutBits(uint64(uint8(v)), 8) }
func (w *Writer) PutUint16(v uint16) { w.PutBits(uint64(v), 16) }
func (w *Writer) PutInt16(v int16)   { w.PutBits(uint64(uint16(v)), 16) }
func (w *Writer) PutUint32(v uint32) { w.PutBits(uint64(v), 32) }
func (w *Writer) PutInt32(v int32)   { w.PutBits(uint64(uint32(v)), 32) }
func (w *Writer) PutUint64(v uint64) { w.PutBits(v, 64) }
func (w *Writer) PutInt64(v int64)   { w.PutBits(uint64(v), 64) }

// PutFloat32 writes the raw IEEE-754 bits of v.
func (w *Writer) PutFloat32(v float32) { w.PutUint32(math.Float32bits(v)) }

// PutFloat64 writes the raw IEEE-754 bits of v.
func (w *Writer) PutFloat64(v float64) { w.PutUint64(math.Float64bits(v)) }

// PutRange writes value as an offset from min using the fewest bits that hold
// max-min, and returns that width. Values outside the range are clamped.
func (w *Writer) PutRange(value, min, max int) int {
    if value < min { value = min }
    if value > max { value = max }
    bits := BitsToHoldRange(min, max)
    w.PutBits(uint64(value-min), bits)
    return bits
}

// PutRangeUint64 is PutRange for unsigned 64-bit values.
func (w *Writer) PutRangeUint64(value, min, max uint64) int {
    if value < min { value = min }
    if value > max { value = max }
    bits := BitsToHold(max - min)
    w.PutBits(value-min, bits)
    return bits
}

// PutQuantized maps v from [min, max] onto an unsigned integer of the given
// width. Out-of-range input is clamped; the result is rounded to nearest.
func (w *Writer) PutQuantized(v, min, max float32, bits int) {
    top := float64(mask(bits))
    var q float64
    if max > min {
        t := (float64(v) - float64(min)) / (float64(max) - float64(min))
        q = math.Round(top * math.Max(0, math.Min(1, t)))
    }
    w.PutBits(uint64(q), bits)
}

// PutRotation packs an angle in radians into bits, covering one full turn.
func (w *Writer) PutRotation(radians float32, bits int) {
    full := float64(uint64(1) << uint(bits))
    packed := uint64(math.Round((wrapAngle(float64(radians)) + math.Pi) / (2 * math.Pi) * full))
    if float64(packed) >= full { packed = 0 }
    w.PutBits(packed, bits)
}

// PutPoint writes x and y as ranged integers inside r.
func (w *Writer) PutPoint(x, y int, r Rect) {
    w.PutRange(x, r.Left, r.Right)
    w.PutRange(y, r.Top, r.Bottom)
}

// PutVarUint writes v seven bits per byte, high bit set while more follow.
// It returns the number of bytes used.
func (w *Writer) PutVarUint(v uint32) int {
    n := 1
    for v >= 0x80 {
        w.PutUint8(byte(v) | 0x80)
        v >>= 7
        n++
    }
    w.PutUint8(byte(v))
    return n
}

// PutBytes writes b verbatim, eight bits per byte.
func (w *Writer) PutBytes(b []byte) {
    w.ensure(w.lengthBits + len(b)*8)
    if w.lengthBits&7 == 0 {
        copy(w.data[w.lengthBits>>3:], b)
        w.lengthBits += len(b) * 8
        return
    }
    for _, c := range b {
        w.PutBits(uint64(c), 8)
    }
}

// PutString writes the UTF-8 bytes of s behind a varuint byte count.
func (w *Writer) PutString(s string) {
    w.PutVarUint(uint32(len(s)))
    if s == "" { return }
    w.PutBytes([]byte(s))
}
