package bitpack

import (
    "math"
)

// Reader decodes values written by Writer. The zero Reader reads an empty
// payload; call Reset to point it at data.
type Reader struct {
    data       []byte
    readBits   int
    lengthBits int
    err        error
}

// NewReader returns a reader positioned at the start of data, where the
// payload begins userDataOffset bytes in.
func NewReader(data []byte, userDataOffset int) *Reader {
    r := &Reader{}
    r.Reset(data, userDataOffset)
    return r
}

// Reset points the reader at data and consumes the length correction that
// sits userDataOffset bytes in. Payloads too short to carry the correction
// read as already at end of data.
func (r *Reader) Reset(data []byte, userDataOffset int) {
    r.data = data
    r.err = nil
    if userDataOffset < 0 { userDataOffset = 0 }
    r.readBits = userDataOffset * 8
    r.lengthBits = len(data) * 8
    if r.readBits+prefixBits > r.lengthBits {
        r.readBits = r.lengthBits
        return
    }
    correction := int(r.take(prefixBits))
    r.lengthBits -= correction
    if r.lengthBits < r.readBits { r.lengthBits = r.readBits }
}

// EndOfData reports whether every payload bit has been consumed.
func (r *Reader) EndOfData() bool { return r.readBits >= r.lengthBits }

// LengthBits is the absolute bit length of the buffer after correction.
func (r *Reader) LengthBits() int { return r.lengthBits }

// Position is the absolute bit offset of the next read.
func (r *Reader) Position() int { return r.readBits }

// Remaining is the number of unread payload bits.
func (r *Reader) Remaining() int { return r.lengthBits - r.readBits }

// Err returns the first error recorded by a read, if any.
func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(err error) {
    if r.err == nil { r.err = err }
    r.readBits = r.lengthBits
}

// take reads n bits without checking the payload length; callers guarantee
// the bits are inside data.
func (r *Reader) take(n int) uint64 {
    var v uint64
    for got := 0; got < n; {
        pos, off := r.readBits>>3, r.readBits&7
        chunk := min(8-off, n-got)
        b := uint64(r.data[pos]>>uint(off)) & mask(chunk)
        v |= b << uint(got)
        got += chunk
        r.readBits += chunk
    }
    return v
}

// ReadBits reads an n-bit unsigned value (n in 0..64).
func (r *Reader) ReadBits(n int) uint64 {
    if n <= 0 { return 0 }
    if n > 64 { n = 64 }
    if r.readBits+n > r.lengthBits {
        r.fail(ErrShortRead)
        return 0
    }
    return r.take(n)
}

func (r *Reader) ReadBool() bool     { return r.ReadBits(1) == 1 }
func (r *Reader) ReadUint8() uint8   { return uint8(r.ReadBits(8)) }
func (r *Reader) ReadInt8() int8     { return int8(r.ReadBits(8)) }
func (r *Reader) ReadUint16() uint16 { return uint16(r.ReadBits(16)) }
func (r *Reader) ReadInt16() int16   { return int16(r.ReadBits(16)) }
func (r *Reader) ReadUint32() uint32 { return uint32(r.ReadBits(32)) }
func (r *Reader) ReadInt32() int32   { return int32(r.ReadBits(32)) }
func (r *Reader) ReadUint64() uint64 { return r.ReadBits(64) }
func (r *Reader) ReadInt64() int64   { return int64(r.ReadBits(64)) }

func (r *Reader) ReadFloat32() float32 { return math.Float32frombits(r.ReadUint32()) }
func (r *Reader) ReadFloat64() float64 { return math.Float64frombits(r.ReadUint64()) }

// ReadRange reads a value written by PutRange with the same bounds. The
// result is not clamped: a corrupt payload may decode above max.
func (r *Reader) ReadRange(min, max int) int {
    return min + int(r.ReadBits(BitsToHoldRange(min, max)))
}

// ReadRangeUint64 reads a value written by PutRangeUint64.
func (r *Reader) ReadRangeUint64(min, max uint64) uint64 {
    return min + r.ReadBits(BitsToHold(max-min))
}

// ReadQuantized reads a value written by PutQuantized with the same bounds
// and width.
func (r *Reader) ReadQuantized(min, max float32, bits int) float32 {
    q := r.ReadBits(bits)
    top := float64(mask(bits))
    return float32(float64(min) + float64(q)/top*(float64(max)-float64(min)))
}

// ReadRotation reads an angle written by PutRotation; the result is in
// [-Pi, Pi).
func (r *Reader) ReadRotation(bits int) float32 {
    q := r.ReadBits(bits)
    full := float64(uint64(1) << uint(bits))
    return float32(float64(q)/full*2*math.Pi - math.Pi)
}

// ReadPoint reads a point written by PutPoint with the same rectangle.
func (r *Reader) ReadPoint(rect Rect) (x, y int) {
    x = r.ReadRange(rect.Left, rect.Right)
    y = r.ReadRange(rect.Top, rect.Bottom)
    return x, y
}

// ReadVarUint reads a value written by PutVarUint.
func (r *Reader) ReadVarUint() uint32 {
    var v uint32
    for shift := 0; shift < 35; shift += 7 {
        b := r.ReadUint8()
        if r.err != nil { return 0 }
        v |= uint32(b&0x7F) << uint(shift)
        if b&0x80 == 0 { return v }
    }
    r.fail(ErrVarUintOverflow)
    return 0
}

// ReadBytes reads n raw bytes into a new slice.
func (r *Reader) ReadBytes(n int) []byte {
    if n < 0 || r.readBits+n*8 > r.lengthBits {
        r.fail(ErrShortRead)
        return nil
    }
    out := make([]byte, n)
    if r.readBits&7 == 0 {
        copy(out, r.data[r.readBits>>3:])
        r.readBits += n * 8
        return out
    }
    for i := range out {
        out[i] = byte(r.take(8))
    }
    return out
}

// ReadString reads a string written by PutString. When the declared length
// exceeds the remaining payload it returns ("", false) and leaves the reader
// at end of data.
func (r *Reader) ReadString() (string, bool) {
    n := r.ReadVarUint()
    if r.err != nil { return "", false }
    if n == 0 { return "", true }
    if uint64(n)*8 > uint64(r.Remaining()) {
        r.fail(ErrShortRead)
        return "", false
    }
    return string(r.ReadBytes(int(n))), true
}
