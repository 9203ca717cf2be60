package bitpack

import (
    "errors"
    "math"
)

// prefixBits is the width of the length-correction field at the head of
// every buffer.
const prefixBits = 3

var (
    // ErrShortRead is recorded when a read asks for more bits than remain.
    ErrShortRead = errors.New("bitpack: read past end of data")
    // ErrVarUintOverflow is recorded when a variable-length integer does not
    // terminate within five bytes.
    ErrVarUintOverflow = errors.New("bitpack: varuint overflows 32 bits")
)

// BitsToHold returns the number of bits needed to store v. Zero still costs
// one bit.
func BitsToHold(v uint64) int {
    bits := 1
    for v >>= 1; v != 0; v >>= 1 {
        bits++
    }
    return bits
}

// BitsToHoldRange returns the width used for a ranged integer in [min, max].
func BitsToHoldRange(min, max int) int { return BitsToHold(uint64(max - min)) }

// Rect is an integer rectangle used for point packing. Right and Bottom are
// inclusive.
type Rect struct {
    Left, Top, Right, Bottom int
}

func mask(n int) uint64 {
    if n >= 64 { return math.MaxUint64 }
    return 1<<uint(n) - 1
}

// wrapAngle folds radians into [-Pi, Pi).
func wrapAngle(a float64) float64 {
    a = math.Mod(a+math.Pi, 2*math.Pi)
    if a < 0 { a += 2 * math.Pi }
    return a - math.Pi
}
