// Package bitpack implements a bit-granular writer and reader for compact
// network payloads.
//
// Values are packed least-significant-bit first. Every buffer starts with a
// 3-bit length correction: the number of unused bits in the final byte. A
// receiver recovers the exact bit length as byteCount*8 - correction, so a
// payload may end in the middle of a byte without ambiguity.
//
// A Writer is meant to be reused: Clear rewinds it while keeping the first
// startBits bits (typically a pre-written packet tag) and the backing array.
// A Reader is repointed at each inbound payload with Reset and never copies.
//
// Reads are bounds-checked. A read that runs past the end yields the zero
// value, moves the cursor to the end and records ErrShortRead.
package bitpack
