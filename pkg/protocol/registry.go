package protocol

import (
    "fmt"

    "uttnet/pkg/bitpack"
)

// Registry owns one writer per packet kind, each pre-seeded with its tag, so
// building a packet never re-encodes the tag or allocates. A Registry belongs
// to a single session goroutine.
type Registry struct {
    writers [MaxKind + 1]*bitpack.Writer
    gen     [MaxKind + 1]uint64
    marker  *bitpack.Writer
}

func NewRegistry() *Registry {
    r := &Registry{marker: bitpack.NewWriter()}
    for k := Kind(0); k <= MaxKind; k++ {
        w := bitpack.NewWriterSize(TagBits + 64)
        w.PutRange(int(k), 0, int(MaxKind))
        r.writers[k] = w
    }
    return r
}

// Builder is one encoding pass over a kind's writer, opened by Begin and
// closed by Finish.
type Builder struct {
    reg  *Registry
    kind Kind
    gen  uint64
    w    *bitpack.Writer
}

// Begin rewinds the writer for k to just past its tag. Any builder still open
// on the same kind is invalidated.
func (r *Registry) Begin(k Kind) *Builder {
    if !k.Valid() { panic(fmt.Sprintf("protocol: begin %s", k)) }
    r.gen[k]++
    w := r.writers[k]
    w.Clear(TagBits)
    return &Builder{reg: r, kind: k, gen: r.gen[k], w: w}
}

// Writer exposes the underlying writer for field encoding.
func (b *Builder) Writer() *bitpack.Writer { return b.w }

// Finish closes the pass and returns the encoded packet. The slice is owned
// by the registry and stays valid until the next Begin on the same kind.
// Finishing a builder twice, or after another Begin on its kind, panics.
func (b *Builder) Finish() []byte {
    if b.reg.gen[b.kind] != b.gen {
        panic(fmt.Sprintf("protocol: %s builder finished after being superseded", b.kind))
    }
    b.reg.gen[b.kind]++
    return b.w.Bytes()
}

// Marshal validates p and encodes it through the kind's writer.
func (r *Registry) Marshal(p Packet) ([]byte, error) {
    if err := p.Validate(); err != nil { return nil, err }
    b := r.Begin(p.Kind())
    p.encode(b.Writer())
    return b.Finish(), nil
}

// Marker returns the handshake marker: a buffer with no payload bits.
func (r *Registry) Marker() []byte { return r.marker.Bytes() }
