package protocol

import (
    "fmt"

    "uttnet/pkg/bitpack"
)

// Decoder turns inbound payloads into packets. It reuses one reader, so a
// Decoder belongs to a single goroutine.
type Decoder struct {
    r bitpack.Reader
}

func NewDecoder() *Decoder { return &Decoder{} }

// IsMarker reports whether the payload at offset carries no packet.
func (d *Decoder) IsMarker(data []byte, offset int) bool {
    d.r.Reset(data, offset)
    return d.r.EndOfData()
}

// Decode reads the tag and fields of the payload at offset. Trailing bits
// after the last field are ignored.
func (d *Decoder) Decode(data []byte, offset int) (Packet, error) {
    d.r.Reset(data, offset)
    if d.r.EndOfData() { return nil, ErrMarker }
    tag := d.r.ReadBits(TagBits)
    if d.r.Err() != nil { return nil, ErrTruncated }
    k := Kind(tag)
    if !k.Valid() { return nil, fmt.Errorf("%w: %d", ErrUnknownKind, tag) }

    var p Packet
    switch k {
    case KindSyncPlayer:
        p = SyncPlayer{X: d.r.ReadFloat32(), Y: d.r.ReadFloat32()}
    case KindMakePlay:
        p = MakePlay{Macro: d.r.ReadRange(0, CellMax), Micro: d.r.ReadRange(0, CellMax)}
    case KindResetGame:
        p = ResetGame{}
    }
    if d.r.Err() != nil { return nil, fmt.Errorf("%w: %s", ErrTruncated, k) }
    if err := p.Validate(); err != nil { return nil, err }
    return p, nil
}
