// Package codec encodes board snapshots for the status surface. The game
// wire format is bitpack; these codecs serve observers that want JSON, CBOR
// or protobuf.
package codec

import (
    "fmt"
    "strings"
)

// Codec defines a simple interface for marshaling typed messages.
// Implementations should be deterministic.
type Codec interface {
    ContentType() string
    Marshal(v any) ([]byte, error)
    Unmarshal(data []byte, v any) error
}

const (
    ContentJSON  = "application/json"
    ContentCBOR  = "application/cbor"
    ContentProto = "application/x-protobuf"
)

// Format names an encoding, as picked by a query parameter or flag.
type Format uint8

const (
    FormatUnknown Format = iota
    FormatJSON
    FormatCBOR
    FormatProto
)

func (f Format) String() string {
    switch f {
    case FormatJSON:
        return "json"
    case FormatCBOR:
        return "cbor"
    case FormatProto:
        return "proto"
    default:
        return "unknown"
    }
}

// ContentType maps f to its MIME type.
func (f Format) ContentType() string {
    switch f {
    case FormatJSON:
        return ContentJSON
    case FormatCBOR:
        return ContentCBOR
    case FormatProto:
        return ContentProto
    default:
        return "application/octet-stream"
    }
}

// ParseFormat accepts short names and MIME types. Empty means JSON.
func ParseFormat(s string) (Format, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "json", ContentJSON:
        return FormatJSON, nil
    case "cbor", ContentCBOR:
        return FormatCBOR, nil
    case "proto", "protobuf", "pb", ContentProto:
        return FormatProto, nil
    default:
        return FormatUnknown, fmt.Errorf("unknown format: %q", s)
    }
}

// Registry maps content types to codecs.
type Registry struct{ byType map[string]Codec }

// NewRegistry constructs a registry preloaded with JSON, CBOR and Protobuf.
func NewRegistry() (*Registry, error) {
    r := &Registry{byType: make(map[string]Codec)}
    r.Register(JSON())
    r.Register(Proto())
    c, err := CBOR()
    if err != nil { return nil, err }
    r.Register(c)
    return r, nil
}

// Register adds a codec.
func (r *Registry) Register(c Codec) { r.byType[c.ContentType()] = c }

// Get returns a codec by content type, or nil.
func (r *Registry) Get(contentType string) Codec { return r.byType[contentType] }

// For returns the codec registered for f.
func (r *Registry) For(f Format) (Codec, error) {
    if c := r.Get(f.ContentType()); c != nil { return c, nil }
    return nil, fmt.Errorf("no codec for format %s", f)
}
