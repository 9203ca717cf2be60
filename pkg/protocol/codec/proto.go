package codec

import (
    "encoding/json"
    "fmt"

    "google.golang.org/protobuf/proto"
    "google.golang.org/protobuf/types/known/structpb"
)

type protoCodec struct {
    mo proto.MarshalOptions
    uo proto.UnmarshalOptions
}

// Proto returns a Protocol Buffers codec with deterministic marshaling.
// Values that are not proto messages travel as a google.protobuf.Struct
// built from their JSON form.
func Proto() Codec {
    return protoCodec{
        mo: proto.MarshalOptions{Deterministic: true},
        uo: proto.UnmarshalOptions{},
    }
}

func (p protoCodec) ContentType() string { return ContentProto }

func (p protoCodec) Marshal(v any) ([]byte, error) {
    if msg, ok := v.(proto.Message); ok { return p.mo.Marshal(msg) }
    s, err := toStruct(v)
    if err != nil { return nil, fmt.Errorf("protobuf: %T: %w", v, err) }
    return p.mo.Marshal(s)
}

func (p protoCodec) Unmarshal(data []byte, v any) error {
    if msg, ok := v.(proto.Message); ok { return p.uo.Unmarshal(data, msg) }
    var s structpb.Struct
    if err := p.uo.Unmarshal(data, &s); err != nil { return err }
    b, err := s.MarshalJSON()
    if err != nil { return err }
    return json.Unmarshal(b, v)
}

func toStruct(v any) (*structpb.Struct, error) {
    b, err := json.Marshal(v)
    if err != nil { return nil, err }
    var m map[string]any
    if err := json.Unmarshal(b, &m); err != nil { return nil, err }
    return structpb.NewStruct(m)
}
