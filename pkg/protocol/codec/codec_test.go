package codec

import (
    "bytes"
    "testing"

    "google.golang.org/protobuf/types/known/structpb"
)

type board struct {
    Role  string `json:"role" cbor:"role"`
    Turn  string `json:"turn" cbor:"turn"`
    Cells []int  `json:"cells" cbor:"cells"`
}

func sample() board { return board{Role: "host", Turn: "X", Cells: []int{0, 1, 2}} }

func TestRegistryRoundtrip(t *testing.T) {
    reg, err := NewRegistry()
    if err != nil { t.Fatalf("registry: %v", err) }
    for _, f := range []Format{FormatJSON, FormatCBOR, FormatProto} {
        c, err := reg.For(f)
        if err != nil { t.Fatalf("%s: %v", f, err) }
        if c.ContentType() != f.ContentType() { t.Fatalf("%s: content type %s", f, c.ContentType()) }
        b, err := c.Marshal(sample())
        if err != nil { t.Fatalf("%s marshal: %v", f, err) }
        var out board
        if err := c.Unmarshal(b, &out); err != nil { t.Fatalf("%s unmarshal: %v", f, err) }
        if out.Role != "host" || out.Turn != "X" || len(out.Cells) != 3 || out.Cells[2] != 2 {
            t.Fatalf("%s roundtrip mismatch: %#v", f, out)
        }
    }
}

func TestCBORDeterministic(t *testing.T) {
    c, err := CBOR()
    if err != nil { t.Fatalf("new cbor: %v", err) }
    a, _ := c.Marshal(map[string]any{"b": 1, "a": 2})
    b, _ := c.Marshal(map[string]any{"a": 2, "b": 1})
    if !bytes.Equal(a, b) { t.Fatalf("map key order leaked into encoding") }
    var out any
    if err := c.Unmarshal(a, &out); err != nil { t.Fatalf("unmarshal: %v", err) }
    if _, ok := out.(map[string]any); !ok { t.Fatalf("decoded map type %T", out) }
}

func TestProtoCodecMessage(t *testing.T) {
    c := Proto()
    s, err := structpb.NewStruct(map[string]any{"k": "v"})
    if err != nil { t.Fatalf("struct: %v", err) }
    b, err := c.Marshal(s)
    if err != nil { t.Fatalf("marshal: %v", err) }
    var out structpb.Struct
    if err := c.Unmarshal(b, &out); err != nil { t.Fatalf("unmarshal: %v", err) }
    if out.Fields["k"].GetStringValue() != "v" { t.Fatalf("roundtrip mismatch") }
}

func TestParseFormat(t *testing.T) {
    cases := map[string]Format{"": FormatJSON, "JSON": FormatJSON, "cbor": FormatCBOR, "pb": FormatProto, ContentProto: FormatProto}
    for in, want := range cases {
        got, err := ParseFormat(in)
        if err != nil || got != want { t.Fatalf("ParseFormat(%q) = %s, %v", in, got, err) }
    }
    if _, err := ParseFormat("xml"); err == nil { t.Fatalf("xml should be rejected") }
}
