package netstack

import (
    "errors"
    "runtime"
    "testing"

    "uttnet/pkg/transport"
)

func TestNewByKind(t *testing.T) {
    cases := map[string]transport.Kind{"tcp": transport.KindTCP, "QUIC": transport.KindQUIC, " mem ": transport.KindMem, "": transport.KindTCP}
    for name, want := range cases {
        tr, err := NewByKind(name)
        if err != nil { t.Fatalf("%q: %v", name, err) }
        if tr.Kind() != want { t.Fatalf("%q: kind = %s", name, tr.Kind()) }
    }
    if a, _ := NewByKind("mem"); a != transport.Transport(mustMem(t)) { t.Fatalf("mem transport should be shared") }
}

func mustMem(t *testing.T) transport.Transport {
    tr, err := NewByKind("inproc")
    if err != nil { t.Fatalf("inproc: %v", err) }
    return tr
}

func TestNewByKindUnknown(t *testing.T) {
    _, err := NewByKind("carrier-pigeon")
    var unk ErrUnknownKind
    if !errors.As(err, &unk) || string(unk) != "carrier-pigeon" { t.Fatalf("err = %v", err) }
}

func TestWinPipeAvailability(t *testing.T) {
    _, err := NewByKind("winpipe")
    if runtime.GOOS == "windows" && err != nil { t.Fatalf("winpipe on windows: %v", err) }
    if runtime.GOOS != "windows" && err == nil { t.Fatalf("winpipe should be unavailable on %s", runtime.GOOS) }
}
