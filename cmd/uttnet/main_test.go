package main

import (
    "bytes"
    "context"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "go.uber.org/zap"

    "uttnet/pkg/session"
    "uttnet/pkg/transport/mem"
)

func TestParseCommand(t *testing.T) {
    c, err := parseCommand("play 4 7")
    if err != nil || c.op != opPlay || c.macro != 4 || c.micro != 7 { t.Fatalf("play = %+v %v", c, err) }
    c, err = parseCommand("cursor 10.5 -3")
    if err != nil || c.op != opCursor || c.x != 10.5 || c.y != -3 { t.Fatalf("cursor = %+v %v", c, err) }
    if c, _ := parseCommand("Q"); c.op != opQuit { t.Fatalf("quit alias") }
    if c, err := parseCommand("click 60 60"); err != nil || c.op != opClick { t.Fatalf("click = %+v %v", c, err) }
    for _, bad := range []string{"", "play 1", "play a b", "cursor x 1", "fly"} {
        if _, err := parseCommand(bad); err == nil { t.Fatalf("%q accepted", bad) }
    }
}

func TestGoldenPayloads(t *testing.T) {
    gs, err := goldenPayloads()
    if err != nil { t.Fatalf("golden: %v", err) }
    want := map[string][]byte{
        "marker":     {0x05},
        "make_play":  {0x8B, 0x0E},
        "reset_game": {0x13},
    }
    for _, g := range gs {
        if w, ok := want[g.name]; ok && !bytes.Equal(g.body, w) { t.Fatalf("%s = %x, want %x", g.name, g.body, w) }
        if g.name == "sync_player" && len(g.body) != 9 { t.Fatalf("sync_player is %d bytes", len(g.body)) }
    }

    dir := t.TempDir()
    var out bytes.Buffer
    if err := writeFrames(&out, dir); err != nil { t.Fatalf("write: %v", err) }
    b, err := os.ReadFile(filepath.Join(dir, "make_play.frame.bin"))
    if err != nil { t.Fatalf("read: %v", err) }
    if !bytes.Equal(b, []byte{0, 0, 0, 0, 0, 0x8B, 0x0E}) { t.Fatalf("frame = %x", b) }
}

func TestLoopAppliesCommandsAndQuits(t *testing.T) {
    node := session.NewNode(context.Background(), session.Options{Transport: mem.New(), ListenAddr: "solo", Logger: zap.NewNop()})
    if err := node.Host(); err != nil { t.Fatalf("host: %v", err) }
    defer node.Stop()

    lines := make(chan string, 5)
    lines <- "click 10 10"
    lines <- "cursor 5 6"
    lines <- "play 0 0"
    lines <- "board"
    lines <- "quit"
    var out bytes.Buffer
    done := make(chan error, 1)
    go func() { done <- loop(context.Background(), node, time.Millisecond, lines, &out) }()
    select {
    case err := <-done:
        if err != nil { t.Fatalf("loop: %v", err) }
    case <-time.After(3 * time.Second):
        t.Fatalf("loop did not quit")
    }
    if node.Pointer() != (session.Point{X: 5, Y: 6}) { t.Fatalf("pointer = %v", node.Pointer()) }
    s := out.String()
    if !strings.Contains(s, "handshake not complete") || !strings.Contains(s, "role=host") || !strings.Contains(s, "off the board") { t.Fatalf("output:\n%s", s) }
}

func TestVersionShort(t *testing.T) {
    cmd := rootCmd()
    var out bytes.Buffer
    cmd.SetOut(&out)
    cmd.SetArgs([]string{"version", "--short"})
    if err := cmd.Execute(); err != nil { t.Fatalf("execute: %v", err) }
    if strings.TrimSpace(out.String()) != version { t.Fatalf("version = %q", out.String()) }
}
