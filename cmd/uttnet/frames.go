package main

import (
    "encoding/hex"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"

    "github.com/spf13/cobra"

    "uttnet/pkg/protocol"
    "uttnet/pkg/transport"
)

func framesCmd() *cobra.Command {
    var outDir string
    cmd := &cobra.Command{
        Use:   "frames",
        Short: "Write golden payloads for every packet kind",
        RunE: func(cmd *cobra.Command, args []string) error {
            return writeFrames(cmd.OutOrStdout(), outDir)
        },
    }
    cmd.Flags().StringVar(&outDir, "out", "testdata/frames", "output directory for binary payloads")
    return cmd
}

type golden struct {
    name  string
    route protocol.Route
    body  []byte
}

func goldenPayloads() ([]golden, error) {
    reg := protocol.NewRegistry()
    out := []golden{{name: "marker", route: protocol.MarkerRoute, body: append([]byte(nil), reg.Marker()...)}}
    for _, p := range []protocol.Packet{
        protocol.SyncPlayer{X: 320.5, Y: 240.25},
        protocol.MakePlay{Macro: 4, Micro: 7},
        protocol.ResetGame{},
    } {
        b, err := reg.Marshal(p)
        if err != nil { return nil, err }
        out = append(out, golden{name: p.Kind().String(), route: protocol.RouteFor(p.Kind()), body: append([]byte(nil), b...)})
    }
    return out, nil
}

// writeFrames writes each payload alone (.bin) and inside a transport frame
// (.frame.bin).
func writeFrames(w io.Writer, dir string) error {
    if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    gs, err := goldenPayloads()
    if err != nil { return err }
    for _, g := range gs {
        if err := writeOut(w, dir, g.name+".bin", g.body); err != nil { return err }
        f := transport.Frame{Type: transport.FrameData, Channel: g.route.Channel, Delivery: g.route.Delivery, Data: g.body}
        if err := writeOut(w, dir, g.name+".frame.bin", transport.MarshalFrame(f)); err != nil { return err }
    }
    fmt.Fprintln(w, "Generated payloads in", dir)
    return nil
}

func writeOut(w io.Writer, dir, name string, b []byte) error {
    p := filepath.Join(dir, name)
    if err := os.WriteFile(p, b, 0o644); err != nil { return err }
    fmt.Fprintf(w, "%-24s %3d bytes  %s\n", name, len(b), shortHex(b, 32))
    return nil
}

func shortHex(b []byte, n int) string {
    if len(b) == 0 { return "" }
    if n > len(b) { n = len(b) }
    enc := hex.EncodeToString(b[:n])
    if len(b) > n { enc += "..." }
    var out []string
    for i := 0; i < len(enc); i += 4 {
        j := i + 4
        if j > len(enc) { j = len(enc) }
        out = append(out, enc[i:j])
    }
    return strings.Join(out, " ")
}
