package protocol

import (
    "errors"
    "fmt"

    "uttnet/pkg/bitpack"
)

var (
    ErrUnknownKind = errors.New("protocol: unknown packet kind")
    ErrTruncated   = errors.New("protocol: truncated packet")
    ErrOutOfRange  = errors.New("protocol: field out of range")
    ErrMarker      = errors.New("protocol: payload is a handshake marker")
)

// Packet is one decoded message. Both roles share the same set.
type Packet interface {
    Kind() Kind
    Validate() error
    encode(w *bitpack.Writer)
}

// SyncPlayer carries the sender's pointer position as raw float32s.
type SyncPlayer struct {
    X, Y float32
}

func (SyncPlayer) Kind() Kind        { return KindSyncPlayer }
func (SyncPlayer) Validate() error   { return nil }
func (p SyncPlayer) encode(w *bitpack.Writer) {
    w.PutFloat32(p.X)
    w.PutFloat32(p.Y)
}

// MakePlay places the current mark in micro cell Micro of macro board Macro.
type MakePlay struct {
    Macro, Micro int
}

func (MakePlay) Kind() Kind { return KindMakePlay }

func (p MakePlay) Validate() error {
    if p.Macro < 0 || p.Macro > CellMax || p.Micro < 0 || p.Micro > CellMax {
        return fmt.Errorf("%w: make_play(%d,%d)", ErrOutOfRange, p.Macro, p.Micro)
    }
    return nil
}

func (p MakePlay) encode(w *bitpack.Writer) {
    w.PutRange(p.Macro, 0, CellMax)
    w.PutRange(p.Micro, 0, CellMax)
}

// ResetGame clears the board on the receiving side. It has no fields.
type ResetGame struct{}

func (ResetGame) Kind() Kind                { return KindResetGame }
func (ResetGame) Validate() error           { return nil }
func (ResetGame) encode(_ *bitpack.Writer) {}
