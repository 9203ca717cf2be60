// Package protocol defines the packet kinds exchanged between the two
// session endpoints, the per-kind writers that encode them and the decoder
// that dispatches inbound payloads.
//
// Every packet is a bitpack buffer whose first TagBits payload bits carry the
// Kind. A buffer with no payload bits at all is the handshake marker.
package protocol

import (
    "fmt"

    "uttnet/pkg/bitpack"
)

// Kind tags a packet. The set is closed; values above MaxKind are rejected.
type Kind uint8

const (
    KindSyncPlayer Kind = iota // pointer position, streamed
    KindMakePlay               // one move on the board
    KindResetGame              // start over

    MaxKind = KindResetGame
)

// TagBits is the width of the kind tag at the head of every packet.
var TagBits = bitpack.BitsToHoldRange(0, int(MaxKind))

// CellMax is the largest macro or micro cell index.
const CellMax = 8

func (k Kind) String() string {
    switch k {
    case KindSyncPlayer:
        return "sync_player"
    case KindMakePlay:
        return "make_play"
    case KindResetGame:
        return "reset_game"
    default:
        return fmt.Sprintf("kind(%d)", uint8(k))
    }
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k <= MaxKind }
