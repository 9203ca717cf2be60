// Package netstack builds transports from their configured names.
package netstack

import (
    "strings"

    "uttnet/pkg/transport"
    "uttnet/pkg/transport/mem"
    tquic "uttnet/pkg/transport/quic"
    ttcp "uttnet/pkg/transport/tcp"
)

// NewByKind constructs a Transport by string kind.
func NewByKind(kind string) (transport.Transport, error) {
    switch strings.ToLower(strings.TrimSpace(kind)) {
    case "tcp", "":
        return ttcp.New(), nil
    case "quic":
        return tquic.New(), nil
    case "mem", "inproc":
        return mem.Shared(), nil
    case "winpipe", "pipe":
        return newWinPipeTransport()
    default:
        return nil, ErrUnknownKind(kind)
    }
}

// Kinds lists the names NewByKind accepts.
func Kinds() []string { return []string{"tcp", "quic", "mem", "winpipe"} }

// ErrUnknownKind is returned for transport names NewByKind does not know.
type ErrUnknownKind string

func (e ErrUnknownKind) Error() string { return "unknown transport kind: " + string(e) }
