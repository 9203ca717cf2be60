package transport

import (
    "fmt"
    "net"
)

// TempPeerID builds a peer id from transport kind and remote address.
func TempPeerID(kind Kind, addr net.Addr) PeerID {
    if addr == nil { return PeerID(fmt.Sprintf("temp:%s:unknown", kind)) }
    return PeerID(fmt.Sprintf("temp:%s:%s", kind, addr.String()))
}
