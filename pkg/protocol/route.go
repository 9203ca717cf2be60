package protocol

import "uttnet/pkg/transport"

// Channels used by the session.
const (
    ChannelGameplay byte = 0 // moves, resets and handshake markers
    ChannelCursor   byte = 1 // pointer stream
)

// Route is where a packet kind travels.
type Route struct {
    Channel  byte
    Delivery transport.Delivery
}

// MarkerRoute is the route of handshake markers and acks.
var MarkerRoute = Route{Channel: ChannelGameplay, Delivery: transport.ReliableOrdered}

// RouteFor returns the channel and delivery mode for k.
func RouteFor(k Kind) Route {
    if k == KindSyncPlayer {
        return Route{Channel: ChannelCursor, Delivery: transport.Sequenced}
    }
    return Route{Channel: ChannelGameplay, Delivery: transport.ReliableOrdered}
}
