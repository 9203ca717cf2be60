// Package session runs one side of a two-player game over a transport.
// A Node is Idle, hosting (HostEndpoint) or joined to a host
// (JoinedEndpoint). Everything happens on the goroutine that calls
// PollEvents; the transport's background goroutines only queue events.
package session

import "uttnet/pkg/game"

// Role is what the local process is doing in the session.
type Role int

const (
    Idle Role = iota
    Host
    Joined
)

func (r Role) String() string {
    switch r {
    case Host:
        return "host"
    case Joined:
        return "joined"
    default:
        return "idle"
    }
}

// Mark is the side the role plays. The host always plays X.
func (r Role) Mark() game.Mark {
    switch r {
    case Host:
        return game.X
    case Joined:
        return game.O
    default:
        return game.None
    }
}
