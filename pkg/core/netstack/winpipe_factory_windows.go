//go:build windows

package netstack

import (
    "uttnet/pkg/transport"
    "uttnet/pkg/transport/winpipe"
)

func newWinPipeTransport() (transport.Transport, error) { return winpipe.New(), nil }

