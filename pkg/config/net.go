package config

import (
    "fmt"
    "net"
    "strconv"
    "strings"
    "time"
)

// NetConfig describes how the session reaches its peer.
// Example YAML:
// net:
//   transport: quic
//   host_ip: "192.168.1.20"
//   port: 6121
//   sync_hz: 60
//   failover: true
type NetConfig struct {
    // Transport kind: tcp, quic, mem or winpipe
    Transport string `mapstructure:"transport"`
    // HostIP is the address Join dials when none is given
    HostIP string `mapstructure:"host_ip"`
    // Port is used for both hosting and joining on ip transports
    Port int `mapstructure:"port"`
    // Listen overrides the hosting address (pipe name for winpipe, name for mem)
    Listen string `mapstructure:"listen"`
    // SyncHz is the pointer stream rate
    SyncHz int `mapstructure:"sync_hz"`
    // Failover makes a joined node host when its host goes away
    Failover bool `mapstructure:"failover"`
    ConnectTimeoutMS int `mapstructure:"connect_timeout_ms"`
}

const (
    defaultPipe    = `\\.\pipe\uttnet`
    defaultMemName = "uttnet"
)

// ListenAddr is where a hosting node listens.
func (n NetConfig) ListenAddr() string {
    if strings.TrimSpace(n.Listen) != "" { return n.Listen }
    switch n.Transport {
    case "winpipe":
        return defaultPipe
    case "mem":
        return defaultMemName
    default:
        return ":" + strconv.Itoa(n.Port)
    }
}

// HostAddr is the default address a joining node dials.
func (n NetConfig) HostAddr() string {
    switch n.Transport {
    case "winpipe":
        return n.ListenAddr()
    case "mem":
        return n.ListenAddr()
    default:
        return net.JoinHostPort(n.HostIP, strconv.Itoa(n.Port))
    }
}

// SyncInterval is the period between pointer updates.
func (n NetConfig) SyncInterval() time.Duration {
    if n.SyncHz <= 0 { return 0 }
    return time.Second / time.Duration(n.SyncHz)
}

func (n NetConfig) ConnectTimeout() time.Duration {
    return time.Duration(n.ConnectTimeoutMS) * time.Millisecond
}

func (n *NetConfig) validate() error {
    n.Transport = strings.ToLower(strings.TrimSpace(n.Transport))
    if n.Transport == "" { n.Transport = "tcp" }
    switch n.Transport {
    case "tcp", "quic", "mem", "winpipe":
    default:
        return fmt.Errorf("invalid net.transport: %q", n.Transport)
    }
    if n.Port <= 0 || n.Port > 65535 { return fmt.Errorf("invalid net.port: %d", n.Port) }
    if strings.TrimSpace(n.HostIP) == "" { n.HostIP = "127.0.0.1" }
    if n.SyncHz <= 0 || n.SyncHz > 1000 { return fmt.Errorf("invalid net.sync_hz: %d", n.SyncHz) }
    if n.ConnectTimeoutMS <= 0 { n.ConnectTimeoutMS = 5000 }
    return nil
}
