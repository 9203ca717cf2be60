package config

// StatusConfig controls the HTTP status surface (health, metrics, board
// snapshots and the spectator websocket).
type StatusConfig struct {
    Enable bool   `mapstructure:"enable"`
    Listen string `mapstructure:"listen"`
}
