package main

import (
    "fmt"
    "os"

    "github.com/spf13/cobra"
)

// Version information set at build time.
var (
    version = "dev"
    commit  = "none"
    date    = "unknown"
)

func main() {
    if err := rootCmd().Execute(); err != nil {
        fmt.Fprintf(os.Stderr, "Error: %s\n", err)
        os.Exit(1)
    }
}

func rootCmd() *cobra.Command {
    var configPath string
    root := &cobra.Command{
        Use:   "uttnet",
        Short: "Two-player ultimate tic-tac-toe over the network",
        Long: `uttnet hosts or joins a two-player ultimate tic-tac-toe session.

The host plays X and the joined side plays O. If the host goes away the
joined side takes over as host on its own listen address.

Examples:
  uttnet host
  uttnet join 192.168.1.20:6121
  uttnet frames --out testdata/frames`,
        SilenceUsage:  true,
        SilenceErrors: true,
    }
    root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
    root.AddCommand(
        hostCmd(&configPath),
        joinCmd(&configPath),
        framesCmd(),
        versionCmd(),
    )
    return root
}
