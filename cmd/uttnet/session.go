package main

import (
    "context"
    "errors"
    "fmt"
    "io"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/spf13/cobra"
    "go.uber.org/zap"

    "uttnet/pkg/config"
    netstack "uttnet/pkg/core/netstack"
    "uttnet/pkg/game"
    "uttnet/pkg/observability"
    "uttnet/pkg/protocol/codec"
    "uttnet/pkg/session"
    "uttnet/pkg/status"
)

func hostCmd(configPath *string) *cobra.Command {
    return &cobra.Command{
        Use:   "host",
        Short: "Host a session and wait for one opponent",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            return runSession(cmd.Context(), *configPath, "", cmd.InOrStdin(), cmd.OutOrStdout())
        },
    }
}

func joinCmd(configPath *string) *cobra.Command {
    return &cobra.Command{
        Use:   "join [addr]",
        Short: "Join a hosted session (default net.host_ip:net.port)",
        Args:  cobra.MaximumNArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            addr := ""
            if len(args) == 1 { addr = args[0] }
            if addr == "" { addr = "-" }
            return runSession(cmd.Context(), *configPath, addr, cmd.InOrStdin(), cmd.OutOrStdout())
        },
    }
}

// runSession hosts when joinAddr is empty and joins otherwise; "-" joins the
// configured host address.
func runSession(parent context.Context, configPath, joinAddr string, in io.Reader, out io.Writer) error {
    cfg, err := config.Load(configPath)
    if err != nil { return fmt.Errorf("load config: %w", err) }
    logger, err := observability.SetupLogger(cfg.AppName, cfg.Log)
    if err != nil { return fmt.Errorf("setup logger: %w", err) }
    defer func() { _ = logger.Sync() }()
    zap.L().Info("effective configuration", zap.Any("config", cfg))

    tr, err := netstack.NewByKind(cfg.Net.Transport)
    if err != nil { return err }

    if parent == nil { parent = context.Background() }
    ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
    defer stop()

    reg := prometheus.NewRegistry()
    reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    metrics := observability.NewMetrics(reg, "uttnet")

    node := session.NewNode(ctx, session.Options{
        Transport:      tr,
        ListenAddr:     cfg.Net.ListenAddr(),
        Failover:       cfg.Net.Failover,
        SyncInterval:   cfg.Net.SyncInterval(),
        ConnectTimeout: cfg.Net.ConnectTimeout(),
        Logger:         logger,
        Metrics:        metrics,
    })
    defer node.Stop()

    hub := status.NewHub()
    node.OnChange(func(s game.Snapshot) {
        hub.Publish(status.Status{Role: node.Role().String(), Ready: node.Ready(), Board: s})
        printBoard(out, node)
    })

    if cfg.Status.Enable {
        codecs, err := codec.NewRegistry()
        if err != nil { return err }
        srv := status.NewServer(status.NewRouter(hub, codecs, reg))
        if err := srv.Start(cfg.Status.Listen); err != nil { return fmt.Errorf("status server: %w", err) }
        defer func() {
            sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
            defer cancel()
            _ = srv.Shutdown(sctx)
        }()
    }

    switch joinAddr {
    case "":
        err = node.Host()
    case "-":
        err = node.Join(cfg.Net.HostAddr())
    default:
        err = node.Join(joinAddr)
    }
    if err != nil { return err }

    lines := make(chan string)
    go readLines(in, lines)
    return loop(ctx, node, cfg.Net.SyncInterval(), lines, out)
}

// loop keeps all session work on one goroutine: stdin commands are applied
// between ticks.
func loop(ctx context.Context, node *session.Node, interval time.Duration, lines <-chan string, out io.Writer) error {
    if interval <= 0 { interval = session.DefaultSyncInterval }
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    last := time.Now()
    for {
        select {
        case <-ctx.Done():
            return nil
        case line, ok := <-lines:
            if !ok {
                lines = nil
                continue
            }
            cmd, err := parseCommand(line)
            if err != nil {
                fmt.Fprintln(out, err)
                continue
            }
            if cmd.op == opQuit { return nil }
            if err := apply(node, cmd, out); err != nil { fmt.Fprintln(out, err) }
        case now := <-ticker.C:
            node.PollEvents(now.Sub(last))
            last = now
        }
    }
}

func apply(node *session.Node, cmd command, out io.Writer) error {
    switch cmd.op {
    case opPlay:
        err := node.Play(cmd.macro, cmd.micro)
        if errors.Is(err, session.ErrNotYourTurn) {
            return fmt.Errorf("not your turn (you play %s)", node.Role().Mark())
        }
        return err
    case opReset:
        return node.ResetGame()
    case opCursor:
        node.SetPointer(cmd.x, cmd.y)
    case opClick:
        node.SetPointer(cmd.x, cmd.y)
        macro, micro, ok := game.DefaultLayout.CellAt(cmd.x, cmd.y)
        if !ok { return fmt.Errorf("(%g, %g) is off the board", cmd.x, cmd.y) }
        return apply(node, command{op: opPlay, macro: macro, micro: micro}, out)
    case opBoard:
        printBoard(out, node)
    }
    return nil
}

func printBoard(out io.Writer, node *session.Node) {
    b := node.Board()
    fmt.Fprintf(out, "\n%s\nrole=%s you=%s turn=%s forced=%d winner=%s\n",
        b, node.Role(), node.Role().Mark(), b.Turn(), b.Forced(), b.Winner())
}
