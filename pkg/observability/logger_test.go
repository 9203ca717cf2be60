package observability

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    "go.uber.org/zap"

    "uttnet/pkg/config"
)

func TestSetupLoggerWritesFile(t *testing.T) {
    dir := t.TempDir()
    out := filepath.Join(dir, "logs", "node.log")
    c := config.LogConfig{Level: "debug", Format: "json", Outputs: []string{out}}
    logger, err := SetupLogger("uttnet-test", c)
    if err != nil { t.Fatalf("setup: %v", err) }
    defer zap.ReplaceGlobals(zap.NewNop())
    zap.L().Debug("hello", zap.String("k", "v"))
    _ = logger.Sync()
    b, err := os.ReadFile(out)
    if err != nil { t.Fatalf("read: %v", err) }
    s := string(b)
    if !strings.Contains(s, `"msg":"hello"`) || !strings.Contains(s, `"app":"uttnet-test"`) { t.Fatalf("log line = %s", s) }
}

func TestParseLevel(t *testing.T) {
    if parseLevel("WARNING") != zap.WarnLevel || parseLevel("bogus") != zap.InfoLevel { t.Fatalf("level parsing") }
}
