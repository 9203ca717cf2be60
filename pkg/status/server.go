package status

import (
    "context"
    "errors"
    "net"
    "net/http"
    "time"

    "go.uber.org/zap"
)

// Server runs the status router on its own listener.
type Server struct {
    srv *http.Server
    ln  net.Listener
}

func NewServer(h http.Handler) *Server {
    return &Server{srv: &http.Server{Handler: h, ReadHeaderTimeout: 5 * time.Second}}
}

// Start binds addr and serves in the background.
func (s *Server) Start(addr string) error {
    ln, err := net.Listen("tcp", addr)
    if err != nil { return err }
    s.ln = ln
    go func() {
        if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
            zap.L().Error("status server", zap.Error(err))
        }
    }()
    zap.L().Info("status server listening", zap.String("addr", ln.Addr().String()))
    return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
    if s.ln == nil { return "" }
    return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
