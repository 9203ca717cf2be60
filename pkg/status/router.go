package status

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/gorilla/websocket"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/zap"

    "uttnet/pkg/protocol/codec"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
    ReadBufferSize:  1024,
    WriteBufferSize: 1024,
    // spectators may be served from anywhere
    CheckOrigin: func(r *http.Request) bool { return true },
}

// NewRouter wires the status routes. A nil gatherer leaves /metrics out.
func NewRouter(hub *Hub, codecs *codec.Registry, gatherer prometheus.Gatherer) http.Handler {
    r := chi.NewRouter()
    r.Use(middleware.Recoverer)
    r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
        w.Header().Set("Content-Type", "text/plain; charset=utf-8")
        _, _ = w.Write([]byte("ok"))
    })
    r.Get("/state", stateHandler(hub, codecs))
    if gatherer != nil {
        r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
    }
    r.Get("/ws", wsHandler(hub))
    return r
}

func stateHandler(hub *Hub, codecs *codec.Registry) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        f, err := codec.ParseFormat(r.URL.Query().Get("format"))
        if err != nil {
            http.Error(w, err.Error(), http.StatusBadRequest)
            return
        }
        c, err := codecs.For(f)
        if err != nil {
            http.Error(w, err.Error(), http.StatusNotAcceptable)
            return
        }
        b, err := c.Marshal(hub.Latest())
        if err != nil {
            zap.L().Warn("status encode", zap.Stringer("format", f), zap.Error(err))
            http.Error(w, "encode failed", http.StatusInternalServerError)
            return
        }
        w.Header().Set("Content-Type", c.ContentType())
        _, _ = w.Write(b)
    }
}

func wsHandler(hub *Hub) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        conn, err := upgrader.Upgrade(w, r, nil)
        if err != nil { return }
        defer conn.Close()

        sub := hub.Subscribe()
        defer hub.Unsubscribe(sub)

        // reads only detect the client going away
        gone := make(chan struct{})
        go func() {
            defer close(gone)
            for {
                if _, _, err := conn.ReadMessage(); err != nil { return }
            }
        }()

        for {
            select {
            case <-gone:
                return
            case <-r.Context().Done():
                return
            case s := <-sub:
                _ = conn.SetWriteDeadline(time.Now().Add(writeWait))
                if err := conn.WriteJSON(s); err != nil {
                    zap.L().Debug("ws write", zap.Error(err))
                    return
                }
            }
        }
    }
}
