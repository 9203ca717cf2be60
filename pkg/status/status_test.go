package status

import (
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/gorilla/websocket"
    "github.com/prometheus/client_golang/prometheus"

    "uttnet/pkg/game"
    "uttnet/pkg/observability"
    "uttnet/pkg/protocol/codec"
)

func newTestServer(t *testing.T) (*Hub, *httptest.Server) {
    t.Helper()
    codecs, err := codec.NewRegistry()
    if err != nil { t.Fatalf("codecs: %v", err) }
    reg := prometheus.NewRegistry()
    m := observability.NewMetrics(reg, "uttnet")
    m.Rejected()
    hub := NewHub()
    srv := httptest.NewServer(NewRouter(hub, codecs, reg))
    t.Cleanup(srv.Close)
    return hub, srv
}

func sampleStatus() Status {
    b := game.NewBoard()
    _ = b.MakePlay(4, 4)
    return Status{Role: "host", Ready: true, Board: b.Snapshot()}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
    t.Helper()
    resp, err := http.Get(url)
    if err != nil { t.Fatalf("get %s: %v", url, err) }
    defer resp.Body.Close()
    body, _ := io.ReadAll(resp.Body)
    return resp, body
}

func TestHealthz(t *testing.T) {
    _, srv := newTestServer(t)
    resp, body := get(t, srv.URL+"/healthz")
    if resp.StatusCode != http.StatusOK || string(body) != "ok" { t.Fatalf("healthz = %d %q", resp.StatusCode, body) }
}

func TestStateFormats(t *testing.T) {
    hub, srv := newTestServer(t)
    want := sampleStatus()
    hub.Publish(want)

    codecs, _ := codec.NewRegistry()
    for _, f := range []codec.Format{codec.FormatJSON, codec.FormatCBOR, codec.FormatProto} {
        resp, body := get(t, srv.URL+"/state?format="+f.String())
        if resp.StatusCode != http.StatusOK { t.Fatalf("%s: status %d", f, resp.StatusCode) }
        if ct := resp.Header.Get("Content-Type"); ct != f.ContentType() { t.Fatalf("%s: content type %q", f, ct) }
        c, _ := codecs.For(f)
        var got Status
        if err := c.Unmarshal(body, &got); err != nil { t.Fatalf("%s: decode: %v", f, err) }
        if got != want { t.Fatalf("%s: got %+v", f, got) }
    }

    resp, _ := get(t, srv.URL+"/state?format=xml")
    if resp.StatusCode != http.StatusBadRequest { t.Fatalf("bad format status = %d", resp.StatusCode) }
}

func TestMetricsEndpoint(t *testing.T) {
    _, srv := newTestServer(t)
    _, body := get(t, srv.URL+"/metrics")
    if !strings.Contains(string(body), "uttnet_connections_rejected_total 1") { t.Fatalf("metrics body:\n%s", body) }
}

func TestWebsocketFeed(t *testing.T) {
    hub, srv := newTestServer(t)
    url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
    conn, _, err := websocket.DefaultDialer.Dial(url, nil)
    if err != nil { t.Fatalf("dial: %v", err) }
    defer conn.Close()
    _ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

    var first Status
    if err := conn.ReadJSON(&first); err != nil { t.Fatalf("first: %v", err) }
    if first.Role != "idle" { t.Fatalf("initial role = %q", first.Role) }

    want := sampleStatus()
    hub.Publish(want)
    var next Status
    if err := conn.ReadJSON(&next); err != nil { t.Fatalf("next: %v", err) }
    if next != want { t.Fatalf("pushed %+v", next) }
}

func TestHubKeepsOnlyLatest(t *testing.T) {
    h := NewHub()
    ch := h.Subscribe()
    h.Publish(Status{Role: "host"})
    h.Publish(Status{Role: "joined"})
    if s := <-ch; s.Role != "joined" { t.Fatalf("got %q", s.Role) }
    select {
    case s := <-ch:
        t.Fatalf("unexpected extra status %+v", s)
    default:
    }
    h.Unsubscribe(ch)
    if h.Subscribers() != 0 { t.Fatalf("subscription leaked") }
    b, _ := json.Marshal(h.Latest())
    if !strings.Contains(string(b), `"role":"joined"`) { t.Fatalf("latest = %s", b) }
}
