package observability

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts session traffic. A nil *Metrics is valid and records nothing.
type Metrics struct {
    sent        *prometheus.CounterVec
    received    *prometheus.CounterVec
    dropped     *prometheus.CounterVec
    rejected    prometheus.Counter
    transitions *prometheus.CounterVec
    role        *prometheus.GaugeVec
}

// NewMetrics registers the session metrics on reg under namespace.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
    if namespace == "" { namespace = "uttnet" }
    f := promauto.With(reg)
    return &Metrics{
        sent: f.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace, Name: "packets_sent_total",
            Help: "Packets sent, by kind and channel.",
        }, []string{"kind", "channel"}),
        received: f.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace, Name: "packets_received_total",
            Help: "Packets received and applied, by kind and channel.",
        }, []string{"kind", "channel"}),
        dropped: f.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace, Name: "packets_dropped_total",
            Help: "Inbound packets discarded, by reason.",
        }, []string{"reason"}),
        rejected: f.NewCounter(prometheus.CounterOpts{
            Namespace: namespace, Name: "connections_rejected_total",
            Help: "Inbound connections refused because a peer was already present.",
        }),
        transitions: f.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace, Name: "role_transitions_total",
            Help: "Session role changes.",
        }, []string{"from", "to"}),
        role: f.NewGaugeVec(prometheus.GaugeOpts{
            Namespace: namespace, Name: "role",
            Help: "1 for the current session role.",
        }, []string{"role"}),
    }
}

func (m *Metrics) Sent(kind, channel string) {
    if m == nil { return }
    m.sent.WithLabelValues(kind, channel).Inc()
}

func (m *Metrics) Received(kind, channel string) {
    if m == nil { return }
    m.received.WithLabelValues(kind, channel).Inc()
}

func (m *Metrics) Dropped(reason string) {
    if m == nil { return }
    m.dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) Rejected() {
    if m == nil { return }
    m.rejected.Inc()
}

// Transition records a role change and moves the role gauge.
func (m *Metrics) Transition(from, to string) {
    if m == nil { return }
    m.transitions.WithLabelValues(from, to).Inc()
    m.role.WithLabelValues(from).Set(0)
    m.role.WithLabelValues(to).Set(1)
}
