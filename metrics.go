package rendez

import "github.com/prometheus/client_golang/prometheus"

// Metrics mirrors the queue's internal length hints and per-outcome
// counters onto Prometheus collectors, giving the "length hints as
// atomic sidebands" bookkeeping (see the Queue type doc) an external
// consumer instead of being purely internal.
//
// A Metrics value is safe for concurrent use: every method it exposes
// to Queue is a direct Set/Inc on a prometheus.Gauge/Counter, both of
// which are already safe for concurrent use.
type Metrics struct {
	sendersLen   prometheus.Gauge
	receiversLen prometheus.Gauge

	handoffs      prometheus.Counter
	full          prometheus.Counter
	empty         prometheus.Counter
	timeouts      prometheus.Counter
	disconnecteds prometheus.Counter
}

// NewMetrics constructs a Metrics and registers its collectors on reg
// under the given name prefix. Pass a fresh *prometheus.Registry (or
// prometheus.NewRegistry()) if the caller doesn't want these merged
// into the default global registry.
func NewMetrics(reg *prometheus.Registry, name string) *Metrics {
	m := &Metrics{
		sendersLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: name + "_senders_waiting",
			Help: "Number of senders currently blocked waiting for a receiver.",
		}),
		receiversLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: name + "_receivers_waiting",
			Help: "Number of receivers currently blocked waiting for a sender.",
		}),
		handoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_handoffs_total",
			Help: "Total number of values successfully handed off.",
		}),
		full: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_full_total",
			Help: "Total number of TrySend calls that found no receiver waiting.",
		}),
		empty: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_empty_total",
			Help: "Total number of TryRecv calls that found no sender waiting.",
		}),
		timeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_timeouts_total",
			Help: "Total number of blocking calls that gave up unpaired on a deadline or a done context.",
		}),
		disconnecteds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: name + "_disconnected_total",
			Help: "Total number of calls that observed the channel closed.",
		}),
	}
	reg.MustRegister(
		m.sendersLen, m.receiversLen,
		m.handoffs, m.full, m.empty, m.timeouts, m.disconnecteds,
	)
	return m
}

func (m *Metrics) setLens(senders, receivers int) {
	if m == nil {
		return
	}
	m.sendersLen.Set(float64(senders))
	m.receiversLen.Set(float64(receivers))
}

func (m *Metrics) observeHandoff() {
	if m == nil {
		return
	}
	m.handoffs.Inc()
}

func (m *Metrics) observeFull() {
	if m == nil {
		return
	}
	m.full.Inc()
}

func (m *Metrics) observeEmpty() {
	if m == nil {
		return
	}
	m.empty.Inc()
}

func (m *Metrics) observeTimeout() {
	if m == nil {
		return
	}
	m.timeouts.Inc()
}

func (m *Metrics) observeDisconnected() {
	if m == nil {
		return
	}
	m.disconnecteds.Inc()
}
