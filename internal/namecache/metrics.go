package namecache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the name cache. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Lookups         *prometheus.CounterVec
	Adds            *prometheus.CounterVec
	Purged          prometheus.Counter
	Rebuilds        *prometheus.CounterVec
	RebuildDuration *prometheus.HistogramVec
	Entries         prometheus.Gauge
}

// NewMetrics registers and returns name cache metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scenecache_lookups_total",
			Help: "Name lookups by result (hit, unresolved, miss).",
		}, []string{"result"}),
		Adds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scenecache_adds_total",
			Help: "Name additions by result (added, exists).",
		}, []string{"result"}),
		Purged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scenecache_unresolved_purged_total",
			Help: "Unresolved names removed from memory.",
		}),
		Rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scenecache_rebuilds_total",
			Help: "Cache rebuilds by scope (full, show) and status (ok, error).",
		}, []string{"scope", "status"}),
		RebuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scenecache_rebuild_duration_seconds",
			Help:    "Duration of cache rebuilds in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~262s
		}, []string{"scope"}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scenecache_entries",
			Help: "Names currently held in memory.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Lookups, m.Adds, m.Purged, m.Rebuilds, m.RebuildDuration, m.Entries)
	}
	return m
}

func (m *Metrics) observeLookup(match Match, found bool) {
	if m == nil {
		return
	}
	switch {
	case !found:
		m.Lookups.WithLabelValues("miss").Inc()
	case match.IsResolved():
		m.Lookups.WithLabelValues("hit").Inc()
	default:
		m.Lookups.WithLabelValues("unresolved").Inc()
	}
}

func (m *Metrics) observeAdd(added bool) {
	if m == nil {
		return
	}
	if added {
		m.Adds.WithLabelValues("added").Inc()
		return
	}
	m.Adds.WithLabelValues("exists").Inc()
}

func (m *Metrics) observePurge(removed int) {
	if m == nil || removed == 0 {
		return
	}
	m.Purged.Add(float64(removed))
}

func (m *Metrics) observeRebuild(scope string, err error, elapsed time.Duration, entries int) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.Rebuilds.WithLabelValues(scope, status).Inc()
	m.RebuildDuration.WithLabelValues(scope).Observe(elapsed.Seconds())
	m.Entries.Set(float64(entries))
}

func (m *Metrics) setEntries(n int) {
	if m == nil {
		return
	}
	m.Entries.Set(float64(n))
}
