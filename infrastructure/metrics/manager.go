package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager is the metrics surface handed to middleware and usecases.
type Manager interface {
	SetGauge(name string, value float64)
	IncrementCounter(name string)
	ObserveHistogram(name string, value float64)
}

type prometheusManager struct {
	gauges     map[string]prometheus.Gauge
	counters   map[string]prometheus.Counter
	histograms map[string]prometheus.Histogram
	mu         sync.Mutex
}

func NewManager() Manager {
	return &prometheusManager{
		gauges:     make(map[string]prometheus.Gauge),
		counters:   make(map[string]prometheus.Counter),
		histograms: make(map[string]prometheus.Histogram),
	}
}

func (m *prometheusManager) SetGauge(name string, value float64) {
	m.mu.Lock()
	g, ok := m.gauges[name]
	if !ok {
		g = promauto.NewGauge(prometheus.GaugeOpts{Name: name})
		m.gauges[name] = g
	}
	m.mu.Unlock()

	g.Set(value)
}

func (m *prometheusManager) IncrementCounter(name string) {
	m.mu.Lock()
	c, ok := m.counters[name]
	if !ok {
		c = promauto.NewCounter(prometheus.CounterOpts{Name: name})
		m.counters[name] = c
	}
	m.mu.Unlock()

	c.Inc()
}

func (m *prometheusManager) ObserveHistogram(name string, value float64) {
	m.mu.Lock()
	h, ok := m.histograms[name]
	if !ok {
		h = promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Buckets: prometheus.DefBuckets,
		})
		m.histograms[name] = h
	}
	m.mu.Unlock()

	h.Observe(value)
}
