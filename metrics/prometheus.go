package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusProvider is a Provider backed by real Prometheus instruments,
// registered lazily on first use of a given name so callers don't need
// to pre-declare every instrument the scheduler might create.
type PrometheusProvider struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	updowns    map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

// NewPrometheusProvider constructs a PrometheusProvider that registers
// its instruments on reg. Pass prometheus.DefaultRegisterer to use the
// global registry.
func NewPrometheusProvider(reg prometheus.Registerer) *PrometheusProvider {
	return &PrometheusProvider{
		registerer: reg,
		counters:   make(map[string]*prometheus.CounterVec),
		updowns:    make(map[string]*prometheus.GaugeVec),
		histograms: make(map[string]*prometheus.HistogramVec),
	}
}

func (p *PrometheusProvider) Counter(name string, opts ...InstrumentOption) Counter {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.counters[name]
	if !ok {
		labels := sortedKeys(cfg.Attributes)
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: helpOrName(cfg.Description, name),
		}, labels)
		p.registerer.MustRegister(vec)
		p.counters[name] = vec
	}
	return &prometheusCounter{c: vec.WithLabelValues(labelValues(cfg.Attributes)...)}
}

func (p *PrometheusProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.updowns[name]
	if !ok {
		labels := sortedKeys(cfg.Attributes)
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: name,
			Help: helpOrName(cfg.Description, name),
		}, labels)
		p.registerer.MustRegister(vec)
		p.updowns[name] = vec
	}
	return &prometheusGauge{g: vec.WithLabelValues(labelValues(cfg.Attributes)...)}
}

func (p *PrometheusProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.histograms[name]
	if !ok {
		labels := sortedKeys(cfg.Attributes)
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: name,
			Help: helpOrName(cfg.Description, name),
		}, labels)
		p.registerer.MustRegister(vec)
		p.histograms[name] = vec
	}
	return &prometheusHistogram{h: vec.WithLabelValues(labelValues(cfg.Attributes)...)}
}

func helpOrName(desc, name string) string {
	if desc != "" {
		return desc
	}
	return name
}

// sortedKeys/labelValues keep label name/value pairing stable across the
// two call sites (WithLabelValues requires values in the same order the
// Vec was declared with).
func sortedKeys(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	// small maps from InstrumentOption calls; insertion sort keeps this
	// dependency-free and deterministic.
	for i := 1; i < len(keys); i++ {
		v := keys[i]
		j := i - 1
		for j >= 0 && keys[j] > v {
			keys[j+1] = keys[j]
			j--
		}
		keys[j+1] = v
	}
	return keys
}

func labelValues(attrs map[string]string) []string {
	keys := sortedKeys(attrs)
	vals := make([]string, len(keys))
	for i, k := range keys {
		vals[i] = attrs[k]
	}
	return vals
}

type prometheusCounter struct{ c prometheus.Counter }

func (c *prometheusCounter) Add(n int64) { c.c.Add(float64(n)) }

type prometheusGauge struct{ g prometheus.Gauge }

func (g *prometheusGauge) Add(n int64) { g.g.Add(float64(n)) }

type prometheusHistogram struct{ h prometheus.Observer }

func (h *prometheusHistogram) Record(v float64) { h.h.Observe(v) }
