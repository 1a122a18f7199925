package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the Prometheus instruments for the detection pipeline.
// A nil *Collector is valid and records nothing, so tests can skip wiring.
type Collector struct {
	gatherer prometheus.Gatherer

	PositionsProcessed prometheus.Counter
	ViolationsDetected *prometheus.CounterVec
	AlertsCreated      *prometheus.CounterVec
	AlertsRefreshed    prometheus.Counter
	DashboardClients   prometheus.Gauge
}

// NewCollector registers the instruments against reg, defaulting to the
// global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		PositionsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_positions_processed_total",
			Help: "Position updates run through the violation detector.",
		}),
		ViolationsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_violations_detected_total",
			Help: "Violations emitted by the detector, labeled by type.",
		}, []string{"type"}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_alerts_created_total",
			Help: "New alert records created, labeled by type.",
		}, []string{"type"}),
		AlertsRefreshed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_alerts_refreshed_total",
			Help: "Active alerts refreshed in place by a repeated violation.",
		}),
		DashboardClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_dashboard_clients",
			Help: "Currently connected dashboard WebSocket clients.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.PositionsProcessed, c.ViolationsDetected, c.AlertsCreated, c.AlertsRefreshed, c.DashboardClients,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Handler exposes the collector's registry over HTTP.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) ObservePosition() {
	if c == nil {
		return
	}
	c.PositionsProcessed.Inc()
}

func (c *Collector) ObserveViolation(violationType string) {
	if c == nil {
		return
	}
	c.ViolationsDetected.WithLabelValues(violationType).Inc()
}

func (c *Collector) ObserveAlertCreated(alertType string) {
	if c == nil {
		return
	}
	c.AlertsCreated.WithLabelValues(alertType).Inc()
}

func (c *Collector) ObserveAlertRefreshed() {
	if c == nil {
		return
	}
	c.AlertsRefreshed.Inc()
}

func (c *Collector) AddDashboardClients(n float64) {
	if c == nil {
		return
	}
	c.DashboardClients.Add(n)
}
