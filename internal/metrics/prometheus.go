package metrics

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/framehold/internal/sim"
)

// Exporter is a sim.Observer that keeps prometheus collectors up to date so a
// run can be scraped while it progresses.
type Exporter struct {
	ticks       *prometheus.CounterVec
	corrections *prometheus.CounterVec
	drift       *prometheus.GaugeVec
	scenario    string
}

func NewExporter(reg prometheus.Registerer, scenario string) (*Exporter, error) {
	e := &Exporter{
		ticks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framehold_ticks_total",
				Help: "Fixed updates observed",
			},
			[]string{"scenario", "mode"},
		),
		corrections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framehold_corrections_total",
				Help: "Fixed updates on which the held attitude was corrected",
			},
			[]string{"scenario", "situation"},
		),
		drift: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "framehold_drift_degrees",
				Help: "Latest angle between the held attitude and a surface-locked one",
			},
			[]string{"scenario", "vessel"},
		),
		scenario: scenario,
	}

	for _, c := range []prometheus.Collector{e.ticks, e.corrections, e.drift} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}
	return e, nil
}

func (e *Exporter) OnTick(s sim.Sample) {
	e.ticks.WithLabelValues(e.scenario, string(s.Icon)).Inc()
	if s.Working {
		e.corrections.WithLabelValues(e.scenario, s.Situation.String()).Inc()
	}
	if s.Vessel != 0 {
		e.drift.WithLabelValues(e.scenario, strconv.FormatUint(uint64(s.Vessel), 10)).Set(s.DriftDeg)
	}
}

// Handler serves the registry in the prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
