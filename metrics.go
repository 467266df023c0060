package cpa

import (
	"github.com/prometheus/client_golang/prometheus"
)

// encounterMetrics are the gauges describing each encounter, labelled by target name.
type encounterMetrics struct {
	tcpa    *prometheus.GaugeVec
	rng     *prometheus.GaugeVec
	bearing *prometheus.GaugeVec
	inPast  *prometheus.GaugeVec
}

func newEncounterMetrics(reg prometheus.Registerer) *encounterMetrics {
	labels := []string{"target"}
	m := &encounterMetrics{
		tcpa: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vessel_cpa_tcpa",
			Help: "Time to the closest point of approach in model time units, negative if passed.",
		}, labels),
		rng: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vessel_cpa_range",
			Help: "Range between own ship and target at the closest point of approach.",
		}, labels),
		bearing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vessel_cpa_bearing_degrees",
			Help: "Compass bearing from own ship to target at the closest point of approach.",
		}, labels),
		inPast: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vessel_cpa_in_past",
			Help: "1 if the closest point of approach is before t=0.",
		}, labels),
	}
	reg.MustRegister(m.tcpa, m.rng, m.bearing, m.inPast)
	return m
}

func (m *encounterMetrics) observe(encounters []Encounter) {
	for _, e := range encounters {
		m.tcpa.WithLabelValues(e.Name).Set(e.Result.TCPA)
		m.rng.WithLabelValues(e.Name).Set(e.Result.Range)
		m.bearing.WithLabelValues(e.Name).Set(e.Result.Bearing)
		past := 0.0
		if e.Result.InPast() {
			past = 1
		}
		m.inPast.WithLabelValues(e.Name).Set(past)
	}
}

// WriteMetrics writes the encounter gauges to path in the Prometheus text format,
// for the node_exporter textfile collector.
func WriteMetrics(path string, encounters []Encounter) error {
	reg := prometheus.NewRegistry()
	newEncounterMetrics(reg).observe(encounters)
	return prometheus.WriteToTextfile(path, reg)
}
