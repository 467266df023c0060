package cpa

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEncounterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newEncounterMetrics(reg)
	passed, _ := NewVessel(10, 6, 2, 3, 90)
	own, _ := NewVessel(20, 0, 0, 0, 0)
	encs := []Encounter{goldenEncounter(t, time.Time{}), NewEncounter("passed", own, passed, time.Time{}, time.Hour)}
	m.observe(encs)

	for _, e := range encs {
		if got := testutil.ToFloat64(m.tcpa.WithLabelValues(e.Name)); got != e.Result.TCPA {
			t.Fatalf("%s: tcpa gauge %f exp %f", e.Name, got, e.Result.TCPA)
		}
		if got := testutil.ToFloat64(m.rng.WithLabelValues(e.Name)); got != e.Result.Range {
			t.Fatalf("%s: range gauge %f exp %f", e.Name, got, e.Result.Range)
		}
		if got := testutil.ToFloat64(m.bearing.WithLabelValues(e.Name)); got != e.Result.Bearing {
			t.Fatalf("%s: bearing gauge %f exp %f", e.Name, got, e.Result.Bearing)
		}
	}
	if testutil.ToFloat64(m.inPast.WithLabelValues("crossing")) != 0 || testutil.ToFloat64(m.inPast.WithLabelValues("passed")) != 1 {
		t.Fatal("in past gauge is wrong")
	}
	if n := testutil.CollectAndCount(m.rng); n != 2 {
		t.Fatalf("expected two range series, got %d", n)
	}
}

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpa.prom")
	if err := WriteMetrics(path, []Encounter{goldenEncounter(t, time.Time{})}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, exp := range []string{
		"# TYPE vessel_cpa_range gauge",
		`vessel_cpa_range{target="crossing"} 7.00`,
		`vessel_cpa_in_past{target="crossing"} 0`,
		`vessel_cpa_tcpa{target="crossing"} 0.55`,
	} {
		if !strings.Contains(string(data), exp) {
			t.Fatalf("%q not in\n%s", exp, data)
		}
	}
}
