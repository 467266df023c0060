package cpa

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/soniakeys/meeus/v3/julian"
)

// Encounter is the CPA between own ship and a named target.
type Encounter struct {
	Name     string
	Own      Vessel
	Target   Vessel
	Result   Result
	Epoch    time.Time
	TimeUnit time.Duration
}

// NewEncounter computes the CPA between own ship and the target.
func NewEncounter(name string, own, target Vessel, epoch time.Time, timeUnit time.Duration) Encounter {
	return Encounter{Name: name, Own: own, Target: target, Result: CPA(own, target), Epoch: epoch, TimeUnit: timeUnit}
}

// TimeAtCPA returns the absolute time of the CPA. It returns the zero time if the epoch is
// unset or if the CPA is further away than a time.Duration can hold (about 292 years).
func (e Encounter) TimeAtCPA() time.Time {
	if e.Epoch.IsZero() {
		return time.Time{}
	}
	ns := e.Result.TCPA * float64(e.TimeUnit)
	if math.IsNaN(ns) || math.Abs(ns) >= math.MaxInt64 {
		return time.Time{}
	}
	return e.Epoch.Add(time.Duration(ns))
}

func (e Encounter) String() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Result)
}

// ExportConfig configures the exporting of the encounters.
type ExportConfig struct {
	OutputDir string
	Filename  string
	AsCSV     bool
	Plot      bool
	Timestamp bool
	Metrics   string // Prometheus textfile path, empty to disable
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV && !c.Plot && c.Metrics == ""
}

// path returns the output path for the given prefix and extension.
func (c ExportConfig) path(prefix, ext string, now time.Time) string {
	name := fmt.Sprintf("%s-%s", prefix, c.Filename)
	if c.Timestamp {
		name += now.Format("-2006-01-02T15.04.05")
	}
	return filepath.Join(c.OutputDir, name+"."+ext)
}

var csvHeader = []string{"name", "tcpa", "time_at_cpa", "jd_at_cpa", "own_x", "own_y", "target_x", "target_y", "range", "bearing", "cardinal"}

// WriteCSV writes one record per encounter. Absolute time columns are left empty without an epoch.
func WriteCSV(w io.Writer, encounters []Encounter) error {
	if _, err := fmt.Fprintf(w, "# Creation date (UTC): %s\n# Bearings in degrees from own ship to target at CPA.\n", time.Now().UTC()); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, e := range encounters {
		var at, jd string
		if dt := e.TimeAtCPA(); !dt.IsZero() {
			at = dt.Format(time.RFC3339)
			jd = f(julian.TimeToJD(dt))
		}
		r := e.Result
		record := []string{e.Name, f(r.TCPA), at, jd, f(r.Own[0]), f(r.Own[1]), f(r.Target[0]), f(r.Target[1]), f(r.Range), f(r.Bearing), Cardinal(r.Bearing)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Arrow is a vector anchored at (X, Y) with components (U, V), as drawn by a quiver plot.
type Arrow struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	U     float64 `json:"u"`
	V     float64 `json:"v"`
	Scale float64 `json:"scale"`
	Color string  `json:"color"`
}

// Panel is one chart of a plot.
type Panel struct {
	Title  string  `json:"title"`
	Arrows []Arrow `json:"arrows"`
	Text   string  `json:"text,omitempty"`
	TextX  float64 `json:"text_x,omitempty"`
	TextY  float64 `json:"text_y,omitempty"`
}

// PlotSpec describes an encounter chart. It only carries numbers, rendering is left to the consumer.
type PlotSpec struct {
	Name    string  `json:"name"`
	Panels  []Panel `json:"panels"`
	TCPA    float64 `json:"tcpa"`
	Range   float64 `json:"range"`
	Bearing float64 `json:"bearing"`
}

// velocityScale shrinks velocity arrows so they stay readable next to positions.
const velocityScale = 10

// NewPlotSpec returns the chart description of an encounter: the tracks at t=0, and both vessels
// at CPA with the vector from own ship to the target.
func NewPlotSpec(e Encounter) PlotSpec {
	r := e.Result
	oV, tV := e.Own.V(), e.Target.V()
	oR, tR := e.Own.R(), e.Target.R()
	Δ := sub(r.Target, r.Own)
	tracks := Panel{Title: "tracks", Arrows: []Arrow{
		{Label: "own", X: oR[0], Y: oR[1], U: oV[0], V: oV[1], Scale: velocityScale, Color: "k"},
		{Label: e.Name, X: tR[0], Y: tR[1], U: tV[0], V: tV[1], Scale: velocityScale, Color: "b"},
	}}
	atCPA := Panel{Title: "cpa", Arrows: []Arrow{
		{Label: e.Name, X: r.Target[0], Y: r.Target[1], U: tV[0], V: tV[1], Scale: velocityScale, Color: "m"},
		{Label: "own", X: r.Own[0], Y: r.Own[1], U: oV[0], V: oV[1], Scale: velocityScale, Color: "r"},
		{Label: "range", X: r.Own[0], Y: r.Own[1], U: Δ[0], V: Δ[1], Scale: 1, Color: "k"},
	}, Text: fmt.Sprintf("CPA: Range:%0.2f\nBearing:%0.2f", r.Range, r.Bearing), TextX: r.Target[0], TextY: r.Target[1]}
	return PlotSpec{Name: e.Name, Panels: []Panel{tracks, atCPA}, TCPA: r.TCPA, Range: r.Range, Bearing: r.Bearing}
}

// ExportEncounters writes the encounters as configured, returning the written file names.
func ExportEncounters(conf ExportConfig, encounters []Encounter) ([]string, error) {
	var written []string
	now := time.Now().UTC()
	if !conf.IsUseless() {
		if err := os.MkdirAll(conf.OutputDir, 0o755); err != nil {
			return nil, err
		}
	}
	if conf.AsCSV {
		name := conf.path("cpa", "csv", now)
		if err := writeFile(name, func(w io.Writer) error { return WriteCSV(w, encounters) }); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	if conf.Plot {
		specs := make([]PlotSpec, len(encounters))
		for i, e := range encounters {
			specs[i] = NewPlotSpec(e)
		}
		name := conf.path("plot", "json", now)
		if err := writeFile(name, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(specs)
		}); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	if conf.Metrics != "" {
		if err := WriteMetrics(conf.Metrics, encounters); err != nil {
			return written, err
		}
		written = append(written, conf.Metrics)
	}
	return written, nil
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
