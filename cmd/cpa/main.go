package main

import (
	"flag"
	"log"
	"os"

	"github.com/ccom-unh/cpa"
	kitlog "github.com/go-kit/log"
)

// This code reads the scenario, computes the CPA to each target and exports the encounters.

const (
	defaultScenario = "~~unset~~"
)

var (
	scenario string
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "encounter scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	s, err := cpa.LoadScenario(scenario)
	if err != nil {
		log.Fatalf("could not load scenario: %s", err)
	}
	if verbose {
		log.Printf("[conf] %s: epoch=%s time unit=%s", s.Name, s.Epoch, s.TimeUnit)
		log.Printf("[conf] own ship: %s", s.Own)
		for _, tgt := range s.Targets {
			log.Printf("[conf] %s: %s", tgt.Name, tgt.Vessel)
		}
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "scenario", s.Name)
	if len(s.Targets) == 0 {
		logger.Log("level", "warning", "subsys", "conf", "message", "no targets", "file", scenario)
	}
	encounters := s.Encounters()
	for _, e := range encounters {
		logEncounter(logger, e)
	}

	if s.Sensor != nil {
		for _, tgt := range s.Targets {
			d, err := cpa.NewDispersion(s.Own, tgt.Vessel, *s.Sensor, s.Samples)
			if err != nil {
				log.Fatalf("%s: dispersion failed: %s", tgt.Name, err)
			}
			logger.Log("level", "info", "subsys", "sensor", "target", tgt.Name, "samples", d.Samples,
				"range", d.MeanRange, "σrange", d.StdRange, "tcpa", d.MeanTCPA, "σtcpa", d.StdTCPA)
		}
	}

	if s.Export.IsUseless() {
		return
	}
	written, err := cpa.ExportEncounters(s.Export, encounters)
	for _, name := range written {
		logger.Log("level", "info", "subsys", "export", "saved", name)
	}
	if err != nil {
		log.Fatalf("export failed: %s", err)
	}
}

// logEncounter logs the current situation and the CPA of one encounter.
func logEncounter(logger kitlog.Logger, e cpa.Encounter) {
	rng, brg := e.Own.RangeBearingTo(e.Target)
	r := e.Result
	logger.Log("level", "info", "subsys", "cpa", "target", e.Name, "range", rng, "bearing", brg, "cardinal", cpa.Cardinal(brg))
	logger.Log("level", "info", "subsys", "cpa", "target", e.Name, "tcpa", r.TCPA, "range_at_cpa", r.Range,
		"bearing_at_cpa", r.Bearing, "cardinal_at_cpa", cpa.Cardinal(r.Bearing))
	if r.InPast() {
		logger.Log("level", "notice", "subsys", "cpa", "target", e.Name, "status", "passed", "ago", -r.TCPA)
	}
	if e.Epoch.IsZero() {
		return
	}
	if dt := e.TimeAtCPA(); !dt.IsZero() {
		logger.Log("level", "info", "subsys", "cpa", "target", e.Name, "date", dt.Format("2006-01-02 15:04:05"))
	} else {
		logger.Log("level", "warning", "subsys", "cpa", "target", e.Name, "message", "CPA date out of range")
	}
}
