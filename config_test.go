package cpa

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gonum/floats"
	"github.com/spf13/viper"
)

func readScenario(t *testing.T, toml string) (Scenario, error) {
	conf := viper.New()
	conf.SetConfigType("toml")
	if err := conf.ReadConfig(strings.NewReader(toml)); err != nil {
		t.Fatalf("invalid TOML: %s", err)
	}
	return scenarioFromConfig(conf)
}

const ownshipTOML = `
[ownship]
length = 5
x = 0
y = 0
speed = 5
heading = 90
`

func TestScenarioFromConfig(t *testing.T) {
	s, err := readScenario(t, `
[general]
name = "crossing"
output_path = "out"
epoch = 2021-03-01T12:00:00Z
timeunit = "1m"
csv = true
`+ownshipTOML+`
[targets.0]
name = "ferry"
length = 5
x = 10
y = 0
speed = 10
heading = 335

[targets.1]
length = 0
x = 1
y = 1
speed = 0
heading = 395
`)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "crossing" || s.TimeUnit != time.Minute {
		t.Fatalf("unexpected general section: %+v", s)
	}
	if !s.Epoch.Equal(time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("epoch=%s", s.Epoch)
	}
	if exp := (ExportConfig{OutputDir: "out", Filename: "crossing", AsCSV: true}); s.Export != exp {
		t.Fatalf("export config %+v", s.Export)
	}
	own, target := goldenPair(t)
	if s.Own != own {
		t.Fatalf("own ship: %s", s.Own)
	}
	if len(s.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(s.Targets))
	}
	if s.Targets[0].Name != "ferry" || s.Targets[0].Vessel != target {
		t.Fatalf("first target: %+v", s.Targets[0])
	}
	// Missing names are generated.
	second := s.Targets[1]
	if second.Name != "target-1" || second.Vessel.Length() != 0 || second.Vessel.Speed() != 0 || second.Vessel.Heading() != 35 {
		t.Fatalf("second target: %s %s", second.Name, second.Vessel)
	}
	if s.Sensor != nil {
		t.Fatal("no sensor was configured")
	}

	encs := s.Encounters()
	if len(encs) != 2 || encs[0].Name != "ferry" || encs[0].Result != CPA(own, target) {
		t.Fatalf("encounters: %+v", encs)
	}
	if !floats.EqualWithinAbs(encs[0].TimeAtCPA().Sub(s.Epoch).Minutes(), encs[0].Result.TCPA, 1e-6) {
		t.Fatalf("CPA at %s", encs[0].TimeAtCPA())
	}
}

func TestScenarioDefaults(t *testing.T) {
	s, err := readScenario(t, `
[general]
epoch = 2451545.0
`+ownshipTOML+`
[sensor]
heading = 1.5
`)
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "scenario" || s.TimeUnit != time.Hour || s.Export.OutputDir != "." || !s.Export.IsUseless() {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if len(s.Targets) != 0 {
		t.Fatalf("unexpected targets: %+v", s.Targets)
	}
	// JD 2451545.0 is J2000, noon on the first of January 2000.
	if diff := s.Epoch.Sub(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)); diff > time.Second || diff < -time.Second {
		t.Fatalf("epoch from JDE: %s", s.Epoch)
	}
	if s.Sensor == nil || s.Samples != defaultSamples {
		t.Fatalf("sensor not configured: %+v", s)
	}
	if s.Sensor.PositionNoise != nil || s.Sensor.SpeedNoise != nil || s.Sensor.HeadingNoise == nil {
		t.Fatalf("only heading noise expected: %+v", s.Sensor)
	}
}

// vesselTOML returns a complete vessel table where the provided lines replace the defaults.
func vesselTOML(section string, lines ...string) string {
	vals := map[string]string{"length": "5", "x": "0", "y": "0", "speed": "5", "heading": "90"}
	for _, line := range lines {
		kv := strings.SplitN(line, " = ", 2)
		vals[kv[0]] = kv[1]
	}
	toml := "[" + section + "]\n"
	for _, field := range []string{"length", "x", "y", "speed", "heading"} {
		if val := vals[field]; val != "" {
			toml += field + " = " + val + "\n"
		}
	}
	return toml
}

func TestScenarioErrors(t *testing.T) {
	for _, tt := range []struct {
		name, toml string
		exp        error
	}{
		{"non numeric speed", vesselTOML("ownship", `speed = "fast"`), ErrInvalidArgumentType},
		{"numeric string speed", vesselTOML("ownship", `speed = "5"`), ErrInvalidArgumentType},
		{"boolean speed", vesselTOML("ownship", "speed = true"), ErrInvalidArgumentType},
		{"boolean heading", vesselTOML("ownship", "heading = false"), ErrInvalidArgumentType},
		{"missing speed", vesselTOML("ownship", "speed = "), ErrInvalidArgumentType},
		{"missing target position", ownshipTOML + vesselTOML("targets.0", "y = "), ErrInvalidArgumentType},
		{"negative speed", vesselTOML("ownship", "speed = -3.0"), ErrInvalidKinematics},
		{"negative target length", ownshipTOML + vesselTOML("targets.0", "length = -1"), ErrInvalidKinematics},
		{"bad time unit", "[general]\ntimeunit = \"fortnight\"\n" + ownshipTOML, ErrInvalidArgumentType},
		{"numeric time unit", "[general]\ntimeunit = 3600\n" + ownshipTOML, ErrInvalidArgumentType},
		{"bad epoch", "[general]\nepoch = \"yesterday\"\n" + ownshipTOML, ErrInvalidArgumentType},
		{"string JDE", "[general]\nepoch = \"2451545.0\"\n" + ownshipTOML, ErrInvalidArgumentType},
		{"bad sensor", ownshipTOML + "[sensor]\nspeed = \"loud\"\n", ErrInvalidArgumentType},
		{"string samples", ownshipTOML + "[sensor]\nspeed = 0.5\nsamples = \"100\"\n", ErrInvalidArgumentType},
		{"fractional seed", ownshipTOML + "[sensor]\nspeed = 0.5\nseed = 4.2\n", ErrInvalidArgumentType},
		{"negative sensor noise", ownshipTOML + "[sensor]\nposition = -1.0\n", ErrInvalidKinematics},
	} {
		if _, err := readScenario(t, tt.toml); !errors.Is(err, tt.exp) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.exp, err)
		}
	}
	if _, err := readScenario(t, "[general]\nname = \"empty\"\n"); err == nil {
		t.Fatal("missing own ship accepted")
	}
	dup := ownshipTOML + vesselTOML("targets.0") + "name = \"ferry\"\n" + vesselTOML("targets.1", "x = 3") + "name = \"ferry\"\n"
	if _, err := readScenario(t, dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("duplicate target names: %v", err)
	}
	// A generated name may not clash with an explicit one either.
	dup = ownshipTOML + vesselTOML("targets.0") + "name = \"target-1\"\n" + vesselTOML("targets.1", "x = 3")
	if _, err := readScenario(t, dup); err == nil {
		t.Fatal("generated target name clashes with explicit name")
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mini.toml"), []byte(ownshipTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScenario(filepath.Join(dir, "mini"))
	if err != nil {
		t.Fatal(err)
	}
	if own, _ := goldenPair(t); s.Own != own {
		t.Fatalf("own ship: %s", s.Own)
	}
	if _, err := LoadScenario(filepath.Join(dir, "missing.toml")); err == nil {
		t.Fatal("missing file accepted")
	}

	harbor, err := LoadScenario("cmd/cpa/harbor")
	if err != nil {
		t.Fatal(err)
	}
	if harbor.Name != "harbor" || len(harbor.Targets) != 3 || harbor.Sensor == nil || harbor.Samples != 1000 {
		t.Fatalf("harbor scenario: %+v", harbor)
	}
	if _, target := goldenPair(t); harbor.Targets[0].Vessel != target {
		t.Fatalf("crossing target: %s", harbor.Targets[0].Vessel)
	}
}
