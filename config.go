package cpa

import (
	"fmt"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	defaultTimeUnit = time.Hour // Speeds in knots and distances in nautical miles.
	defaultSamples  = 1000
)

// Contact is a named target vessel.
type Contact struct {
	Name   string
	Vessel Vessel
}

// Scenario is an own ship and the targets it must assess, as read from a TOML file.
type Scenario struct {
	Name     string
	Epoch    time.Time     // Absolute time of t=0; zero if unset
	TimeUnit time.Duration // Wall clock duration of one model time unit
	Own      Vessel
	Targets  []Contact
	Sensor   *Sensor // Optional, enables dispersion analysis
	Samples  int
	Export   ExportConfig
}

// Encounters returns the CPA between own ship and each target.
func (s Scenario) Encounters() []Encounter {
	encounters := make([]Encounter, len(s.Targets))
	for i, tgt := range s.Targets {
		encounters[i] = NewEncounter(tgt.Name, s.Own, tgt.Vessel, s.Epoch, s.TimeUnit)
	}
	return encounters
}

// LoadScenario reads the scenario from the provided TOML file (the extension may be omitted).
func LoadScenario(path string) (Scenario, error) {
	if !strings.HasSuffix(path, ".toml") {
		path += ".toml"
	}
	conf := viper.New()
	conf.SetConfigFile(path)
	if err := conf.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return scenarioFromConfig(conf)
}

// scenarioFromConfig builds the scenario from an already loaded configuration.
func scenarioFromConfig(conf *viper.Viper) (Scenario, error) {
	conf.SetDefault("general.name", "scenario")
	conf.SetDefault("general.output_path", ".")
	conf.SetDefault("general.timeunit", defaultTimeUnit.String())
	conf.SetDefault("sensor.samples", defaultSamples)
	conf.SetDefault("sensor.seed", 1)

	s := Scenario{Name: conf.GetString("general.name")}
	var err error
	if s.Epoch, err = confReadJDEorTime(conf, "general.epoch"); err != nil {
		return Scenario{}, err
	}
	unit, ok := conf.Get("general.timeunit").(string)
	if !ok {
		return Scenario{}, fmt.Errorf("%w: general.timeunit must be a duration string such as \"1h\"", ErrInvalidArgumentType)
	}
	if s.TimeUnit, err = cast.ToDurationE(unit); err != nil {
		return Scenario{}, fmt.Errorf("%w: general.timeunit: %v", ErrInvalidArgumentType, err)
	}
	if s.TimeUnit <= 0 {
		return Scenario{}, fmt.Errorf("general.timeunit must be positive, got %s", s.TimeUnit)
	}
	s.Export = ExportConfig{
		OutputDir: conf.GetString("general.output_path"),
		Filename:  s.Name,
		AsCSV:     conf.GetBool("general.csv"),
		Plot:      conf.GetBool("general.plot"),
		Timestamp: conf.GetBool("general.timestamp"),
		Metrics:   conf.GetString("general.metrics"),
	}

	if !conf.IsSet("ownship") {
		return Scenario{}, fmt.Errorf("missing [ownship] section")
	}
	if s.Own, err = confReadVessel(conf, "ownship"); err != nil {
		return Scenario{}, err
	}
	names := make(map[string]bool)
	for tgtNo := 0; conf.IsSet(fmt.Sprintf("targets.%d", tgtNo)); tgtNo++ {
		key := fmt.Sprintf("targets.%d", tgtNo)
		tgt, err := confReadVessel(conf, key)
		if err != nil {
			return Scenario{}, err
		}
		name := conf.GetString(key + ".name")
		if name == "" {
			name = fmt.Sprintf("target-%d", tgtNo)
		}
		if names[name] {
			return Scenario{}, fmt.Errorf("%s: duplicate target name %q", key, name)
		}
		names[name] = true
		s.Targets = append(s.Targets, Contact{Name: name, Vessel: tgt})
	}

	if conf.IsSet("sensor.position") || conf.IsSet("sensor.speed") || conf.IsSet("sensor.heading") {
		var σ [3]float64
		for i, key := range []string{"sensor.position", "sensor.speed", "sensor.heading"} {
			if σ[i], err = confReadFloat(conf, key); err != nil {
				return Scenario{}, err
			}
		}
		seed, err := confReadInt(conf, "sensor.seed")
		if err != nil {
			return Scenario{}, err
		}
		samples, err := confReadInt(conf, "sensor.samples")
		if err != nil {
			return Scenario{}, err
		}
		s.Samples = int(samples)
		sensor, err := NewSensor(σ[0], σ[1], σ[2], seed)
		if err != nil {
			return Scenario{}, fmt.Errorf("sensor: %w", err)
		}
		s.Sensor = &sensor
	}
	return s, nil
}

// confReadVessel reads a vessel from the table at the provided key. All five values are required.
func confReadVessel(conf *viper.Viper, key string) (Vessel, error) {
	var vals [5]float64
	for i, field := range []string{"length", "x", "y", "speed", "heading"} {
		if !conf.IsSet(key + "." + field) {
			return Vessel{}, fmt.Errorf("%w: %s.%s is missing", ErrInvalidArgumentType, key, field)
		}
		val, err := confReadFloat(conf, key+"."+field)
		if err != nil {
			return Vessel{}, err
		}
		vals[i] = val
	}
	v, err := NewVessel(vals[0], vals[1], vals[2], vals[3], vals[4])
	if err != nil {
		return Vessel{}, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// confReadFloat reads a number, where a missing key is zero.
// Only TOML numbers are accepted: strings and booleans are not converted.
func confReadFloat(conf *viper.Viper, key string) (float64, error) {
	raw := conf.Get(key)
	if raw == nil {
		return 0, nil
	}
	val, ok := asFloat(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %s: %v (%T) is not a number", ErrInvalidArgumentType, key, raw, raw)
	}
	return val, nil
}

// confReadInt reads an integer, where a missing key is zero.
func confReadInt(conf *viper.Viper, key string) (int64, error) {
	raw := conf.Get(key)
	if raw == nil {
		return 0, nil
	}
	switch val := raw.(type) {
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	}
	return 0, fmt.Errorf("%w: %s: %v (%T) is not an integer", ErrInvalidArgumentType, key, raw, raw)
}

// asFloat returns the value of a decoded TOML number.
func asFloat(raw interface{}) (float64, bool) {
	switch val := raw.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	}
	return 0, false
}

// confReadJDEorTime reads either a Julian date or a date time.
func confReadJDEorTime(conf *viper.Viper, key string) (time.Time, error) {
	raw := conf.Get(key)
	if raw == nil {
		return time.Time{}, nil
	}
	if jde, ok := asFloat(raw); ok {
		return julian.JDToTime(jde).UTC(), nil
	}
	dt, err := cast.ToTimeE(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidArgumentType, key, err)
	}
	return dt.UTC(), nil
}
