package fdm

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded    = false
	loadedConfig AircraftConfig
)

// GearConfig is one landing-gear unit's load-time parameters (§4.3).
type GearConfig struct {
	Name        string
	StructIn    []float64 // unloaded contact point, structural frame, inches
	SpringLbFt  float64   // strut spring constant, lbf/ft
	DampLbFtS   float64   // strut damping constant, lbf/(ft/s)
	StaticMu    float64
	DynamicMu   float64
	RollingMu   float64
	Steerable   bool
	Retractable bool
	MaxSteerDeg float64
}

// EngineConfig is one propulsion unit's load-time parameters (§4.7).
type EngineConfig struct {
	Name        string
	StructIn    []float64
	Type        string // "piston", "turbine", "electric"
	MaxThrustLb float64
}

// TankConfig is one fuel tank's load-time parameters (§4.4, §4.7).
type TankConfig struct {
	Name        string
	StructIn    []float64
	CapacityGal float64
	ContentsLbs float64
	// FuelDensity must be set explicitly: there is no industry-standard
	// default that holds for every fuel, and silently assuming one would
	// corrupt every CG and trim computation downstream.
	FuelDensity float64
}

// AircraftConfig is the load-time description of an airframe (§2, §6): the
// empty-weight shape, its gear, engines, tanks, and the default integrator
// selection. It is read once from a TOML aircraft definition file and
// never mutated; everything that varies at runtime lives in the submodel
// state instead.
type AircraftConfig struct {
	Name string

	EmptyWeightLbs float64
	EmptyCGIn      []float64
	EmptyJxxSlugFt2 float64
	EmptyJyySlugFt2 float64
	EmptyJzzSlugFt2 float64
	EmptyJxzSlugFt2 float64

	Gears   []GearConfig
	Engines []EngineConfig
	Tanks   []TankConfig

	Integrators IntegratorConfig
}

// LoadAircraftConfig reads the named TOML aircraft definition from dir,
// mirroring the teacher's smdConfig: a package-level singleton loader that
// panics on a missing environment variable or unreadable file, since a
// misconfigured airframe must never silently fly with defaults.
func LoadAircraftConfig(name string) AircraftConfig {
	if cfgLoaded {
		return loadedConfig
	}

	dir := os.Getenv("FDM_AIRCRAFT_DIR")
	if dir == "" {
		panic("environment variable `FDM_AIRCRAFT_DIR` is missing or empty")
	}

	v := viper.New()
	v.SetConfigName(name)
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/%s.toml not found: %s", dir, name, err))
	}

	cfg := AircraftConfig{
		Name:            name,
		EmptyWeightLbs:  v.GetFloat64("mass_balance.empty_weight_lbs"),
		EmptyCGIn:       []float64{v.GetFloat64("mass_balance.empty_cg_x_in"), v.GetFloat64("mass_balance.empty_cg_y_in"), v.GetFloat64("mass_balance.empty_cg_z_in")},
		EmptyJxxSlugFt2: v.GetFloat64("mass_balance.jxx"),
		EmptyJyySlugFt2: v.GetFloat64("mass_balance.jyy"),
		EmptyJzzSlugFt2: v.GetFloat64("mass_balance.jzz"),
		EmptyJxzSlugFt2: v.GetFloat64("mass_balance.jxz"),
		Integrators:     DefaultIntegratorConfig(),
	}

	var gears []map[string]interface{}
	if err := v.UnmarshalKey("gear", &gears); err != nil {
		panic(fmt.Errorf("invalid gear configuration: %s", err))
	}
	for _, g := range gears {
		cfg.Gears = append(cfg.Gears, gearConfigFromMap(g))
	}

	var engines []map[string]interface{}
	if err := v.UnmarshalKey("engine", &engines); err != nil {
		panic(fmt.Errorf("invalid engine configuration: %s", err))
	}
	for _, e := range engines {
		cfg.Engines = append(cfg.Engines, engineConfigFromMap(e))
	}

	var tanks []map[string]interface{}
	if err := v.UnmarshalKey("tank", &tanks); err != nil {
		panic(fmt.Errorf("invalid tank configuration: %s", err))
	}
	for _, t := range tanks {
		tc := tankConfigFromMap(t)
		if tc.FuelDensity <= 0 {
			panic(fmt.Errorf("tank %q: fuel_density_lbs_per_gal must be configured explicitly", tc.Name))
		}
		cfg.Tanks = append(cfg.Tanks, tc)
	}

	cfgLoaded = true
	loadedConfig = cfg
	return cfg
}

func asFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func asString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func asBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func gearConfigFromMap(m map[string]interface{}) GearConfig {
	return GearConfig{
		Name:        asString(m, "name"),
		StructIn:    []float64{asFloat(m, "x_in"), asFloat(m, "y_in"), asFloat(m, "z_in")},
		SpringLbFt:  asFloat(m, "spring_lbf_per_ft"),
		DampLbFtS:   asFloat(m, "damp_lbf_per_ft_s"),
		StaticMu:    asFloat(m, "static_mu"),
		DynamicMu:   asFloat(m, "dynamic_mu"),
		RollingMu:   asFloat(m, "rolling_mu"),
		Steerable:   asBool(m, "steerable"),
		Retractable: asBool(m, "retractable"),
		MaxSteerDeg: asFloat(m, "max_steer_deg"),
	}
}

func engineConfigFromMap(m map[string]interface{}) EngineConfig {
	return EngineConfig{
		Name:        asString(m, "name"),
		StructIn:    []float64{asFloat(m, "x_in"), asFloat(m, "y_in"), asFloat(m, "z_in")},
		Type:        asString(m, "type"),
		MaxThrustLb: asFloat(m, "max_thrust_lbf"),
	}
}

func tankConfigFromMap(m map[string]interface{}) TankConfig {
	return TankConfig{
		Name:        asString(m, "name"),
		StructIn:    []float64{asFloat(m, "x_in"), asFloat(m, "y_in"), asFloat(m, "z_in")},
		CapacityGal: asFloat(m, "capacity_gal"),
		ContentsLbs: asFloat(m, "contents_lbs"),
		FuelDensity: asFloat(m, "fuel_density_lbs_per_gal"),
	}
}
