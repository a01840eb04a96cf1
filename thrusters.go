package fdm

// Engine defines the contract every propulsion unit satisfies (§4.7): given
// the current atmosphere and commanded throttle, produce a body-frame
// thrust magnitude and the fuel burn rate it costs.
type Engine interface {
	// Name identifies the engine for logging and trim diagnostics.
	Name() string
	// MaxThrustLb returns the static, sea-level-standard maximum thrust.
	MaxThrustLb() float64
	// Thrust returns the thrust in lbf and fuel flow in lbs/s produced at
	// the given throttle (0-1), air density ratio sigma, and Mach number.
	Thrust(throttle, sigma, mach float64) (thrustLb, fuelFlowLbS float64)
}

// PistonEngine is a naturally-aspirated reciprocating engine: thrust falls
// off with density altitude and is independent of Mach in the speed range
// this model is valid for.
type PistonEngine struct {
	EngineName     string
	MaxThrustLbf   float64
	BSFCLbsPerHpHr float64 // brake specific fuel consumption
	PropEfficiency float64
}

// Name implements Engine.
func (e *PistonEngine) Name() string { return e.EngineName }

// MaxThrustLb implements Engine.
func (e *PistonEngine) MaxThrustLb() float64 { return e.MaxThrustLbf }

// Thrust implements Engine: thrust scales with throttle and density ratio,
// fuel flow with the resulting power via BSFC.
func (e *PistonEngine) Thrust(throttle, sigma, mach float64) (thrustLb, fuelFlowLbS float64) {
	throttle = Clamp(throttle, 0, 1)
	thrustLb = e.MaxThrustLbf * throttle * sigma
	hp := thrustLb * 200 / (375 * e.PropEfficiency) // crude V*T/375 proxy at a nominal cruise speed
	fuelFlowLbS = hp * e.BSFCLbsPerHpHr / 3600
	return
}

// TurbineEngine is a simplified turbojet/turbofan: thrust falls off with
// density and, above the model's design Mach, degrades further (inlet
// recovery losses are not modeled beyond a simple linear falloff).
type TurbineEngine struct {
	EngineName    string
	MaxThrustLbf  float64
	TSFCLbsPerLbHr float64 // thrust specific fuel consumption
}

// Name implements Engine.
func (e *TurbineEngine) Name() string { return e.EngineName }

// MaxThrustLb implements Engine.
func (e *TurbineEngine) MaxThrustLb() float64 { return e.MaxThrustLbf }

// Thrust implements Engine.
func (e *TurbineEngine) Thrust(throttle, sigma, mach float64) (thrustLb, fuelFlowLbS float64) {
	throttle = Clamp(throttle, 0, 1)
	machFalloff := 1.0
	if mach > 0.9 {
		machFalloff = Clamp(1-0.5*(mach-0.9), 0.3, 1)
	}
	thrustLb = e.MaxThrustLbf * throttle * sigma * machFalloff
	fuelFlowLbS = thrustLb * e.TSFCLbsPerLbHr / 3600
	return
}

// ElectricEngine is a battery/motor-driven propulsor: no combustion fuel
// flow, thrust independent of density to first order (prop efficiency
// changes are outside this model's scope).
type ElectricEngine struct {
	EngineName   string
	MaxThrustLbf float64
}

// Name implements Engine.
func (e *ElectricEngine) Name() string { return e.EngineName }

// MaxThrustLb implements Engine.
func (e *ElectricEngine) MaxThrustLb() float64 { return e.MaxThrustLbf }

// Thrust implements Engine: electric motors are not density-limited.
func (e *ElectricEngine) Thrust(throttle, sigma, mach float64) (thrustLb, fuelFlowLbS float64) {
	throttle = Clamp(throttle, 0, 1)
	return e.MaxThrustLbf * throttle, 0
}

// NewEngine constructs the Engine named by an EngineConfig's Type field,
// returning an UnknownEngineOrGearType ModelError for anything else (§7).
func NewEngine(cfg EngineConfig) (Engine, error) {
	switch cfg.Type {
	case "piston":
		return &PistonEngine{EngineName: cfg.Name, MaxThrustLbf: cfg.MaxThrustLb, BSFCLbsPerHpHr: 0.45, PropEfficiency: 0.8}, nil
	case "turbine":
		return &TurbineEngine{EngineName: cfg.Name, MaxThrustLbf: cfg.MaxThrustLb, TSFCLbsPerLbHr: 0.6}, nil
	case "electric":
		return &ElectricEngine{EngineName: cfg.Name, MaxThrustLbf: cfg.MaxThrustLb}, nil
	default:
		return nil, newModelError(UnknownEngineOrGearType, "propulsion", "unknown engine type %q", cfg.Type)
	}
}
