package fdm

import kitlog "github.com/go-kit/kit/log"

// EffectorPositions is the FCS output (§4.6): the actual position of every
// effector after whatever filtering/scheduling logic the FCS applies to
// the raw pilot commands.
type EffectorPositions struct {
	Aileron, Elevator, Rudder float64
	Flap, Speedbrake, Spoiler float64
	Throttle, Mixture         []float64
	PropAdvance, Feather      []float64
	BrakeLeft, BrakeRight     float64
	BrakeCenter               float64
	SteerDeg                  float64
	GearPos                   float64 // 0 up, 1 down
	HookPos                   float64
}

// Component is one node of the FCS's directed acyclic graph (§4.6):
// summers, filters, PID loops, switches. Each reads the current effector
// positions plus the raw commands and returns the updated positions; the
// executor runs every Component in declared order once per tick, before
// Propulsion.
type Component interface {
	Name() string
	Run(cmd PilotCommands, pos EffectorPositions) EffectorPositions
}

// FCS is the §4.6 submodel: it drives PilotCommands through an ordered
// chain of Components. With no Components configured, every effector
// position equals its command one-for-one (the documented default path).
type FCS struct {
	logger     kitlog.Logger
	Components []Component

	Positions EffectorPositions
}

// NewFCS returns an FCS with passthrough defaults for numEngines engines.
func NewFCS(aircraft string, numEngines int) *FCS {
	return &FCS{
		logger: NewSubsysLogger(aircraft, "fcs"),
		Positions: EffectorPositions{
			Throttle:    make([]float64, numEngines),
			Mixture:     make([]float64, numEngines),
			PropAdvance: make([]float64, numEngines),
			Feather:     make([]float64, numEngines),
		},
	}
}

// Run executes every configured Component in order, seeded from the
// one-for-one passthrough of cmd, and stores the result.
func (f *FCS) Run(cmd PilotCommands) EffectorPositions {
	pos := passthroughPositions(cmd, len(f.Positions.Throttle))
	for _, c := range f.Components {
		pos = c.Run(cmd, pos)
	}
	f.Positions = pos
	return pos
}

func passthroughPositions(cmd PilotCommands, numEngines int) EffectorPositions {
	pos := EffectorPositions{
		Aileron: cmd.Aileron, Elevator: cmd.Elevator, Rudder: cmd.Rudder,
		Flap: cmd.Flap, Speedbrake: cmd.Speedbrake, Spoiler: cmd.Spoiler,
		BrakeLeft: cmd.BrakeLeft, BrakeRight: cmd.BrakeRight, BrakeCenter: cmd.BrakeCenter,
		SteerDeg: cmd.SteerCmd * 30, // scaled by the gear's own MaxSteerDeg downstream
		GearPos:  cmd.GearCmd,
		HookPos:  cmd.HookCmd,
		Throttle: make([]float64, numEngines), Mixture: make([]float64, numEngines),
		PropAdvance: make([]float64, numEngines), Feather: make([]float64, numEngines),
	}
	copy(pos.Throttle, cmd.Throttle)
	copy(pos.Mixture, cmd.Mixture)
	copy(pos.PropAdvance, cmd.PropAdvance)
	copy(pos.Feather, cmd.Feather)
	return pos
}

// RateLimiter is an example FCS Component: it slews one scalar effector
// toward its commanded value at a bounded rate, the simplest nontrivial
// node the FCS graph can hold.
type RateLimiter struct {
	ComponentName string
	Select        func(pos EffectorPositions) float64
	Apply         func(pos EffectorPositions, v float64) EffectorPositions
	Target        func(cmd PilotCommands) float64
	MaxRatePerSec float64
	dt            float64
	last          EffectorPositions
}

// Name implements Component.
func (r *RateLimiter) Name() string { return r.ComponentName }

// Run implements Component.
func (r *RateLimiter) Run(cmd PilotCommands, pos EffectorPositions) EffectorPositions {
	cur := r.Select(r.last)
	target := r.Target(cmd)
	maxDelta := r.MaxRatePerSec * r.dt
	delta := Clamp(target-cur, -maxDelta, maxDelta)
	r.last = r.Apply(pos, cur+delta)
	return r.last
}
