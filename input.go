package fdm

import kitlog "github.com/go-kit/kit/log"

// EnvironmentOverride carries the §6 environment input properties an
// embedder may push in before a tick.
type EnvironmentOverride struct {
	TempDegC            float64
	PressInHg           float64
	PressSeaLevelInHg   float64
	WindFromNorthFps    float64
	WindFromEastFps     float64
	WindFromDownFps     float64
	HasEnvironment      bool
}

// PilotCommands carries the §6 pilot/autopilot input properties: one
// command per FCS input channel, all in normalized [-1,1] or [0,1] ranges
// as documented per channel.
type PilotCommands struct {
	Aileron, Elevator, Rudder   float64 // -1..1
	Flap, Speedbrake, Spoiler   float64 // 0..1
	Throttle, Mixture           []float64
	PropAdvance, Feather        []float64
	BrakeLeft, BrakeRight       float64 // 0..1
	BrakeCenter, ParkingBrake   float64
	SteerCmd                    float64 // -1..1
	GearCmd                     float64 // 0 up, 1 down
	HookCmd                     float64

	Freeze struct {
		Fuel bool
	}
	OnGround, Running, Trim bool
}

// Input is the §2 row-1 submodel: it accepts PilotCommands and
// EnvironmentOverride into named slots every tick, before anything else
// runs, so every later submodel reads the same frozen snapshot.
type Input struct {
	logger kitlog.Logger

	Commands    PilotCommands
	Environment EnvironmentOverride
}

// NewInput returns an Input submodel with zeroed commands.
func NewInput(aircraft string, numEngines int) *Input {
	return &Input{
		logger: NewSubsysLogger(aircraft, "input"),
		Commands: PilotCommands{
			Throttle:    make([]float64, numEngines),
			Mixture:     make([]float64, numEngines),
			PropAdvance: make([]float64, numEngines),
			Feather:     make([]float64, numEngines),
		},
	}
}

// SetCommands replaces the current tick's pilot commands wholesale; an
// embedder is expected to read-modify-write via the Commands field between ticks.
func (in *Input) SetCommands(c PilotCommands) { in.Commands = c }

// SetEnvironment replaces the current tick's environment override.
func (in *Input) SetEnvironment(e EnvironmentOverride) { in.Environment = e }
