package fdm

import (
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// Executor is the top-level model graph owner. It holds each submodel in
// its own named field and runs them once per tick in the §2 order
// written out in Run, builds the
// immutable CoreState each submodel reads, and applies the §7 error
// policy.
type Executor struct {
	logger kitlog.Logger

	Aircraft string
	DtSec    float64

	Input             *Input
	Atmosphere        *Atmosphere
	FCS               *FCS
	Propulsion        *Propulsion
	Aerodynamics      *Aerodynamics
	GroundReactions    *GroundReactions
	ExternalReactions *ExternalReactions
	BuoyantForces     *BuoyantForces
	MassBalance       *MassBalance
	AircraftModel     *Aircraft
	Propagate         *Propagate
	Inertial          *Inertial
	Auxiliary         *Auxiliary

	GroundCB GroundCallback
	Bus      *PropertyBus

	EyeStructIn []float64

	tSeconds float64
	crashed  bool
	Crashed  bool
}

// NewExecutor wires every submodel together from a loaded AircraftConfig.
func NewExecutor(cfg AircraftConfig, epoch time.Time, cb GroundCallback) (*Executor, error) {
	mb := NewMassBalance(cfg.Name, cfg.EmptyWeightLbs, cfg.EmptyCGIn, mat64.NewDense(3, 3, []float64{
		cfg.EmptyJxxSlugFt2, 0, -cfg.EmptyJxzSlugFt2,
		0, cfg.EmptyJyySlugFt2, 0,
		-cfg.EmptyJxzSlugFt2, 0, cfg.EmptyJzzSlugFt2,
	}))
	for _, tc := range cfg.Tanks {
		mb.AddTank(&Tank{
			PointMass: PointMass{Name: tc.Name, WeightLbs: tc.ContentsLbs, StructIn: tc.StructIn},
			CapacityGal: tc.CapacityGal, ContentsLbs: tc.ContentsLbs, FuelDensity: tc.FuelDensity,
		})
	}
	if err := mb.Compute(); err != nil {
		return nil, err
	}

	gr, err := NewGroundReactions(cfg.Name, cfg.Gears)
	if err != nil {
		return nil, err
	}
	prop, err := NewPropulsion(cfg.Name, cfg.Engines, cfg.Tanks)
	if err != nil {
		return nil, err
	}

	inertial := NewInertial(cfg.Name, epoch)
	initial := VehicleState{
		Location: GeodeticToGeocentric(0, 0, 0),
		VUVW:     []float64{0, 0, 0},
		VPQR:     []float64{0, 0, 0},
		VQtrn:    IdentityQuaternion(),
	}
	pg := NewPropagate(cfg.Name, initial, cfg.Integrators, inertial)

	ex := &Executor{
		logger:            NewSubsysLogger(cfg.Name, "executor"),
		Aircraft:          cfg.Name,
		Input:             NewInput(cfg.Name, len(cfg.Engines)),
		Atmosphere:        NewAtmosphere(cfg.Name),
		FCS:               NewFCS(cfg.Name, len(cfg.Engines)),
		Propulsion:        prop,
		GroundReactions:   gr,
		ExternalReactions: NewExternalReactions(cfg.Name),
		BuoyantForces:     NewBuoyantForces(cfg.Name),
		MassBalance:       mb,
		AircraftModel:     NewAircraft(cfg.Name),
		Propagate:         pg,
		Inertial:          inertial,
		Auxiliary:         NewAuxiliary(cfg.Name),
		GroundCB:          cb,
		Bus:               NewPropertyBus(),
		EyeStructIn:       cfg.EmptyCGIn,
	}
	return ex, nil
}

// buildCoreState assembles the immutable snapshot every submodel reads
// this tick from the previously integrated VehicleState (§9 Design Notes).
func (ex *Executor) buildCoreState(t time.Time) CoreState {
	state := ex.Propagate.State()
	earthAngle := ex.Inertial.EarthAngle(t)
	xforms := BuildTransforms(state.VQtrn, state.Location, earthAngle)

	vVelNED := MxV33(xforms.Tb2l, state.VUVW)
	omegaECI := []float64{0, 0, EarthRotationRps}
	vPQRi := Add(state.VPQR, MxV33(xforms.Tec2b, omegaECI))

	_, geodAltFt := state.Location.GeodeticLatAlt()

	agl := geodAltFt
	if ex.GroundCB != nil {
		if gc, err := ex.GroundCB.Query(ex.tSeconds, state.Location.ECEF(), 0); err == nil {
			agl = gc.AGL
		}
	}

	return CoreState{
		Time:         t,
		VehicleState: state,
		Transforms:   xforms,
		VPQRi:        vPQRi,
		VVelNED:      vVelNED,
		EarthAngle:   earthAngle,
		AGL:          agl,
	}
}

// Run advances the model by one tick of DtSec. If holding is true, only
// Input runs (§5: "if holding, only Input is active so external commands
// can still arrive"). Returns a fatal error per §7, or nil.
func (ex *Executor) Run(holding bool, t time.Time) error {
	if ex.crashed {
		return nil
	}

	if holding {
		return nil
	}

	cs := ex.buildCoreState(t)
	if err := ex.Propagate.Sanity(cs); err != nil {
		return err
	}

	if cs.AGL < -100 {
		ex.crashFreeze(newModelError(AltitudeUnderground, "executor", "AGL %.1f ft is below the -100 ft crash threshold", cs.AGL))
		return nil
	}

	_, geodAltFt := cs.Location.GeodeticLatAlt()
	atmo, windNED := ex.Atmosphere.At(geodAltFt)

	pos := ex.FCS.Run(ex.Input.Commands)

	cgStructIn := ex.MassBalance.CGStructIn()

	propForce, propMoment := ex.Propulsion.Run(pos.Throttle, atmo.SigmaRatio, ex.Auxiliary.Mach, ex.DtSec, ex.Input.Commands.Freeze.Fuel, cgStructIn)

	windBody := MxV33(cs.Tl2b, windNED)
	vAeroBody := Sub(cs.VUVW, windBody)
	aeroForce, aeroMoment := []float64{0, 0, 0}, []float64{0, 0, 0}
	if ex.Aerodynamics != nil {
		aeroForce, aeroMoment = ex.Aerodynamics.Run(vAeroBody, atmo.SoundSpd, atmo.Density, pos.Elevator, pos.Aileron, pos.Rudder, pos.Flap, cgStructIn)
	}

	groundForce, groundMoment, gerr := ex.GroundReactions.Run(cs, ex.GroundCB, ex.tSeconds, pos.SteerDeg, pos.BrakeLeft, pos.BrakeRight, pos.BrakeCenter, pos.GearPos)
	if gerr != nil {
		merr, ok := gerr.(*ModelError)
		switch {
		case ok && merr.Kind == StaleGroundCache:
			// §7: warning only, continue the tick on the last known terrain.
			ex.logger.Log("level", "warning", "subsys", "executor", "message", "stale ground cache", "err", merr.Error())
		case ok && !merr.Fatal():
			ex.crashFreeze(merr)
		default:
			return gerr
		}
	}

	extForce, extMoment := ex.ExternalReactions.Run(cgStructIn)
	buoyForce, buoyMoment := ex.BuoyantForces.Run(atmo.Density, cs.Tl2b, cgStructIn)

	for i, tank := range ex.Propulsion.Tanks {
		if i < len(ex.MassBalance.Tanks) {
			ex.MassBalance.Tanks[i].ContentsLbs = tank.ContentsLbs
		}
	}
	prevCGShift := ex.MassBalance.CGShiftBodyFt()
	if err := ex.MassBalance.Compute(); err != nil {
		return err
	}

	contributions := []ForceMoment{
		{Source: "propulsion", Force: propForce, Moment: propMoment},
		{Source: "aerodynamics", Force: aeroForce, Moment: aeroMoment},
		{Source: "ground", Force: groundForce, Moment: groundMoment},
		{Source: "external", Force: extForce, Moment: extMoment},
		{Source: "buoyancy", Force: buoyForce, Moment: buoyMoment},
	}
	ex.AircraftModel.Sum(contributions, ex.MassBalance.Weight())

	wow := ex.GroundReactions.AnyWOW()
	derivs, derr := ex.Propagate.Derive(cs, ex.AircraftModel.TotalForce, ex.AircraftModel.TotalMoment, ex.MassBalance.Mass(), ex.MassBalance.JBody(), ex.MassBalance.JInvBody(), wow)
	if derr != nil {
		return derr
	}

	ex.Auxiliary.Run(cs, windNED, atmo.SoundSpd, atmo.Density, atmo.PressLbf, wow, derivs.VUVWdot, derivs.VPQRdot, cs.VPQRi, ex.EyeStructIn, cgStructIn)

	ex.Propagate.Step(ex.DtSec, derivs)
	ex.Propagate.ApplyCGShift(MxV33(cs.Tb2ec, Sub(ex.MassBalance.CGShiftBodyFt(), prevCGShift)))

	ex.tSeconds += ex.DtSec
	ex.publish(cs, atmo)
	return nil
}

// crashFreeze applies the §7 non-fatal Crash/AltitudeUnderground policy:
// latch the crashed state, freeze propagation, and log the cause rather
// than aborting the run.
func (ex *Executor) crashFreeze(merr *ModelError) {
	ex.crashed = true
	ex.Crashed = true
	ex.Propagate.freezeForCrash()
	ex.logger.Log("level", "error", "subsys", "executor", "message", "crash freeze", "err", merr.Error())
}

// publish writes the §6 output properties to the bus.
func (ex *Executor) publish(cs CoreState, atmo AtmosphereState) {
	geodLat, altFt := cs.Location.GeodeticLatAlt()
	ex.Bus.Set("position/long-gc-rad", cs.Location.Longitude)
	ex.Bus.Set("position/lat-geod-rad", geodLat)
	ex.Bus.Set("position/h-sl-ft", altFt)
	ex.Bus.Set("position/h-agl-ft", cs.AGL)
	ex.Bus.Set("velocities/u-fps", cs.VUVW[0])
	ex.Bus.Set("velocities/v-fps", cs.VUVW[1])
	ex.Bus.Set("velocities/w-fps", cs.VUVW[2])
	ex.Bus.Set("velocities/p-rad_sec", cs.VPQR[0])
	ex.Bus.Set("velocities/q-rad_sec", cs.VPQR[1])
	ex.Bus.Set("velocities/r-rad_sec", cs.VPQR[2])
	ex.Bus.Set("velocities/vt-fps", ex.Auxiliary.Vt)
	ex.Bus.Set("velocities/mach", ex.Auxiliary.Mach)
	phi, theta, psi := cs.VQtrn.Euler()
	ex.Bus.Set("attitude/phi-rad", phi)
	ex.Bus.Set("attitude/theta-rad", theta)
	ex.Bus.Set("attitude/psi-rad", psi)
	ex.Bus.Set("inertia/mass-slugs", ex.MassBalance.Mass())
	ex.Bus.Set("sim/crashed", boolToFloat(ex.Crashed))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
