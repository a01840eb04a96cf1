package fdm

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// BrakeGroup identifies which brake command a gear unit answers to (§3).
type BrakeGroup uint8

const (
	BrakeNone BrakeGroup = iota
	BrakeLeft
	BrakeRight
	BrakeCenter
	BrakeNose
	BrakeTail
)

// SteerType selects how a gear unit's steer angle is derived (§3, §4.3
// step 4).
type SteerType uint8

const (
	SteerFixed SteerType = iota
	SteerSteerable
	SteerCastered
)

// DampingKind selects whether strut damping is linear or quadratic in
// compression speed (§3).
type DampingKind uint8

const (
	DampLinear DampingKind = iota
	DampQuadratic
)

// GearUnit is one landing-gear contact point: its load-time configuration
// plus the per-tick state the §4.3 state machine maintains.
type GearUnit struct {
	logger kitlog.Logger

	Name        string
	StructIn    []float64
	SpringLbFt  float64
	DampLbFtS   float64
	ReboundLbFtS float64
	DampKind    DampingKind
	StaticMu, DynamicMu, RollingMu float64
	MaxSteerDeg float64
	Brake       BrakeGroup
	Steer       SteerType
	Retractable bool

	// CorneringTable maps slip angle (deg) to lateral force coefficient;
	// nil selects the Pacejka default (§4.3 step 8).
	CorneringTable func(slipDeg float64) float64
	PacejkaB, PacejkaC, PacejkaD, PacejkaE float64

	RFRV, SFRV           float64 // relaxation velocities, ft/s
	FilterX, FilterY     float64 // per-axis low-pass coefficients, 0..1
	WheelSlipFilterCoeff float64

	TirePressureNorm float64

	// state
	WOW            bool
	CompressLength float64
	CompressSpeed  float64
	SteerAngleRad  float64
	WheelSlipDeg   float64
	BrakePct       float64
	GearPos        float64 // 1 = fully down

	filteredFx, filteredFy float64
	prevWOW                bool
	crashStreak            int

	Touchdown   TouchdownReport
}

// TouchdownReport accumulates the §4.3 step 13 event counters.
type TouchdownReport struct {
	Landed          bool
	SinkRateFtS     float64
	GroundSpeedFtS  float64
	TookOff         bool
	TakeoffRollFt   float64
	takeoffBaseline []float64
}

// NewGearUnit returns a GearUnit from its load-time config, defaulted to
// fully down and airborne.
func NewGearUnit(aircraft string, cfg GearConfig) *GearUnit {
	g := &GearUnit{
		logger:      NewSubsysLogger(aircraft, "gear:"+cfg.Name),
		Name:        cfg.Name,
		StructIn:    cfg.StructIn,
		SpringLbFt:  cfg.SpringLbFt,
		DampLbFtS:   cfg.DampLbFtS,
		ReboundLbFtS: cfg.DampLbFtS,
		StaticMu:    cfg.StaticMu,
		DynamicMu:   cfg.DynamicMu,
		RollingMu:   cfg.RollingMu,
		MaxSteerDeg: cfg.MaxSteerDeg,
		Retractable: cfg.Retractable,
		GearPos:     1,
		PacejkaB:    0.06, PacejkaC: 2.8, PacejkaD: cfg.StaticMu, PacejkaE: 1.03,
		RFRV: 0.5, SFRV: 0.5, FilterX: 1, FilterY: 1,
	}
	if cfg.Steerable {
		g.Steer = SteerSteerable
	}
	return g
}

// GroundContact is what the external ground callback returns for a query
// point (§6).
type GroundContact struct {
	ContactECEF        []float64
	NormalECEF         []float64
	VelocityECEF       []float64
	AngularVelocityECEF []float64
	AGL                float64
}

// GroundCallback is the §6 external collaborator contract: given the
// simulation time and a query point (ECEF) plus a radius hint, it returns
// the terrain contact point, normal, and local kinematics.
type GroundCallback interface {
	Query(tSeconds float64, ecefQuery []float64, radiusHint float64) (GroundContact, error)
}

// Run advances one gear unit by one tick (§4.3). It is only meaningful
// when AGL < 300 ft; the caller (GroundReactions) is responsible for that
// gate. cs is the tick's CoreState, steerCmd/brakeCmd/gearCmd come from
// FCS EffectorPositions, and tSeconds is simulation time for the ground
// callback. A StaleGroundCache error from cb is non-fatal: Run still
// computes this tick's force from the cached contact the callback returns
// alongside it, and reports the warning to the caller instead of dropping
// the force outright. A Crash error is fatal to the tick but not the run.
func (g *GearUnit) Run(cs CoreState, cb GroundCallback, tSeconds float64, steerCmd, brakeCmd, gearCmd float64) (forceBody, momentBody []float64, err error) {
	g.GearPos = gearCmd

	if g.Retractable && g.GearPos < 0.01 {
		g.WOW = false
		return []float64{0, 0, 0}, []float64{0, 0, 0}, nil
	}

	rBody := StructuralToBody(g.StructIn, []float64{0, 0, 0})
	wheelECEF := Add(cs.Location.ECEF(), MxV33(cs.Tb2ec, rBody))

	velocityMagEst := Norm(cs.VUVW)
	radiusHint := Norm(rBody) + 2*0.02*velocityMagEst // §9 open question: tip velocity rotational term not included

	contact, cerr := cb.Query(tSeconds, wheelECEF, radiusHint)
	var staleErr error
	if cerr != nil {
		if merr, ok := cerr.(*ModelError); ok && merr.Kind == StaleGroundCache {
			// §7: StaleGroundCache is warning-only; the callback still
			// hands back its last known contact, so keep flying on it
			// instead of dropping this unit's force for the tick. The
			// warning itself is still reported to the caller.
			staleErr = merr
		} else {
			return nil, nil, cerr
		}
	}

	g.CompressLength = math.Max(0, -contact.AGL)
	if contact.AGL >= 0 {
		g.WOW = false
		g.CompressLength = 0
		g.CompressSpeed = 0
		g.WheelSlipDeg = 0
		if g.GearPos > 0.8 {
			g.SteerAngleRad *= math.Max(0, (g.GearPos-0.8)/0.2)
		}
		g.advanceReporting(cs, false)
		return []float64{0, 0, 0}, []float64{0, 0, 0}, staleErr
	}
	g.WOW = true

	omega := cs.VPQR
	wheelVelBody := Add(MxV33(cs.Tb2l, Cross(omega, rBody)), cs.VVelNED)
	contactVelLocal := MxV33(cs.Tec2l, contact.VelocityECEF)
	wheelVelLocal := Sub(wheelVelBody, contactVelLocal)
	g.CompressSpeed = wheelVelLocal[2]

	switch g.Steer {
	case SteerSteerable:
		g.SteerAngleRad = Deg2rad(g.MaxSteerDeg) * steerCmd
	case SteerFixed:
		g.SteerAngleRad = 0
	case SteerCastered:
		g.SteerAngleRad = math.Atan2(wheelVelLocal[1], wheelVelLocal[0])
	}

	muBrake := (1-brakeCmd)*g.RollingMu + brakeCmd*g.StaticMu

	psi := g.SteerAngleRad
	sPsi, cPsi := math.Sincos(psi)
	vRoll := wheelVelLocal[0]*cPsi + wheelVelLocal[1]*sPsi
	vSide := -wheelVelLocal[0]*sPsi + wheelVelLocal[1]*cPsi
	slipDeg := math.Atan2(vSide, math.Abs(vRoll)) * rad2deg
	if g.WheelSlipFilterCoeff > 0 {
		g.WheelSlipDeg += g.WheelSlipFilterCoeff * (slipDeg - g.WheelSlipDeg)
	} else {
		g.WheelSlipDeg = slipDeg
	}

	fSpring := -g.SpringLbFt * g.CompressLength
	var fDamp float64
	if g.CompressSpeed >= 0 {
		if g.DampKind == DampQuadratic {
			fDamp = -g.DampLbFtS * g.CompressSpeed * g.CompressSpeed * Sign(g.CompressSpeed)
		} else {
			fDamp = -g.DampLbFtS * g.CompressSpeed
		}
	} else {
		if g.DampKind == DampQuadratic {
			fDamp = -g.ReboundLbFtS * g.CompressSpeed * g.CompressSpeed * Sign(g.CompressSpeed)
		} else {
			fDamp = -g.ReboundLbFtS * g.CompressSpeed
		}
	}
	fz := math.Min(fSpring+fDamp, 0)

	fyCoef := g.lateralCoefficient(g.WheelSlipDeg)

	fRoll := (0.3*(1-g.TirePressureNorm) + fz*muBrake) * Sign(vRoll)
	fSide := fz * fyCoef

	fxLocal := fRoll*cPsi - fSide*sPsi
	fyLocal := fSide*cPsi + fRoll*sPsi

	fxLocal = g.jitterSuppress(fxLocal, math.Abs(vRoll), g.RFRV)
	fyLocal = g.jitterSuppress(fyLocal, math.Abs(vSide), g.SFRV)

	g.filteredFx += g.FilterX * (fxLocal - g.filteredFx)
	g.filteredFy += g.FilterY * (fyLocal - g.filteredFy)

	fLocal := []float64{g.filteredFx, g.filteredFy, fz}
	forceBody = MxV33(cs.Tl2b, fLocal)
	momentBody = Cross(rBody, forceBody)

	g.advanceReporting(cs, true)
	if crashErr := g.checkCrash(forceBody, momentBody); crashErr != nil {
		return forceBody, momentBody, crashErr
	}

	return forceBody, momentBody, staleErr
}

// lateralCoefficient implements §4.3 step 8: a supplied table, else the
// Pacejka magic formula.
func (g *GearUnit) lateralCoefficient(slipDeg float64) float64 {
	if g.CorneringTable != nil {
		return g.CorneringTable(slipDeg)
	}
	x := slipDeg
	b, c, d, e := g.PacejkaB, g.PacejkaC, g.PacejkaD, g.PacejkaE
	bx := b * x
	return d * math.Sin(c*math.Atan(bx-e*(bx-math.Atan(bx))))
}

// jitterSuppress scales a planar force linearly to zero below the
// relaxation velocity, suppressing chatter at rest (§4.3 step 11).
func (g *GearUnit) jitterSuppress(force, speed, relaxVel float64) float64 {
	if relaxVel <= 0 || speed >= relaxVel {
		return force
	}
	return force * (speed / relaxVel)
}

// advanceReporting implements §4.3 step 13's event bookkeeping.
func (g *GearUnit) advanceReporting(cs CoreState, wow bool) {
	if wow && !g.prevWOW {
		g.Touchdown.Landed = true
		g.Touchdown.SinkRateFtS = -g.CompressSpeed
		g.Touchdown.GroundSpeedFtS = Norm(cs.VVelNED[:2])
	}
	if !wow && g.prevWOW {
		g.Touchdown.takeoffBaseline = append([]float64(nil), cs.Location.ECEF()...)
	}
	if !wow && cs.AGL > 50 && g.Touchdown.takeoffBaseline != nil {
		g.Touchdown.TookOff = true
		g.Touchdown.TakeoffRollFt = Norm(Sub(cs.Location.ECEF(), g.Touchdown.takeoffBaseline))
	}
	g.prevWOW = wow
}

// checkCrash implements §4.3 step 13's crash-detect thresholds, requiring
// sustained violation across two ticks before raising a Crash error.
func (g *GearUnit) checkCrash(forceBody, momentBody []float64) *ModelError {
	violated := g.CompressLength > 500 || Norm(forceBody) > 1e8 || Norm(momentBody) > 5e9 || g.Touchdown.SinkRateFtS > 44
	if violated {
		g.crashStreak++
	} else {
		g.crashStreak = 0
	}
	if g.crashStreak >= 2 {
		return newModelError(Crash, "gear:"+g.Name, "crash thresholds exceeded")
	}
	return nil
}
