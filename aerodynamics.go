package fdm

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// AxisSystem selects the aerodynamic force/moment axis convention (§4.2).
// Exactly one is active per aircraft: Aerodynamics.Axes holds a single
// value, so conventions cannot be mixed.
type AxisSystem uint8

const (
	// AxisLiftDrag is wind axes: lift and drag, sign-inverted before
	// rotation to body.
	AxisLiftDrag AxisSystem = iota + 1
	// AxisAxialNormal is body axes with X (axial) and Z (normal) inverted.
	AxisAxialNormal
	// AxisBodyXYZ is body axes directly, no sign inversion.
	AxisBodyXYZ
)

// CoefficientFunc computes one aerodynamic coefficient from the current
// cached variables (§1: "FCS component algebra... modeled as pure
// functions from a property snapshot to outputs" — the same treatment
// applies to aero coefficient tables).
type CoefficientFunc func(v AeroVariables) float64

// AeroVariables are the shared inputs every CoefficientFunc may read,
// computed once per tick (§4.2 step 2).
type AeroVariables struct {
	Alpha, Beta   float64
	Mach          float64
	Qbar          float64
	BOver2V       float64
	CbarOver2V    float64
	ElevatorDeg   float64
	AileronDeg    float64
	RudderDeg     float64
	FlapDeg       float64
}

// Aerodynamics is the §4.2 submodel.
type Aerodynamics struct {
	logger kitlog.Logger

	Axes AxisSystem

	WingAreaFt2 float64
	SpanFt      float64
	ChordFt     float64

	CoefficientsX, CoefficientsY, CoefficientsZ []CoefficientFunc // force axes (as selected by Axes)
	CoefficientsL, CoefficientsM, CoefficientsN []CoefficientFunc // moment axes

	AeroRefPointStructIn []float64
	AeroRefShift         func(mach, alpha float64) []float64 // optional additional shift, body-frame feet

	AlphaCLMax, AlphaHysMin, AlphaHysMax float64
	inStall                              bool

	LastCL, LastCD float64
}

// NewAerodynamics returns an Aerodynamics submodel for the given axis
// convention and reference geometry.
func NewAerodynamics(aircraft string, axes AxisSystem, wingAreaFt2, spanFt, chordFt float64) *Aerodynamics {
	return &Aerodynamics{
		logger:      NewSubsysLogger(aircraft, "aerodynamics"),
		Axes:        axes,
		WingAreaFt2: wingAreaFt2,
		SpanFt:      spanFt,
		ChordFt:     chordFt,
	}
}

// sumAxis evaluates and sums every CoefficientFunc on one axis.
func sumAxis(fns []CoefficientFunc, v AeroVariables) float64 {
	total := 0.0
	for _, f := range fns {
		total += f(v)
	}
	return total
}

// Run computes body-axis aero force and moment about the CG at cgStructIn, given the
// aerodynamic (relative-wind) body velocity and atmosphere (§4.2 steps 1-5).
func (ae *Aerodynamics) Run(vAeroBody []float64, soundSpeed, density float64, elevatorDeg, aileronDeg, rudderDeg, flapDeg float64, cgStructIn []float64) (forceBody, momentBody []float64) {
	u, v, w := vAeroBody[0], vAeroBody[1], vAeroBody[2]
	vt := Norm(vAeroBody)
	alpha := math.Atan2(w, u)
	beta := math.Atan2(v, math.Hypot(u, w))
	qbar := 0.5 * density * vt * vt
	mach := 0.0
	if soundSpeed > 0 {
		mach = vt / soundSpeed
	}

	ae.updateStall(alpha)

	bOver2V, cOver2V := 0.0, 0.0
	if vt > 1e-6 {
		bOver2V = ae.SpanFt / (2 * vt)
		cOver2V = ae.ChordFt / (2 * vt)
	}

	vars := AeroVariables{
		Alpha: alpha, Beta: beta, Mach: mach, Qbar: qbar,
		BOver2V: bOver2V, CbarOver2V: cOver2V,
		ElevatorDeg: elevatorDeg, AileronDeg: aileronDeg, RudderDeg: rudderDeg, FlapDeg: flapDeg,
	}

	cx := sumAxis(ae.CoefficientsX, vars)
	cy := sumAxis(ae.CoefficientsY, vars)
	cz := sumAxis(ae.CoefficientsZ, vars)
	cl := sumAxis(ae.CoefficientsL, vars)
	cm := sumAxis(ae.CoefficientsM, vars)
	cn := sumAxis(ae.CoefficientsN, vars)

	qs := qbar * ae.WingAreaFt2
	ae.LastCL = cz
	if cx != 0 {
		ae.LastCD = -cx
	}

	var fBody []float64
	switch ae.Axes {
	case AxisLiftDrag:
		lift, drag, side := cz*qs, cx*qs, cy*qs
		fWind := []float64{-drag, side, -lift}
		fBody = windToBody(fWind, alpha, beta)
	case AxisAxialNormal:
		fBody = []float64{-cx * qs, cy * qs, -cz * qs}
	default: // AxisBodyXYZ
		fBody = []float64{cx * qs, cy * qs, cz * qs}
	}

	mBody := []float64{cl * qs * ae.SpanFt, cm * qs * ae.ChordFt, cn * qs * ae.SpanFt}

	refStructIn := ae.AeroRefPointStructIn
	refBody := StructuralToBody(refStructIn, cgStructIn)
	if ae.AeroRefShift != nil {
		refBody = Add(refBody, ae.AeroRefShift(mach, alpha))
	}
	mBody = Add(mBody, Cross(refBody, fBody))

	return fBody, mBody
}

// windToBody rotates a wind-axes force vector into the body frame via the
// standard alpha/beta wind-to-body rotation.
func windToBody(fWind []float64, alpha, beta float64) []float64 {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	// Tw2b = [[ca*cb, -ca*sb, -sa], [sb, cb, 0], [sa*cb, -sa*sb, ca]]
	return []float64{
		ca*cb*fWind[0] - ca*sb*fWind[1] - sa*fWind[2],
		sb*fWind[0] + cb*fWind[1],
		sa*cb*fWind[0] - sa*sb*fWind[1] + ca*fWind[2],
	}
}

// updateStall refreshes the hysteresis stall flag (§4.2 step 6).
func (ae *Aerodynamics) updateStall(alpha float64) {
	if !ae.inStall && alpha > ae.AlphaHysMax {
		ae.inStall = true
	} else if ae.inStall && alpha < ae.AlphaHysMin {
		ae.inStall = false
	}
}

// ImpendingStall reports whether alpha has crossed 0.85*alphaCLMax.
func (ae *Aerodynamics) ImpendingStall(alpha float64) bool {
	return alpha > 0.85*ae.AlphaCLMax
}

// InStall reports the current hysteresis stall state.
func (ae *Aerodynamics) InStall() bool { return ae.inStall }

// LoverD returns the last tick's lift-to-drag ratio.
func (ae *Aerodynamics) LoverD() float64 {
	if ae.LastCD == 0 {
		return 0
	}
	return ae.LastCL / ae.LastCD
}
