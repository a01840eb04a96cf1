package fdm

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// sanity bounds for vehicle state (§4.1 edge-case policy).
const (
	maxOmegaRadPerSec = 1000
	maxVelocityFtPerSec = 1e10
	maxAGLMagnitudeFt   = 1e10
)

// Derivatives bundles the per-tick derivative calculation of §4.1.
type Derivatives struct {
	VPQRdot      []float64
	VUVWdot      []float64
	VQtrndot     Quaternion
	VLocationDot []float64 // d(ECEF position)/dt, ft/s
}

// Propagate is the §4.1 submodel: it maintains the state quartet and steps
// it forward by dt*rate each tick using the current forces, moments, mass
// and inertia. It holds derivative history for each of the four
// independently-selectable integrator streams.
type Propagate struct {
	logger      kitlog.Logger
	Integrators IntegratorConfig
	Hold        bool

	histPQR  VectorHistory
	histUVW  VectorHistory
	histQtrn QuaternionHistory
	histLoc  VectorHistory

	inertial *Inertial

	state VehicleState
}

// NewPropagate returns a Propagate submodel seeded with the given initial
// state and integrator configuration.
func NewPropagate(aircraft string, initial VehicleState, cfg IntegratorConfig, inertial *Inertial) *Propagate {
	return &Propagate{
		logger:      NewSubsysLogger(aircraft, "propagate"),
		Integrators: cfg,
		inertial:    inertial,
		state:       initial,
	}
}

// State returns the currently integrated vehicle state.
func (p *Propagate) State() VehicleState {
	return p.state
}

// omegaLocal returns the angular velocity of the NED frame w.r.t. ECEF,
// expressed in the Local frame (§4.1 step 3).
func omegaLocal(vNED []float64, loc Location) []float64 {
	radInv := 1 / loc.Radius
	vN, vE := vNED[0], vNED[1]
	return []float64{vE * radInv, -vN * radInv, -vE * radInv * math.Tan(loc.GeocLat)}
}

// Derive computes the per-tick derivatives for the given snapshot,
// body-frame total force/moment about the CG, mass, and inverse inertia
// tensor, following the §4.1 step order exactly. wow reports whether any
// gear unit currently has weight-on-wheels (disables the centripetal term,
// step 7).
func (p *Propagate) Derive(cs CoreState, forceBody, momentBody []float64, mass float64, jBody, jInvBody *mat64.Dense, wow bool) (Derivatives, error) {
	// Step 3: local velocity and its angular rate.
	vVelNED := MxV33(cs.Tb2l, cs.VUVW)
	omLocal := omegaLocal(vVelNED, cs.Location)

	// Step 4: body rates vs ECI.
	omegaECI := []float64{0, 0, EarthRotationRps}
	vPQRi := Add(cs.VPQR, MxV33(cs.Tec2b, omegaECI))

	// Step 5: rotational acceleration about the CG.
	jOmega := MxV33(jBody, vPQRi)
	gyroTerm := Cross(vPQRi, jOmega)
	netMoment := Sub(momentBody, gyroTerm)
	vPQRdot := MxV33(jInvBody, netMoment)

	// Step 6: quaternion derivative.
	relRate := Sub(cs.VPQR, MxV33(cs.Tl2b, omLocal))
	vQtrndot := cs.VQtrn.Derivative(relRate)

	// Step 7: translational acceleration in body frame.
	gravityNED := p.inertial.Gravity(cs.Location)
	gravityBody := MxV33(cs.Tl2b, gravityNED)
	coriolis := VScale(-2, Cross(MxV33(cs.Ti2b, omegaECI), cs.VUVW))
	centrifugal := []float64{0, 0, 0}
	if !wow {
		rECEF := cs.Location.ECEF()
		omegaCrossR := Cross(omegaECI, MxV33(cs.Tec2i, rECEF))
		omegaCrossOmegaCrossR := Cross(omegaECI, omegaCrossR)
		centrifugal = VScale(-1, MxV33(cs.Ti2b, omegaCrossOmegaCrossR))
	}
	vUVWdot := Add(Add(VScale(1/mass, forceBody), VScale(-1, Cross(cs.VPQR, cs.VUVW))), Add(Add(coriolis, centrifugal), gravityBody))

	// Step 8: location derivative in ECEF.
	vLocationDot := MxV33(cs.Tb2ec, cs.VUVW)

	return Derivatives{
		VPQRdot:      vPQRdot,
		VUVWdot:      vUVWdot,
		VQtrndot:     vQtrndot,
		VLocationDot: vLocationDot,
	}, nil
}

// Sanity checks the current state against the §4.1 divergence bounds,
// returning a fatal NumericDivergence ModelError if violated.
func (p *Propagate) Sanity(cs CoreState) error {
	for _, v := range cs.VPQR {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newModelError(NumericDivergence, "propagate", "NaN/Inf in vPQR")
		}
	}
	for _, v := range cs.VUVW {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return newModelError(NumericDivergence, "propagate", "NaN/Inf in vUVW")
		}
	}
	if Norm(cs.VPQR) > maxOmegaRadPerSec {
		return newModelError(NumericDivergence, "propagate", "|vPQR|=%e exceeds sanity bound", Norm(cs.VPQR))
	}
	if Norm(cs.VUVW) > maxVelocityFtPerSec {
		return newModelError(NumericDivergence, "propagate", "|vUVW|=%e exceeds sanity bound", Norm(cs.VUVW))
	}
	if math.Abs(cs.AGL) > maxAGLMagnitudeFt {
		return newModelError(NumericDivergence, "propagate", "AGL=%e exceeds sanity bound", cs.AGL)
	}
	return nil
}

// Step integrates the state quartet forward by dt using d, the
// derivatives computed by Derive for the current tick, then renormalizes
// the quaternion (invariant 1). If p.Hold is set, derivatives are not
// applied and history is not recorded (§4.1 edge-case policy).
func (p *Propagate) Step(dt float64, d Derivatives) {
	if p.Hold {
		return
	}

	newPQR := IntegrateVector(p.Integrators.Rates, p.state.VPQR, d.VPQRdot, dt, &p.histPQR)
	newUVW := IntegrateVector(p.Integrators.Velocities, p.state.VUVW, d.VUVWdot, dt, &p.histUVW)
	newQ := IntegrateQuaternion(p.Integrators.Attitude, p.state.VQtrn, d.VQtrndot, dt, &p.histQtrn).Normalized()

	ecef := p.state.Location.ECEF()
	newECEF := IntegrateVector(p.Integrators.Position, ecef, d.VLocationDot, dt, &p.histLoc)

	p.histPQR.Record(d.VPQRdot)
	p.histUVW.Record(d.VUVWdot)
	p.histQtrn.Record(d.VQtrndot)
	p.histLoc.Record(d.VLocationDot)

	p.state = VehicleState{
		Location: LocationFromECEF(newECEF),
		VUVW:     newUVW,
		VPQR:     newPQR,
		VQtrn:    newQ,
	}
}

// ApplyCGShift nudges the integrated ECEF position by deltaCGBody (the
// per-tick change of CG in the body frame, transformed to ECEF by the
// caller) so integration remains about the current CG (§4.4).
func (p *Propagate) ApplyCGShift(deltaECEF []float64) {
	ecef := p.state.Location.ECEF()
	p.state.Location = LocationFromECEF(Add(ecef, deltaECEF))
}

// freezeForCrash holds the propagator after a crash-detect event (§4.3,
// §7): from then on Step neither applies derivatives nor records history,
// so the state no longer advances.
func (p *Propagate) freezeForCrash() {
	p.Hold = true
}
