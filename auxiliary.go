package fdm

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// Auxiliary is the §4.5 submodel: derived airspeed, pressure, and
// specific-force quantities for downstream use and publication. The
// executor also hands the previous tick's Mach to Propulsion.
type Auxiliary struct {
	logger kitlog.Logger

	startLon, startLat float64
	started            bool

	Vt, Alpha, Beta     float64
	Qbar, Mach          float64
	Vcas, Veas          float64
	PilotAccelBody      []float64
	DeltaLonFt, DeltaLatFt float64
}

// NewAuxiliary returns an Auxiliary submodel.
func NewAuxiliary(aircraft string) *Auxiliary {
	return &Auxiliary{logger: NewSubsysLogger(aircraft, "auxiliary")}
}

// windBlend implements §4.5's ground-handling detail: when WOW and u<10
// ft/s, treat relative wind as zero; blend linearly between 10 and 30.
func windBlend(vAeroBody []float64, wow bool, u float64) []float64 {
	if !wow {
		return vAeroBody
	}
	switch {
	case u < 10:
		return []float64{0, 0, 0}
	case u < 30:
		frac := (u - 10) / 20
		return VScale(frac, vAeroBody)
	default:
		return vAeroBody
	}
}

// Run computes every derived quantity for the tick (§4.5).
func (ax *Auxiliary) Run(cs CoreState, windNED []float64, soundSpeed, density, pressLbf float64, wow bool, aBody, vPQRdot, vPQRi []float64, eyeStructIn, cgStructIn []float64) {
	windBody := MxV33(cs.Tl2b, windNED)
	vAeroBody := Sub(cs.VUVW, windBody)
	vAeroBody = windBlend(vAeroBody, wow, cs.VUVW[0])

	u, v, w := vAeroBody[0], vAeroBody[1], vAeroBody[2]
	ax.Vt = Norm(vAeroBody)
	ax.Alpha = math.Atan2(w, u)
	ax.Beta = math.Atan2(v, math.Hypot(u, w))
	ax.Qbar = 0.5 * density * ax.Vt * ax.Vt
	if soundSpeed > 0 {
		ax.Mach = ax.Vt / soundSpeed
	}

	var pt float64
	if ax.Mach <= 1 {
		pt = pressLbf * math.Pow(1+0.2*ax.Mach*ax.Mach, 3.5)
	} else {
		// Rayleigh pitot formula behind a normal shock.
		m2 := ax.Mach * ax.Mach
		num := math.Pow(1.2*m2, 3.5) * math.Pow((2.8*m2-0.4)/2.4, -2.5)
		pt = pressLbf * num
	}

	if ax.Qbar > 0 {
		ax.Veas = math.Sqrt(2 * ax.Qbar / slDensity)
	}
	ratio := (pt-pressLbf)/slPressLbf + 1
	if ratio > 0 {
		ax.Vcas = math.Sqrt(7 * slPressLbf / slDensity * (math.Pow(ratio, 2.0/7.0) - 1))
	}

	rEyeBody := StructuralToBody(eyeStructIn, cgStructIn)
	angularAccelTerm := Cross(vPQRdot, rEyeBody)
	centripetalTerm := Cross(vPQRi, Cross(vPQRi, rEyeBody))
	ax.PilotAccelBody = Add(aBody, Add(angularAccelTerm, centripetalTerm))

	if !ax.started {
		ax.startLon, ax.startLat = cs.Location.Longitude, cs.Location.GeocLat
		ax.started = true
	}
	ax.DeltaLonFt = (cs.Location.Longitude - ax.startLon) * cs.Location.Radius
	ax.DeltaLatFt = (cs.Location.GeocLat - ax.startLat) * cs.Location.Radius
}
