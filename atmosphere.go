package fdm

import (
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// sea-level standard atmosphere constants, English units (§4.5).
const (
	slTempR    = 518.67    // Rankine
	slPressLbf = 2116.217  // lbf/ft^2
	slDensity  = slPressLbf / (gasConstR * slTempR) // slug/ft^3, about 0.0023769
	gasConstR  = 1716.55   // ft*lbf/(slug*R)
	gamma      = 1.4
	sutherlandBeta = 2.269690e-8 // lbf*s/(ft^2*sqrt(R))
	sutherlandTs   = 198.72      // Rankine
	tropopauseFt   = 36089.24
	lapseRPerFt    = -0.0035662
)

// Atmosphere is the §4.5 submodel: standard-atmosphere curve, Sutherland
// viscosity, and wind/turbulence. The altitude curve is pluggable via the
// Curve field so an embedder may substitute hot-day/cold-day tables.
type Atmosphere struct {
	logger kitlog.Logger

	Curve func(altFt float64) (tempR, pressLbf float64)

	WindNED       []float64 // steady wind, ft/s, NED
	TurbulenceOn  bool
	TurbulenceRMS float64 // ft/s, per-axis standard deviation
	rng           *distmv.Normal
}

// NewAtmosphere returns an Atmosphere using the standard curve.
func NewAtmosphere(aircraft string) *Atmosphere {
	return &Atmosphere{
		logger:  NewSubsysLogger(aircraft, "atmosphere"),
		Curve:   StandardAtmosphere,
		WindNED: []float64{0, 0, 0},
	}
}

// StandardAtmosphere is the 1976 US Standard Atmosphere below the
// tropopause, ISA above it to the extent this model is exercised.
func StandardAtmosphere(altFt float64) (tempR, pressLbf float64) {
	if altFt < tropopauseFt {
		tempR = slTempR + lapseRPerFt*altFt
		pressLbf = slPressLbf * math.Pow(tempR/slTempR, 5.2559)
		return
	}
	tempR = slTempR + lapseRPerFt*tropopauseFt
	pressAtTropo := slPressLbf * math.Pow(tempR/slTempR, 5.2559)
	pressLbf = pressAtTropo * math.Exp(-(altFt-tropopauseFt)/(gasConstR*tempR/32.174))
	return
}

// AtmosphereState is the set of derived atmospheric quantities at one altitude (§4.5).
type AtmosphereState struct {
	TempR     float64
	PressLbf  float64
	Density   float64
	SoundSpd  float64
	Viscosity float64
	SigmaRatio, DeltaRatio, ThetaRatio float64
}

// At evaluates the atmosphere at the given altitude and returns the derived
// state plus the NED wind (steady plus turbulence sample, if enabled).
func (a *Atmosphere) At(altFt float64) (AtmosphereState, []float64) {
	t, p := a.Curve(altFt)
	rho := p / (gasConstR * t)
	st := AtmosphereState{
		TempR:      t,
		PressLbf:   p,
		Density:    rho,
		SoundSpd:   math.Sqrt(gamma * gasConstR * t),
		Viscosity:  sutherlandBeta * math.Pow(t, 1.5) / (t + sutherlandTs),
		SigmaRatio: rho / slDensity,
		DeltaRatio: p / slPressLbf,
		ThetaRatio: t / slTempR,
	}

	wind := append([]float64(nil), a.WindNED...)
	if a.TurbulenceOn && a.rng != nil {
		sample := a.rng.Rand(nil)
		wind = Add(wind, sample)
	}
	return st, wind
}

// SetTurbulence configures Gaussian NED wind turbulence with the given
// per-axis RMS magnitude, sampled on each At call via gonum/stat/distmv.
// Body rates (PQR) are not perturbed.
func (a *Atmosphere) SetTurbulence(rmsFtS float64) error {
	v := rmsFtS * rmsFtS
	sigma := mat64.NewSymDense(3, []float64{v, 0, 0, 0, v, 0, 0, 0, v})
	rng, ok := distmv.NewNormal([]float64{0, 0, 0}, sigma, nil)
	if !ok {
		return newModelError(ConfigInvalid, "atmosphere", "turbulence covariance is not positive definite")
	}
	a.TurbulenceOn = true
	a.TurbulenceRMS = rmsFtS
	a.rng = rng
	return nil
}
