package fdm

import (
	"math"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/julian"
)

// Inertial is the §2 row-12 submodel: Earth rotation angle, gravity
// magnitude, and the WGS-84 ellipsoid constants. Split out of Propagate
// (as the original FGInertial class is split out of FGPropagate) so
// Propagate only ever reads it, never recomputes it.
type Inertial struct {
	logger  kitlog.Logger
	epoch   time.Time
	J2Accel bool // whether gravity includes the J2 oblateness correction
}

// NewInertial returns an Inertial submodel anchored at epoch, the
// simulation time at which EarthAngle is zero.
func NewInertial(aircraft string, epoch time.Time) *Inertial {
	return &Inertial{logger: NewSubsysLogger(aircraft, "inertial"), epoch: epoch}
}

// EarthAngle returns alpha = Omega * t, the ECI->ECEF rotation angle about
// +Z, referenced to the configured epoch via the Julian date (§4.1 step 2).
func (in *Inertial) EarthAngle(t time.Time) float64 {
	dtSeconds := julian.TimeToJD(t)*86400 - julian.TimeToJD(in.epoch)*86400
	return math.Mod(EarthRotationRps*dtSeconds, 2*math.Pi)
}

// Gravity returns the gravity acceleration vector in the Local (NED) frame
// at the given location: g = mu/r^2 pointing toward Earth's center (i.e.
// straight down in the spherical approximation), optionally refined by a
// J2 latitude-dependent correction.
func (in *Inertial) Gravity(loc Location) []float64 {
	r := loc.Radius
	gMag := EarthGM / (r * r)
	if !in.J2Accel {
		return []float64{0, 0, gMag}
	}
	// J2 correction to the NED gravity vector (small north and down terms).
	const j2 = 1.08263e-3
	sinLat := math.Sin(loc.GeocLat)
	factor := 1.5 * j2 * (WGS84SemiMajorFt / r) * (WGS84SemiMajorFt / r)
	gDown := gMag * (1 + factor*(3*sinLat*sinLat-1))
	gNorth := gMag * factor * 2 * sinLat * math.Cos(loc.GeocLat)
	return []float64{-gNorth, 0, gDown}
}
