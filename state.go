package fdm

import (
	"math"
	"time"

	"github.com/gonum/matrix/mat64"
)

// WGS-84 ellipsoid constants (§3, §4.1 step 8) and Earth gravitational
// parameter, all in the internal English unit system (§6): feet, seconds.
const (
	WGS84SemiMajorFt = 20925646.32546 // a, WGS-84 semi-major axis, ft
	WGS84Flattening  = 1 / 298.257223563
	WGS84SemiMinorFt = WGS84SemiMajorFt * (1 - WGS84Flattening) // b
	EarthRotationRps = 7.292115e-5                              // Omega, rad/s
	EarthGM          = 1.408305e16                               // mu = GM, ft^3/s^2
)

// wgs84Eccentricity2 is the square of the ellipsoid's first eccentricity.
var wgs84Eccentricity2 = 1 - (WGS84SemiMinorFt*WGS84SemiMinorFt)/(WGS84SemiMajorFt*WGS84SemiMajorFt)

// Location is the vehicle position on the oblate ellipsoid (§3): geocentric
// longitude, geocentric latitude, and geocentric radius. Geodetic latitude
// and altitude are always derived, never stored, so there is exactly one
// source of truth for position.
type Location struct {
	Longitude float64 // lambda, rad, +East
	GeocLat   float64 // phi, rad geocentric latitude
	Radius    float64 // r, ft from Earth's center
}

// ECEF returns the Cartesian Earth-centered, Earth-fixed position.
func (l Location) ECEF() []float64 {
	sLon, cLon := math.Sincos(l.Longitude)
	sLat, cLat := math.Sincos(l.GeocLat)
	return []float64{
		l.Radius * cLat * cLon,
		l.Radius * cLat * sLon,
		l.Radius * sLat,
	}
}

// LocationFromECEF builds a Location from an ECEF Cartesian position.
func LocationFromECEF(r []float64) Location {
	radius := Norm(r)
	return Location{
		Longitude: math.Atan2(r[1], r[0]),
		GeocLat:   math.Asin(r[2] / radius),
		Radius:    radius,
	}
}

// GeodeticLatAlt returns the WGS-84 geodetic latitude and altitude above
// the ellipsoid (ft) equivalent to this geocentric location, via Bowring's
// closed-form approximation (closed-form, not iterative, to keep Propagate
// a pure function of state with no hidden convergence loop).
func (l Location) GeodeticLatAlt() (geodLat, altFt float64) {
	ecef := l.ECEF()
	p := math.Hypot(ecef[0], ecef[1])
	if p < 1e-9 {
		// Pole singularity: geodetic latitude is +/-90 deg by definition.
		geodLat = Sign(ecef[2]) * math.Pi / 2
		altFt = math.Abs(ecef[2]) - WGS84SemiMinorFt
		return
	}
	theta := math.Atan2(ecef[2]*WGS84SemiMajorFt, p*WGS84SemiMinorFt)
	sinT, cosT := math.Sincos(theta)
	num := ecef[2] + (WGS84SemiMajorFt*WGS84SemiMajorFt-WGS84SemiMinorFt*WGS84SemiMinorFt)/WGS84SemiMinorFt*sinT*sinT*sinT
	den := p - wgs84Eccentricity2*WGS84SemiMajorFt*cosT*cosT*cosT
	geodLat = math.Atan2(num, den)
	sinLat := math.Sin(geodLat)
	n := WGS84SemiMajorFt / math.Sqrt(1-wgs84Eccentricity2*sinLat*sinLat)
	altFt = p/math.Cos(geodLat) - n
	return
}

// GeodeticToGeocentric converts a geodetic (lon, lat, altFt) position into
// the geocentric Location stored by Propagate, inverting GeodeticLatAlt
// within the round-trip tolerance required by §8.
func GeodeticToGeocentric(lon, geodLat, altFt float64) Location {
	sinLat, cosLat := math.Sincos(geodLat)
	n := WGS84SemiMajorFt / math.Sqrt(1-wgs84Eccentricity2*sinLat*sinLat)
	x := (n + altFt) * cosLat
	z := (n*(1-wgs84Eccentricity2) + altFt) * sinLat
	sLon, cLon := math.Sincos(lon)
	return LocationFromECEF([]float64{x * cLon, x * sLon, z})
}

// Transforms bundles the four direction-cosine matrices that are kept
// consistent with the current integrated state (§3 "derived per tick").
type Transforms struct {
	Tl2b, Tb2l   *mat64.Dense
	Tec2b, Tb2ec *mat64.Dense
	Tl2ec, Tec2l *mat64.Dense
	Ti2ec, Tec2i *mat64.Dense
	Ti2b, Tb2i   *mat64.Dense
}

// BuildTransforms refreshes all four-frame transforms from the current
// quaternion, location, and Earth rotation angle (§4.1 step 2).
func BuildTransforms(q Quaternion, loc Location, earthAngle float64) Transforms {
	tl2b := DCMFromQuaternion(q)
	tb2l := Transpose33(tl2b)
	tl2ec := DCMLocalToECEF(loc.Longitude, loc.GeocLat)
	tec2l := Transpose33(tl2ec)
	tec2b := MxM33(tl2b, tec2l)
	tb2ec := Transpose33(tec2b)
	ti2ec := R3(earthAngle)
	tec2i := Transpose33(ti2ec)
	ti2b := MxM33(tec2b, ti2ec)
	tb2i := Transpose33(ti2b)
	return Transforms{
		Tl2b: tl2b, Tb2l: tb2l,
		Tec2b: tec2b, Tb2ec: tb2ec,
		Tl2ec: tl2ec, Tec2l: tec2l,
		Ti2ec: ti2ec, Tec2i: tec2i,
		Ti2b: ti2b, Tb2i: tb2i,
	}
}

// VehicleState is the integrated state quartet (§3): location, body-frame
// translational velocity (vUVW), body-frame angular velocity vs ECEF
// (vPQR), and the Local->Body attitude quaternion.
type VehicleState struct {
	Location Location
	VUVW     []float64 // ft/s, body frame
	VPQR     []float64 // rad/s, body frame, vs ECEF
	VQtrn    Quaternion
}

// CoreState is the immutable snapshot every submodel reads at the start of
// a tick (Design Notes: "Each tick copies the previous tick's integrated
// state into an immutable CoreState borrowed by all submodels; only
// Propagate mutates the next CoreState").
type CoreState struct {
	Time time.Time

	VehicleState
	Transforms

	VPQRi        []float64 // body rates vs ECI
	VVelNED      []float64 // NED velocity
	EarthAngle   float64
	AGL          float64
	TerrainRadFt float64
}
