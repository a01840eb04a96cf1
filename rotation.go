package fdm

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a 3x3 matrix with a 3-vector. No dimension check.
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// MxM33 multiplies two 3x3 matrices.
func MxM33(a, b *mat64.Dense) *mat64.Dense {
	var c mat64.Dense
	c.Mul(a, b)
	return &c
}

// Transpose33 returns the transpose of a 3x3 matrix.
func Transpose33(m *mat64.Dense) *mat64.Dense {
	var t mat64.Dense
	t.Clone(m.T())
	return &t
}

// DCMFromQuaternion builds the Local->Body direction cosine matrix Tl2b
// from the unit quaternion giving that rotation (§3, Tl2b = from(vQtrn)).
func DCMFromQuaternion(q Quaternion) *mat64.Dense {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return mat64.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y),
		2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x),
		2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y),
	})
}

// DCMFromEarthAngle builds Ti2ec, the rotation from ECI to ECEF by Earth's
// rotation angle alpha = Omega*t about the polar (+Z) axis.
func DCMFromEarthAngle(alpha float64) *mat64.Dense {
	return R3(alpha)
}

// DCMLocalToECEF builds Tl2ec from the vehicle's geocentric longitude and
// latitude: the columns are the ECEF representation of the NED basis
// vectors (North, East, Down) of the tangent plane at (lon, lat).
func DCMLocalToECEF(lon, lat float64) *mat64.Dense {
	sLon, cLon := math.Sincos(lon)
	sLat, cLat := math.Sincos(lat)
	return mat64.NewDense(3, 3, []float64{
		-sLat * cLon, -sLon, -cLat * cLon,
		-sLat * sLon, cLon, -cLat * sLon,
		cLat, 0, -sLat,
	})
}

