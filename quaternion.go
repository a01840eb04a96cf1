package fdm

import "math"

// Quaternion is a unit quaternion giving the Local->Body rotation (§3:
// vQtrn). Stored as scalar-first (W, X, Y, Z), the convention the rest of
// the propagator assumes when building Tl2b via DCMFromQuaternion.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityQuaternion is the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// QuaternionFromEuler builds the Local->Body quaternion from the 3-2-1
// Euler sequence (phi=roll, theta=pitch, psi=yaw), matching Tl2b's Euler
// view (§3: "Euler (phi,theta,psi) are a derived view").
func QuaternionFromEuler(phi, theta, psi float64) Quaternion {
	sPhi, cPhi := math.Sincos(phi * 0.5)
	sTheta, cTheta := math.Sincos(theta * 0.5)
	sPsi, cPsi := math.Sincos(psi * 0.5)
	return Quaternion{
		W: cPhi*cTheta*cPsi + sPhi*sTheta*sPsi,
		X: sPhi*cTheta*cPsi - cPhi*sTheta*sPsi,
		Y: cPhi*sTheta*cPsi + sPhi*cTheta*sPsi,
		Z: cPhi*cTheta*sPsi - sPhi*sTheta*cPsi,
	}
}

// Norm returns the quaternion's Euclidean norm, which invariant 1 (§8)
// requires stay within 1e-10 of unity after every integration step.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalized returns q scaled back to unit norm.
func (q Quaternion) Normalized() Quaternion {
	n := q.Norm()
	if n == 0 {
		return IdentityQuaternion()
	}
	return Quaternion{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Mul returns the Hamilton product q*r.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Scale multiplies every component of q by s. Used only for building
// quaternion derivatives, never for a rotation itself (a scaled quaternion
// is no longer unit).
func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{q.W * s, q.X * s, q.Y * s, q.Z * s}
}

// AddQ adds two quaternions component-wise (integrator accumulation only).
func (q Quaternion) AddQ(r Quaternion) Quaternion {
	return Quaternion{q.W + r.W, q.X + r.X, q.Y + r.Y, q.Z + r.Z}
}

// Euler returns the 3-2-1 Euler angles (phi, theta, psi) equivalent to q.
func (q Quaternion) Euler() (phi, theta, psi float64) {
	sinr_cosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosr_cosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	phi = math.Atan2(sinr_cosp, cosr_cosp)

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	if sinp >= 1 {
		theta = math.Pi / 2
	} else if sinp <= -1 {
		theta = -math.Pi / 2
	} else {
		theta = math.Asin(sinp)
	}

	siny_cosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosy_cosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	psi = math.Atan2(siny_cosp, cosy_cosp)
	return
}

// Derivative returns qdot = 1/2 * q (x) (0, omega), the rate of change of
// the Local->Body quaternion for a body rate omega expressed relative to
// the Local frame (§4.1 step 6).
func (q Quaternion) Derivative(omega []float64) Quaternion {
	omegaQ := Quaternion{W: 0, X: omega[0], Y: omega[1], Z: omega[2]}
	return q.Mul(omegaQ).Scale(0.5)
}
