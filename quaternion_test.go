package fdm

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestIdentityQuaternionEulerIsZero(t *testing.T) {
	phi, theta, psi := IdentityQuaternion().Euler()
	if phi != 0 || theta != 0 || psi != 0 {
		t.Fatalf("identity quaternion should have zero Euler angles, got %f %f %f", phi, theta, psi)
	}
}

func TestQuaternionFromEulerRoundTrip(t *testing.T) {
	cases := [][3]float64{
		{0.1, 0.2, 0.3},
		{-0.5, 0.05, 1.2},
		{0, math.Pi / 4, 0},
		{0, 0, 0},
	}
	for _, c := range cases {
		q := QuaternionFromEuler(c[0], c[1], c[2])
		phi, theta, psi := q.Euler()
		if !floats.EqualWithinAbs(phi, c[0], 1e-9) ||
			!floats.EqualWithinAbs(theta, c[1], 1e-9) ||
			!floats.EqualWithinAbs(psi, c[2], 1e-9) {
			t.Fatalf("round trip failed for %v: got phi=%f theta=%f psi=%f", c, phi, theta, psi)
		}
	}
}

func TestQuaternionNormUnityForEulerBuilt(t *testing.T) {
	q := QuaternionFromEuler(0.3, -0.4, 1.1)
	if !floats.EqualWithinAbs(q.Norm(), 1, 1e-12) {
		t.Fatalf("a quaternion built from Euler angles should be unit norm, got %f", q.Norm())
	}
}

func TestQuaternionMulWithIdentityIsNoop(t *testing.T) {
	q := QuaternionFromEuler(0.2, 0.3, 0.4)
	id := IdentityQuaternion()
	got := id.Mul(q)
	if !floats.EqualWithinAbs(got.W, q.W, 1e-12) || !floats.EqualWithinAbs(got.X, q.X, 1e-12) ||
		!floats.EqualWithinAbs(got.Y, q.Y, 1e-12) || !floats.EqualWithinAbs(got.Z, q.Z, 1e-12) {
		t.Fatalf("identity*q should equal q, got %+v want %+v", got, q)
	}
}

func TestQuaternionMulIsAssociative(t *testing.T) {
	a := QuaternionFromEuler(0.1, 0.2, 0.3)
	b := QuaternionFromEuler(-0.2, 0.4, 0.1)
	c := QuaternionFromEuler(0.3, -0.1, 0.2)

	left := a.Mul(b).Mul(c)
	right := a.Mul(b.Mul(c))
	if !floats.EqualWithinAbs(left.W, right.W, 1e-9) || !floats.EqualWithinAbs(left.X, right.X, 1e-9) ||
		!floats.EqualWithinAbs(left.Y, right.Y, 1e-9) || !floats.EqualWithinAbs(left.Z, right.Z, 1e-9) {
		t.Fatalf("quaternion multiplication should be associative, got left=%+v right=%+v", left, right)
	}
}

func TestQuaternionNormalizedRescalesToUnity(t *testing.T) {
	q := Quaternion{W: 2, X: 0, Y: 0, Z: 0}
	n := q.Normalized()
	if !floats.EqualWithinAbs(n.Norm(), 1, 1e-12) {
		t.Fatalf("expected unit norm after Normalized, got %f", n.Norm())
	}
	if !floats.EqualWithinAbs(n.W, 1, 1e-12) {
		t.Fatalf("expected W=1 after normalizing {2,0,0,0}, got %f", n.W)
	}
}

func TestQuaternionNormalizedZeroFallsBackToIdentity(t *testing.T) {
	var q Quaternion
	n := q.Normalized()
	if n != IdentityQuaternion() {
		t.Fatalf("normalizing the zero quaternion should fall back to identity, got %+v", n)
	}
}

func TestQuaternionDerivativeAtRestIsZero(t *testing.T) {
	q := QuaternionFromEuler(0.1, 0.2, 0.3)
	d := q.Derivative([]float64{0, 0, 0})
	if d.W != 0 || d.X != 0 || d.Y != 0 || d.Z != 0 {
		t.Fatalf("zero body rate should give a zero quaternion derivative, got %+v", d)
	}
}

func TestQuaternionDerivativeMatchesHalfHamiltonProduct(t *testing.T) {
	q := QuaternionFromEuler(0.1, -0.2, 0.3)
	omega := []float64{0.5, -0.2, 0.1}
	d := q.Derivative(omega)
	want := q.Mul(Quaternion{W: 0, X: omega[0], Y: omega[1], Z: omega[2]}).Scale(0.5)
	if d != want {
		t.Fatalf("derivative should equal 1/2 q*(0,omega), got %+v want %+v", d, want)
	}
}
