package fdm

import (
	"testing"

	"github.com/gonum/floats"
)

func constCoeff(v float64) CoefficientFunc {
	return func(AeroVariables) float64 { return v }
}

func TestAerodynamicsRunBodyXYZAxesPassthrough(t *testing.T) {
	ae := NewAerodynamics("test", AxisBodyXYZ, 200, 36, 6)
	ae.CoefficientsZ = []CoefficientFunc{constCoeff(-0.5)}
	ae.AeroRefPointStructIn = []float64{150, 0, 40}

	cgStructIn := []float64{150, 0, 40}
	force, _ := ae.Run([]float64{100, 0, 0}, 1100, 0.0023769, 0, 0, 0, 0, cgStructIn)

	qbar := 0.5 * 0.0023769 * 100 * 100
	wantFz := -0.5 * qbar * 200
	if !floats.EqualWithinAbs(force[2], wantFz, 1e-3) {
		t.Fatalf("expected Fz %f, got %f", wantFz, force[2])
	}
}

func TestAerodynamicsMachComputation(t *testing.T) {
	ae := NewAerodynamics("test", AxisBodyXYZ, 200, 36, 6)
	ae.AeroRefPointStructIn = []float64{150, 0, 40}
	ae.CoefficientsX = []CoefficientFunc{func(v AeroVariables) float64 {
		if !floats.EqualWithinAbs(v.Mach, 0.5, 1e-6) {
			t.Fatalf("expected mach 0.5, got %f", v.Mach)
		}
		return 0
	}}
	soundSpeed := 1100.0
	ae.Run([]float64{550, 0, 0}, soundSpeed, 0.0023769, 0, 0, 0, 0, []float64{150, 0, 40})
}

func TestUpdateStallHysteresis(t *testing.T) {
	ae := NewAerodynamics("test", AxisBodyXYZ, 200, 36, 6)
	ae.AlphaHysMax = Deg2rad(16)
	ae.AlphaHysMin = Deg2rad(12)

	ae.updateStall(Deg2rad(10))
	if ae.InStall() {
		t.Fatal("should not be in stall below the hysteresis band")
	}
	ae.updateStall(Deg2rad(17))
	if !ae.InStall() {
		t.Fatal("should enter stall above AlphaHysMax")
	}
	ae.updateStall(Deg2rad(14))
	if !ae.InStall() {
		t.Fatal("should remain in stall inside the hysteresis band")
	}
	ae.updateStall(Deg2rad(11))
	if ae.InStall() {
		t.Fatal("should exit stall below AlphaHysMin")
	}
}

func TestImpendingStall(t *testing.T) {
	ae := NewAerodynamics("test", AxisBodyXYZ, 200, 36, 6)
	ae.AlphaCLMax = Deg2rad(16)
	if ae.ImpendingStall(Deg2rad(10)) {
		t.Fatal("10 deg should not be an impending stall for a 16 deg CLmax")
	}
	if !ae.ImpendingStall(Deg2rad(15)) {
		t.Fatal("15 deg should be an impending stall for a 16 deg CLmax")
	}
}

func TestLoverDZeroDragIsZero(t *testing.T) {
	ae := NewAerodynamics("test", AxisBodyXYZ, 200, 36, 6)
	if ae.LoverD() != 0 {
		t.Fatal("L/D with no recorded drag should be zero, not divide by zero")
	}
}

func TestWindToBodyZeroAlphaBeta(t *testing.T) {
	out := windToBody([]float64{-10, 0, -100}, 0, 0)
	want := []float64{-10, 0, -100}
	for i := range want {
		if !floats.EqualWithinAbs(out[i], want[i], 1e-12) {
			t.Fatalf("zero alpha/beta should be identity: got %v want %v", out, want)
		}
	}
}
