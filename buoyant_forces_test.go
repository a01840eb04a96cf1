package fdm

import (
	"testing"

	"github.com/gonum/floats"
)

func TestBuoyantForcesNoCellsIsZero(t *testing.T) {
	bf := NewBuoyantForces("test")
	force, moment := bf.Run(0.0023769, DenseIdentity(3), []float64{0, 0, 0})
	if !floats.Equal(force, []float64{0, 0, 0}) || !floats.Equal(moment, []float64{0, 0, 0}) {
		t.Fatalf("no gas cells should produce no force or moment, got force=%v moment=%v", force, moment)
	}
}

func TestBuoyantForcesHeliumCellLiftsLevel(t *testing.T) {
	bf := NewBuoyantForces("test")
	bf.Add(&GasCell{Name: "main", StructIn: []float64{100, 0, 0}, MaxVolumeFt3: 1000, GasDensitySlugFt3: 0.0003315})
	cgStructIn := []float64{100, 0, 0}
	force, moment := bf.Run(0.0023769, DenseIdentity(3), cgStructIn)

	wantLift := (0.0023769 - 0.0003315) * 1000 * standardGravityFtS2
	if !floats.EqualWithinAbs(force[2], -wantLift, 1e-3) {
		t.Fatalf("expected upward (negative-Z) lift %f, got %v", -wantLift, force)
	}
	if !floats.Equal(moment, []float64{0, 0, 0}) {
		t.Fatalf("lift at the CG should produce no moment, got %v", moment)
	}
}

func TestBuoyantForcesValveReducesLift(t *testing.T) {
	bf := NewBuoyantForces("test")
	bf.Add(&GasCell{Name: "main", StructIn: []float64{0, 0, 0}, MaxVolumeFt3: 1000, GasDensitySlugFt3: 0.0003315, Valve: 0.5})
	force, _ := bf.Run(0.0023769, DenseIdentity(3), []float64{0, 0, 0})

	wantHalf := -(0.0023769 - 0.0003315) * 500 * standardGravityFtS2
	if !floats.EqualWithinAbs(force[2], wantHalf, 1e-3) {
		t.Fatalf("a half-vented cell should lift half as much: got %v want %f", force, wantHalf)
	}
}
