package fdm

import (
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func TestMassBalanceEmptyOnly(t *testing.T) {
	j := mat64.NewDense(3, 3, []float64{
		1000, 0, 0,
		0, 1500, 0,
		0, 0, 2000,
	})
	mb := NewMassBalance("test", 2000, []float64{100, 0, 50}, j)
	if err := mb.Compute(); err != nil {
		t.Fatalf("Compute failed: %s", err)
	}
	if !floats.EqualWithinAbs(mb.Weight(), 2000, 1e-9) {
		t.Fatalf("expected weight 2000, got %f", mb.Weight())
	}
	wantMass := 2000 / standardGravityFtS2
	if !floats.EqualWithinAbs(mb.Mass(), wantMass, 1e-9) {
		t.Fatalf("expected mass %f, got %f", wantMass, mb.Mass())
	}
	for i, v := range mb.CGStructIn() {
		if !floats.EqualWithinAbs(v, []float64{100, 0, 50}[i], 1e-9) {
			t.Fatalf("CG with no added mass should equal empty CG, got %v", mb.CGStructIn())
		}
	}
}

func TestMassBalanceTankShiftsCG(t *testing.T) {
	j := mat64.NewDense(3, 3, []float64{1000, 0, 0, 0, 1500, 0, 0, 0, 2000})
	mb := NewMassBalance("test", 2000, []float64{100, 0, 50}, j)
	mb.AddTank(&Tank{
		PointMass:   PointMass{Name: "main", WeightLbs: 600, StructIn: []float64{300, 0, 50}},
		CapacityGal: 100, ContentsLbs: 600, FuelDensity: 6,
	})
	if err := mb.Compute(); err != nil {
		t.Fatalf("Compute failed: %s", err)
	}
	wantX := (2000*100 + 600*300) / 2600.0
	if !floats.EqualWithinAbs(mb.CGStructIn()[0], wantX, 1e-6) {
		t.Fatalf("expected CG x %f, got %f", wantX, mb.CGStructIn()[0])
	}
	if mb.JInvBody() == nil {
		t.Fatal("expected a cached inverse inertia tensor")
	}
}

func TestMassBalanceChildFDMContributesWeightAndCG(t *testing.T) {
	j := mat64.NewDense(3, 3, []float64{1000, 0, 0, 0, 1500, 0, 0, 0, 2000})
	mb := NewMassBalance("test", 2000, []float64{100, 0, 50}, j)
	mb.AddChildFDM(&ChildFDM{Name: "glider", WeightLbs: 400, StructIn: []float64{500, 0, 50}})
	if err := mb.Compute(); err != nil {
		t.Fatalf("Compute failed: %s", err)
	}
	if !floats.EqualWithinAbs(mb.Weight(), 2400, 1e-9) {
		t.Fatalf("expected total weight 2400 including the child FDM, got %f", mb.Weight())
	}
	wantX := (2000*100 + 400*500) / 2400.0
	if !floats.EqualWithinAbs(mb.CGStructIn()[0], wantX, 1e-6) {
		t.Fatalf("expected CG x %f, got %f", wantX, mb.CGStructIn()[0])
	}
	if mb.JInvBody() == nil {
		t.Fatal("expected a cached inverse inertia tensor")
	}
}

func TestMassBalanceZeroWeightIsConfigInvalid(t *testing.T) {
	j := mat64.NewDense(3, 3, []float64{1000, 0, 0, 0, 1500, 0, 0, 0, 2000})
	mb := NewMassBalance("test", 0, []float64{0, 0, 0}, j)
	err := mb.Compute()
	if err == nil {
		t.Fatal("expected an error for zero total weight")
	}
	merr, ok := err.(*ModelError)
	if !ok || merr.Kind != ConfigInvalid {
		t.Fatalf("expected ConfigInvalid, got %v", err)
	}
}

func TestInvert3x3SymmetricDiagonal(t *testing.T) {
	j := mat64.NewDense(3, 3, []float64{2, 0, 0, 0, 4, 0, 0, 0, 8})
	inv, err := Invert3x3Symmetric(j)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := []float64{0.5, 0.25, 0.125}
	got := []float64{inv.At(0, 0), inv.At(1, 1), inv.At(2, 2)}
	for i := range want {
		if !floats.EqualWithinAbs(got[i], want[i], 1e-9) {
			t.Fatalf("diagonal inverse mismatch at %d: got %f want %f", i, got[i], want[i])
		}
	}
}

func TestInvert3x3SymmetricSingularReturnsConfigInvalid(t *testing.T) {
	j := mat64.NewDense(3, 3, nil)
	_, err := Invert3x3Symmetric(j)
	merr, ok := err.(*ModelError)
	if !ok || merr.Kind != ConfigInvalid {
		t.Fatalf("expected ConfigInvalid for a singular tensor, got %v", err)
	}
}

func TestParallelAxisShiftZeroOffsetIsZero(t *testing.T) {
	shift := parallelAxisShift(10, []float64{0, 0, 0})
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if shift.At(i, j) != 0 {
				t.Fatalf("zero-offset parallel axis shift should vanish, got %f at (%d,%d)", shift.At(i, j), i, j)
			}
		}
	}
}
