package fdm

import (
	"testing"

	"github.com/gonum/floats"
)

type fixedGroundCallback struct {
	agl      float64
	velocity []float64
}

func (f fixedGroundCallback) Query(tSeconds float64, ecefQuery []float64, radiusHint float64) (GroundContact, error) {
	return GroundContact{
		ContactECEF:  ecefQuery,
		NormalECEF:   []float64{0, 0, 1},
		VelocityECEF: f.velocity,
		AGL:          f.agl,
	}, nil
}

type staleGroundCallback struct {
	agl float64
}

func (s staleGroundCallback) Query(tSeconds float64, ecefQuery []float64, radiusHint float64) (GroundContact, error) {
	return GroundContact{ContactECEF: ecefQuery, NormalECEF: []float64{0, 0, 1}, VelocityECEF: []float64{0, 0, 0}, AGL: s.agl},
		newModelError(StaleGroundCache, "ground_callback", "using cached terrain")
}

func testGroundCoreState(vuvw []float64) CoreState {
	loc := GeodeticToGeocentric(0, 0, 0)
	xf := BuildTransforms(IdentityQuaternion(), loc, 0)
	return CoreState{
		VehicleState: VehicleState{Location: loc, VUVW: vuvw, VPQR: []float64{0, 0, 0}, VQtrn: IdentityQuaternion()},
		Transforms:   xf,
		VVelNED:      MxV33(xf.Tb2l, vuvw),
		AGL:          0,
	}
}

func TestGearUnitAirborneProducesNoForce(t *testing.T) {
	g := NewGearUnit("test", GearConfig{Name: "nose", StructIn: []float64{0, 0, 0}, SpringLbFt: 1000, DampLbFtS: 100, StaticMu: 0.8, DynamicMu: 0.6, RollingMu: 0.02})
	cb := fixedGroundCallback{agl: 50, velocity: []float64{0, 0, 0}}
	cs := testGroundCoreState([]float64{100, 0, 0})

	force, moment, err := g.Run(cs, cb, 0, 0, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !floats.Equal(force, []float64{0, 0, 0}) || !floats.Equal(moment, []float64{0, 0, 0}) {
		t.Fatalf("airborne gear should produce no force, got force=%v moment=%v", force, moment)
	}
	if g.WOW {
		t.Fatal("airborne gear should not report weight-on-wheels")
	}
}

func TestGearUnitStaticWeightOnWheelsPushesUp(t *testing.T) {
	g := NewGearUnit("test", GearConfig{Name: "nose", StructIn: []float64{0, 0, 0}, SpringLbFt: 1000, DampLbFtS: 100, StaticMu: 0.8, DynamicMu: 0.6, RollingMu: 0.02})
	cb := fixedGroundCallback{agl: -0.5, velocity: []float64{0, 0, 0}}
	cs := testGroundCoreState([]float64{0, 0, 0})

	force, _, err := g.Run(cs, cb, 0, 0, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !g.WOW {
		t.Fatal("a compressed strut at rest should report weight-on-wheels")
	}
	if force[2] >= 0 {
		t.Fatalf("a compressed strut should push up (negative Fz in body-down axes), got %f", force[2])
	}
}

func TestGearUnitStaleGroundCacheStillComputesForceOnCachedContact(t *testing.T) {
	g := NewGearUnit("test", GearConfig{Name: "nose", StructIn: []float64{0, 0, 0}, SpringLbFt: 1000, DampLbFtS: 100, StaticMu: 0.8, DynamicMu: 0.6, RollingMu: 0.02})
	cb := staleGroundCallback{agl: -0.5}
	cs := testGroundCoreState([]float64{0, 0, 0})

	force, _, err := g.Run(cs, cb, 0, 0, 0, 1)
	merr, ok := err.(*ModelError)
	if !ok || merr.Kind != StaleGroundCache {
		t.Fatalf("expected a StaleGroundCache warning to be reported, got %v", err)
	}
	if !g.WOW {
		t.Fatal("a compressed strut on cached terrain should still report weight-on-wheels")
	}
	if force[2] >= 0 {
		t.Fatalf("force should still be computed from the cached contact, got %f", force[2])
	}
}

func TestGearUnitRetractedGearProducesNoForce(t *testing.T) {
	g := NewGearUnit("test", GearConfig{Name: "nose", StructIn: []float64{0, 0, 0}, SpringLbFt: 1000, DampLbFtS: 100, Retractable: true})
	cb := fixedGroundCallback{agl: -0.5, velocity: []float64{0, 0, 0}}
	cs := testGroundCoreState([]float64{0, 0, 0})

	force, _, err := g.Run(cs, cb, 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !floats.Equal(force, []float64{0, 0, 0}) {
		t.Fatalf("a retracted gear should never contact, got %v", force)
	}
	if g.WOW {
		t.Fatal("a retracted gear should never report weight-on-wheels")
	}
}

func TestLateralCoefficientZeroSlipIsZero(t *testing.T) {
	g := NewGearUnit("test", GearConfig{Name: "nose", StaticMu: 0.8})
	if c := g.lateralCoefficient(0); c != 0 {
		t.Fatalf("zero slip angle should give zero lateral coefficient, got %f", c)
	}
}

func TestLateralCoefficientUsesSuppliedTable(t *testing.T) {
	g := NewGearUnit("test", GearConfig{Name: "nose", StaticMu: 0.8})
	g.CorneringTable = func(slipDeg float64) float64 { return 0.5 }
	if c := g.lateralCoefficient(3); c != 0.5 {
		t.Fatalf("expected the supplied table value, got %f", c)
	}
}

func TestJitterSuppressBelowRelaxationVelocity(t *testing.T) {
	g := &GearUnit{}
	out := g.jitterSuppress(100, 1, 5)
	if !floats.EqualWithinAbs(out, 20, 1e-9) {
		t.Fatalf("expected force scaled to speed/relax = 0.2, got %f", out)
	}
	full := g.jitterSuppress(100, 10, 5)
	if full != 100 {
		t.Fatalf("above relaxation velocity the force should pass through, got %f", full)
	}
}

func TestCheckCrashRequiresTwoConsecutiveTicks(t *testing.T) {
	g := &GearUnit{}
	bigForce := []float64{1e9, 0, 0}
	smallMoment := []float64{0, 0, 0}
	if err := g.checkCrash(bigForce, smallMoment); err != nil {
		t.Fatal("a single violating tick should not yet raise Crash")
	}
	err := g.checkCrash(bigForce, smallMoment)
	if err == nil || err.Kind != Crash {
		t.Fatalf("two consecutive violating ticks should raise Crash, got %v", err)
	}
}

func TestCheckCrashResetsOnGoodTick(t *testing.T) {
	g := &GearUnit{}
	bigForce := []float64{1e9, 0, 0}
	okForce := []float64{100, 0, 0}
	g.checkCrash(bigForce, []float64{0, 0, 0})
	g.checkCrash(okForce, []float64{0, 0, 0})
	if g.crashStreak != 0 {
		t.Fatalf("a good tick should reset the crash streak, got %d", g.crashStreak)
	}
}
