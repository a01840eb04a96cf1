package fdm

import (
	"testing"

	"github.com/gonum/floats"
)

func TestStandardAtmosphereSeaLevel(t *testing.T) {
	temp, press := StandardAtmosphere(0)
	if !floats.EqualWithinAbs(temp, slTempR, 1e-9) {
		t.Fatalf("expected sea level temp %f, got %f", slTempR, temp)
	}
	if !floats.EqualWithinAbs(press, slPressLbf, 1e-6) {
		t.Fatalf("expected sea level pressure %f, got %f", slPressLbf, press)
	}
}

func TestStandardAtmosphereDecreasesWithAltitude(t *testing.T) {
	t0, p0 := StandardAtmosphere(0)
	t1, p1 := StandardAtmosphere(10000)
	if t1 >= t0 {
		t.Fatalf("temperature should decrease with altitude in the troposphere: %f -> %f", t0, t1)
	}
	if p1 >= p0 {
		t.Fatalf("pressure should decrease with altitude: %f -> %f", p0, p1)
	}
}

func TestStandardAtmosphereContinuousAtTropopause(t *testing.T) {
	below, pBelow := StandardAtmosphere(tropopauseFt - 1)
	above, pAbove := StandardAtmosphere(tropopauseFt + 1)
	if !floats.EqualWithinAbs(below, above-lapseRPerFt, 1e-6) {
		t.Fatalf("temperature 1 ft below the tropopause should sit one lapse step above the isothermal layer: %f vs %f", below, above)
	}
	if !floats.EqualWithinAbs(pBelow, pAbove, 1) {
		t.Fatalf("pressure should be continuous at the tropopause: %f vs %f", pBelow, pAbove)
	}
}

func TestAtmosphereAtSeaLevelRatiosAreUnity(t *testing.T) {
	a := NewAtmosphere("test")
	st, wind := a.At(0)
	if !floats.EqualWithinAbs(st.SigmaRatio, 1, 1e-6) {
		t.Fatalf("expected sigma ratio 1 at sea level, got %f", st.SigmaRatio)
	}
	if !floats.EqualWithinAbs(st.DeltaRatio, 1, 1e-6) {
		t.Fatalf("expected delta ratio 1 at sea level, got %f", st.DeltaRatio)
	}
	if !floats.EqualWithinAbs(st.ThetaRatio, 1, 1e-6) {
		t.Fatalf("expected theta ratio 1 at sea level, got %f", st.ThetaRatio)
	}
	if !floats.Equal(wind, []float64{0, 0, 0}) {
		t.Fatalf("expected zero wind with no turbulence configured, got %v", wind)
	}
}

func TestAtmosphereSoundSpeedMatchesSeaLevelValue(t *testing.T) {
	a := NewAtmosphere("test")
	st, _ := a.At(0)
	if !floats.EqualWithinAbs(st.SoundSpd, 1116.4, 1) {
		t.Fatalf("expected sea level speed of sound near 1116.4 ft/s, got %f", st.SoundSpd)
	}
}

func TestSetTurbulenceEnablesSampling(t *testing.T) {
	a := NewAtmosphere("test")
	if err := a.SetTurbulence(5); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	_, wind := a.At(1000)
	if Norm(wind) == 0 {
		t.Fatal("expected a nonzero turbulence-perturbed wind sample")
	}
}
