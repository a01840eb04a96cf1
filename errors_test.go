package fdm

import "testing"

func TestModelErrorFatal(t *testing.T) {
	fatalKinds := []ErrorKind{ConfigInvalid, NumericDivergence, UnknownEngineOrGearType}
	for _, k := range fatalKinds {
		e := newModelError(k, "test", "boom")
		if !e.Fatal() {
			t.Fatalf("%s should be fatal", k)
		}
	}
	nonFatalKinds := []ErrorKind{Crash, AltitudeUnderground, StaleGroundCache}
	for _, k := range nonFatalKinds {
		e := newModelError(k, "test", "boom")
		if e.Fatal() {
			t.Fatalf("%s should not be fatal", k)
		}
	}
}

func TestModelErrorMessage(t *testing.T) {
	e := newModelError(ConfigInvalid, "mass_balance", "determinant %f below tolerance", 0.0)
	want := "[ConfigInvalid] mass_balance: determinant 0.000000 below tolerance"
	if e.Error() != want {
		t.Fatalf("got %q want %q", e.Error(), want)
	}
}

func TestErrorKindString(t *testing.T) {
	if ErrorKind(0).String() != "Unknown" {
		t.Fatal("zero-value ErrorKind should stringify as Unknown")
	}
	if Crash.String() != "Crash" {
		t.Fatal("Crash should stringify as Crash")
	}
}
