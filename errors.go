package fdm

import "fmt"

// ErrorKind enumerates the failure taxonomy of §7.
type ErrorKind uint8

const (
	// ConfigInvalid is a fatal load-time configuration problem.
	ConfigInvalid ErrorKind = iota + 1
	// NumericDivergence is a fatal tick-time state-sanity violation.
	NumericDivergence
	// Crash is a non-fatal ground-reactions crash detection.
	Crash
	// AltitudeUnderground behaves as Crash (AGL < -100 ft).
	AltitudeUnderground
	// UnknownEngineOrGearType is a fatal load-time problem.
	UnknownEngineOrGearType
	// StaleGroundCache is a warning only; propagation continues.
	StaleGroundCache
)

func (k ErrorKind) String() string {
	switch k {
	case ConfigInvalid:
		return "ConfigInvalid"
	case NumericDivergence:
		return "NumericDivergence"
	case Crash:
		return "Crash"
	case AltitudeUnderground:
		return "AltitudeUnderground"
	case UnknownEngineOrGearType:
		return "UnknownEngineOrGearType"
	case StaleGroundCache:
		return "StaleGroundCache"
	default:
		return "Unknown"
	}
}

// ModelError wraps one of the §7 error kinds with a human-readable message
// and the submodel that raised it.
type ModelError struct {
	Kind    ErrorKind
	Subsys  string
	Message string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Subsys, e.Message)
}

// Fatal reports whether this error must abort the run rather than just
// being logged (§7 policy: "config problems prevent startup", "numeric
// problems are surfaced").
func (e *ModelError) Fatal() bool {
	switch e.Kind {
	case ConfigInvalid, NumericDivergence, UnknownEngineOrGearType:
		return true
	default:
		return false
	}
}

// newModelError constructs a ModelError.
func newModelError(kind ErrorKind, subsys, format string, args ...interface{}) *ModelError {
	return &ModelError{Kind: kind, Subsys: subsys, Message: fmt.Sprintf(format, args...)}
}
