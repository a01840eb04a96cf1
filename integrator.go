package fdm

// IntegratorType selects one of the five fixed-step integration rules of
// §4.1. Each of the four propagated streams (vPQR, vUVW, vQtrn, location)
// has an independently selectable IntegratorType.
type IntegratorType uint8

const (
	// IntegratorNone freezes the stream: derivatives are computed but
	// never applied.
	IntegratorNone IntegratorType = iota + 1
	// IntegratorRectEuler is x += dt*xdot.
	IntegratorRectEuler
	// IntegratorTrapezoidal is x += dt/2*(xdot + xdot_prev).
	IntegratorTrapezoidal
	// IntegratorAB2 is Adams-Bashforth 2-step.
	IntegratorAB2
	// IntegratorAB3 is Adams-Bashforth 3-step.
	IntegratorAB3
)

func (t IntegratorType) String() string {
	switch t {
	case IntegratorNone:
		return "None"
	case IntegratorRectEuler:
		return "RectEuler"
	case IntegratorTrapezoidal:
		return "Trapezoidal"
	case IntegratorAB2:
		return "AdamsBashforth2"
	case IntegratorAB3:
		return "AdamsBashforth3"
	default:
		return "Unknown"
	}
}

// VectorHistory keeps the two previous derivative samples a stream needs
// for AB2/AB3 (§4.1: "Maintain the two previous derivative samples per
// stream"). A fresh VectorHistory has zero samples: AB2 then runs as Euler
// on the first tick, and AB3 runs as Euler on the first tick and as AB2 on
// the second.
type VectorHistory struct {
	n          int // number of valid history samples (0, 1, or 2)
	prev, prev2 []float64
}

// Record pushes xdot as the newest derivative sample, aging out the oldest.
func (h *VectorHistory) Record(xdot []float64) {
	h.prev2 = h.prev
	h.prev = append([]float64(nil), xdot...)
	if h.n < 2 {
		h.n++
	}
}

// Reset clears all history, returning the stream to its first-tick
// behaviour. Propagate does not call it; Hold leaves history as it is.
func (h *VectorHistory) Reset() {
	h.n = 0
	h.prev = nil
	h.prev2 = nil
}

// IntegrateVector advances x by one step of dt using the selected
// integrator and this stream's derivative history, returning the new
// value. It does not mutate h's recorded history (the caller invokes
// Record separately once the step is accepted) so a caller may evaluate
// candidate steps without committing a derivative sample.
func IntegrateVector(typ IntegratorType, x, xdot []float64, dt float64, h *VectorHistory) []float64 {
	n := len(x)
	out := make([]float64, n)
	switch typ {
	case IntegratorNone:
		copy(out, x)
		return out
	case IntegratorRectEuler:
		for i := 0; i < n; i++ {
			out[i] = x[i] + dt*xdot[i]
		}
		return out
	case IntegratorTrapezoidal:
		prev := xdot
		if h.n >= 1 {
			prev = h.prev
		}
		for i := 0; i < n; i++ {
			out[i] = x[i] + 0.5*dt*(xdot[i]+prev[i])
		}
		return out
	case IntegratorAB2:
		if h.n < 1 {
			// First tick: degrade to Euler (§4.1 edge-case policy).
			for i := 0; i < n; i++ {
				out[i] = x[i] + dt*xdot[i]
			}
			return out
		}
		for i := 0; i < n; i++ {
			out[i] = x[i] + dt*(1.5*xdot[i]-0.5*h.prev[i])
		}
		return out
	case IntegratorAB3:
		if h.n < 1 {
			for i := 0; i < n; i++ {
				out[i] = x[i] + dt*xdot[i]
			}
			return out
		}
		if h.n < 2 {
			// Degrade to AB2 (§4.1 edge-case policy).
			for i := 0; i < n; i++ {
				out[i] = x[i] + dt*(1.5*xdot[i]-0.5*h.prev[i])
			}
			return out
		}
		for i := 0; i < n; i++ {
			out[i] = x[i] + (dt/12)*(23*xdot[i]-16*h.prev[i]+5*h.prev2[i])
		}
		return out
	default:
		panic("unknown integrator type")
	}
}

// QuaternionHistory is VectorHistory specialized to Quaternion derivatives,
// since Quaternion isn't a []float64.
type QuaternionHistory struct {
	n           int
	prev, prev2 Quaternion
}

// Record pushes qdot as the newest derivative sample.
func (h *QuaternionHistory) Record(qdot Quaternion) {
	h.prev2 = h.prev
	h.prev = qdot
	if h.n < 2 {
		h.n++
	}
}

// Reset clears all recorded history.
func (h *QuaternionHistory) Reset() {
	h.n = 0
	h.prev = Quaternion{}
	h.prev2 = Quaternion{}
}

// IntegrateQuaternion advances q by one step of dt using the selected
// integrator; the result is not renormalized here (Propagate renormalizes
// once per tick per invariant 1).
func IntegrateQuaternion(typ IntegratorType, q, qdot Quaternion, dt float64, h *QuaternionHistory) Quaternion {
	switch typ {
	case IntegratorNone:
		return q
	case IntegratorRectEuler:
		return q.AddQ(qdot.Scale(dt))
	case IntegratorTrapezoidal:
		prev := qdot
		if h.n >= 1 {
			prev = h.prev
		}
		return q.AddQ(qdot.AddQ(prev).Scale(0.5 * dt))
	case IntegratorAB2:
		if h.n < 1 {
			return q.AddQ(qdot.Scale(dt))
		}
		return q.AddQ(qdot.Scale(1.5 * dt).AddQ(h.prev.Scale(-0.5 * dt)))
	case IntegratorAB3:
		if h.n < 1 {
			return q.AddQ(qdot.Scale(dt))
		}
		if h.n < 2 {
			return q.AddQ(qdot.Scale(1.5 * dt).AddQ(h.prev.Scale(-0.5 * dt)))
		}
		return q.AddQ(qdot.Scale(23 * dt / 12).AddQ(h.prev.Scale(-16 * dt / 12)).AddQ(h.prev2.Scale(5 * dt / 12)))
	default:
		panic("unknown integrator type")
	}
}

// IntegratorConfig selects the integrator for each of the four propagated
// streams. The default (§4.1) puts rates and velocities on AB2 and
// attitude and position on Trapezoidal.
type IntegratorConfig struct {
	Rates, Velocities, Attitude, Position IntegratorType
}

// DefaultIntegratorConfig returns the §4.1 documented defaults: rates ->
// AB2, positions -> Trapezoidal.
func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{
		Rates:      IntegratorAB2,
		Velocities: IntegratorAB2,
		Attitude:   IntegratorTrapezoidal,
		Position:   IntegratorTrapezoidal,
	}
}
