package fdm

import kitlog "github.com/go-kit/kit/log"

// ForceMoment is a labeled body-frame force/moment contribution, kept so
// Aircraft can publish each contributor individually (§6: "forces/{...}
// for each contributor and total").
type ForceMoment struct {
	Source string
	Force  []float64
	Moment []float64
}

// Aircraft is the §2 row-10 submodel: it sums every contributor's
// force/moment and derives load factors (Nx, Ny, Nz in g's).
type Aircraft struct {
	logger kitlog.Logger

	Contributions []ForceMoment
	TotalForce    []float64
	TotalMoment   []float64
	LoadFactor    []float64 // Nx, Ny, Nz, g's
}

// NewAircraft returns an empty Aircraft aggregator.
func NewAircraft(aircraft string) *Aircraft {
	return &Aircraft{logger: NewSubsysLogger(aircraft, "aircraft")}
}

// Sum resets and re-sums the given contributions, then derives load
// factors from the total force and current weight.
func (ac *Aircraft) Sum(contributions []ForceMoment, weightLbf float64) {
	ac.Contributions = contributions
	total := []float64{0, 0, 0}
	totalM := []float64{0, 0, 0}
	for _, c := range contributions {
		total = Add(total, c.Force)
		totalM = Add(totalM, c.Moment)
	}
	ac.TotalForce = total
	ac.TotalMoment = totalM
	if weightLbf > 0 {
		ac.LoadFactor = VScale(1/weightLbf, []float64{total[0], total[1], -total[2]})
	} else {
		ac.LoadFactor = []float64{0, 0, 0}
	}
}
