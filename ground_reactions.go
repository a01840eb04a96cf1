package fdm

import kitlog "github.com/go-kit/kit/log"

// GroundReactions is the §4.3 submodel: it sums per-tick body-frame force
// and moment from every gear unit's contact model. A config with zero gear
// units is a ConfigInvalid error at load.
type GroundReactions struct {
	logger kitlog.Logger
	Units  []*GearUnit
}

// NewGroundReactions returns a GroundReactions built from gear configs,
// erroring if none are supplied.
func NewGroundReactions(aircraft string, cfgs []GearConfig) (*GroundReactions, error) {
	if len(cfgs) == 0 {
		return nil, newModelError(ConfigInvalid, "ground_reactions", "no gear units configured")
	}
	gr := &GroundReactions{logger: NewSubsysLogger(aircraft, "ground_reactions")}
	for _, cfg := range cfgs {
		gr.Units = append(gr.Units, NewGearUnit(aircraft, cfg))
	}
	return gr, nil
}

// Run executes every gear unit (only when cs.AGL < 300 ft, §4.3) and sums
// their body-frame force/moment. A Crash from any one unit aborts the sum
// and is returned immediately. A StaleGroundCache warning does not abort
// the sum: the offending unit's force (computed from its cached contact)
// is still included, every remaining unit still runs, and the warning is
// returned alongside the completed total for the executor to log (§7).
func (gr *GroundReactions) Run(cs CoreState, cb GroundCallback, tSeconds float64, steerCmd, brakeL, brakeR, brakeC, gearCmd float64) (forceBody, momentBody []float64, err error) {
	forceBody = []float64{0, 0, 0}
	momentBody = []float64{0, 0, 0}
	if cs.AGL >= 300 {
		return
	}
	var staleErr error
	for _, u := range gr.Units {
		brakeCmd := brakeCmdFor(u.Brake, brakeL, brakeR, brakeC)
		f, m, uerr := u.Run(cs, cb, tSeconds, steerCmd, brakeCmd, gearCmd)
		if uerr != nil {
			if merr, ok := uerr.(*ModelError); ok && merr.Kind == StaleGroundCache {
				// Keep summing the remaining units on their cached contacts;
				// report the warning once the whole tick's force is in.
				staleErr = uerr
				forceBody = Add(forceBody, f)
				momentBody = Add(momentBody, m)
				continue
			}
			return forceBody, momentBody, uerr
		}
		forceBody = Add(forceBody, f)
		momentBody = Add(momentBody, m)
	}
	return forceBody, momentBody, staleErr
}

// AnyWOW reports whether any gear unit currently has weight-on-wheels,
// the flag Propagate uses to disable the centripetal term (§4.1 step 7).
func (gr *GroundReactions) AnyWOW() bool {
	for _, u := range gr.Units {
		if u.WOW {
			return true
		}
	}
	return false
}

func brakeCmdFor(group BrakeGroup, left, right, center float64) float64 {
	switch group {
	case BrakeLeft, BrakeNose:
		return left
	case BrakeRight, BrakeTail:
		return right
	case BrakeCenter:
		return center
	default:
		return 0
	}
}
