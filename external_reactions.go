package fdm

import kitlog "github.com/go-kit/kit/log"

// ExternalForce is one user-declared point force (§2 row 7, §4.3
// supplemented feature: an arrester-hook tension is the canonical
// example): a magnitude and direction applied at a structural-frame point.
type ExternalForce struct {
	Name       string
	StructIn   []float64
	DirBody    []float64 // unit vector, body frame
	MagnitudeLbf float64
	Active     bool
}

// ExternalReactions is the §2 row-7 submodel: it sums every active
// ExternalForce into a body-frame force and moment about the CG.
type ExternalReactions struct {
	logger kitlog.Logger
	Forces []*ExternalForce
}

// NewExternalReactions returns an empty ExternalReactions submodel.
func NewExternalReactions(aircraft string) *ExternalReactions {
	return &ExternalReactions{logger: NewSubsysLogger(aircraft, "external_reactions")}
}

// Add registers a new declared point force.
func (er *ExternalReactions) Add(f *ExternalForce) { er.Forces = append(er.Forces, f) }

// Run sums every active force's contribution (§4.3 supplemented feature).
func (er *ExternalReactions) Run(cgStructIn []float64) (forceBody, momentBody []float64) {
	forceBody = []float64{0, 0, 0}
	momentBody = []float64{0, 0, 0}
	for _, f := range er.Forces {
		if !f.Active {
			continue
		}
		fBody := VScale(f.MagnitudeLbf, Unit(f.DirBody))
		rBody := StructuralToBody(f.StructIn, cgStructIn)
		forceBody = Add(forceBody, fBody)
		momentBody = Add(momentBody, Cross(rBody, fBody))
	}
	return
}
