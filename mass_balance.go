package fdm

import (
	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// standard gravity, used only to convert weight (lbf) to mass (slugs).
const standardGravityFtS2 = 32.174049

// PointMass is a fixed or dynamic weight carried at a structural-frame
// location: landing gear, payload stations, and the empty-weight shape
// itself are all represented this way (§4.4).
type PointMass struct {
	Name         string
	WeightLbs    float64
	StructIn     []float64    // location, structural frame, inches
	ShapeInertia *mat64.Dense // slug-ft^2 about its own CG, body-axis aligned; nil for a true point mass
}

// Tank is a PointMass whose weight varies with fuel burn (§4.4, §4.7).
// FuelDensity must come from configuration: there is no safe default
// because empty vs full tank CG shift is a stability-relevant quantity.
type Tank struct {
	PointMass
	CapacityGal  float64
	ContentsLbs  float64
	FuelDensity  float64 // lbs/gal
}

// ChildFDM is a subordinate airframe (e.g. a towed glider or an externally
// simulated store) carried by this one. Compute treats it as an additive
// weight, CG and point-mass inertia contribution at a structural-frame
// attach point;
// the child's own dynamics, if any, are out of scope here.
type ChildFDM struct {
	Name      string
	WeightLbs float64
	StructIn  []float64 // attach point, structural frame, inches
}

// MassBalance is the §4.4 submodel: it aggregates the empty-weight shape,
// fuel tanks, and point masses into a single mass, CG, and inertia tensor
// every other submodel treats as read-only for the tick.
type MassBalance struct {
	logger kitlog.Logger

	EmptyWeightLbs float64
	EmptyCGIn      []float64    // structural frame, inches
	EmptyJBody     *mat64.Dense // slug-ft^2 about EmptyCGIn, body-axis aligned

	Tanks       []*Tank
	PointMasses []*PointMass
	ChildFDMs   []*ChildFDM

	cgStructIn []float64 // last computed total CG, structural frame
	cgBodyFt   []float64 // last computed total CG, body frame relative to EmptyCGIn
	massSlug   float64
	jBody      *mat64.Dense
	jInvBody   *mat64.Dense
}

// NewMassBalance returns a MassBalance seeded with the empty-weight shape.
func NewMassBalance(aircraft string, emptyWeightLbs float64, emptyCGIn []float64, emptyJBody *mat64.Dense) *MassBalance {
	return &MassBalance{
		logger:         NewSubsysLogger(aircraft, "mass_balance"),
		EmptyWeightLbs: emptyWeightLbs,
		EmptyCGIn:      emptyCGIn,
		EmptyJBody:     emptyJBody,
	}
}

// AddPointMass registers a fixed or dynamic payload station.
func (mb *MassBalance) AddPointMass(pm *PointMass) {
	mb.PointMasses = append(mb.PointMasses, pm)
}

// AddTank registers a fuel tank.
func (mb *MassBalance) AddTank(t *Tank) {
	mb.Tanks = append(mb.Tanks, t)
}

// AddChildFDM registers a subordinate airframe's weight/CG contribution.
func (mb *MassBalance) AddChildFDM(c *ChildFDM) {
	mb.ChildFDMs = append(mb.ChildFDMs, c)
}

// parallelAxisShift returns m*(|r|^2*I - r*r^T), the correction a point
// mass m at offset r from the reference point contributes to the
// reference-point inertia tensor (parallel axis theorem).
func parallelAxisShift(m float64, r []float64) *mat64.Dense {
	r2 := Dot(r, r)
	out := ScaledDenseIdentity(3, m*r2)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, out.At(i, j)-m*r[i]*r[j])
		}
	}
	return out
}

// Invert3x3Symmetric inverts a symmetric 3x3 matrix via the closed-form
// adjugate/determinant, avoiding a general LU factorization for a tensor
// that is never singular short of a configuration error.
func Invert3x3Symmetric(j *mat64.Dense) (*mat64.Dense, error) {
	a, b, c := j.At(0, 0), j.At(0, 1), j.At(0, 2)
	d, e, f := j.At(1, 1), j.At(1, 2), j.At(2, 2)

	det := a*(d*f-e*e) - b*(b*f-e*c) + c*(b*e-d*c)
	if det < 1e-9 {
		return nil, newModelError(ConfigInvalid, "mass_balance", "inertia tensor is singular or non-positive-definite, det=%e", det)
	}

	cof := mat64.NewDense(3, 3, []float64{
		d*f - e*e, c*e - b*f, b*e - c*d,
		c*e - b*f, a*f - c*c, b*c - a*e,
		b*e - c*d, b*c - a*e, a*d - b*b,
	})
	cof.Scale(1/det, cof)
	return cof, nil
}

// Compute re-derives mass, CG, and inertia from the current tank contents
// and point masses. Returns a fatal ConfigInvalid ModelError if the
// resulting inertia tensor cannot be inverted.
func (mb *MassBalance) Compute() error {
	totalWeight := mb.EmptyWeightLbs
	weightedCG := VScale(mb.EmptyWeightLbs, mb.EmptyCGIn)

	for _, t := range mb.Tanks {
		totalWeight += t.ContentsLbs
		weightedCG = Add(weightedCG, VScale(t.ContentsLbs, t.StructIn))
	}
	for _, pm := range mb.PointMasses {
		totalWeight += pm.WeightLbs
		weightedCG = Add(weightedCG, VScale(pm.WeightLbs, pm.StructIn))
	}
	for _, c := range mb.ChildFDMs {
		totalWeight += c.WeightLbs
		weightedCG = Add(weightedCG, VScale(c.WeightLbs, c.StructIn))
	}
	if totalWeight <= 0 {
		return newModelError(ConfigInvalid, "mass_balance", "total weight %e is non-positive", totalWeight)
	}

	cgStruct := VScale(1/totalWeight, weightedCG)
	mb.cgStructIn = cgStruct
	mb.massSlug = totalWeight / standardGravityFtS2

	j := mat64.NewDense(3, 3, nil)
	accumulate := func(weightLbs float64, structIn []float64, shape *mat64.Dense) {
		r := StructuralToBody(structIn, cgStruct)
		m := weightLbs / standardGravityFtS2
		j.Add(j, parallelAxisShift(m, r))
		if shape != nil {
			j.Add(j, shape)
		}
	}
	accumulate(mb.EmptyWeightLbs, mb.EmptyCGIn, mb.EmptyJBody)
	for _, t := range mb.Tanks {
		accumulate(t.ContentsLbs, t.StructIn, nil)
	}
	for _, pm := range mb.PointMasses {
		accumulate(pm.WeightLbs, pm.StructIn, pm.ShapeInertia)
	}
	for _, c := range mb.ChildFDMs {
		accumulate(c.WeightLbs, c.StructIn, nil)
	}

	jInv, err := Invert3x3Symmetric(j)
	if err != nil {
		return err
	}
	mb.jBody = j
	mb.jInvBody = jInv
	mb.cgBodyFt = StructuralToBody(cgStruct, mb.EmptyCGIn)
	return nil
}

// Mass returns the current total mass in slugs.
func (mb *MassBalance) Mass() float64 { return mb.massSlug }

// Weight returns the current total weight in lbf.
func (mb *MassBalance) Weight() float64 { return mb.massSlug * standardGravityFtS2 }

// JBody returns the current inertia tensor about the total CG, body axes.
func (mb *MassBalance) JBody() *mat64.Dense { return mb.jBody }

// JInvBody returns the inverse of JBody, cached by the last Compute call.
func (mb *MassBalance) JInvBody() *mat64.Dense { return mb.jInvBody }

// CGStructIn returns the current total CG in the structural frame, inches.
func (mb *MassBalance) CGStructIn() []float64 { return mb.cgStructIn }

// CGShiftBodyFt returns how far the total CG has moved, in body-frame feet,
// from the empty-weight CG. Propagate uses this to keep the integrated
// position anchored to a moving CG (§4.4).
func (mb *MassBalance) CGShiftBodyFt() []float64 { return mb.cgBodyFt }
