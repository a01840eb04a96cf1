package fdm

import (
	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

// GasCell is one lighter-than-air lift cell (§2 row-8 supplemented
// feature): a fixed-volume bag of buoyant gas at a structural-frame
// location, contributing lift proportional to the density difference
// between the surrounding air and the cell's gas.
type GasCell struct {
	Name          string
	StructIn      []float64
	MaxVolumeFt3  float64
	GasDensitySlugFt3 float64 // e.g. helium density at STP, slug/ft^3
	Valve         float64     // 0..1, fraction of gas vented (reduces effective volume)
}

// BuoyantForces is the §2 row-8 submodel: it sums every configured
// GasCell's lift and moment. Empty for a fixed-wing aircraft.
type BuoyantForces struct {
	logger kitlog.Logger
	Cells  []*GasCell
}

// NewBuoyantForces returns a BuoyantForces submodel with no cells.
func NewBuoyantForces(aircraft string) *BuoyantForces {
	return &BuoyantForces{logger: NewSubsysLogger(aircraft, "buoyant_forces")}
}

// Add registers a gas cell.
func (bf *BuoyantForces) Add(c *GasCell) { bf.Cells = append(bf.Cells, c) }

// Run computes the body-frame buoyant force and moment about the CG given
// the local air density (§4.5 Atmosphere output).
func (bf *BuoyantForces) Run(airDensitySlugFt3 float64, tl2b *mat64.Dense, cgStructIn []float64) (forceBody, momentBody []float64) {
	forceBody = []float64{0, 0, 0}
	momentBody = []float64{0, 0, 0}
	for _, c := range bf.Cells {
		effectiveVol := c.MaxVolumeFt3 * (1 - c.Valve)
		liftLbf := (airDensitySlugFt3 - c.GasDensitySlugFt3) * effectiveVol * standardGravityFtS2
		fNED := []float64{0, 0, -liftLbf} // buoyant lift acts up, i.e. -Z NED-down convention
		fBody := MxV33(tl2b, fNED)
		rBody := StructuralToBody(c.StructIn, cgStructIn)
		forceBody = Add(forceBody, fBody)
		momentBody = Add(momentBody, Cross(rBody, fBody))
	}
	return
}
