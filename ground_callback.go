package fdm

import "math"

// FlatEarthGroundCallback is a GroundCallback that treats terrain as a
// sphere of constant radius, the simplest implementation satisfying the
// §6 contract. The executor tests and cmd/fdmrun use it.
type FlatEarthGroundCallback struct {
	TerrainRadiusFt float64
	staleCount      int
}

// Query implements GroundCallback.
func (f *FlatEarthGroundCallback) Query(tSeconds float64, ecefQuery []float64, radiusHint float64) (GroundContact, error) {
	r := Norm(ecefQuery)
	if r < 1e-9 {
		return GroundContact{}, newModelError(StaleGroundCache, "ground_callback", "degenerate query point")
	}
	normal := VScale(1/r, ecefQuery)
	agl := r - f.TerrainRadiusFt
	contact := VScale(f.TerrainRadiusFt/r, ecefQuery)
	return GroundContact{
		ContactECEF:         contact,
		NormalECEF:          normal,
		VelocityECEF:        []float64{0, 0, 0},
		AngularVelocityECEF: []float64{0, 0, 0},
		AGL:                 agl,
	}, nil
}

// CachingGroundCallback wraps another GroundCallback and returns the last
// known contact (raising StaleGroundCache, a warning per §7) if the
// wrapped callback errors, rather than propagating a hard failure for a
// transient terrain-query problem.
type CachingGroundCallback struct {
	Inner GroundCallback
	last  GroundContact
	have  bool
}

// Query implements GroundCallback.
func (c *CachingGroundCallback) Query(tSeconds float64, ecefQuery []float64, radiusHint float64) (GroundContact, error) {
	gc, err := c.Inner.Query(tSeconds, ecefQuery, radiusHint)
	if err == nil {
		c.last = gc
		c.have = true
		return gc, nil
	}
	if c.have {
		return c.last, newModelError(StaleGroundCache, "ground_callback", "using cached terrain: %s", err)
	}
	return GroundContact{}, err
}

// approxEqual is a small helper used by tests exercising ground-contact
// geometry.
func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
