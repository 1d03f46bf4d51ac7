package domain

import "math"

// SentinelNoData is the raw byte marking "no data" in the source grids.
const SentinelNoData = 255

// rawScale is the divisor converting an encoded percent sample to a
// volumetric fraction.
const rawScale = 100.0

// NormalizeWaterContent recodes a raw soil water-content grid in place:
// the 255 sentinel becomes NaN, the raster's NoData marker is set to NaN,
// and the remaining percent values are rescaled to fractions and clamped
// to [0, 1]. The sentinel substitution runs before the rescale so that
// 255 never leaks into the clamp as 2.55. The rescale is a true division:
// multiplying by the rounded double 0.01 lands one ulp high for several
// encodable inputs (35, 41, 47, ...), so v/100 keeps every sample exact.
// Returns its argument.
func NormalizeWaterContent(r *Raster) *Raster {
	for i, v := range r.Values {
		if v == SentinelNoData {
			r.Values[i] = math.NaN()
			continue
		}
		r.Values[i] = v / rawScale
	}
	r.NoData = math.NaN()
	clamp(r.Values, 0, 1)
	return r
}

// clamp limits every sample to [lo, hi]. NaN fails both comparisons and
// passes through untouched.
func clamp(vs []float64, lo, hi float64) {
	for i, v := range vs {
		switch {
		case v < lo:
			vs[i] = lo
		case v > hi:
			vs[i] = hi
		}
	}
}
