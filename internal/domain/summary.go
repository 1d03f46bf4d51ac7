package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics for a grid, computed over the
// samples that carry data.
type Summary struct {
	Min, Max, Mean, StdDev float64
	Valid, Missing         int
}

// Summarize computes grid statistics, treating NaN samples as missing.
// An all-missing grid yields NaN for every statistic.
func Summarize(r *Raster) Summary {
	valid := make([]float64, 0, len(r.Values))
	for _, v := range r.Values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	s := Summary{Valid: len(valid), Missing: len(r.Values) - len(valid)}
	if len(valid) == 0 {
		s.Min, s.Max, s.Mean, s.StdDev = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}

	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Mean, s.StdDev = stat.MeanStdDev(valid, nil)
	if len(valid) == 1 {
		s.StdDev = 0
	}
	return s
}
