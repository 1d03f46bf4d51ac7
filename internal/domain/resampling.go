package domain

import "fmt"

// Resampling names the algorithm used when warping between grids.
type Resampling string

const (
	ResamplingNearest     Resampling = "nearest"
	ResamplingBilinear    Resampling = "bilinear"
	ResamplingCubic       Resampling = "cubic"
	ResamplingCubicSpline Resampling = "cubicspline"
	ResamplingLanczos     Resampling = "lanczos"
	ResamplingAverage     Resampling = "average"
	ResamplingMode        Resampling = "mode"
)

// DefaultResampling is cubic: the water-content fields are smooth and
// continuous, so a higher-order kernel beats nearest-neighbor blockiness.
const DefaultResampling = ResamplingCubic

// ParseResampling validates a resampling name against the vocabulary the
// raster engine accepts.
func ParseResampling(s string) (Resampling, error) {
	switch r := Resampling(s); r {
	case ResamplingNearest, ResamplingBilinear, ResamplingCubic,
		ResamplingCubicSpline, ResamplingLanczos, ResamplingAverage, ResamplingMode:
		return r, nil
	}
	return "", fmt.Errorf("unknown resampling method %q", s)
}
