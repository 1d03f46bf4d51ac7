package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ctessum/geom"
)

// Geometry defines a target grid: an output extent in the coordinates of
// SRS, and the pixel size in those units. A nil *Geometry leaves a raster
// on its native grid.
type Geometry struct {
	Bounds     geom.Bounds // output extent
	ResX, ResY float64     // pixel size, CRS units
	SRS        string      // e.g. "EPSG:4326" or a proj4 string
}

// Validate reports whether the geometry is usable as a warp target.
func (g *Geometry) Validate() error {
	if g.SRS == "" {
		return errors.New("geometry: SRS is required")
	}
	if g.ResX <= 0 || g.ResY <= 0 {
		return fmt.Errorf("geometry: pixel size must be positive, got %g x %g", g.ResX, g.ResY)
	}
	if g.Bounds.Max.X <= g.Bounds.Min.X || g.Bounds.Max.Y <= g.Bounds.Min.Y {
		return fmt.Errorf("geometry: empty extent %v", g.Bounds)
	}
	return nil
}

// Raster is a single-band grid of float64 samples in row-major order,
// top row first. GeoTransform follows the GDAL affine convention.
type Raster struct {
	Width, Height int
	GeoTransform  [6]float64
	Projection    string // WKT of the grid's CRS
	NoData        float64
	Values        []float64
}

// At returns the sample at the given column and row. No bounds check.
func (r *Raster) At(col, row int) float64 {
	return r.Values[row*r.Width+col]
}

// Opener is the capability the raster engine provides: open a grid file,
// optionally warped onto a target geometry with the named resampling
// algorithm. A nil geometry requests the native grid.
type Opener interface {
	Open(ctx context.Context, path string, g *Geometry, resampling Resampling) (*Raster, error)
}

// FileTransfer materializes a remote URL at a local path, skipping the
// transfer when the target already exists.
type FileTransfer interface {
	EnsureLocal(ctx context.Context, url, target string) (string, error)
}
