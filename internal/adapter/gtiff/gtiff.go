// Package gtiff adapts the GDAL raster engine (via godal) to the domain
// Opener capability: open a GeoTIFF, optionally warp it onto a target
// geometry, and read the first band into a dense float64 grid.
//
// All coordinate math, decoding, and resampling happens inside GDAL;
// this package only translates between the domain vocabulary and warp
// switches.
package gtiff

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/couchcryptid/soilgrids/internal/domain"
)

var registerOnce sync.Once

// Opener opens GeoTIFF grids through GDAL.
type Opener struct{}

// NewOpener returns a GDAL-backed opener, registering GDAL drivers on
// first use.
func NewOpener() *Opener {
	registerOnce.Do(godal.RegisterAll)
	return &Opener{}
}

// Open reads the grid at path. With a nil geometry the native grid is
// returned and resampling is not consulted; otherwise the grid is warped
// in memory onto the requested geometry first.
func (o *Opener) Open(ctx context.Context, path string, g *domain.Geometry, resampling domain.Resampling) (*domain.Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raster %s: %w", path, err)
	}
	defer ds.Close()

	src := ds
	if g != nil {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if _, err := domain.ParseResampling(string(resampling)); err != nil {
			return nil, err
		}
		warped, err := ds.Warp("", warpSwitches(g, resampling))
		if err != nil {
			return nil, fmt.Errorf("warp raster %s: %w", path, err)
		}
		defer warped.Close()
		src = warped
	}

	return readBand(src)
}

// warpSwitches builds the gdalwarp argument list for an in-memory warp
// onto the target geometry.
func warpSwitches(g *domain.Geometry, resampling domain.Resampling) []string {
	return []string{
		"-of", "MEM",
		"-t_srs", g.SRS,
		"-te", ftoa(g.Bounds.Min.X), ftoa(g.Bounds.Min.Y), ftoa(g.Bounds.Max.X), ftoa(g.Bounds.Max.Y),
		"-tr", ftoa(g.ResX), ftoa(g.ResY),
		"-r", string(resampling),
	}
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// readBand copies the first band of a dataset into a domain raster.
func readBand(ds *godal.Dataset) (*domain.Raster, error) {
	st := ds.Structure()
	if st.NBands < 1 {
		return nil, fmt.Errorf("dataset has no raster bands")
	}

	band := ds.Bands()[0]
	values := make([]float64, st.SizeX*st.SizeY)
	if err := band.Read(0, 0, values, st.SizeX, st.SizeY); err != nil {
		return nil, fmt.Errorf("read band: %w", err)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("read geotransform: %w", err)
	}

	r := &domain.Raster{
		Width:        st.SizeX,
		Height:       st.SizeY,
		GeoTransform: gt,
		Projection:   ds.Projection(),
		Values:       values,
	}
	if nodata, ok := band.NoData(); ok {
		r.NoData = nodata
	}
	return r, nil
}
