package domain

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLocalPath(t *testing.T) {
	assert.Equal(t,
		"/tmp/wd/SoilGrids_download/sol_watercontent.33kPa_usda.4b1c_m_250m_b0..0cm_1950..2017_v0.1.tif",
		FieldCapacity.LocalPath("/tmp/wd/SoilGrids_download"))
	assert.Equal(t,
		"/tmp/wd/SoilGrids_download/sol_watercontent.1500kPa_usda.3c2a1a_m_250m_b0..0cm_1950..2017_v0.1.tif",
		WiltingPoint.LocalPath("/tmp/wd/SoilGrids_download"))
}

func TestProductByKey(t *testing.T) {
	p, ok := ProductByKey("fc")
	require.True(t, ok)
	assert.Equal(t, "Field Capacity", p.Name)

	p, ok = ProductByKey("wp")
	require.True(t, ok)
	assert.Equal(t, "Wilting Point", p.Name)

	_, ok = ProductByKey("nope")
	assert.False(t, ok)
}

func TestParseResampling(t *testing.T) {
	for _, name := range []string{"nearest", "bilinear", "cubic", "cubicspline", "lanczos", "average", "mode"} {
		r, err := ParseResampling(name)
		require.NoError(t, err, name)
		assert.Equal(t, Resampling(name), r)
	}

	_, err := ParseResampling("sinc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sinc")
}

func TestGeometryValidate(t *testing.T) {
	valid := Geometry{
		Bounds: geom.Bounds{Min: geom.Point{X: -120, Y: 30}, Max: geom.Point{X: -110, Y: 40}},
		ResX:   0.01,
		ResY:   0.01,
		SRS:    "EPSG:4326",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Geometry)
	}{
		{"missing SRS", func(g *Geometry) { g.SRS = "" }},
		{"zero resolution", func(g *Geometry) { g.ResX = 0 }},
		{"negative resolution", func(g *Geometry) { g.ResY = -1 }},
		{"empty extent", func(g *Geometry) { g.Bounds.Max.X = g.Bounds.Min.X }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)
			assert.Error(t, g.Validate())
		})
	}
}
