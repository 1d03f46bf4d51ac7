package domain

import (
	"net/url"
	"path"
	"path/filepath"
)

// Product describes one fixed remotely-hosted soil water-content grid.
type Product struct {
	Key  string // short identifier used on the command line and in metrics
	Name string // human-readable name
	URL  string // source GeoTIFF on the Zenodo archive
}

// The two supported grids. Both are immutable process-scope descriptors;
// the URLs point at static files that never change for a given record.
var (
	FieldCapacity = Product{
		Key:  "fc",
		Name: "Field Capacity",
		URL:  "https://zenodo.org/record/2784001/files/sol_watercontent.33kPa_usda.4b1c_m_250m_b0..0cm_1950..2017_v0.1.tif",
	}
	WiltingPoint = Product{
		Key:  "wp",
		Name: "Wilting Point",
		URL:  "https://zenodo.org/record/2784001/files/sol_watercontent.1500kPa_usda.3c2a1a_m_250m_b0..0cm_1950..2017_v0.1.tif",
	}
)

// Products returns every supported grid in a fixed order.
func Products() []Product {
	return []Product{FieldCapacity, WiltingPoint}
}

// ProductByKey looks up a product by its short identifier.
func ProductByKey(key string) (Product, bool) {
	for _, p := range Products() {
		if p.Key == key {
			return p, true
		}
	}
	return Product{}, false
}

// LocalPath returns the cache path for the product under sourceDir. The
// file is named by the final path segment of the source URL.
func (p Product) LocalPath(sourceDir string) string {
	base := path.Base(p.URL)
	if u, err := url.Parse(p.URL); err == nil {
		base = path.Base(u.Path)
	}
	return filepath.Join(sourceDir, base)
}
