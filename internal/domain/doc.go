// Package domain models the OpenLandMap soil water-content grids and the
// value recode applied to them.
//
// # Data Source
//
// The grids are the 250 m OpenLandMap soil water content layers published
// on Zenodo (record 2784001): volumetric water content at 33 kPa suction
// (field capacity) and at 1500 kPa suction (wilting point), derived from
// USDA soil profile observations covering 1950-2017. Each product is a
// single static GeoTIFF; there is no versioned feed or catalog to poll.
//
// # Value Encoding
//
// Raw samples are byte-encoded percentages:
//
//	0-100  → volumetric water content in percent of saturation
//	255    → "no data" sentinel
//
// [NormalizeWaterContent] recodes a raw grid into volumetric fractions:
// the sentinel becomes NaN (and the raster's NoData marker is set to NaN),
// remaining values are divided by 100 and clamped to [0, 1]. Values
// strictly between 100 and 255, which should not occur but are present in
// some recoded tiles, clamp to exactly 1.
//
// # Geometry and Resampling
//
// A caller may request a product on its own grid definition (extent,
// pixel size, CRS). Warping is performed by the raster engine behind the
// [Opener] capability; this package only carries the vocabulary: the
// [Geometry] target description and the [Resampling] algorithm names the
// engine accepts ("cubic" is the default, matching the smooth continuous
// nature of the fields).
package domain
