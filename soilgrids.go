// Package soilgrids downloads and normalizes the OpenLandMap soil
// water-content grids: Field Capacity (water content at 33 kPa suction)
// and Wilting Point (water content at 1500 kPa suction).
//
// Grids are fetched lazily on first access, cached on disk under the
// source directory, and returned as volumetric fractions in [0, 1] with
// NaN marking "no data". An optional target geometry reprojects and
// resamples the grid through the raster engine; without one the native
// 250 m grid is returned.
package soilgrids

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/soilgrids/internal/adapter/fetch"
	"github.com/couchcryptid/soilgrids/internal/adapter/gtiff"
	"github.com/couchcryptid/soilgrids/internal/config"
	"github.com/couchcryptid/soilgrids/internal/domain"
	"github.com/couchcryptid/soilgrids/internal/observability"
)

// Re-exported domain vocabulary so library consumers do not import
// internal packages.
type (
	Geometry   = domain.Geometry
	Raster     = domain.Raster
	Resampling = domain.Resampling
	Product    = domain.Product
)

const DefaultResampling = domain.DefaultResampling

// SoilGrids resolves, caches, and normalizes the supported soil
// water-content products. Construct with New; the zero value is not
// usable.
type SoilGrids struct {
	workingDir string
	sourceDir  string
	resampling domain.Resampling
	transfer   domain.FileTransfer
	opener     domain.Opener
	logger     *slog.Logger
}

// Option configures a SoilGrids instance.
type Option func(*SoilGrids)

// WithWorkingDir sets the working directory (default "."). The source
// directory defaults to a SoilGrids_download subdirectory of it.
func WithWorkingDir(dir string) Option {
	return func(s *SoilGrids) { s.workingDir = dir }
}

// WithSourceDir sets the cache directory explicitly, overriding the
// working-directory derivation.
func WithSourceDir(dir string) Option {
	return func(s *SoilGrids) { s.sourceDir = dir }
}

// WithResampling sets the default resampling method (default cubic).
func WithResampling(r Resampling) Option {
	return func(s *SoilGrids) { s.resampling = r }
}

// WithTransfer substitutes the file-transfer capability. Used by the CLI
// to share one configured client, and by tests to avoid the network.
func WithTransfer(t domain.FileTransfer) Option {
	return func(s *SoilGrids) { s.transfer = t }
}

// WithOpener substitutes the raster engine.
func WithOpener(o domain.Opener) Option {
	return func(s *SoilGrids) { s.opener = o }
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *SoilGrids) { s.logger = l }
}

// New builds a SoilGrids accessor. Directories are resolved to absolute
// paths; unset collaborators get production defaults (HTTP transfer with
// resume, GDAL opener).
func New(opts ...Option) (*SoilGrids, error) {
	s := &SoilGrids{
		workingDir: ".",
		resampling: domain.DefaultResampling,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.workingDir, err = filepath.Abs(s.workingDir); err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	if s.sourceDir == "" {
		s.sourceDir = filepath.Join(s.workingDir, config.DownloadSubdir)
	}
	if s.sourceDir, err = filepath.Abs(s.sourceDir); err != nil {
		return nil, fmt.Errorf("resolve source directory: %w", err)
	}
	if _, err = domain.ParseResampling(string(s.resampling)); err != nil {
		return nil, err
	}

	if s.transfer == nil {
		s.transfer = fetch.NewClient(0, true, s.logger, observability.Default())
	}
	if s.opener == nil {
		s.opener = gtiff.NewOpener()
	}
	return s, nil
}

func (s *SoilGrids) String() string {
	return fmt.Sprintf("SoilGrids(source_directory=%q)", s.sourceDir)
}

// WorkingDir returns the resolved working directory.
func (s *SoilGrids) WorkingDir() string { return s.workingDir }

// SourceDir returns the resolved cache directory.
func (s *SoilGrids) SourceDir() string { return s.sourceDir }

// Resampling returns the instance's default resampling method.
func (s *SoilGrids) Resampling() Resampling { return s.resampling }

// FCFilename returns the local cache path of the Field Capacity grid.
func (s *SoilGrids) FCFilename() string {
	return domain.FieldCapacity.LocalPath(s.sourceDir)
}

// WPFilename returns the local cache path of the Wilting Point grid.
func (s *SoilGrids) WPFilename() string {
	return domain.WiltingPoint.LocalPath(s.sourceDir)
}

// FC returns the Field Capacity grid as volumetric fractions, downloading
// it on first use. A nil geometry keeps the native grid; an empty
// resampling uses the instance default.
func (s *SoilGrids) FC(ctx context.Context, geometry *Geometry, resampling Resampling) (*Raster, error) {
	return s.Get(ctx, domain.FieldCapacity, geometry, resampling)
}

// WP returns the Wilting Point grid as volumetric fractions, downloading
// it on first use. A nil geometry keeps the native grid; an empty
// resampling uses the instance default.
func (s *SoilGrids) WP(ctx context.Context, geometry *Geometry, resampling Resampling) (*Raster, error) {
	return s.Get(ctx, domain.WiltingPoint, geometry, resampling)
}

// Get fetches and normalizes any supported product. FC and WP are the
// conventional entry points; the CLI uses Get directly.
func (s *SoilGrids) Get(ctx context.Context, p Product, geometry *Geometry, resampling Resampling) (*Raster, error) {
	if resampling == "" {
		resampling = s.resampling
	}

	// Existence checking lives inside the transfer client; a cached file
	// short-circuits without network access.
	local, err := s.transfer.EnsureLocal(ctx, p.URL, p.LocalPath(s.sourceDir))
	if err != nil {
		return nil, err
	}

	raster, err := s.opener.Open(ctx, local, geometry, resampling)
	if err != nil {
		return nil, err
	}

	return domain.NormalizeWaterContent(raster), nil
}
