package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/soilgrids/internal/domain"
)

// DownloadSubdir is the default cache directory name under the working
// directory, kept identical to the layout other SoilGrids tooling expects.
const DownloadSubdir = "SoilGrids_download"

// Config holds all settings, populated from environment variables.
type Config struct {
	WorkingDir string
	SourceDir  string
	Resampling domain.Resampling

	// FetchTimeout bounds a single download. Zero means no timeout; the
	// grids are multi-gigabyte and slow mirrors are common.
	FetchTimeout time.Duration
	// Resume continues a partial download from its current size instead
	// of restarting the transfer.
	Resume bool

	HTTPAddr  string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults
// where unset. Relative directories are resolved to absolute paths and a
// leading "~" expands to the user's home directory.
func Load() (*Config, error) {
	workingDir, err := absPath(envOrDefault("SOILGRIDS_WORKING_DIR", "."))
	if err != nil {
		return nil, fmt.Errorf("invalid SOILGRIDS_WORKING_DIR: %w", err)
	}

	sourceDir := os.Getenv("SOILGRIDS_SOURCE_DIR")
	if sourceDir == "" {
		sourceDir = filepath.Join(workingDir, DownloadSubdir)
	}
	sourceDir, err = absPath(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("invalid SOILGRIDS_SOURCE_DIR: %w", err)
	}

	resampling, err := domain.ParseResampling(envOrDefault("SOILGRIDS_RESAMPLING", string(domain.DefaultResampling)))
	if err != nil {
		return nil, fmt.Errorf("invalid SOILGRIDS_RESAMPLING: %w", err)
	}

	fetchTimeout := time.Duration(0)
	if s := os.Getenv("SOILGRIDS_FETCH_TIMEOUT"); s != "" {
		fetchTimeout, err = time.ParseDuration(s)
		if err != nil || fetchTimeout < 0 {
			return nil, errors.New("invalid SOILGRIDS_FETCH_TIMEOUT")
		}
	}

	resume := true
	if v := os.Getenv("SOILGRIDS_RESUME"); v != "" {
		resume, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid SOILGRIDS_RESUME")
		}
	}

	return &Config{
		WorkingDir:   workingDir,
		SourceDir:    sourceDir,
		Resampling:   resampling,
		FetchTimeout: fetchTimeout,
		Resume:       resume,
		HTTPAddr:     envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// absPath expands a leading "~" and resolves the path to absolute form.
func absPath(p string) (string, error) {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}
