// Package config loads the JSON run configuration used by the verify command.
//
// All fields are pointers so that omitted values fall back to the defaults
// returned by the Get* accessors; partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/rainverify/internal/fsutil"
	"github.com/banshee-data/rainverify/internal/metrics"
	"github.com/banshee-data/rainverify/internal/neighbours"
	"github.com/banshee-data/rainverify/internal/polar"
	"github.com/banshee-data/rainverify/internal/report"
	"github.com/banshee-data/rainverify/internal/units"
)

// maxFileSize bounds the config file size (1 MiB).
const maxFileSize = 1 * 1024 * 1024

// RunConfig describes the radar geometry, neighbour selection and reporting
// options of one verification run.
type RunConfig struct {
	// Polar geometry. Ranges and Azimuths take precedence over the
	// generated forms.
	Ranges       []float64 `json:"ranges,omitempty"`
	RangeStart   *float64  `json:"range_start,omitempty"`
	RangeStep    *float64  `json:"range_step,omitempty"`
	RangeCount   *int      `json:"range_count,omitempty"`
	Azimuths     []float64 `json:"azimuths,omitempty"`
	AzimuthCount *int      `json:"azimuth_count,omitempty"`

	// Radar site
	SiteX      *float64 `json:"site_x,omitempty"`
	SiteY      *float64 `json:"site_y,omitempty"`
	SiteAlt    *float64 `json:"site_alt,omitempty"`
	Projection *string  `json:"projection,omitempty"`
	Elevation  *float64 `json:"elevation,omitempty"` // beam elevation in degrees

	// Neighbour selection
	Neighbours *int    `json:"neighbours,omitempty"`
	Reduce     *string `json:"reduce,omitempty"`

	// Metrics and output
	MinValue      *float64 `json:"min_value,omitempty"`
	ReportMetrics []string `json:"report_metrics,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	PlotPNG       *string  `json:"plot_png,omitempty"`
	PlotHTML      *string  `json:"plot_html,omitempty"`
}

// Load reads a RunConfig from a JSON file on fsys.
// The file must have a .json extension and be at most 1 MiB.
func Load(fsys fsutil.FileSystem, path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RunConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *RunConfig) Validate() error {
	if len(c.Ranges) == 0 {
		if c.RangeCount == nil || c.RangeStep == nil {
			return fmt.Errorf("either ranges or range_step and range_count must be set")
		}
		if *c.RangeCount <= 0 {
			return fmt.Errorf("range_count must be positive, got %d", *c.RangeCount)
		}
		if *c.RangeStep <= 0 {
			return fmt.Errorf("range_step must be positive, got %f", *c.RangeStep)
		}
	}
	if len(c.Azimuths) == 0 {
		if c.AzimuthCount == nil {
			return fmt.Errorf("either azimuths or azimuth_count must be set")
		}
		if *c.AzimuthCount <= 0 {
			return fmt.Errorf("azimuth_count must be positive, got %d", *c.AzimuthCount)
		}
	}

	if c.Projection != nil && *c.Projection != "" && *c.Projection != polar.ProjectionLocal {
		return fmt.Errorf("unsupported projection %q", *c.Projection)
	}

	if c.Elevation != nil && (*c.Elevation < 0 || *c.Elevation >= 90) {
		return fmt.Errorf("elevation must be in [0, 90), got %f", *c.Elevation)
	}

	if c.Neighbours != nil {
		if *c.Neighbours < 0 {
			return fmt.Errorf("neighbours must be non-negative, got %d", *c.Neighbours)
		}
		if n := c.Grid().NumBins(); *c.Neighbours > n {
			return fmt.Errorf("neighbours (%d) exceeds the number of bins (%d)", *c.Neighbours, n)
		}
	}

	if _, ok := neighbours.ReducerByName(c.GetReduce()); !ok {
		return fmt.Errorf("unknown reduce %q (want nearest or mean)", c.GetReduce())
	}

	if c.Unit != nil && !units.IsValid(*c.Unit) {
		return fmt.Errorf("unit must be one of %s, got %q", units.GetValidUnitsString(), *c.Unit)
	}

	known := make(map[string]bool)
	for _, name := range metrics.Names() {
		known[name] = true
	}
	for _, name := range c.ReportMetrics {
		if !known[name] {
			return fmt.Errorf("unknown report metric %q", name)
		}
	}
	return nil
}

// Grid builds the polar grid from the explicit lists or the generated forms.
func (c *RunConfig) Grid() polar.Grid {
	ranges := c.Ranges
	if len(ranges) == 0 && c.RangeCount != nil && c.RangeStep != nil {
		ranges = polar.UniformRanges(c.GetRangeStart(), *c.RangeStep, *c.RangeCount)
	}
	azimuths := c.Azimuths
	if len(azimuths) == 0 && c.AzimuthCount != nil {
		azimuths = polar.UniformAzimuths(*c.AzimuthCount)
	}
	return polar.NewGrid(ranges, azimuths)
}

// Site returns the radar site.
func (c *RunConfig) Site() polar.Site {
	s := polar.Site{}
	if c.SiteX != nil {
		s.X = *c.SiteX
	}
	if c.SiteY != nil {
		s.Y = *c.SiteY
	}
	if c.SiteAlt != nil {
		s.Alt = *c.SiteAlt
	}
	return s
}

// GetRangeStart returns the range_start value or the default.
func (c *RunConfig) GetRangeStart() float64 {
	if c.RangeStart == nil {
		return 0
	}
	return *c.RangeStart
}

// GetProjection returns the projection or the default.
func (c *RunConfig) GetProjection() string {
	if c.Projection == nil || *c.Projection == "" {
		return polar.ProjectionLocal
	}
	return *c.Projection
}

// GetElevation returns the beam elevation in degrees or the default.
func (c *RunConfig) GetElevation() float64 {
	if c.Elevation == nil {
		return 0
	}
	return *c.Elevation
}

// GetNeighbours returns the neighbours value or the default.
func (c *RunConfig) GetNeighbours() int {
	if c.Neighbours == nil || *c.Neighbours == 0 {
		return neighbours.DefaultK
	}
	return *c.Neighbours
}

// GetReduce returns the reduce value or the default.
func (c *RunConfig) GetReduce() string {
	if c.Reduce == nil || *c.Reduce == "" {
		return "nearest"
	}
	return *c.Reduce
}

// GetMinValue returns the min_value threshold, or nil when only finiteness
// is required.
func (c *RunConfig) GetMinValue() *float64 {
	if c.MinValue == nil {
		return nil
	}
	v := *c.MinValue
	return &v
}

// GetReportMetrics returns the selected report metrics or the defaults.
func (c *RunConfig) GetReportMetrics() []string {
	if len(c.ReportMetrics) == 0 {
		return append([]string(nil), report.DefaultMetrics...)
	}
	return append([]string(nil), c.ReportMetrics...)
}

// GetUnit returns the report unit or the default.
func (c *RunConfig) GetUnit() string {
	if c.Unit == nil {
		return units.MM
	}
	return *c.Unit
}

// GetPlotPNG returns the PNG plot path; empty disables the plot.
func (c *RunConfig) GetPlotPNG() string {
	if c.PlotPNG == nil {
		return ""
	}
	return *c.PlotPNG
}

// GetPlotHTML returns the HTML plot path; empty disables the plot.
func (c *RunConfig) GetPlotHTML() string {
	if c.PlotHTML == nil {
		return ""
	}
	return *c.PlotHTML
}
