package config

import (
	"strings"
	"testing"

	"github.com/banshee-data/rainverify/internal/fsutil"
	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, path, body string) *fsutil.MemoryFileSystem {
	t.Helper()
	fs := fsutil.NewMemoryFileSystem()
	if err := fs.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return fs
}

func TestLoad(t *testing.T) {
	fs := writeConfig(t, "run.json", `{
  "range_start": 500,
  "range_step": 1000,
  "range_count": 4,
  "azimuth_count": 360,
  "site_x": 100,
  "site_y": -50,
  "site_alt": 120,
  "elevation": 0.5,
  "neighbours": 4,
  "reduce": "mean",
  "min_value": 0.1,
  "report_metrics": ["rmse", "corr"],
  "unit": "in/h",
  "plot_png": "out/scatter.png"
}`)

	cfg, err := Load(fs, "run.json")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	grid := cfg.Grid()
	if diff := cmp.Diff([]float64{500, 1500, 2500, 3500}, grid.Ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	if grid.NumAzimuths() != 360 {
		t.Errorf("NumAzimuths() = %d, want 360", grid.NumAzimuths())
	}

	site := cfg.Site()
	if site.X != 100 || site.Y != -50 || site.Alt != 120 {
		t.Errorf("Site() = %+v", site)
	}
	if cfg.GetElevation() != 0.5 {
		t.Errorf("GetElevation() = %f, want 0.5", cfg.GetElevation())
	}
	if cfg.GetNeighbours() != 4 {
		t.Errorf("GetNeighbours() = %d, want 4", cfg.GetNeighbours())
	}
	if cfg.GetReduce() != "mean" {
		t.Errorf("GetReduce() = %q, want mean", cfg.GetReduce())
	}
	if mv := cfg.GetMinValue(); mv == nil || *mv != 0.1 {
		t.Errorf("GetMinValue() = %v, want 0.1", mv)
	}
	if diff := cmp.Diff([]string{"rmse", "corr"}, cfg.GetReportMetrics()); diff != "" {
		t.Errorf("report metrics mismatch (-want +got):\n%s", diff)
	}
	if cfg.GetUnit() != "in/h" {
		t.Errorf("GetUnit() = %q, want in/h", cfg.GetUnit())
	}
	if cfg.GetPlotPNG() != "out/scatter.png" {
		t.Errorf("GetPlotPNG() = %q", cfg.GetPlotPNG())
	}
	if cfg.GetPlotHTML() != "" {
		t.Errorf("GetPlotHTML() = %q, want empty", cfg.GetPlotHTML())
	}
}

func TestDefaults(t *testing.T) {
	fs := writeConfig(t, "run.json", `{"ranges": [1, 2], "azimuths": [0, 90, 180, 270]}`)

	cfg, err := Load(fs, "run.json")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetNeighbours() != 9 {
		t.Errorf("GetNeighbours() = %d, want 9", cfg.GetNeighbours())
	}
	if cfg.GetReduce() != "nearest" {
		t.Errorf("GetReduce() = %q, want nearest", cfg.GetReduce())
	}
	if cfg.GetProjection() != "local" {
		t.Errorf("GetProjection() = %q, want local", cfg.GetProjection())
	}
	if cfg.GetMinValue() != nil {
		t.Errorf("GetMinValue() = %v, want nil", *cfg.GetMinValue())
	}
	if diff := cmp.Diff([]string{"rmse", "r2", "meanerr"}, cfg.GetReportMetrics()); diff != "" {
		t.Errorf("report metrics mismatch (-want +got):\n%s", diff)
	}
	if cfg.GetUnit() != "mm" {
		t.Errorf("GetUnit() = %q, want mm", cfg.GetUnit())
	}
	if got := cfg.Grid().Shape(); !cmp.Equal(got, []int{4, 2}) {
		t.Errorf("Grid().Shape() = %v, want [4 2]", got)
	}
}

func TestGetMinValueIsCopy(t *testing.T) {
	v := 1.0
	cfg := &RunConfig{MinValue: &v}
	*cfg.GetMinValue() = 5
	if *cfg.MinValue != 1 {
		t.Errorf("GetMinValue() exposed internal pointer")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		body    string
		wantErr string
	}{
		{"wrong extension", "run.yaml", `{}`, ".json extension"},
		{"bad json", "run.json", `{"ranges": [1,`, "parse config JSON"},
		{"no ranges", "run.json", `{"azimuth_count": 4}`, "range_step and range_count"},
		{"no azimuths", "run.json", `{"ranges": [1]}`, "azimuth_count"},
		{"zero range count", "run.json", `{"range_step": 1, "range_count": 0, "azimuth_count": 4}`, "range_count must be positive"},
		{"negative step", "run.json", `{"range_step": -1, "range_count": 3, "azimuth_count": 4}`, "range_step must be positive"},
		{"zero azimuth count", "run.json", `{"ranges": [1], "azimuth_count": 0}`, "azimuth_count must be positive"},
		{"projection", "run.json", `{"ranges": [1], "azimuths": [0], "projection": "EPSG:3857"}`, "unsupported projection"},
		{"elevation", "run.json", `{"ranges": [1], "azimuths": [0], "elevation": 90}`, "elevation must be"},
		{"negative k", "run.json", `{"ranges": [1], "azimuths": [0], "neighbours": -1}`, "non-negative"},
		{"k too large", "run.json", `{"ranges": [1, 2], "azimuths": [0], "neighbours": 3}`, "exceeds the number of bins"},
		{"reduce", "run.json", `{"ranges": [1], "azimuths": [0], "reduce": "median"}`, "unknown reduce"},
		{"unit", "run.json", `{"ranges": [1], "azimuths": [0], "unit": "mph"}`, "unit must be one of"},
		{"metric", "run.json", `{"ranges": [1], "azimuths": [0], "report_metrics": ["bias"]}`, "unknown report metric"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := writeConfig(t, tt.path, tt.body)
			_, err := Load(fs, tt.path)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(fsutil.NewMemoryFileSystem(), "missing.json")
	if err == nil || !strings.Contains(err.Error(), "stat config file") {
		t.Errorf("expected stat error, got %v", err)
	}
}

func TestLoadTooLarge(t *testing.T) {
	big := `{"ranges": [1], "azimuths": [0], "unit": "` + strings.Repeat("x", maxFileSize) + `"}`
	fs := writeConfig(t, "run.json", big)
	_, err := Load(fs, "run.json")
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("expected size error, got %v", err)
	}
}
