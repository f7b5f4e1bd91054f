// Package gaugeio reads rain gauge tables and polar scan stacks from CSV
// files and writes per-gauge radar estimates back out.
package gaugeio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/rainverify/internal/fsutil"
)

// Gauges is a table of gauge locations and their observations.
// Obs[i][t] is the observation of gauge i at time step t.
type Gauges struct {
	IDs []string
	X   []float64
	Y   []float64
	Obs [][]float64
}

// Len returns the number of gauges.
func (g *Gauges) Len() int { return len(g.IDs) }

// Steps returns the number of time steps per gauge.
func (g *Gauges) Steps() int {
	if len(g.Obs) == 0 {
		return 0
	}
	return len(g.Obs[0])
}

// ObsAt returns the observations of every gauge at time step t.
func (g *Gauges) ObsAt(t int) []float64 {
	out := make([]float64, len(g.Obs))
	for i, row := range g.Obs {
		out[i] = row[t]
	}
	return out
}

// parseValue parses a numeric cell; empty and "nan" cells are NaN.
func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float '%s': %w", s, err)
	}
	return v, nil
}

// ReadGauges parses a gauge table with header id,x,y,obs[,obs...].
func ReadGauges(r io.Reader) (*Gauges, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("gauge table is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("gauge header needs id,x,y and at least one observation column, got %d columns", len(header))
	}
	for i, want := range []string{"id", "x", "y"} {
		if got := strings.ToLower(strings.TrimSpace(header[i])); got != want {
			return nil, fmt.Errorf("gauge header column %d is %q, want %q", i+1, header[i], want)
		}
	}

	g := &Gauges{}
	steps := len(header) - 3
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		x, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid x: %w", line, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid y: %w", line, err)
		}
		obs := make([]float64, steps)
		for t := range obs {
			if obs[t], err = parseValue(rec[3+t]); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}

		g.IDs = append(g.IDs, strings.TrimSpace(rec[0]))
		g.X = append(g.X, x)
		g.Y = append(g.Y, y)
		g.Obs = append(g.Obs, obs)
	}

	if g.Len() == 0 {
		return nil, fmt.Errorf("gauge table has no rows")
	}
	return g, nil
}

// LoadGauges reads a gauge table from path on fsys.
func LoadGauges(fsys fsutil.FileSystem, path string) (*Gauges, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gauges: %w", err)
	}
	defer f.Close()

	g, err := ReadGauges(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteEstimates writes one row per gauge with its id, location and the
// estimate at every time step. est[t][i] is the estimate for gauge i at
// time step t.
func WriteEstimates(w io.Writer, g *Gauges, est [][]float64) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "x", "y"}
	for t := range est {
		header = append(header, fmt.Sprintf("est_%d", t))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, id := range g.IDs {
		row := []string{
			id,
			strconv.FormatFloat(g.X[i], 'f', -1, 64),
			strconv.FormatFloat(g.Y[i], 'f', -1, 64),
		}
		for t, step := range est {
			if len(step) != g.Len() {
				return fmt.Errorf("time step %d has %d estimates for %d gauges", t, len(step), g.Len())
			}
			row = append(row, strconv.FormatFloat(step[i], 'f', 4, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
