package gaugeio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/rainverify/internal/fsutil"
	"github.com/banshee-data/rainverify/internal/ndarray"
	"github.com/banshee-data/rainverify/internal/polar"
)

// ReadScans parses a stack of polar scans: for every time step a block of
// A lines with R comma-separated values, blocks separated by blank lines.
// The result has shape (T, A, R). Lines starting with '#' are ignored.
func ReadScans(r io.Reader, grid polar.Grid) (ndarray.Array, error) {
	if err := grid.Validate(); err != nil {
		return ndarray.Array{}, err
	}
	nAz, nRange := grid.NumAzimuths(), grid.NumRanges()

	var (
		data  []float64
		rows  int
		steps int
	)
	endBlock := func(line int) error {
		if rows == 0 {
			return nil
		}
		if rows != nAz {
			return &ndarray.InvalidShapeError{What: fmt.Sprintf("scan %d rows (ending line %d)", steps, line), Expected: nAz, Actual: rows}
		}
		steps++
		rows = 0
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(text, "#") {
			continue
		}
		if text == "" {
			if err := endBlock(line); err != nil {
				return ndarray.Array{}, err
			}
			continue
		}

		cells := strings.Split(text, ",")
		if len(cells) != nRange {
			return ndarray.Array{}, &ndarray.InvalidShapeError{What: fmt.Sprintf("line %d columns", line), Expected: nRange, Actual: len(cells)}
		}
		for _, c := range cells {
			v, err := parseValue(c)
			if err != nil {
				return ndarray.Array{}, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return ndarray.Array{}, fmt.Errorf("read scans: %w", err)
	}
	if err := endBlock(line); err != nil {
		return ndarray.Array{}, err
	}
	if steps == 0 {
		return ndarray.Array{}, fmt.Errorf("no scans found")
	}

	return ndarray.New([]int{steps, nAz, nRange}, data)
}

// LoadScans reads a scan stack from path on fsys.
func LoadScans(fsys fsutil.FileSystem, path string, grid polar.Grid) (ndarray.Array, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return ndarray.Array{}, fmt.Errorf("open scans: %w", err)
	}
	defer f.Close()

	a, err := ReadScans(f, grid)
	if err != nil {
		return ndarray.Array{}, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}
