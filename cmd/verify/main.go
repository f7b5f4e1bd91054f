// Command verify compares radar scans with rain gauge observations.
//
// It extracts the radar bins nearest to every gauge, reduces them to one
// estimate per gauge and time step, and reports error metrics between the
// gauge observations and the radar estimates.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/banshee-data/rainverify/internal/config"
	"github.com/banshee-data/rainverify/internal/fsutil"
	"github.com/banshee-data/rainverify/internal/gaugeio"
	"github.com/banshee-data/rainverify/internal/metrics"
	"github.com/banshee-data/rainverify/internal/ndarray"
	"github.com/banshee-data/rainverify/internal/neighbours"
	"github.com/banshee-data/rainverify/internal/polar"
	"github.com/banshee-data/rainverify/internal/report"
	"github.com/banshee-data/rainverify/internal/security"
	"github.com/banshee-data/rainverify/internal/units"
	"github.com/banshee-data/rainverify/internal/version"
)

// estimatesFile is written to the output directory when -out is set.
const estimatesFile = "estimates.csv"

type options struct {
	configPath string
	gaugesPath string
	scansPath  string
	outDir     string
	all        bool
}

func main() {
	configPath := flag.String("config", "", "Run configuration JSON file")
	gaugesPath := flag.String("gauges", "", "Gauge table CSV (id,x,y,obs...)")
	scansPath := flag.String("scans", "", "Polar scan stack CSV")
	outDir := flag.String("out", "", "Output directory for estimates and plots (optional)")
	verbose := flag.Bool("verbose", false, "Log index construction details")
	showAll := flag.Bool("all", false, "Print every metric instead of the configured selection")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *configPath == "" || *gaugesPath == "" || *scansPath == "" {
		log.Fatal("-config, -gauges and -scans are required")
	}

	var diag io.Writer
	if *verbose {
		diag = os.Stderr
	}
	neighbours.SetLogWriters(os.Stderr, diag, nil)

	opts := options{
		configPath: *configPath,
		gaugesPath: *gaugesPath,
		scansPath:  *scansPath,
		outDir:     *outDir,
		all:        *showAll,
	}
	if err := run(fsutil.OSFileSystem{}, opts, os.Stdout); err != nil {
		log.Fatalf("verify: %v", err)
	}
}

// run executes one verification and writes the text report to stdout.
func run(fsys fsutil.FileSystem, o options, stdout io.Writer) error {
	cfg, err := config.Load(fsys, o.configPath)
	if err != nil {
		return err
	}
	grid := cfg.Grid()

	gauges, err := gaugeio.LoadGauges(fsys, o.gaugesPath)
	if err != nil {
		return err
	}

	geo := polar.Flat{ElevationDeg: cfg.GetElevation()}
	idx, err := neighbours.New(grid, cfg.Site(), cfg.GetProjection(), geo, gauges.X, gauges.Y, cfg.GetNeighbours())
	if err != nil {
		return fmt.Errorf("build neighbour index: %w", err)
	}

	scans, err := gaugeio.LoadScans(fsys, o.scansPath, grid)
	if err != nil {
		return err
	}
	if steps := scans.Shape()[0]; steps != gauges.Steps() {
		return &ndarray.InvalidShapeError{What: "scan time steps vs gauge observation columns", Expected: gauges.Steps(), Actual: steps}
	}

	est, err := estimate(idx, scans, cfg.GetReduce())
	if err != nil {
		return err
	}

	var obsAll, estAll []float64
	for t := range est {
		obsAll = append(obsAll, gauges.ObsAt(t)...)
		estAll = append(estAll, est[t]...)
	}
	unit := cfg.GetUnit()
	units.ConvertAll(obsAll, unit)
	units.ConvertAll(estAll, unit)

	m, err := metrics.New(obsAll, estAll, cfg.GetMinValue())
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	values, err := m.All()
	if err != nil && !errors.Is(err, metrics.ErrDegenerateInput) {
		return fmt.Errorf("metrics: %w", err)
	}
	if err != nil {
		log.Printf("some metrics are undefined: %v", err)
	}

	if err := printReport(stdout, o.all, m.N(), values, cfg.GetReportMetrics()); err != nil {
		return err
	}

	return writeOutputs(fsys, o.outDir, cfg, gauges, est, m, values)
}

// printReport writes the pair count and either every metric or the selection.
func printReport(w io.Writer, all bool, n int, values map[string]float64, selected []string) error {
	if !all {
		return report.Text(w, n, values, selected)
	}
	if _, err := fmt.Fprintf(w, "n: %d\n", n); err != nil {
		return err
	}
	return report.Pretty(w, values)
}

// estimate extracts the neighbour values for every time step and reduces
// them to one estimate per gauge. The result is indexed [t][gauge].
func estimate(idx *neighbours.Index, scans ndarray.Array, reduce string) ([][]float64, error) {
	reducer, ok := neighbours.ReducerByName(reduce)
	if !ok {
		return nil, fmt.Errorf("unknown reduce %q", reduce)
	}

	ext, err := idx.Extract(scans)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	shape := ext.Shape() // (T, P, k)
	p, k := shape[1], shape[2]
	out := make([][]float64, shape[0])
	for t := range out {
		block, err := ext.Block(t)
		if err != nil {
			return nil, err
		}
		rows := make([][]float64, p)
		for i := range rows {
			rows[i] = block[i*k : (i+1)*k]
		}
		out[t] = reducer(rows)
	}
	return out, nil
}

func writeOutputs(fsys fsutil.FileSystem, outDir string, cfg *config.RunConfig, gauges *gaugeio.Gauges, est [][]float64, m *metrics.ErrorMetrics, values map[string]float64) error {
	if outDir != "" {
		if err := fsys.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
		f, err := fsys.Create(filepath.Join(outDir, estimatesFile))
		if err != nil {
			return err
		}
		if err := gaugeio.WriteEstimates(f, gauges, est); err != nil {
			f.Close()
			return fmt.Errorf("write estimates: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	plotOpts := report.PlotOptions{Unit: cfg.GetUnit(), Metrics: cfg.GetReportMetrics()}
	if p := cfg.GetPlotPNG(); p != "" {
		path, err := security.ResolveOutputPath(outDir, p)
		if err != nil {
			return err
		}
		if err := report.SavePlot(fsys, path, m.Obs(), m.Est(), values, plotOpts); err != nil {
			return fmt.Errorf("plot: %w", err)
		}
	}
	if p := cfg.GetPlotHTML(); p != "" {
		path, err := security.ResolveOutputPath(outDir, p)
		if err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := fsys.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output dir: %w", err)
			}
		}
		f, err := fsys.Create(path)
		if err != nil {
			return err
		}
		if err := report.WriteHTML(f, m.Obs(), m.Est(), values, plotOpts); err != nil {
			f.Close()
			return fmt.Errorf("html plot: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
