package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// identitySteps is the number of points used to draw the 1:1 line.
const identitySteps = 50

// WriteHTML renders an interactive scatter of est against obs with go-echarts.
// The selected metrics appear in the subtitle.
func WriteHTML(w io.Writer, obs, est []float64, values map[string]float64, o PlotOptions) error {
	if len(obs) != len(est) {
		return fmt.Errorf("scatter: %d observations but %d estimates", len(obs), len(est))
	}
	lines, err := metricLines(values, o.Metrics)
	if err != nil {
		return err
	}
	maxv := maxValue(obs, est)

	data := make([]opts.ScatterData, len(obs))
	for i := range obs {
		data[i] = opts.ScatterData{Value: []interface{}{obs[i], est[i]}}
	}
	identity := make([]opts.ScatterData, identitySteps+1)
	for i := range identity {
		v := maxv * float64(i) / identitySteps
		identity[i] = opts.ScatterData{Value: []interface{}{v, v}}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.title(), Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: o.title(), Subtitle: strings.Join(lines, "  ")}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: maxv, Name: axisLabel("Observations", o.Unit), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: maxv, Name: axisLabel("Estimates", o.Unit), NameLocation: "middle", NameGap: 30}),
	)
	scatter.AddSeries("pairs", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	scatter.AddSeries("1:1", identity, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 1}))

	return scatter.Render(w)
}
