// Package metrics computes agreement statistics between paired observations
// (e.g. rain gauge totals) and estimates (e.g. radar-derived totals).
//
// Only positions where both samples are valid take part; see package
// validity. All metrics are rounded to two decimals using round half to
// even. A metric that is undefined for the stored sample returns a
// *DegenerateInputError instead of a NaN:
//
//   - every metric when no valid pairs remain;
//   - corr, r2 and spearman when fewer than two pairs remain or either
//     sample is constant;
//   - nash when the observations are constant;
//   - ratio when any observation is zero.
package metrics

import (
	"errors"
	"math"
	"slices"

	"github.com/banshee-data/rainverify/internal/ndarray"
	"github.com/banshee-data/rainverify/internal/validity"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric names, in the order All reports them.
const (
	Corr     = "corr"
	R2       = "r2"
	Spearman = "spearman"
	Nash     = "nash"
	SSE      = "sse"
	MSE      = "mse"
	RMSE     = "rmse"
	MAS      = "mas"
	MeanErr  = "meanerr"
	Ratio    = "ratio"
)

var names = []string{Corr, R2, Spearman, Nash, SSE, MSE, RMSE, MAS, MeanErr, Ratio}

// Names returns the metric names in canonical order.
func Names() []string { return slices.Clone(names) }

// ErrorMetrics holds a filtered pair of samples. It is immutable after New.
type ErrorMetrics struct {
	obs, est []float64
	resids   []float64
}

// New keeps the positions where both obs and est are valid (finite and, if
// minval is non-nil, >= *minval) and stores them with their residuals
// est-obs. obs and est must have equal length.
func New(obs, est []float64, minval *float64) (*ErrorMetrics, error) {
	if len(obs) != len(est) {
		return nil, &ndarray.InvalidShapeError{What: "estimate length", Expected: len(obs), Actual: len(est)}
	}
	ix := validity.Common(obs, est, minval)
	m := &ErrorMetrics{
		obs: validity.Take(obs, ix),
		est: validity.Take(est, ix),
	}
	m.resids = make([]float64, len(ix))
	floats.SubTo(m.resids, m.est, m.obs)
	return m, nil
}

// N returns the number of valid pairs.
func (m *ErrorMetrics) N() int { return len(m.obs) }

// Obs returns the filtered observations.
func (m *ErrorMetrics) Obs() []float64 { return slices.Clone(m.obs) }

// Est returns the filtered estimates.
func (m *ErrorMetrics) Est() []float64 { return slices.Clone(m.est) }

// Residuals returns est-obs for each valid pair.
func (m *ErrorMetrics) Residuals() []float64 { return slices.Clone(m.resids) }

func round2(v float64) float64 { return math.RoundToEven(v*100) / 100 }

func (m *ErrorMetrics) requirePairs(metric string) error {
	if len(m.obs) == 0 {
		return &DegenerateInputError{Metric: metric, Reason: "no valid observation/estimate pairs"}
	}
	return nil
}

func (m *ErrorMetrics) requireSpread(metric string) error {
	if len(m.obs) < 2 {
		return &DegenerateInputError{Metric: metric, Reason: "fewer than two valid pairs"}
	}
	if stat.PopVariance(m.obs, nil) == 0 {
		return &DegenerateInputError{Metric: metric, Reason: "observations have zero variance"}
	}
	if stat.PopVariance(m.est, nil) == 0 {
		return &DegenerateInputError{Metric: metric, Reason: "estimates have zero variance"}
	}
	return nil
}

func (m *ErrorMetrics) pearson(metric string) (float64, error) {
	if err := m.requireSpread(metric); err != nil {
		return math.NaN(), err
	}
	return stat.Correlation(m.obs, m.est, nil), nil
}

// Corr returns the Pearson correlation coefficient.
func (m *ErrorMetrics) Corr() (float64, error) {
	r, err := m.pearson(Corr)
	if err != nil {
		return math.NaN(), err
	}
	return round2(r), nil
}

// R2 returns the coefficient of determination, the squared Pearson r.
func (m *ErrorMetrics) R2() (float64, error) {
	r, err := m.pearson(R2)
	if err != nil {
		return math.NaN(), err
	}
	return round2(r * r), nil
}

// Spearman returns the Spearman rank correlation coefficient.
func (m *ErrorMetrics) Spearman() (float64, error) {
	if err := m.requireSpread(Spearman); err != nil {
		return math.NaN(), err
	}
	return round2(spearman(m.obs, m.est)), nil
}

func (m *ErrorMetrics) sse() float64 { return floats.Dot(m.resids, m.resids) }

func (m *ErrorMetrics) mse() float64 { return m.sse() / float64(len(m.resids)) }

// Nash returns the Nash-Sutcliffe efficiency 1 - mse/var(obs), using the
// population variance of the observations.
func (m *ErrorMetrics) Nash() (float64, error) {
	if err := m.requirePairs(Nash); err != nil {
		return math.NaN(), err
	}
	v := stat.PopVariance(m.obs, nil)
	if v == 0 {
		return math.NaN(), &DegenerateInputError{Metric: Nash, Reason: "observations have zero variance"}
	}
	return round2(1 - m.mse()/v), nil
}

// SSE returns the sum of squared residuals.
func (m *ErrorMetrics) SSE() (float64, error) {
	if err := m.requirePairs(SSE); err != nil {
		return math.NaN(), err
	}
	return round2(m.sse()), nil
}

// MSE returns the mean squared residual, derived from the rounded SSE so a
// report stays self-consistent.
func (m *ErrorMetrics) MSE() (float64, error) {
	if err := m.requirePairs(MSE); err != nil {
		return math.NaN(), err
	}
	return m.roundedMSE(), nil
}

func (m *ErrorMetrics) roundedMSE() float64 {
	return round2(round2(m.sse()) / float64(len(m.resids)))
}

// RMSE returns the square root of the rounded MSE.
func (m *ErrorMetrics) RMSE() (float64, error) {
	if err := m.requirePairs(RMSE); err != nil {
		return math.NaN(), err
	}
	return round2(math.Sqrt(m.roundedMSE())), nil
}

// MAS returns the mean absolute residual.
func (m *ErrorMetrics) MAS() (float64, error) {
	if err := m.requirePairs(MAS); err != nil {
		return math.NaN(), err
	}
	abs := make([]float64, len(m.resids))
	for i, r := range m.resids {
		abs[i] = math.Abs(r)
	}
	return round2(stat.Mean(abs, nil)), nil
}

// MeanErr returns the mean residual (bias of the estimates).
func (m *ErrorMetrics) MeanErr() (float64, error) {
	if err := m.requirePairs(MeanErr); err != nil {
		return math.NaN(), err
	}
	return round2(stat.Mean(m.resids, nil)), nil
}

// Ratio returns the mean of est/obs over the valid pairs. Zero
// observations are not filtered; filter them beforehand (for example with a
// positive minval) if they are expected.
func (m *ErrorMetrics) Ratio() (float64, error) {
	if err := m.requirePairs(Ratio); err != nil {
		return math.NaN(), err
	}
	ratios := make([]float64, len(m.obs))
	for i, o := range m.obs {
		if o == 0 {
			return math.NaN(), &DegenerateInputError{Metric: Ratio, Reason: "an observation is zero"}
		}
		ratios[i] = m.est[i] / o
	}
	return round2(stat.Mean(ratios, nil)), nil
}

// Func returns the method computing the named metric.
func (m *ErrorMetrics) Func(name string) (func() (float64, error), bool) {
	switch name {
	case Corr:
		return m.Corr, true
	case R2:
		return m.R2, true
	case Spearman:
		return m.Spearman, true
	case Nash:
		return m.Nash, true
	case SSE:
		return m.SSE, true
	case MSE:
		return m.MSE, true
	case RMSE:
		return m.RMSE, true
	case MAS:
		return m.MAS, true
	case MeanErr:
		return m.MeanErr, true
	case Ratio:
		return m.Ratio, true
	default:
		return nil, false
	}
}

// All computes every metric. The map always holds all names; undefined
// metrics are NaN and their *DegenerateInputError values are joined into
// the returned error.
func (m *ErrorMetrics) All() (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	var errs []error
	for _, name := range names {
		f, _ := m.Func(name)
		v, err := f()
		if err != nil {
			errs = append(errs, err)
		}
		out[name] = v
	}
	return out, errors.Join(errs...)
}
