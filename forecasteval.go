// Package forecasteval evaluates forecasting models. It backtests any
// collection of Forecaster implementations across a set of time series,
// collects the tagged results in a frame.ForecastFrame, and aggregates
// accuracy metrics into reports grouped by model, grain, group, or horizon.
package forecasteval

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/forecastkit/go-forecasteval/frame"
	"github.com/forecastkit/go-forecasteval/metrics"
	"github.com/forecastkit/go-forecasteval/timedataset"
)

var (
	ErrNoForecasters       = errors.New("no forecasters to backtest")
	ErrNoTestData          = errors.New("no test data")
	ErrMissingTrainingData = errors.New("no training series for test grain")
)

// Forecaster is the capability every evaluated model exposes. Fit trains on
// a single series and Predict produces a forecast at the requested times.
// Model families (naive, seasonal naive, exponential smoothing, ARIMA,
// wrapped regressions) are supplied by external packages; this library only
// consumes the contract.
type Forecaster interface {
	Fit(td *timedataset.TimeDataset) error
	Predict(t []time.Time) (*Prediction, error)
}

// Prediction holds the point forecast and optional distribution bounds. Nil
// Upper/Lower mark models without distribution forecasts.
type Prediction struct {
	Point []float64
	Upper []float64
	Lower []float64
}

// Factory creates a fresh Forecaster. Backtest instantiates one per model
// name and grain so fits never share state across series.
type Factory func() Forecaster

// Backtest fits every forecaster on each training series and forecasts at
// the matching test series times, returning all results in a single frame
// tagged by model name, grain, group, and horizon. A fit or predict failure
// on one series is recorded as NaN forecasts for that series rather than
// aborting the run, mirroring how degenerate groups surface as missing
// entries downstream. Missing training data for a test grain is a contract
// violation and fails the whole call.
func Backtest(forecasters map[string]Factory, train, test *timedataset.Set) (*frame.ForecastFrame, error) {
	if len(forecasters) == 0 {
		return nil, ErrNoForecasters
	}
	if test.Len() == 0 {
		return nil, ErrNoTestData
	}

	names := make([]string, 0, len(forecasters))
	for name := range forecasters {
		names = append(names, name)
	}
	sort.Strings(names)

	f := frame.New()
	for _, name := range names {
		newForecaster := forecasters[name]
		for _, grain := range test.Grains() {
			testTd, err := test.Get(grain)
			if err != nil {
				return nil, err
			}
			trainTd, err := train.Get(grain)
			if err != nil {
				return nil, fmt.Errorf("%q, %w", grain, ErrMissingTrainingData)
			}

			pred := forecastSeries(newForecaster(), trainTd, testTd.T)
			if err := f.AppendSeries(grain, testTd.Group, name, testTd.T, testTd.Y, pred.Point, pred.Upper, pred.Lower); err != nil {
				return nil, fmt.Errorf("unable to append forecast for %q/%q, %w", name, grain, err)
			}
		}
	}
	return f, nil
}

// forecastSeries runs one fit/predict, degrading any failure or malformed
// prediction to NaN point forecasts.
func forecastSeries(fc Forecaster, trainTd *timedataset.TimeDataset, t []time.Time) *Prediction {
	nanPred := func() *Prediction {
		point := make([]float64, len(t))
		for i := range point {
			point[i] = math.NaN()
		}
		return &Prediction{Point: point}
	}

	if err := fc.Fit(trainTd); err != nil {
		return nanPred()
	}
	pred, err := fc.Predict(t)
	if err != nil || pred == nil || len(pred.Point) != len(t) {
		return nanPred()
	}
	if pred.Upper != nil && len(pred.Upper) != len(t) {
		pred.Upper = nil
	}
	if pred.Lower != nil && len(pred.Lower) != len(t) {
		pred.Lower = nil
	}
	return pred
}

// Options configures an Evaluator. Metrics are built-in metric names
// resolved through the metrics package.
type Options struct {
	Metrics []string
	By      frame.GroupBy
}

// NewDefaultOptions evaluates MAPE and MedianAPE grouped by model name.
func NewDefaultOptions() *Options {
	return &Options{
		Metrics: []string{metrics.NameMAPE, metrics.NameMedianAPE},
		By:      frame.ByModel,
	}
}

// Evaluator runs a fixed set of error metrics over forecast frames. If no
// options are provided a default is used.
type Evaluator struct {
	opt *Options
}

func NewEvaluator(opt *Options) *Evaluator {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	return &Evaluator{opt: opt}
}

// Evaluate computes every configured metric over the frame and merges the
// per-metric tables into a single report keyed by the grouping tag.
func (e *Evaluator) Evaluate(f *frame.ForecastFrame) (*Report, error) {
	tables := make([]*frame.ErrorTable, 0, len(e.opt.Metrics))
	for _, name := range e.opt.Metrics {
		et, err := f.CalcError(name, nil, e.opt.By)
		if err != nil {
			return nil, fmt.Errorf("unable to evaluate %s, %w", name, err)
		}
		tables = append(tables, et)
	}
	return NewReport(tables...)
}
