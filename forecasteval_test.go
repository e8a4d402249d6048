package forecasteval

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/forecastkit/go-forecasteval/frame"
	"github.com/forecastkit/go-forecasteval/metrics"
	"github.com/forecastkit/go-forecasteval/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotEnoughData = errors.New("not enough data to fit")

// meanForecaster predicts the mean of the NaN-filtered training values.
type meanForecaster struct {
	mean float64
}

func (m *meanForecaster) Fit(td *timedataset.TimeDataset) error {
	clean := td.DropNaN()
	if clean.Len() == 0 {
		return errNotEnoughData
	}
	var sum float64
	for _, v := range clean.Y {
		sum += v
	}
	m.mean = sum / float64(clean.Len())
	return nil
}

func (m *meanForecaster) Predict(t []time.Time) (*Prediction, error) {
	point := make([]float64, len(t))
	for i := range point {
		point[i] = m.mean
	}
	return &Prediction{Point: point}, nil
}

// offsetForecaster predicts the training mean scaled by a fixed factor.
type offsetForecaster struct {
	factor float64
	mean   meanForecaster
}

func (o *offsetForecaster) Fit(td *timedataset.TimeDataset) error {
	return o.mean.Fit(td)
}

func (o *offsetForecaster) Predict(t []time.Time) (*Prediction, error) {
	pred, err := o.mean.Predict(t)
	if err != nil {
		return nil, err
	}
	for i := range pred.Point {
		pred.Point[i] *= o.factor
	}
	return pred, nil
}

// failingForecaster always fails to fit.
type failingForecaster struct{}

func (f *failingForecaster) Fit(td *timedataset.TimeDataset) error { return errNotEnoughData }

func (f *failingForecaster) Predict(t []time.Time) (*Prediction, error) {
	return nil, errNotEnoughData
}

func constSeries(t *testing.T, grain, group string, n int, val float64, start time.Time) *timedataset.TimeDataset {
	t.Helper()
	tSeries := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		tSeries = append(tSeries, start.Add(time.Duration(i)*7*24*time.Hour))
	}
	td, err := timedataset.NewTimeDataset(grain, group, tSeries, timedataset.GenerateConstY(n, val))
	require.Nil(t, err)
	return td
}

func backtestSets(t *testing.T) (*timedataset.Set, *timedataset.Set) {
	t.Helper()
	trainStart := time.Date(1990, 1, 3, 0, 0, 0, 0, time.UTC)
	testStart := trainStart.Add(8 * 7 * 24 * time.Hour)

	train, err := timedataset.NewSet(
		constSeries(t, "2/tropicana", "2", 8, 100.0, trainStart),
		constSeries(t, "5/dominicks", "5", 8, 50.0, trainStart),
	)
	require.Nil(t, err)

	test, err := timedataset.NewSet(
		constSeries(t, "2/tropicana", "2", 4, 100.0, testStart),
		constSeries(t, "5/dominicks", "5", 4, 50.0, testStart),
	)
	require.Nil(t, err)
	return train, test
}

func TestBacktest(t *testing.T) {
	train, test := backtestSets(t)

	forecasters := map[string]Factory{
		"mean":   func() Forecaster { return &meanForecaster{} },
		"offset": func() Forecaster { return &offsetForecaster{factor: 1.1} },
	}

	f, err := Backtest(forecasters, train, test)
	require.Nil(t, err)
	// 2 models x 2 grains x 4 test points
	require.Equal(t, 16, f.Len())

	et, err := f.CalcError(metrics.NameMedianAPE, nil, frame.ByModel)
	require.Nil(t, err)
	require.Len(t, et.Rows, 2)
	assert.Equal(t, "mean", et.Rows[0].Key)
	assert.InDelta(t, 0.0, et.Rows[0].Value, 1e-12)
	assert.Equal(t, "offset", et.Rows[1].Key)
	assert.InDelta(t, 10.0, et.Rows[1].Value, 1e-9)
}

func TestBacktestFailingSeriesDegradesToNaN(t *testing.T) {
	train, test := backtestSets(t)

	forecasters := map[string]Factory{
		"mean":    func() Forecaster { return &meanForecaster{} },
		"failing": func() Forecaster { return &failingForecaster{} },
	}

	f, err := Backtest(forecasters, train, test)
	require.Nil(t, err)

	et, err := f.CalcError(metrics.NameMedianAPE, nil, frame.ByModel)
	require.Nil(t, err)
	require.Len(t, et.Rows, 2)
	assert.Equal(t, "failing", et.Rows[0].Key)
	assert.True(t, math.IsNaN(et.Rows[0].Value))
	assert.Equal(t, "mean", et.Rows[1].Key)
	assert.InDelta(t, 0.0, et.Rows[1].Value, 1e-12)
}

func TestBacktestContractViolations(t *testing.T) {
	train, test := backtestSets(t)

	_, err := Backtest(nil, train, test)
	assert.ErrorIs(t, err, ErrNoForecasters)

	forecasters := map[string]Factory{
		"mean": func() Forecaster { return &meanForecaster{} },
	}

	empty, err := timedataset.NewSet()
	require.Nil(t, err)

	_, err = Backtest(forecasters, train, empty)
	assert.ErrorIs(t, err, ErrNoTestData)

	_, err = Backtest(forecasters, empty, test)
	assert.ErrorIs(t, err, ErrMissingTrainingData)
}

func TestEvaluate(t *testing.T) {
	train, test := backtestSets(t)

	forecasters := map[string]Factory{
		"mean":   func() Forecaster { return &meanForecaster{} },
		"offset": func() Forecaster { return &offsetForecaster{factor: 1.1} },
	}

	f, err := Backtest(forecasters, train, test)
	require.Nil(t, err)

	e := NewEvaluator(nil)
	rpt, err := e.Evaluate(f)
	require.Nil(t, err)

	assert.Equal(t, frame.ByModel, rpt.By)
	assert.Equal(t, []string{metrics.NameMAPE, metrics.NameMedianAPE}, rpt.Metrics)
	assert.Equal(t, []string{"mean", "offset"}, rpt.Keys)

	val, err := rpt.Value("offset", metrics.NameMedianAPE)
	require.Nil(t, err)
	assert.InDelta(t, 10.0, val, 1e-9)
}

func TestEvaluateUnknownMetric(t *testing.T) {
	train, test := backtestSets(t)

	f, err := Backtest(map[string]Factory{
		"mean": func() Forecaster { return &meanForecaster{} },
	}, train, test)
	require.Nil(t, err)

	e := NewEvaluator(&Options{Metrics: []string{"NotAMetric"}, By: frame.ByModel})
	_, err = e.Evaluate(f)
	assert.ErrorIs(t, err, metrics.ErrUnknownMetric)
}
