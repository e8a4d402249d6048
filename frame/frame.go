// Package frame provides the forecast result container. A ForecastFrame
// holds point and distribution forecasts next to the observed values, each
// row tagged with the grain, pooling group, model name, and forecast
// horizon so error metrics can be aggregated along any of those keys.
package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

var (
	ErrRowLenMismatch = errors.New("row columns have different lengths")
	ErrNoModelName    = errors.New("no model name set on row")
	ErrNoGrain        = errors.New("no grain set on row")
	ErrUnknownGroupBy = errors.New("unknown grouping key")
)

// GroupBy selects the row tag used to pool rows during error aggregation.
type GroupBy string

const (
	ByModel   GroupBy = "ModelName"
	ByGrain   GroupBy = "Grain"
	ByGroup   GroupBy = "Group"
	ByHorizon GroupBy = "Horizon"
)

// Row is a single forecasted observation.
type Row struct {
	Grain   string
	Group   string
	Model   string
	Horizon int
	T       time.Time
	Actual  float64
	Point   float64
	Upper   float64
	Lower   float64
}

// ForecastFrame stores forecast rows column-oriented. All column slices
// always have the same length.
type ForecastFrame struct {
	Grain   []string    `json:"grain"`
	Group   []string    `json:"group"`
	Model   []string    `json:"model_name"`
	Horizon []int       `json:"horizon"`
	T       []time.Time `json:"time"`
	Actual  []float64   `json:"actual"`
	Point   []float64   `json:"point_forecast"`
	Upper   []float64   `json:"upper"`
	Lower   []float64   `json:"lower"`
}

func New() *ForecastFrame {
	return &ForecastFrame{}
}

func (f *ForecastFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.T)
}

// Append adds a single row to the frame.
func (f *ForecastFrame) Append(r Row) error {
	if r.Grain == "" {
		return ErrNoGrain
	}
	if r.Model == "" {
		return ErrNoModelName
	}
	if r.Group == "" {
		r.Group = r.Grain
	}

	f.Grain = append(f.Grain, r.Grain)
	f.Group = append(f.Group, r.Group)
	f.Model = append(f.Model, r.Model)
	f.Horizon = append(f.Horizon, r.Horizon)
	f.T = append(f.T, r.T)
	f.Actual = append(f.Actual, r.Actual)
	f.Point = append(f.Point, r.Point)
	f.Upper = append(f.Upper, r.Upper)
	f.Lower = append(f.Lower, r.Lower)
	return nil
}

// AppendSeries adds one forecasted series to the frame with horizons
// numbered from 1 in time order. Nil upper/lower columns are recorded as
// NaN for models without distribution forecasts.
func (f *ForecastFrame) AppendSeries(grain, group, model string, t []time.Time, actual, point, upper, lower []float64) error {
	if len(t) != len(actual) || len(t) != len(point) {
		return fmt.Errorf(
			"time has length %d, actual %d, point %d, %w",
			len(t), len(actual), len(point), ErrRowLenMismatch,
		)
	}
	if upper != nil && len(upper) != len(t) {
		return fmt.Errorf("upper has length %d, expected %d, %w", len(upper), len(t), ErrRowLenMismatch)
	}
	if lower != nil && len(lower) != len(t) {
		return fmt.Errorf("lower has length %d, expected %d, %w", len(lower), len(t), ErrRowLenMismatch)
	}

	for i := 0; i < len(t); i++ {
		r := Row{
			Grain:   grain,
			Group:   group,
			Model:   model,
			Horizon: i + 1,
			T:       t[i],
			Actual:  actual[i],
			Point:   point[i],
			Upper:   math.NaN(),
			Lower:   math.NaN(),
		}
		if upper != nil {
			r.Upper = upper[i]
		}
		if lower != nil {
			r.Lower = lower[i]
		}
		if err := f.Append(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *ForecastFrame) key(i int, by GroupBy) (string, error) {
	switch by {
	case ByModel:
		return f.Model[i], nil
	case ByGrain:
		return f.Grain[i], nil
	case ByGroup:
		return f.Group[i], nil
	case ByHorizon:
		return strconv.Itoa(f.Horizon[i]), nil
	default:
		return "", fmt.Errorf("%q, %w", by, ErrUnknownGroupBy)
	}
}

// Filter returns a new frame containing only the rows whose grouping key
// matches the given key.
func (f *ForecastFrame) Filter(by GroupBy, key string) (*ForecastFrame, error) {
	res := New()
	for i := 0; i < f.Len(); i++ {
		k, err := f.key(i, by)
		if err != nil {
			return nil, err
		}
		if k != key {
			continue
		}
		r := Row{
			Grain:   f.Grain[i],
			Group:   f.Group[i],
			Model:   f.Model[i],
			Horizon: f.Horizon[i],
			T:       f.T[i],
			Actual:  f.Actual[i],
			Point:   f.Point[i],
			Upper:   f.Upper[i],
			Lower:   f.Lower[i],
		}
		if err := res.Append(r); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Keys returns the distinct grouping keys in first-seen row order.
func (f *ForecastFrame) Keys(by GroupBy) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string
	for i := 0; i < f.Len(); i++ {
		k, err := f.key(i, by)
		if err != nil {
			return nil, err
		}
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

// MarshalJSON serializes the frame replacing NaN values with null since
// JSON has no NaN literal.
func (f *ForecastFrame) MarshalJSON() ([]byte, error) {
	type alias struct {
		Grain   []string    `json:"grain"`
		Group   []string    `json:"group"`
		Model   []string    `json:"model_name"`
		Horizon []int       `json:"horizon"`
		T       []time.Time `json:"time"`
		Actual  []*float64  `json:"actual"`
		Point   []*float64  `json:"point_forecast"`
		Upper   []*float64  `json:"upper"`
		Lower   []*float64  `json:"lower"`
	}
	a := alias{
		Grain:   f.Grain,
		Group:   f.Group,
		Model:   f.Model,
		Horizon: f.Horizon,
		T:       f.T,
		Actual:  nullableColumn(f.Actual),
		Point:   nullableColumn(f.Point),
		Upper:   nullableColumn(f.Upper),
		Lower:   nullableColumn(f.Lower),
	}
	return json.Marshal(a)
}

func nullableColumn(col []float64) []*float64 {
	res := make([]*float64, len(col))
	for i := range col {
		if math.IsNaN(col[i]) {
			continue
		}
		val := col[i]
		res[i] = &val
	}
	return res
}
