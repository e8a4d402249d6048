// Package timedataset provides the time series containers consumed and
// produced by forecast evaluation. A TimeDataset carries the identity of a
// single series, its grain, along with the group used to pool related
// series, and a Set fans operations out across many series.
package timedataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrNoTrainingData     = errors.New("no training data")
	ErrNonMonotonic       = errors.New("time feature is not monotonic")
	ErrDatasetLenMismatch = errors.New("time feature has a different length than observations")
	ErrNoGrain            = errors.New("no grain set on dataset")
	ErrCannotInferFreq    = errors.New("cannot infer frequency from time feature")
)

// GrainKey joins the label parts identifying one distinct series, e.g. one
// store and one brand, into a single grain key.
func GrainKey(parts ...string) string {
	return strings.Join(parts, "/")
}

// TimeDataset represents a single time series identified by a grain. Group
// identifies the pool of series this one may share a model with and
// defaults to the grain. T and Y must be of the same length.
type TimeDataset struct {
	Grain string
	Group string

	T []time.Time
	Y []float64
}

// NewTimeDataset returns an instance of a TimeDataset given its grain, the
// pooling group, and a time and value slice. An empty group defaults to the
// grain, matching the one-model-per-series default.
func NewTimeDataset(grain, group string, t []time.Time, y []float64) (*TimeDataset, error) {
	if grain == "" {
		return nil, ErrNoGrain
	}
	if group == "" {
		group = grain
	}
	if len(y) == 0 {
		return nil, ErrNoTrainingData
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf(
			"time feature has length of %d, but values has a length of %d, %w",
			len(t), len(y), ErrDatasetLenMismatch,
		)
	}

	var lastT time.Time
	for i := 0; i < len(t); i++ {
		currT := t[i]
		if currT.Before(lastT) || currT.Equal(lastT) {
			return nil, fmt.Errorf("non-monotonic at %d, %w", i, ErrNonMonotonic)
		}
		lastT = currT
	}

	tSeries := make([]time.Time, len(t))
	ySeries := make([]float64, len(t))
	copy(tSeries, t)
	copy(ySeries, y)
	td := &TimeDataset{
		Grain: grain,
		Group: group,
		T:     tSeries,
		Y:     ySeries,
	}

	return td, nil
}

func (td *TimeDataset) Len() int {
	if td == nil {
		return 0
	}
	return len(td.T)
}

func (td *TimeDataset) Copy() *TimeDataset {
	if td == nil {
		return nil
	}
	tSeries := make([]time.Time, len(td.T))
	ySeries := make([]float64, len(td.Y))
	copy(tSeries, td.T)
	copy(ySeries, td.Y)
	return &TimeDataset{
		Grain: td.Grain,
		Group: td.Group,
		T:     tSeries,
		Y:     ySeries,
	}
}

// DropNaN returns a copy of the dataset with every time/value pair removed
// where the value is missing.
func (td *TimeDataset) DropNaN() *TimeDataset {
	if td == nil {
		return nil
	}
	tSeries := make([]time.Time, 0, len(td.T))
	ySeries := make([]float64, 0, len(td.Y))
	for i := 0; i < len(td.Y); i++ {
		if math.IsNaN(td.Y[i]) {
			continue
		}
		tSeries = append(tSeries, td.T[i])
		ySeries = append(ySeries, td.Y[i])
	}
	return &TimeDataset{
		Grain: td.Grain,
		Group: td.Group,
		T:     tSeries,
		Y:     ySeries,
	}
}

// Freq estimates the recording interval of the series from the modal delta
// between consecutive time points.
func (td *TimeDataset) Freq() (time.Duration, error) {
	return TimeSlice(td.T).EstimateFreq()
}
