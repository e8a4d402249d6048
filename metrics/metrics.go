// Package metrics implements forecast accuracy metrics. Every metric shares
// the same shape, Func, so custom metrics can be plugged into the frame and
// report aggregations alongside the built-ins.
//
// All metrics drop index positions where either input is NaN before scoring
// and report NaN, not an error, when nothing is left to score. Percentage
// metrics additionally drop positions with a zero actual value since the
// error is a fraction of the actual. A length mismatch between the two
// inputs is a caller bug and always returns an error.
package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/forecastkit/go-forecasteval/stats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrUnknownMetric  = errors.New("no registered metric with name")
)

// Func scores a point forecast against the observed values. Implementations
// must treat degenerate samples (nothing left after filtering) as NaN
// results and reserve errors for contract violations.
type Func func(predicted, actual []float64) (float64, error)

// MedianAPE calculates the median absolute percentage error,
// median(abs((y-yhat)/y)) * 100. Positions where either value is NaN or
// where the actual is zero are excluded; a pair of zeros is excluded too
// rather than counted as a perfect forecast. Returns NaN when no positions
// survive the filters.
func MedianAPE(predicted, actual []float64) (float64, error) {
	ape, err := absPercentageErrors(predicted, actual)
	if err != nil {
		return 0, err
	}
	return stats.Median(ape), nil
}

// MAPE calculates the mean absolute percentage error,
// mean(abs((y-yhat)/y)) * 100, over the same filtered positions as
// MedianAPE. Returns NaN when no positions survive the filters.
func MAPE(predicted, actual []float64) (float64, error) {
	ape, err := absPercentageErrors(predicted, actual)
	if err != nil {
		return 0, err
	}
	if len(ape) == 0 {
		return math.NaN(), nil
	}
	var sum float64
	for _, e := range ape {
		sum += e
	}
	return sum / float64(len(ape)), nil
}

func absPercentageErrors(predicted, actual []float64) ([]float64, error) {
	if len(predicted) != len(actual) {
		return nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	ape := make([]float64, 0, len(actual))
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) || actual[i] == 0 {
			continue
		}
		ape = append(ape, math.Abs((actual[i]-predicted[i])/actual[i])*100.0)
	}
	return ape, nil
}

// MAE calculates the mean absolute error, mean(abs(y-yhat)). Returns NaN
// when every position is filtered out.
func MAE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		sum += math.Abs(actual[i] - predicted[i])
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// MSE calculates the mean squared error, mean((y-yhat)^2). Returns NaN when
// every position is filtered out.
func MSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	var sum float64
	var cnt int
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		sum += math.Pow(actual[i]-predicted[i], 2.0)
		cnt++
	}
	if cnt == 0 {
		return math.NaN(), nil
	}
	return sum / float64(cnt), nil
}

// RMSE calculates the root mean squared error, sqrt(MSE).
func RMSE(predicted, actual []float64) (float64, error) {
	mse, err := MSE(predicted, actual)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// RSquared computes the coefficient of determination between the predicted
// and actual values where 1.0 is a perfect fit. Returns NaN when fewer than
// two positions survive the NaN filter.
func RSquared(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}

	predictCopy := make([]float64, 0, len(predicted))
	actualCopy := make([]float64, 0, len(actual))
	for i := 0; i < len(predicted); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		predictCopy = append(predictCopy, predicted[i])
		actualCopy = append(actualCopy, actual[i])
	}
	if len(actualCopy) < 2 {
		return math.NaN(), nil
	}
	return stat.RSquaredFrom(predictCopy, actualCopy, nil), nil
}

// builtin metric names
const (
	NameMedianAPE = "MedianAPE"
	NameMAPE      = "MAPE"
	NameMAE       = "MAE"
	NameMSE       = "MSE"
	NameRMSE      = "RMSE"
	NameRSquared  = "R2"
)

var builtins = map[string]Func{
	NameMedianAPE: MedianAPE,
	NameMAPE:      MAPE,
	NameMAE:       MAE,
	NameMSE:       MSE,
	NameRMSE:      RMSE,
	NameRSquared:  RSquared,
}

// Lookup resolves a built-in metric by name.
func Lookup(name string) (Func, error) {
	fn, exists := builtins[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownMetric)
	}
	return fn, nil
}

// Names returns the built-in metric names in registration order.
func Names() []string {
	return []string{NameMedianAPE, NameMAPE, NameMAE, NameMSE, NameRMSE, NameRSquared}
}
