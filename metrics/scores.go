package metrics

import "fmt"

// Scores bundles the full metric suite for a single forecast series.
type Scores struct {
	MedianAPE float64 `json:"median_absolute_percent_error"`
	MAPE      float64 `json:"mean_absolute_percent_error"`
	MAE       float64 `json:"mean_absolute_error"`
	MSE       float64 `json:"mean_squared_error"`
	RMSE      float64 `json:"root_mean_squared_error"`
	R2        float64 `json:"r_squared"`
}

// NewScores calculates every built-in metric given the predicted and actual
// input slice values.
func NewScores(predicted, actual []float64) (*Scores, error) {
	medianAPE, err := MedianAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute median absolute percent error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mse, err := MSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean squared error, %w", err)
	}
	rmse, err := RMSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}
	rs, err := RSquared(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute r-squared, %w", err)
	}

	return &Scores{
		MedianAPE: medianAPE,
		MAPE:      mape,
		MAE:       mae,
		MSE:       mse,
		RMSE:      rmse,
		R2:        rs,
	}, nil
}
