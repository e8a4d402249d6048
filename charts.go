package forecasteval

import (
	"fmt"
	"io"
	"math"

	"github.com/forecastkit/go-forecasteval/frame"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineActualVsForecasts generates an echart line chart for a single grain
// plotting the observed values along with every model's point forecast.
func LineActualVsForecasts(f *frame.ForecastFrame, grain string) (*charts.Line, error) {
	sub, err := f.Filter(frame.ByGrain, grain)
	if err != nil {
		return nil, err
	}
	models, err := sub.Keys(frame.ByModel)
	if err != nil {
		return nil, err
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: fmt.Sprintf("Forecasts for %s", grain),
			},
		),
	)

	var axisSet bool
	for _, model := range models {
		modelSub, err := sub.Filter(frame.ByModel, model)
		if err != nil {
			return nil, err
		}
		if !axisSet {
			line = line.SetXAxis(modelSub.T)
			line = line.AddSeries("Actual", lineData(modelSub.Actual))
			axisSet = true
		}
		line = line.AddSeries(model, lineData(modelSub.Point))
	}
	return line, nil
}

func lineData(y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(y))
	for i := 0; i < len(y); i++ {
		if math.IsNaN(y[i]) {
			data = append(data, opts.LineData{})
			continue
		}
		data = append(data, opts.LineData{Value: y[i]})
	}
	return data
}

// BarReportMetric generates an echart bar chart of one report metric across
// the report keys. Degenerate entries are left as gaps.
func BarReportMetric(r *Report, metric string) (*charts.Bar, error) {
	c, err := r.metricIdx(metric)
	if err != nil {
		return nil, err
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: fmt.Sprintf("%s by %s", metric, r.By),
			},
		),
	)

	data := make([]opts.BarData, 0, len(r.Keys))
	for i := range r.Keys {
		val := r.Values[i][c]
		if math.IsNaN(val) {
			data = append(data, opts.BarData{})
			continue
		}
		data = append(data, opts.BarData{Value: val})
	}

	bar.SetXAxis(r.Keys).AddSeries(metric, data)
	return bar, nil
}

// PlotReport renders an html page with one bar chart per report metric
// followed by an actual-vs-forecast line chart per grain in the frame.
func PlotReport(w io.Writer, f *frame.ForecastFrame, r *Report) error {
	page := components.NewPage()

	for _, metric := range r.Metrics {
		bar, err := BarReportMetric(r, metric)
		if err != nil {
			return fmt.Errorf("unable to chart %s, %w", metric, err)
		}
		page.AddCharts(bar)
	}

	grains, err := f.Keys(frame.ByGrain)
	if err != nil {
		return err
	}
	for _, grain := range grains {
		line, err := LineActualVsForecasts(f, grain)
		if err != nil {
			return fmt.Errorf("unable to chart %q, %w", grain, err)
		}
		page.AddCharts(line)
	}

	return page.Render(w)
}
