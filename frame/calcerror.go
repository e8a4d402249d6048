package frame

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/forecastkit/go-forecasteval/metrics"
	"github.com/goccy/go-json"
)

// ErrorRow is one aggregated metric value. Value is NaN when the group had
// no scorable observations.
type ErrorRow struct {
	Key   string
	Value float64
}

func (e ErrorRow) MarshalJSON() ([]byte, error) {
	var val *float64
	if !math.IsNaN(e.Value) {
		val = &e.Value
	}
	return json.Marshal(struct {
		Key   string   `json:"key"`
		Value *float64 `json:"value"`
	}{Key: e.Key, Value: val})
}

// ErrorTable is the result of aggregating one error metric over a frame
// grouped by a row tag.
type ErrorTable struct {
	ErrName string     `json:"err_name"`
	By      GroupBy    `json:"by"`
	Rows    []ErrorRow `json:"rows"`
}

// SortByValue reorders rows ascending by metric value with NaN rows last.
func (et *ErrorTable) SortByValue() {
	sort.SliceStable(et.Rows, func(i, j int) bool {
		vi, vj := et.Rows[i].Value, et.Rows[j].Value
		if math.IsNaN(vi) {
			return false
		}
		if math.IsNaN(vj) {
			return true
		}
		return vi < vj
	})
}

func (et *ErrorTable) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s by %s:\n", et.ErrName, et.By); err != nil {
		return err
	}
	for _, row := range et.Rows {
		if math.IsNaN(row.Value) {
			if _, err := fmt.Fprintf(w, "  %s: -\n", row.Key); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s: %.3f\n", row.Key, row.Value); err != nil {
			return err
		}
	}
	return nil
}

// CalcError aggregates one error metric over the frame grouped by the given
// row tag. A nil errFn resolves errName against the built-in metrics. Rows
// are keyed in ascending key order, numerically when grouping by horizon. A
// group with nothing left to score yields a NaN row without aborting the
// remaining groups; only contract violations return an error.
func (f *ForecastFrame) CalcError(errName string, errFn metrics.Func, by GroupBy) (*ErrorTable, error) {
	if errFn == nil {
		fn, err := metrics.Lookup(errName)
		if err != nil {
			return nil, err
		}
		errFn = fn
	}

	groups := make(map[string][]int)
	keys, err := f.Keys(by)
	if err != nil {
		return nil, err
	}
	for i := 0; i < f.Len(); i++ {
		k, err := f.key(i, by)
		if err != nil {
			return nil, err
		}
		groups[k] = append(groups[k], i)
	}

	sortKeys(keys, by)

	et := &ErrorTable{
		ErrName: errName,
		By:      by,
		Rows:    make([]ErrorRow, 0, len(keys)),
	}
	for _, k := range keys {
		idxs := groups[k]
		predicted := make([]float64, 0, len(idxs))
		actual := make([]float64, 0, len(idxs))
		for _, i := range idxs {
			predicted = append(predicted, f.Point[i])
			actual = append(actual, f.Actual[i])
		}
		val, err := errFn(predicted, actual)
		if err != nil {
			return nil, fmt.Errorf("unable to compute %s for group %q, %w", errName, k, err)
		}
		et.Rows = append(et.Rows, ErrorRow{Key: k, Value: val})
	}
	return et, nil
}

func sortKeys(keys []string, by GroupBy) {
	if by == ByHorizon {
		sort.Slice(keys, func(i, j int) bool {
			hi, _ := strconv.Atoi(keys[i])
			hj, _ := strconv.Atoi(keys[j])
			return hi < hj
		})
		return
	}
	sort.Strings(keys)
}
