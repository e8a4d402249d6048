package forecasteval

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/forecastkit/go-forecasteval/frame"
	"github.com/goccy/go-json"
)

var (
	ErrNoErrorTables     = errors.New("no error tables to merge")
	ErrTableKeyMismatch  = errors.New("error tables do not share the same keys")
	ErrTableByMismatch   = errors.New("error tables grouped by different tags")
	ErrUnknownReportCol  = errors.New("metric not present in report")
	ErrDuplicateErrTable = errors.New("duplicate error table name")
)

// Report is the merge of one or more error tables over the same grouping
// tag, one row per key and one column per metric. Degenerate cells are NaN.
type Report struct {
	By      frame.GroupBy
	Metrics []string
	Keys    []string
	Values  [][]float64 // indexed by key then metric
}

// NewReport merges error tables computed from the same frame and grouping
// tag into one report, joining rows on their key.
func NewReport(tables ...*frame.ErrorTable) (*Report, error) {
	if len(tables) == 0 {
		return nil, ErrNoErrorTables
	}

	by := tables[0].By
	keys := make([]string, 0, len(tables[0].Rows))
	for _, row := range tables[0].Rows {
		keys = append(keys, row.Key)
	}

	r := &Report{
		By:      by,
		Metrics: make([]string, 0, len(tables)),
		Keys:    keys,
		Values:  make([][]float64, len(keys)),
	}
	for i := range r.Values {
		r.Values[i] = make([]float64, 0, len(tables))
	}

	seen := make(map[string]struct{})
	for _, et := range tables {
		if et.By != by {
			return nil, fmt.Errorf("%q and %q, %w", by, et.By, ErrTableByMismatch)
		}
		if _, exists := seen[et.ErrName]; exists {
			return nil, fmt.Errorf("%q, %w", et.ErrName, ErrDuplicateErrTable)
		}
		seen[et.ErrName] = struct{}{}

		if len(et.Rows) != len(keys) {
			return nil, fmt.Errorf("%q has %d rows, expected %d, %w", et.ErrName, len(et.Rows), len(keys), ErrTableKeyMismatch)
		}
		rowVals := make(map[string]float64, len(et.Rows))
		for _, row := range et.Rows {
			rowVals[row.Key] = row.Value
		}
		for i, key := range keys {
			val, exists := rowVals[key]
			if !exists {
				return nil, fmt.Errorf("%q missing key %q, %w", et.ErrName, key, ErrTableKeyMismatch)
			}
			r.Values[i] = append(r.Values[i], val)
		}
		r.Metrics = append(r.Metrics, et.ErrName)
	}
	return r, nil
}

func (r *Report) metricIdx(metric string) (int, error) {
	for i, name := range r.Metrics {
		if name == metric {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%q, %w", metric, ErrUnknownReportCol)
}

// Value returns the metric value for one key.
func (r *Report) Value(key, metric string) (float64, error) {
	c, err := r.metricIdx(metric)
	if err != nil {
		return 0, err
	}
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i][c], nil
		}
	}
	return 0, fmt.Errorf("%q not present in report keys, %w", key, ErrUnknownReportCol)
}

// SortBy reorders the report rows ascending by the given metric with NaN
// rows last, the notebook's sort_values step.
func (r *Report) SortBy(metric string) error {
	c, err := r.metricIdx(metric)
	if err != nil {
		return err
	}

	idx := make([]int, len(r.Keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := r.Values[idx[a]][c], r.Values[idx[b]][c]
		if math.IsNaN(va) {
			return false
		}
		if math.IsNaN(vb) {
			return true
		}
		return va < vb
	})

	keys := make([]string, len(r.Keys))
	values := make([][]float64, len(r.Values))
	for i, j := range idx {
		keys[i] = r.Keys[j]
		values[i] = r.Values[j]
	}
	r.Keys = keys
	r.Values = values
	return nil
}

// TablePrint writes the report as a fixed format text table.
func (r *Report) TablePrint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s", r.By); err != nil {
		return err
	}
	for _, metric := range r.Metrics {
		if _, err := fmt.Fprintf(w, "\t%s", metric); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	for i, key := range r.Keys {
		if _, err := fmt.Fprintf(w, "%s", key); err != nil {
			return err
		}
		for _, val := range r.Values[i] {
			if math.IsNaN(val) {
				if _, err := fmt.Fprintf(w, "\t-"); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(w, "\t%.3f", val); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON serializes the report with NaN cells as null.
func (r *Report) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(r.Values))
	for i, row := range r.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if math.IsNaN(row[j]) {
				continue
			}
			val := row[j]
			values[i][j] = &val
		}
	}
	return json.Marshal(struct {
		By      frame.GroupBy `json:"by"`
		Metrics []string      `json:"metrics"`
		Keys    []string      `json:"keys"`
		Values  [][]*float64  `json:"values"`
	}{
		By:      r.By,
		Metrics: r.Metrics,
		Keys:    r.Keys,
		Values:  values,
	})
}
