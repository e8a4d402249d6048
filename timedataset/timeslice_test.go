package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timesFromDeltas(start time.Time, deltas []time.Duration) []time.Time {
	t := make([]time.Time, 0, len(deltas)+1)
	t = append(t, start)
	for _, delta := range deltas {
		t = append(t, t[len(t)-1].Add(delta))
	}
	return t
}

func TestEstimateFreq(t *testing.T) {
	start := time.Date(1990, 6, 20, 0, 0, 0, 0, time.UTC)
	testData := map[string]struct {
		deltas   []time.Duration
		expected time.Duration
		err      error
	}{
		"too few points": {
			err: ErrCannotInferFreq,
		},
		"constant delta": {
			deltas:   []time.Duration{time.Hour, time.Hour, time.Hour},
			expected: time.Hour,
		},
		"modal delta wins over rarer smaller delta": {
			deltas: []time.Duration{
				time.Hour, 2 * time.Hour, 2 * time.Hour, 2 * time.Hour,
				time.Hour, 2 * time.Hour, 2 * time.Hour, 2 * time.Hour,
			},
			expected: 2 * time.Hour,
		},
		"count tie broken by smaller delta": {
			deltas: []time.Duration{
				2 * time.Hour, time.Hour, 2 * time.Hour,
				time.Hour, 2 * time.Hour, time.Hour,
			},
			expected: time.Hour,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tSeries := timesFromDeltas(start, td.deltas)
			if len(td.deltas) == 0 {
				tSeries = tSeries[:1]
			}

			// map iteration order must not leak into the result
			for i := 0; i < 50; i++ {
				freq, err := TimeSlice(tSeries).EstimateFreq()
				if td.err != nil {
					require.ErrorIs(t, err, td.err)
					return
				}
				require.Nil(t, err)
				assert.Equal(t, td.expected, freq)
			}
		})
	}
}

func TestStartEndTime(t *testing.T) {
	assert.True(t, TimeSlice(nil).StartTime().IsZero())
	assert.True(t, TimeSlice(nil).EndTime().IsZero())

	start := time.Date(1990, 6, 20, 0, 0, 0, 0, time.UTC)
	tSeries := timesFromDeltas(start, []time.Duration{time.Hour, time.Hour})
	assert.Equal(t, start, TimeSlice(tSeries).StartTime())
	assert.Equal(t, start.Add(2*time.Hour), TimeSlice(tSeries).EndTime())
}
