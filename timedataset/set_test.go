package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(t *testing.T, grain, group string) *TimeDataset {
	t.Helper()
	tSeries := []time.Time{
		time.Date(1990, 6, 20, 0, 0, 0, 0, time.UTC),
		time.Date(1990, 6, 27, 0, 0, 0, 0, time.UTC),
	}
	td, err := NewTimeDataset(grain, group, tSeries, []float64{1, 2})
	require.Nil(t, err)
	return td
}

func TestSetAdd(t *testing.T) {
	s, err := NewSet(
		testSeries(t, "2/tropicana", "2"),
		testSeries(t, "2/dominicks", "2"),
		testSeries(t, "5/tropicana", "5"),
	)
	require.Nil(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"2/tropicana", "2/dominicks", "5/tropicana"}, s.Grains())

	err = s.Add(testSeries(t, "2/tropicana", "2"))
	assert.ErrorIs(t, err, ErrGrainExists)

	err = s.Add(nil)
	assert.ErrorIs(t, err, ErrNilDataset)
}

func TestSetGet(t *testing.T) {
	s, err := NewSet(testSeries(t, "2/tropicana", "2"))
	require.Nil(t, err)

	td, err := s.Get("2/tropicana")
	require.Nil(t, err)
	assert.Equal(t, "2", td.Group)

	_, err = s.Get("9/minutemaid")
	assert.ErrorIs(t, err, ErrGrainUnknown)
}

func TestSetGroupBy(t *testing.T) {
	s, err := NewSet(
		testSeries(t, "2/tropicana", "2"),
		testSeries(t, "2/dominicks", "2"),
		testSeries(t, "5/tropicana", "5"),
	)
	require.Nil(t, err)

	expected := map[string][]string{
		"2": {"2/tropicana", "2/dominicks"},
		"5": {"5/tropicana"},
	}
	assert.Equal(t, expected, s.GroupBy())
	assert.Equal(t, []string{"2", "5"}, s.Groups())
}
