package timedataset

import (
	"math"
	"math/rand"
	"time"

	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/floats"
)

// GenerateT creates n evenly spaced time points ending just before the time
// reported by nowFunc.
func GenerateT(n int, interval time.Duration, nowFunc func() time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(nowFunc().Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// Series is a mutable value slice used to compose synthetic signals for
// tests and examples.
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY creates a linear trend crossing zero at the first time
// point growing by slope per interval.
func GenerateTrendY(t []time.Time, slope float64, interval time.Duration) Series {
	n := len(t)
	y := make([]float64, 0, n)
	start := TimeSlice(t).StartTime()
	for i := 0; i < n; i++ {
		y = append(y, slope*float64(t[i].Sub(start))/float64(interval))
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

func GenerateNoise(t []time.Time, noiseScale, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		scale := (noiseScale + amp*math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset)))
		y = append(y, rand.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateHolidayLiftY creates a series that is amp within a window around
// each observed occurrence of the holiday spanning the input time range and
// zero elsewhere. durBefore extends the window ahead of the observed day to
// model run-up demand and durAfter past its end.
func GenerateHolidayLiftY(t []time.Time, amp float64, durBefore, durAfter time.Duration, hol *cal.Holiday) Series {
	n := len(t)
	y := make([]float64, n)
	if n == 0 {
		return Series(y)
	}

	loc := t[0].Location()
	for year := TimeSlice(t).StartTime().Year(); year <= TimeSlice(t).EndTime().Year(); year++ {
		_, observed := hol.Calc(year)
		day := time.Date(observed.Year(), observed.Month(), observed.Day(), 0, 0, 0, 0, loc)
		start := day.Add(-durBefore)
		end := day.Add(24 * time.Hour).Add(durAfter)

		for i := 0; i < n; i++ {
			if (t[i].After(start) || t[i].Equal(start)) && t[i].Before(end) {
				y[i] = amp
			}
		}
	}
	return Series(y)
}
