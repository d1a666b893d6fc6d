package synth

import "time"

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func constFactory(v float64) func() Source {
	return func() Source { return constSource(v) }
}

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
