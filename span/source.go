package span

import "math"

// BarLengthSource supplies the bar length in milliseconds. It is queried before
// every ingestion; false or a non-positive value means unavailable.
type BarLengthSource interface {
	BarLength() (int, bool)
}

type FixedBarLength int

func (f FixedBarLength) BarLength() (int, bool) {
	return int(f), f > 0
}

// TempoBarLength derives the bar length from a tempo and meter.
type TempoBarLength struct {
	BPM         float64
	BeatsPerBar int
}

func (t TempoBarLength) BarLength() (int, bool) {
	if t.BPM <= 0 || t.BeatsPerBar <= 0 {
		return 0, false
	}
	n := int(math.Round(60000 / t.BPM * float64(t.BeatsPerBar)))
	return n, n > 0
}

type BarLengthFunc func() (int, bool)

func (f BarLengthFunc) BarLength() (int, bool) {
	return f()
}
