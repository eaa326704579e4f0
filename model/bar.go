package model

import (
	"fmt"
	"slices"
)

// TrackContext identifies one parallel timeline of a track.
type TrackContext struct {
	Track  int `json:"track"`
	Offset int `json:"offset"`
}

func (c TrackContext) String() string {
	return fmt.Sprintf("%d::%d", c.Track, c.Offset)
}

// Bar is the property bag stored for one bar timestamp of a TrackContext.
type Bar struct {
	Offset    int       `json:"offset"`
	Palette   string    `json:"palette"`
	Absolutes []float64 `json:"absolutes"`
	Scores    []float64 `json:"scores"`
	Mean      float64   `json:"mean"`

	// SpanMembers holds the bar timestamps of the owning span, this bar included.
	// Every member carries its own copy.
	SpanMembers []int   `json:"span"`
	Rating      float64 `json:"rating"`
}

// HasMean reports whether the bar holds any scores to average.
func (b Bar) HasMean() bool {
	return len(b.Scores) > 0
}

// Clone returns a copy of b that shares no backing storage with it.
func (b Bar) Clone() Bar {
	b.Absolutes = slices.Clone(b.Absolutes)
	b.Scores = slices.Clone(b.Scores)
	b.SpanMembers = slices.Clone(b.SpanMembers)
	return b
}

// Value returns the value of the named property, copied.
func (b Bar) Value(p Property) any {
	switch p {
	case PropOffset:
		return b.Offset
	case PropPalette:
		return b.Palette
	case PropMean:
		return b.Mean
	case PropAbsolutes:
		return slices.Clone(b.Absolutes)
	case PropScores:
		return slices.Clone(b.Scores)
	case PropRating:
		return b.Rating
	case PropSpan:
		return slices.Clone(b.SpanMembers)
	}
	return nil
}
