package model

import "fmt"

type Property string

const (
	PropAbsolutes Property = "absolutes"
	PropScores    Property = "scores"
	PropMean      Property = "mean"
	PropOffset    Property = "offset"
	PropPalette   Property = "palette"
	PropRating    Property = "rating"
	PropSpan      Property = "span"
)

// Properties lists bar properties in the order they are emitted.
var Properties = []Property{
	PropOffset,
	PropPalette,
	PropMean,
	PropAbsolutes,
	PropScores,
	PropRating,
	PropSpan,
}

// PropertyEvent is one bar property handed downstream when a span is emitted.
type PropertyEvent struct {
	Track    int      `json:"track"`
	Bar      int      `json:"bar"`
	Property Property `json:"property"`
	Value    any      `json:"value"`
}

// Key renders the event address as track::bar::property.
func (e PropertyEvent) Key() string {
	return fmt.Sprintf("%d::%d::%s", e.Track, e.Bar, e.Property)
}
