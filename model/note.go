package model

// Note is a single captured note event.
type Note struct {
	Track int
	// Time is the absolute timestamp in milliseconds
	Time     float64
	Score    float64
	Channel  uint8
	Key      uint8
	Velocity uint8
}
