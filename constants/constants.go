package constants

import "time"

const EnvPrefix = "BARSPAN"

const ConfigName = ".barspan"

// DefaultBarLength is one 4/4 bar at 120 bpm, in milliseconds.
const DefaultBarLength = 2000

const (
	DefaultBeatsPerBar = 4
	DefaultAddr        = ":8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultVizInterval = 100 * time.Millisecond
	DefaultOutput      = "text"
)
