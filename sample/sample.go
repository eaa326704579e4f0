// Package sample cuts the excerpt a span covers out of its source file.
package sample

import (
	"fmt"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Excerpt copies what channel plays in [startMs, endMs) into a new SMF that
// starts at tick 0. Non-note events before endMs are kept so tempo and
// program changes still apply. Notes still sounding at endMs end there.
func Excerpt(mf *smf.SMF, channel uint8, startMs, endMs float64) (*smf.SMF, error) {
	if endMs <= startMs {
		return nil, fmt.Errorf("empty excerpt window [%v, %v)", startMs, endMs)
	}
	startTicks := tickAt(mf, startMs)
	endTicks := tickAt(mf, endMs)

	res := smf.New()
	res.TimeFormat = mf.TimeFormat

	var numNotes int
	for _, track := range mf.Tracks {
		var newTrack smf.Track
		var absTicks, lastTicks int64
		sounding := make(map[uint8]bool)
		add := func(at int64, msg smf.Message) {
			at = max(at-startTicks, 0)
			newTrack = append(newTrack, smf.Event{Delta: uint32(at - lastTicks), Message: msg})
			lastTicks = at
		}

	EventLoop:
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			if absTicks >= endTicks {
				break EventLoop
			}
			msg := gomidi.Message(evt.Message)
			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				if ch != channel || absTicks < startTicks {
					continue
				}
				sounding[key] = true
				numNotes++
				add(absTicks, evt.Message)
			case msg.GetNoteEnd(&ch, &key):
				if ch != channel || !sounding[key] {
					continue
				}
				delete(sounding, key)
				add(absTicks, evt.Message)
			case evt.Message.Is(smf.MetaEndOfTrackMsg):
				// Close adds its own
			default:
				add(absTicks, evt.Message)
			}
		}

		keys := make([]int, 0, len(sounding))
		for key := range sounding {
			keys = append(keys, int(key))
		}
		sort.Ints(keys)
		for _, key := range keys {
			add(endTicks, smf.Message(gomidi.NoteOff(channel, uint8(key))))
		}

		newTrack.Close(0)
		if err := res.Add(newTrack); err != nil {
			return nil, fmt.Errorf("adding excerpt track: %w", err)
		}
	}

	if numNotes == 0 {
		return nil, fmt.Errorf("no notes on channel %d in [%v, %v)", channel, startMs, endMs)
	}
	return res, nil
}

// tickAt is the first tick sounding at or after ms.
func tickAt(mf *smf.SMF, ms float64) int64 {
	var last int64
	for _, track := range mf.Tracks {
		var abs int64
		for _, evt := range track {
			abs += int64(evt.Delta)
		}
		last = max(last, abs)
	}

	lo, hi := int64(0), last+1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if float64(mf.TimeAt(mid))/1000 < ms {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
