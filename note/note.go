// Package note turns Standard MIDI Files into the note events barspan ingests.
package note

import (
	"sort"

	"github.com/jsphweid/barspan/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ChannelsPerFile spaces out the track numbers of separate files.
const ChannelsPerFile = 16

// Score maps a velocity onto a quality score in [0, 1].
func Score(velocity uint8) float64 {
	return float64(velocity) / 127
}

// TrackNumber is the track a channel of the fileNum-th input file plays on.
func TrackNumber(fileNum int, channel uint8) int {
	return fileNum*ChannelsPerFile + int(channel)
}

// SplitTrack undoes TrackNumber.
func SplitTrack(track int) (fileNum int, channel uint8) {
	return track / ChannelsPerFile, uint8(track % ChannelsPerFile)
}

// FromSMF extracts every note start of s, ordered by time.
func FromSMF(s *smf.SMF, fileNum int) []model.Note {
	var notes []model.Note
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			// a note on with velocity 0 is a note off
			if !event.Message.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
				continue
			}
			notes = append(notes, model.Note{
				Track:    TrackNumber(fileNum, channel),
				Time:     float64(s.TimeAt(absTicks)) / 1000,
				Score:    Score(velocity),
				Channel:  channel,
				Key:      key,
				Velocity: velocity,
			})
		}
	}
	Sort(notes)
	return notes
}

// Sort orders notes by time, then track, then key.
func Sort(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Time != notes[j].Time {
			return notes[i].Time < notes[j].Time
		}
		if notes[i].Track != notes[j].Track {
			return notes[i].Track < notes[j].Track
		}
		return notes[i].Key < notes[j].Key
	})
}

// Tracks returns the distinct track numbers of notes, ascending.
func Tracks(notes []model.Note) []int {
	seen := make(map[int]bool)
	var res []int
	for _, n := range notes {
		if !seen[n.Track] {
			seen[n.Track] = true
			res = append(res, n.Track)
		}
	}
	sort.Ints(res)
	return res
}
