package note

import (
	"bytes"
	"testing"

	"github.com/jsphweid/barspan/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func createSMF(t *testing.T) *smf.SMF {
	t.Helper()
	s := smf.New()

	var melody smf.Track
	melody.Add(0, midi.NoteOn(0, 60, 127))
	melody.Add(960, midi.NoteOff(0, 60))
	melody.Add(0, midi.NoteOn(0, 64, 0))
	melody.Close(0)
	require.NoError(t, s.Add(melody))

	var bass smf.Track
	bass.Add(480, midi.NoteOn(1, 36, 64))
	bass.Add(480, midi.NoteOn(1, 43, 32))
	bass.Close(0)
	require.NoError(t, s.Add(bass))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	parsed, err := smf.ReadFrom(&buf)
	require.NoError(t, err)
	return parsed
}

func TestFromSMF(t *testing.T) {
	notes := FromSMF(createSMF(t), 1)

	assert := assert.New(t)
	require.Len(t, notes, 3)
	assert.Equal(uint8(60), notes[0].Key)
	assert.Equal(16, notes[0].Track)
	assert.InDelta(1.0, notes[0].Score, 1e-9)
	assert.InDelta(0.0, notes[0].Time, 1e-9)

	assert.Equal(uint8(36), notes[1].Key)
	assert.Equal(17, notes[1].Track)
	assert.Greater(notes[1].Time, notes[0].Time)
	assert.Less(notes[1].Time, notes[2].Time)
	assert.Equal(uint8(43), notes[2].Key)
}

func TestSortOrdersByTimeTrackKey(t *testing.T) {
	notes := []model.Note{
		{Time: 10, Track: 1, Key: 2},
		{Time: 5, Track: 2, Key: 1},
		{Time: 10, Track: 0, Key: 9},
		{Time: 10, Track: 1, Key: 1},
	}
	Sort(notes)

	assert.Equal(t, []model.Note{
		{Time: 5, Track: 2, Key: 1},
		{Time: 10, Track: 0, Key: 9},
		{Time: 10, Track: 1, Key: 1},
		{Time: 10, Track: 1, Key: 2},
	}, notes)
}

func TestTracks(t *testing.T) {
	notes := []model.Note{{Track: 17}, {Track: 0}, {Track: 17}, {Track: 3}}
	assert.Equal(t, []int{0, 3, 17}, Tracks(notes))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 0.0, Score(0))
	assert.Equal(t, 1.0, Score(127))
	assert.Equal(t, 16, TrackNumber(1, 0))
}

func TestSplitTrack(t *testing.T) {
	fileNum, channel := SplitTrack(TrackNumber(3, 9))
	assert.Equal(t, 3, fileNum)
	assert.Equal(t, uint8(9), channel)
}
