package cmd

import (
	"testing"

	"github.com/jsphweid/barspan/config"
	"github.com/jsphweid/barspan/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steadyNotes plays four notes per 2000ms bar on track 0 and a single note
// on track 1.
func steadyNotes(bars int) []model.Note {
	var notes []model.Note
	for i := 0; i < bars*4; i++ {
		notes = append(notes, model.Note{Track: 0, Time: float64(i * 500), Score: 0.5})
	}
	notes = append(notes, model.Note{Track: 1, Time: 100, Score: 0.9})
	return notes
}

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestReplay(t *testing.T) {
	withConfig(t, &config.Config{BarLength: 2000, Palette: "live"})

	spans, err := replay(steadyNotes(3), 0)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	byTrack := map[int]model.Span{}
	for _, s := range spans {
		byTrack[s.Track] = s
	}
	assert := assert.New(t)
	assert.Equal([]int{0, 2000, 4000}, byTrack[0].Bars)
	assert.Equal(12, byTrack[0].Notes)
	assert.InDelta(1.5, byTrack[0].Rating, 1e-9)
	assert.Equal("live", byTrack[0].Palette)
	assert.Equal([]int{0}, byTrack[1].Bars)
}

func TestReplayNeedsBarLength(t *testing.T) {
	withConfig(t, &config.Config{BPM: 0})

	_, err := replay(steadyNotes(1), 0)
	assert.Error(t, err)
}

func TestBuildReport(t *testing.T) {
	notes := steadyNotes(2)
	spans := []model.Span{
		{Track: 0, Bars: []int{0, 2000}, Rating: 1, Notes: 8},
	}
	reports := buildReport(notes, spans)

	require.Contains(t, reports, 0)
	require.Contains(t, reports, 1)
	assert.Equal(t, 8, reports[0].notes)
	assert.Equal(t, 1, reports[0].spans)
	assert.Equal(t, []int{2}, reports[0].bars)
	assert.Equal(t, 0, reports[1].spans)
}
