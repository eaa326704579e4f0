//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jsphweid/barspan/export"
	"github.com/jsphweid/barspan/midi"
	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/server"
	"github.com/jsphweid/barspan/span"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	barLength    = 2000
	notesPerBar  = 4
	bars         = 8
	quarterTicks = 960
)

// writeSteadyFile writes one channel of evenly spaced quarter notes at
// 120 bpm, so every bar holds notesPerBar notes.
func writeSteadyFile(t *testing.T) string {
	t.Helper()
	s := smf.New()

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	for i := 0; i < bars*notesPerBar; i++ {
		delta := uint32(quarterTicks / 2)
		if i == 0 {
			delta = 0
		}
		tr.Add(delta, gomidi.NoteOn(0, 60, 100))
		tr.Add(quarterTicks/2, gomidi.NoteOff(0, 60))
	}
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	path := filepath.Join(t.TempDir(), "steady.mid")
	require.NoError(t, s.WriteFile(path))
	return path
}

func put(t *testing.T, url string, body any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestReplayFileThroughServer(t *testing.T) {
	notes, err := midi.ReadNotes(writeSteadyFile(t), 0)
	require.NoError(t, err)
	require.Len(t, notes, bars*notesPerBar)

	rec := span.NewRecorder()
	a := span.New(span.Options{BarLength: span.FixedBarLength(barLength), Sink: rec})
	ts := httptest.NewServer(server.New(a, rec, nil).Handler())
	defer ts.Close()

	put(t, ts.URL+"/track", model.TrackRequestBody{Track: &notes[0].Track})
	offset := 0
	put(t, ts.URL+"/offset", model.OffsetRequestBody{Offset: &offset})
	palette := "steady"
	put(t, ts.URL+"/palette", model.PaletteRequestBody{Palette: &palette})

	for _, n := range notes {
		resp := post(t, ts.URL+"/notes", model.NoteRequestBody{Timestamp: &n.Time, Score: &n.Score})
		resp.Body.Close()
		require.Equal(t, http.StatusAccepted, resp.StatusCode)
	}

	resp := post(t, ts.URL+"/flush", struct{}{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var flushed model.SpansResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&flushed))

	assert := assert.New(t)
	require.Len(t, flushed.Spans, 1)
	got := flushed.Spans[0]
	assert.Equal([]int{0, 2000, 4000, 6000, 8000, 10000, 12000, 14000}, got.Bars)
	assert.Equal(bars*notesPerBar, got.Notes)
	assert.Equal("steady", got.Palette)
	assert.InDelta(float64(bars)*100.0/127.0, got.Rating, 1e-9)
	assert.Zero(flushed.Rejected)

	snap, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer snap.Body.Close()
	var state model.Snapshot
	require.NoError(t, json.NewDecoder(snap.Body).Decode(&state))
	assert.Empty(state.Contexts)

	var out bytes.Buffer
	require.NoError(t, export.Write(&out, export.JSONOut, flushed.Spans))
	var exported []model.Span
	require.NoError(t, json.Unmarshal(out.Bytes(), &exported))
	assert.Equal(flushed.Spans, exported)
}
