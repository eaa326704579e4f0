// Package span assembles ingested note events into spans: contiguous runs of
// bars on one timeline that are rated, corrected and emitted as a unit.
//
// An Assembler is a single-writer session. Every call runs to completion before
// the next one is accepted, and callers that share an Assembler across
// goroutines must serialise access themselves.
package span

import (
	"encoding/json"
	"log/slog"
	"unique"

	"github.com/jsphweid/barspan/bucket"
	"github.com/jsphweid/barspan/logging"
	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/util"
)

// Options describes Assembler collaborators. Nil fields fall back to no-ops.
type Options struct {
	BarLength  BarLengthSource
	Sink       Sink
	Visualizer Visualizer
	Logger     *slog.Logger
}

type Assembler struct {
	store  *bucket.Store
	source BarLengthSource
	sink   Sink
	viz    Visualizer
	logger *slog.Logger

	track     int
	offset    int
	offsetSet bool
	palette   string
}

func New(opts Options) *Assembler {
	a := &Assembler{
		store:  bucket.NewStore(),
		source: opts.BarLength,
		sink:   opts.Sink,
		viz:    opts.Visualizer,
		logger: opts.Logger,
	}
	if a.sink == nil {
		a.sink = nopSink{}
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	return a
}

// Clear drops every bar and resets the session to its initial state.
func (a *Assembler) Clear() {
	a.store.Reset()
	a.track = 0
	a.offset = 0
	a.offsetSet = false
	a.palette = ""
	a.logger.Debug("cleared all state")
	a.visualize()
}

// Flush ends and emits every open span.
func (a *Assembler) Flush() {
	for _, ctx := range a.store.Contexts() {
		a.finalize(ctx, nil)
	}
	a.visualize()
}

func (a *Assembler) SetTrack(track int) error {
	if track < 0 {
		return ErrMalformedInput.New("negative track number")
	}
	a.track = track
	return nil
}

func (a *Assembler) SetPalette(tag string) {
	a.palette = unique.Make(tag).Value()
}

func (a *Assembler) SetBarLengthSource(src BarLengthSource) {
	a.source = src
}

// SetOffset moves future ingestion onto the timeline starting at offset. When a
// previously set offset changes, each track's material is duplicated onto the
// new timeline once.
func (a *Assembler) SetOffset(offset int) error {
	if a.offsetSet && a.offset != offset {
		barLength, err := a.barLength()
		if err != nil {
			return err
		}
		old := a.offset
		a.offset = offset
		a.duplicate(old, offset, barLength)
		a.visualize()
		return nil
	}
	a.offset = offset
	a.offsetSet = true
	return nil
}

// Ingest adds one note at an absolute timestamp with a quality score to the
// current track and offset.
func (a *Assembler) Ingest(timestamp, score float64) error {
	barLength, err := a.barLength()
	if err != nil {
		return err
	}
	if !util.IsFinite(timestamp) || !util.IsFinite(score) {
		a.logger.Warn("rejected note", "timestamp", timestamp, "score", score)
		return ErrMalformedInput.New("timestamp and score must be finite numbers")
	}

	ctx := model.TrackContext{Track: a.track, Offset: a.offset}
	err = a.ingest(ctx, manifestNote{time: timestamp, score: score, palette: a.palette}, barLength)
	if err != nil {
		a.logger.Warn("rejected note", "context", ctx.String(), "error", err)
		return err
	}
	a.visualize()
	return nil
}

// Snapshot returns a deep copy of the session and every stored bar.
func (a *Assembler) Snapshot() model.Snapshot {
	return model.Snapshot{
		Track:    a.track,
		Offset:   a.offset,
		Palette:  a.palette,
		Contexts: a.store.Snapshot(),
	}
}

// Bar returns a copy of one stored bar.
func (a *Assembler) Bar(ctx model.TrackContext, ts int) (model.Bar, bool) {
	return a.store.Get(ctx, ts)
}

// BarTimestamps returns the stored bar timestamps of ctx in ascending order.
func (a *Assembler) BarTimestamps(ctx model.TrackContext) []int {
	return a.store.BarTimestamps(ctx)
}

func (a *Assembler) Contexts() []model.TrackContext {
	return a.store.Contexts()
}

func (a *Assembler) barLength() (int, error) {
	if a.source == nil {
		a.logger.Warn("ingestion refused", "reason", "no bar length source")
		return 0, ErrConfiguration.New("no bar length source")
	}
	n, ok := a.source.BarLength()
	if !ok || n <= 0 {
		a.logger.Warn("ingestion refused", "reason", "bar length not positive", "bar_length", n)
		return 0, ErrConfiguration.New("bar length is not positive")
	}
	return n, nil
}

func (a *Assembler) visualize() {
	if a.viz == nil {
		return
	}
	data, err := json.Marshal(a.Snapshot())
	if err != nil {
		a.logger.Debug("snapshot encoding failed", "error", err)
		return
	}
	a.viz.Push(data)
}
