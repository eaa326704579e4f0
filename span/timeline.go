package span

import (
	"sort"

	"github.com/jsphweid/barspan/model"
)

// nextOffset returns the smallest offset of the same track strictly greater
// than ctx's own.
func (a *Assembler) nextOffset(ctx model.TrackContext) (int, bool) {
	for _, other := range a.store.ContextsForTrack(ctx.Track) {
		if other.Offset > ctx.Offset {
			return other.Offset, true
		}
	}
	return 0, false
}

// collectStale deletes ctx when all of its notes lie at or after the start of
// the next timeline of the same track.
func (a *Assembler) collectStale(ctx model.TrackContext) {
	next, ok := a.nextOffset(ctx)
	if !ok {
		return
	}
	notes := a.manifest(ctx)
	if len(notes) == 0 {
		return
	}
	if notes[0].time >= float64(next) {
		a.logger.Debug("collected superseded timeline", "context", ctx.String(), "next_offset", next)
		a.store.DeleteContext(ctx)
	}
}

// manifest returns every note stored for ctx ordered by timestamp.
func (a *Assembler) manifest(ctx model.TrackContext) []manifestNote {
	var res []manifestNote
	for _, ts := range a.store.BarTimestamps(ctx) {
		bar, _ := a.store.Get(ctx, ts)
		for i, t := range bar.Absolutes {
			var score float64
			if i < len(bar.Scores) {
				score = bar.Scores[i]
			}
			res = append(res, manifestNote{time: t, score: score, palette: bar.Palette})
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].time < res[j].time
	})
	return res
}

// duplicate replays the notes of one representative timeline per track onto
// the timeline starting at newOffset. Replayed notes go straight to ingest and
// never trigger another changeover.
func (a *Assembler) duplicate(oldOffset, newOffset, barLength int) {
	seen := make(map[int]bool)
	for _, ctx := range a.store.Contexts() {
		if seen[ctx.Track] {
			continue
		}
		seen[ctx.Track] = true
		if ctx.Offset == newOffset {
			continue
		}

		target := model.TrackContext{Track: ctx.Track, Offset: newOffset}
		notes := a.manifest(ctx)
		var dropped int
		for _, n := range notes {
			if err := a.ingest(target, n, barLength); err != nil {
				dropped++
			}
		}
		a.logger.Debug("duplicated timeline",
			"from", ctx.String(),
			"to", target.String(),
			"old_offset", oldOffset,
			"notes", len(notes),
			"dropped", dropped,
		)
	}
}
