package span

import (
	"fmt"

	"github.com/jsphweid/barspan/bucket"
	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/util"
)

type manifestNote struct {
	time    float64
	score   float64
	palette string
}

// ingest appends one note to its bar in ctx. Creating a bar past the
// context's latest one is the only trigger for a span decision.
func (a *Assembler) ingest(ctx model.TrackContext, n manifestNote, barLength int) error {
	ts := bucket.BarTimestamp(n.time, ctx.Offset, barLength)
	latest, known := a.store.MaxBar(ctx)

	bar, exists := a.store.Get(ctx, ts)
	if !exists && known && ts < latest {
		return ErrMalformedInput.New(fmt.Sprintf("note at %v lands in closed bar %d of %s", n.time, ts, ctx))
	}

	bar.Offset = ctx.Offset
	bar.Palette = n.palette
	bar.Absolutes = append(bar.Absolutes, n.time)
	bar.Scores = append(bar.Scores, n.score)
	bar.Mean = util.Mean(bar.Scores)
	if !exists {
		bar.SpanMembers = []int{ts}
		bar.Rating = bar.Mean
	}
	a.store.Put(ctx, ts, bar)

	switch {
	case !known:
		a.logger.Debug("opened timeline", "context", ctx.String(), "bar", ts)
	case ts > latest:
		a.crossBoundary(ctx, latest, ts, barLength)
	default:
		a.rerate(ctx, bar.SpanMembers)
	}
	return nil
}
