package span

import (
	"math"
	"slices"

	"github.com/jsphweid/barspan/model"
)

// crossBoundary runs when bar became the newest bar of ctx. The open span is
// provisionally extended by bar; the extension is undone when bar drags the
// span's rating down or outperforms it on its own.
func (a *Assembler) crossBoundary(ctx model.TrackContext, previous, bar, barLength int) {
	open := a.openSpan(ctx, bar)
	if len(open) == 0 {
		a.standalone(ctx, bar)
		return
	}

	// bars more than one bar length apart never share a span
	if bar > previous+barLength {
		a.logger.Debug("discontinuity", "context", ctx.String(), "previous", previous, "bar", bar)
		a.endSpan(ctx, open, bar)
		return
	}

	all := append(slices.Clone(open), bar)
	with := a.rating(ctx, all)
	without := a.rating(ctx, open)
	last, _ := a.store.Get(ctx, bar)

	if with < without || last.Mean > with {
		a.logger.Debug("pruned bar from span",
			"context", ctx.String(),
			"bar", bar,
			"rating_with", with,
			"rating_without", without,
			"bar_mean", last.Mean,
		)
		a.endSpan(ctx, open, bar)
		return
	}
	a.writeSpan(ctx, all, with)
}

// endSpan emits open and leaves bar as a standalone open span.
func (a *Assembler) endSpan(ctx model.TrackContext, open []int, bar int) {
	a.finalize(ctx, open)
	a.standalone(ctx, bar)
	a.collectStale(ctx)
}

func (a *Assembler) standalone(ctx model.TrackContext, bar int) {
	members := []int{bar}
	a.writeSpan(ctx, members, a.rating(ctx, members))
}

// openSpan returns every bar of ctx except exclude, ascending.
func (a *Assembler) openSpan(ctx model.TrackContext, exclude int) []int {
	var res []int
	for _, ts := range a.store.BarTimestamps(ctx) {
		if ts != exclude {
			res = append(res, ts)
		}
	}
	return res
}

// rerate recomputes the rating of a span after a member's mean changed.
func (a *Assembler) rerate(ctx model.TrackContext, members []int) {
	a.writeSpan(ctx, members, a.rating(ctx, members))
}

// rating is the lowest member mean times the member count. A missing member
// or one without a mean yields 0.
func (a *Assembler) rating(ctx model.TrackContext, members []int) float64 {
	if len(members) == 0 {
		return 0
	}
	lowest := math.Inf(1)
	for _, ts := range members {
		bar, ok := a.store.Get(ctx, ts)
		if !ok || !bar.HasMean() {
			return 0
		}
		lowest = min(lowest, bar.Mean)
	}
	return lowest * float64(len(members))
}

// writeSpan stores members and rating on every member bar, each with its own copy.
func (a *Assembler) writeSpan(ctx model.TrackContext, members []int, rating float64) {
	for _, ts := range members {
		bar, ok := a.store.Get(ctx, ts)
		if !ok {
			continue
		}
		bar.SpanMembers = slices.Clone(members)
		bar.Rating = rating
		a.store.Put(ctx, ts, bar)
	}
}
