package span

import (
	"fmt"
	"slices"

	"github.com/jsphweid/barspan/model"
)

// finalize validates and emits a finished span, then reclaims its bars whether
// or not it was emitted. A nil members list means the span reachable from ctx;
// in that case every bar of ctx is reclaimed.
func (a *Assembler) finalize(ctx model.TrackContext, members []int) {
	whole := members == nil
	if whole {
		members = a.reachableSpan(ctx)
	}
	if len(members) == 0 {
		return
	}

	rating := a.rating(ctx, members)
	bars := make([]model.Bar, 0, len(members))
	for _, ts := range members {
		bar, _ := a.store.Get(ctx, ts)
		bar.SpanMembers = slices.Clone(members)
		bar.Rating = rating
		bars = append(bars, bar)
	}

	if err := a.validate(ctx, bars); err != nil {
		a.logger.Debug("span not emitted", "context", ctx.String(), "bars", members, "error", err)
		if r, ok := a.sink.(Rejecter); ok {
			r.Rejected(ctx, err)
		}
	} else {
		a.emit(ctx, members, bars)
		a.logger.Info("emitted span",
			"track", ctx.Track,
			"offset", ctx.Offset,
			"bars", members,
			"rating", rating,
		)
	}

	if whole {
		a.store.DeleteContext(ctx)
		return
	}
	for _, ts := range members {
		a.store.Delete(ctx, ts)
	}
}

// reachableSpan returns the member list carried by the bars of ctx. Every
// member holds the same list, so the first bar is as good as any. Without one
// the list is made up of every bar of ctx.
func (a *Assembler) reachableSpan(ctx model.TrackContext) []int {
	all := a.store.BarTimestamps(ctx)
	if len(all) == 0 {
		return nil
	}
	bar, ok := a.store.Get(ctx, all[0])
	if ok && len(bar.SpanMembers) > 0 {
		return bar.SpanMembers
	}
	return all
}

func (a *Assembler) validate(ctx model.TrackContext, bars []model.Bar) error {
	var count int
	var earliest, latest float64
	for _, bar := range bars {
		for _, t := range bar.Absolutes {
			if count == 0 || t < earliest {
				earliest = t
			}
			if count == 0 || t > latest {
				latest = t
			}
			count++
		}
	}

	if count == 0 {
		return ErrValidationRejected.New(ctx, "span has no notes")
	}
	if latest < float64(ctx.Offset) {
		return ErrValidationRejected.New(ctx, fmt.Sprintf("latest note %v precedes offset %d", latest, ctx.Offset))
	}
	if next, ok := a.nextOffset(ctx); ok && earliest > float64(next) {
		return ErrValidationRejected.New(ctx, fmt.Sprintf("earliest note %v belongs to the timeline at offset %d", earliest, next))
	}
	return nil
}

func (a *Assembler) emit(ctx model.TrackContext, members []int, bars []model.Bar) {
	for i, ts := range members {
		for _, p := range model.Properties {
			a.sink.Property(model.PropertyEvent{
				Track:    ctx.Track,
				Bar:      ts,
				Property: p,
				Value:    bars[i].Value(p),
			})
		}
	}
	a.sink.Track(ctx.Track)
	a.sink.Span(slices.Clone(members))
}
