// Package bucket holds the bar store: every Bar keyed by TrackContext and bar
// timestamp. The store owns its bars by value; reads and writes copy.
package bucket

import (
	"math"
	"sort"

	"github.com/jsphweid/barspan/model"
	"github.com/jsphweid/barspan/util"
)

// BarTimestamp buckets an absolute timestamp into the start of its bar on the
// timeline that begins at offset.
func BarTimestamp(absolute float64, offset int, barLength int) int {
	return int(math.Floor((absolute-float64(offset))/float64(barLength))) * barLength
}

type Store struct {
	contexts map[model.TrackContext]map[int]model.Bar
}

func NewStore() *Store {
	return &Store{contexts: make(map[model.TrackContext]map[int]model.Bar)}
}

func (s *Store) Get(ctx model.TrackContext, ts int) (model.Bar, bool) {
	bar, ok := s.contexts[ctx][ts]
	if !ok {
		return model.Bar{}, false
	}
	return bar.Clone(), true
}

func (s *Store) Put(ctx model.TrackContext, ts int, bar model.Bar) {
	bars, ok := s.contexts[ctx]
	if !ok {
		bars = make(map[int]model.Bar)
		s.contexts[ctx] = bars
	}
	bars[ts] = bar.Clone()
}

// Delete removes one bar; a context left without bars is dropped.
func (s *Store) Delete(ctx model.TrackContext, ts int) {
	bars, ok := s.contexts[ctx]
	if !ok {
		return
	}
	delete(bars, ts)
	if len(bars) == 0 {
		delete(s.contexts, ctx)
	}
}

func (s *Store) DeleteContext(ctx model.TrackContext) {
	delete(s.contexts, ctx)
}

func (s *Store) Reset() {
	s.contexts = make(map[model.TrackContext]map[int]model.Bar)
}

func (s *Store) Has(ctx model.TrackContext) bool {
	_, ok := s.contexts[ctx]
	return ok
}

// BarTimestamps returns the bar timestamps of ctx in ascending order.
func (s *Store) BarTimestamps(ctx model.TrackContext) []int {
	return util.SortedKeys(s.contexts[ctx])
}

// MaxBar returns the latest bar timestamp stored for ctx.
func (s *Store) MaxBar(ctx model.TrackContext) (int, bool) {
	bars, ok := s.contexts[ctx]
	if !ok || len(bars) == 0 {
		return 0, false
	}
	first := true
	var latest int
	for ts := range bars {
		if first || ts > latest {
			latest = ts
			first = false
		}
	}
	return latest, true
}

// Contexts returns every context holding bars, ordered by track then offset.
func (s *Store) Contexts() []model.TrackContext {
	res := make([]model.TrackContext, 0, len(s.contexts))
	for ctx := range s.contexts {
		res = append(res, ctx)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Track != res[j].Track {
			return res[i].Track < res[j].Track
		}
		return res[i].Offset < res[j].Offset
	})
	return res
}

// ContextsForTrack returns the contexts of one track ordered by offset.
func (s *Store) ContextsForTrack(track int) []model.TrackContext {
	var res []model.TrackContext
	for _, ctx := range s.Contexts() {
		if ctx.Track == track {
			res = append(res, ctx)
		}
	}
	return res
}

// Len returns the number of stored bars across all contexts.
func (s *Store) Len() int {
	var n int
	for _, bars := range s.contexts {
		n += len(bars)
	}
	return n
}

// Snapshot deep-copies the store.
func (s *Store) Snapshot() []model.ContextSnapshot {
	var res []model.ContextSnapshot
	for _, ctx := range s.Contexts() {
		bars := make(map[int]model.Bar, len(s.contexts[ctx]))
		for ts, bar := range s.contexts[ctx] {
			bars[ts] = bar.Clone()
		}
		res = append(res, model.ContextSnapshot{Context: ctx, Bars: bars})
	}
	return res
}
