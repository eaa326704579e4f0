package bucket

import (
	"fmt"
	"testing"

	"github.com/jsphweid/barspan/model"
	"github.com/stretchr/testify/assert"
)

func TestBarTimestamp(t *testing.T) {
	cases := []struct {
		absolute  float64
		offset    int
		barLength int
		expected  int
	}{
		{100, 0, 125, 0},
		{230, 0, 125, 125},
		{125, 0, 125, 125},
		{124.999, 0, 125, 0},
		{1100, 1000, 125, 0},
		{1260, 1000, 125, 250},
		{900, 1000, 125, -125},
	}

	for _, c := range cases {
		name := fmt.Sprintf("%v at offset %v", c.absolute, c.offset)
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, c.expected, BarTimestamp(c.absolute, c.offset, c.barLength))
		})
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	s := NewStore()
	ctx := model.TrackContext{Track: 0, Offset: 0}
	bar := model.Bar{Absolutes: []float64{100}, Scores: []float64{0.9}, SpanMembers: []int{0}}
	s.Put(ctx, 0, bar)

	// writes to the caller's copy never reach the store
	bar.SpanMembers[0] = 999
	got, ok := s.Get(ctx, 0)
	assert.True(t, ok)
	assert.Equal(t, []int{0}, got.SpanMembers)

	got.Scores[0] = 0
	again, _ := s.Get(ctx, 0)
	assert.Equal(t, []float64{0.9}, again.Scores)
}

func TestDeleteDropsEmptyContext(t *testing.T) {
	assert := assert.New(t)
	s := NewStore()
	ctx := model.TrackContext{Track: 1, Offset: 500}
	s.Put(ctx, 0, model.Bar{})
	s.Put(ctx, 125, model.Bar{})

	s.Delete(ctx, 0)
	assert.True(s.Has(ctx))
	assert.Equal([]int{125}, s.BarTimestamps(ctx))

	s.Delete(ctx, 125)
	assert.False(s.Has(ctx))
	assert.Empty(s.Contexts())
}

func TestContextsOrdering(t *testing.T) {
	s := NewStore()
	s.Put(model.TrackContext{Track: 2, Offset: 0}, 0, model.Bar{})
	s.Put(model.TrackContext{Track: 1, Offset: 900}, 0, model.Bar{})
	s.Put(model.TrackContext{Track: 1, Offset: 300}, 0, model.Bar{})

	assert.Equal(t, []model.TrackContext{
		{Track: 1, Offset: 300},
		{Track: 1, Offset: 900},
		{Track: 2, Offset: 0},
	}, s.Contexts())
	assert.Equal(t, []model.TrackContext{
		{Track: 1, Offset: 300},
		{Track: 1, Offset: 900},
	}, s.ContextsForTrack(1))
}

func TestMaxBarAndLen(t *testing.T) {
	assert := assert.New(t)
	s := NewStore()
	ctx := model.TrackContext{}

	_, ok := s.MaxBar(ctx)
	assert.False(ok)

	s.Put(ctx, -125, model.Bar{})
	s.Put(ctx, 250, model.Bar{})
	s.Put(ctx, 0, model.Bar{})
	latest, ok := s.MaxBar(ctx)
	assert.True(ok)
	assert.Equal(250, latest)
	assert.Equal(3, s.Len())

	s.Reset()
	assert.Equal(0, s.Len())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	ctx := model.TrackContext{Track: 3}
	s.Put(ctx, 0, model.Bar{SpanMembers: []int{0}})

	snap := s.Snapshot()
	snap[0].Bars[0].SpanMembers[0] = 42

	got, _ := s.Get(ctx, 0)
	assert.Equal(t, []int{0}, got.SpanMembers)
}
