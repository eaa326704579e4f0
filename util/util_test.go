package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[int]string{375: "c", 0: "a", 125: "b"}
	assert.Equal(t, []int{0, 125, 375}, SortedKeys(m))
	assert.Empty(t, SortedKeys(map[int]string{}))
}

func TestMean(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0.0, Mean([]float64{}))
	assert.InDelta(0.5, Mean([]float64{0.4, 0.6}), 1e-9)
	assert.InDelta(2.0, Mean([]int{1, 2, 3}), 1e-9)
}

func TestMinMax(t *testing.T) {
	assert := assert.New(t)

	_, _, ok := MinMax([]float64{})
	assert.False(ok)

	lo, hi, ok := MinMax([]float64{230, 100, 250.5})
	assert.True(ok)
	assert.Equal(100.0, lo)
	assert.Equal(250.5, hi)
}

func TestIsFinite(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsFinite(1.5))
	assert.False(IsFinite(math.NaN()))
	assert.False(IsFinite(math.Inf(-1)))
}
