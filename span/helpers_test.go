package span

import (
	"testing"

	"github.com/jsphweid/barspan/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBarLength = 125

func newTestAssembler() (*Assembler, *Recorder) {
	rec := NewRecorder()
	a := New(Options{BarLength: FixedBarLength(testBarLength), Sink: rec})
	return a, rec
}

func ingestAll(t *testing.T, a *Assembler, notes ...[2]float64) {
	t.Helper()
	for _, n := range notes {
		require.NoError(t, a.Ingest(n[0], n[1]))
	}
}

// assertSpanInvariants checks that every member of every stored span carries
// the same sorted member list and the rating its means imply.
func assertSpanInvariants(t *testing.T, a *Assembler) {
	t.Helper()
	for _, ctx := range a.Contexts() {
		for _, ts := range a.BarTimestamps(ctx) {
			bar, _ := a.Bar(ctx, ts)
			require.NotEmpty(t, bar.SpanMembers, "bar %d of %s", ts, ctx)
			assert.Contains(t, bar.SpanMembers, ts)
			assert.IsIncreasing(t, bar.SpanMembers)

			lowest := 0.0
			for i, m := range bar.SpanMembers {
				member, ok := a.Bar(ctx, m)
				require.True(t, ok, "member %d of %s missing", m, ctx)
				assert.Equal(t, bar.SpanMembers, member.SpanMembers)
				assert.InDelta(t, bar.Rating, member.Rating, 1e-9)
				if i == 0 || member.Mean < lowest {
					lowest = member.Mean
				}
			}
			assert.InDelta(t, lowest*float64(len(bar.SpanMembers)), bar.Rating, 1e-9)
		}
	}
}

func noteCount(a *Assembler, ctx model.TrackContext) int {
	return len(a.manifest(ctx))
}
