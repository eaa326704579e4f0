package span

import (
	"github.com/google/uuid"
	"github.com/jsphweid/barspan/model"
)

// Sink receives emitted spans. For every span the calls arrive in a fixed
// order: one Property per property per bar, then Track, then Span.
type Sink interface {
	Property(ev model.PropertyEvent)
	Track(track int)
	Span(bars []int)
}

// Rejecter is implemented by sinks that want to hear about spans that failed
// validation.
type Rejecter interface {
	Rejected(ctx model.TrackContext, err error)
}

// Visualizer takes best-effort JSON snapshots of the bar store. It must not
// block and may drop snapshots.
type Visualizer interface {
	Push(snapshot []byte)
}

type nopSink struct{}

func (nopSink) Property(model.PropertyEvent) {}
func (nopSink) Track(int)                    {}
func (nopSink) Span([]int)                   {}

// Recorder is a Sink that keeps every event it receives and folds each
// emission into a model.Span summary.
type Recorder struct {
	Properties []model.PropertyEvent
	Tracks     []int
	Spans      [][]int
	Summaries  []model.Span
	Rejections int

	// OnSpan, when set, is called with each completed summary.
	OnSpan func(model.Span)

	pending []model.PropertyEvent
	track   int
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Property(ev model.PropertyEvent) {
	r.Properties = append(r.Properties, ev)
	r.pending = append(r.pending, ev)
}

func (r *Recorder) Track(track int) {
	r.Tracks = append(r.Tracks, track)
	r.track = track
}

func (r *Recorder) Span(bars []int) {
	r.Spans = append(r.Spans, bars)

	s := model.Span{
		ID:    uuid.New().String(),
		Track: r.track,
		Bars:  append([]int(nil), bars...),
	}
	first := true
	for _, ev := range r.pending {
		switch ev.Property {
		case model.PropOffset:
			if first {
				s.Offset, _ = ev.Value.(int)
			}
		case model.PropPalette:
			if first {
				s.Palette, _ = ev.Value.(string)
			}
		case model.PropRating:
			s.Rating, _ = ev.Value.(float64)
		case model.PropAbsolutes:
			abs, _ := ev.Value.([]float64)
			s.Notes += len(abs)
		case model.PropSpan:
			first = false
		}
	}
	r.pending = nil
	r.Summaries = append(r.Summaries, s)
	if r.OnSpan != nil {
		r.OnSpan(s)
	}
}

func (r *Recorder) Rejected(model.TrackContext, error) {
	r.Rejections++
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	onSpan := r.OnSpan
	*r = Recorder{OnSpan: onSpan}
}
