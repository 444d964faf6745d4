package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
)

// ExtremeKind selects the rolling maximum or minimum.
type ExtremeKind int

const (
	ExtremeMax ExtremeKind = iota
	ExtremeMin
)

// Window is a fixed-capacity ring buffer over the most recent period+offset
// values. Aggregates are taken over the period values that precede the last
// offset values, so an offset of 1 excludes the value that was just added.
type Window struct {
	period   int
	offset   int
	values   []float64
	head     int
	observed int
}

// NewWindow creates a window. period must be positive and offset non-negative.
func NewWindow(period int, offset int) (*Window, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	if offset < 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "offset must not be negative, got %d", offset)
	}

	return &Window{
		period:   period,
		offset:   offset,
		values:   make([]float64, period+offset),
		head:     0,
		observed: 0,
	}, nil
}

// Update pushes a value, evicting the oldest one once the buffer is full.
func (w *Window) Update(value float64) {
	w.values[w.head] = value
	w.head = (w.head + 1) % len(w.values)
	w.observed++
}

// Period returns the number of values aggregated.
func (w *Window) Period() int {
	return w.period
}

// Offset returns the number of most recent values excluded from aggregates.
func (w *Window) Offset() int {
	return w.offset
}

// Observed returns how many values have been pushed in total.
func (w *Window) Observed() int {
	return w.observed
}

// Ready reports whether enough values were observed to fill the aggregation span.
func (w *Window) Ready() bool {
	return w.observed >= w.period+w.offset
}

// Average returns the simple moving average of the aggregation span.
func (w *Window) Average() optional.Option[float64] {
	if !w.Ready() {
		return optional.None[float64]()
	}

	sum := 0.0
	w.each(func(v float64) {
		sum += v
	})

	return optional.Some(sum / float64(w.period))
}

// Extreme returns the rolling max or min of the aggregation span.
func (w *Window) Extreme(kind ExtremeKind) optional.Option[float64] {
	if !w.Ready() {
		return optional.None[float64]()
	}

	first := true
	extreme := 0.0

	w.each(func(v float64) {
		switch {
		case first:
			extreme = v
			first = false
		case kind == ExtremeMax && v > extreme:
			extreme = v
		case kind == ExtremeMin && v < extreme:
			extreme = v
		}
	})

	return optional.Some(extreme)
}

// each visits the aggregation span from oldest to newest. The buffer is full
// whenever this is called, so head points at the oldest value.
func (w *Window) each(fn func(v float64)) {
	size := len(w.values)
	for i := 0; i < w.period; i++ {
		fn(w.values[(w.head+i)%size])
	}
}
