package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/types"
)

// Extreme is a rolling highest/lowest channel line. With an offset of 1 the
// value is the extreme of the prior period bars, the current bar excluded.
type Extreme struct {
	name   string
	kind   ExtremeKind
	source Source
	window *Window
}

// NewHighest creates a rolling maximum.
func NewHighest(name string, source Source, period int, offset int) (*Extreme, error) {
	return newExtreme(name, ExtremeMax, source, period, offset)
}

// NewLowest creates a rolling minimum.
func NewLowest(name string, source Source, period int, offset int) (*Extreme, error) {
	return newExtreme(name, ExtremeMin, source, period, offset)
}

func newExtreme(name string, kind ExtremeKind, source Source, period int, offset int) (*Extreme, error) {
	window, err := NewWindow(period, offset)
	if err != nil {
		return nil, err
	}

	return &Extreme{
		name:   name,
		kind:   kind,
		source: source,
		window: window,
	}, nil
}

func (e *Extreme) Name() string {
	return e.name
}

func (e *Extreme) Type() types.IndicatorType {
	if e.kind == ExtremeMin {
		return types.IndicatorTypeLowest
	}

	return types.IndicatorTypeHighest
}

func (e *Extreme) Update(bar types.Bar) {
	e.window.Update(e.source.Value(bar))
}

func (e *Extreme) Value() optional.Option[float64] {
	return e.window.Extreme(e.kind)
}
