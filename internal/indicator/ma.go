package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/types"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	name   string
	source Source
	window *Window
}

// NewMA creates a simple moving average over the given source.
func NewMA(name string, source Source, period int) (*MA, error) {
	window, err := NewWindow(period, 0)
	if err != nil {
		return nil, err
	}

	return &MA{
		name:   name,
		source: source,
		window: window,
	}, nil
}

// Name returns the name of the indicator.
func (m *MA) Name() string {
	return m.name
}

func (m *MA) Type() types.IndicatorType {
	return types.IndicatorTypeMA
}

func (m *MA) Update(bar types.Bar) {
	m.window.Update(m.source.Value(bar))
}

// Value returns the average of the last period values.
func (m *MA) Value() optional.Option[float64] {
	return m.window.Average()
}
