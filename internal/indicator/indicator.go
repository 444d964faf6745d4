package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/types"
)

// Source selects which bar field feeds an indicator.
type Source string

const (
	SourceClose  Source = "close"
	SourceHigh   Source = "high"
	SourceLow    Source = "low"
	SourceVolume Source = "volume"
)

// Value extracts the source field from a bar.
func (s Source) Value(bar types.Bar) float64 {
	switch s {
	case SourceHigh:
		return bar.High
	case SourceLow:
		return bar.Low
	case SourceVolume:
		return bar.Volume
	default:
		return bar.Close
	}
}

// Indicator is a streaming technical indicator fed one bar at a time.
type Indicator interface {
	// Name returns the name the indicator was registered under
	Name() string
	// Type returns the kind of the indicator
	Type() types.IndicatorType
	// Update feeds the next bar
	Update(bar types.Bar)
	// Value returns the current output, or None while warming up
	Value() optional.Option[float64]
}
