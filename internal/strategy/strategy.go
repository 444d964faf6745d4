// Package strategy holds the built-in futures strategies. A strategy only
// decides; orders, fills and positions belong to the engine's ledger.
package strategy

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/indicator"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
)

type Kind string

const (
	// KindMAVolume is the trend-following variant: price above/below three
	// moving averages confirmed by a volume average crossover.
	KindMAVolume Kind = "ma_volume"
	// KindHighLow is the breakout variant over a prior-bar high/low channel.
	KindHighLow Kind = "high_low"
)

// AllKinds lists every strategy that can be selected by configuration.
var AllKinds = []Kind{KindMAVolume, KindHighLow}

// Names of the strategy parameters that may appear in a sweep grid.
const (
	ParamMAShort       = "ma_short"
	ParamMAMedium      = "ma_medium"
	ParamMALong        = "ma_long"
	ParamPeriod        = "period"
	ParamStopLossPct   = "stop_loss_pct"
	ParamTakeProfitPct = "take_profit_pct"
	ParamExitPct       = "exit_pct"
)

// Parameters is the resolved value of every strategy parameter of one run.
type Parameters map[string]float64

// Float returns the named value or fallback when it is absent.
func (p Parameters) Float(name string, fallback float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}

	return fallback
}

// Period returns the named value as a window length. It must be a positive
// integer.
func (p Parameters) Period(name string, fallback int) (int, error) {
	v, ok := p[name]
	if !ok {
		return fallback, nil
	}

	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s must be a positive integer, got %v", name, v)
	}

	return int(v), nil
}

// Pct returns the named value as a fraction. It must be greater than zero.
func (p Parameters) Pct(name string, fallback float64) (float64, error) {
	v := p.Float(name, fallback)
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "%s must be greater than zero, got %v", name, v)
	}

	return v, nil
}

// BarContext is what a strategy sees on every bar. Indicators have already
// been updated with Bar.
type BarContext struct {
	Bar        types.Bar
	Index      int
	Indicators indicator.IndicatorRegistry
}

// Strategy is one tagged strategy variant.
type Strategy interface {
	// Name returns the kind of the strategy
	Name() string
	// Indicators registers the indicators the strategy reads into a run's registry
	Indicators(registry indicator.IndicatorRegistry) error
	// Entry evaluates the entry rule while flat. Unavailable indicators yield no signal.
	Entry(ctx BarContext) types.Signal
	// Exit evaluates the exit rules of an open position. At most one reason is returned.
	Exit(ctx BarContext, position types.Position) optional.Option[types.Reason]
}

// New creates the strategy selected by kind from the resolved parameters.
// Parameters a strategy does not use are ignored.
func New(kind Kind, params Parameters) (Strategy, error) {
	switch kind {
	case KindMAVolume:
		return NewMAVolume(params)
	case KindHighLow:
		return NewHighLow(params)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidStrategy, "unknown strategy %q", kind)
	}
}

// ParameterNames returns the grid parameter names a strategy kind reads.
func ParameterNames(kind Kind) []string {
	switch kind {
	case KindMAVolume:
		return []string{ParamMAShort, ParamMAMedium, ParamMALong, ParamStopLossPct, ParamTakeProfitPct}
	case KindHighLow:
		return []string{ParamPeriod, ParamStopLossPct, ParamExitPct}
	default:
		return nil
	}
}

// values resolves the named indicators, reporting false if any is unavailable.
func values(registry indicator.IndicatorRegistry, names ...string) ([]float64, bool) {
	out := make([]float64, len(names))

	for i, name := range names {
		v := registry.Value(name)
		if v.IsNone() {
			return nil, false
		}

		out[i] = v.Unwrap()
	}

	return out, true
}
