package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/indicator"
	"github.com/rxtech-lab/argo-futures/internal/types"
)

const (
	DefaultPeriod  = 18
	DefaultExitPct = 0.02
)

const (
	highestPrevName = "highest_prev"
	lowestPrevName  = "lowest_prev"
)

// HighLow trades breakouts of the channel formed by the highest high and
// lowest low of the prior period bars. The current bar never counts toward
// its own channel.
//
// A long closes once the close recovers to the channel floor plus
// close*exit_pct, or falls to entry - close*stop_loss_pct. A short closes once
// the low reaches the channel ceiling minus close*exit_pct, or the close rises
// to entry + close*stop_loss_pct.
type HighLow struct {
	period      int
	stopLossPct float64
	exitPct     float64
}

func NewHighLow(params Parameters) (*HighLow, error) {
	period, err := params.Period(ParamPeriod, DefaultPeriod)
	if err != nil {
		return nil, err
	}

	stopLossPct, err := params.Pct(ParamStopLossPct, DefaultStopLossPct)
	if err != nil {
		return nil, err
	}

	exitPct, err := params.Pct(ParamExitPct, DefaultExitPct)
	if err != nil {
		return nil, err
	}

	return &HighLow{
		period:      period,
		stopLossPct: stopLossPct,
		exitPct:     exitPct,
	}, nil
}

func (s *HighLow) Name() string {
	return string(KindHighLow)
}

func (s *HighLow) Indicators(registry indicator.IndicatorRegistry) error {
	highest, err := indicator.NewHighest(highestPrevName, indicator.SourceHigh, s.period, 1)
	if err != nil {
		return err
	}

	lowest, err := indicator.NewLowest(lowestPrevName, indicator.SourceLow, s.period, 1)
	if err != nil {
		return err
	}

	if err := registry.RegisterIndicator(highest); err != nil {
		return err
	}

	return registry.RegisterIndicator(lowest)
}

func (s *HighLow) Entry(ctx BarContext) types.Signal {
	v, ok := values(ctx.Indicators, highestPrevName, lowestPrevName)
	if !ok {
		return types.NoSignal()
	}

	highestPrev, lowestPrev := v[0], v[1]

	if ctx.Bar.High > highestPrev {
		return types.Signal{
			Type: types.SignalTypeBuyLong,
			Reason: types.Reason{
				Reason:  types.OrderReasonEntryLong,
				Message: fmt.Sprintf("high %.2f broke above channel %.2f", ctx.Bar.High, highestPrev),
			},
		}
	}

	if ctx.Bar.Low < lowestPrev {
		return types.Signal{
			Type: types.SignalTypeSellShort,
			Reason: types.Reason{
				Reason:  types.OrderReasonEntryShort,
				Message: fmt.Sprintf("low %.2f broke below channel %.2f", ctx.Bar.Low, lowestPrev),
			},
		}
	}

	return types.NoSignal()
}

// Exit checks the channel exit before the stop.
func (s *HighLow) Exit(ctx BarContext, position types.Position) optional.Option[types.Reason] {
	v, ok := values(ctx.Indicators, highestPrevName, lowestPrevName)
	if !ok {
		return optional.None[types.Reason]()
	}

	highestPrev, lowestPrev := v[0], v[1]
	bar := ctx.Bar
	entry := position.EntryPrice

	switch {
	case position.IsLong():
		exitPrice := lowestPrev + bar.Close*s.exitPct
		stopLoss := entry - bar.Close*s.stopLossPct

		if bar.Close >= exitPrice {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonChannelExit,
				Message: fmt.Sprintf("close long: close %.2f reached channel exit %.2f", bar.Close, exitPrice),
			})
		}

		if bar.Close <= stopLoss {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonStopLoss,
				Message: fmt.Sprintf("close long: close %.2f reached stop loss %.2f", bar.Close, stopLoss),
			})
		}
	case position.IsShort():
		exitPrice := highestPrev - bar.Close*s.exitPct
		stopLoss := entry + bar.Close*s.stopLossPct

		if bar.Low <= exitPrice {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonChannelExit,
				Message: fmt.Sprintf("close short: low %.2f reached channel exit %.2f", bar.Low, exitPrice),
			})
		}

		if bar.Close >= stopLoss {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonStopLoss,
				Message: fmt.Sprintf("close short: close %.2f reached stop loss %.2f", bar.Close, stopLoss),
			})
		}
	}

	return optional.None[types.Reason]()
}
