package strategy

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/indicator"
	"github.com/rxtech-lab/argo-futures/internal/types"
)

const (
	DefaultMAShort       = 5
	DefaultMAMedium      = 20
	DefaultMALong        = 60
	DefaultStopLossPct   = 0.02
	DefaultTakeProfitPct = 0.02
)

const (
	maShortName     = "sma_short"
	maMediumName    = "sma_medium"
	maLongName      = "sma_long"
	volumeShortName = "vol_sma_short"
	volumeLongName  = "vol_sma_long"
)

// MAVolume enters long when the close is above the short, medium and long
// moving averages while the short volume average is above the long one, and
// short on the mirrored condition. Positions close on a fixed take-profit or
// stop-loss relative to the entry price.
type MAVolume struct {
	short         int
	medium        int
	long          int
	stopLossPct   float64
	takeProfitPct float64
}

func NewMAVolume(params Parameters) (*MAVolume, error) {
	short, err := params.Period(ParamMAShort, DefaultMAShort)
	if err != nil {
		return nil, err
	}

	medium, err := params.Period(ParamMAMedium, DefaultMAMedium)
	if err != nil {
		return nil, err
	}

	long, err := params.Period(ParamMALong, DefaultMALong)
	if err != nil {
		return nil, err
	}

	stopLossPct, err := params.Pct(ParamStopLossPct, DefaultStopLossPct)
	if err != nil {
		return nil, err
	}

	takeProfitPct, err := params.Pct(ParamTakeProfitPct, DefaultTakeProfitPct)
	if err != nil {
		return nil, err
	}

	return &MAVolume{
		short:         short,
		medium:        medium,
		long:          long,
		stopLossPct:   stopLossPct,
		takeProfitPct: takeProfitPct,
	}, nil
}

func (s *MAVolume) Name() string {
	return string(KindMAVolume)
}

func (s *MAVolume) Indicators(registry indicator.IndicatorRegistry) error {
	specs := []struct {
		name   string
		source indicator.Source
		period int
	}{
		{maShortName, indicator.SourceClose, s.short},
		{maMediumName, indicator.SourceClose, s.medium},
		{maLongName, indicator.SourceClose, s.long},
		{volumeShortName, indicator.SourceVolume, s.short},
		{volumeLongName, indicator.SourceVolume, s.long},
	}

	for _, spec := range specs {
		ma, err := indicator.NewMA(spec.name, spec.source, spec.period)
		if err != nil {
			return err
		}

		if err := registry.RegisterIndicator(ma); err != nil {
			return err
		}
	}

	return nil
}

func (s *MAVolume) Entry(ctx BarContext) types.Signal {
	v, ok := values(ctx.Indicators, maShortName, maMediumName, maLongName, volumeShortName, volumeLongName)
	if !ok {
		return types.NoSignal()
	}

	closePrice := ctx.Bar.Close
	maShort, maMedium, maLong, volShort, volLong := v[0], v[1], v[2], v[3], v[4]

	if closePrice > maShort && closePrice > maMedium && closePrice > maLong && volShort > volLong {
		return types.Signal{
			Type: types.SignalTypeBuyLong,
			Reason: types.Reason{
				Reason:  types.OrderReasonEntryLong,
				Message: fmt.Sprintf("close %.2f above moving averages with rising volume", closePrice),
			},
		}
	}

	if closePrice < maShort && closePrice < maMedium && closePrice < maLong && volShort < volLong {
		return types.Signal{
			Type: types.SignalTypeSellShort,
			Reason: types.Reason{
				Reason:  types.OrderReasonEntryShort,
				Message: fmt.Sprintf("close %.2f below moving averages with falling volume", closePrice),
			},
		}
	}

	return types.NoSignal()
}

// Exit checks take-profit before stop-loss.
func (s *MAVolume) Exit(ctx BarContext, position types.Position) optional.Option[types.Reason] {
	closePrice := ctx.Bar.Close
	entry := position.EntryPrice

	switch {
	case position.IsLong():
		takeProfit := entry * (1 + s.takeProfitPct)
		stopLoss := entry * (1 - s.stopLossPct)

		if closePrice >= takeProfit {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonTakeProfit,
				Message: fmt.Sprintf("close long: close %.2f reached take profit %.2f", closePrice, takeProfit),
			})
		}

		if closePrice <= stopLoss {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonStopLoss,
				Message: fmt.Sprintf("close long: close %.2f reached stop loss %.2f", closePrice, stopLoss),
			})
		}
	case position.IsShort():
		takeProfit := entry * (1 - s.takeProfitPct)
		stopLoss := entry * (1 + s.stopLossPct)

		if closePrice <= takeProfit {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonTakeProfit,
				Message: fmt.Sprintf("close short: close %.2f reached take profit %.2f", closePrice, takeProfit),
			})
		}

		if closePrice >= stopLoss {
			return optional.Some(types.Reason{
				Reason:  types.OrderReasonStopLoss,
				Message: fmt.Sprintf("close short: close %.2f reached stop loss %.2f", closePrice, stopLoss),
			})
		}
	}

	return optional.None[types.Reason]()
}
