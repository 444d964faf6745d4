package engine

import (
	"context"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-futures/internal/indicator"
	"github.com/rxtech-lab/argo-futures/internal/logger"
	"github.com/rxtech-lab/argo-futures/internal/stats"
	"github.com/rxtech-lab/argo-futures/internal/strategy"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"go.uber.org/zap"
)

// RunSettings is everything one simulation needs besides the bars.
type RunSettings struct {
	Strategy              strategy.Kind
	Parameters            strategy.Parameters
	Ledger                LedgerConfig
	Broker                commission_fee.Broker
	CommissionPerContract float64
	CutoffHour            int
	Timeframe             stats.Timeframe
	Metrics               stats.Options
}

// RunOutcome is the result of replaying the bars once.
type RunOutcome struct {
	Trades      []types.Trade
	Fills       []types.Fill
	Equity      []types.EquitySample
	Returns     []float64
	Metrics     types.Metrics
	FinalEquity float64
	TotalFees   float64
	// Unfilled is the order left pending after the last bar, if any.
	Unfilled optional.Option[types.PendingOrder]
}

// NetPnL is the sum of the net P&L of all closed trades.
func (o RunOutcome) NetPnL() float64 {
	total := 0.0
	for _, trade := range o.Trades {
		total += trade.NetPnL
	}

	return total
}

// WinningTrades counts trades with a positive net P&L.
func (o RunOutcome) WinningTrades() int {
	count := 0

	for _, trade := range o.Trades {
		if trade.NetPnL > 0 {
			count++
		}
	}

	return count
}

// Simulate replays bars through a fresh strategy, indicator registry, ledger
// and state machine. On every bar the pending order is filled at the open,
// the indicators are updated, the state machine decides, the resulting order
// is submitted and the ledger is marked to the close. An order submitted on
// the last bar stays unfilled.
//
// ctx is checked between bars only, so a fill is never interrupted.
func Simulate(ctx context.Context, bars []types.Bar, settings RunSettings, log *logger.Logger) (RunOutcome, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	strat, err := strategy.New(settings.Strategy, settings.Parameters)
	if err != nil {
		return RunOutcome{}, err
	}

	registry := indicator.NewIndicatorRegistry()
	if err := strat.Indicators(registry); err != nil {
		return RunOutcome{}, err
	}

	fee := commission_fee.GetCommissionFeeHandler(settings.Broker, settings.CommissionPerContract)
	ledger := NewLedger(settings.Ledger, fee, log)
	machine := NewStateMachine(strat, registry, ledger, settings.CutoffHour, log)

	log.Debug("Run started",
		zap.String("strategy", strat.Name()),
		zap.Int("bars", len(bars)),
		zap.Any("parameters", settings.Parameters),
	)

	for i, bar := range bars {
		if err := ctx.Err(); err != nil {
			return RunOutcome{}, contextError(err, i)
		}

		if pending := ledger.Pending(); pending.IsSome() && pending.Unwrap().CreatedAtBar < i {
			if _, err := ledger.OnFill(pending.Unwrap().ID, bar.Open, bar.Time, i); err != nil {
				return RunOutcome{}, err
			}
		}

		registry.Update(bar)

		action := machine.OnBar(bar, i)
		if action.Kind != ActionNone {
			if _, err := ledger.Submit(action.Side(), action.Reason, i, bar.Time); err != nil {
				if !errors.HasCode(err, errors.ErrCodeInsufficientMargin) {
					return RunOutcome{}, err
				}

				log.Debug("Order rejected",
					zap.Time("time", bar.Time),
					zap.Int("bar_index", i),
					zap.Error(err),
				)
			}
		}

		ledger.MarkToMarket(bar.Close, bar.Time)
	}

	returns := stats.ReturnsFromEquity(ledger.EquityCurve(), settings.Ledger.InitialCash, settings.Timeframe)

	finalEquity := settings.Ledger.InitialCash
	if curve := ledger.EquityCurve(); len(curve) > 0 {
		finalEquity = curve[len(curve)-1].Equity
	}

	outcome := RunOutcome{
		Trades:      ledger.Trades(),
		Fills:       ledger.Fills(),
		Equity:      ledger.EquityCurve(),
		Returns:     returns,
		Metrics:     stats.Aggregate(returns, settings.Metrics),
		FinalEquity: finalEquity,
		TotalFees:   ledger.TotalFees(),
		Unfilled:    ledger.Pending(),
	}

	log.Debug("Run finished",
		zap.String("strategy", strat.Name()),
		zap.Int("trades", len(outcome.Trades)),
		zap.Float64("final_equity", outcome.FinalEquity),
		zap.Float64("cum_return", outcome.Metrics.CumulativeReturn),
		zap.Float64("sharpe_ratio", outcome.Metrics.SharpeRatio),
		zap.Float64("max_drawdown", outcome.Metrics.MaxDrawdown),
	)

	return outcome, nil
}

func contextError(err error, barIndex int) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Wrapf(errors.ErrCodeRunTimeout, err, "run timed out before bar %d", barIndex)
	}

	return errors.Wrapf(errors.ErrCodeSweepCancelled, err, "run cancelled before bar %d", barIndex)
}
