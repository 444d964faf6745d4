package engine

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-futures/internal/logger"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerConfig holds the account and contract terms of one run.
type LedgerConfig struct {
	InitialCash        float64
	Contracts          float64
	ContractMultiplier float64
	MarginPerContract  float64
	// MarginCostPct is the fraction of the margin charged once per round trip.
	MarginCostPct float64
}

// Ledger owns the position, the single pending order and the cash of one run.
// It is not safe for concurrent use; every run owns its own ledger.
type Ledger struct {
	config  LedgerConfig
	fee     commission_fee.CommissionFee
	logger  *logger.Logger
	cash    decimal.Decimal
	fees    decimal.Decimal
	pending optional.Option[types.PendingOrder]
	// position.EntryCommission is tracked so a trade can report both legs
	position types.Position
	trades   []types.Trade
	fills    []types.Fill
	equity   []types.EquitySample
}

func NewLedger(config LedgerConfig, fee commission_fee.CommissionFee, log *logger.Logger) *Ledger {
	if fee == nil {
		fee = commission_fee.NewZeroCommissionFee()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Ledger{
		config:   config,
		fee:      fee,
		logger:   log,
		cash:     decimal.NewFromFloat(config.InitialCash),
		fees:     decimal.Zero,
		pending:  optional.None[types.PendingOrder](),
		position: types.Position{},
		trades:   []types.Trade{},
		fills:    []types.Fill{},
		equity:   []types.EquitySample{},
	}
}

// Submit records a new pending order and returns its id. It never replaces an
// order that is still pending.
func (l *Ledger) Submit(side types.Side, reason types.Reason, barIndex int, at time.Time) (string, error) {
	if l.pending.IsSome() {
		pending := l.pending.Unwrap()

		return "", errors.Newf(errors.ErrCodeOrderPending, "order %s created at bar %d is still pending", pending.ID, pending.CreatedAtBar)
	}

	quantity := l.config.Contracts

	switch side {
	case types.SideClose:
		if l.position.IsFlat() {
			return "", errors.New(errors.ErrCodeNothingToClose, "cannot close a flat position")
		}

		quantity = math.Abs(l.position.Size)
	case types.SideBuy, types.SideSell:
		if !l.position.IsFlat() {
			return "", errors.Newf(errors.ErrCodeInvalidOrder, "cannot open a %s order while a %s position is open", side, l.position.Type())
		}

		required := decimal.NewFromFloat(l.config.MarginPerContract).Mul(decimal.NewFromFloat(quantity))
		if l.cash.LessThan(required) {
			return "", errors.Newf(errors.ErrCodeInsufficientMargin, "margin %s exceeds available cash %s", required.StringFixed(2), l.cash.StringFixed(2))
		}
	}

	order := types.PendingOrder{
		ID:           uuid.New().String(),
		Side:         side,
		Quantity:     quantity,
		CreatedAtBar: barIndex,
		CreatedAt:    at,
		Status:       types.OrderStatusPending,
		Reason:       reason,
	}

	if err := order.Validate(); err != nil {
		return "", err
	}

	l.pending = optional.Some(order)

	l.logger.Debug("Order created",
		zap.String("order_id", order.ID),
		zap.String("side", string(side)),
		zap.Float64("quantity", quantity),
		zap.String("reason", reason.Reason),
		zap.Int("bar_index", barIndex),
		zap.Time("time", at),
	)

	return order.ID, nil
}

// OnFill applies the fill of the pending order. The position, the cash and
// the pending flag change together or not at all. A trade is returned only
// when the fill brings an open position back to flat.
func (l *Ledger) OnFill(orderID string, price float64, at time.Time, barIndex int) (optional.Option[types.Trade], error) {
	none := optional.None[types.Trade]()

	if l.pending.IsNone() {
		return none, errors.Newf(errors.ErrCodeNoPendingOrder, "no pending order to fill for id %s", orderID)
	}

	order := l.pending.Unwrap()
	if order.ID != orderID {
		return none, errors.Newf(errors.ErrCodeOrderIDMismatch, "fill for %s does not match pending order %s", orderID, order.ID)
	}

	// zero is a valid price, matching Bar.Validate
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return none, errors.Newf(errors.ErrCodeInvalidFillPrice, "invalid fill price %v", price)
	}

	commission := decimal.NewFromFloat(l.fee.Calculate(order.Quantity, price))

	l.fills = append(l.fills, types.Fill{
		OrderID:    order.ID,
		Side:       order.Side,
		Price:      price,
		Quantity:   order.Quantity,
		Time:       at,
		BarIndex:   barIndex,
		Commission: commission.InexactFloat64(),
	})
	l.pending = optional.None[types.PendingOrder]()
	l.fees = l.fees.Add(commission)

	if order.Side != types.SideClose {
		size := order.Quantity
		if order.Side == types.SideSell {
			size = -size
		}

		l.cash = l.cash.Sub(commission)
		l.position = types.Position{
			Size:            size,
			EntryPrice:      price,
			EntryBarIndex:   barIndex,
			EntryTime:       at,
			EntryCommission: commission.InexactFloat64(),
		}

		l.logger.Debug("Position opened",
			zap.String("order_id", order.ID),
			zap.String("position_type", string(l.position.Type())),
			zap.Float64("size", size),
			zap.Float64("price", price),
			zap.Time("time", at),
		)

		return none, nil
	}

	trade := l.closePosition(order, price, at, barIndex, commission)

	return optional.Some(trade), nil
}

func (l *Ledger) closePosition(order types.PendingOrder, price float64, at time.Time, barIndex int, commission decimal.Decimal) types.Trade {
	position := l.position
	size := decimal.NewFromFloat(position.Size)
	multiplier := decimal.NewFromFloat(l.config.ContractMultiplier)

	gross := size.Mul(decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(position.EntryPrice))).Mul(multiplier)
	marginCost := decimal.NewFromFloat(l.config.MarginPerContract).
		Mul(decimal.NewFromFloat(l.config.MarginCostPct)).
		Mul(size.Abs())
	totalCommission := decimal.NewFromFloat(position.EntryCommission).Add(commission).Add(marginCost)
	net := gross.Sub(totalCommission)

	// the entry commission was already paid when the position opened
	l.cash = l.cash.Add(gross).Sub(commission).Sub(marginCost)
	l.fees = l.fees.Add(marginCost)

	trade := types.Trade{
		EntryPrice:    position.EntryPrice,
		ExitPrice:     price,
		Size:          position.Size,
		PositionType:  position.Type(),
		EntryTime:     position.EntryTime,
		ExitTime:      at,
		EntryBarIndex: position.EntryBarIndex,
		ExitBarIndex:  barIndex,
		GrossPnL:      gross.InexactFloat64(),
		Commission:    totalCommission.InexactFloat64(),
		NetPnL:        net.InexactFloat64(),
		Reason:        order.Reason,
	}

	l.trades = append(l.trades, trade)
	l.position = types.Position{}

	l.logger.Debug("Trade closed",
		zap.String("order_id", order.ID),
		zap.String("position_type", string(trade.PositionType)),
		zap.Float64("entry_price", trade.EntryPrice),
		zap.Float64("exit_price", trade.ExitPrice),
		zap.Float64("gross_pnl", trade.GrossPnL),
		zap.Float64("net_pnl", trade.NetPnL),
		zap.String("reason", trade.Reason.Reason),
		zap.Time("time", at),
	)

	return trade
}

// Pending returns the order awaiting a fill, if any.
func (l *Ledger) Pending() optional.Option[types.PendingOrder] {
	return l.pending
}

func (l *Ledger) Position() types.Position {
	return l.position
}

// Cash returns realized cash: initial cash plus closed trade P&L minus all
// commissions paid so far.
func (l *Ledger) Cash() float64 {
	return l.cash.InexactFloat64()
}

// TotalFees returns every commission and margin cost charged so far.
func (l *Ledger) TotalFees() float64 {
	return l.fees.InexactFloat64()
}

func (l *Ledger) Trades() []types.Trade {
	return l.trades
}

func (l *Ledger) Fills() []types.Fill {
	return l.fills
}

// Equity returns cash plus the unrealized P&L of the open position at price.
func (l *Ledger) Equity(price float64) float64 {
	return l.equityAt(price).InexactFloat64()
}

func (l *Ledger) equityAt(price float64) decimal.Decimal {
	if l.position.IsFlat() {
		return l.cash
	}

	unrealized := decimal.NewFromFloat(l.position.Size).
		Mul(decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(l.position.EntryPrice))).
		Mul(decimal.NewFromFloat(l.config.ContractMultiplier))

	return l.cash.Add(unrealized)
}

// MarkToMarket records the equity at price as the sample of the current bar.
func (l *Ledger) MarkToMarket(price float64, at time.Time) types.EquitySample {
	sample := types.EquitySample{
		Time:   at,
		Equity: l.equityAt(price).InexactFloat64(),
	}

	l.equity = append(l.equity, sample)

	return sample
}

// EquityCurve returns every sample recorded by MarkToMarket.
func (l *Ledger) EquityCurve() []types.EquitySample {
	return l.equity
}
