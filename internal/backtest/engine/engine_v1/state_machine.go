package engine

import (
	"fmt"

	"github.com/rxtech-lab/argo-futures/internal/calendar"
	"github.com/rxtech-lab/argo-futures/internal/indicator"
	"github.com/rxtech-lab/argo-futures/internal/logger"
	"github.com/rxtech-lab/argo-futures/internal/strategy"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"go.uber.org/zap"
)

type ActionKind string

const (
	ActionNone  ActionKind = "none"
	ActionBuy   ActionKind = "buy"
	ActionSell  ActionKind = "sell"
	ActionClose ActionKind = "close"
)

// Action is the decision of one bar. At most one order follows from it.
type Action struct {
	Kind   ActionKind
	Reason types.Reason
}

// Side maps the action to the ledger order side.
func (a Action) Side() types.Side {
	switch a.Kind {
	case ActionBuy:
		return types.SideBuy
	case ActionSell:
		return types.SideSell
	default:
		return types.SideClose
	}
}

type State string

const (
	StateFlat  State = "flat"
	StateLong  State = "long"
	StateShort State = "short"
)

// StateMachine runs the per-bar decision of one strategy instance. The
// position and the pending order are read from the ledger; the machine only
// keeps the forced-close status of the current bar.
type StateMachine struct {
	strategy    strategy.Strategy
	indicators  indicator.IndicatorRegistry
	ledger      *Ledger
	cutoffHour  int
	forcedClose bool
	logger      *logger.Logger
}

func NewStateMachine(strat strategy.Strategy, indicators indicator.IndicatorRegistry, ledger *Ledger, cutoffHour int, log *logger.Logger) *StateMachine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &StateMachine{
		strategy:    strat,
		indicators:  indicators,
		ledger:      ledger,
		cutoffHour:  cutoffHour,
		forcedClose: false,
		logger:      log,
	}
}

// OnBar evaluates one bar whose values the indicators have already seen.
// The guards run in a fixed order: pending order, expiration, entry, exit.
func (m *StateMachine) OnBar(bar types.Bar, index int) Action {
	m.forcedClose = false

	if pending := m.ledger.Pending(); pending.IsSome() {
		return Action{Kind: ActionNone}
	}

	position := m.ledger.Position()

	if calendar.ForcedCloseDue(bar.Time, m.cutoffHour) {
		m.forcedClose = true

		if position.IsFlat() {
			return Action{Kind: ActionNone}
		}

		m.logger.Debug("Expiration reached, closing position",
			zap.Time("time", bar.Time),
			zap.Int("bar_index", index),
			zap.Float64("size", position.Size),
		)

		return Action{
			Kind: ActionClose,
			Reason: types.Reason{
				Reason:  types.OrderReasonExpiration,
				Message: fmt.Sprintf("contract expires on %s", bar.Time.Format("2006-01-02")),
			},
		}
	}

	ctx := strategy.BarContext{
		Bar:        bar,
		Index:      index,
		Indicators: m.indicators,
	}

	if position.IsFlat() {
		signal := m.strategy.Entry(ctx)

		switch signal.Type {
		case types.SignalTypeBuyLong:
			return Action{Kind: ActionBuy, Reason: signal.Reason}
		case types.SignalTypeSellShort:
			return Action{Kind: ActionSell, Reason: signal.Reason}
		default:
			return Action{Kind: ActionNone}
		}
	}

	if reason := m.strategy.Exit(ctx, position); reason.IsSome() {
		return Action{Kind: ActionClose, Reason: reason.Unwrap()}
	}

	return Action{Kind: ActionNone}
}

// State returns the position state of the ledger.
func (m *StateMachine) State() State {
	position := m.ledger.Position()

	switch {
	case position.IsLong():
		return StateLong
	case position.IsShort():
		return StateShort
	default:
		return StateFlat
	}
}

// AwaitingFill reports whether an order is in flight.
func (m *StateMachine) AwaitingFill() bool {
	return m.ledger.Pending().IsSome()
}

// ForcedClose reports whether the last evaluated bar was past the expiration
// cutoff.
func (m *StateMachine) ForcedClose() bool {
	return m.forcedClose
}
