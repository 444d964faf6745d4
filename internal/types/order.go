package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
)

type Side string

type OrderStatus string

type PositionType string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusFilled  OrderStatus = "FILLED"
)

const (
	PositionTypeLong  PositionType = "LONG"
	PositionTypeShort PositionType = "SHORT"
)

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	// SideClose flattens whatever position is open.
	SideClose Side = "CLOSE"
)

const (
	OrderReasonEntryLong   string = "entry_long"
	OrderReasonEntryShort  string = "entry_short"
	OrderReasonTakeProfit  string = "take_profit"
	OrderReasonStopLoss    string = "stop_loss"
	OrderReasonChannelExit string = "channel_exit"
	OrderReasonExpiration  string = "expiration"
)

type Reason struct {
	Reason  string `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
	Message string `yaml:"message" json:"message" csv:"message"`
}

// PendingOrder is the single order a strategy instance may have in flight.
type PendingOrder struct {
	ID           string      `yaml:"id" json:"id" csv:"id" validate:"required,uuid"`
	Side         Side        `yaml:"side" json:"side" csv:"side" validate:"required,oneof=BUY SELL CLOSE"`
	Quantity     float64     `yaml:"quantity" json:"quantity" csv:"quantity" validate:"gt=0"`
	CreatedAtBar int         `yaml:"created_at_bar" json:"created_at_bar" csv:"created_at_bar" validate:"gte=0"`
	CreatedAt    time.Time   `yaml:"created_at" json:"created_at" csv:"created_at"`
	Status       OrderStatus `yaml:"status" json:"status" csv:"status"`
	Reason       Reason      `yaml:"reason" json:"reason" csv:"reason" validate:"required"`
}

// Fill records how a pending order was executed.
type Fill struct {
	OrderID    string    `yaml:"order_id" json:"order_id" csv:"order_id"`
	Side       Side      `yaml:"side" json:"side" csv:"side"`
	Price      float64   `yaml:"price" json:"price" csv:"price"`
	Quantity   float64   `yaml:"quantity" json:"quantity" csv:"quantity"`
	Time       time.Time `yaml:"time" json:"time" csv:"time"`
	BarIndex   int       `yaml:"bar_index" json:"bar_index" csv:"bar_index"`
	Commission float64   `yaml:"commission" json:"commission" csv:"commission"`
}

// Validate validates the PendingOrder struct.
func (o *PendingOrder) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, "invalid order", err)
	}

	return nil
}
