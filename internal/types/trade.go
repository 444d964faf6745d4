package types

import (
	"time"
)

// Position is the open exposure of a run. Size is in contracts: positive is
// long, negative is short and zero is flat.
type Position struct {
	Size          float64   `yaml:"size" json:"size" csv:"size"`
	EntryPrice    float64   `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	EntryBarIndex int       `yaml:"entry_bar_index" json:"entry_bar_index" csv:"entry_bar_index"`
	EntryTime     time.Time `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	// EntryCommission is the commission already paid to open the position.
	EntryCommission float64 `yaml:"entry_commission" json:"entry_commission" csv:"entry_commission"`
}

func (p Position) IsFlat() bool {
	return p.Size == 0
}

func (p Position) IsLong() bool {
	return p.Size > 0
}

func (p Position) IsShort() bool {
	return p.Size < 0
}

// Type returns the position direction. Only meaningful when not flat.
func (p Position) Type() PositionType {
	if p.Size < 0 {
		return PositionTypeShort
	}

	return PositionTypeLong
}

// Trade is a closed round trip.
type Trade struct {
	EntryPrice    float64      `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice     float64      `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	Size          float64      `yaml:"size" json:"size" csv:"size"`
	PositionType  PositionType `yaml:"position_type" json:"position_type" csv:"position_type"`
	EntryTime     time.Time    `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	ExitTime      time.Time    `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	EntryBarIndex int          `yaml:"entry_bar_index" json:"entry_bar_index" csv:"entry_bar_index"`
	ExitBarIndex  int          `yaml:"exit_bar_index" json:"exit_bar_index" csv:"exit_bar_index"`
	// GrossPnL is size * (exit - entry) * contract multiplier.
	GrossPnL float64 `yaml:"gross_pnl" json:"gross_pnl" csv:"gross_pnl"`
	// Commission covers both legs plus the margin carrying cost.
	Commission float64 `yaml:"commission" json:"commission" csv:"commission"`
	NetPnL     float64 `yaml:"net_pnl" json:"net_pnl" csv:"net_pnl"`
	Reason     Reason  `yaml:"reason" json:"reason" csv:"reason"`
}

// HoldingBars returns the number of bars the position was open.
func (t Trade) HoldingBars() int {
	return t.ExitBarIndex - t.EntryBarIndex
}

// EquitySample is the net worth of a run at the close of one bar.
type EquitySample struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Equity float64   `yaml:"equity" json:"equity" csv:"equity"`
}
