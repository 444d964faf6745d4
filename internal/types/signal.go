package types

type SignalType string

const (
	SignalTypeBuyLong   SignalType = "buy_long"
	SignalTypeSellShort SignalType = "sell_short"
	// SignalTypeNoAction is also returned while indicators are still warming up
	SignalTypeNoAction SignalType = "no_action"
)

type Signal struct {
	Type   SignalType
	Reason Reason
}

// NoSignal is the zero decision of an entry rule.
func NoSignal() Signal {
	return Signal{Type: SignalTypeNoAction}
}
