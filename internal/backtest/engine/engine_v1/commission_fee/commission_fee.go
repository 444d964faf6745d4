package commission_fee

type CommissionFee interface {
	// Calculate returns the commission for one fill of the given number of
	// contracts at price. Contracts may be signed; the sign is ignored.
	Calculate(contracts float64, price float64) float64
}

type Broker string

const (
	// BrokerFutures charges a fixed fee per contract on every fill.
	BrokerFutures Broker = "futures"
	BrokerZero    Broker = "zero_commission"
)

var AllBrokers = []any{
	BrokerFutures,
	BrokerZero,
}

// GetCommissionFeeHandler returns the commission model of a broker.
// perContract is only used by BrokerFutures.
func GetCommissionFeeHandler(broker Broker, perContract float64) CommissionFee {
	switch broker {
	case BrokerFutures:
		return NewFuturesCommissionFee(perContract)
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
