package commission_fee

import "math"

type FuturesCommissionFee struct {
	perContract float64
}

func NewFuturesCommissionFee(perContract float64) CommissionFee {
	return &FuturesCommissionFee{perContract: perContract}
}

// Calculate charges the fixed fee for each contract regardless of price.
func (c *FuturesCommissionFee) Calculate(contracts float64, price float64) float64 {
	return c.perContract * math.Abs(contracts)
}
