// Package stats turns the equity curve of a run into return series and the
// aggregate metrics reported for every sweep row.
package stats

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/samber/lo"
)

// DefaultAnnualization is the number of trading days per year.
const DefaultAnnualization = 252.0

// Timeframe selects how an equity curve is sampled into returns.
type Timeframe string

const (
	// TimeframeDay keeps the last equity of every calendar date.
	TimeframeDay Timeframe = "day"
	// TimeframeBar uses every bar's equity.
	TimeframeBar Timeframe = "bar"
)

type Options struct {
	// Annualization scales the per-period Sharpe ratio by its square root.
	Annualization float64 `yaml:"annualization" json:"annualization"`
	// RiskFreeRate is the risk-free return per period.
	RiskFreeRate float64 `yaml:"risk_free_rate" json:"risk_free_rate"`
}

func DefaultOptions() Options {
	return Options{
		Annualization: DefaultAnnualization,
		RiskFreeRate:  0,
	}
}

// Aggregate computes the run metrics of a return series. An empty series
// yields zero for every metric.
func Aggregate(returns []float64, opts Options) types.Metrics {
	return types.Metrics{
		CumulativeReturn: CumulativeReturn(returns),
		SharpeRatio:      SharpeRatio(returns, opts),
		MaxDrawdown:      MaxDrawdown(CompoundedEquity(returns)),
	}
}

// CumulativeReturn is the compounded product of (1+r) minus one.
func CumulativeReturn(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}

	return growth - 1
}

// SharpeRatio is the mean excess return over its sample standard deviation,
// scaled by the square root of the annualization factor. Fewer than two
// samples or a zero deviation yield 0.
func SharpeRatio(returns []float64, opts Options) float64 {
	if len(returns) < 2 {
		return 0
	}

	excess := lo.Map(returns, func(r float64, _ int) float64 {
		return r - opts.RiskFreeRate
	})

	mean := lo.Sum(excess) / float64(len(excess))

	variance := 0.0
	for _, r := range excess {
		variance += (r - mean) * (r - mean)
	}

	std := math.Sqrt(variance / float64(len(excess)-1))
	if std == 0 || math.IsNaN(std) {
		return 0
	}

	annualization := opts.Annualization
	if annualization <= 0 {
		annualization = DefaultAnnualization
	}

	return mean / std * math.Sqrt(annualization)
}

// CompoundedEquity turns returns into an equity curve that starts at 1. The
// starting point is included so a loss on the first period counts as drawdown.
func CompoundedEquity(returns []float64) []float64 {
	equity := make([]float64, 0, len(returns)+1)
	equity = append(equity, 1)

	current := 1.0
	for _, r := range returns {
		current *= 1 + r
		equity = append(equity, current)
	}

	return equity
}

// MaxDrawdown returns the minimum of equity / running peak - 1. It is 0 for an
// empty or non-decreasing series and never positive.
func MaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	peak := equity[0]
	drawdown := 0.0

	for _, e := range equity {
		if e > peak {
			peak = e
		}

		if peak <= 0 {
			continue
		}

		if dd := e/peak - 1; dd < drawdown {
			drawdown = dd
		}
	}

	return drawdown
}

// ReturnsFromEquity converts equity samples into per-period returns. The
// first period is measured against initial. With TimeframeDay only the last
// sample of each calendar date is used.
func ReturnsFromEquity(samples []types.EquitySample, initial float64, timeframe Timeframe) []float64 {
	if len(samples) == 0 {
		return []float64{}
	}

	points := samples
	if timeframe != TimeframeBar {
		points = lastPerDay(samples)
	}

	returns := make([]float64, 0, len(points))
	previous := initial

	for _, sample := range points {
		if previous == 0 {
			returns = append(returns, 0)
		} else {
			returns = append(returns, sample.Equity/previous-1)
		}

		previous = sample.Equity
	}

	return returns
}

func lastPerDay(samples []types.EquitySample) []types.EquitySample {
	days := make([]types.EquitySample, 0)

	var currentDay time.Time

	for _, sample := range samples {
		y, m, d := sample.Time.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, sample.Time.Location())

		if len(days) > 0 && day.Equal(currentDay) {
			days[len(days)-1] = sample

			continue
		}

		days = append(days, sample)
		currentDay = day
	}

	return days
}
