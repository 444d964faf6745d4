package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-futures/internal/types"
)

// DataGenerator generates realistic futures bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// StartTime is the time of the first bar. It should fall inside the session.
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// SessionStart and SessionEnd bound the bars of a day (e.g. 08:45 and 13:45).
	// A zero SessionEnd disables the session and bars follow each other around the clock.
	SessionStart time.Duration
	SessionEnd   time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical volatility per bar)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns 30 minute index futures bars inside a 08:45-13:45 session.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:      time.Date(2024, 1, 2, 8, 45, 0, 0, time.UTC),
		Interval:       30 * time.Minute,
		SessionStart:   8*time.Hour + 45*time.Minute,
		SessionEnd:     13*time.Hour + 45*time.Minute,
		Count:          1000,
		InitialPrice:   17000.0,
		Volatility:     0.002, // 0.2% per bar
		Trend:          0.0,   // neutral
		VolumeBase:     5000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars based on the configuration.
// The generated data follows a geometric Brownian motion model for realistic price movements.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	data := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal draw
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count) // Distribute trend across bars

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.Bar{
			Time:   currentTime,
			Open:   roundToDecimals(open, 2),
			High:   roundToDecimals(high, 2),
			Low:    roundToDecimals(low, 2),
			Close:  roundToDecimals(close, 2),
			Volume: math.Round(volume),
		}

		currentPrice = close
		currentTime = nextBarTime(currentTime, config)
	}

	return data
}

// Trending returns count bars whose close rises by step every bar with
// volume rising alongside. Used to drive trend-following entries
// deterministically.
func Trending(start time.Time, interval time.Duration, count int, price float64, step float64) []types.Bar {
	bars := make([]types.Bar, count)

	for i := 0; i < count; i++ {
		open := price + step*float64(i)
		close := open + step
		bars[i] = types.Bar{
			Time:   start.Add(time.Duration(i) * interval),
			Open:   open,
			High:   math.Max(open, close) + math.Abs(step)/2,
			Low:    math.Min(open, close) - math.Abs(step)/2,
			Close:  close,
			Volume: 1000 + 10*float64(i),
		}
	}

	return bars
}

// Generate10K is a convenience function to generate 10,000 bars
// with default settings for benchmarking.
func Generate10K() []types.Bar {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 10000

	return gen.Generate(config)
}

// nextBarTime advances one interval, rolling over to the next weekday's
// session open once the session end is passed.
func nextBarTime(current time.Time, config GeneratorConfig) time.Time {
	next := current.Add(config.Interval)
	if config.SessionEnd == 0 {
		return next
	}

	midnight := time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
	if next.Sub(midnight) <= config.SessionEnd && next.Day() == current.Day() {
		return next
	}

	day := time.Date(current.Year(), current.Month(), current.Day()+1, 0, 0, 0, 0, current.Location())
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}

	return day.Add(config.SessionStart)
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
