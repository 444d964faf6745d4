package types

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-futures/pkg/errors"
)

// Bar is one OHLCV observation. Bars are read-only once loaded and are shared
// by every run of a sweep.
type Bar struct {
	Time   time.Time `csv:"time" yaml:"time" json:"time"`
	Open   float64   `csv:"open" yaml:"open" json:"open"`
	High   float64   `csv:"high" yaml:"high" json:"high"`
	Low    float64   `csv:"low" yaml:"low" json:"low"`
	Close  float64   `csv:"close" yaml:"close" json:"close"`
	Volume float64   `csv:"volume" yaml:"volume" json:"volume"`
}

// Validate rejects bars with missing timestamps or non-finite/negative values.
func (b Bar) Validate() error {
	if b.Time.IsZero() {
		return errors.New(errors.ErrCodeMalformedBar, "bar has no timestamp")
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"open", b.Open},
		{"high", b.High},
		{"low", b.Low},
		{"close", b.Close},
		{"volume", b.Volume},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.Newf(errors.ErrCodeMalformedBar, "bar at %s has non-finite %s", b.Time.Format(time.RFC3339), f.name)
		}

		if f.value < 0 {
			return errors.Newf(errors.ErrCodeMalformedBar, "bar at %s has negative %s: %f", b.Time.Format(time.RFC3339), f.name, f.value)
		}
	}

	return nil
}

// ValidateBars checks that a bar sequence is non-empty, well formed and
// ordered by non-decreasing time.
func ValidateBars(bars []Bar) error {
	if len(bars) == 0 {
		return errors.New(errors.ErrCodeEmptyBars, "bar sequence is empty")
	}

	for i, bar := range bars {
		if err := bar.Validate(); err != nil {
			return err
		}

		if i > 0 && bar.Time.Before(bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeUnorderedBars, "bar %d at %s is earlier than bar %d at %s",
				i, bar.Time.Format(time.RFC3339), i-1, bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}
