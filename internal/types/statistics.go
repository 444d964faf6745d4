package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Metrics are the aggregate risk/return figures of one run.
type Metrics struct {
	// Compounded product of (1+r) minus one.
	CumulativeReturn float64 `yaml:"cum_return" json:"cum_return"`
	// Annualized mean excess return over its standard deviation.
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// Minimum of equity / running peak - 1. Zero or negative.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
}

type ParameterValue struct {
	Name  string  `yaml:"name" json:"name"`
	Value float64 `yaml:"value" json:"value"`
}

// RunResult is one row of the sweep result table.
type RunResult struct {
	// Index is the position of the combination in enumeration order.
	Index          int              `yaml:"index" json:"index"`
	Parameters     []ParameterValue `yaml:"parameters" json:"parameters"`
	Metrics        Metrics          `yaml:"metrics" json:"metrics"`
	NumberOfTrades int              `yaml:"number_of_trades" json:"number_of_trades"`
	WinningTrades  int              `yaml:"winning_trades" json:"winning_trades"`
	NetPnL         float64          `yaml:"net_pnl" json:"net_pnl"`
	TotalFees      float64          `yaml:"total_fees" json:"total_fees"`
	FinalEquity    float64          `yaml:"final_equity" json:"final_equity"`
	// Error is set when the run failed; metrics are zero in that case.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Failed reports whether the run ended in an error row.
func (r RunResult) Failed() bool {
	return r.Error != ""
}

// Parameter returns the value used for the named parameter.
func (r RunResult) Parameter(name string) (float64, bool) {
	for _, p := range r.Parameters {
		if p.Name == name {
			return p.Value, true
		}
	}

	return 0, false
}

// SweepSummary describes a finished sweep.
type SweepSummary struct {
	// ID is the unique identifier for this sweep.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this sweep was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Strategy  string    `yaml:"strategy" json:"strategy"`
	Symbol    string    `yaml:"symbol" json:"symbol"`
	// Bars is the number of bars replayed per run.
	Bars         int    `yaml:"bars" json:"bars"`
	Combinations int    `yaml:"combinations" json:"combinations"`
	Failed       int    `yaml:"failed" json:"failed"`
	DataPath     string `yaml:"data_path" json:"data_path"`
	ResultsPath  string `yaml:"results_path" json:"results_path"`
	// Best is the successful row with the highest Sharpe ratio, if any.
	Best *RunResult `yaml:"best,omitempty" json:"best,omitempty"`
	// EngineVersion is the version of the engine that produced the sweep.
	EngineVersion string `yaml:"engine_version" json:"engine_version"`
}

func WriteSweepSummary(path string, summary SweepSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal sweep summary to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write sweep summary to file: %w", err)
	}

	return nil
}
