package main

import "github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/writers"

// ResultsLoadedMsg carries the results table read from disk.
type ResultsLoadedMsg struct {
	Table writers.ResultTable
}

// ResultsErrorMsg indicates the results file could not be read.
type ResultsErrorMsg struct {
	Err error
}
