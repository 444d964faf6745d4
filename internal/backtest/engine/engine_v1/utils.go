package engine

import (
	"path/filepath"
	"runtime"

	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/samber/lo"
)

type ResultFormat string

const (
	ResultFormatCSV     ResultFormat = "csv"
	ResultFormatParquet ResultFormat = "parquet"
)

const (
	resultsFileName = "results"
	summaryFileName = "summary.yaml"
)

// ResultsPath returns the result table file inside the results folder.
func ResultsPath(folder string, format ResultFormat) string {
	return filepath.Join(folder, resultsFileName+"."+string(format))
}

func summaryPath(folder string) string {
	return filepath.Join(folder, summaryFileName)
}

// workerCount resolves the configured worker count; zero means one per CPU.
func workerCount(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}

	return workers
}

func countFailed(results []types.RunResult) int {
	return lo.CountBy(results, func(r types.RunResult) bool {
		return r.Failed()
	})
}

// BestResult returns the successful row with the highest Sharpe ratio. Ties
// keep the earliest row.
func BestResult(results []types.RunResult) *types.RunResult {
	succeeded := lo.Filter(results, func(r types.RunResult, _ int) bool {
		return !r.Failed()
	})

	if len(succeeded) == 0 {
		return nil
	}

	best := lo.MaxBy(succeeded, func(a types.RunResult, b types.RunResult) bool {
		return a.Metrics.SharpeRatio > b.Metrics.SharpeRatio
	})

	return &best
}
