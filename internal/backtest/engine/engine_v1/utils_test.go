package engine

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/stretchr/testify/suite"
)

// UtilsTestSuite is a test suite for utils package
type UtilsTestSuite struct {
	suite.Suite
}

// TestUtilsSuite runs the test suite
func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

func (suite *UtilsTestSuite) TestResultsPath() {
	suite.Equal(filepath.Join("out", "results.csv"), ResultsPath("out", ResultFormatCSV))
	suite.Equal(filepath.Join("out", "results.parquet"), ResultsPath("out", ResultFormatParquet))
	suite.Equal(filepath.Join("out", "summary.yaml"), summaryPath("out"))
}

func (suite *UtilsTestSuite) TestWorkerCount() {
	suite.Equal(runtime.NumCPU(), workerCount(0))
	suite.Equal(runtime.NumCPU(), workerCount(-3))
	suite.Equal(4, workerCount(4))
}

func (suite *UtilsTestSuite) TestBestResult() {
	tests := []struct {
		name     string
		results  []types.RunResult
		expected int
	}{
		{
			name: "highest sharpe wins",
			results: []types.RunResult{
				{Index: 0, Metrics: types.Metrics{SharpeRatio: 0.5}},
				{Index: 1, Metrics: types.Metrics{SharpeRatio: 1.5}},
				{Index: 2, Metrics: types.Metrics{SharpeRatio: -1}},
			},
			expected: 1,
		},
		{
			name: "failed rows are skipped",
			results: []types.RunResult{
				{Index: 0, Metrics: types.Metrics{SharpeRatio: 0.5}},
				{Index: 1, Error: "boom"},
			},
			expected: 0,
		},
		{
			name: "ties keep the earliest row",
			results: []types.RunResult{
				{Index: 0, Metrics: types.Metrics{SharpeRatio: 1}},
				{Index: 1, Metrics: types.Metrics{SharpeRatio: 1}},
			},
			expected: 0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			best := BestResult(tc.results)
			suite.Require().NotNil(best)
			suite.Equal(tc.expected, best.Index)
		})
	}
}

func (suite *UtilsTestSuite) TestBestResultAllFailed() {
	suite.Nil(BestResult([]types.RunResult{{Index: 0, Error: "boom"}}))
	suite.Nil(BestResult(nil))
}

func (suite *UtilsTestSuite) TestCountFailed() {
	suite.Equal(1, countFailed([]types.RunResult{{Index: 0}, {Index: 1, Error: "boom"}}))
	suite.Equal(0, countFailed(nil))
}
