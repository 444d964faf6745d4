package engine

import (
	"context"

	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-futures/internal/types"
)

// Lifecycle callback types for sweep phases
// Callbacks with an error return abort the sweep if they return an error

// OnSweepStartCallback is called once the bars are loaded and the grid is known.
type OnSweepStartCallback func(totalRuns int, totalBars int) error

// OnSweepEndCallback is called when the sweep completes (always called via defer).
type OnSweepEndCallback func(err error)

// OnRunStartCallback is called before a combination is simulated. Runs may
// start concurrently; the callback must be safe for concurrent use.
type OnRunStartCallback func(index int, parameters []types.ParameterValue)

// OnRunEndCallback is called after a combination finished, failed runs included.
// It is never called concurrently.
type OnRunEndCallback func(index int, result types.RunResult)

// LifecycleCallbacks holds all lifecycle callback functions for the sweep engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnSweepStart *OnSweepStartCallback
	OnSweepEnd   *OnSweepEndCallback
	OnRunStart   *OnRunStartCallback
	OnRunEnd     *OnRunEndCallback
}

//nolint:interfacebloat // Engine is a core interface that naturally requires multiple methods
type Engine interface {
	// Initialize the engine with the given YAML configuration. The config is
	// validated in full, grid included, before any run is possible.
	Initialize(config string) error
	// SetDataPath sets the path to the bar file (csv or parquet).
	SetDataPath(path string) error
	// SetResultsFolder sets the output directory for the result table and the sweep summary.
	SetResultsFolder(folder string) error
	// SetDataSource sets the data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// SetResultWriter overrides the result writer created from the results folder.
	SetResultWriter(writer writers.ResultWriter) error
	// Run loads the bars once and simulates every combination of the grid.
	// Rows are returned in enumeration order. A cancelled context stops the
	// sweep between runs and the rows finished so far are returned with the error.
	Run(ctx context.Context, callbacks LifecycleCallbacks) ([]types.RunResult, error)
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
}
