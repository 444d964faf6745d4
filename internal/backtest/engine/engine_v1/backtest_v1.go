package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-futures/internal/logger"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/internal/version"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type simulateFunc func(ctx context.Context, bars []types.Bar, settings RunSettings, log *logger.Logger) (RunOutcome, error)

type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	initialized   bool
	dataPath      string
	resultsFolder string
	log           *logger.Logger
	datasource    datasource.DataSource
	writer        writers.ResultWriter
	simulate      simulateFunc
}

// NewBacktestEngineV1 creates a sweep engine. A nil logger discards all logs.
func NewBacktestEngineV1(log *logger.Logger) engine.Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config:        DefaultConfig(),
		initialized:   false,
		dataPath:      "",
		resultsFolder: "",
		log:           log,
		datasource:    nil,
		writer:        nil,
		simulate:      Simulate,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed, err := ParseConfig(config)
	if err != nil {
		b.log.Error("Invalid sweep config", zap.Error(err))

		return err
	}

	return b.InitializeWithConfig(parsed)
}

// InitializeWithConfig initializes the engine from an already parsed config,
// e.g. one whose fields were overridden from the command line.
func (b *BacktestEngineV1) InitializeWithConfig(config BacktestEngineV1Config) error {
	if err := config.Validate(); err != nil {
		b.log.Error("Invalid sweep config", zap.Error(err))

		return err
	}

	b.config = config
	b.initialized = true

	b.log.Debug("Sweep engine initialized",
		zap.String("strategy", string(b.config.Strategy)),
		zap.Strings("parameters", b.config.Grid().Names()),
		zap.Int("combinations", b.config.Grid().Size()),
	)

	return nil
}

// SetDataPath implements engine.Engine.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to resolve data path", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "data file %s is not readable", absPath)
	}

	b.dataPath = absPath

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.DataSource) error {
	b.datasource = dataSource

	return nil
}

// SetResultWriter implements engine.Engine.
func (b *BacktestEngineV1) SetResultWriter(writer writers.ResultWriter) error {
	b.writer = writer

	return nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to generate schema", err)
	}

	return schema, nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (results []types.RunResult, err error) {
	defer func() {
		if callbacks.OnSweepEnd != nil {
			(*callbacks.OnSweepEnd)(err)
		}
	}()

	if err := b.preRunCheck(); err != nil {
		return nil, err
	}

	if err := b.datasource.Initialize(b.dataPath); err != nil {
		return nil, err
	}

	bars, err := datasource.LoadBars(b.datasource, b.config.StartTime, b.config.EndTime)
	if err != nil {
		b.log.Error("Failed to load bars", zap.String("data", b.dataPath), zap.Error(err))

		return nil, err
	}

	grid := b.config.Grid()
	total := grid.Size()

	b.log.Info("Sweep started",
		zap.String("strategy", string(b.config.Strategy)),
		zap.Int("bars", len(bars)),
		zap.Int("combinations", total),
		zap.Int("workers", workerCount(b.config.Workers)),
	)

	if callbacks.OnSweepStart != nil {
		if err := (*callbacks.OnSweepStart)(total, len(bars)); err != nil {
			return nil, err
		}
	}

	writer, err := b.resultWriter()
	if err != nil {
		return nil, err
	}

	if err := writer.Initialize(grid.Names()); err != nil {
		return nil, err
	}

	rows := make([]types.RunResult, total)
	completed := make([]bool, total)

	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workerCount(b.config.Workers))

	// started runs see only their own timeout, never the sweep cancellation
	runCtx := context.WithoutCancel(ctx)

	for index, combination := range grid.Enumerate() {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}

			if callbacks.OnRunStart != nil {
				(*callbacks.OnRunStart)(index, combination.Values())
			}

			row := b.runCombination(runCtx, index, combination, bars)

			mu.Lock()
			defer mu.Unlock()

			rows[index] = row
			completed[index] = true

			if err := writer.Write(row); err != nil {
				return err
			}

			if callbacks.OnRunEnd != nil {
				(*callbacks.OnRunEnd)(index, row)
			}

			return nil
		})
	}

	waitErr := group.Wait()

	results = make([]types.RunResult, 0, total)
	for i, row := range rows {
		if completed[i] {
			results = append(results, row)
		}
	}

	if waitErr != nil {
		_ = writer.Close()

		return results, waitErr
	}

	if err := writer.Close(); err != nil {
		return results, err
	}

	if ctx.Err() != nil && len(results) < total {
		b.log.Warn("Sweep cancelled",
			zap.Int("completed", len(results)),
			zap.Int("combinations", total),
		)

		return results, errors.Wrapf(errors.ErrCodeSweepCancelled, ctx.Err(), "sweep cancelled after %d of %d runs", len(results), total)
	}

	if err := b.writeSummary(results, len(bars), total, writer.OutputPath()); err != nil {
		return results, err
	}

	b.log.Info("Sweep finished",
		zap.Int("combinations", total),
		zap.Int("failed", countFailed(results)),
		zap.String("results", writer.OutputPath()),
	)

	return results, nil
}

// runCombination simulates one grid point. Failures, timeouts and panics
// become rows with Error set.
func (b *BacktestEngineV1) runCombination(ctx context.Context, index int, combination Combination, bars []types.Bar) (row types.RunResult) {
	row = types.RunResult{
		Index:      index,
		Parameters: combination.Values(),
	}

	defer func() {
		if r := recover(); r != nil {
			err := errors.Newf(errors.ErrCodeRunFailed, "run %d panicked: %v", index, r)
			b.log.Warn("Run failed",
				zap.Int("index", index),
				zap.String("parameters", combination.String()),
				zap.Error(err),
			)

			row = failedRow(index, combination, err)
		}
	}()

	settings, err := b.config.Settings(combination)
	if err != nil {
		return failedRow(index, combination, errors.Wrapf(errors.ErrCodeRunFailed, err, "run %d failed", index))
	}

	runCtx := ctx

	if b.config.RunTimeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, b.config.RunTimeout)
		defer cancel()
	}

	outcome, err := b.simulate(runCtx, bars, settings, b.log)
	if err != nil {
		if !errors.HasCode(err, errors.ErrCodeRunTimeout) {
			err = errors.Wrapf(errors.ErrCodeRunFailed, err, "run %d failed", index)
		}

		b.log.Warn("Run failed",
			zap.Int("index", index),
			zap.String("parameters", combination.String()),
			zap.Error(err),
		)

		return failedRow(index, combination, err)
	}

	row.Metrics = outcome.Metrics
	row.NumberOfTrades = len(outcome.Trades)
	row.WinningTrades = outcome.WinningTrades()
	row.NetPnL = outcome.NetPnL()
	row.TotalFees = outcome.TotalFees
	row.FinalEquity = outcome.FinalEquity

	return row
}

func (b *BacktestEngineV1) resultWriter() (writers.ResultWriter, error) {
	if b.writer != nil {
		return b.writer, nil
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create results folder", err)
	}

	b.writer = writers.NewDuckDBResultWriter(ResultsPath(b.resultsFolder, ResultFormatCSV))

	return b.writer, nil
}

func (b *BacktestEngineV1) writeSummary(results []types.RunResult, bars int, total int, output string) error {
	if b.resultsFolder == "" {
		return nil
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create results folder", err)
	}

	summary := types.SweepSummary{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		Strategy:      string(b.config.Strategy),
		Symbol:        b.config.Symbol,
		Bars:          bars,
		Combinations:  total,
		Failed:        countFailed(results),
		DataPath:      b.dataPath,
		ResultsPath:   output,
		Best:          BestResult(results),
		EngineVersion: version.GetVersion(),
	}

	if err := types.WriteSweepSummary(summaryPath(b.resultsFolder), summary); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write sweep summary", err)
	}

	return nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		b.log.Error("Engine not initialized")

		return errors.New(errors.ErrCodeSweepNotReady, "engine is not initialized")
	}

	if b.datasource == nil {
		b.log.Error("No datasource set")

		return errors.New(errors.ErrCodeNoDatasource, "no datasource set")
	}

	if b.resultsFolder == "" && b.writer == nil {
		b.log.Error("No results folder set")

		return errors.New(errors.ErrCodeNoResultsFolder, "no results folder set")
	}

	return nil
}

func failedRow(index int, combination Combination, err error) types.RunResult {
	return types.RunResult{
		Index:      index,
		Parameters: combination.Values(),
		Error:      err.Error(),
	}
}
