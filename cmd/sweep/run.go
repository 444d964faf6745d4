package main

import (
	"context"
	"fmt"
	"os"

	engine_types "github.com/rxtech-lab/argo-futures/internal/backtest/engine"
	engine "github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/writers"
	"github.com/rxtech-lab/argo-futures/internal/logger"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// runOptions are the flags of the run command.
type runOptions struct {
	ConfigPath string
	DataPath   string
	Output     string
	Format     engine.ResultFormat
	Workers    int
	LogLevel   string
	Progress   bool
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	return runSweep(ctx, runOptions{
		ConfigPath: cmd.String("config"),
		DataPath:   cmd.String("data"),
		Output:     cmd.String("output"),
		Format:     engine.ResultFormat(cmd.String("format")),
		Workers:    int(cmd.Int("workers")),
		LogLevel:   cmd.String("log-level"),
		Progress:   !cmd.Bool("no-progress"),
	})
}

// loadConfig reads the config file and applies the command line overrides.
func loadConfig(options runOptions) (engine.BacktestEngineV1Config, error) {
	content, err := os.ReadFile(options.ConfigPath)
	if err != nil {
		return engine.BacktestEngineV1Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	config, err := engine.ParseConfig(string(content))
	if err != nil {
		return engine.BacktestEngineV1Config{}, err
	}

	if options.Workers > 0 {
		config.Workers = options.Workers
	}

	return config, nil
}

func runSweep(ctx context.Context, options runOptions) error {
	if options.Format != engine.ResultFormatCSV && options.Format != engine.ResultFormatParquet {
		return fmt.Errorf("unsupported results format %q", options.Format)
	}

	log, err := logger.NewLoggerWithLevel(options.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	config, err := loadConfig(options)
	if err != nil {
		return err
	}

	sweep := engine.NewBacktestEngineV1(log).(*engine.BacktestEngineV1)
	if err := sweep.InitializeWithConfig(config); err != nil {
		return err
	}

	ds, err := datasource.NewDataSource(":memory:", config.Session, log)
	if err != nil {
		return err
	}
	defer ds.Close()

	if err := sweep.SetDataPath(options.DataPath); err != nil {
		return err
	}

	if err := sweep.SetDataSource(ds); err != nil {
		return err
	}

	if err := sweep.SetResultsFolder(options.Output); err != nil {
		return err
	}

	if err := sweep.SetResultWriter(writers.NewDuckDBResultWriter(engine.ResultsPath(options.Output, options.Format))); err != nil {
		return err
	}

	results, err := sweep.Run(ctx, progressCallbacks(options.Progress))
	if err != nil {
		return err
	}

	logBest(log, results)

	return nil
}

// progressCallbacks advances a progress bar once per finished run.
func progressCallbacks(enabled bool) engine_types.LifecycleCallbacks {
	if !enabled {
		return engine_types.LifecycleCallbacks{}
	}

	var bar *progressbar.ProgressBar

	onSweepStart := engine_types.OnSweepStartCallback(func(totalRuns int, totalBars int) error {
		bar = progressbar.NewOptions(totalRuns,
			progressbar.OptionSetDescription(fmt.Sprintf("Sweeping %d bars", totalBars)),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(os.Stderr),
		)

		return nil
	})
	onRunEnd := engine_types.OnRunEndCallback(func(index int, result types.RunResult) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	onSweepEnd := engine_types.OnSweepEndCallback(func(err error) {
		if bar != nil && err == nil {
			_ = bar.Finish()
		}
	})

	return engine_types.LifecycleCallbacks{
		OnSweepStart: &onSweepStart,
		OnRunEnd:     &onRunEnd,
		OnSweepEnd:   &onSweepEnd,
	}
}

func logBest(log *logger.Logger, results []types.RunResult) {
	best := engine.BestResult(results)
	if best == nil {
		log.Warn("No successful run", zap.Int("runs", len(results)))

		return
	}

	fields := []zap.Field{
		zap.Int("index", best.Index),
		zap.Float64("sharpe_ratio", best.Metrics.SharpeRatio),
		zap.Float64("cum_return", best.Metrics.CumulativeReturn),
		zap.Float64("max_drawdown", best.Metrics.MaxDrawdown),
	}

	for _, parameter := range best.Parameters {
		fields = append(fields, zap.Float64(parameter.Name, parameter.Value))
	}

	log.Info("Best combination", fields...)
}
