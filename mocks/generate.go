package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_result_writer.go -package=mocks github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/writers ResultWriter
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-futures/internal/strategy Strategy
//go:generate mockgen -destination=./mock_indicator_registry.go -package=mocks github.com/rxtech-lab/argo-futures/internal/indicator IndicatorRegistry
