package engine

import (
	"encoding/json"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-futures/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-futures/internal/calendar"
	"github.com/rxtech-lab/argo-futures/internal/stats"
	"github.com/rxtech-lab/argo-futures/internal/strategy"
	"github.com/rxtech-lab/argo-futures/internal/version"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Names of the account parameters that may be swept next to the strategy
// parameters. A grid value overrides the scalar option of the same name.
const (
	ParamInitialCash           = "initial_cash"
	ParamCommissionPerContract = "commission_per_contract"
	ParamMarginPerContract     = "margin_per_contract"
	ParamContractMultiplier    = "contract_multiplier"
	ParamContracts             = "contracts"
	ParamMarginCostPct         = "margin_cost_pct"
	ParamCutoffHour            = "cutoff_hour"
)

var accountParameters = []string{
	ParamInitialCash,
	ParamCommissionPerContract,
	ParamMarginPerContract,
	ParamContractMultiplier,
	ParamContracts,
	ParamMarginCostPct,
	ParamCutoffHour,
}

// SweepableParameters lists every name accepted in the parameters grid.
func SweepableParameters() []string {
	names := make([]string, 0)
	for _, kind := range strategy.AllKinds {
		names = append(names, strategy.ParameterNames(kind)...)
	}

	return append(lo.Uniq(names), accountParameters...)
}

type ExpirationConfig struct {
	CutoffHour int `yaml:"cutoff_hour" json:"cutoff_hour" jsonschema:"title=Cutoff Hour,description=Hour of the expiration day from which positions are force-closed and entries are blocked,minimum=0,maximum=23" validate:"min=0,max=23"`
}

type MetricsConfig struct {
	Timeframe     stats.Timeframe `yaml:"timeframe" json:"timeframe" jsonschema:"title=Timeframe,description=Sampling of the equity curve into returns"`
	Annualization float64         `yaml:"annualization" json:"annualization" jsonschema:"title=Annualization,description=Periods per year used to annualize the Sharpe ratio,minimum=0" validate:"gt=0"`
	RiskFreeRate  float64         `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk Free Rate,description=Risk-free return per period"`
}

type BacktestEngineV1Config struct {
	Version               string                              `yaml:"version" json:"version" jsonschema:"title=Version,description=Engine version the config was written for"`
	Strategy              strategy.Kind                       `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy,description=The strategy variant to sweep" validate:"required"`
	Symbol                string                              `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Instrument symbol recorded in the sweep summary"`
	InitialCash           float64                             `yaml:"initial_cash" json:"initial_cash" jsonschema:"title=Initial Cash,description=Starting cash of every run,minimum=0" validate:"gt=0"`
	Broker                commission_fee.Broker               `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The broker to use for commission calculations"`
	CommissionPerContract float64                             `yaml:"commission_per_contract" json:"commission_per_contract" jsonschema:"title=Commission Per Contract,description=Fixed commission per contract and fill,minimum=0" validate:"gte=0"`
	MarginPerContract     float64                             `yaml:"margin_per_contract" json:"margin_per_contract" jsonschema:"title=Margin Per Contract,description=Cash required to open one contract,minimum=0" validate:"gte=0"`
	MarginCostPct         float64                             `yaml:"margin_cost_pct" json:"margin_cost_pct" jsonschema:"title=Margin Cost,description=Fraction of the margin charged once per round trip,minimum=0" validate:"gte=0"`
	ContractMultiplier    float64                             `yaml:"contract_multiplier" json:"contract_multiplier" jsonschema:"title=Contract Multiplier,description=Currency value of one index point,minimum=0" validate:"gt=0"`
	Contracts             float64                             `yaml:"contracts" json:"contracts" jsonschema:"title=Contracts,description=Order size in contracts,minimum=1" validate:"gt=0"`
	Session               optional.Option[datasource.Session] `yaml:"session" json:"session" jsonschema:"title=Session,description=Optional intraday trading window; bars outside are dropped"`
	Expiration            ExpirationConfig                    `yaml:"expiration" json:"expiration" jsonschema:"title=Expiration,description=Monthly contract expiration handling"`
	Metrics               MetricsConfig                       `yaml:"metrics" json:"metrics" jsonschema:"title=Metrics,description=Return sampling and Sharpe ratio options"`
	Workers               int                                 `yaml:"workers" json:"workers" jsonschema:"title=Workers,description=Maximum number of runs executed in parallel; 0 uses every CPU,minimum=0" validate:"gte=0"`
	RunTimeout            time.Duration                       `yaml:"run_timeout" json:"run_timeout" jsonschema:"title=Run Timeout,description=Per-run time limit such as 30s; 0 disables it" validate:"gte=0"`
	StartTime             optional.Option[time.Time]          `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time of the replayed bars"`
	EndTime               optional.Option[time.Time]          `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time of the replayed bars"`
	// StrategyParameters are fixed strategy parameters shared by every run.
	StrategyParameters map[string]float64 `yaml:"strategy_parameters" json:"strategy_parameters" jsonschema:"title=Strategy Parameters,description=Fixed strategy parameters; defaults apply to those left out"`
	Parameters         []Dimension        `yaml:"parameters" json:"parameters" jsonschema:"title=Parameters,description=The sweep grid; the first parameter varies slowest" validate:"dive"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
// Keys that are absent keep the values of DefaultConfig.
func (c *BacktestEngineV1Config) UnmarshalYAML(value *yaml.Node) error {
	type Config struct {
		Version               string                `yaml:"version"`
		Strategy              strategy.Kind         `yaml:"strategy"`
		Symbol                string                `yaml:"symbol"`
		InitialCash           float64               `yaml:"initial_cash"`
		Broker                commission_fee.Broker `yaml:"broker"`
		CommissionPerContract float64               `yaml:"commission_per_contract"`
		MarginPerContract     float64               `yaml:"margin_per_contract"`
		MarginCostPct         float64               `yaml:"margin_cost_pct"`
		ContractMultiplier    float64               `yaml:"contract_multiplier"`
		Contracts             float64               `yaml:"contracts"`
		Session               *datasource.Session   `yaml:"session"`
		Expiration            ExpirationConfig      `yaml:"expiration"`
		Metrics               MetricsConfig         `yaml:"metrics"`
		Workers               int                   `yaml:"workers"`
		RunTimeout            time.Duration         `yaml:"run_timeout"`
		StartTime             *time.Time            `yaml:"start_time"`
		EndTime               *time.Time            `yaml:"end_time"`
		StrategyParameters    map[string]float64    `yaml:"strategy_parameters"`
		Parameters            []Dimension           `yaml:"parameters"`
	}

	defaults := DefaultConfig()
	config := Config{
		Version:               defaults.Version,
		Strategy:              defaults.Strategy,
		InitialCash:           defaults.InitialCash,
		Broker:                defaults.Broker,
		CommissionPerContract: defaults.CommissionPerContract,
		MarginPerContract:     defaults.MarginPerContract,
		MarginCostPct:         defaults.MarginCostPct,
		ContractMultiplier:    defaults.ContractMultiplier,
		Contracts:             defaults.Contracts,
		Expiration:            defaults.Expiration,
		Metrics:               defaults.Metrics,
		Workers:               defaults.Workers,
		RunTimeout:            defaults.RunTimeout,
	}

	if err := value.Decode(&config); err != nil {
		return err
	}

	c.Version = config.Version
	c.Strategy = config.Strategy
	c.Symbol = config.Symbol
	c.InitialCash = config.InitialCash
	c.Broker = config.Broker
	c.CommissionPerContract = config.CommissionPerContract
	c.MarginPerContract = config.MarginPerContract
	c.MarginCostPct = config.MarginCostPct
	c.ContractMultiplier = config.ContractMultiplier
	c.Contracts = config.Contracts
	c.Expiration = config.Expiration
	c.Metrics = config.Metrics
	c.Workers = config.Workers
	c.RunTimeout = config.RunTimeout
	c.StrategyParameters = config.StrategyParameters
	c.Parameters = config.Parameters

	c.Session = optional.None[datasource.Session]()
	if config.Session != nil {
		c.Session = optional.Some(*config.Session)
	}

	c.StartTime = optional.None[time.Time]()
	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	c.EndTime = optional.None[time.Time]()
	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// ParseConfig decodes a YAML document and validates it.
func ParseConfig(content string) (BacktestEngineV1Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return BacktestEngineV1Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := config.Validate(); err != nil {
		return BacktestEngineV1Config{}, err
	}

	return config, nil
}

// Grid returns the sweep grid of the config.
func (c BacktestEngineV1Config) Grid() ParameterGrid {
	return NewParameterGrid(c.Parameters...)
}

// Validate checks the whole config, including every grid value, so that a
// bad sweep fails before any run starts.
func (c BacktestEngineV1Config) Validate() error {
	grid := c.Grid()
	if err := grid.Validate(); err != nil {
		return err
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	if c.Version != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), c.Version); err != nil {
			return err
		}
	}

	if !slices.Contains(strategy.AllKinds, c.Strategy) {
		return errors.Newf(errors.ErrCodeInvalidStrategy, "unknown strategy %q", c.Strategy)
	}

	if !slices.Contains(commission_fee.AllBrokers, any(c.Broker)) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown broker %q", c.Broker)
	}

	if c.Metrics.Timeframe != stats.TimeframeDay && c.Metrics.Timeframe != stats.TimeframeBar {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown metrics timeframe %q", c.Metrics.Timeframe)
	}

	if c.Session.IsSome() {
		if err := c.Session.Unwrap().Validate(); err != nil {
			return err
		}
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.StartTime.Unwrap().After(c.EndTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "start_time is after end_time")
	}

	known := SweepableParameters()
	strategyNames := strategy.ParameterNames(c.Strategy)

	for name := range c.StrategyParameters {
		if !slices.Contains(strategyNames, name) {
			return errors.Newf(errors.ErrCodeUnknownParameter, "strategy %s has no parameter %q", c.Strategy, name)
		}
	}

	for _, d := range grid.Dimensions {
		if !slices.Contains(known, d.Name) {
			return errors.Newf(errors.ErrCodeUnknownParameter, "unknown sweep parameter %q, expected one of %s", d.Name, strings.Join(known, ", "))
		}
	}

	base, err := c.baseSettings()
	if err != nil {
		return err
	}

	if _, err := strategy.New(c.Strategy, base.Parameters); err != nil {
		return err
	}

	// each value is checked on its own against the base settings
	for _, d := range grid.Dimensions {
		for _, v := range d.Values {
			settings := base
			settings.Parameters = cloneParameters(base.Parameters)

			if err := applyParameter(&settings, d.Name, v); err != nil {
				return err
			}

			if _, err := strategy.New(settings.Strategy, settings.Parameters); err != nil {
				return err
			}
		}
	}

	return nil
}

// Settings resolves the run settings of one grid combination.
func (c BacktestEngineV1Config) Settings(combination Combination) (RunSettings, error) {
	settings, err := c.baseSettings()
	if err != nil {
		return RunSettings{}, err
	}

	for _, pv := range combination.Values() {
		if err := applyParameter(&settings, pv.Name, pv.Value); err != nil {
			return RunSettings{}, err
		}
	}

	return settings, nil
}

func (c BacktestEngineV1Config) baseSettings() (RunSettings, error) {
	settings := RunSettings{
		Strategy:   c.Strategy,
		Parameters: strategy.Parameters{},
		Ledger: LedgerConfig{
			InitialCash:        c.InitialCash,
			Contracts:          c.Contracts,
			ContractMultiplier: c.ContractMultiplier,
			MarginPerContract:  c.MarginPerContract,
			MarginCostPct:      c.MarginCostPct,
		},
		Broker:                c.Broker,
		CommissionPerContract: c.CommissionPerContract,
		CutoffHour:            c.Expiration.CutoffHour,
		Timeframe:             c.Metrics.Timeframe,
		Metrics: stats.Options{
			Annualization: c.Metrics.Annualization,
			RiskFreeRate:  c.Metrics.RiskFreeRate,
		},
	}

	for name, value := range c.StrategyParameters {
		settings.Parameters[name] = value
	}

	return settings, nil
}

// applyParameter writes one swept value into the settings.
func applyParameter(settings *RunSettings, name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "%s must be a finite number", name)
	}

	switch name {
	case ParamInitialCash:
		if value <= 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must be greater than zero, got %v", name, value)
		}

		settings.Ledger.InitialCash = value
	case ParamCommissionPerContract:
		if value < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must not be negative, got %v", name, value)
		}

		settings.CommissionPerContract = value
	case ParamMarginPerContract:
		if value < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must not be negative, got %v", name, value)
		}

		settings.Ledger.MarginPerContract = value
	case ParamContractMultiplier:
		if value <= 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must be greater than zero, got %v", name, value)
		}

		settings.Ledger.ContractMultiplier = value
	case ParamContracts:
		if value <= 0 || value != math.Trunc(value) {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must be a positive integer, got %v", name, value)
		}

		settings.Ledger.Contracts = value
	case ParamMarginCostPct:
		if value < 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must not be negative, got %v", name, value)
		}

		settings.Ledger.MarginCostPct = value
	case ParamCutoffHour:
		if value < 0 || value > 23 || value != math.Trunc(value) {
			return errors.Newf(errors.ErrCodeInvalidParameter, "%s must be an hour between 0 and 23, got %v", name, value)
		}

		settings.CutoffHour = int(value)
	default:
		settings.Parameters[name] = value
	}

	return nil
}

func cloneParameters(params strategy.Parameters) strategy.Parameters {
	out := make(strategy.Parameters, len(params))
	for k, v := range params {
		out[k] = v
	}

	return out
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch {
			case t.String() == "optional.Option[time.Time]":
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case t == reflect.TypeOf(time.Duration(0)):
				return &jsonschema.Schema{
					Type:        "string",
					Description: "Go duration such as 30s or 2m",
				}
			case strings.Contains(t.String(), "optional.Option[") && strings.Contains(t.String(), "Session]"):
				return sessionSchema()
			case strings.Contains(t.String(), "commission_fee.Broker"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			case strings.Contains(t.String(), "strategy.Kind"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: lo.Map(strategy.AllKinds, func(k strategy.Kind, _ int) any { return k }),
				}
			case strings.Contains(t.String(), "stats.Timeframe"):
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{stats.TimeframeDay, stats.TimeframeBar},
				}
			}

			return nil
		},
	}

	// Generate schema from BacktestEngineV1Config struct
	schema := reflector.Reflect(c)

	// Set schema metadata
	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for the futures parameter sweep"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

func sessionSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}

	schema := reflector.Reflect(&datasource.Session{})
	schema.Version = ""
	schema.ID = ""

	return schema
}

// GenerateSchemaJSON generates a JSON schema string for the BacktestEngineV1Config
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// TestConfig returns a small valid config over the given grid.
func TestConfig(kind strategy.Kind, dimensions ...Dimension) BacktestEngineV1Config {
	config := DefaultConfig()
	config.Strategy = kind
	config.Symbol = "TXF"
	config.Workers = 1
	config.Parameters = dimensions

	return config
}

// DefaultConfig returns a BacktestEngineV1Config with the default contract
// terms of a TAIFEX index future.
func DefaultConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		Version:               "",
		Strategy:              strategy.KindMAVolume,
		Symbol:                "",
		InitialCash:           300000,
		Broker:                commission_fee.BrokerFutures,
		CommissionPerContract: 200,
		MarginPerContract:     167000,
		MarginCostPct:         0,
		ContractMultiplier:    200,
		Contracts:             1,
		Session:               optional.None[datasource.Session](),
		Expiration:            ExpirationConfig{CutoffHour: calendar.DefaultCutoffHour},
		Metrics: MetricsConfig{
			Timeframe:     stats.TimeframeDay,
			Annualization: stats.DefaultAnnualization,
			RiskFreeRate:  0,
		},
		Workers:            0,
		RunTimeout:         0,
		StartTime:          optional.None[time.Time](),
		EndTime:            optional.None[time.Time](),
		StrategyParameters: nil,
		Parameters:         nil,
	}
}
