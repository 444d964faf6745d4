package writers

import "github.com/rxtech-lab/argo-futures/internal/types"

// ResultWriter persists the sweep result table.
type ResultWriter interface {
	// Initialize prepares the table for the given sweep parameter columns.
	Initialize(parameterNames []string) error
	// Write stores one result row. Rows may arrive in any order.
	Write(result types.RunResult) error
	// Close exports the rows ordered by combination index and releases resources.
	Close() error
	// OutputPath returns the file the results are exported to.
	OutputPath() string
}

// Fixed columns that follow the parameter columns of every row.
var MetricColumns = []string{
	"cum_return",
	"sharpe_ratio",
	"max_drawdown",
	"number_of_trades",
	"winning_trades",
	"net_pnl",
	"total_fees",
	"final_equity",
	"error",
}

// IndexColumn holds the enumeration index of a row.
const IndexColumn = "run_index"
