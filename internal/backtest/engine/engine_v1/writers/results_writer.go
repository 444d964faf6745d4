package writers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/samber/lo"
)

// DuckDBResultWriter keeps result rows in an in-memory DuckDB table and
// exports them as CSV or Parquet, chosen by the output file extension.
type DuckDBResultWriter struct {
	db             *sql.DB
	sq             squirrel.StatementBuilderType
	outputPath     string
	parameterNames []string
	mu             sync.Mutex
}

// NewDuckDBResultWriter creates a writer exporting to outputPath.
func NewDuckDBResultWriter(outputPath string) *DuckDBResultWriter {
	return &DuckDBResultWriter{
		db:             nil,
		sq:             squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		outputPath:     outputPath,
		parameterNames: nil,
		mu:             sync.Mutex{},
	}
}

// Initialize sets up the results table with DuckDB.
func (w *DuckDBResultWriter) Initialize(parameterNames []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := exportFormat(w.outputPath); err != nil {
		return err
	}

	if duplicates := lo.FindDuplicates(parameterNames); len(duplicates) > 0 {
		return errors.Newf(errors.ErrCodeInvalidGrid, "duplicate parameter columns: %s", strings.Join(duplicates, ", "))
	}

	dir := filepath.Dir(w.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create results directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open DuckDB connection", err)
	}

	columns := []string{quote(IndexColumn) + " INTEGER PRIMARY KEY"}
	for _, name := range parameterNames {
		columns = append(columns, quote(name)+" DOUBLE")
	}

	columns = append(columns,
		"cum_return DOUBLE",
		"sharpe_ratio DOUBLE",
		"max_drawdown DOUBLE",
		"number_of_trades INTEGER",
		"winning_trades INTEGER",
		"net_pnl DOUBLE",
		"total_fees DOUBLE",
		"final_equity DOUBLE",
		"error TEXT",
	)

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE results (%s)", strings.Join(columns, ", "))); err != nil {
		db.Close()

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create results table", err)
	}

	w.db = db
	w.parameterNames = parameterNames

	return nil
}

// Write inserts one result row.
func (w *DuckDBResultWriter) Write(result types.RunResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	columns := []string{quote(IndexColumn)}
	values := []any{result.Index}

	for _, name := range w.parameterNames {
		value, ok := result.Parameter(name)
		if !ok {
			return errors.Newf(errors.ErrCodeResultWriteFailed, "row %d has no value for parameter %s", result.Index, name)
		}

		columns = append(columns, quote(name))
		values = append(values, value)
	}

	columns = append(columns, MetricColumns...)
	values = append(values,
		result.Metrics.CumulativeReturn,
		result.Metrics.SharpeRatio,
		result.Metrics.MaxDrawdown,
		result.NumberOfTrades,
		result.WinningTrades,
		result.NetPnL,
		result.TotalFees,
		result.FinalEquity,
		result.Error,
	)

	query, args, err := w.sq.Insert("results").Columns(columns...).Values(values...).ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to build insert", err)
	}

	if _, err := w.db.Exec(query, args...); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to insert row %d", result.Index)
	}

	return nil
}

// Count returns the number of rows stored.
func (w *DuckDBResultWriter) Count() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return 0, errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	var count int
	if err := w.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to count results", err)
	}

	return count, nil
}

// Flush exports the current rows without closing the writer.
func (w *DuckDBResultWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	return w.export()
}

// Close exports the rows and releases database resources.
func (w *DuckDBResultWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.db == nil {
		return nil
	}

	exportErr := w.export()

	if err := w.db.Close(); err != nil && exportErr == nil {
		exportErr = errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to close database", err)
	}

	w.db = nil

	return exportErr
}

func (w *DuckDBResultWriter) OutputPath() string {
	return w.outputPath
}

func (w *DuckDBResultWriter) export() error {
	format, err := exportFormat(w.outputPath)
	if err != nil {
		return err
	}

	_, err = w.db.Exec(fmt.Sprintf(`
		COPY (SELECT * FROM results ORDER BY %s ASC)
		TO '%s' (%s)
	`, quote(IndexColumn), strings.ReplaceAll(w.outputPath, "'", "''"), format))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to export results to %s", w.outputPath)
	}

	return nil
}

func exportFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "FORMAT CSV, HEADER", nil
	case ".parquet":
		return "FORMAT PARQUET", nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedDataFormat, "unsupported results file %s, expected .csv or .parquet", path)
	}
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
