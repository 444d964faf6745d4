package writers

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
)

// ResultTable is an exported result file read back as text cells.
type ResultTable struct {
	Columns []string
	Rows    [][]string
}

// ReadResultTable loads a CSV or Parquet result file through DuckDB.
func ReadResultTable(path string) (ResultTable, error) {
	var reader string

	escaped := strings.ReplaceAll(path, "'", "''")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader = fmt.Sprintf("read_csv_auto('%s', header=true)", escaped)
	case ".parquet":
		reader = fmt.Sprintf("read_parquet('%s')", escaped)
	default:
		return ResultTable{}, errors.Newf(errors.ErrCodeUnsupportedDataFormat, "unsupported results file %s", path)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return ResultTable{}, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %s", reader))
	if err != nil {
		return ResultTable{}, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read %s", path)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return ResultTable{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read columns", err)
	}

	table := ResultTable{Columns: columns, Rows: [][]string{}}

	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))

		for i := range cells {
			dest[i] = &cells[i]
		}

		if err := rows.Scan(dest...); err != nil {
			return ResultTable{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		row := make([]string, len(columns))
		for i, cell := range cells {
			row[i] = cell.String
		}

		table.Rows = append(table.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return ResultTable{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate rows", err)
	}

	return table, nil
}
