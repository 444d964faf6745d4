package datasource

import (
	"database/sql"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/logger"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// timeColumns are the accepted names of the timestamp column, in order of
// preference. Column names match case-insensitively.
var timeColumns = []string{"time", "datetime", "date", "timestamp"}

type DuckDBDataSource struct {
	db      *sql.DB
	logger  *logger.Logger
	sq      squirrel.StatementBuilderType
	session optional.Option[Session]
}

// NewDataSource creates a new DuckDB data source instance with the specified database path.
// Use ":memory:" for an in-memory database.
// This is distinct from Initialize() which loads bar data into the database.
func NewDataSource(path string, session optional.Option[Session], logger *logger.Logger) (DataSource, error) {
	if session.IsSome() {
		if err := session.Unwrap().Validate(); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBDataSource{
		db:      db,
		logger:  logger,
		sq:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		session: session,
	}, nil
}

// Initialize implements DataSource. The file format follows the extension.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB data source", zap.String("path", path))

	var reader string

	escaped := strings.ReplaceAll(path, "'", "''")

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		reader = fmt.Sprintf("read_csv_auto('%s', header=true)", escaped)
	case ".parquet":
		reader = fmt.Sprintf("read_parquet('%s')", escaped)
	default:
		return errors.Newf(errors.ErrCodeUnsupportedDataFormat, "unsupported data file %s, expected .csv or .parquet", path)
	}

	_, err := d.db.Exec(`DROP VIEW IF EXISTS bars;`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	timeColumn, err := d.timeColumn(reader)
	if err != nil {
		return err
	}

	// Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW bars AS
		SELECT
			CAST("%s" AS TIMESTAMP) AS time,
			CAST(open AS DOUBLE) AS open,
			CAST(high AS DOUBLE) AS high,
			CAST(low AS DOUBLE) AS low,
			CAST(close AS DOUBLE) AS close,
			CAST(volume AS DOUBLE) AS volume
		FROM %s;
	`, timeColumn, reader)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to load %s", path)
	}

	return nil
}

// timeColumn finds the timestamp column of the source, accepting the names
// in timeColumns.
func (d *DuckDBDataSource) timeColumn(reader string) (string, error) {
	rows, err := d.db.Query(fmt.Sprintf("SELECT * FROM %s LIMIT 0", reader))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to read data file", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to read data file columns", err)
	}

	for _, name := range timeColumns {
		if column, ok := lo.Find(columns, func(c string) bool { return strings.EqualFold(c, name) }); ok {
			return strings.ReplaceAll(column, `"`, `""`), nil
		}
	}

	return "", errors.Newf(errors.ErrCodeMalformedBar, "no timestamp column among %v, expected one of %v", columns, timeColumns)
}

// filter applies the time range and the session window to a query.
func (d *DuckDBDataSource) filter(query squirrel.SelectBuilder, start optional.Option[time.Time], end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	if d.session.IsSome() {
		from, to := d.session.Unwrap().sqlBounds()
		query = query.Where(squirrel.Expr("CAST(time AS TIME) BETWEEN CAST(? AS TIME) AND CAST(? AS TIME)", from, to))
	}

	return query
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := d.filter(d.sq.Select("COUNT(*)").From("bars"), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// ReadAll implements DataSource.
func (d *DuckDBDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		d.logger.Debug("Reading all bars from DuckDB")

		query, args, err := d.filter(
			d.sq.Select("time", "open", "high", "low", "close", "volume").From("bars"),
			start, end,
		).OrderBy("time ASC").ToSql()
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err))

			return
		}

		rows, err := d.db.Query(query, args...)
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err))

			return
		}
		defer rows.Close()

		for rows.Next() {
			var bar types.Bar

			if err := rows.Scan(&bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
				yield(types.Bar{}, errors.Wrap(errors.ErrCodeMalformedBar, "failed to scan bar", err))

				return
			}

			if !yield(bar, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate bars", err))
		}
	}
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
