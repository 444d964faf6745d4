package datasource

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/logger"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBDataSourceTestSuite struct {
	suite.Suite
	dir string
}

func TestDuckDBDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBDataSourceTestSuite))
}

func (suite *DuckDBDataSourceTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

// writeCSV writes two days of half-hourly bars from 08:00 to 14:30,
// deliberately out of time order.
func (suite *DuckDBDataSourceTestSuite) writeCSV() string {
	lines := []string{"time,open,high,low,close,volume"}

	for _, day := range []int{5, 4} {
		for slot := 0; slot < 14; slot++ {
			t := time.Date(2024, 3, day, 8, 0, 0, 0, time.UTC).Add(time.Duration(slot) * 30 * time.Minute)
			price := 17000 + float64(day*100+slot)
			lines = append(lines, fmt.Sprintf("%s,%.1f,%.1f,%.1f,%.1f,%d",
				t.Format("2006-01-02 15:04:05"), price, price+5, price-5, price+1, 1000+slot))
		}
	}

	path := filepath.Join(suite.dir, "bars.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))

	return path
}

func (suite *DuckDBDataSourceTestSuite) writeParquet(csvPath string) string {
	path := filepath.Join(suite.dir, "bars.parquet")

	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	_, err = db.Exec(fmt.Sprintf("COPY (SELECT * FROM read_csv_auto('%s', header=true)) TO '%s' (FORMAT PARQUET)", csvPath, path))
	suite.Require().NoError(err)

	return path
}

func (suite *DuckDBDataSourceTestSuite) open(session optional.Option[Session]) DataSource {
	ds, err := NewDataSource(":memory:", session, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { _ = ds.Close() })

	return ds
}

func (suite *DuckDBDataSourceTestSuite) TestReadAllSortsByTime() {
	for _, format := range []string{"csv", "parquet"} {
		suite.Run(format, func() {
			path := suite.writeCSV()
			if format == "parquet" {
				path = suite.writeParquet(path)
			}

			ds := suite.open(optional.None[Session]())
			suite.Require().NoError(ds.Initialize(path))

			bars, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
			suite.Require().NoError(err)
			suite.Len(bars, 28)

			first := bars[0]
			suite.Equal(time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC), first.Time.UTC())
			suite.Equal(17400.0, first.Open)
			suite.Equal(17405.0, first.High)
			suite.Equal(17395.0, first.Low)
			suite.Equal(17401.0, first.Close)
			suite.Equal(1000.0, first.Volume)

			for i := 1; i < len(bars); i++ {
				suite.True(bars[i].Time.After(bars[i-1].Time))
			}
		})
	}
}

func (suite *DuckDBDataSourceTestSuite) TestSessionFilter() {
	ds := suite.open(optional.Some(Session{Start: "08:45", End: "13:45"}))
	suite.Require().NoError(ds.Initialize(suite.writeCSV()))

	bars, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)

	// 09:00 through 13:30 on each day
	suite.Len(bars, 20)

	for _, bar := range bars {
		clock := bar.Time.UTC().Format("15:04")
		suite.GreaterOrEqual(clock, "09:00")
		suite.LessOrEqual(clock, "13:30")
	}

	count, err := ds.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(20, count)
}

func (suite *DuckDBDataSourceTestSuite) TestTimeRange() {
	ds := suite.open(optional.None[Session]())
	suite.Require().NoError(ds.Initialize(suite.writeCSV()))

	start := optional.Some(time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC))
	end := optional.Some(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))

	bars, err := LoadBars(ds, start, end)
	suite.Require().NoError(err)

	// 12:00-14:30 on the 4th plus 08:00-09:00 on the 5th, bounds inclusive
	suite.Len(bars, 9)
	suite.Equal(start.Unwrap(), bars[0].Time.UTC())
	suite.Equal(end.Unwrap(), bars[len(bars)-1].Time.UTC())

	count, err := ds.Count(start, end)
	suite.Require().NoError(err)
	suite.Equal(9, count)
}

func (suite *DuckDBDataSourceTestSuite) TestUnsupportedFormat() {
	ds := suite.open(optional.None[Session]())

	err := ds.Initialize(filepath.Join(suite.dir, "bars.xlsx"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeUnsupportedDataFormat, errors.GetCode(err))
}

func (suite *DuckDBDataSourceTestSuite) TestMissingFile() {
	ds := suite.open(optional.None[Session]())

	err := ds.Initialize(filepath.Join(suite.dir, "missing.csv"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeDataSourceUnavailable, errors.GetCode(err))
}

func (suite *DuckDBDataSourceTestSuite) TestMalformedBar() {
	path := filepath.Join(suite.dir, "bad.csv")
	content := "time,open,high,low,close,volume\n" +
		"2024-03-04 09:00:00,100,101,99,100,10\n" +
		"2024-03-04 09:30:00,100,101,99,100,-10\n"
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	ds := suite.open(optional.None[Session]())
	suite.Require().NoError(ds.Initialize(path))

	_, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeMalformedBar, errors.GetCode(err))
}

func (suite *DuckDBDataSourceTestSuite) TestDateHeader() {
	path := filepath.Join(suite.dir, "txf.csv")
	content := "Date,Open,High,Low,Close,Volume\n" +
		"2024-03-04 09:00:00,17000,17010,16990,17005,1200\n" +
		"2024-03-04 08:30:00,16990,17001,16980,17000,900\n"
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	ds := suite.open(optional.None[Session]())
	suite.Require().NoError(ds.Initialize(path))

	bars, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 2)
	suite.Equal(time.Date(2024, 3, 4, 8, 30, 0, 0, time.UTC), bars[0].Time.UTC())
	suite.Equal(16990.0, bars[0].Open)
	suite.Equal(1200.0, bars[1].Volume)
}

func (suite *DuckDBDataSourceTestSuite) TestMissingTimeColumn() {
	path := filepath.Join(suite.dir, "no_time.csv")
	content := "when,open,high,low,close,volume\n" +
		"2024-03-04 09:00:00,100,101,99,100,10\n"
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	ds := suite.open(optional.None[Session]())

	err := ds.Initialize(path)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeMalformedBar, errors.GetCode(err))
}

func (suite *DuckDBDataSourceTestSuite) TestEmptyRange() {
	ds := suite.open(optional.None[Session]())
	suite.Require().NoError(ds.Initialize(suite.writeCSV()))

	future := optional.Some(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := LoadBars(ds, future, optional.None[time.Time]())
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeEmptyBars, errors.GetCode(err))
}

func (suite *DuckDBDataSourceTestSuite) TestInvalidSession() {
	_, err := NewDataSource(":memory:", optional.Some(Session{Start: "14:00", End: "09:00"}), logger.NewNopLogger())
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidSession, errors.GetCode(err))
}

var _ DataSource = (*DuckDBDataSource)(nil)
