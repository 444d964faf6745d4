package datasource

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type InMemoryDataSourceTestSuite struct {
	suite.Suite
	bars []types.Bar
}

func TestInMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(InMemoryDataSourceTestSuite))
}

func (suite *InMemoryDataSourceTestSuite) SetupTest() {
	start := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	suite.bars = make([]types.Bar, 0, 12)

	for i := 0; i < 12; i++ {
		suite.bars = append(suite.bars, testBar(start.Add(time.Duration(i)*30*time.Minute), 100+float64(i)))
	}
}

func (suite *InMemoryDataSourceTestSuite) TestReadAll() {
	ds := NewInMemoryDataSource(suite.bars, optional.None[Session]())
	suite.Require().NoError(ds.Initialize("ignored"))

	bars, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(suite.bars, bars)

	count, err := ds.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(12, count)
	suite.NoError(ds.Close())
}

func (suite *InMemoryDataSourceTestSuite) TestSessionAndRange() {
	ds := NewInMemoryDataSource(suite.bars, optional.Some(Session{Start: "09:00", End: "12:00"}))

	bars, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Len(bars, 7)
	suite.Equal("09:00", bars[0].Time.Format("15:04"))
	suite.Equal("12:00", bars[6].Time.Format("15:04"))

	start := optional.Some(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC))

	count, err := ds.Count(start, optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(5, count)
}

func (suite *InMemoryDataSourceTestSuite) TestEarlyStop() {
	ds := NewInMemoryDataSource(suite.bars, optional.None[Session]())

	seen := 0

	for range ds.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		seen++
		if seen == 3 {
			break
		}
	}

	suite.Equal(3, seen)
}

func (suite *InMemoryDataSourceTestSuite) TestLoadBarsValidation() {
	unordered := []types.Bar{suite.bars[1], suite.bars[0]}
	malformed := []types.Bar{suite.bars[0], {Time: suite.bars[1].Time, Open: 100, High: 101, Low: 99, Close: 100, Volume: -1}}

	tests := []struct {
		name string
		bars []types.Bar
		code errors.ErrorCode
	}{
		{"empty", nil, errors.ErrCodeEmptyBars},
		{"unordered", unordered, errors.ErrCodeUnorderedBars},
		{"malformed", malformed, errors.ErrCodeMalformedBar},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			ds := NewInMemoryDataSource(tc.bars, optional.None[Session]())

			_, err := LoadBars(ds, optional.None[time.Time](), optional.None[time.Time]())
			suite.Require().Error(err)
			suite.Equal(tc.code, errors.GetCode(err))
		})
	}
}

func testBar(t time.Time, price float64) types.Bar {
	return types.Bar{Time: t, Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 100}
}
