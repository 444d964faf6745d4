package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ExpirationTestSuite struct {
	suite.Suite
}

func TestExpirationSuite(t *testing.T) {
	suite.Run(t, new(ExpirationTestSuite))
}

func (suite *ExpirationTestSuite) TestKnownExpirationDates() {
	tests := []struct {
		name  string
		year  int
		month time.Month
		day   int
	}{
		{"January 2024 starts on Monday", 2024, time.January, 17},
		{"February 2024 starts on Thursday", 2024, time.February, 21},
		{"May 2024 starts on Wednesday", 2024, time.May, 15},
		{"September 2024 starts on Sunday", 2024, time.September, 18},
		{"March 2023 starts on Wednesday", 2023, time.March, 15},
		{"June 2024 starts on Saturday", 2024, time.June, 19},
		{"October 2024 starts on Tuesday", 2024, time.October, 16},
		{"November 2024 starts on Friday", 2024, time.November, 20},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			got := ExpirationDate(tc.year, tc.month, time.UTC)
			suite.Equal(tc.day, got.Day())
			suite.Equal(tc.month, got.Month())
			suite.Equal(time.Wednesday, got.Weekday())
		})
	}
}

func (suite *ExpirationTestSuite) TestAlwaysThirdWednesday() {
	for year := 2015; year <= 2030; year++ {
		for month := time.January; month <= time.December; month++ {
			got := ExpirationDate(year, month, nil)
			suite.Equal(time.Wednesday, got.Weekday(), "%d-%02d", year, month)
			suite.GreaterOrEqual(got.Day(), 15)
			suite.LessOrEqual(got.Day(), 21)
		}
	}
}

func (suite *ExpirationTestSuite) TestKeepsLocation() {
	loc := time.FixedZone("CST", 8*3600)
	got := ExpirationDate(2024, time.January, loc)
	suite.Equal(loc, got.Location())
	suite.Equal(0, got.Hour())
}

func (suite *ExpirationTestSuite) TestIsExpirationDayIgnoresTimeOfDay() {
	suite.True(IsExpirationDay(time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)))
	suite.True(IsExpirationDay(time.Date(2024, 1, 17, 13, 30, 0, 0, time.UTC)))
	suite.True(IsExpirationDay(time.Date(2024, 1, 17, 23, 59, 0, 0, time.UTC)))
	suite.False(IsExpirationDay(time.Date(2024, 1, 16, 13, 30, 0, 0, time.UTC)))
	suite.False(IsExpirationDay(time.Date(2024, 2, 17, 13, 30, 0, 0, time.UTC)))
}

func (suite *ExpirationTestSuite) TestForcedCloseDue() {
	suite.False(ForcedCloseDue(time.Date(2024, 1, 17, 12, 59, 0, 0, time.UTC), DefaultCutoffHour))
	suite.True(ForcedCloseDue(time.Date(2024, 1, 17, 13, 0, 0, 0, time.UTC), DefaultCutoffHour))
	suite.True(ForcedCloseDue(time.Date(2024, 1, 17, 13, 45, 0, 0, time.UTC), DefaultCutoffHour))
	suite.False(ForcedCloseDue(time.Date(2024, 1, 18, 13, 45, 0, 0, time.UTC), DefaultCutoffHour))
}
