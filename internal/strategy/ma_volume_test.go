package strategy

import (
	"testing"

	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/stretchr/testify/suite"
)

type MAVolumeTestSuite struct {
	suite.Suite
}

func TestMAVolumeSuite(t *testing.T) {
	suite.Run(t, new(MAVolumeTestSuite))
}

func (suite *MAVolumeTestSuite) newStrategy() *MAVolume {
	s, err := NewMAVolume(Parameters{
		ParamMAShort:       2,
		ParamMAMedium:      3,
		ParamMALong:        4,
		ParamStopLossPct:   0.02,
		ParamTakeProfitPct: 0.05,
	})
	suite.Require().NoError(err)

	return s
}

func (suite *MAVolumeTestSuite) TestNoSignalWhileWarmingUp() {
	s := suite.newStrategy()

	bars := []types.Bar{
		bar(0, 100, 101, 99, 100, 10),
		bar(1, 101, 102, 100, 101, 20),
		bar(2, 102, 103, 101, 102, 30),
	}

	ctx := feed(suite.T(), s, bars)
	suite.Equal(types.SignalTypeNoAction, s.Entry(ctx).Type)
}

func (suite *MAVolumeTestSuite) TestLongEntryOnRisingPriceAndVolume() {
	s := suite.newStrategy()

	bars := []types.Bar{
		bar(0, 100, 101, 99, 100, 10),
		bar(1, 101, 102, 100, 101, 20),
		bar(2, 102, 103, 101, 102, 30),
		bar(3, 103, 104, 102, 103, 40),
	}

	signal := s.Entry(feed(suite.T(), s, bars))
	suite.Equal(types.SignalTypeBuyLong, signal.Type)
	suite.Equal(types.OrderReasonEntryLong, signal.Reason.Reason)
}

func (suite *MAVolumeTestSuite) TestShortEntryOnFallingPriceAndVolume() {
	s := suite.newStrategy()

	bars := []types.Bar{
		bar(0, 103, 104, 102, 103, 40),
		bar(1, 102, 103, 101, 102, 30),
		bar(2, 101, 102, 100, 101, 20),
		bar(3, 100, 101, 99, 100, 10),
	}

	signal := s.Entry(feed(suite.T(), s, bars))
	suite.Equal(types.SignalTypeSellShort, signal.Type)
	suite.Equal(types.OrderReasonEntryShort, signal.Reason.Reason)
}

func (suite *MAVolumeTestSuite) TestNoEntryWithoutVolumeConfirmation() {
	s := suite.newStrategy()

	// rising price, falling volume
	bars := []types.Bar{
		bar(0, 100, 101, 99, 100, 40),
		bar(1, 101, 102, 100, 101, 30),
		bar(2, 102, 103, 101, 102, 20),
		bar(3, 103, 104, 102, 103, 10),
	}

	suite.Equal(types.SignalTypeNoAction, s.Entry(feed(suite.T(), s, bars)).Type)
}

func (suite *MAVolumeTestSuite) TestFlatMarketNeverSignals() {
	s := suite.newStrategy()

	bars := make([]types.Bar, 10)
	for i := range bars {
		bars[i] = bar(i, 100, 100, 100, 100, 0)
	}

	suite.Equal(types.SignalTypeNoAction, s.Entry(feed(suite.T(), s, bars)).Type)
}

func (suite *MAVolumeTestSuite) TestLongExit() {
	s := suite.newStrategy()
	position := types.Position{Size: 1, EntryPrice: 100}

	tests := []struct {
		name   string
		close  float64
		reason string
	}{
		{"take profit at threshold", 105, types.OrderReasonTakeProfit},
		{"stop loss at threshold", 98, types.OrderReasonStopLoss},
		{"in between", 101, ""},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			ctx := BarContext{Bar: bar(0, tc.close, tc.close, tc.close, tc.close, 1)}
			reason := s.Exit(ctx, position)

			if tc.reason == "" {
				suite.True(reason.IsNone())

				return
			}

			suite.Equal(tc.reason, reason.Unwrap().Reason)
		})
	}
}

func (suite *MAVolumeTestSuite) TestShortExit() {
	s := suite.newStrategy()
	position := types.Position{Size: -1, EntryPrice: 100}

	reason := s.Exit(BarContext{Bar: bar(0, 95, 95, 95, 95, 1)}, position)
	suite.Equal(types.OrderReasonTakeProfit, reason.Unwrap().Reason)

	reason = s.Exit(BarContext{Bar: bar(0, 102, 102, 102, 102, 1)}, position)
	suite.Equal(types.OrderReasonStopLoss, reason.Unwrap().Reason)

	suite.True(s.Exit(BarContext{Bar: bar(0, 99, 99, 99, 99, 1)}, position).IsNone())
}
