package engine

import (
	"errors"
	"testing"

	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/stretchr/testify/suite"
)

type EngineTestSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) TestEmptyCallbacks() {
	callbacks := LifecycleCallbacks{}

	suite.Nil(callbacks.OnSweepStart)
	suite.Nil(callbacks.OnSweepEnd)
	suite.Nil(callbacks.OnRunStart)
	suite.Nil(callbacks.OnRunEnd)
}

func (suite *EngineTestSuite) TestOnSweepStartCallbackCanAbort() {
	abort := errors.New("abort")
	onStart := OnSweepStartCallback(func(totalRuns int, totalBars int) error {
		if totalRuns > 100 {
			return abort
		}

		return nil
	})

	callbacks := LifecycleCallbacks{OnSweepStart: &onStart}

	suite.NoError((*callbacks.OnSweepStart)(10, 500))
	suite.ErrorIs((*callbacks.OnSweepStart)(1000, 500), abort)
}

func (suite *EngineTestSuite) TestOnRunEndCallbackCollectsRows() {
	var indexes []int
	onEnd := OnRunEndCallback(func(index int, result types.RunResult) {
		indexes = append(indexes, index)
	})

	for i := 0; i < 3; i++ {
		onEnd(i, types.RunResult{Index: i})
	}

	suite.Equal([]int{0, 1, 2}, indexes)
}
