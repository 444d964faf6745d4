package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRunResultParameter(t *testing.T) {
	row := RunResult{
		Parameters: []ParameterValue{{Name: "period", Value: 18}, {Name: "exit_pct", Value: 0.02}},
	}

	v, ok := row.Parameter("exit_pct")
	assert.True(t, ok)
	assert.Equal(t, 0.02, v)

	_, ok = row.Parameter("ma_long")
	assert.False(t, ok)

	assert.False(t, row.Failed())
	row.Error = "boom"
	assert.True(t, row.Failed())
}

func TestWriteSweepSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.yaml")
	best := RunResult{Index: 4, Metrics: Metrics{SharpeRatio: 1.5}}
	summary := SweepSummary{
		ID:           "sweep-1",
		Timestamp:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Strategy:     "high_low",
		Symbol:       "TXF",
		Bars:         100,
		Combinations: 9,
		Best:         &best,
	}

	require.NoError(t, WriteSweepSummary(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded SweepSummary
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "high_low", decoded.Strategy)
	assert.Equal(t, 9, decoded.Combinations)
	require.NotNil(t, decoded.Best)
	assert.Equal(t, 4, decoded.Best.Index)
	assert.Equal(t, 1.5, decoded.Best.Metrics.SharpeRatio)
}
