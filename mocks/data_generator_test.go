package mocks

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	data := gen.Generate(config)
	require.Len(t, data, 100)

	for i := 1; i < len(data); i++ {
		assert.True(t, data[i].Time.After(data[i-1].Time), "data not in chronological order at index %d", i)
	}

	for i, d := range data {
		assert.NoError(t, d.Validate(), "index %d", i)
		assert.GreaterOrEqual(t, d.High, d.Low, "index %d", i)
	}

	assert.NoError(t, types.ValidateBars(data))
}

func TestDataGenerator_StaysInsideSession(t *testing.T) {
	gen := NewDataGenerator(7)
	config := DefaultConfig()
	config.Count = 200

	for i, d := range gen.Generate(config) {
		midnight := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, d.Time.Location())
		offset := d.Time.Sub(midnight)

		assert.GreaterOrEqual(t, offset, config.SessionStart, "index %d at %s", i, d.Time)
		assert.LessOrEqual(t, offset, config.SessionEnd, "index %d at %s", i, d.Time)
		assert.NotEqual(t, time.Saturday, d.Time.Weekday())
		assert.NotEqual(t, time.Sunday, d.Time.Weekday())
	}
}

func TestDataGenerator_NoSession(t *testing.T) {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.SessionEnd = 0
	config.Count = 50

	data := gen.Generate(config)
	for i := 1; i < len(data); i++ {
		assert.Equal(t, config.Interval, data[i].Time.Sub(data[i-1].Time))
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	data1 := NewDataGenerator(42).Generate(config)
	data2 := NewDataGenerator(42).Generate(config)

	assert.Equal(t, data1, data2)
}

func TestDataGenerator_DifferentSeeds(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	data1 := NewDataGenerator(42).Generate(config)
	data2 := NewDataGenerator(123).Generate(config)

	assert.NotEqual(t, data1, data2)
}

func TestTrending(t *testing.T) {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	bars := Trending(start, time.Hour, 5, 100, 1)

	require.Len(t, bars, 5)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 105.0, bars[4].Close)
	assert.Greater(t, bars[4].Volume, bars[0].Volume)
	assert.NoError(t, types.ValidateBars(bars))
}
