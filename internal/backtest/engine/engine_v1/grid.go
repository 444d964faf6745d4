package engine

import (
	"fmt"
	"iter"
	"strings"

	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
	"github.com/samber/lo"
)

// Dimension is one named sweep parameter and its candidate values.
type Dimension struct {
	Name   string    `yaml:"name" json:"name" jsonschema:"title=Name,description=Parameter name such as ma_short or stop_loss_pct" validate:"required"`
	Values []float64 `yaml:"values" json:"values" jsonschema:"title=Values,description=Candidate values in enumeration order" validate:"required,min=1"`
}

// ParameterGrid is the Cartesian product of its dimensions. The first
// dimension varies slowest, as in nested loops.
type ParameterGrid struct {
	Dimensions []Dimension
}

func NewParameterGrid(dimensions ...Dimension) ParameterGrid {
	return ParameterGrid{Dimensions: dimensions}
}

// Validate rejects empty dimensions and repeated names.
func (g ParameterGrid) Validate() error {
	for i, d := range g.Dimensions {
		if d.Name == "" {
			return errors.Newf(errors.ErrCodeInvalidGrid, "parameter %d has no name", i)
		}

		if len(d.Values) == 0 {
			return errors.Newf(errors.ErrCodeInvalidGrid, "parameter %s has no values", d.Name)
		}
	}

	if duplicates := lo.FindDuplicates(g.Names()); len(duplicates) > 0 {
		return errors.Newf(errors.ErrCodeInvalidGrid, "parameters listed more than once: %s", strings.Join(duplicates, ", "))
	}

	return nil
}

// Names returns the dimension names in enumeration order.
func (g ParameterGrid) Names() []string {
	return lo.Map(g.Dimensions, func(d Dimension, _ int) string {
		return d.Name
	})
}

// Size returns the number of combinations. A grid without dimensions has a
// single empty combination.
func (g ParameterGrid) Size() int {
	size := 1
	for _, d := range g.Dimensions {
		size *= len(d.Values)
	}

	return size
}

// Enumerate lazily yields every combination with its index. Each call starts
// over from the first combination.
func (g ParameterGrid) Enumerate() iter.Seq2[int, Combination] {
	return func(yield func(int, Combination) bool) {
		total := g.Size()
		if total == 0 {
			return
		}

		names := g.Names()
		positions := make([]int, len(g.Dimensions))

		for index := 0; index < total; index++ {
			values := make([]float64, len(g.Dimensions))
			for i, d := range g.Dimensions {
				values[i] = d.Values[positions[i]]
			}

			if !yield(index, Combination{names: names, values: values}) {
				return
			}

			// advance the odometer, last dimension fastest
			for i := len(positions) - 1; i >= 0; i-- {
				positions[i]++
				if positions[i] < len(g.Dimensions[i].Values) {
					break
				}

				positions[i] = 0
			}
		}
	}
}

// Combination is one point of the grid.
type Combination struct {
	names  []string
	values []float64
}

// Get returns the value of the named parameter.
func (c Combination) Get(name string) (float64, bool) {
	for i, n := range c.names {
		if n == name {
			return c.values[i], true
		}
	}

	return 0, false
}

// Values returns the parameter values in grid order.
func (c Combination) Values() []types.ParameterValue {
	return lo.Map(c.names, func(name string, i int) types.ParameterValue {
		return types.ParameterValue{Name: name, Value: c.values[i]}
	})
}

func (c Combination) String() string {
	parts := lo.Map(c.names, func(name string, i int) string {
		return fmt.Sprintf("%s=%v", name, c.values[i])
	})

	return strings.Join(parts, " ")
}
