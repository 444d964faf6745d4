package datasource

import (
	"iter"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/types"
)

// InMemoryDataSource serves bars that are already loaded, for programmatic
// use and tests. Bars are yielded in the order given; the session window is
// applied the same way as in DuckDB.
type InMemoryDataSource struct {
	bars    []types.Bar
	session optional.Option[Session]
}

func NewInMemoryDataSource(bars []types.Bar, session optional.Option[Session]) *InMemoryDataSource {
	return &InMemoryDataSource{
		bars:    bars,
		session: session,
	}
}

// Initialize implements DataSource. The bars are supplied at construction.
func (m *InMemoryDataSource) Initialize(path string) error {
	return nil
}

func (m *InMemoryDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		for _, bar := range m.bars {
			if !m.include(bar, start, end) {
				continue
			}

			if !yield(bar, nil) {
				return
			}
		}
	}
}

func (m *InMemoryDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	count := 0

	for _, bar := range m.bars {
		if m.include(bar, start, end) {
			count++
		}
	}

	return count, nil
}

func (m *InMemoryDataSource) Close() error {
	return nil
}

func (m *InMemoryDataSource) include(bar types.Bar, start optional.Option[time.Time], end optional.Option[time.Time]) bool {
	if start.IsSome() && bar.Time.Before(start.Unwrap()) {
		return false
	}

	if end.IsSome() && bar.Time.After(end.Unwrap()) {
		return false
	}

	if m.session.IsSome() && !m.session.Unwrap().Contains(bar.Time) {
		return false
	}

	return true
}
