package datasource

import (
	"iter"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-futures/internal/types"
	"github.com/rxtech-lab/argo-futures/pkg/errors"
)

// DataSource supplies the bars of one instrument. Bars outside the configured
// trading session are never returned.
type DataSource interface {
	// Initialize initializes the data source with the given data path in csv or parquet format
	Initialize(path string) error
	// ReadAll reads all bars in time order and yields them to the caller
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) iter.Seq2[types.Bar, error]
	// Count returns the number of bars in the data source
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}

// LoadBars reads every bar of the range into memory and validates the
// sequence. Any read error or malformed bar aborts the load.
func LoadBars(ds DataSource, start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.Bar, error) {
	bars := make([]types.Bar, 0)

	for bar, err := range ds.ReadAll(start, end) {
		if err != nil {
			if errors.GetCode(err) != errors.ErrCodeUnknown {
				return nil, err
			}

			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read bars", err)
		}

		bars = append(bars, bar)
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	return bars, nil
}
