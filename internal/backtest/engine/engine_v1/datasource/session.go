package datasource

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-futures/pkg/errors"
)

const sessionLayout = "15:04"

// Session is the intraday trading window, both ends inclusive.
type Session struct {
	Start string `yaml:"start" json:"start" jsonschema:"title=Session Start,description=Time of the first bar of a day (HH:MM),example=08:45" validate:"required"`
	End   string `yaml:"end" json:"end" jsonschema:"title=Session End,description=Time of the last bar of a day (HH:MM),example=13:45" validate:"required"`
}

// Validate checks that both ends parse as HH:MM and that start is not after end.
func (s Session) Validate() error {
	start, err := parseClock(s.Start)
	if err != nil {
		return err
	}

	end, err := parseClock(s.End)
	if err != nil {
		return err
	}

	if start > end {
		return errors.Newf(errors.ErrCodeInvalidSession, "session start %s is after end %s", s.Start, s.End)
	}

	return nil
}

// Contains reports whether the time of day of t falls inside the session.
func (s Session) Contains(t time.Time) bool {
	start, err := parseClock(s.Start)
	if err != nil {
		return false
	}

	end, err := parseClock(s.End)
	if err != nil {
		return false
	}

	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)

	return offset >= start && offset <= end
}

// sqlBounds returns the session ends in the HH:MM:SS form DuckDB casts to TIME.
func (s Session) sqlBounds() (string, string) {
	return s.Start + ":00", s.End + ":00"
}

func parseClock(value string) (time.Duration, error) {
	parsed, err := time.Parse(sessionLayout, value)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidSession, fmt.Sprintf("invalid session time %q, expected HH:MM", value), err)
	}

	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, nil
}
