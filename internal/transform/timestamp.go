package transform

import (
	"time"

	"github.com/rotisserie/eris"
)

// ErrInvalidTimestamp is returned for event timestamps that are not valid
// epoch milliseconds.
var ErrInvalidTimestamp = eris.New("transform: invalid timestamp")

// Timestamps outside this window are treated as malformed rather than decoded
// into nonsense calendar rows.
var (
	minEventTime = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	maxEventTime = time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// TimeParts is the deterministic bundle of calendar attributes derived from a
// single event timestamp.
type TimeParts struct {
	StartTime time.Time // epoch-second precision, UTC
	Hour      int
	Day       int
	Week      int // ISO-8601 week number
	Weekday   string
	Month     int
	Year      int
}

// DeriveTime decomposes an epoch-millisecond timestamp into calendar
// attributes. The instant is truncated to whole seconds and interpreted in
// UTC so the same ts always yields the same row regardless of the host's
// timezone.
func DeriveTime(tsMillis int64) (TimeParts, error) {
	if tsMillis <= 0 {
		return TimeParts{}, eris.Wrapf(ErrInvalidTimestamp, "ts=%d", tsMillis)
	}

	start := time.Unix(tsMillis/1000, 0).UTC()
	if start.Before(minEventTime) || !start.Before(maxEventTime) {
		return TimeParts{}, eris.Wrapf(ErrInvalidTimestamp, "ts=%d out of range", tsMillis)
	}

	_, week := start.ISOWeek()
	return TimeParts{
		StartTime: start,
		Hour:      start.Hour(),
		Day:       start.Day(),
		Week:      week,
		Weekday:   start.Weekday().String(),
		Month:     int(start.Month()),
		Year:      start.Year(),
	}, nil
}
