package pipeline

import (
	"go.uber.org/zap"

	"github.com/streamhouse/songlake/internal/model"
	"github.com/streamhouse/songlake/internal/transform"
)

// TimedEvent is a log event annotated with the calendar attributes derived
// from its timestamp.
type TimedEvent struct {
	Event model.LogEvent
	Time  transform.TimeParts
}

// annotate derives time parts for every event. In strict mode the first
// invalid timestamp aborts the pipeline; in lenient mode the record is
// dropped with a warning.
func annotate(events []model.LogEvent, lenient bool) ([]TimedEvent, error) {
	out := make([]TimedEvent, 0, len(events))
	for _, e := range events {
		parts, err := transform.DeriveTime(e.TS)
		if err != nil {
			if lenient {
				zap.L().Warn("dropping event with invalid timestamp",
					zap.Int64("ts", e.TS),
					zap.String("user_id", e.UserID),
				)
				continue
			}
			return nil, err
		}
		out = append(out, TimedEvent{Event: e, Time: parts})
	}
	return out, nil
}

// BuildTimeTable produces one time row per distinct event timestamp, in first
// appearance order.
func BuildTimeTable(events []TimedEvent) []model.TimeRow {
	rows := make([]model.TimeRow, len(events))
	for i, e := range events {
		rows[i] = model.TimeRow{
			StartTime: e.Time.StartTime,
			Hour:      int64(e.Time.Hour),
			Day:       int64(e.Time.Day),
			Week:      int64(e.Time.Week),
			Weekday:   e.Time.Weekday,
			Month:     int64(e.Time.Month),
			Year:      int64(e.Time.Year),
		}
	}
	return transform.Distinct(rows, func(r model.TimeRow) model.TimeRow { return r })
}
