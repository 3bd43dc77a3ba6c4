package valueobjects

import (
	"errors"
	"time"
)

// PeriodGranularity describes how precise a fuzzy time window is
type PeriodGranularity string

const (
	GranularityExact   PeriodGranularity = "exact"
	GranularityMorning PeriodGranularity = "morning"
	GranularityEvening PeriodGranularity = "evening"
	GranularityDay     PeriodGranularity = "day"
	GranularityWeekend PeriodGranularity = "weekend"
)

// TimeWindow is the time window of a hangout, either exact or fuzzy
// (period-based). Fuzzy windows still carry concrete start/end bounds so
// the feed indexes can order them.
type TimeWindow struct {
	start       time.Time
	end         time.Time
	granularity PeriodGranularity
}

// NewExactTimeWindow creates an exact time window
func NewExactTimeWindow(start, end time.Time) (TimeWindow, error) {
	return newTimeWindow(start, end, GranularityExact)
}

// NewFuzzyTimeWindow creates a period-based time window
func NewFuzzyTimeWindow(start, end time.Time, granularity PeriodGranularity) (TimeWindow, error) {
	if granularity == GranularityExact {
		return TimeWindow{}, errors.New("fuzzy time window cannot have exact granularity")
	}
	return newTimeWindow(start, end, granularity)
}

func newTimeWindow(start, end time.Time, granularity PeriodGranularity) (TimeWindow, error) {
	if start.IsZero() || end.IsZero() {
		return TimeWindow{}, errors.New("time window bounds cannot be zero")
	}
	if !end.After(start) {
		return TimeWindow{}, errors.New("time window end must be after start")
	}
	return TimeWindow{start: start.UTC(), end: end.UTC(), granularity: granularity}, nil
}

// ReconstructTimeWindow rebuilds a window from stored epoch seconds without
// re-running the bounds checks, so legacy rows always load.
func ReconstructTimeWindow(startUnix, endUnix int64, granularity PeriodGranularity) TimeWindow {
	if granularity == "" {
		granularity = GranularityExact
	}
	return TimeWindow{
		start:       time.Unix(startUnix, 0).UTC(),
		end:         time.Unix(endUnix, 0).UTC(),
		granularity: granularity,
	}
}

func (w TimeWindow) Start() time.Time { return w.start }
func (w TimeWindow) End() time.Time { return w.end }
func (w TimeWindow) Granularity() PeriodGranularity { return w.granularity }
func (w TimeWindow) IsFuzzy() bool { return w.granularity != GranularityExact }
func (w TimeWindow) IsZero() bool { return w.start.IsZero() }
func (w TimeWindow) Contains(t time.Time) bool { return !t.Before(w.start) && t.Before(w.end) }
func (w TimeWindow) InProgressAt(now time.Time) bool { return w.Contains(now) }
