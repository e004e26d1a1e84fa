package domain

import "time"

// DateRange is an optional closed range of calendar days. Only the date part
// of Start and End is used; either bound may be nil.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Validate rejects a range whose start day is after its end day.
func (r DateRange) Validate() error {
	if r.Start == nil || r.End == nil {
		return nil
	}

	if civilDay(*r.Start, time.UTC).After(civilDay(*r.End, time.UTC)) {
		return ErrInvalidDateRange
	}

	return nil
}

// Window turns the day range into instants in loc: From is the start of the
// first day, Until is the start of the day after the last one (exclusive).
func (r DateRange) Window(loc *time.Location) TimeWindow {
	var w TimeWindow

	if r.Start != nil {
		w.From = civilDay(*r.Start, loc)
	}

	if r.End != nil {
		w.Until = civilDay(*r.End, loc).AddDate(0, 0, 1)
	}

	return w
}

// TimeWindow bounds a query on created_at. Zero values mean unbounded.
type TimeWindow struct {
	From  time.Time
	Until time.Time
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.Until.IsZero() && !t.Before(w.Until) {
		return false
	}
	return true
}

// civilDay keeps the calendar date of t as written and places midnight of that
// date in loc.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
