package article8

import "time"

// =============================================================================
// SERVICE WEEK - Saturday-through-Friday grouping window
// =============================================================================

// ServiceWeek is the weekly boundary used by the 8.5.F-5th and MAX60 rules.
// Postal service weeks run Saturday through Friday regardless of the host
// calendar's week start. Both ends are inclusive.
type ServiceWeek struct {
	Start time.Time // a Saturday, midnight UTC
	End   time.Time // the following Friday
}

// ServiceWeekOf returns the service week containing the given date.
func ServiceWeekOf(date time.Time) ServiceWeek {
	d := Midnight(date)
	// Walk back to Saturday.
	offset := (int(d.Weekday()) - int(time.Saturday) + 7) % 7
	start := d.AddDate(0, 0, -offset)
	return ServiceWeek{Start: start, End: start.AddDate(0, 0, 6)}
}

// Contains reports whether the date falls inside the week [Start, End].
func (w ServiceWeek) Contains(date time.Time) bool {
	d := Midnight(date)
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the seven dates of the week in order.
func (w ServiceWeek) Days() []time.Time {
	days := make([]time.Time, 0, 7)
	for d := w.Start; !d.After(w.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (w ServiceWeek) String() string {
	return "[" + w.Start.Format(DateLayout) + ", " + w.End.Format(DateLayout) + "]"
}
