/*
prepare.go - One-pass batch normalization shared by every detector

PURPOSE:
  Historically each violation rule carried its own copy of move parsing and
  eligibility prep, and the copies drifted. Here the batch is augmented
  exactly once and every detector consumes the same prepared rows.

WHAT PREPARATION ADDS:
  - Parsed move breakdown (own/off-assignment hours, formatted rollup)
  - OTDL/PTF attribution: all of their hours count as on-assignment
  - Non-scheduled-day flag from the day-type code
  - Display indicator ("(sick)", "(NS protect)", ...) used by excusal rules
  - Leave-aware daily hours used by the weekly rules

SEE ALSO:
  - moves.go: ParseMoves
  - maximization.go: AutoExcuse consumes the indicator and daily hours
*/
package article8

import (
	"sort"
	"strings"
	"time"
)

// =============================================================================
// PREPARED RING
// =============================================================================

// PreparedRing is a ClockRing augmented with everything the detectors need.
// Built once per batch; immutable afterward.
type PreparedRing struct {
	ClockRing

	OwnRouteHours  Hours
	OffRouteHours  Hours
	Segments       []MoveSegment
	FormattedMoves string
	NoMoves        bool

	NSDay      bool
	Indicator  string
	DailyHours Hours
}

// HasValidMoves reports whether the row carried a parseable, non-sentinel
// moves string. 8.5.D requires move evidence on regular days.
func (r PreparedRing) HasValidMoves() bool { return !r.NoMoves }

// HasRecordedMoves reports whether the raw field held anything at all,
// parseable or not. MAX12 lowers the WAL limit on any recorded move.
func (r PreparedRing) HasRecordedMoves() bool { return !isMoveSentinel(r.Moves) }

// =============================================================================
// BATCH PREPARATION
// =============================================================================

// PrepareRings augments a batch of clock rings for detection. Rows are
// returned sorted by carrier then date so detector output ordering is
// deterministic. Duplicate (carrier, date) rows collapse to the last
// occurrence, mirroring the store's upsert: the weekly accumulators
// assume one row per carrier-day. Input rows are not modified.
func PrepareRings(rows []ClockRing) []PreparedRing {
	type dayKey struct {
		name string
		date time.Time
	}
	seen := make(map[dayKey]int, len(rows))
	prepared := make([]PreparedRing, 0, len(rows))
	for _, row := range rows {
		p := prepareRow(row)
		key := dayKey{p.CarrierName, p.Date}
		if i, ok := seen[key]; ok {
			prepared[i] = p
			continue
		}
		seen[key] = len(prepared)
		prepared = append(prepared, p)
	}
	sort.Slice(prepared, func(i, j int) bool {
		if prepared[i].CarrierName != prepared[j].CarrierName {
			return prepared[i].CarrierName < prepared[j].CarrierName
		}
		return prepared[i].Date.Before(prepared[j].Date)
	})
	return prepared
}

func prepareRow(row ClockRing) PreparedRing {
	row.Date = Midnight(row.Date)
	if !row.HourLimit.IsPositive() {
		row.HourLimit = DefaultHourLimit
	}
	if row.TotalHours.IsNegative() {
		row.TotalHours = ZeroHours()
	}

	p := PreparedRing{ClockRing: row}

	bd := ParseMoves(row.Moves, row.Code)
	p.Segments = bd.Segments
	p.FormattedMoves = bd.FormattedMoves
	p.NoMoves = bd.NoMoves
	p.OffRouteHours = bd.OffAssignment
	// Own-assignment time is the matching segments plus whatever the clock
	// total does not attribute to any move: walking the route between moves
	// never shows up in the move string. The remainder clamps at zero so a
	// row whose moves overrun its clock total cannot go negative.
	remainder := row.TotalHours.Sub(bd.OnAssignment).Sub(bd.OffAssignment).ClampFloor()
	p.OwnRouteHours = bd.OnAssignment.Add(remainder).Round2()

	// OTDL and PTF carriers have no bid assignment to be moved off of.
	if row.ListStatus == StatusOTDL || row.ListStatus == StatusPTF {
		p.OwnRouteHours = row.TotalHours
		p.OffRouteHours = ZeroHours()
		p.FormattedMoves = "No Moves"
		p.NoMoves = true
		p.Segments = nil
	}

	p.NSDay = strings.Contains(trimLower(row.Code), "ns day")
	p.Indicator = displayIndicator(row.Code, row.LeaveType)
	p.DailyHours = dailyHours(row)
	return p
}

// =============================================================================
// DISPLAY INDICATOR
// =============================================================================

// displayIndicator maps the code/leave-type pair to the parenthesized
// indicator shown in the tables and consumed by the auto-excusal rules.
func displayIndicator(code, leaveType string) string {
	c, lt := trimLower(code), trimLower(leaveType)
	switch {
	case c == "annual" && lt == "none":
		return "(NS protect)"
	case c == "annual" && lt == "annual":
		return "(annual)"
	case c == "none" && lt == "annual":
		return "(annual)"
	case c == "none" && lt == "guaranteed":
		return "(guaranteed)"
	case c == "none" && lt == "holiday":
		return "(holiday)"
	case c == "ns day" && lt == "none":
		return "(NS day)"
	case c == "sick" && lt == "sick":
		return "(sick)"
	case c == "none" && lt == "sick":
		return "(sick)"
	case c == "no call" && lt == "none":
		return "(no call)"
	}
	return ""
}

// =============================================================================
// DAILY HOURS
// =============================================================================

// dailyHours is the paid-hours figure the weekly rules accumulate. Paid
// leave counts toward the week; an 8.00-hour holiday already rides inside
// the clock total and must not be double counted.
func dailyHours(row ClockRing) Hours {
	if trimLower(row.LeaveType) == "holiday" && row.LeaveTime.Sub(NewHours(8)).IsZero() {
		return row.TotalHours
	}
	if !row.LeaveTime.GreaterThan(row.TotalHours) {
		return row.TotalHours.Max(row.LeaveTime)
	}
	return row.TotalHours.Add(row.LeaveTime)
}

// =============================================================================
// GROUPING HELPERS
// =============================================================================

// groupByDate buckets prepared rows by date, preserving the prepared order
// inside each bucket, and returns the sorted date keys.
func groupByDate(rows []PreparedRing) (map[time.Time][]PreparedRing, []time.Time) {
	byDate := make(map[time.Time][]PreparedRing)
	for _, row := range rows {
		byDate[row.Date] = append(byDate[row.Date], row)
	}
	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return byDate, dates
}

// groupByCarrier buckets prepared rows by carrier, each bucket date-ordered,
// and returns the sorted carrier names.
func groupByCarrier(rows []PreparedRing) (map[string][]PreparedRing, []string) {
	byCarrier := make(map[string][]PreparedRing)
	for _, row := range rows {
		byCarrier[row.CarrierName] = append(byCarrier[row.CarrierName], row)
	}
	names := make([]string, 0, len(byCarrier))
	for name := range byCarrier {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		bucket := byCarrier[name]
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Date.Before(bucket[j].Date) })
	}
	return byCarrier, names
}
