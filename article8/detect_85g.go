/*
detect_85g.go - Article 8.5.G: OTDL not maximized

RULE:
  When a WAL or NL carrier works past eight hours on a day the OTDL was
  not maximized, every OTDL carrier who was available -- not excused and
  below their hour limit -- is owed the hours up to that limit. The
  triggering carrier's name and hours ride along on each remedy row for
  grievance traceability.

REASON CASCADE:
  Non-remedy rows must still explain themselves, in precedence order:
  auto-excused (Sunday or excusing leave), manually excused, already
  maximized (at or over the limit), plain no-violation. Non-OTDL carriers
  are labeled Non OTDL outright.
*/
package article8

import "time"

// detect85G evaluates the OTDL-maximization rule date by date.
func detect85G(rows []PreparedRing, env Env) []ViolationRecord {
	eight := NewHours(8)
	byDate, dates := groupByDate(rows)
	records := make([]ViolationRecord, 0, len(rows))

	for _, date := range dates {
		day := byDate[date]

		base := func(row PreparedRing) ViolationRecord {
			return ViolationRecord{
				CarrierName: row.CarrierName,
				Date:        row.Date,
				ListStatus:  row.ListStatus,
				Verdict:     NoViolation(Rule85G),
				TotalHours:  row.TotalHours,
				HourLimit:   row.HourLimit,
				Indicator:   row.Indicator,
			}
		}

		// excusedReason classifies a non-remedy row, or returns ReasonNone
		// when nothing excuses the carrier.
		excusedReason := func(row PreparedRing) Reason {
			switch {
			case autoExcusalIndicators[row.Indicator] || row.Date.Weekday() == time.Sunday:
				return ReasonAutoExcused
			case env.Status.CarrierManuallyExcused(row.CarrierName, row.Date):
				return ReasonManuallyExcused
			case row.TotalHours.AtLeast(row.HourLimit):
				return ReasonMaximized
			}
			return ReasonNone
		}

		if env.Status.IsMaximized(date) {
			for _, row := range day {
				rec := base(row)
				if reason := excusedReason(row); reason != ReasonNone {
					rec.Verdict = Excused(Rule85G, reason)
				}
				records = append(records, rec)
			}
			continue
		}

		// The trigger is the WAL/NL carrier with the most overtime hours.
		var trigger *PreparedRing
		for i := range day {
			row := &day[i]
			if !row.ListStatus.IsWALNL() || !row.TotalHours.GreaterThan(eight) {
				continue
			}
			if trigger == nil || row.TotalHours.GreaterThan(trigger.TotalHours) {
				trigger = row
			}
		}

		for _, row := range day {
			rec := base(row)
			switch {
			case row.ListStatus != StatusOTDL:
				rec.Verdict = Excused(Rule85G, ReasonNonOTDL)
			case trigger == nil:
				if reason := excusedReason(row); reason != ReasonNone {
					rec.Verdict = Excused(Rule85G, reason)
				}
			default:
				rec.TriggerCarrier = trigger.CarrierName
				rec.TriggerHours = trigger.TotalHours
				rec.OffRouteHours = trigger.OffRouteHours
				if reason := excusedReason(row); reason != ReasonNone {
					rec.Verdict = Excused(Rule85G, reason)
				} else {
					rec.Remedy = row.HourLimit.Sub(row.TotalHours).ClampFloor().Round2()
					if rec.Remedy.IsPositive() {
						rec.Verdict = Violation(Rule85G)
					}
				}
			}
			records = append(records, rec)
		}
	}
	return records
}
