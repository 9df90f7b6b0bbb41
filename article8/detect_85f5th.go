/*
detect_85f5th.go - Article 8.5.F 5th: a fifth overtime day in one service week

RULE:
  A WAL or NL carrier forced to a fifth day of overtime inside one
  Saturday-to-Friday service week is owed the overtime on that fifth day.
  The week is defeated by any non-Sunday worked day at or under eight
  hours: a day in (0, 8] means the carrier was not worked into overtime
  five times. Sundays and non-scheduled days never count as qualifying
  days, and only the fifth qualifying day in chronological order is
  flagged.

EXCLUSION:
  A carrier whose week touches the exclusion window is skipped wholesale:
  excluded days carry the December reason, the rest stay plain.
*/
package article8

import "time"

// detect85F5th evaluates the fifth-overtime-day rule carrier by carrier.
func detect85F5th(rows []PreparedRing, env Env) []ViolationRecord {
	eight := NewHours(8)
	byCarrier, names := groupByCarrier(rows)
	records := make([]ViolationRecord, 0, len(rows))

	for _, name := range names {
		week := byCarrier[name]

		base := func(row PreparedRing) ViolationRecord {
			return ViolationRecord{
				CarrierName: row.CarrierName,
				Date:        row.Date,
				ListStatus:  row.ListStatus,
				Verdict:     NoViolation(Rule85F5th),
				TotalHours:  row.TotalHours,
				DailyHours:  row.DailyHours,
				Indicator:   row.Indicator,
			}
		}

		anyExcluded := false
		for _, row := range week {
			if env.Calendar.IsExcluded(row.Date) {
				anyExcluded = true
				break
			}
		}

		if !week[0].ListStatus.IsWALNL() || anyExcluded {
			for _, row := range week {
				rec := base(row)
				if env.Calendar.IsExcluded(row.Date) {
					rec.Verdict = Excused(Rule85F5th, ReasonDecemberExclusion)
				}
				records = append(records, rec)
			}
			continue
		}

		// A worked non-Sunday day at or under eight hours defeats the week.
		defeated := false
		for _, row := range week {
			if row.Date.Weekday() == time.Sunday {
				continue
			}
			if row.DailyHours.IsPositive() && !row.DailyHours.GreaterThan(eight) {
				defeated = true
				break
			}
		}
		if defeated {
			for _, row := range week {
				records = append(records, base(row))
			}
			continue
		}

		// Qualifying overtime days, already chronological from grouping.
		var qualifying []PreparedRing
		for _, row := range week {
			if row.Date.Weekday() == time.Sunday || row.NSDay {
				continue
			}
			if row.DailyHours.GreaterThan(eight) {
				qualifying = append(qualifying, row)
			}
		}

		var fifthDate string
		if len(qualifying) >= 5 {
			fifthDate = qualifying[4].Date.Format(DateLayout)
		}

		for _, row := range week {
			rec := base(row)
			if fifthDate != "" && row.Date.Format(DateLayout) == fifthDate {
				rec.Remedy = row.DailyHours.Sub(eight).ClampFloor().Round2()
				if rec.Remedy.IsPositive() {
					rec.Verdict = Violation(Rule85F5th)
					rec.FifthDate = fifthDate
				}
			}
			records = append(records, rec)
		}
	}
	return records
}
