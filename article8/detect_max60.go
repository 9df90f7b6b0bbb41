/*
detect_max60.go - MAX60: the weekly work-hour cap

RULE:
  WAL, NL, and OTDL carriers may not exceed 60 paid hours in one service
  week; PTF carriers are exempt. Paid leave counts toward the total. The
  remedy is assessed once, on the final day of the carrier's week, when
  the running cumulative sum has crossed 60 -- prior days report their
  cumulative figure but carry no remedy.

DECEMBER:
  Nobody is held to the 60-hour cap inside the exclusion window.
*/
package article8

// detectMAX60 evaluates the weekly cap carrier by carrier.
func detectMAX60(rows []PreparedRing, env Env) []ViolationRecord {
	sixty := NewHours(60)
	byCarrier, names := groupByCarrier(rows)
	records := make([]ViolationRecord, 0, len(rows))

	for _, name := range names {
		week := byCarrier[name]
		lastDate := week[len(week)-1].Date

		cumulative := ZeroHours()
		for _, row := range week {
			cumulative = cumulative.Add(row.DailyHours)

			rec := ViolationRecord{
				CarrierName:     row.CarrierName,
				Date:            row.Date,
				ListStatus:      row.ListStatus,
				Verdict:         NoViolation(RuleMAX60),
				TotalHours:      row.TotalHours,
				DailyHours:      row.DailyHours,
				CumulativeHours: cumulative.Round2(),
				Indicator:       row.Indicator,
			}

			capped := row.ListStatus == StatusWAL ||
				row.ListStatus == StatusNL ||
				row.ListStatus == StatusOTDL

			switch {
			case capped && env.Calendar.IsExcluded(row.Date):
				rec.Verdict = Excused(RuleMAX60, ReasonDecemberExclusion)
			case capped && row.Date.Equal(lastDate) && cumulative.GreaterThan(sixty):
				rec.Remedy = cumulative.Sub(sixty).Round2()
				if rec.Remedy.IsPositive() {
					rec.Verdict = Violation(RuleMAX60)
				}
			}
			records = append(records, rec)
		}
	}
	return records
}
