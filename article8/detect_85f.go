/*
detect_85f.go - Article 8.5.F: over ten hours off assignment (regular day)
                and over eight hours on a non-scheduled day

BOTH RULES:
  Apply to WAL and NL carriers only and are suspended wholesale inside the
  configured exclusion window. The regular-day remedy takes the lesser of
  off-assignment hours and hours past ten; the NS-day remedy counts every
  hour past eight, on or off assignment.
*/
package article8

// detect85F evaluates the over-ten-hours rule for every row.
func detect85F(rows []PreparedRing, env Env) []ViolationRecord {
	ten := NewHours(10)
	records := make([]ViolationRecord, 0, len(rows))

	for _, row := range rows {
		rec := ViolationRecord{
			CarrierName:    row.CarrierName,
			Date:           row.Date,
			ListStatus:     row.ListStatus,
			Verdict:        NoViolation(Rule85F),
			TotalHours:     row.TotalHours,
			OwnRouteHours:  row.OwnRouteHours,
			OffRouteHours:  row.OffRouteHours,
			FormattedMoves: row.FormattedMoves,
			Indicator:      row.Indicator,
		}

		if env.Calendar.IsExcluded(row.Date) {
			rec.Verdict = Excused(Rule85F, ReasonDecemberExclusion)
			records = append(records, rec)
			continue
		}

		if row.ListStatus.IsWALNL() && row.TotalHours.GreaterThan(ten) {
			overTen := row.TotalHours.Sub(ten).ClampFloor()
			rec.Remedy = row.OffRouteHours.Min(overTen).Round2()
		}
		if rec.Remedy.IsPositive() {
			rec.Verdict = Violation(Rule85F)
		}
		records = append(records, rec)
	}
	return records
}

// detect85FNS evaluates the non-scheduled-day rule for every row.
func detect85FNS(rows []PreparedRing, env Env) []ViolationRecord {
	eight := NewHours(8)
	records := make([]ViolationRecord, 0, len(rows))

	for _, row := range rows {
		rec := ViolationRecord{
			CarrierName: row.CarrierName,
			Date:        row.Date,
			ListStatus:  row.ListStatus,
			Verdict:     NoViolation(Rule85FNS),
			TotalHours:  row.TotalHours,
			Indicator:   row.Indicator,
		}

		if env.Calendar.IsExcluded(row.Date) {
			rec.Verdict = Excused(Rule85FNS, ReasonDecemberExclusion)
			records = append(records, rec)
			continue
		}

		if row.ListStatus.IsWALNL() && row.NSDay {
			rec.Remedy = row.TotalHours.Sub(eight).ClampFloor().Round2()
		}
		if rec.Remedy.IsPositive() {
			rec.Verdict = Violation(Rule85FNS)
		}
		records = append(records, rec)
	}
	return records
}
