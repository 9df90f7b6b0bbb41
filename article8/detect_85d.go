/*
detect_85d.go - Article 8.5.D: overtime worked off the bid assignment

RULE:
  WAL and NL carriers moved off their own route on a day when the OTDL was
  not maximized are owed the off-assignment overtime. On a non-scheduled
  day the whole day counts; on a regular day the remedy is the LESSER of
  off-assignment hours and hours past eight -- under-counting, never
  over-counting, when the evidence is ambiguous.

GATE:
  Read from the maximization ledger: a maximized date yields no 8.5.D
  remedy for anyone, and the rows say why.
*/
package article8

// detect85D evaluates the off-assignment overtime rule for every row.
func detect85D(rows []PreparedRing, env Env) []ViolationRecord {
	eight := NewHours(8)
	records := make([]ViolationRecord, 0, len(rows))

	for _, row := range rows {
		rec := ViolationRecord{
			CarrierName:    row.CarrierName,
			Date:           row.Date,
			ListStatus:     row.ListStatus,
			Verdict:        NoViolation(Rule85D),
			TotalHours:     row.TotalHours,
			OwnRouteHours:  row.OwnRouteHours,
			OffRouteHours:  row.OffRouteHours,
			FormattedMoves: row.FormattedMoves,
			Indicator:      row.Indicator,
		}

		maximized := env.Status.IsMaximized(row.Date)
		if maximized {
			rec.Verdict = Excused(Rule85D, ReasonOTDLMaximized)
			records = append(records, rec)
			continue
		}

		// Regular days need move evidence; an NS day needs none because
		// every hour worked is off the carrier's schedule.
		eligible := row.ListStatus.IsWALNL() && (row.NSDay || row.HasValidMoves())
		if eligible {
			if row.NSDay {
				rec.Remedy = row.TotalHours.Round2()
			} else {
				overEight := row.TotalHours.Sub(eight).ClampFloor()
				rec.Remedy = row.OffRouteHours.Min(overEight).Round2()
			}
		}
		if rec.Remedy.IsPositive() {
			rec.Verdict = Violation(Rule85D)
		}
		records = append(records, rec)
	}
	return records
}
