/*
detect_max12.go - MAX12: the daily work-hour cap

RULE:
  Every carrier has a daily ceiling. NL and PTF carriers cap at 11.50;
  WAL carriers cap at 11.50 once any move is recorded (they were worked
  between routes) and 12.00 otherwise; OTDL carriers cap at 12.00.

DECEMBER:
  The exclusion window suspends the cap selectively. OTDL carriers and WAL
  carriers working only their own assignment are exempt; a WAL carrier
  with off-assignment move time is treated like NL, so NL, PTF, and
  off-assignment WAL all stay capped at 11.50. The two exempt groups get
  their own reason labels so the tables can show why no cap applied.
*/
package article8

// detect.MAX12 limits.
var (
	maxTwelve     = NewHours(12.00)
	maxElevenHalf = NewHours(11.50)
)

// detectMAX12 evaluates the daily cap for every row.
func detectMAX12(rows []PreparedRing, env Env) []ViolationRecord {
	records := make([]ViolationRecord, 0, len(rows))

	for _, row := range rows {
		rec := ViolationRecord{
			CarrierName:    row.CarrierName,
			Date:           row.Date,
			ListStatus:     row.ListStatus,
			Verdict:        NoViolation(RuleMAX12),
			TotalHours:     row.TotalHours,
			OwnRouteHours:  row.OwnRouteHours,
			OffRouteHours:  row.OffRouteHours,
			FormattedMoves: row.FormattedMoves,
			Indicator:      row.Indicator,
		}

		excluded := env.Calendar.IsExcluded(row.Date)
		offAssignment := row.ListStatus == StatusWAL && row.HasRecordedMoves() && row.OffRouteHours.IsPositive()

		exempt := false
		limit := maxTwelve
		if excluded {
			switch {
			case row.ListStatus == StatusOTDL:
				exempt = true
				rec.Verdict = Excused(RuleMAX12, ReasonDecemberOTDL)
			case row.ListStatus == StatusWAL && !offAssignment:
				exempt = true
				rec.Verdict = Excused(RuleMAX12, ReasonDecemberWALOnRoute)
			default:
				limit = maxElevenHalf
			}
		} else {
			switch row.ListStatus {
			case StatusWAL:
				if row.HasRecordedMoves() {
					limit = maxElevenHalf
				}
			case StatusNL, StatusPTF:
				limit = maxElevenHalf
			}
		}

		if !exempt {
			rec.Remedy = row.TotalHours.Sub(limit).ClampFloor().Round2()
			if rec.Remedy.IsPositive() {
				rec.Verdict = Violation(RuleMAX12)
			}
		}
		records = append(records, rec)
	}
	return records
}
