/*
aggregate.go - Remedy aggregation across the seven rules

PURPOSE:
  Merges the per-rule detector outputs into one per-carrier matrix: a
  remedy cell per (date, rule), a week total per rule, and the grand
  weekly remedy total. Supports both display granularities -- per-date
  (the seven daily tabs) and per-week (the summary tab).

ROSTER COMPLETENESS:
  Carriers with zero remedy across every rule still appear, with zeros.
  Audit tables must show the full roster so "no remedy" is visibly
  different from "not evaluated".
*/
package article8

import (
	"sort"
	"time"
)

// =============================================================================
// SUMMARY TYPES
// =============================================================================

// CarrierSummary is one aggregated roster row.
type CarrierSummary struct {
	CarrierName string
	ListStatus  ListStatus

	// Daily holds the per-date, per-rule remedy cells.
	Daily map[time.Time]map[Rule]Hours

	// WeekByRule holds the week-summed remedy per rule.
	WeekByRule map[Rule]Hours

	// WeeklyRemedyTotal is the grand total across every rule.
	WeeklyRemedyTotal Hours
}

// RemedyOn returns the remedy cell for a date and rule, zero when absent.
func (c CarrierSummary) RemedyOn(date time.Time, rule Rule) Hours {
	return c.Daily[Midnight(date)][rule]
}

// Summary is the aggregated output of one detection pass.
type Summary struct {
	Week     ServiceWeek
	Carriers []CarrierSummary // sorted by carrier name, complete roster
}

// Carrier returns the summary row for a carrier, or nil.
func (s *Summary) Carrier(name string) *CarrierSummary {
	for i := range s.Carriers {
		if s.Carriers[i].CarrierName == name {
			return &s.Carriers[i]
		}
	}
	return nil
}

// =============================================================================
// AGGREGATION
// =============================================================================

// Aggregate merges detector outputs into the per-carrier remedy matrix.
// The roster comes from the prepared rows, not the violation rows, so a
// carrier is present even if every detector found nothing for them.
func Aggregate(results *Results) *Summary {
	summary := &Summary{Week: results.Week}

	index := make(map[string]*CarrierSummary)
	for _, row := range results.Prepared {
		if _, ok := index[row.CarrierName]; ok {
			continue
		}
		index[row.CarrierName] = &CarrierSummary{
			CarrierName: row.CarrierName,
			ListStatus:  row.ListStatus,
			Daily:       make(map[time.Time]map[Rule]Hours),
			WeekByRule:  make(map[Rule]Hours),
		}
	}

	for rule, records := range results.ByRule {
		for _, rec := range records {
			cs, ok := index[rec.CarrierName]
			if !ok {
				// Detector emitted a carrier missing from the input roster;
				// keep it rather than losing remedy hours.
				cs = &CarrierSummary{
					CarrierName: rec.CarrierName,
					ListStatus:  rec.ListStatus,
					Daily:       make(map[time.Time]map[Rule]Hours),
					WeekByRule:  make(map[Rule]Hours),
				}
				index[rec.CarrierName] = cs
			}
			if rec.Remedy.IsZero() {
				continue
			}
			day := cs.Daily[rec.Date]
			if day == nil {
				day = make(map[Rule]Hours)
				cs.Daily[rec.Date] = day
			}
			day[rule] = day[rule].Add(rec.Remedy).Round2()
			cs.WeekByRule[rule] = cs.WeekByRule[rule].Add(rec.Remedy).Round2()
			cs.WeeklyRemedyTotal = cs.WeeklyRemedyTotal.Add(rec.Remedy).Round2()
		}
	}

	names := make([]string, 0, len(index))
	for name := range index {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		summary.Carriers = append(summary.Carriers, *index[name])
	}
	return summary
}
