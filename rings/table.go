/*
Package rings is the data-ingestion boundary between the external data
source and the detection engine.

PURPOSE:
  Raw clock-ring data arrives as loosely-typed tabular rows with free-text
  fields. This package performs the single normalization step the engine
  relies on: it verifies the required columns exist, canonicalizes field
  names and values, and produces typed article8.ClockRing rows. Detectors
  never probe for alternate column spellings; by the time rows reach them
  the names are canonical or the batch has already failed loudly.

FAILURE POLICY:
  A column omitted entirely is a caller contract violation and fails hard,
  naming the column. A bad VALUE inside a row fails soft: non-numeric
  hours become zero, an unknown list status becomes "unknown" (ineligible
  for status-gated rules), a missing hour limit becomes 12.00. The row is
  never dropped, preserving the complete-roster invariant.

SEE ALSO:
  - article8/prepare.go: Consumes the normalized rows
  - store/sqlite: Produces Tables from the database
*/
package rings

import (
	"time"

	"github.com/f-o-o-g-s/eightbox/article8"
)

// Canonical column names. The legacy data source used several spellings
// ("rings_date", "total"); the table accepts the canonical set only.
const (
	ColCarrierName = "carrier_name"
	ColDate        = "date"
	ColListStatus  = "list_status"
	ColHourLimit   = "hour_limit"
	ColTotal       = "total"
	ColCode        = "code"
	ColLeaveType   = "leave_type"
	ColLeaveTime   = "leave_time"
	ColMoves       = "moves"
)

// RequiredColumns is the caller contract for an input table.
var RequiredColumns = []string{
	ColCarrierName, ColDate, ColListStatus, ColHourLimit, ColTotal,
	ColCode, ColLeaveType, ColLeaveTime, ColMoves,
}

// Row is one raw record keyed by canonical column name.
type Row map[string]string

// Table is a batch of raw rows sharing one column set.
type Table struct {
	Columns []string
	Rows    []Row
}

// Validate checks that every required column is declared. The first
// missing column is reported; values are not inspected here.
func (t Table) Validate() error {
	declared := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		declared[c] = true
	}
	for _, c := range RequiredColumns {
		if !declared[c] {
			return &article8.MissingColumnError{Column: c}
		}
	}
	return nil
}

// Normalize validates the table and converts every row to a typed clock
// ring. Value-level problems degrade per-field; only the missing-column
// contract violation returns an error.
func (t Table) Normalize() ([]article8.ClockRing, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	rows := make([]article8.ClockRing, 0, len(t.Rows))
	for _, raw := range t.Rows {
		rows = append(rows, normalizeRow(raw))
	}
	return rows, nil
}

func normalizeRow(raw Row) article8.ClockRing {
	ring := article8.ClockRing{
		CarrierName: raw[ColCarrierName],
		Date:        parseDate(raw[ColDate]),
		ListStatus:  article8.NormalizeListStatus(raw[ColListStatus]),
		HourLimit:   article8.ParseHours(raw[ColHourLimit]),
		TotalHours:  article8.ParseHours(raw[ColTotal]),
		Code:        raw[ColCode],
		LeaveType:   raw[ColLeaveType],
		LeaveTime:   article8.ParseHours(raw[ColLeaveTime]),
		Moves:       raw[ColMoves],
	}
	if !ring.HourLimit.IsPositive() {
		ring.HourLimit = article8.DefaultHourLimit
	}
	if ring.TotalHours.IsNegative() {
		ring.TotalHours = article8.ZeroHours()
	}
	return ring
}

// dateLayouts are the renderings the data source is known to emit. The
// first is canonical; the second appears on rows exported with a time
// component attached.
var dateLayouts = []string{
	article8.DateLayout,
	"2006-01-02 15:04:05",
}

func parseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return article8.Midnight(t)
		}
	}
	// Unparseable dates collapse to the zero date rather than dropping
	// the row; the engine's grouping keeps such rows visible together.
	return time.Time{}
}
