/*
moves.go - Centesimal move-string parsing

PURPOSE:
  Decodes the raw "moves" field into ordered route segments and splits a
  day's hours into on-assignment vs. off-assignment time.

WIRE FORMAT:
  A flat comma-separated list of triples: start, end, route, repeated.
  Times are CENTESIMAL hours: the integer part is hours (0-24) and the
  fractional part is hundredths of an hour, NOT minutes. 9.50 is 9h30m.
  24.00 is a valid boundary; 24.01 is not.

FAILURE POLICY:
  Malformed input (wrong arity, non-numeric or out-of-domain times) fails
  soft: zero segments, NoMoves=true, all hours attributed on-assignment.
  A single bad record never aborts a batch. Route-number format (4 digits,
  or 5 beginning with "0") is deliberately NOT checked here; the separate
  data-hygiene workflow owns route validity, and detection must accept
  whatever it is handed (or what the user corrected at the source).

SEE ALSO:
  - prepare.go: Calls ParseMoves once per row for the whole batch
*/
package article8

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MOVE SEGMENT
// =============================================================================

// MoveSegment is one parsed (start, end, route) triple. Start and End are
// centesimal hours. A segment whose route matches the carrier's own route
// code (case-insensitive) is on-assignment.
type MoveSegment struct {
	Start Hours
	End   Hours
	Route string
}

// Duration returns End-Start, adding 24 hours when the segment crosses
// midnight.
func (m MoveSegment) Duration() Hours {
	d := m.End.Sub(m.Start)
	if d.IsNegative() {
		d = d.Add(HoursFromInt(24))
	}
	return d
}

// OnAssignment reports whether the segment was worked on the given route.
func (m MoveSegment) OnAssignment(ownRoute string) bool {
	return trimLower(m.Route) == trimLower(ownRoute)
}

// =============================================================================
// MOVE BREAKDOWN
// =============================================================================

// MoveBreakdown is the parsed result for one row.
type MoveBreakdown struct {
	Segments       []MoveSegment
	OnAssignment   Hours
	OffAssignment  Hours
	FormattedMoves string
	NoMoves        bool
}

// noMovesBreakdown is the safe fallback for sentinel or malformed input.
func noMovesBreakdown() MoveBreakdown {
	return MoveBreakdown{FormattedMoves: "No Moves", NoMoves: true}
}

// moveSentinels are raw values meaning "no move data recorded".
func isMoveSentinel(raw string) bool {
	switch trimLower(raw) {
	case "", "none", "no moves":
		return true
	}
	return false
}

// ParseMoves decodes a raw moves string against the carrier's own route
// code. It never returns an error: bad input degrades to the no-moves
// breakdown so the row stays in the batch.
func ParseMoves(raw, ownRoute string) MoveBreakdown {
	if isMoveSentinel(raw) {
		return noMovesBreakdown()
	}

	fields := strings.Split(raw, ",")
	if len(fields)%3 != 0 {
		return noMovesBreakdown()
	}

	var segments []MoveSegment
	for i := 0; i < len(fields); i += 3 {
		start, ok := parseCentesimal(fields[i])
		if !ok {
			return noMovesBreakdown()
		}
		end, ok := parseCentesimal(fields[i+1])
		if !ok {
			return noMovesBreakdown()
		}
		segments = append(segments, MoveSegment{
			Start: start,
			End:   end,
			Route: strings.TrimSpace(fields[i+2]),
		})
	}

	bd := MoveBreakdown{Segments: segments}
	for _, seg := range segments {
		if seg.OnAssignment(ownRoute) {
			bd.OnAssignment = bd.OnAssignment.Add(seg.Duration())
		} else {
			bd.OffAssignment = bd.OffAssignment.Add(seg.Duration())
		}
	}
	bd.OnAssignment = bd.OnAssignment.Round2()
	bd.OffAssignment = bd.OffAssignment.Round2()
	bd.FormattedMoves = formatMoves(segments)
	return bd
}

// parseCentesimal validates one clock value. Domain is [0.00, 24.00]; a
// fractional part on hour 24 falls outside it.
func parseCentesimal(field string) (Hours, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(field))
	if err != nil {
		return ZeroHours(), false
	}
	h := Hours{Value: d}
	if h.IsNegative() || h.GreaterThan(HoursFromInt(24)) {
		return ZeroHours(), false
	}
	return h, true
}

// formatMoves renders the per-route hour rollup shown in violation tables:
// one "rt<route> <hours>" line per route, sorted by route.
func formatMoves(segments []MoveSegment) string {
	if len(segments) == 0 {
		return "No Moves"
	}
	byRoute := make(map[string]Hours)
	for _, seg := range segments {
		byRoute[seg.Route] = byRoute[seg.Route].Add(seg.Duration())
	}
	routes := make([]string, 0, len(byRoute))
	for route := range byRoute {
		routes = append(routes, route)
	}
	sort.Strings(routes)

	lines := make([]string, 0, len(routes))
	for _, route := range routes {
		lines = append(lines, "rt"+route+" "+byRoute[route].Round2().String())
	}
	return strings.Join(lines, "\n")
}
