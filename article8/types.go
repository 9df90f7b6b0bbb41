/*
Package article8 implements contract overtime-violation detection and remedy
calculation for carrier clock-ring data.

PURPOSE:
  This package contains the rule-evaluation core: a moves parser, an
  exclusion calendar, OTDL maximization state, seven independent violation
  detectors, and a remedy aggregator. It is a pure, in-process computation
  layer: all inputs and outputs are in-memory tables, and no I/O happens
  here.

KEY CONCEPTS IN THIS FILE (types.go):
  - Hours: A decimal hour quantity (2-dp remedy precision)
  - ClockRing: One carrier's work record for one calendar date
  - Rule / Reason / Verdict: Tagged violation outcome with an explicit
    non-violation reason payload
  - ViolationRecord: One output row per carrier per date per rule

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Completeness: Every detector emits a row for every carrier/date,
     violation or not, so downstream tables keep a stable roster
  3. Soft failure: A malformed row degrades to a safe default; it is
     never dropped and never aborts a batch

SEE ALSO:
  - moves.go: Centesimal move-string parsing
  - prepare.go: One-pass batch normalization shared by all detectors
  - maximization.go: OTDL excusal ledger
  - engine.go: Orchestration of the seven detectors
*/
package article8

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Decimal hour quantity
// =============================================================================

// Hours is a quantity of work or remedy hours. Remedies are rounded to two
// decimal places at output boundaries; intermediate math stays exact.
type Hours struct {
	Value decimal.Decimal
}

func NewHours(v float64) Hours       { return Hours{Value: decimal.NewFromFloat(v)} }
func HoursFromInt(v int) Hours       { return Hours{Value: decimal.NewFromInt(int64(v))} }
func ZeroHours() Hours               { return Hours{Value: decimal.Zero} }

// ParseHours converts a raw string field to Hours. Non-numeric input falls
// back to zero: a bad value in one record must never abort a batch.
func ParseHours(s string) Hours {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroHours()
	}
	return Hours{Value: d}
}

func (h Hours) Add(o Hours) Hours          { return Hours{Value: h.Value.Add(o.Value)} }
func (h Hours) Sub(o Hours) Hours          { return Hours{Value: h.Value.Sub(o.Value)} }
func (h Hours) Neg() Hours                 { return Hours{Value: h.Value.Neg()} }
func (h Hours) IsZero() bool               { return h.Value.IsZero() }
func (h Hours) IsNegative() bool           { return h.Value.IsNegative() }
func (h Hours) IsPositive() bool           { return h.Value.IsPositive() }
func (h Hours) GreaterThan(o Hours) bool   { return h.Value.GreaterThan(o.Value) }
func (h Hours) LessThan(o Hours) bool      { return h.Value.LessThan(o.Value) }
func (h Hours) AtLeast(o Hours) bool       { return h.Value.GreaterThanOrEqual(o.Value) }
func (h Hours) Min(o Hours) Hours          { if h.LessThan(o) { return h }; return o }
func (h Hours) Max(o Hours) Hours          { if h.GreaterThan(o) { return h }; return o }

// ClampFloor returns max(h, 0). Remedy formulas never go negative.
func (h Hours) ClampFloor() Hours {
	if h.IsNegative() {
		return ZeroHours()
	}
	return h
}

// Round2 rounds to the 2-dp remedy precision.
func (h Hours) Round2() Hours { return Hours{Value: h.Value.Round(2)} }

func (h Hours) Float64() float64 { f, _ := h.Value.Float64(); return f }

func (h Hours) String() string { return h.Value.StringFixed(2) }

// =============================================================================
// LIST STATUS
// =============================================================================

// ListStatus is the carrier's overtime-list classification.
type ListStatus string

const (
	StatusOTDL    ListStatus = "otdl"
	StatusWAL     ListStatus = "wal"
	StatusNL      ListStatus = "nl"
	StatusPTF     ListStatus = "ptf"
	StatusUnknown ListStatus = "unknown"
)

// NormalizeListStatus maps a raw list-status field to the enum. Unrecognized
// values become StatusUnknown, which is ineligible for every status-gated
// rule but still appears in output rosters.
func NormalizeListStatus(raw string) ListStatus {
	switch ListStatus(trimLower(raw)) {
	case StatusOTDL:
		return StatusOTDL
	case StatusWAL:
		return StatusWAL
	case StatusNL:
		return StatusNL
	case StatusPTF:
		return StatusPTF
	default:
		return StatusUnknown
	}
}

// IsWALNL reports whether the status is eligible for the WAL/NL-gated rules.
func (s ListStatus) IsWALNL() bool { return s == StatusWAL || s == StatusNL }

// =============================================================================
// CLOCK RING - Input row
// =============================================================================

// DefaultHourLimit is applied when the roster carries no hour limit.
var DefaultHourLimit = NewHours(12.00)

// ClockRing is one carrier's work record for one calendar date, already
// joined against the carrier-status roster by the data-access collaborator.
// Immutable during a detection pass.
type ClockRing struct {
	CarrierName string
	Date        time.Time // midnight UTC
	ListStatus  ListStatus
	HourLimit   Hours // default 12.00
	TotalHours  Hours
	Code        string // day-type code, e.g. "ns day", "annual", "no call"
	LeaveType   string
	LeaveTime   Hours
	Moves       string // raw move string, or "none"/empty
}

// Midnight normalizes a timestamp to the midnight-UTC date key used
// throughout the engine.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateLayout is the canonical date rendering for output tables.
const DateLayout = "2006-01-02"

// =============================================================================
// RULES AND VERDICTS
// =============================================================================

// Rule identifies one of the seven violation types.
type Rule string

const (
	Rule85D    Rule = "8.5.D"
	Rule85F    Rule = "8.5.F"
	Rule85FNS  Rule = "8.5.F NS"
	Rule85F5th Rule = "8.5.F 5th"
	Rule85G    Rule = "8.5.G"
	RuleMAX12  Rule = "MAX12"
	RuleMAX60  Rule = "MAX60"
)

// Rules lists every rule in canonical detection order.
func Rules() []Rule {
	return []Rule{Rule85D, Rule85F, Rule85FNS, Rule85F5th, Rule85G, RuleMAX12, RuleMAX60}
}

// ParseRule matches a raw rule identifier case-insensitively, accepting
// URL-friendly spellings ("8.5.f-ns", "max12"). Returns false for
// unrecognized input.
func ParseRule(raw string) (Rule, bool) {
	key := strings.ReplaceAll(trimLower(raw), "-", " ")
	for _, r := range Rules() {
		if trimLower(string(r)) == key {
			return r, true
		}
	}
	return "", false
}

// violationLabels maps each rule to its full violation label. These strings
// are load-bearing: downstream tables and grievance paperwork key off them.
var violationLabels = map[Rule]string{
	Rule85D:    "8.5.D Overtime Off Route",
	Rule85F:    "8.5.F Overtime Over 10 Hours Off Route",
	Rule85FNS:  "8.5.F NS Overtime On a Non-Scheduled Day",
	Rule85F5th: "8.5.F 5th More Than 4 Days of Overtime in a Week",
	Rule85G:    "8.5.G OTDL Not Maximized",
	RuleMAX12:  "MAX12 More Than 12 Hours Worked in a Day",
	RuleMAX60:  "MAX60 More Than 60 Hours Worked in a Week",
}

// Reason explains why no remedy accrued on a non-violation row.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonOTDLMaximized      Reason = "OTDL Maxed"
	ReasonAutoExcused        Reason = "Auto Excused"
	ReasonManuallyExcused    Reason = "Manually Excused"
	ReasonMaximized          Reason = "Maximized"
	ReasonNonOTDL            Reason = "Non OTDL"
	ReasonDecemberExclusion  Reason = "December Exclusion"
	ReasonDecemberOTDL       Reason = "December Exclusion - OTDL"
	ReasonDecemberWALOnRoute Reason = "December Exclusion - WAL On Assignment"
)

// Verdict is the tagged outcome of a detector for one carrier/date. Either
// it is a violation of the given rule, or it is a non-violation carrying an
// optional reason.
type Verdict struct {
	Rule     Rule
	Violated bool
	Reason   Reason // meaningful only when !Violated
}

func Violation(rule Rule) Verdict        { return Verdict{Rule: rule, Violated: true} }
func NoViolation(rule Rule) Verdict      { return Verdict{Rule: rule} }
func Excused(rule Rule, r Reason) Verdict { return Verdict{Rule: rule, Reason: r} }

// Label renders the historical free-text violation_type string.
func (v Verdict) Label() string {
	if v.Violated {
		return violationLabels[v.Rule]
	}
	if v.Reason == ReasonNone {
		return "No Violation"
	}
	return "No Violation (" + string(v.Reason) + ")"
}

// =============================================================================
// VIOLATION RECORD - Output row
// =============================================================================

// ViolationRecord is one output row. Every detector emits exactly one record
// per carrier per date in range. Fields not used by a rule stay zero/empty
// rather than being omitted, so each per-rule table has a fixed schema.
type ViolationRecord struct {
	CarrierName string
	Date        time.Time
	ListStatus  ListStatus
	Verdict     Verdict
	Remedy      Hours

	TotalHours     Hours
	OwnRouteHours  Hours
	OffRouteHours  Hours
	FormattedMoves string
	Indicator      string

	// 8.5.G
	HourLimit      Hours
	TriggerCarrier string
	TriggerHours   Hours

	// Weekly rules
	DailyHours      Hours
	CumulativeHours Hours
	FifthDate       string
}

// trimLower canonicalizes free-text fields once, at comparison sites.
func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
