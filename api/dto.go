/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's decimal-typed domain model from the external API contract:
  hour quantities serialize as fixed two-decimal strings, dates as
  YYYY-MM-DD.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Ingest:
    RingDTO, SaveRingsRequest

  Carriers:
    CarrierDTO, SaveCarrierRequest

  Detection:
    DetectRequest, DetectResponse, ViolationRecordDTO

  Summary:
    SummaryResponse, CarrierSummaryDTO

  Maximization:
    MaximizationStatusDTO, DayStatusDTO, ExcusalRequest, ApplyRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - article8/types.go: The domain model these project
*/
package api

import (
	"time"

	"github.com/f-o-o-g-s/eightbox/article8"
)

// =============================================================================
// INGEST TYPES
// =============================================================================

// RingDTO is one raw clock-ring row as submitted by a client.
type RingDTO struct {
	CarrierName string `json:"carrier_name"`
	Date        string `json:"date"` // YYYY-MM-DD
	Total       string `json:"total"`
	Code        string `json:"code"`
	LeaveType   string `json:"leave_type"`
	LeaveTime   string `json:"leave_time"`
	Moves       string `json:"moves"`
}

// SaveRingsRequest is the body of POST /api/rings.
type SaveRingsRequest struct {
	Rings []RingDTO `json:"rings"`
}

// =============================================================================
// CARRIER TYPES
// =============================================================================

// CarrierDTO represents one roster entry in API responses.
type CarrierDTO struct {
	Name       string `json:"carrier_name"`
	ListStatus string `json:"list_status"`
	HourLimit  string `json:"hour_limit"`
}

// SaveCarrierRequest is the body of POST /api/carriers.
type SaveCarrierRequest struct {
	Name       string `json:"carrier_name"`
	ListStatus string `json:"list_status"`
	HourLimit  string `json:"hour_limit"`
}

// =============================================================================
// DETECTION TYPES
// =============================================================================

// DetectRequest is the body of POST /api/detect. Date may be any day
// inside the target service week.
type DetectRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

// DetectResponse summarizes one completed detection pass.
type DetectResponse struct {
	WeekStart  string         `json:"week_start"`
	WeekEnd    string         `json:"week_end"`
	Carriers   int            `json:"carriers"`
	Rows       int            `json:"rows"`
	Violations map[string]int `json:"violations"` // rule -> violation count
}

// ViolationRecordDTO is one output row of a per-rule table. Fields not
// used by a rule render as their zero values so every table keeps a
// fixed schema.
type ViolationRecordDTO struct {
	CarrierName     string `json:"carrier_name"`
	Date            string `json:"date"`
	ListStatus      string `json:"list_status"`
	ViolationType   string `json:"violation_type"`
	Remedy          string `json:"remedy_total"`
	TotalHours      string `json:"total_hours"`
	OwnRouteHours   string `json:"own_route_hours"`
	OffRouteHours   string `json:"off_route_hours"`
	Moves           string `json:"moves"`
	Indicator       string `json:"indicator,omitempty"`
	HourLimit       string `json:"hour_limit,omitempty"`
	TriggerCarrier  string `json:"trigger_carrier,omitempty"`
	TriggerHours    string `json:"trigger_hours,omitempty"`
	DailyHours      string `json:"daily_hours,omitempty"`
	CumulativeHours string `json:"cumulative_hours,omitempty"`
	FifthDate       string `json:"fifth_date,omitempty"`
}

func toViolationRecordDTO(rec article8.ViolationRecord) ViolationRecordDTO {
	dto := ViolationRecordDTO{
		CarrierName:   rec.CarrierName,
		Date:          rec.Date.Format(article8.DateLayout),
		ListStatus:    string(rec.ListStatus),
		ViolationType: rec.Verdict.Label(),
		Remedy:        rec.Remedy.String(),
		TotalHours:    rec.TotalHours.String(),
		OwnRouteHours: rec.OwnRouteHours.String(),
		OffRouteHours: rec.OffRouteHours.String(),
		Moves:         rec.FormattedMoves,
		Indicator:     rec.Indicator,
		FifthDate:     rec.FifthDate,
	}
	if !rec.HourLimit.IsZero() {
		dto.HourLimit = rec.HourLimit.String()
	}
	if rec.TriggerCarrier != "" {
		dto.TriggerCarrier = rec.TriggerCarrier
		dto.TriggerHours = rec.TriggerHours.String()
	}
	if !rec.DailyHours.IsZero() {
		dto.DailyHours = rec.DailyHours.String()
	}
	if !rec.CumulativeHours.IsZero() {
		dto.CumulativeHours = rec.CumulativeHours.String()
	}
	return dto
}

// =============================================================================
// SUMMARY TYPES
// =============================================================================

// CarrierSummaryDTO is one carrier's remedy roll-up.
type CarrierSummaryDTO struct {
	CarrierName string `json:"carrier_name"`
	ListStatus  string `json:"list_status"`

	// Daily is present for granularity=daily: date -> rule -> remedy.
	Daily map[string]map[string]string `json:"daily,omitempty"`

	// WeekByRule is present for granularity=weekly: rule -> remedy.
	WeekByRule map[string]string `json:"week_by_rule,omitempty"`

	WeeklyRemedyTotal string `json:"weekly_remedy_total"`
}

// SummaryResponse is the body of GET /api/summary.
type SummaryResponse struct {
	WeekStart   string              `json:"week_start"`
	WeekEnd     string              `json:"week_end"`
	Granularity string              `json:"granularity"`
	Carriers    []CarrierSummaryDTO `json:"carriers"`
}

// =============================================================================
// MAXIMIZATION TYPES
// =============================================================================

// DayStatusDTO is one date's committed maximization state.
type DayStatusDTO struct {
	Date        string          `json:"date"`
	IsMaximized bool            `json:"is_maximized"`
	Excused     map[string]bool `json:"excused_carriers"`
	Overridden  map[string]bool `json:"overrides"`
}

// MaximizationStatusDTO is the body of GET /api/maximization.
type MaximizationStatusDTO struct {
	WeekStart string         `json:"week_start"`
	WeekEnd   string         `json:"week_end"`
	Days      []DayStatusDTO `json:"days"`
}

// ExcusalRequest is the body of POST /api/maximization/excusal.
type ExcusalRequest struct {
	CarrierName string `json:"carrier_name"`
	Date        string `json:"date"`
	Excused     bool   `json:"excused"`
}

// ApplyRequest is the body of POST /api/maximization/apply.
type ApplyRequest struct {
	Date string `json:"date"`
}

// ApplyResponse reports a commit outcome and the refreshed violation
// counts for the re-evaluated rules.
type ApplyResponse struct {
	Date        string         `json:"date"`
	IsMaximized bool           `json:"is_maximized"`
	Violations  map[string]int `json:"violations"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func parseAPIDate(raw string) (time.Time, error) {
	t, err := time.Parse(article8.DateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return article8.Midnight(t), nil
}
