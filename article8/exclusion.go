/*
exclusion.go - Penalty-overtime exclusion calendar

PURPOSE:
  Answers "is this date inside a configured penalty-overtime exclusion
  period". The 8.5.F family and MAX60 are suspended inside the window;
  MAX12 applies a carrier-type-specific partial suspension.

CONFIGURATION:
  One inclusive (start, end) range per year, nominally all of December.
  Ranges come either from code or from a small JSON file shaped as:

    {"2024": {"december_exclusion": {"start": "2024-12-01", "end": "2024-12-31"}}}

  Absence of configuration means no rule is ever suspended: the zero-value
  calendar answers false for every date.

SEE ALSO:
  - detect_85f.go, detect_max12.go, detect_max60.go: Consumers
*/
package article8

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// =============================================================================
// CALENDAR INTERFACE
// =============================================================================

// Calendar answers exclusion-period membership. Implementations must be
// safe for concurrent reads during a detection pass.
type Calendar interface {
	// IsExcluded reports whether the date is inside any configured
	// exclusion period.
	IsExcluded(date time.Time) bool
}

// NoExclusions is the default calendar: nothing is ever excluded.
type NoExclusions struct{}

func (NoExclusions) IsExcluded(time.Time) bool { return false }

// =============================================================================
// EXCLUSION TABLE
// =============================================================================

// ExclusionPeriod is one inclusive date range during which certain
// overtime caps are suspended.
type ExclusionPeriod struct {
	Year  int
	Start time.Time
	End   time.Time
}

// Contains reports range membership, inclusive on both ends.
func (p ExclusionPeriod) Contains(date time.Time) bool {
	d := Midnight(date)
	return !d.Before(Midnight(p.Start)) && !d.After(Midnight(p.End))
}

// ExclusionTable is a Calendar backed by a small set of configured ranges.
type ExclusionTable struct {
	periods []ExclusionPeriod
}

// NewExclusionTable builds a calendar from explicit periods. Periods whose
// end precedes their start are dropped rather than inverted.
func NewExclusionTable(periods []ExclusionPeriod) *ExclusionTable {
	t := &ExclusionTable{}
	for _, p := range periods {
		if Midnight(p.End).Before(Midnight(p.Start)) {
			continue
		}
		t.periods = append(t.periods, p)
	}
	sort.Slice(t.periods, func(i, j int) bool {
		return t.periods[i].Start.Before(t.periods[j].Start)
	})
	return t
}

func (t *ExclusionTable) IsExcluded(date time.Time) bool {
	if t == nil {
		return false
	}
	for _, p := range t.periods {
		if p.Contains(date) {
			return true
		}
	}
	return false
}

// Periods returns the configured ranges in chronological order.
func (t *ExclusionTable) Periods() []ExclusionPeriod {
	out := make([]ExclusionPeriod, len(t.periods))
	copy(out, t.periods)
	return out
}

// =============================================================================
// JSON CONFIG
// =============================================================================

type exclusionFile map[string]struct {
	DecemberExclusion *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"december_exclusion"`
}

// LoadExclusionPeriods reads the year-keyed JSON config. A missing file is
// not an error: detection simply runs with no exclusions.
func LoadExclusionPeriods(path string) (*ExclusionTable, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewExclusionTable(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read exclusion periods: %w", err)
	}

	var file exclusionFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse exclusion periods: %w", err)
	}

	var periods []ExclusionPeriod
	for yearStr, entry := range file {
		if entry.DecemberExclusion == nil {
			continue
		}
		start, err := time.Parse(DateLayout, entry.DecemberExclusion.Start)
		if err != nil {
			return nil, fmt.Errorf("exclusion period %s: bad start: %w", yearStr, err)
		}
		end, err := time.Parse(DateLayout, entry.DecemberExclusion.End)
		if err != nil {
			return nil, fmt.Errorf("exclusion period %s: bad end: %w", yearStr, err)
		}
		periods = append(periods, ExclusionPeriod{
			Year:  start.Year(),
			Start: Midnight(start),
			End:   Midnight(end),
		})
	}
	return NewExclusionTable(periods), nil
}
