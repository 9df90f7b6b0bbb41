/*
maximization.go - OTDL excusal ledger

PURPOSE:
  Tracks, per date, which overtime-desired-list carriers were excused from
  working to their hour limit, and derives the per-date "is maximized"
  boolean that gates the 8.5.D and 8.5.G rules. A date is maximized when
  every tracked OTDL carrier is excused; a date with no tracked carriers is
  vacuously maximized.

STATE DISCIPLINE:
  The ledger is scoped to one service week and one roster; switching the
  active window or reloading the carrier list means constructing a fresh
  ledger, never mutating a shared singleton. Auto-excusals are computed at
  construction (or seeding) and a manual toggle for a (carrier, date) pair
  takes precedence over the auto value from then on. Mutations are
  serialized; Commit and Snapshot observe a consistent state, so a detector
  never sees a mix of pre- and post-toggle values.

SEE ALSO:
  - detect_85d.go, detect_85g.go: The two gated consumers
  - engine.go: Builds the read-only snapshot handed to detectors
*/
package article8

import (
	"sync"
	"time"
)

// autoExcusalIndicators are the display indicators that excuse an OTDL
// carrier without any manual action.
var autoExcusalIndicators = map[string]bool{
	"(sick)":       true,
	"(NS protect)": true,
	"(holiday)":    true,
	"(guaranteed)": true,
	"(annual)":     true,
}

// AutoExcuse reports whether a day is automatically excused: Sundays, the
// excusing leave indicators, and days already worked to the hour limit.
func AutoExcuse(row PreparedRing) bool {
	if row.Date.Weekday() == time.Sunday {
		return true
	}
	if autoExcusalIndicators[row.Indicator] {
		return true
	}
	return row.DailyHours.AtLeast(row.HourLimit)
}

// =============================================================================
// MAXIMIZATION STATE
// =============================================================================

// excusal is one carrier/date entry. A non-nil manual flag overrides auto.
type excusal struct {
	auto   bool
	manual *bool
}

func (e excusal) effective() bool {
	if e.manual != nil {
		return *e.manual
	}
	return e.auto
}

// Maximization is the per-date, per-carrier excusal ledger for one service
// week. Construct with NewMaximization; zero value is not usable.
type Maximization struct {
	mu        sync.Mutex
	week      ServiceWeek
	entries   map[time.Time]map[string]excusal // date -> carrier key -> entry
	maximized map[time.Time]bool               // committed per-date results
}

// NewMaximization builds a fresh ledger for the week, seeding auto-excusals
// from the OTDL rows in the prepared batch. Non-OTDL rows are ignored: only
// OTDL carriers participate in the maximized AND.
func NewMaximization(week ServiceWeek, rows []PreparedRing) *Maximization {
	m := &Maximization{
		week:      week,
		entries:   make(map[time.Time]map[string]excusal),
		maximized: make(map[time.Time]bool),
	}
	for _, row := range rows {
		if row.ListStatus != StatusOTDL || !week.Contains(row.Date) {
			continue
		}
		m.entry(row.Date)[carrierKey(row.CarrierName)] = excusal{auto: AutoExcuse(row)}
	}
	for date := range m.entries {
		m.commitLocked(date)
	}
	return m
}

func carrierKey(name string) string { return trimLower(name) }

func (m *Maximization) entry(date time.Time) map[string]excusal {
	d := Midnight(date)
	if m.entries[d] == nil {
		m.entries[d] = make(map[string]excusal)
	}
	return m.entries[d]
}

// SetManualExcusal records an explicit per-carrier override for the date.
// It does not touch other carriers' entries and is last-write-wins for
// repeated toggles of the same pair.
func (m *Maximization) SetManualExcusal(carrier string, date time.Time, excused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := m.entry(date)
	e := day[carrierKey(carrier)]
	e.manual = &excused
	day[carrierKey(carrier)] = e
}

// Commit recomputes and records the maximized flag for the date: the AND
// over all tracked carriers' effective excusals, vacuously true when no
// carriers are tracked. This is the value the gated detectors read.
func (m *Maximization) Commit(date time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commitLocked(Midnight(date))
}

func (m *Maximization) commitLocked(date time.Time) bool {
	result := true
	for _, e := range m.entries[date] {
		if !e.effective() {
			result = false
			break
		}
	}
	m.maximized[date] = result
	return result
}

// =============================================================================
// HOST PUSH-IN
// =============================================================================

// DaySeed is the host-supplied maximization state for one date, used to
// pre-seed the ledger before re-running the gated detectors after a UI
// toggle.
type DaySeed struct {
	IsMaximized     bool            `json:"is_maximized"`
	ExcusedCarriers []string        `json:"excused_carriers"`
	Overrides       map[string]bool `json:"overrides"`
}

// Seed applies host state on top of the auto-derived entries. Excused
// carriers and explicit overrides land as manual flags; the pushed
// is_maximized stands until the next Commit for that date.
func (m *Maximization) Seed(seed map[string]DaySeed) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for dateStr, day := range seed {
		date, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			return &BadDateError{Raw: dateStr, Err: err}
		}
		d := Midnight(date)
		entries := m.entry(d)
		for _, carrier := range day.ExcusedCarriers {
			e := entries[carrierKey(carrier)]
			t := true
			e.manual = &t
			entries[carrierKey(carrier)] = e
		}
		for carrier, excused := range day.Overrides {
			e := entries[carrierKey(carrier)]
			v := excused
			e.manual = &v
			entries[carrierKey(carrier)] = e
		}
		m.maximized[d] = day.IsMaximized
	}
	return nil
}

// =============================================================================
// SNAPSHOT - Read-only view for detectors
// =============================================================================

// DayStatus is the immutable per-date view a detector reads.
type DayStatus struct {
	IsMaximized bool
	Excused     map[string]bool // carrier key -> effective excusal
	Overridden  map[string]bool // carrier key had a manual flag
}

// WeekStatus is the detector-facing snapshot of the whole ledger.
type WeekStatus struct {
	days map[time.Time]DayStatus
}

// Snapshot captures a consistent copy of the ledger. Detectors hold the
// snapshot for the whole pass; later toggles cannot leak in mid-pass.
func (m *Maximization) Snapshot() WeekStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	days := make(map[time.Time]DayStatus, len(m.entries))
	for date, entries := range m.entries {
		ds := DayStatus{
			IsMaximized: m.maximized[date],
			Excused:     make(map[string]bool, len(entries)),
			Overridden:  make(map[string]bool),
		}
		for key, e := range entries {
			ds.Excused[key] = e.effective()
			if e.manual != nil {
				ds.Overridden[key] = true
			}
		}
		days[date] = ds
	}
	return WeekStatus{days: days}
}

// IsMaximized reports the committed flag for a date. Dates the ledger never
// saw have no tracked OTDL carriers and are vacuously maximized only once
// committed; for snapshot reads they report false so detection stays
// conservative about remedy suppression.
func (ws WeekStatus) IsMaximized(date time.Time) bool {
	return ws.days[Midnight(date)].IsMaximized
}

// CarrierExcused reports the effective excusal for a carrier on a date.
func (ws WeekStatus) CarrierExcused(carrier string, date time.Time) bool {
	return ws.days[Midnight(date)].Excused[carrierKey(carrier)]
}

// CarrierManuallyExcused reports whether an explicit manual override
// excuses the carrier on the date. Auto-excusals do not count here; the
// reason labels distinguish the two.
func (ws WeekStatus) CarrierManuallyExcused(carrier string, date time.Time) bool {
	ds := ws.days[Midnight(date)]
	key := carrierKey(carrier)
	return ds.Overridden[key] && ds.Excused[key]
}

// DayStatuses returns the snapshot's dates in map form for serialization.
func (ws WeekStatus) DayStatuses() map[time.Time]DayStatus {
	return ws.days
}
