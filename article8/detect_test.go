package article8_test

import (
	"context"
	"testing"
	"time"

	"github.com/f-o-o-g-s/eightbox/article8"
)

// detect runs a full pass with the given calendar.
func detect(t *testing.T, cal article8.Calendar, rows ...article8.ClockRing) *article8.Results {
	t.Helper()
	engine := &article8.Engine{Calendar: cal}
	res, err := engine.Detect(context.Background(), rows, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	return res
}

// findRecord locates the output row for a carrier and date in one rule's table.
func findRecord(t *testing.T, recs []article8.ViolationRecord, name string, d time.Time) article8.ViolationRecord {
	t.Helper()
	for _, rec := range recs {
		if rec.CarrierName == name && rec.Date.Equal(article8.Midnight(d)) {
			return rec
		}
	}
	t.Fatalf("no record for %s on %s", name, d.Format(article8.DateLayout))
	return article8.ViolationRecord{}
}

// decemberCalendar excludes all of December 2024.
func decemberCalendar() article8.Calendar {
	return article8.NewExclusionTable([]article8.ExclusionPeriod{{
		Year:  2024,
		Start: date(2024, time.December, 1),
		End:   date(2024, time.December, 31),
	}})
}

// =============================================================================
// 8.5.D - OVERTIME OFF ROUTE
// =============================================================================

func Test85D_RegularDayLesserOfOffAndOverEight(t *testing.T) {
	// GIVEN: A WAL carrier with 10 total hours, 3 off-route
	// THEN: Remedy is min(3.00, 10-8) = 2.00

	monday := date(2024, time.March, 4)
	r := ring("ADAMS A", monday, article8.StatusWAL, 10.00)
	r.Moves = "8.00,11.00,5300"
	res := detect(t, nil, r)

	rec := findRecord(t, res.ByRule[article8.Rule85D], "ADAMS A", monday)
	if !rec.Verdict.Violated {
		t.Fatal("expected a violation")
	}
	if got := rec.Remedy.String(); got != "2.00" {
		t.Errorf("remedy = %s, want 2.00", got)
	}
	if got := rec.Verdict.Label(); got != "8.5.D Overtime Off Route" {
		t.Errorf("label = %q", got)
	}
}

func Test85D_OffRouteSmallerThanOvertime(t *testing.T) {
	// 1.5 hours off route, 2 hours past eight: the remedy under-counts
	// to the move evidence.
	monday := date(2024, time.March, 4)
	r := ring("ADAMS A", monday, article8.StatusWAL, 10.00)
	r.Moves = "8.00,9.50,5300"
	res := detect(t, nil, r)

	rec := findRecord(t, res.ByRule[article8.Rule85D], "ADAMS A", monday)
	if got := rec.Remedy.String(); got != "1.50" {
		t.Errorf("remedy = %s, want 1.50", got)
	}
}

func Test85D_NSDayWholeDayWithoutMoves(t *testing.T) {
	// On a non-scheduled day every hour is off the carrier's schedule:
	// no move evidence is required and the whole total is owed.
	monday := date(2024, time.March, 4)
	r := ring("ADAMS A", monday, article8.StatusNL, 8.00)
	r.Code = "ns day"
	res := detect(t, nil, r)

	rec := findRecord(t, res.ByRule[article8.Rule85D], "ADAMS A", monday)
	if !rec.Verdict.Violated {
		t.Fatal("expected a violation")
	}
	if got := rec.Remedy.String(); got != "8.00" {
		t.Errorf("remedy = %s, want 8.00", got)
	}
}

func Test85D_RegularDayNeedsMoveEvidence(t *testing.T) {
	monday := date(2024, time.March, 4)
	res := detect(t, nil, ring("ADAMS A", monday, article8.StatusWAL, 10.00))

	rec := findRecord(t, res.ByRule[article8.Rule85D], "ADAMS A", monday)
	if rec.Verdict.Violated {
		t.Error("no moves recorded: regular-day 8.5.D cannot fire")
	}
}

func Test85D_OTDLIneligible(t *testing.T) {
	monday := date(2024, time.March, 4)
	res := detect(t, nil, ring("ADAMS A", monday, article8.StatusOTDL, 11.00))

	rec := findRecord(t, res.ByRule[article8.Rule85D], "ADAMS A", monday)
	if rec.Verdict.Violated {
		t.Error("OTDL carriers are not 8.5.D eligible")
	}
}

func Test85D_MaximizedDateExcusesEveryone(t *testing.T) {
	// GIVEN: A WAL carrier with off-route overtime AND an OTDL carrier
	//        worked to the limit (so the date commits as maximized)
	// THEN: The 8.5.D row carries the OTDL Maxed reason and no remedy

	monday := date(2024, time.March, 4)
	wal := ring("ADAMS A", monday, article8.StatusWAL, 10.00)
	wal.Moves = "8.00,11.00,5300"
	otdl := ring("BAKER B", monday, article8.StatusOTDL, 12.00)

	res := detect(t, nil, wal, otdl)

	rec := findRecord(t, res.ByRule[article8.Rule85D], "ADAMS A", monday)
	if rec.Verdict.Violated {
		t.Fatal("maximized date must suppress 8.5.D")
	}
	if got := rec.Verdict.Label(); got != "No Violation (OTDL Maxed)" {
		t.Errorf("label = %q, want \"No Violation (OTDL Maxed)\"", got)
	}
}

// =============================================================================
// 8.5.F - OVER TEN HOURS OFF ROUTE
// =============================================================================

func Test85F_LesserOfOffRouteAndOverTen(t *testing.T) {
	monday := date(2024, time.March, 4)
	r := ring("ADAMS A", monday, article8.StatusWAL, 11.50)
	r.Moves = "8.00,11.00,5300" // 3.00 off route
	res := detect(t, nil, r)

	rec := findRecord(t, res.ByRule[article8.Rule85F], "ADAMS A", monday)
	if !rec.Verdict.Violated {
		t.Fatal("expected a violation")
	}
	if got := rec.Remedy.String(); got != "1.50" {
		t.Errorf("remedy = %s, want min(3.00, 11.50-10) = 1.50", got)
	}
}

func Test85F_ExactlyTenIsNoViolation(t *testing.T) {
	monday := date(2024, time.March, 4)
	r := ring("ADAMS A", monday, article8.StatusWAL, 10.00)
	r.Moves = "8.00,11.00,5300"
	res := detect(t, nil, r)

	rec := findRecord(t, res.ByRule[article8.Rule85F], "ADAMS A", monday)
	if rec.Verdict.Violated {
		t.Error("threshold is strict: exactly 10.00 does not violate")
	}
}

func Test85F_DecemberExclusion(t *testing.T) {
	dec := date(2024, time.December, 3)
	r := ring("ADAMS A", dec, article8.StatusWAL, 12.00)
	r.Moves = "8.00,12.00,5300"
	res := detect(t, decemberCalendar(), r)

	rec := findRecord(t, res.ByRule[article8.Rule85F], "ADAMS A", dec)
	if rec.Verdict.Violated {
		t.Fatal("exclusion window suspends 8.5.F")
	}
	if got := rec.Verdict.Label(); got != "No Violation (December Exclusion)" {
		t.Errorf("label = %q", got)
	}
}

// =============================================================================
// 8.5.F NS - NON-SCHEDULED DAY
// =============================================================================

func Test85FNS_OverEightOnNSDay(t *testing.T) {
	monday := date(2024, time.March, 4)
	r := ring("ADAMS A", monday, article8.StatusNL, 9.25)
	r.Code = "ns day"
	res := detect(t, nil, r)

	rec := findRecord(t, res.ByRule[article8.Rule85FNS], "ADAMS A", monday)
	if !rec.Verdict.Violated {
		t.Fatal("expected a violation")
	}
	if got := rec.Remedy.String(); got != "1.25" {
		t.Errorf("remedy = %s, want 1.25", got)
	}
}

func Test85FNS_RegularDayNotCovered(t *testing.T) {
	monday := date(2024, time.March, 4)
	res := detect(t, nil, ring("ADAMS A", monday, article8.StatusNL, 9.25))

	rec := findRecord(t, res.ByRule[article8.Rule85FNS], "ADAMS A", monday)
	if rec.Verdict.Violated {
		t.Error("8.5.F NS only applies on non-scheduled days")
	}
}

// =============================================================================
// 8.5.F 5TH - FIFTH OVERTIME DAY
// =============================================================================

// fifthWeek builds Monday..Friday overtime rows plus an optional Saturday.
func fifthWeek(name string, status article8.ListStatus, totals map[int]float64) []article8.ClockRing {
	// Keys are March 2024 day-of-month inside the week Sat 02 .. Fri 08.
	rows := make([]article8.ClockRing, 0, len(totals))
	for day, total := range totals {
		rows = append(rows, ring(name, date(2024, time.March, day), status, total))
	}
	return rows
}

func Test85F5th_FifthOvertimeDayFlagged(t *testing.T) {
	// GIVEN: Overtime worked Saturday and Monday through Thursday
	// THEN: Thursday (the fifth qualifying day chronologically) carries
	//       the remedy; the other days stay plain.

	rows := fifthWeek("ADAMS A", article8.StatusWAL, map[int]float64{
		2: 9.00, 4: 10.00, 5: 9.00, 6: 9.00, 7: 9.50,
	})
	res := detect(t, nil, rows...)

	thursday := date(2024, time.March, 7)
	rec := findRecord(t, res.ByRule[article8.Rule85F5th], "ADAMS A", thursday)
	if !rec.Verdict.Violated {
		t.Fatal("fifth overtime day must be flagged")
	}
	if got := rec.Remedy.String(); got != "1.50" {
		t.Errorf("remedy = %s, want 9.50-8 = 1.50", got)
	}
	if rec.FifthDate != "2024-03-07" {
		t.Errorf("fifth date = %q, want 2024-03-07", rec.FifthDate)
	}

	monday := findRecord(t, res.ByRule[article8.Rule85F5th], "ADAMS A", date(2024, time.March, 4))
	if monday.Verdict.Violated {
		t.Error("only the fifth day carries the violation")
	}
}

func Test85F5th_ShortWorkedDayDefeatsTheWeek(t *testing.T) {
	// A non-Sunday worked day at or under eight hours means the carrier
	// was not forced to five overtime days.
	rows := fifthWeek("ADAMS A", article8.StatusWAL, map[int]float64{
		2: 9.00, 4: 10.00, 5: 6.00, 6: 9.00, 7: 9.50, 8: 9.00,
	})
	res := detect(t, nil, rows...)

	for _, rec := range res.ByRule[article8.Rule85F5th] {
		if rec.Verdict.Violated {
			t.Fatalf("defeated week must have no violations, got one on %s",
				rec.Date.Format(article8.DateLayout))
		}
	}
}

func Test85F5th_SundayDoesNotCountEitherWay(t *testing.T) {
	// A short Sunday does not defeat the week, and a long Sunday does not
	// qualify toward the five.
	rows := fifthWeek("ADAMS A", article8.StatusWAL, map[int]float64{
		2: 9.00, 3: 4.00, 4: 10.00, 5: 9.00, 6: 9.00, 7: 9.50,
	})
	res := detect(t, nil, rows...)

	rec := findRecord(t, res.ByRule[article8.Rule85F5th], "ADAMS A", date(2024, time.March, 7))
	if !rec.Verdict.Violated {
		t.Error("short Sunday must not defeat the week")
	}
}

func Test85F5th_FourOvertimeDaysNoViolation(t *testing.T) {
	rows := fifthWeek("ADAMS A", article8.StatusWAL, map[int]float64{
		2: 9.00, 4: 10.00, 5: 9.00, 6: 9.00,
	})
	res := detect(t, nil, rows...)

	for _, rec := range res.ByRule[article8.Rule85F5th] {
		if rec.Verdict.Violated {
			t.Fatal("four overtime days are within 8.5.F")
		}
	}
}

func Test85F5th_OTDLIneligible(t *testing.T) {
	rows := fifthWeek("ADAMS A", article8.StatusOTDL, map[int]float64{
		2: 9.00, 4: 10.00, 5: 9.00, 6: 9.00, 7: 9.50,
	})
	res := detect(t, nil, rows...)

	for _, rec := range res.ByRule[article8.Rule85F5th] {
		if rec.Verdict.Violated {
			t.Fatal("OTDL carriers are not 8.5.F 5th eligible")
		}
	}
}

// =============================================================================
// 8.5.G - OTDL NOT MAXIMIZED
// =============================================================================

func Test85G_AvailableOTDLOwedUpToLimit(t *testing.T) {
	// GIVEN: A WAL trigger past eight hours and an available OTDL carrier
	//        at 8 hours against a 12.00 limit
	// THEN: The OTDL carrier is owed 4.00 and the trigger rides along

	monday := date(2024, time.March, 4)
	res := detect(t, nil,
		ring("ADAMS A", monday, article8.StatusWAL, 10.00),
		ring("BAKER B", monday, article8.StatusOTDL, 8.00),
	)

	rec := findRecord(t, res.ByRule[article8.Rule85G], "BAKER B", monday)
	if !rec.Verdict.Violated {
		t.Fatal("expected a violation")
	}
	if got := rec.Remedy.String(); got != "4.00" {
		t.Errorf("remedy = %s, want 4.00", got)
	}
	if rec.TriggerCarrier != "ADAMS A" || rec.TriggerHours.String() != "10.00" {
		t.Errorf("trigger = %s/%s, want ADAMS A/10.00", rec.TriggerCarrier, rec.TriggerHours)
	}
}

func Test85G_HighestOvertimeTriggers(t *testing.T) {
	monday := date(2024, time.March, 4)
	res := detect(t, nil,
		ring("ADAMS A", monday, article8.StatusWAL, 9.00),
		ring("CLARK C", monday, article8.StatusNL, 11.00),
		ring("BAKER B", monday, article8.StatusOTDL, 8.00),
	)

	rec := findRecord(t, res.ByRule[article8.Rule85G], "BAKER B", monday)
	if rec.TriggerCarrier != "CLARK C" {
		t.Errorf("trigger = %s, want the highest-hours carrier CLARK C", rec.TriggerCarrier)
	}
}

func Test85G_ReasonCascade(t *testing.T) {
	monday := date(2024, time.March, 4)
	sick := ring("BAKER B", monday, article8.StatusOTDL, 0)
	sick.Code = "sick"
	sick.LeaveType = "sick"

	res := detect(t, nil,
		ring("ADAMS A", monday, article8.StatusWAL, 10.00),
		sick,
		ring("DAVIS D", monday, article8.StatusOTDL, 12.00),
		ring("EVANS E", monday, article8.StatusOTDL, 8.00),
	)

	recs := res.ByRule[article8.Rule85G]

	if got := findRecord(t, recs, "BAKER B", monday).Verdict.Label(); got != "No Violation (Auto Excused)" {
		t.Errorf("sick OTDL label = %q", got)
	}
	if got := findRecord(t, recs, "DAVIS D", monday).Verdict.Label(); got != "No Violation (Maximized)" {
		t.Errorf("at-limit OTDL label = %q", got)
	}
	if got := findRecord(t, recs, "ADAMS A", monday).Verdict.Label(); got != "No Violation (Non OTDL)" {
		t.Errorf("WAL label = %q", got)
	}
	if !findRecord(t, recs, "EVANS E", monday).Verdict.Violated {
		t.Error("the available OTDL carrier is owed the remedy")
	}
}

func Test85G_ManualExcusalSuppressesAfterRedetect(t *testing.T) {
	// GIVEN: A violation pass with an available OTDL carrier
	// WHEN: The carrier is manually excused, the date committed, and the
	//       gated rules re-run
	// THEN: The row flips to Manually Excused with no remedy

	monday := date(2024, time.March, 4)
	engine := &article8.Engine{}
	res, err := engine.Detect(context.Background(),
		[]article8.ClockRing{
			ring("ADAMS A", monday, article8.StatusWAL, 10.00),
			ring("BAKER B", monday, article8.StatusOTDL, 8.00),
		}, nil)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if !findRecord(t, res.ByRule[article8.Rule85G], "BAKER B", monday).Verdict.Violated {
		t.Fatal("precondition: violation before excusal")
	}

	res.Maximization.SetManualExcusal("BAKER B", monday, true)
	res.Maximization.Commit(monday)

	updated, err := engine.Redetect(context.Background(), res)
	if err != nil {
		t.Fatalf("Redetect: %v", err)
	}

	rec := findRecord(t, updated.ByRule[article8.Rule85G], "BAKER B", monday)
	if rec.Verdict.Violated {
		t.Fatal("manual excusal must suppress the remedy")
	}
	if got := rec.Verdict.Label(); got != "No Violation (Manually Excused)" {
		t.Errorf("label = %q", got)
	}

	// The prior results are untouched.
	if !findRecord(t, res.ByRule[article8.Rule85G], "BAKER B", monday).Verdict.Violated {
		t.Error("input results must not be modified by Redetect")
	}
}

func Test85G_NoTriggerNoViolation(t *testing.T) {
	monday := date(2024, time.March, 4)
	res := detect(t, nil,
		ring("ADAMS A", monday, article8.StatusWAL, 8.00),
		ring("BAKER B", monday, article8.StatusOTDL, 8.00),
	)

	rec := findRecord(t, res.ByRule[article8.Rule85G], "BAKER B", monday)
	if rec.Verdict.Violated {
		t.Error("no WAL/NL overtime means no 8.5.G trigger")
	}
	if rec.TriggerCarrier != "" {
		t.Errorf("trigger carrier = %q, want empty", rec.TriggerCarrier)
	}
}

// =============================================================================
// MAX12 - DAILY CAP
// =============================================================================

func TestMAX12_Limits(t *testing.T) {
	monday := date(2024, time.March, 4)
	cases := []struct {
		name   string
		status article8.ListStatus
		moves  string
		total  float64
		remedy string
	}{
		{"NL capped at 11.5", article8.StatusNL, "none", 12.00, "0.50"},
		{"PTF capped at 11.5", article8.StatusPTF, "none", 12.00, "0.50"},
		{"OTDL capped at 12", article8.StatusOTDL, "none", 12.75, "0.75"},
		{"WAL without moves capped at 12", article8.StatusWAL, "none", 12.40, "0.40"},
		{"WAL with moves capped at 11.5", article8.StatusWAL, "8.00,9.00,5300", 12.40, "0.90"},
		{"under the cap", article8.StatusOTDL, "none", 11.99, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ring("ADAMS A", monday, tc.status, tc.total)
			r.Moves = tc.moves
			res := detect(t, nil, r)

			rec := findRecord(t, res.ByRule[article8.RuleMAX12], "ADAMS A", monday)
			if got := rec.Remedy.String(); got != tc.remedy {
				t.Errorf("remedy = %s, want %s", got, tc.remedy)
			}
			if rec.Verdict.Violated != (tc.remedy != "0.00") {
				t.Errorf("violated = %v with remedy %s", rec.Verdict.Violated, tc.remedy)
			}
		})
	}
}

func TestMAX12_WALMalformedMovesStillLowerLimit(t *testing.T) {
	// Any recorded move text lowers the WAL cap, parseable or not.
	monday := date(2024, time.March, 4)
	r := ring("ADAMS A", monday, article8.StatusWAL, 12.00)
	r.Moves = "garbage"
	res := detect(t, nil, r)

	rec := findRecord(t, res.ByRule[article8.RuleMAX12], "ADAMS A", monday)
	if got := rec.Remedy.String(); got != "0.50" {
		t.Errorf("remedy = %s, want 0.50", got)
	}
}

func TestMAX12_DecemberPolicies(t *testing.T) {
	dec := date(2024, time.December, 3)
	cal := decemberCalendar()

	// OTDL: fully exempt.
	res := detect(t, cal, ring("ADAMS A", dec, article8.StatusOTDL, 13.00))
	rec := findRecord(t, res.ByRule[article8.RuleMAX12], "ADAMS A", dec)
	if rec.Verdict.Violated {
		t.Error("OTDL is exempt in December")
	}
	if got := rec.Verdict.Label(); got != "No Violation (December Exclusion - OTDL)" {
		t.Errorf("label = %q", got)
	}

	// WAL on own assignment: exempt.
	res = detect(t, cal, ring("BAKER B", dec, article8.StatusWAL, 13.00))
	rec = findRecord(t, res.ByRule[article8.RuleMAX12], "BAKER B", dec)
	if rec.Verdict.Violated {
		t.Error("WAL working only its own assignment is exempt in December")
	}

	// WAL moved off assignment: treated like NL, capped at 11.5.
	off := ring("CLARK C", dec, article8.StatusWAL, 13.00)
	off.Moves = "8.00,9.00,5300"
	res = detect(t, cal, off)
	rec = findRecord(t, res.ByRule[article8.RuleMAX12], "CLARK C", dec)
	if got := rec.Remedy.String(); got != "1.50" {
		t.Errorf("remedy = %s, want 1.50", got)
	}

	// NL: capped at 11.5 even in December.
	res = detect(t, cal, ring("DAVIS D", dec, article8.StatusNL, 12.00))
	rec = findRecord(t, res.ByRule[article8.RuleMAX12], "DAVIS D", dec)
	if got := rec.Remedy.String(); got != "0.50" {
		t.Errorf("remedy = %s, want 0.50", got)
	}
}

// =============================================================================
// MAX60 - WEEKLY CAP
// =============================================================================

func TestMAX60_RemedyOnFinalDayOnly(t *testing.T) {
	// GIVEN: 11 hours worked six days running (66 total)
	// THEN: Only the Friday row carries the 6.00 remedy; earlier rows
	//       report their cumulative figure with none.

	var rows []article8.ClockRing
	for day := 2; day <= 8; day++ {
		if day == 3 { // Sunday off
			continue
		}
		rows = append(rows, ring("ADAMS A", date(2024, time.March, day), article8.StatusOTDL, 11.00))
	}
	res := detect(t, nil, rows...)

	friday := findRecord(t, res.ByRule[article8.RuleMAX60], "ADAMS A", date(2024, time.March, 8))
	if !friday.Verdict.Violated {
		t.Fatal("expected a violation on the final day")
	}
	if got := friday.Remedy.String(); got != "6.00" {
		t.Errorf("remedy = %s, want 6.00", got)
	}
	if got := friday.CumulativeHours.String(); got != "66.00" {
		t.Errorf("cumulative = %s, want 66.00", got)
	}

	thursday := findRecord(t, res.ByRule[article8.RuleMAX60], "ADAMS A", date(2024, time.March, 7))
	if thursday.Verdict.Violated || !thursday.Remedy.IsZero() {
		t.Error("intermediate days carry no remedy")
	}
	if got := thursday.CumulativeHours.String(); got != "55.00" {
		t.Errorf("thursday cumulative = %s, want 55.00", got)
	}
}

func TestMAX60_DuplicateDayRowsNotDoubleCounted(t *testing.T) {
	// A day submitted twice collapses to its last row before the weekly
	// sum runs: 55 + 11 stays 66, not 77.
	var rows []article8.ClockRing
	for day := 2; day <= 8; day++ {
		if day == 3 {
			continue
		}
		rows = append(rows, ring("ADAMS A", date(2024, time.March, day), article8.StatusOTDL, 11.00))
	}
	rows = append(rows, ring("ADAMS A", date(2024, time.March, 8), article8.StatusOTDL, 11.00))

	res := detect(t, nil, rows...)

	friday := findRecord(t, res.ByRule[article8.RuleMAX60], "ADAMS A", date(2024, time.March, 8))
	if got := friday.CumulativeHours.String(); got != "66.00" {
		t.Errorf("cumulative = %s, want 66.00", got)
	}
	if got := friday.Remedy.String(); got != "6.00" {
		t.Errorf("remedy = %s, want 6.00", got)
	}
}

func TestMAX60_PaidLeaveCounts(t *testing.T) {
	// Five 11-hour days plus an 8-hour annual leave day crosses 60.
	var rows []article8.ClockRing
	for day := 2; day <= 7; day++ {
		if day == 3 {
			continue
		}
		rows = append(rows, ring("ADAMS A", date(2024, time.March, day), article8.StatusNL, 11.00))
	}
	leave := ring("ADAMS A", date(2024, time.March, 8), article8.StatusNL, 0)
	leave.LeaveType = "annual"
	leave.LeaveTime = article8.NewHours(8.00)
	rows = append(rows, leave)

	res := detect(t, nil, rows...)

	friday := findRecord(t, res.ByRule[article8.RuleMAX60], "ADAMS A", date(2024, time.March, 8))
	if !friday.Verdict.Violated {
		t.Fatal("paid leave counts toward the 60-hour week")
	}
	if got := friday.Remedy.String(); got != "3.00" {
		t.Errorf("remedy = %s, want 55+8-60 = 3.00", got)
	}
}

func TestMAX60_PTFExempt(t *testing.T) {
	var rows []article8.ClockRing
	for day := 2; day <= 8; day++ {
		rows = append(rows, ring("ADAMS A", date(2024, time.March, day), article8.StatusPTF, 11.00))
	}
	res := detect(t, nil, rows...)

	for _, rec := range res.ByRule[article8.RuleMAX60] {
		if rec.Verdict.Violated {
			t.Fatal("PTF carriers are exempt from MAX60")
		}
	}
}

func TestMAX60_DecemberExclusion(t *testing.T) {
	var rows []article8.ClockRing
	for day := 7; day <= 13; day++ {
		rows = append(rows, ring("ADAMS A", date(2024, time.December, day), article8.StatusOTDL, 11.00))
	}
	res := detect(t, decemberCalendar(), rows...)

	for _, rec := range res.ByRule[article8.RuleMAX60] {
		if rec.Verdict.Violated {
			t.Fatal("exclusion window suspends MAX60")
		}
		if got := rec.Verdict.Label(); got != "No Violation (December Exclusion)" {
			t.Errorf("label = %q", got)
		}
	}
}

// =============================================================================
// COMPLETENESS
// =============================================================================

func TestDetect_EveryRuleEmitsEveryRow(t *testing.T) {
	// Three carriers over two days: every rule's table must hold exactly
	// one record per carrier per date, violation or not.
	monday, tuesday := date(2024, time.March, 4), date(2024, time.March, 5)
	res := detect(t, nil,
		ring("ADAMS A", monday, article8.StatusWAL, 10.00),
		ring("ADAMS A", tuesday, article8.StatusWAL, 8.00),
		ring("BAKER B", monday, article8.StatusOTDL, 8.00),
		ring("BAKER B", tuesday, article8.StatusOTDL, 12.00),
		ring("CLARK C", monday, article8.StatusPTF, 6.00),
		ring("CLARK C", tuesday, article8.StatusPTF, 6.00),
	)

	for _, rule := range article8.Rules() {
		recs := res.ByRule[rule]
		if len(recs) != 6 {
			t.Errorf("%s: %d records, want 6", rule, len(recs))
		}
		seen := make(map[string]bool)
		for _, rec := range recs {
			key := rec.CarrierName + "|" + rec.Date.Format(article8.DateLayout)
			if seen[key] {
				t.Errorf("%s: duplicate record for %s", rule, key)
			}
			seen[key] = true
			if rec.Remedy.IsNegative() {
				t.Errorf("%s: negative remedy for %s", rule, key)
			}
			if rec.Verdict.Violated && !rec.Remedy.IsPositive() {
				t.Errorf("%s: violation with no remedy for %s", rule, key)
			}
			if !rec.Verdict.Violated && !rec.Remedy.IsZero() {
				t.Errorf("%s: remedy without a violation for %s", rule, key)
			}
		}
	}
}

func TestDetect_Deterministic(t *testing.T) {
	rows := []article8.ClockRing{
		ring("CLARK C", date(2024, time.March, 5), article8.StatusWAL, 10.00),
		ring("ADAMS A", date(2024, time.March, 4), article8.StatusOTDL, 8.00),
		ring("BAKER B", date(2024, time.March, 4), article8.StatusNL, 11.00),
	}
	a := detect(t, nil, rows...)
	b := detect(t, nil, rows...)

	for _, rule := range article8.Rules() {
		if len(a.ByRule[rule]) != len(b.ByRule[rule]) {
			t.Fatalf("%s: run lengths differ", rule)
		}
		for i := range a.ByRule[rule] {
			ra, rb := a.ByRule[rule][i], b.ByRule[rule][i]
			if ra.CarrierName != rb.CarrierName || !ra.Date.Equal(rb.Date) ||
				ra.Verdict != rb.Verdict || ra.Remedy.String() != rb.Remedy.String() {
				t.Fatalf("%s: record %d differs between identical runs", rule, i)
			}
		}
	}
}
