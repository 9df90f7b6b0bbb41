/*
engine.go - Detection pass orchestration

PURPOSE:
  Runs one synchronous batch pass: prepare the week's rows once, seed the
  maximization ledger, run the seven detectors over the shared prepared
  table, and hand back one result set per rule. Detectors share no mutable
  state, so ordering is fixed only for reproducibility.

CANCELLATION:
  The pass checks the context between detectors only. A cancelled pass
  returns ErrCancelled and NO results: partial result sets are never
  exposed, so a caller's previous results stay intact.

PROGRESS:
  Coarse-grained: one callback per completed detector. Hosts running the
  pass on a background task use it to drive a progress bar; the zero
  callback is a no-op.

RE-DETECTION:
  Maximization toggles affect only 8.5.D and 8.5.G. Redetect re-runs just
  those two against a fresh ledger snapshot and returns a new result set,
  leaving the input results untouched.
*/
package article8

import "context"

// Env is the read-only environment a detector sees: the exclusion calendar
// and a consistent maximization snapshot.
type Env struct {
	Calendar Calendar
	Status   WeekStatus
}

// detectorFunc is a pure function: same rows and env, same output.
type detectorFunc func(rows []PreparedRing, env Env) []ViolationRecord

var detectors = map[Rule]detectorFunc{
	Rule85D:    detect85D,
	Rule85F:    detect85F,
	Rule85FNS:  detect85FNS,
	Rule85F5th: detect85F5th,
	Rule85G:    detect85G,
	RuleMAX12:  detectMAX12,
	RuleMAX60:  detectMAX60,
}

// gatedRules are the rules that read maximization state and must be re-run
// after an excusal toggle.
var gatedRules = []Rule{Rule85D, Rule85G}

// Progress receives coarse detection progress: the stage just finished and
// the completed/total counts.
type Progress func(stage string, completed, total int)

// Engine runs detection passes. The zero value uses no exclusions and no
// progress reporting.
type Engine struct {
	Calendar   Calendar
	OnProgress Progress
}

func (e *Engine) calendar() Calendar {
	if e.Calendar == nil {
		return NoExclusions{}
	}
	return e.Calendar
}

func (e *Engine) progress(stage string, done, total int) {
	if e.OnProgress != nil {
		e.OnProgress(stage, done, total)
	}
}

// Results is one complete detection pass over one service week.
type Results struct {
	Week     ServiceWeek
	Prepared []PreparedRing
	ByRule   map[Rule][]ViolationRecord

	// Maximization is the live ledger for the week; the host toggles it
	// and calls Redetect. Detectors only ever read snapshots of it.
	Maximization *Maximization
}

// Detect runs a full pass over one service week of clock rings. The seed,
// when non-nil, pre-loads host maximization state before detection.
func (e *Engine) Detect(ctx context.Context, rows []ClockRing, seed map[string]DaySeed) (*Results, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	prepared := PrepareRings(rows)
	week := ServiceWeekOf(prepared[0].Date)
	for _, row := range prepared {
		if row.Date.Before(week.Start) {
			week = ServiceWeekOf(row.Date)
		}
	}

	maximization := NewMaximization(week, prepared)
	if seed != nil {
		if err := maximization.Seed(seed); err != nil {
			return nil, err
		}
	}

	env := Env{Calendar: e.calendar(), Status: maximization.Snapshot()}
	total := len(detectors)
	byRule := make(map[Rule][]ViolationRecord, total)

	for i, rule := range Rules() {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		byRule[rule] = detectors[rule](prepared, env)
		e.progress(string(rule), i+1, total)
	}

	return &Results{
		Week:         week,
		Prepared:     prepared,
		ByRule:       byRule,
		Maximization: maximization,
	}, nil
}

// Redetect re-runs only the maximization-gated rules against the current
// ledger state and returns a new Results. The input results are not
// modified, so a cancelled re-run leaves the caller's view intact.
func (e *Engine) Redetect(ctx context.Context, prior *Results) (*Results, error) {
	if prior == nil || prior.Maximization == nil {
		return nil, ErrNoData
	}

	env := Env{Calendar: e.calendar(), Status: prior.Maximization.Snapshot()}
	byRule := make(map[Rule][]ViolationRecord, len(prior.ByRule))
	for rule, recs := range prior.ByRule {
		byRule[rule] = recs
	}

	total := len(gatedRules)
	for i, rule := range gatedRules {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		byRule[rule] = detectors[rule](prior.Prepared, env)
		e.progress(string(rule), i+1, total)
	}

	return &Results{
		Week:         prior.Week,
		Prepared:     prior.Prepared,
		ByRule:       byRule,
		Maximization: prior.Maximization,
	}, nil
}
