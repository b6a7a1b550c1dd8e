// Package report provides the in-memory result contracts handed to
// callers: violations, per-phase results, and the finalized validation
// report. A report is created at run start, accumulated during the run,
// finalized once, and read-only afterwards.
package report

import (
	"sync"
	"time"

	"github.com/stubsift-dev/stubsift/internal/domain/values"
)

// DefaultScorePenalty is the readiness-score deduction per violation.
const DefaultScorePenalty = 5

// Violation records one rule firing on one symbol. Created only by
// rule evaluation, never mutated afterwards.
type Violation struct {
	TypeName string          `json:"type" yaml:"type"`
	Member   string          `json:"member,omitempty" yaml:"member,omitempty"`
	RuleID   string          `json:"rule" yaml:"rule"`
	Message  string          `json:"message" yaml:"message"`
	Category values.Category `json:"category" yaml:"category"`
}

// PhaseResult collects the violations and notes of one named phase.
// Owned exclusively by the run that produced it.
type PhaseResult struct {
	Name       string        `json:"name" yaml:"name"`
	Violations []Violation   `json:"violations" yaml:"violations"`
	Notes      []string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Duration   time.Duration `json:"duration_ms" yaml:"duration_ms"`
}

// Summary provides aggregate statistics about a run.
type Summary struct {
	TotalViolations int            `json:"total_violations" yaml:"total_violations"`
	ByCategory      map[string]int `json:"by_category,omitempty" yaml:"by_category,omitempty"`
	PhasesRun       int            `json:"phases_run" yaml:"phases_run"`
	FullyCompliant  bool           `json:"fully_compliant" yaml:"fully_compliant"`
}

// Report is the complete result of one orchestrator run. Phases appear
// in execution order; phases never reached (early termination) are
// simply absent.
type Report struct {
	RunID            values.RunID  `json:"run_id" yaml:"run_id"`
	StartTime        time.Time     `json:"start_time" yaml:"start_time"`
	EndTime          time.Time     `json:"end_time" yaml:"end_time"`
	Duration         time.Duration `json:"duration_ms" yaml:"duration_ms"`
	Phases           []PhaseResult `json:"phases" yaml:"phases"`
	Violations       []Violation   `json:"violations" yaml:"violations"`
	Notes            []string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	Score            int           `json:"score" yaml:"score"`
	MembersEvaluated int           `json:"members_evaluated" yaml:"members_evaluated"`
	Summary          Summary       `json:"summary" yaml:"summary"`

	mu sync.Mutex
}

// NewReport creates a report with a fresh run ID and an open start
// timestamp.
func NewReport() *Report {
	return &Report{
		RunID:     values.NewRunID(),
		StartTime: time.Now(),
		Phases:    make([]PhaseResult, 0),
	}
}

// AddPhaseResult appends a completed phase. Thread-safe so benchmark
// actors reusing the type stay race-free, though the orchestrator
// itself is sequential.
func (r *Report) AddPhaseResult(pr PhaseResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Phases = append(r.Phases, pr)
}

// AddNote appends a run-level diagnostic note.
func (r *Report) AddNote(note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notes = append(r.Notes, note)
}

// Phase returns the named phase result, if present.
func (r *Report) Phase(name string) (PhaseResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return PhaseResult{}, false
}

// Finalize closes the report: sets the end timestamp, flattens the
// per-phase violations in phase order, and derives the summary and
// readiness score. penalty points are deducted per violation, clamped
// to [0, 100]; zero violations scores 100 (fully compliant).
func (r *Report) Finalize(penalty int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	if penalty <= 0 {
		penalty = DefaultScorePenalty
	}

	r.Violations = r.Violations[:0]
	byCategory := make(map[string]int)
	for _, p := range r.Phases {
		for _, v := range p.Violations {
			r.Violations = append(r.Violations, v)
			byCategory[v.Category.String()]++
		}
	}

	score := 100 - penalty*len(r.Violations)
	if score < 0 {
		score = 0
	}
	r.Score = score

	r.Summary = Summary{
		TotalViolations: len(r.Violations),
		PhasesRun:       len(r.Phases),
		FullyCompliant:  len(r.Violations) == 0,
	}
	if len(byCategory) > 0 {
		r.Summary.ByCategory = byCategory
	}
}
