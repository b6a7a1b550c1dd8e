// Package orchestrator runs rule phases over the walker's output and
// accumulates the validation report. A run is single-pass and
// sequential by design: rules and the walk have no internal
// parallelism, which keeps repeated runs byte-for-byte reproducible.
package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/stubsift-dev/stubsift/internal/analyzer/rules"
	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
	"github.com/stubsift-dev/stubsift/internal/domain/report"
)

// Phase is an independently named subset of rules run together,
// producing its own violation bucket and notes.
type Phase struct {
	Name  string
	Rules []rules.Rule
}

// DefaultPhases partitions the catalog into its canonical phases.
func DefaultPhases(registry *rules.Registry) ([]Phase, error) {
	bodies, err := registry.Subset("stub-body", "minimal-body", "cold-method", "premature-celebration")
	if err != nil {
		return nil, err
	}
	structure, err := registry.Subset("abstract-unimplemented", "abstract-on-concrete", "hollow-enum", "marker-interface")
	if err != nil {
		return nil, err
	}
	hygiene, err := registry.Subset("debug-marker", "unused-property", "unused-parameter")
	if err != nil {
		return nil, err
	}
	return []Phase{
		{Name: "bodies", Rules: bodies},
		{Name: "structure", Rules: structure},
		{Name: "hygiene", Rules: hygiene},
	}, nil
}

// Config controls one orchestrator run. It is an explicit value passed
// in at construction; there is no process-wide configuration state.
type Config struct {
	// StopOnFirstViolation terminates the run as soon as any violation
	// has been recorded. The report stays well-formed; phases after
	// the termination point are absent.
	StopOnFirstViolation bool
	// PhaseEnabled toggles phases by name. Phases not present in the
	// map are enabled.
	PhaseEnabled map[string]bool
	// YieldEvery inserts a scheduling point after this many subjects
	// so an embedding event loop is not starved. Zero disables.
	YieldEvery int
	// Progress, when set, is called at each yield point with the
	// number of subjects processed so far.
	Progress func(processed int)
	// ScorePenalty is the per-violation score deduction; zero selects
	// the default.
	ScorePenalty int
}

// Orchestrator drives phases over one walker.
type Orchestrator struct {
	walker Walker
	phases []Phase
	rctx   *rules.Context
	cfg    Config
}

// Walker is the subject source an orchestrator consumes.
type Walker interface {
	Collect(ctx context.Context) ([]metadata.Subject, []string, error)
}

// New creates an orchestrator. The rule context must have been built
// from the same assemblies the walker enumerates.
func New(w Walker, rctx *rules.Context, phases []Phase, cfg Config) *Orchestrator {
	return &Orchestrator{walker: w, phases: phases, rctx: rctx, cfg: cfg}
}

// Run executes every enabled phase in order and returns the finalized
// report. On cancellation the partially filled report is returned
// alongside the context error; violations already collected are never
// dropped.
func (o *Orchestrator) Run(ctx context.Context) (*report.Report, error) {
	rep := report.NewReport()

	subjects, notes, err := o.walker.Collect(ctx)
	for _, n := range notes {
		rep.AddNote(n)
	}
	if err != nil {
		rep.Finalize(o.cfg.ScorePenalty)
		return rep, err
	}

	processed := 0
	stopped := false

	for _, phase := range o.phases {
		if !o.phaseEnabled(phase.Name) {
			rep.AddPhaseResult(report.PhaseResult{
				Name:  phase.Name,
				Notes: []string{"phase disabled by configuration"},
			})
			continue
		}

		pr := report.PhaseResult{Name: phase.Name}
		start := time.Now()

		if len(subjects) == 0 {
			pr.Notes = append(pr.Notes, "phase inconclusive: no subjects survived filtering")
		}

		for _, s := range subjects {
			if err := ctx.Err(); err != nil {
				pr.Duration = time.Since(start)
				rep.AddPhaseResult(pr)
				rep.Finalize(o.cfg.ScorePenalty)
				return rep, err
			}

			for _, rule := range phase.Rules {
				if !rule.AppliesTo(s) {
					continue
				}
				violated, msg, fault := evaluate(rule, s, o.rctx)
				if fault != nil {
					pr.Notes = append(pr.Notes, fmt.Sprintf("rule %s failed on %s: %v", rule.ID, subjectName(s), fault))
					continue
				}
				if violated {
					pr.Violations = append(pr.Violations, report.Violation{
						TypeName: s.Type.FullName(),
						Member:   memberName(s),
						RuleID:   rule.ID,
						Message:  msg,
						Category: rule.Category,
					})
				}
			}

			processed++
			if o.cfg.YieldEvery > 0 && processed%o.cfg.YieldEvery == 0 {
				if o.cfg.Progress != nil {
					o.cfg.Progress(processed)
				}
				runtime.Gosched()
			}

			if o.cfg.StopOnFirstViolation && len(pr.Violations) > 0 {
				stopped = true
				break
			}
		}

		if len(pr.Violations) == 0 && len(pr.Notes) == 0 {
			pr.Notes = append(pr.Notes, "phase completed clean")
		}
		pr.Duration = time.Since(start)
		rep.AddPhaseResult(pr)

		if stopped {
			rep.AddNote("run stopped on first violation")
			break
		}
	}

	rep.MembersEvaluated = processed
	rep.Finalize(o.cfg.ScorePenalty)
	return rep, nil
}

func (o *Orchestrator) phaseEnabled(name string) bool {
	if o.cfg.PhaseEnabled == nil {
		return true
	}
	enabled, present := o.cfg.PhaseEnabled[name]
	return !present || enabled
}

// evaluate runs one rule with fault isolation: a panicking rule is
// reported as a fault, never aborts the run.
func evaluate(r rules.Rule, s metadata.Subject, rctx *rules.Context) (violated bool, msg string, fault error) {
	defer func() {
		if p := recover(); p != nil {
			violated = false
			fault = fmt.Errorf("%v", p)
		}
	}()
	violated, msg = r.Check(s, rctx)
	return violated, msg, nil
}

func memberName(s metadata.Subject) string {
	if s.Member == nil {
		return ""
	}
	return s.Member.Name
}

func subjectName(s metadata.Subject) string {
	if s.Member == nil {
		return s.Type.FullName()
	}
	return s.Type.FullName() + "." + s.Member.Name
}
