package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubsift-dev/stubsift/internal/domain/values"
)

func TestFinalizeFlattensInPhaseOrder(t *testing.T) {
	t.Parallel()

	r := NewReport()
	r.AddPhaseResult(PhaseResult{
		Name: "bodies",
		Violations: []Violation{
			{TypeName: "A", RuleID: "stub-body", Category: values.CatIncomplete},
			{TypeName: "B", RuleID: "cold-method", Category: values.CatIncomplete},
		},
	})
	r.AddPhaseResult(PhaseResult{
		Name: "hygiene",
		Violations: []Violation{
			{TypeName: "C", RuleID: "debug-marker", Category: values.CatDebugging},
		},
	})
	r.Finalize(0)

	require.Len(t, r.Violations, 3)
	assert.Equal(t, "A", r.Violations[0].TypeName)
	assert.Equal(t, "B", r.Violations[1].TypeName)
	assert.Equal(t, "C", r.Violations[2].TypeName)

	assert.Equal(t, 3, r.Summary.TotalViolations)
	assert.Equal(t, 2, r.Summary.PhasesRun)
	assert.False(t, r.Summary.FullyCompliant)
	assert.Equal(t, map[string]int{
		"incomplete-implementation": 2,
		"debugging-code":            1,
	}, r.Summary.ByCategory)
	assert.Equal(t, 85, r.Score, "default penalty is 5 per violation")
	assert.False(t, r.EndTime.IsZero())
}

func TestFinalizeScoreClamping(t *testing.T) {
	t.Parallel()

	r := NewReport()
	violations := make([]Violation, 30)
	for i := range violations {
		violations[i] = Violation{TypeName: "T", RuleID: "stub-body", Category: values.CatIncomplete}
	}
	r.AddPhaseResult(PhaseResult{Name: "bodies", Violations: violations})
	r.Finalize(5)

	assert.Equal(t, 0, r.Score, "score never goes negative")
}

func TestFinalizeCustomPenalty(t *testing.T) {
	t.Parallel()

	r := NewReport()
	r.AddPhaseResult(PhaseResult{
		Name:       "bodies",
		Violations: []Violation{{TypeName: "T", RuleID: "stub-body", Category: values.CatIncomplete}},
	})
	r.Finalize(20)

	assert.Equal(t, 80, r.Score)
}

func TestFinalizeCleanRun(t *testing.T) {
	t.Parallel()

	r := NewReport()
	r.AddPhaseResult(PhaseResult{Name: "bodies", Notes: []string{"phase completed clean"}})
	r.Finalize(0)

	assert.Equal(t, 100, r.Score)
	assert.True(t, r.Summary.FullyCompliant)
	assert.Nil(t, r.Summary.ByCategory)
}

func TestPhaseLookup(t *testing.T) {
	t.Parallel()

	r := NewReport()
	r.AddPhaseResult(PhaseResult{Name: "bodies"})

	_, ok := r.Phase("bodies")
	assert.True(t, ok)
	_, ok = r.Phase("missing")
	assert.False(t, ok)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	r := NewReport()
	r.AddPhaseResult(PhaseResult{
		Name:       "bodies",
		Violations: []Violation{{TypeName: "T", RuleID: "stub-body", Category: values.CatIncomplete}},
	})
	r.Finalize(0)
	first := r.Score
	r.Finalize(0)

	assert.Equal(t, first, r.Score)
	assert.Len(t, r.Violations, 1, "flattening does not duplicate on re-finalize")
}
