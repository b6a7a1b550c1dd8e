package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubsift-dev/stubsift/internal/analyzer/rules"
	"github.com/stubsift-dev/stubsift/internal/analyzer/walker"
	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
	"github.com/stubsift-dev/stubsift/internal/domain/values"
)

// fixture returns one assembly with a stubbed method, a clean method,
// and a hollow enum.
func fixture() []*metadata.Assembly {
	player := &metadata.Type{
		Name: "Player", Namespace: "Game",
		Members: []*metadata.Member{
			{Kind: metadata.KindMethod, Name: "Heal", Body: []byte{0x73, 0x01, 0x02, 0x03, 0x04, 0x7A}},
			{Kind: metadata.KindMethod, Name: "Move", Body: []byte{0x28, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x2A}},
		},
	}
	mode := &metadata.Type{
		Name: "Mode", Namespace: "Game", Enum: true, ValueType: true,
		Members: []*metadata.Member{
			{Kind: metadata.KindEnumValue, Name: "None"},
		},
	}
	asm := &metadata.Assembly{Name: "Game.Core", Types: []*metadata.Type{player, mode}}
	for _, t := range asm.Types {
		t.Assembly = asm
		for _, m := range t.Members {
			m.Declaring = t
		}
	}
	return []*metadata.Assembly{asm}
}

func newFixtureOrchestrator(t *testing.T, cfg Config) (*Orchestrator, []*metadata.Assembly) {
	t.Helper()
	assemblies := fixture()
	phases, err := DefaultPhases(rules.DefaultCatalog())
	require.NoError(t, err)
	w := walker.New(assemblies, walker.Config{})
	return New(w, rules.NewContext(assemblies), phases, cfg), assemblies
}

func TestRunFindsViolations(t *testing.T) {
	t.Parallel()

	o, _ := newFixtureOrchestrator(t, Config{})
	rep, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Phases, 3)
	assert.Equal(t, "bodies", rep.Phases[0].Name)
	assert.Equal(t, "structure", rep.Phases[1].Name)
	assert.Equal(t, "hygiene", rep.Phases[2].Name)

	bodies, ok := rep.Phase("bodies")
	require.True(t, ok)
	require.Len(t, bodies.Violations, 1)
	assert.Equal(t, "stub-body", bodies.Violations[0].RuleID)
	assert.Equal(t, "Game.Player", bodies.Violations[0].TypeName)
	assert.Equal(t, "Heal", bodies.Violations[0].Member)
	assert.True(t, bodies.Violations[0].Category.Equals(values.CatIncomplete))

	structure, ok := rep.Phase("structure")
	require.True(t, ok)
	require.Len(t, structure.Violations, 1)
	assert.Equal(t, "hollow-enum", structure.Violations[0].RuleID)
	assert.Equal(t, "Game.Mode", structure.Violations[0].TypeName)
	assert.Empty(t, structure.Violations[0].Member, "type-level violations carry no member")

	hygiene, ok := rep.Phase("hygiene")
	require.True(t, ok)
	assert.Empty(t, hygiene.Violations)
	assert.Contains(t, hygiene.Notes, "phase completed clean")

	assert.Equal(t, 2, rep.Summary.TotalViolations)
	assert.False(t, rep.Summary.FullyCompliant)
	assert.Equal(t, 90, rep.Score)
	assert.False(t, rep.RunID.IsZero())
	assert.Equal(t, 5, rep.MembersEvaluated)
}

func TestRunIsRepeatable(t *testing.T) {
	t.Parallel()

	o, _ := newFixtureOrchestrator(t, Config{})
	first, err := o.Run(context.Background())
	require.NoError(t, err)
	second, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Violations, second.Violations)
	assert.Equal(t, first.Score, second.Score)
	assert.False(t, first.RunID.Equals(second.RunID), "each run gets its own ID")
}

func TestRunStopOnFirstViolation(t *testing.T) {
	t.Parallel()

	o, _ := newFixtureOrchestrator(t, Config{StopOnFirstViolation: true})
	rep, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Summary.TotalViolations)
	assert.Len(t, rep.Phases, 1, "phases after the stop are absent")
	assert.Contains(t, rep.Notes, "run stopped on first violation")
}

func TestRunDisabledPhase(t *testing.T) {
	t.Parallel()

	o, _ := newFixtureOrchestrator(t, Config{
		PhaseEnabled: map[string]bool{"structure": false},
	})
	rep, err := o.Run(context.Background())
	require.NoError(t, err)

	structure, ok := rep.Phase("structure")
	require.True(t, ok)
	assert.Empty(t, structure.Violations)
	assert.Contains(t, structure.Notes, "phase disabled by configuration")

	assert.Equal(t, 1, rep.Summary.TotalViolations, "only the stub-body violation remains")
}

func TestRunEmptyWalk(t *testing.T) {
	t.Parallel()

	phases, err := DefaultPhases(rules.DefaultCatalog())
	require.NoError(t, err)
	w := walker.New(nil, walker.Config{})
	o := New(w, rules.NewContext(nil), phases, Config{})

	rep, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, rep.Summary.FullyCompliant)
	assert.Equal(t, 100, rep.Score)
	for _, p := range rep.Phases {
		assert.Contains(t, p.Notes, "phase inconclusive: no subjects survived filtering")
	}
}

func TestRunRulePanicBecomesNote(t *testing.T) {
	t.Parallel()

	assemblies := fixture()
	panicky := rules.Rule{
		ID: "panicky", Name: "Panics", Category: values.CatOther, Scope: rules.ScopeMember,
		Check: func(metadata.Subject, *rules.Context) (bool, string) {
			panic("boom")
		},
	}
	registry, err := rules.NewRegistry(panicky)
	require.NoError(t, err)
	subset, err := registry.Subset("panicky")
	require.NoError(t, err)

	w := walker.New(assemblies, walker.Config{})
	o := New(w, rules.NewContext(assemblies), []Phase{{Name: "only", Rules: subset}}, Config{})

	rep, err := o.Run(context.Background())
	require.NoError(t, err)

	only, ok := rep.Phase("only")
	require.True(t, ok)
	assert.Empty(t, only.Violations)
	require.NotEmpty(t, only.Notes)
	assert.Contains(t, only.Notes[0], "rule panicky failed")
	assert.Contains(t, only.Notes[0], "boom")
}

func TestRunCancellationKeepsPartialReport(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o, _ := newFixtureOrchestrator(t, Config{})
	rep, err := o.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, rep)
	assert.NotZero(t, rep.EndTime, "report is finalized even on cancellation")
}

func TestRunProgressCallback(t *testing.T) {
	t.Parallel()

	var calls []int
	o, _ := newFixtureOrchestrator(t, Config{
		YieldEvery: 2,
		Progress:   func(processed int) { calls = append(calls, processed) },
	})
	_, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, calls)
	for _, c := range calls {
		assert.Zero(t, c%2)
	}
}
