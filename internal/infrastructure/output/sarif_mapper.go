package output

import (
	"os"
	"path/filepath"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/stubsift-dev/stubsift/internal/domain/report"
)

type sarifMapper struct {
	rep          *report.Report
	snapshotPath string
	rules        []RuleInfo
}

func newSARIFMapper(rep *report.Report, snapshotPath string, rules []RuleInfo) *sarifMapper {
	return &sarifMapper{
		rep:          rep,
		snapshotPath: snapshotPath,
		rules:        rules,
	}
}

// mapToRun populates the SARIF run with rules, results, and invocation.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules converts the catalog to SARIF rules.
func (m *sarifMapper) addRules(run *sarif.Run) {
	for _, r := range m.rules {
		rule := sarif.NewReportingDescriptor().WithID(r.ID)
		rule.WithName(r.Name)
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: ptrString(r.Name),
		})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: m.mapCategoryToLevel(r.Category),
		})

		props := sarif.NewPropertyBag()
		props.Add("category", r.Category)
		rule.WithProperties(props)

		run.Tool.Driver.AddRule(rule)
	}
}

// addResults converts violations to SARIF results.
func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, v := range m.rep.Violations {
		run.AddResult(m.mapViolation(v))
	}
}

// mapViolation converts a single Violation to a SARIF Result.
func (m *sarifMapper) mapViolation(v report.Violation) *sarif.Result {
	result := sarif.NewRuleResult(v.RuleID)
	result.Level = m.mapCategoryToLevel(v.Category.String())
	result.Kind = "fail"
	result.Message = sarif.NewTextMessage(v.Message)

	qualified := v.TypeName
	if v.Member != "" {
		qualified += "." + v.Member
	}
	loc := sarif.NewLocation()
	loc.LogicalLocations = []*sarif.LogicalLocation{
		sarif.NewLogicalLocation().
			WithFullyQualifiedName(qualified).
			WithKind(m.locationKind(v)),
	}
	if m.snapshotPath != "" {
		loc.WithPhysicalLocation(
			sarif.NewPhysicalLocation().WithArtifactLocation(
				sarif.NewArtifactLocation().WithURI(filepath.ToSlash(m.snapshotPath)),
			),
		)
	}
	result.Locations = []*sarif.Location{loc}

	props := sarif.NewPropertyBag()
	props.Add("category", v.Category)
	result.WithProperties(props)

	return result
}

// mapCategoryToLevel converts a violation category to a SARIF level.
func (m *sarifMapper) mapCategoryToLevel(category string) string {
	switch category {
	case "incomplete-implementation":
		return "error"
	case "premature-celebration", "debugging-code":
		return "warning"
	case "unused-code":
		return "note"
	default:
		return "warning"
	}
}

// locationKind distinguishes type-level findings from member-level
// ones.
func (m *sarifMapper) locationKind(v report.Violation) string {
	if v.Member == "" {
		return "type"
	}
	return "member"
}

// addInvocation adds run metadata.
func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()
	invocation.ExecutionSuccessful = ptrBool(true)

	startTime := m.rep.StartTime.UTC().Format("2006-01-02T15:04:05.000Z")
	endTime := m.rep.EndTime.UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &startTime
	invocation.EndTimeUtc = &endTime

	if hostname, err := os.Hostname(); err == nil {
		invocation.Machine = &hostname
	}

	props := sarif.NewPropertyBag()
	props.Add("runId", m.rep.RunID.String())
	props.Add("membersEvaluated", m.rep.MembersEvaluated)
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

// addProperties adds summary statistics and the score to run
// properties.
func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("summary", m.rep.Summary)
	props.Add("score", m.rep.Score)
	run.WithProperties(props)
}
