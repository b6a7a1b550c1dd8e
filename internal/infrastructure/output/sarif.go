package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/stubsift-dev/stubsift/internal/domain/report"
)

// SARIFFormatter formats analysis reports as SARIF 2.1.0 JSON.
// Catalog rules become SARIF rules and violations become results with
// logical locations.
type SARIFFormatter struct {
	writer       io.Writer
	snapshotPath string
	rules        []RuleInfo
}

// NewSARIFFormatter creates a new SARIF formatter. snapshotPath names
// the analyzed snapshot in result locations.
func NewSARIFFormatter(writer io.Writer, snapshotPath string, rules []RuleInfo) *SARIFFormatter {
	return &SARIFFormatter{
		writer:       writer,
		snapshotPath: snapshotPath,
		rules:        rules,
	}
}

// Format writes the report as SARIF 2.1.0 JSON.
func (f *SARIFFormatter) Format(rep *report.Report) error {
	doc := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("stubsift", "https://stubsift.dev")
	run.Tool.Driver.Organization = ptrString("stubsift")

	mapper := newSARIFMapper(rep, f.snapshotPath, f.rules)
	mapper.mapToRun(run)

	doc.AddRun(run)

	if err := doc.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}

	// Add newline for terminal output
	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}

func ptrBool(b bool) *bool {
	return &b
}
