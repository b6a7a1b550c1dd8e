// Package output provides formatters for analysis reports.
package output

import (
	"fmt"
	"io"

	"github.com/stubsift-dev/stubsift/internal/domain/report"
)

// Formatter renders a finished report to its writer.
type Formatter interface {
	Format(rep *report.Report) error
}

// RuleInfo carries the catalog metadata a formatter may surface next to
// violations. Plain strings, so formatters do not depend on the
// analyzer packages.
type RuleInfo struct {
	ID       string
	Name     string
	Category string
}

// Options carries formatter knobs that only some formats use.
type Options struct {
	// Indent pretty-prints JSON output.
	Indent bool
	// SnapshotPath locates the analyzed snapshot for location URIs.
	SnapshotPath string
	// Rules is the catalog backing the run, for formats that emit rule
	// descriptors.
	Rules []RuleInfo
}

// FormatterFactory builds formatters by name.
type FormatterFactory struct{}

// NewFormatterFactory creates a new formatter factory.
func NewFormatterFactory() *FormatterFactory {
	return &FormatterFactory{}
}

// Create returns a formatter for the given format name.
func (f *FormatterFactory) Create(format string, writer io.Writer, options Options) (Formatter, error) {
	switch format {
	case "table":
		return NewTableFormatter(writer), nil
	case "json":
		return NewJSONFormatter(writer, options.Indent), nil
	case "yaml":
		return NewYAMLFormatter(writer), nil
	case "sarif":
		return NewSARIFFormatter(writer, options.SnapshotPath, options.Rules), nil
	default:
		return nil, fmt.Errorf(
			"unknown format: %s (supported: %v)",
			format, f.SupportedFormats(),
		)
	}
}

// SupportedFormats returns list of available format names.
func (f *FormatterFactory) SupportedFormats() []string {
	return []string{"table", "json", "yaml", "sarif"}
}
