package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/stubsift-dev/stubsift/internal/domain/report"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

// TableFormatter formats analysis reports as a human-readable table.
type TableFormatter struct {
	writer      io.Writer
	EnableColor bool
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:      w,
		EnableColor: true, // Default to true, caller can disable
	}
}

// colorize returns the string wrapped in ANSI color codes if enabled.
func (f *TableFormatter) colorize(text, code string) string {
	if !f.EnableColor {
		return text
	}
	return code + text + colorReset
}

// Format writes the report as a table.
//
//nolint:errcheck // Table formatting errors are non-critical (best-effort terminal output)
func (f *TableFormatter) Format(rep *report.Report) error {
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
	fmt.Fprintf(f.writer, "Run: %s\n", f.colorize(rep.RunID.String(), colorBold))
	fmt.Fprintf(f.writer, "Started: %s\n", rep.StartTime.Format(time.RFC3339))
	fmt.Fprintf(f.writer, "Duration: %s\n", rep.Duration.Round(time.Millisecond))
	fmt.Fprintf(f.writer, "Members evaluated: %d\n", rep.MembersEvaluated)
	fmt.Fprintln(f.writer)

	if len(rep.Phases) == 0 {
		fmt.Fprintln(f.writer, "No phases executed.")
		return nil
	}

	fmt.Fprintln(f.writer, f.colorize("Phases:", colorBold))
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))

	for _, phase := range rep.Phases {
		f.formatPhase(phase)
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
	fmt.Fprintln(f.writer)

	f.formatSummary(rep)
	return nil
}

// formatPhase formats a single phase with its violations and notes.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatPhase(phase report.PhaseResult) {
	symbol, color := f.getPhaseInfo(phase)
	fmt.Fprintf(f.writer, "%s %s\n", f.colorize(symbol, color), f.colorize(phase.Name, color))
	fmt.Fprintf(f.writer, "  Duration: %s\n", phase.Duration.Round(time.Millisecond))

	for _, v := range phase.Violations {
		f.formatViolation(v)
	}
	for _, note := range phase.Notes {
		fmt.Fprintf(f.writer, "  %s: %s\n", f.colorize("note", colorGray), note)
	}

	fmt.Fprintln(f.writer)
}

// formatViolation formats a single violation line.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatViolation(v report.Violation) {
	subject := v.TypeName
	if v.Member != "" {
		subject += "." + v.Member
	}
	fmt.Fprintf(f.writer, "  %s %s [%s]\n",
		f.colorize("✗", colorRed),
		f.colorize(subject, colorBold),
		f.colorize(v.RuleID, colorCyan))
	fmt.Fprintf(f.writer, "    %s\n", v.Message)
	fmt.Fprintf(f.writer, "    Category: %s\n", v.Category)
}

// formatSummary formats the summary statistics and final score.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) formatSummary(rep *report.Report) {
	fmt.Fprintln(f.writer, f.colorize("Summary:", colorBold))
	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))

	fmt.Fprintf(f.writer, "Violations:   %d total\n", rep.Summary.TotalViolations)

	categories := make([]string, 0, len(rep.Summary.ByCategory))
	for cat := range rep.Summary.ByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		fmt.Fprintf(f.writer, "  %s %s: %d\n", f.colorize("✗", colorRed), cat, rep.Summary.ByCategory[cat])
	}

	fmt.Fprintf(f.writer, "Phases run:   %d\n", rep.Summary.PhasesRun)

	scoreColor := colorGreen
	switch {
	case rep.Score < 50:
		scoreColor = colorRed
	case rep.Score < 90:
		scoreColor = colorYellow
	}
	fmt.Fprintf(f.writer, "Score:        %s\n", f.colorize(fmt.Sprintf("%d/100", rep.Score), scoreColor))

	if rep.Summary.FullyCompliant {
		fmt.Fprintf(f.writer, "%s No unfinished code detected\n", f.colorize("✓", colorGreen))
	}

	fmt.Fprintln(f.writer, f.colorize(strings.Repeat("─", 80), colorGray))
}

// getPhaseInfo returns a symbol and color for the phase outcome.
func (f *TableFormatter) getPhaseInfo(phase report.PhaseResult) (string, string) {
	if len(phase.Violations) > 0 {
		return "✗", colorRed
	}
	return "✓", colorGreen
}
