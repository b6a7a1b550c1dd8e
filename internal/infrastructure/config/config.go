// Package config provides the explicit configuration value consumed by
// the analyzer. Configuration is loaded once, validated up front, and
// passed into constructors; there is no process-wide mutable state.
package config

import "strings"

// AssemblyFilter selects which assemblies a run walks.
type AssemblyFilter struct {
	// Include restricts the walk to assemblies whose name contains one
	// of these substrings (empty = all).
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	// Exclude removes assemblies whose name contains one of these
	// substrings. Exclusions win.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	// IncludeFramework opts host-framework assemblies into the walk.
	IncludeFramework bool `json:"include_framework,omitempty" yaml:"include_framework,omitempty"`
}

// Config is the complete analyzer configuration.
type Config struct {
	Assemblies AssemblyFilter `json:"assemblies,omitempty" yaml:"assemblies,omitempty"`
	// TypeAllowList, when non-empty, restricts the walk to these
	// fully-qualified type names.
	TypeAllowList []string `json:"types,omitempty" yaml:"types,omitempty"`
	// Phases toggles phases by name. Absent phases are enabled.
	Phases map[string]bool `json:"phases,omitempty" yaml:"phases,omitempty"`
	// StopOnFirstViolation terminates the run at the first violation.
	StopOnFirstViolation bool `json:"stop_on_first_violation,omitempty" yaml:"stop_on_first_violation,omitempty"`
	// FilterExpr is an optional subject filter expression, compiled at
	// startup.
	FilterExpr string `json:"filter,omitempty" yaml:"filter,omitempty"`
	// YieldEvery inserts a scheduling point after this many subjects.
	YieldEvery int `json:"yield_every,omitempty" yaml:"yield_every,omitempty"`
	// ScorePenalty is the per-violation score deduction (0 = default).
	ScorePenalty int `json:"score_penalty,omitempty" yaml:"score_penalty,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Assemblies: AssemblyFilter{},
		YieldEvery: 256,
	}
}

// Validate checks the configuration for contradictions. A failure here
// is fatal at run start: the caller gets a clear error before any
// walking begins.
func (c Config) Validate() error {
	var reasons []string

	for _, inc := range c.Assemblies.Include {
		if strings.TrimSpace(inc) == "" {
			reasons = append(reasons, "assembly include filter contains an empty substring")
			continue
		}
		for _, exc := range c.Assemblies.Exclude {
			if inc == exc {
				reasons = append(reasons, "assembly filter substring both included and excluded: "+inc)
			}
		}
	}
	for _, exc := range c.Assemblies.Exclude {
		if strings.TrimSpace(exc) == "" {
			reasons = append(reasons, "assembly exclude filter contains an empty substring")
		}
	}
	for _, name := range c.TypeAllowList {
		if strings.TrimSpace(name) == "" {
			reasons = append(reasons, "type allow-list contains an empty name")
		}
	}
	if c.YieldEvery < 0 {
		reasons = append(reasons, "yield_every cannot be negative")
	}
	if c.ScorePenalty < 0 {
		reasons = append(reasons, "score_penalty cannot be negative")
	}

	if len(reasons) > 0 {
		return &InvalidConfigError{Reasons: reasons}
	}
	return nil
}
