// Package walker enumerates (type, member) pairs across loaded
// assemblies under inclusion/exclusion filters. It applies the
// scaffolding filter and the exemption marker before yielding anything,
// so downstream rule evaluation only ever sees analyzable subjects.
package walker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/stubsift-dev/stubsift/internal/analyzer/artifact"
	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
)

// Assembly name prefixes belonging to the host framework. Skipped
// unless the configuration opts in.
var frameworkPrefixes = []string{
	"System",
	"Microsoft.",
	"mscorlib",
	"netstandard",
	"UnityEngine",
	"UnityEditor",
	"Unity.",
	"com.unity.",
}

// SubjectEnv exposes subject fields to compiled filter expressions.
type SubjectEnv struct {
	Assembly  string `expr:"assembly"`
	Namespace string `expr:"namespace"`
	Type      string `expr:"type"`
	Member    string `expr:"member"`
	Kind      string `expr:"kind"`
}

// Config controls which assemblies and types a walk visits.
type Config struct {
	// IncludeSubstrings restricts the walk to assemblies whose name
	// contains one of these substrings (empty = all).
	IncludeSubstrings []string
	// ExcludeSubstrings removes assemblies whose name contains one of
	// these substrings. Exclusions win over inclusions.
	ExcludeSubstrings []string
	// IncludeFramework opts host-framework assemblies into the walk.
	IncludeFramework bool
	// TypeAllowList, when non-empty, restricts the walk to these
	// fully-qualified type names.
	TypeAllowList []string
	// FilterProgram is an optional compiled expression evaluated per
	// subject; subjects it rejects are not yielded.
	FilterProgram *vm.Program
}

// Walker produces a flat, order-stable sequence of subjects.
type Walker struct {
	assemblies []*metadata.Assembly
	filter     *artifact.Filter
	cfg        Config
	allowSet   map[string]bool
}

// New creates a walker over the given assemblies.
func New(assemblies []*metadata.Assembly, cfg Config) *Walker {
	var allowSet map[string]bool
	if len(cfg.TypeAllowList) > 0 {
		allowSet = make(map[string]bool, len(cfg.TypeAllowList))
		for _, name := range cfg.TypeAllowList {
			allowSet[name] = true
		}
	}
	return &Walker{
		assemblies: assemblies,
		filter:     artifact.NewFilter(),
		cfg:        cfg,
		allowSet:   allowSet,
	}
}

// Walk yields subjects to fn in a stable order: for each surviving
// type, one type-level subject followed by its surviving members,
// nested types after their enclosing type. fn returning false stops
// the walk. Cancellation is cooperative: the context is checked
// between types and members, never mid-subject.
//
// Assemblies that only partially loaded still contribute the types
// that did load; their load errors are returned as diagnostic notes.
func (w *Walker) Walk(ctx context.Context, fn func(metadata.Subject) bool) ([]string, error) {
	var notes []string

	for _, asm := range w.assemblies {
		if !w.assemblyIncluded(asm.Name) {
			slog.Debug("skipping assembly", "assembly", asm.Name)
			continue
		}
		for _, loadErr := range asm.LoadErrors {
			notes = append(notes, fmt.Sprintf("assembly %s: partial load: %s", asm.Name, loadErr))
		}

		// Explicit stack so nesting depth never becomes recursion
		// depth. Types are pushed in reverse to preserve declaration
		// order when popped.
		stack := make([]*metadata.Type, 0, len(asm.Types))
		for i := len(asm.Types) - 1; i >= 0; i-- {
			stack = append(stack, asm.Types[i])
		}

		for len(stack) > 0 {
			if err := ctx.Err(); err != nil {
				return notes, err
			}

			t := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			for i := len(t.Nested) - 1; i >= 0; i-- {
				stack = append(stack, t.Nested[i])
			}

			if !w.typeIncluded(t) {
				continue
			}

			if w.matchesFilter(typeEnv(t)) {
				if !fn(metadata.Subject{Type: t}) {
					return notes, nil
				}
			}

			for _, m := range t.Members {
				if err := ctx.Err(); err != nil {
					return notes, err
				}
				if w.filter.ShouldSkipMember(m) || m.Exempt() {
					continue
				}
				if !w.matchesFilter(memberEnv(t, m)) {
					continue
				}
				if !fn(metadata.Subject{Type: t, Member: m}) {
					return notes, nil
				}
			}
		}
	}

	return notes, nil
}

// Collect runs a full walk and returns the subjects as a slice.
func (w *Walker) Collect(ctx context.Context) ([]metadata.Subject, []string, error) {
	var subjects []metadata.Subject
	notes, err := w.Walk(ctx, func(s metadata.Subject) bool {
		subjects = append(subjects, s)
		return true
	})
	return subjects, notes, err
}

func (w *Walker) assemblyIncluded(name string) bool {
	for _, sub := range w.cfg.ExcludeSubstrings {
		if strings.Contains(name, sub) {
			return false
		}
	}
	if !w.cfg.IncludeFramework && isFrameworkAssembly(name) {
		return false
	}
	if len(w.cfg.IncludeSubstrings) == 0 {
		return true
	}
	for _, sub := range w.cfg.IncludeSubstrings {
		if strings.Contains(name, sub) {
			return true
		}
	}
	return false
}

// isFrameworkAssembly reports whether the assembly belongs to the host
// framework rather than user code.
func isFrameworkAssembly(name string) bool {
	for _, prefix := range frameworkPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (w *Walker) typeIncluded(t *metadata.Type) bool {
	if w.filter.ShouldSkipType(t) || t.Exempt() {
		return false
	}
	if w.allowSet != nil && !w.allowSet[t.FullName()] {
		return false
	}
	return true
}

// matchesFilter evaluates the optional filter expression. Expression
// errors reject the subject and are logged rather than aborting the
// walk.
func (w *Walker) matchesFilter(env SubjectEnv) bool {
	if w.cfg.FilterProgram == nil {
		return true
	}
	out, err := expr.Run(w.cfg.FilterProgram, env)
	if err != nil {
		slog.Warn("filter expression failed", "type", env.Type, "member", env.Member, "error", err)
		return false
	}
	match, ok := out.(bool)
	return ok && match
}

func typeEnv(t *metadata.Type) SubjectEnv {
	asm := ""
	if t.Assembly != nil {
		asm = t.Assembly.Name
	}
	return SubjectEnv{
		Assembly:  asm,
		Namespace: t.Namespace,
		Type:      t.FullName(),
		Kind:      "type",
	}
}

func memberEnv(t *metadata.Type, m *metadata.Member) SubjectEnv {
	env := typeEnv(t)
	env.Member = m.Name
	env.Kind = m.Kind.String()
	return env
}
