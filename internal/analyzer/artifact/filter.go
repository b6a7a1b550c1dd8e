// Package artifact decides whether a type or member is
// compiler-synthesized scaffolding that must never be analyzed.
// Closures, state machines, generated accessors and test fixtures were
// never hand-authored, so completeness rules do not apply to them.
package artifact

import (
	"strings"

	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
)

// Name fragments emitted by compilers and source generators. None of
// these occur in hand-written identifiers.
const (
	closureMarker      = "<>"
	stateMachineSuffix = ">d__"
	displayClassMarker = "__DisplayClass"
	lambdaMarker       = ">b__"
	iteratorMarker     = ">e__"
	backingFieldSuffix = ">k__BackingField"
	generatorPrefix    = "__"
)

// Attribute names marking generated code.
var generatedAttributes = []string{
	"CompilerGenerated",
	"GeneratedCode",
	"DebuggerNonUserCode",
}

// Attribute names marking test fixtures and test members.
var testAttributes = []string{
	"TestFixture",
	"TestClass",
	"TestMethod",
	"Test",
	"Fact",
	"Theory",
}

// Filter implements the scaffolding predicate as an OR over independent
// named checks. It is stateless and safe for concurrent use.
type Filter struct{}

// NewFilter creates a Filter.
func NewFilter() *Filter {
	return &Filter{}
}

// ShouldSkipType reports whether the type is synthesized scaffolding or
// test code. A nil type is skipped (fail safe).
func (f *Filter) ShouldSkipType(t *metadata.Type) bool {
	if t == nil {
		return true
	}
	return hasGeneratedTypeName(t.Name) ||
		hasGeneratedAttribute(t.Attributes) ||
		isTestFixture(t)
}

// ShouldSkipMember reports whether the member is synthesized
// scaffolding. The declaring type is consulted first: members of
// scaffolding types are skipped without further checks. A nil member is
// skipped (fail safe).
func (f *Filter) ShouldSkipMember(m *metadata.Member) bool {
	if m == nil {
		return true
	}
	if f.ShouldSkipType(m.Declaring) {
		return true
	}
	return hasGeneratedMemberName(m.Name) ||
		m.SpecialName ||
		hasGeneratedAttribute(m.Attributes)
}

// hasGeneratedTypeName matches closure, state-machine, display-class,
// iterator-helper and source-generator naming idioms on type names.
func hasGeneratedTypeName(name string) bool {
	return strings.HasPrefix(name, "<") ||
		strings.HasPrefix(name, generatorPrefix) ||
		strings.Contains(name, closureMarker) ||
		strings.Contains(name, stateMachineSuffix) ||
		strings.Contains(name, displayClassMarker) ||
		strings.Contains(name, iteratorMarker)
}

// hasGeneratedMemberName matches backing-field and lambda-method naming
// idioms on member names.
func hasGeneratedMemberName(name string) bool {
	return strings.HasPrefix(name, "<") ||
		strings.HasSuffix(name, backingFieldSuffix) ||
		strings.Contains(name, lambdaMarker) ||
		strings.Contains(name, stateMachineSuffix)
}

// hasGeneratedAttribute reports whether the attribute list carries a
// recognized generated-code marker. A malformed or inaccessible list
// degrades to "not generated" rather than panicking.
func hasGeneratedAttribute(attrs []metadata.Attribute) (generated bool) {
	defer func() {
		if recover() != nil {
			generated = false
		}
	}()
	for _, a := range attrs {
		for _, marker := range generatedAttributes {
			if strings.Contains(a.Name, marker) {
				return true
			}
		}
	}
	return false
}

// isTestFixture reports whether the type is test code: either marked
// with a test-framework attribute or living in a test assembly.
// Production-completeness rules do not apply to tests.
func isTestFixture(t *metadata.Type) bool {
	for _, a := range t.Attributes {
		for _, marker := range testAttributes {
			if strings.Contains(a.Name, marker) {
				return true
			}
		}
	}
	if t.Assembly != nil && strings.Contains(t.Assembly.Name, "Tests") {
		return true
	}
	return strings.Contains(t.FullName(), "Test")
}
