package rules

import (
	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
	"github.com/stubsift-dev/stubsift/internal/domain/values"
)

// Scope says which walk subjects a rule consumes. Type-scoped rules
// fire once per surviving type (on the type-level subject), member
// scoped rules fire on member subjects.
type Scope int

const (
	// ScopeMember rules evaluate individual members.
	ScopeMember Scope = iota
	// ScopeType rules evaluate the type itself.
	ScopeType
)

// CheckFunc is one rule predicate. It must be side-effect free: same
// subject and context always produce the same result.
type CheckFunc func(s metadata.Subject, ctx *Context) (violated bool, message string)

// Rule is one entry in the catalog.
type Rule struct {
	// ID is the stable identifier used in phase definitions and reports.
	ID string
	// Name is the human-readable rule name.
	Name string
	// Category tags violations produced by this rule.
	Category values.Category
	// Scope selects type-level or member-level subjects.
	Scope Scope
	// Check is the predicate.
	Check CheckFunc
}

// AppliesTo reports whether the rule's scope matches the subject.
func (r Rule) AppliesTo(s metadata.Subject) bool {
	if r.Scope == ScopeType {
		return s.IsTypeLevel()
	}
	return !s.IsTypeLevel()
}
