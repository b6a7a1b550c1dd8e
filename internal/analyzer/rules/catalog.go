package rules

import (
	"fmt"
	"strings"

	"github.com/stubsift-dev/stubsift/internal/analyzer/body"
	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
	"github.com/stubsift-dev/stubsift/internal/domain/values"
)

// Name fragments that mark a member as debug or temporary code.
var debugMarkers = []string{"debug", "temp", "hack", "fixme", "todo", "scratch"}

// Attribute fragments that assert a member is finished.
var completenessMarkers = []string{"Complete", "Implemented", "Stable"}

// Enum value names that carry no domain meaning.
var placeholderEnumNames = map[string]bool{
	"none":      true,
	"default":   true,
	"undefined": true,
	"temp":      true,
}

// DefaultCatalog returns the full rule catalog in its canonical order.
func DefaultCatalog() *Registry {
	return MustNewRegistry(
		Rule{
			ID:       "stub-body",
			Name:     "Stub or placeholder body",
			Category: values.CatIncomplete,
			Scope:    ScopeMember,
			Check:    checkStubBody,
		},
		Rule{
			ID:       "minimal-body",
			Name:     "Minimal placeholder body",
			Category: values.CatIncomplete,
			Scope:    ScopeMember,
			Check:    checkMinimalBody,
		},
		Rule{
			ID:       "abstract-unimplemented",
			Name:     "Inherited abstract member left unimplemented",
			Category: values.CatIncomplete,
			Scope:    ScopeMember,
			Check:    checkAbstractUnimplemented,
		},
		Rule{
			ID:       "abstract-on-concrete",
			Name:     "Abstract member on non-abstract type",
			Category: values.CatIncomplete,
			Scope:    ScopeMember,
			Check:    checkAbstractOnConcrete,
		},
		Rule{
			ID:       "debug-marker",
			Name:     "Debug or temporary member without deprecation marker",
			Category: values.CatDebugging,
			Scope:    ScopeMember,
			Check:    checkDebugMarker,
		},
		Rule{
			ID:       "unused-property",
			Name:     "Auto-implemented property never referenced",
			Category: values.CatUnused,
			Scope:    ScopeMember,
			Check:    checkUnusedProperty,
		},
		Rule{
			ID:       "cold-method",
			Name:     "Method body is a bare return",
			Category: values.CatIncomplete,
			Scope:    ScopeMember,
			Check:    checkColdMethod,
		},
		Rule{
			ID:       "hollow-enum",
			Name:     "Enumeration with no meaningful values",
			Category: values.CatIncomplete,
			Scope:    ScopeType,
			Check:    checkHollowEnum,
		},
		Rule{
			ID:       "premature-celebration",
			Name:     "Claims completeness but still throws a stub",
			Category: values.CatPremature,
			Scope:    ScopeMember,
			Check:    checkPrematureCelebration,
		},
		Rule{
			ID:       "unused-parameter",
			Name:     "Parameter never referenced in body",
			Category: values.CatUnused,
			Scope:    ScopeMember,
			Check:    checkUnusedParameter,
		},
		Rule{
			ID:       "marker-interface",
			Name:     "Interface declares no members",
			Category: values.CatOther,
			Scope:    ScopeType,
			Check:    checkMarkerInterface,
		},
	)
}

func checkStubBody(s metadata.Subject, _ *Context) (bool, string) {
	m := s.Member
	if !m.HasBody() {
		return false, ""
	}
	if body.IsStubThrow(m.Body) {
		return true, "method body constructs and throws a not-implemented style exception"
	}
	if m.ReturnsValue() && body.IsDefaultReturn(m.Body) {
		return true, "method only ever returns a hard-coded default value"
	}
	return false, ""
}

func checkMinimalBody(s metadata.Subject, _ *Context) (bool, string) {
	m := s.Member
	if !m.HasBody() {
		return false, ""
	}
	if body.IsMinimalBody(m.Body) {
		return true, fmt.Sprintf("method body is %d byte(s) with no meaningful operations", len(m.Body))
	}
	return false, ""
}

func checkAbstractUnimplemented(s metadata.Subject, ctx *Context) (bool, string) {
	m := s.Member
	if !m.Abstract || m.Declaring == nil || !m.Declaring.Abstract || m.Declaring.Interface {
		return false, ""
	}
	for _, derived := range ctx.ConcreteDescendants(m.Declaring) {
		if !declaresOrInherits(derived, m) {
			return true, fmt.Sprintf("abstract member is not implemented by concrete type %s", derived.FullName())
		}
	}
	return false, ""
}

// declaresOrInherits walks from derived up to (but excluding) the
// declaring type of the abstract member, looking for an implementation
// with the same name.
func declaresOrInherits(derived *metadata.Type, abstract *metadata.Member) bool {
	for t := derived; t != nil && t != abstract.Declaring; t = t.Base {
		for _, m := range t.Members {
			if m.Name == abstract.Name && !m.Abstract {
				return true
			}
		}
	}
	return false
}

func checkAbstractOnConcrete(s metadata.Subject, _ *Context) (bool, string) {
	m := s.Member
	if m.Abstract && m.Declaring != nil && !m.Declaring.Abstract && !m.Declaring.Interface {
		return true, "abstract member declared on a type not marked abstract"
	}
	return false, ""
}

func checkDebugMarker(s metadata.Subject, _ *Context) (bool, string) {
	m := s.Member
	name := strings.ToLower(m.Name)
	marked := false
	for _, marker := range debugMarkers {
		if strings.Contains(name, marker) {
			marked = true
			break
		}
	}
	if !marked {
		return false, ""
	}
	if m.HasAttribute("Obsolete") || m.HasAttribute("Deprecated") {
		return false, ""
	}
	return true, "debug/temporary member lacks a deprecation marker attribute"
}

func checkUnusedProperty(s metadata.Subject, ctx *Context) (bool, string) {
	m := s.Member
	if m.Kind != metadata.KindProperty || !m.AutoImplemented || m.Token == 0 {
		return false, ""
	}
	if ctx.ReferenceCount(m.Token) == 0 {
		return true, "auto-implemented property is never read or written outside its own declaration"
	}
	return false, ""
}

func checkColdMethod(s metadata.Subject, _ *Context) (bool, string) {
	m := s.Member
	if !m.HasBody() {
		return false, ""
	}
	if body.IsSingleReturn(m.Body) {
		return true, "method body is a single return with no other operations"
	}
	return false, ""
}

func checkHollowEnum(s metadata.Subject, _ *Context) (bool, string) {
	t := s.Type
	if !t.Enum {
		return false, ""
	}
	names := t.EnumValueNames()
	if len(names) < 2 {
		return true, fmt.Sprintf("enumeration declares %d value(s)", len(names))
	}
	for _, n := range names {
		if !placeholderEnumNames[strings.ToLower(n)] {
			return false, ""
		}
	}
	return true, "all enumeration values are placeholder names"
}

func checkPrematureCelebration(s metadata.Subject, _ *Context) (bool, string) {
	m := s.Member
	if !m.HasBody() {
		return false, ""
	}
	asserted := false
	for _, marker := range completenessMarkers {
		if m.HasAttribute(marker) {
			asserted = true
			break
		}
	}
	if asserted && body.IsStubThrow(m.Body) {
		return true, "marked complete but the body still throws a not-implemented stub"
	}
	return false, ""
}

func checkUnusedParameter(s metadata.Subject, _ *Context) (bool, string) {
	m := s.Member
	if !m.HasBody() || len(m.Parameters) == 0 {
		return false, ""
	}
	used := body.UsedArgIndices(m.Body)
	offset := 0
	if !m.Static {
		offset = 1 // slot 0 is the receiver
	}
	var unused []string
	for i, p := range m.Parameters {
		if !used[i+offset] {
			unused = append(unused, p.Name)
		}
	}
	if len(unused) == 0 {
		return false, ""
	}
	return true, fmt.Sprintf("parameter(s) never referenced in body: %s", strings.Join(unused, ", "))
}

func checkMarkerInterface(s metadata.Subject, _ *Context) (bool, string) {
	t := s.Type
	if t.Interface && len(t.Members) == 0 {
		return true, "interface declares no members"
	}
	return false, ""
}
