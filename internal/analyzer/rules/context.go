// Package rules holds the fixed catalog of completeness rules and the
// registry they are assembled into at startup. Rules are pure
// predicates: one subject in, violated/message out, no shared mutable
// state.
package rules

import (
	"github.com/stubsift-dev/stubsift/internal/analyzer/body"
	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
)

// Context carries cross-member lookups shared by all rules during one
// run. It is built once from the loaded assemblies and never mutated
// afterwards, so rules can read it concurrently and stay pure.
type Context struct {
	refCounts   map[uint32]int
	descendants map[*metadata.Type][]*metadata.Type
}

// NewContext builds the shared analysis context: a reference index of
// member tokens called anywhere in the loaded bodies, and a concrete
// descendant map for inheritance checks. Iteration follows declaration
// order so derived results are deterministic.
func NewContext(assemblies []*metadata.Assembly) *Context {
	ctx := &Context{
		refCounts:   make(map[uint32]int),
		descendants: make(map[*metadata.Type][]*metadata.Type),
	}

	children := make(map[*metadata.Type][]*metadata.Type)
	for _, asm := range assemblies {
		for _, t := range allTypes(asm.Types) {
			if t.Base != nil {
				children[t.Base] = append(children[t.Base], t)
			}
			for _, m := range t.Members {
				for _, token := range body.CallTokens(m.Body) {
					ctx.refCounts[token]++
				}
			}
		}
	}

	// Flatten transitive concrete descendants per base type.
	for _, asm := range assemblies {
		for _, t := range allTypes(asm.Types) {
			stack := append([]*metadata.Type(nil), children[t]...)
			for len(stack) > 0 {
				d := stack[0]
				stack = stack[1:]
				if !d.Abstract && !d.Interface {
					ctx.descendants[t] = append(ctx.descendants[t], d)
				}
				stack = append(stack, children[d]...)
			}
		}
	}

	return ctx
}

// ReferenceCount returns how many call sites reference the member
// token across all loaded bodies.
func (c *Context) ReferenceCount(token uint32) int {
	return c.refCounts[token]
}

// ConcreteDescendants returns the non-abstract, non-interface types
// deriving (directly or transitively) from t, in declaration order.
func (c *Context) ConcreteDescendants(t *metadata.Type) []*metadata.Type {
	return c.descendants[t]
}

// allTypes flattens a type list including nested types, in declaration
// order.
func allTypes(top []*metadata.Type) []*metadata.Type {
	var out []*metadata.Type
	stack := append([]*metadata.Type(nil), top...)
	for len(stack) > 0 {
		t := stack[0]
		stack = stack[1:]
		out = append(out, t)
		stack = append(stack, t.Nested...)
	}
	return out
}
