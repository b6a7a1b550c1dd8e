// Package snapshot loads metadata snapshot documents into descriptor
// graphs. A snapshot is the YAML (or JSON) dump an external metadata
// extractor produces from a set of compiled assemblies; loading it is
// the only ingestion path the analyzer has, so the document is
// schema-validated before any descriptors are built.
package snapshot

import (
	"encoding/base64"
	"fmt"

	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
)

// Document is the root of a snapshot file.
type Document struct {
	Version    int           `json:"version" yaml:"version"`
	Assemblies []AssemblyDoc `json:"assemblies" yaml:"assemblies"`
}

// AssemblyDoc describes one compiled module.
type AssemblyDoc struct {
	Name       string    `json:"name" yaml:"name"`
	LoadErrors []string  `json:"load_errors,omitempty" yaml:"load_errors,omitempty"`
	Types      []TypeDoc `json:"types,omitempty" yaml:"types,omitempty"`
}

// TypeDoc describes one type; nested types recurse.
type TypeDoc struct {
	Name       string         `json:"name" yaml:"name"`
	Namespace  string         `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Abstract   bool           `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Interface  bool           `json:"interface,omitempty" yaml:"interface,omitempty"`
	ValueType  bool           `json:"value_type,omitempty" yaml:"value_type,omitempty"`
	Enum       bool           `json:"enum,omitempty" yaml:"enum,omitempty"`
	Base       string         `json:"base,omitempty" yaml:"base,omitempty"`
	Attributes []AttributeDoc `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Members    []MemberDoc    `json:"members,omitempty" yaml:"members,omitempty"`
	Nested     []TypeDoc      `json:"nested,omitempty" yaml:"nested,omitempty"`
}

// AttributeDoc describes one declared attribute.
type AttributeDoc struct {
	Name          string `json:"name" yaml:"name"`
	Justification string `json:"justification,omitempty" yaml:"justification,omitempty"`
}

// MemberDoc describes one member. Body is base64 of the raw binary
// method body.
type MemberDoc struct {
	Kind            string         `json:"kind" yaml:"kind"`
	Name            string         `json:"name" yaml:"name"`
	ReturnType      string         `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Body            string         `json:"body,omitempty" yaml:"body,omitempty"`
	Attributes      []AttributeDoc `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Parameters      []string       `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Abstract        bool           `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Static          bool           `json:"static,omitempty" yaml:"static,omitempty"`
	SpecialName     bool           `json:"special_name,omitempty" yaml:"special_name,omitempty"`
	AutoImplemented bool           `json:"auto_implemented,omitempty" yaml:"auto_implemented,omitempty"`
	Token           uint32         `json:"token,omitempty" yaml:"token,omitempty"`
}

// Build converts a validated document into an immutable descriptor
// graph: declaring, enclosing and base links resolved, bodies decoded.
// Base names pointing outside the snapshot resolve to nil; the analyzer
// does not chase foreign types.
func Build(doc Document) ([]*metadata.Assembly, error) {
	assemblies := make([]*metadata.Assembly, 0, len(doc.Assemblies))
	byFullName := make(map[string]*metadata.Type)

	// First pass: construct every type, link enclosing/assembly.
	for _, ad := range doc.Assemblies {
		asm := &metadata.Assembly{
			Name:       ad.Name,
			LoadErrors: append([]string(nil), ad.LoadErrors...),
		}
		for _, td := range ad.Types {
			t, err := buildType(td, asm, nil, byFullName)
			if err != nil {
				return nil, fmt.Errorf("assembly %s: %w", ad.Name, err)
			}
			asm.Types = append(asm.Types, t)
		}
		assemblies = append(assemblies, asm)
	}

	// Second pass: resolve base links within the snapshot universe.
	var link func(td TypeDoc, enclosing string)
	link = func(td TypeDoc, enclosing string) {
		full := fullNameOf(td)
		if enclosing != "" {
			full = enclosing + "+" + td.Name
		}
		if td.Base != "" {
			if base, ok := byFullName[td.Base]; ok {
				byFullName[full].Base = base
			}
		}
		for _, nd := range td.Nested {
			link(nd, full)
		}
	}
	for _, ad := range doc.Assemblies {
		for _, td := range ad.Types {
			link(td, "")
		}
	}

	return assemblies, nil
}

func buildType(td TypeDoc, asm *metadata.Assembly, enclosing *metadata.Type, byFullName map[string]*metadata.Type) (*metadata.Type, error) {
	t := &metadata.Type{
		Name:       td.Name,
		Namespace:  td.Namespace,
		Abstract:   td.Abstract,
		Interface:  td.Interface,
		ValueType:  td.ValueType,
		Enum:       td.Enum,
		Attributes: buildAttributes(td.Attributes),
		Enclosing:  enclosing,
		Assembly:   asm,
	}

	for _, md := range td.Members {
		m, err := buildMember(md, t)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.FullName(), err)
		}
		t.Members = append(t.Members, m)
	}

	for _, nd := range td.Nested {
		nested, err := buildType(nd, asm, t, byFullName)
		if err != nil {
			return nil, err
		}
		t.Nested = append(t.Nested, nested)
	}

	if _, dup := byFullName[t.FullName()]; dup {
		return nil, fmt.Errorf("duplicate type name: %s", t.FullName())
	}
	byFullName[t.FullName()] = t
	return t, nil
}

func buildMember(md MemberDoc, declaring *metadata.Type) (*metadata.Member, error) {
	kind, err := parseKind(md.Kind)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", md.Name, err)
	}

	var bodyBytes []byte
	if md.Body != "" {
		bodyBytes, err = base64.StdEncoding.DecodeString(md.Body)
		if err != nil {
			return nil, fmt.Errorf("member %s: invalid body encoding: %w", md.Name, err)
		}
	}

	params := make([]metadata.Parameter, 0, len(md.Parameters))
	for _, name := range md.Parameters {
		params = append(params, metadata.Parameter{Name: name})
	}

	return &metadata.Member{
		Kind:            kind,
		Name:            md.Name,
		Declaring:       declaring,
		ReturnType:      md.ReturnType,
		Body:            bodyBytes,
		Attributes:      buildAttributes(md.Attributes),
		Parameters:      params,
		Abstract:        md.Abstract,
		Static:          md.Static,
		SpecialName:     md.SpecialName,
		AutoImplemented: md.AutoImplemented,
		Token:           md.Token,
	}, nil
}

func buildAttributes(docs []AttributeDoc) []metadata.Attribute {
	if len(docs) == 0 {
		return nil
	}
	attrs := make([]metadata.Attribute, 0, len(docs))
	for _, d := range docs {
		attrs = append(attrs, metadata.Attribute{Name: d.Name, Justification: d.Justification})
	}
	return attrs
}

func parseKind(s string) (metadata.MemberKind, error) {
	switch s {
	case "method":
		return metadata.KindMethod, nil
	case "property":
		return metadata.KindProperty, nil
	case "field":
		return metadata.KindField, nil
	case "enum-value":
		return metadata.KindEnumValue, nil
	default:
		return 0, fmt.Errorf("unknown member kind: %q", s)
	}
}

// fullNameOf mirrors Type.FullName for a top-level doc node. Nested
// names are derived during the linking walk.
func fullNameOf(td TypeDoc) string {
	if td.Namespace == "" {
		return td.Name
	}
	return td.Namespace + "." + td.Name
}
