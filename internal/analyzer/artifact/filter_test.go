package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
)

func TestShouldSkipType(t *testing.T) {
	t.Parallel()

	f := NewFilter()

	tests := []struct {
		name string
		typ  *metadata.Type
		want bool
	}{
		{name: "nil type", typ: nil, want: true},
		{name: "plain type", typ: &metadata.Type{Name: "Player", Namespace: "Game"}, want: false},
		{name: "closure container", typ: &metadata.Type{Name: "<>c__DisplayClass3_0"}, want: true},
		{name: "state machine", typ: &metadata.Type{Name: "<Run>d__4"}, want: true},
		{name: "generator prefix", typ: &metadata.Type{Name: "__GeneratedBinder"}, want: true},
		{
			name: "compiler generated attribute",
			typ: &metadata.Type{
				Name:       "Helper",
				Attributes: []metadata.Attribute{{Name: "CompilerGeneratedAttribute"}},
			},
			want: true,
		},
		{
			name: "test fixture attribute",
			typ: &metadata.Type{
				Name:       "PlayerSpec",
				Attributes: []metadata.Attribute{{Name: "TestFixtureAttribute"}},
			},
			want: true,
		},
		{
			name: "type inside a test assembly",
			typ: &metadata.Type{
				Name:     "Helper",
				Assembly: &metadata.Assembly{Name: "Game.Tests"},
			},
			want: true,
		},
		{name: "test in type name", typ: &metadata.Type{Name: "PlayerTest", Namespace: "Game"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, f.ShouldSkipType(tt.typ))
		})
	}
}

func TestShouldSkipMember(t *testing.T) {
	t.Parallel()

	f := NewFilter()
	declaring := &metadata.Type{Name: "Player", Namespace: "Game"}

	tests := []struct {
		name   string
		member *metadata.Member
		want   bool
	}{
		{name: "nil member", member: nil, want: true},
		{
			name:   "plain method",
			member: &metadata.Member{Kind: metadata.KindMethod, Name: "TakeDamage", Declaring: declaring},
			want:   false,
		},
		{
			name:   "backing field",
			member: &metadata.Member{Kind: metadata.KindField, Name: "<Health>k__BackingField", Declaring: declaring},
			want:   true,
		},
		{
			name:   "lambda body",
			member: &metadata.Member{Kind: metadata.KindMethod, Name: "<Update>b__12_0", Declaring: declaring},
			want:   true,
		},
		{
			name:   "special name accessor",
			member: &metadata.Member{Kind: metadata.KindMethod, Name: "get_Health", SpecialName: true, Declaring: declaring},
			want:   true,
		},
		{
			name: "member of scaffolding type",
			member: &metadata.Member{
				Kind:      metadata.KindMethod,
				Name:      "MoveNext",
				Declaring: &metadata.Type{Name: "<Run>d__4"},
			},
			want: true,
		},
		{
			name: "generated attribute on member",
			member: &metadata.Member{
				Kind:       metadata.KindMethod,
				Name:       "Bind",
				Declaring:  declaring,
				Attributes: []metadata.Attribute{{Name: "GeneratedCodeAttribute"}},
			},
			want: true,
		},
		{
			name:   "member with nil declaring type",
			member: &metadata.Member{Kind: metadata.KindMethod, Name: "Orphan"},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, f.ShouldSkipMember(tt.member))
		})
	}
}
