package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubsift-dev/stubsift/internal/domain/metadata"
)

func noopCheck(_ metadata.Subject, _ *Context) (bool, string) {
	return false, ""
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	t.Run("preserves registration order", func(t *testing.T) {
		t.Parallel()
		r, err := NewRegistry(
			Rule{ID: "b", Check: noopCheck},
			Rule{ID: "a", Check: noopCheck},
		)
		require.NoError(t, err)
		rs := r.Rules()
		require.Len(t, rs, 2)
		assert.Equal(t, "b", rs[0].ID)
		assert.Equal(t, "a", rs[1].ID)
	})

	t.Run("rejects empty ID", func(t *testing.T) {
		t.Parallel()
		_, err := NewRegistry(Rule{Check: noopCheck})
		assert.Error(t, err)
	})

	t.Run("rejects nil check", func(t *testing.T) {
		t.Parallel()
		_, err := NewRegistry(Rule{ID: "x"})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate IDs", func(t *testing.T) {
		t.Parallel()
		_, err := NewRegistry(
			Rule{ID: "x", Check: noopCheck},
			Rule{ID: "x", Check: noopCheck},
		)
		assert.Error(t, err)
	})
}

func TestRegistrySubset(t *testing.T) {
	t.Parallel()

	r := MustNewRegistry(
		Rule{ID: "a", Check: noopCheck},
		Rule{ID: "b", Check: noopCheck},
		Rule{ID: "c", Check: noopCheck},
	)

	subset, err := r.Subset("c", "a")
	require.NoError(t, err)
	require.Len(t, subset, 2)
	assert.Equal(t, "c", subset[0].ID)
	assert.Equal(t, "a", subset[1].ID)

	_, err = r.Subset("a", "missing")
	assert.Error(t, err, "unknown rule IDs are a configuration mistake")
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	r := DefaultCatalog()
	assert.Equal(t, 11, r.Len())

	for _, rule := range r.Rules() {
		assert.NotEmpty(t, rule.Name, "rule %s has no name", rule.ID)
		assert.False(t, rule.Category.IsZero(), "rule %s has no category", rule.ID)
	}

	_, ok := r.Get("stub-body")
	assert.True(t, ok)
}

func TestRuleAppliesTo(t *testing.T) {
	t.Parallel()

	typ := &metadata.Type{Name: "T"}
	typeSubject := metadata.Subject{Type: typ}
	memberSubject := metadata.Subject{Type: typ, Member: &metadata.Member{Name: "m"}}

	memberRule := Rule{ID: "m", Scope: ScopeMember, Check: noopCheck}
	typeRule := Rule{ID: "t", Scope: ScopeType, Check: noopCheck}

	assert.True(t, memberRule.AppliesTo(memberSubject))
	assert.False(t, memberRule.AppliesTo(typeSubject))
	assert.True(t, typeRule.AppliesTo(typeSubject))
	assert.False(t, typeRule.AppliesTo(memberSubject))
}
