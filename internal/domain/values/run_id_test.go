package values

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunID(t *testing.T) {
	t.Parallel()

	a := NewRunID()
	b := NewRunID()
	assert.False(t, a.IsZero())
	assert.False(t, a.Equals(b))
}

func TestParseRunID(t *testing.T) {
	t.Parallel()

	const raw = "0c8f4f7e-9a9b-4d3c-8a2f-6b1e5d4c3b2a"
	id, err := ParseRunID(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, id.String())

	_, err = ParseRunID("not-a-uuid")
	assert.Error(t, err)
}

func TestRunIDJSONRoundTrip(t *testing.T) {
	t.Parallel()

	id := NewRunID()
	data, err := json.Marshal(id)
	require.NoError(t, err)

	var back RunID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, id.Equals(back))
}

func TestRunIDYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	id := NewRunID()
	data, err := yaml.Marshal(id)
	require.NoError(t, err)
	assert.Contains(t, string(data), id.String(), "YAML carries the UUID string, not an empty mapping")

	var back RunID
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.True(t, id.Equals(back))
}

func TestMustParseRunIDPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustParseRunID("nope") })
}
