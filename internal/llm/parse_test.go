package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FastPathSkipsRepair(t *testing.T) {
	res, err := Parse(`{"a": "b"}`)
	require.NoError(t, err)
	assert.False(t, res.Repaired)
	assert.Equal(t, map[string]any{"a": "b"}, res.Tree)
}

func TestParse_RepairsOnce(t *testing.T) {
	res, err := Parse("{\"a\": \"multi\nline\"}")
	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, map[string]any{"a": "multi line"}, res.Tree)
}

func TestParse_Unrecoverable(t *testing.T) {
	for _, in := range []string{"", "not json at all", `{"a": `, `{"a": "x" junk}`} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}
