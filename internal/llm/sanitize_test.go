package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```\n\n", `{"a":1}`},
		{"tilde fence", "~~~json\n{\"a\":1}\n~~~", `{"a":1}`},
		{"prose around", "Here is the result:\n```json\n{\"a\":{\"b\":2}}\n```\nHope it helps!", `{"a":{"b":2}}`},
		{"inline fence is not a fence line", "```json {\"a\":1}```", `{"a":1}`},
		{"no brace", "not json at all", "not json at all"},
		{"only closing brace before opening", "} nothing {", "} nothing {"},
		{"empty", "   ", ""},
		{"whitespace trimmed", "\n\t {\"a\":1} \n", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestIsFenceLine(t *testing.T) {
	assert.True(t, isFenceLine("```", false))
	assert.True(t, isFenceLine("````", false))
	assert.True(t, isFenceLine("```json", true))
	assert.False(t, isFenceLine("```json", false))
	assert.False(t, isFenceLine("``", true))
	assert.False(t, isFenceLine("`~`", true))
	assert.False(t, isFenceLine("``` {", true))
	assert.False(t, isFenceLine("{", true))
}
