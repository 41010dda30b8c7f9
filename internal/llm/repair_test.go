package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosesString(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want bool
	}{
		{"colon", `"k":`, true},
		{"comma", `"v",`, true},
		{"brace", `"v"}`, true},
		{"bracket", `"v"]`, true},
		{"spaces then comma", "\"v\"   ,", true},
		{"mixed whitespace then brace", "\"v\" \t\r\n }", true},
		{"letter", `"v"the`, false},
		{"space then letter", `"v" the`, false},
		{"another quote", `"v""`, false},
		{"end of input", `"v"`, false},
		{"only whitespace to end", "\"v\"  \n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the quote under test is the second one
			i := strings.Index(tt.s[1:], `"`) + 1
			assert.Equal(t, tt.want, closesString(tt.s, i))
		})
	}
}

func TestRepair_EscapesInnerQuotes(t *testing.T) {
	in := `{"party_a": {"name": "A Co, "the Buyer""}}`
	out := Repair(in)

	var v map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, `A Co, "the Buyer"`, v["party_a"]["name"])
}

func TestRepair_ControlCharacters(t *testing.T) {
	in := "{\"a\": \"line1\nline2\r\n\tend\", \"b\":\n\t1}"
	out := Repair(in)
	assert.Equal(t, "{\"a\": \"line1 line2  end\", \"b\":\n\t1}", out)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "line1 line2  end", v["a"])
}

func TestRepair_KeepsEscapes(t *testing.T) {
	in := `{"a": "say \"hi\" \\ done"}`
	assert.Equal(t, in, Repair(in))
}

func TestRepair_ValidJSONUnchanged(t *testing.T) {
	in := `{"a": ["x", "y"], "b": {"c": "d: e, f"}, "n": 1.5}`
	assert.Equal(t, in, Repair(in))
}

func TestRepair_MultibyteText(t *testing.T) {
	in := "{\"name\": \"甲方\n公司\"}"
	out := Repair(in)
	assert.Equal(t, "{\"name\": \"甲方 公司\"}", out)
}

// A real close quote followed by non-delimiter text is escaped rather than
// closed; the result may then fail to parse.
func TestRepair_KnownLimitation(t *testing.T) {
	out := Repair(`{"a": "x" junk}`)
	assert.Equal(t, `{"a": "x\" junk}`, out)
}

func TestRepair_LengthNeverShrinksWithoutCR(t *testing.T) {
	inputs := []string{
		"",
		"not json",
		`{"a": "b"c", "d": "e"}`,
		"{\"a\": \"\t\n\"}",
		`"""""`,
		`\`,
		`{"unterminated": "abc`,
	}
	for _, in := range inputs {
		assert.GreaterOrEqual(t, len(Repair(in)), len(in), "input %q", in)
	}
}
