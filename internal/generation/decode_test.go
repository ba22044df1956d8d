package generation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePayload = Response{
	Brand:         "Toyota",
	BrandOverview: "Toyota is known for reliability and strong resale value.",
	Models: []Model{
		{ModelName: "Corolla", Description: "Compact sedan.", PriceRange: "$22,000 - $28,000"},
		{ModelName: "Camry", Description: "Mid-size sedan.", PriceRange: "$27,000 - $36,000"},
	},
	Features: []Feature{
		{FeatureName: "Bluetooth", Description: "Wireless audio and calls."},
	},
	BuyingSuggestions: BuyingSuggestions{
		Suggestion: "The Corolla fits a commuter budget.",
		Advice:     "Test drive both trims before deciding.",
	},
}

func samplePayloadJSON(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(samplePayload)
	require.NoError(t, err)
	return string(b)
}

func TestDecodePlainObject(t *testing.T) {
	// Stage-4 path: body is already the payload object.
	got, err := Decode(samplePayloadJSON(t))
	require.NoError(t, err)
	if diff := cmp.Diff(&samplePayload, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFencedPlainObject(t *testing.T) {
	raw := "```json\n" + samplePayloadJSON(t) + "\n```"
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", got.Brand)
	assert.Len(t, got.Models, 2)
}

func TestDecodeEnvelope(t *testing.T) {
	// Stage-3 path: the real payload is a JSON string under "response",
	// itself wrapped in code fences.
	inner := "```json\n" + samplePayloadJSON(t) + "\n```"
	outer, err := json.Marshal(map[string]string{"response": inner})
	require.NoError(t, err)

	got, err := Decode(string(outer))
	require.NoError(t, err)
	if diff := cmp.Diff(&samplePayload, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeEnvelopeWithoutFences(t *testing.T) {
	outer, err := json.Marshal(map[string]string{"response": samplePayloadJSON(t)})
	require.NoError(t, err)

	got, err := Decode(string(outer))
	require.NoError(t, err)
	assert.Equal(t, "Toyota", got.Brand)
}

func TestDecodeFencedEnvelope(t *testing.T) {
	inner := "```json\n" + samplePayloadJSON(t) + "\n```"
	outer, err := json.Marshal(map[string]string{"response": inner})
	require.NoError(t, err)
	raw := "```json\n" + string(outer) + "\n```"

	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", got.Brand)
}

func TestDecodeFailures(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":            "not json",
		"empty":               "",
		"array body":          `[1,2,3]`,
		"garbage in envelope": `{"response": "definitely not json"}`,
		"fences only":         "```json\n```",
	} {
		t.Run(name, func(t *testing.T) {
			got, err := Decode(raw)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrNoData), "want ErrNoData, got %v", err)
		})
	}
}

func TestUnrelated(t *testing.T) {
	body, err := json.Marshal(map[string]string{"response": Sentinel})
	require.NoError(t, err)

	assert.True(t, Unrelated(string(body)))
	assert.True(t, Unrelated(Sentinel), "bare rejection message, no envelope")
	assert.True(t, Unrelated("```\n"+Sentinel+"\n```"))
	assert.False(t, Unrelated(samplePayloadJSON(t)))
	assert.False(t, Unrelated("not json"))
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"missing closer", "```json\n{\"a\":1}", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFences(tc.in))
		})
	}
}
