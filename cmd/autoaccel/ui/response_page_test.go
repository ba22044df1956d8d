package ui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponsePageNoData(t *testing.T) {
	cases := map[string]string{
		"not json":        "this is not json",
		"empty body":      "",
		"fences only":     "```json\n```",
		"wrong envelope":  `{"response": "still not json"}`,
		"top level array": `[1, 2, 3]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			m := NewResponsePage(raw, DefaultStyles(), nil)
			assert.True(t, m.noData)
			assert.Contains(t, m.View(), "No data available")
		})
	}
}

func TestResponsePageRendersSections(t *testing.T) {
	m := NewResponsePage(okPayload, DefaultStyles(), nil)
	require.False(t, m.noData)
	m.SetSize(120, 60)

	view := m.View()
	assert.Contains(t, view, "Toyota")
	assert.Contains(t, view, "Corolla")
	assert.Contains(t, view, "Bluetooth")
	assert.Contains(t, view, "BUYING SUGGESTIONS")
}

func TestResponsePageDecodesEnvelope(t *testing.T) {
	wrapped := fmt.Sprintf("```json\n{%q: %q}\n```", "response", okPayload)

	m := NewResponsePage(wrapped, DefaultStyles(), nil)
	require.False(t, m.noData)
	require.NotNil(t, m.data)
	assert.Equal(t, "Toyota", m.data.Brand)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "aa bb\ncc", wrap("aa bb cc", 5))
	assert.Equal(t, "unbroken", wrap("unbroken", 3), "single long words are not split")
	assert.Equal(t, "as is", wrap("as is", 0))
}
