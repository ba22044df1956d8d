package ui

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoaccel/internal/catalog"
	"autoaccel/internal/generation"
)

const okPayload = `{
	"brand": "Toyota",
	"brand_overview": "Reliability first.",
	"models": [
		{"model_name": "Corolla", "description": "Compact and efficient.", "price_range": "$22,000 - $28,000"}
	],
	"features": [
		{"feature_name": "Bluetooth", "description": "Wireless audio and calls."}
	],
	"buying_suggestions": {
		"suggestion": "Consider certified pre-owned.",
		"advice": "Test drive before buying."
	}
}`

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	raw   string
	err   error
}

func (f *fakeGenerator) Generate(context.Context, generation.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.raw, f.err
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// collect executes a command tree and flattens the produced messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func resultFrom(t *testing.T, msgs []tea.Msg) GenerationResultMsg {
	t.Helper()
	for _, msg := range msgs {
		if r, ok := msg.(GenerationResultMsg); ok {
			return r
		}
	}
	t.Fatal("no GenerationResultMsg produced")
	return GenerationResultMsg{}
}

// readyPage returns a page with a complete selection.
func readyPage(t *testing.T, gen generation.Generator) SelectPageModel {
	t.Helper()
	m := NewSelectPage(gen, DefaultStyles(), nil)
	require.NoError(t, m.State().SelectBrand("Toyota"))
	require.NoError(t, m.State().ToggleModel("Corolla"))
	require.NoError(t, m.State().ToggleFeature("Bluetooth"))
	return m
}

func TestSubmitRequiresCompleteSelection(t *testing.T) {
	gen := &fakeGenerator{raw: okPayload}
	m := NewSelectPage(gen, DefaultStyles(), nil)

	cmd := m.submit()

	assert.Nil(t, cmd)
	assert.Equal(t, 0, gen.callCount())
	assert.Contains(t, m.status, "Incomplete selection")
	assert.False(t, m.isLoading)
}

func TestSubmitSingleFlight(t *testing.T) {
	gen := &fakeGenerator{raw: okPayload}
	m := readyPage(t, gen)

	first := m.submit()
	require.NotNil(t, first)
	assert.True(t, m.isLoading)

	// Second press while the request is in flight must be a no-op.
	assert.Nil(t, m.submit())

	resultFrom(t, collect(first))
	assert.Equal(t, 1, gen.callCount())
}

func TestDoubleEnterProducesOneCall(t *testing.T) {
	gen := &fakeGenerator{raw: okPayload}
	m := readyPage(t, gen)
	m.focus = sectionSubmit

	enter := tea.KeyMsg{Type: tea.KeyEnter}
	m, cmd := m.Update(enter)
	require.NotNil(t, cmd)
	_, cmd2 := m.Update(enter)
	assert.Nil(t, cmd2)

	resultFrom(t, collect(cmd))
	assert.Equal(t, 1, gen.callCount())
}

func TestFinishAttemptSuccessNavigatesAndResets(t *testing.T) {
	gen := &fakeGenerator{raw: okPayload}
	m := readyPage(t, gen)
	require.NotNil(t, m.submit())

	m, cmd := m.finishAttempt(GenerationResultMsg{Raw: okPayload})
	require.NotNil(t, cmd)

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	show, ok := msgs[0].(ShowResponseMsg)
	require.True(t, ok)
	assert.Equal(t, okPayload, show.Raw)

	assert.False(t, m.isLoading)
	assert.Empty(t, m.State().Brand())
	assert.Empty(t, m.State().Models())
	assert.Empty(t, m.State().Features())
	assert.Equal(t, catalog.DefaultCategory, m.State().BrandType())
}

func TestFinishAttemptErrorShowsStatusAndResets(t *testing.T) {
	m := readyPage(t, &fakeGenerator{})
	require.NotNil(t, m.submit())

	m, cmd := m.finishAttempt(GenerationResultMsg{Err: errors.New("connection refused")})

	assert.Nil(t, cmd, "transport failure must not navigate")
	assert.Equal(t, "Unable to generate content. Please try again later.", m.status)
	assert.Empty(t, m.State().Brand(), "selection resets on failed attempts too")
	assert.False(t, m.isLoading)
}

func TestFinishAttemptUnrelatedStaysOnForm(t *testing.T) {
	enveloped, err := json.Marshal(map[string]string{"response": generation.Sentinel})
	require.NoError(t, err)

	bodies := map[string]string{
		"enveloped": string(enveloped),
		"bare":      generation.Sentinel,
	}
	for name, raw := range bodies {
		t.Run(name, func(t *testing.T) {
			m := readyPage(t, &fakeGenerator{})
			require.NotNil(t, m.submit())

			m, cmd := m.finishAttempt(GenerationResultMsg{Raw: raw})

			assert.Nil(t, cmd, "rejection sentinel must not navigate")
			assert.Equal(t, generation.Sentinel, m.status)
			assert.Empty(t, m.State().Brand())
		})
	}
}

func TestFeatureListCollapses(t *testing.T) {
	m := NewSelectPage(&fakeGenerator{}, DefaultStyles(), nil)

	chips := m.visibleFeatures()
	require.Len(t, chips, MaxVisibleChips+1)
	assert.Equal(t, showMoreChip, chips[MaxVisibleChips])

	m.focus = sectionFeatures
	m.cursor = MaxVisibleChips
	m, _ = m.activate()

	assert.True(t, m.showAllFeatures)
	assert.Equal(t, catalog.Features(), m.visibleFeatures())
}

func TestLimitReachedStatus(t *testing.T) {
	m := NewSelectPage(&fakeGenerator{}, DefaultStyles(), nil)
	require.NoError(t, m.State().SelectBrand("Toyota"))
	m.showAllFeatures = true
	m.focus = sectionFeatures

	features := catalog.Features()
	for i := 0; i < 5; i++ {
		require.NoError(t, m.State().ToggleFeature(features[i]))
	}

	m.cursor = 5
	m, _ = m.activate()

	assert.Len(t, m.State().Features(), 5, "sixth feature must be rejected, not truncated")
	assert.Contains(t, m.status, "Selection limit reached")
}

func TestCategoryPickerSwitchesBrandType(t *testing.T) {
	m := NewSelectPage(&fakeGenerator{}, DefaultStyles(), nil)
	require.NoError(t, m.State().SelectBrand("Toyota"))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.True(t, m.pickerOpen)

	cats := catalog.Categories()
	// Move off the current category so enter actually changes it.
	target := m.pickerCursor
	if target == 0 {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		target = 1
	} else {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
		target--
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.pickerOpen)
	assert.Equal(t, cats[target], m.State().BrandType())
	assert.Empty(t, m.State().Brand(), "category switch clears the brand")
}

func TestViewShowsStatus(t *testing.T) {
	m := NewSelectPage(&fakeGenerator{}, DefaultStyles(), nil)
	m.SetSize(120, 48)
	m.setStatus("Incomplete selection: please select a brand, models, and features before generating.", statusWarn)

	assert.Contains(t, m.View(), "Incomplete selection")
}
