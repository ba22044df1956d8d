package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoaccel/internal/auth"
)

func TestNextTheme(t *testing.T) {
	assert.Equal(t, "light", nextTheme("system"))
	assert.Equal(t, "dark", nextTheme("light"))
	assert.Equal(t, "system", nextTheme("dark"))
	assert.Equal(t, "system", nextTheme("bogus"))
}

func TestSettingsThemeCycleEmitsChange(t *testing.T) {
	m := NewSettingsPage(nil, "system", DefaultStyles())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(ThemeChangedMsg)
	require.True(t, ok)
	assert.Equal(t, "light", msg.Name)
	assert.Equal(t, "light", m.theme)
}

func TestSettingsSignOut(t *testing.T) {
	m := NewSettingsPage(&auth.Identity{DisplayName: "Ada"}, "system", DefaultStyles())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, ok := cmd().(SignOutRequestedMsg)
	assert.True(t, ok)
}

func TestSettingsShowsAccount(t *testing.T) {
	id := &auth.Identity{DisplayName: "Ada Lovelace", Email: "ada@example.com"}
	m := NewSettingsPage(id, "dark", DefaultStyles())

	view := m.View()
	assert.Contains(t, view, "Ada Lovelace")
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "Dark")
}
