package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"autoaccel/internal/auth"
)

// themeNames cycles system -> light -> dark.
var themeNames = []string{"system", "light", "dark"}

// settings rows, in cursor order.
const (
	settingTheme = iota
	settingSignOut
	settingCount
)

// SettingsPageModel shows the signed-in account, lets the user pick a theme,
// and signs out.
type SettingsPageModel struct {
	styles   Styles
	identity *auth.Identity
	theme    string
	cursor   int
	width    int
	height   int
}

// NewSettingsPage creates the settings page.
func NewSettingsPage(identity *auth.Identity, themeName string, styles Styles) SettingsPageModel {
	return SettingsPageModel{
		styles:   styles,
		identity: identity,
		theme:    themeName,
	}
}

// SetSize updates the page dimensions.
func (m *SettingsPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetStyles applies a new theme.
func (m *SettingsPageModel) SetStyles(styles Styles) {
	m.styles = styles
}

// SetIdentity refreshes the displayed account.
func (m *SettingsPageModel) SetIdentity(id *auth.Identity) {
	m.identity = id
}

// Update handles key messages.
func (m SettingsPageModel) Update(msg tea.Msg) (SettingsPageModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < settingCount-1 {
			m.cursor++
		}
	case "enter", " ":
		switch m.cursor {
		case settingTheme:
			m.theme = nextTheme(m.theme)
			name := m.theme
			return m, func() tea.Msg { return ThemeChangedMsg{Name: name} }
		case settingSignOut:
			return m, func() tea.Msg { return SignOutRequestedMsg{} }
		}
	}
	return m, nil
}

func nextTheme(current string) string {
	for i, name := range themeNames {
		if name == current {
			return themeNames[(i+1)%len(themeNames)]
		}
	}
	return themeNames[0]
}

// View renders the page.
func (m SettingsPageModel) View() string {
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Title.Render("Settings"))
	b.WriteString("\n\n")

	name := "User"
	if m.identity != nil && m.identity.DisplayName != "" {
		name = m.identity.DisplayName
	}
	var account strings.Builder
	account.WriteString(s.CardTitle.Render(name))
	if m.identity != nil && m.identity.Email != "" {
		account.WriteString("\n" + s.Muted.Render(m.identity.Email))
	}
	if m.identity != nil && m.identity.PhotoURL != "" {
		account.WriteString("\n" + s.Muted.Render(m.identity.PhotoURL))
	}
	b.WriteString(s.Card.Render(account.String()))
	b.WriteString("\n\n")

	rows := []string{
		"Theme: " + capitalize(m.theme),
		"Sign Out",
	}
	for i, row := range rows {
		if i == m.cursor {
			b.WriteString(s.ChipSelected.Render("> " + row))
		} else {
			b.WriteString(s.Body.Render("  " + row))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + s.Muted.Render("enter apply · esc back"))

	content := s.Content.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
}
