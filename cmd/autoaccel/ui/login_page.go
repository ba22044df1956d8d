package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// taglines scroll under the logo in the original client; here they are a
// static list.
var taglines = []string{
	"○ AI Auto Accelerate",
	"○ Smart Buying Suggestions",
	"○ Real-Time Car Insights",
	"○ Price Comparisons",
	"○ Personalized Recommendations",
}

// LoginPageModel is the unauthenticated entry screen.
type LoginPageModel struct {
	styles    Styles
	spinner   spinner.Model
	signingIn bool
	errText   string
	width     int
	height    int
}

// NewLoginPage creates the entry screen.
func NewLoginPage(styles Styles) LoginPageModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	return LoginPageModel{
		styles:  styles,
		spinner: sp,
	}
}

// SetSize updates the page dimensions.
func (m *LoginPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetStyles applies a new theme.
func (m *LoginPageModel) SetStyles(styles Styles) {
	m.styles = styles
	m.spinner.Style = styles.Spinner
}

// SetSigningIn toggles the in-flight sign-in indicator.
func (m *LoginPageModel) SetSigningIn(v bool) {
	m.signingIn = v
	if v {
		m.errText = ""
	}
}

// SetError shows a sign-in failure message.
func (m *LoginPageModel) SetError(text string) {
	m.signingIn = false
	m.errText = text
}

// Update handles key and spinner messages.
func (m LoginPageModel) Update(msg tea.Msg) (LoginPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && !m.signingIn {
			m.signingIn = true
			m.errText = ""
			return m, tea.Batch(
				m.spinner.Tick,
				func() tea.Msg { return SignInRequestedMsg{} },
			)
		}
	case spinner.TickMsg:
		if m.signingIn {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View renders the entry screen.
func (m LoginPageModel) View() string {
	s := m.styles

	var body strings.Builder
	body.WriteString(s.Title.Render("✦ AI Auto Accelerate"))
	body.WriteString("\n\n")
	for _, line := range taglines {
		body.WriteString(s.Muted.Render(line))
		body.WriteString("\n")
	}
	body.WriteString("\n")

	if m.signingIn {
		body.WriteString(m.spinner.View() + s.Body.Render(" Waiting for Google sign-in in your browser..."))
	} else {
		body.WriteString(s.Button.Render("Continue with Google"))
		body.WriteString(s.Muted.Render("  press enter"))
	}
	if m.errText != "" {
		body.WriteString("\n\n")
		body.WriteString(s.Error.Render(m.errText))
	}

	card := s.Card.Render(body.String())
	if m.width == 0 || m.height == 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
