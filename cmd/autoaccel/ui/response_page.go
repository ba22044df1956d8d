package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"autoaccel/internal/generation"
)

// ResponsePageModel renders one decoded recommendation. It is created fresh
// for every navigation and thrown away when the user leaves, so a stale
// result can never be shown for a later query.
type ResponsePageModel struct {
	styles   Styles
	viewport viewport.Model
	data     *generation.Response
	noData   bool
	width    int
	height   int
}

// NewResponsePage decodes the raw navigation parameter and builds the page.
// A decode failure is terminal: the page shows "No data available" and never
// retries.
func NewResponsePage(raw string, styles Styles, logger *zap.Logger) ResponsePageModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := ResponsePageModel{
		styles:   styles,
		viewport: viewport.New(80, 20),
	}

	data, err := generation.Decode(raw)
	if err != nil {
		logger.Warn("response decode failed", zap.Error(err))
		m.noData = true
		return m
	}
	m.data = data
	m.refreshContent()
	return m
}

// SetSize updates the page dimensions.
func (m *ResponsePageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = h - HeaderHeight - FooterHeight
	m.refreshContent()
}

// SetStyles applies a new theme.
func (m *ResponsePageModel) SetStyles(styles Styles) {
	m.styles = styles
	m.refreshContent()
}

// Update scrolls the viewport.
func (m ResponsePageModel) Update(msg tea.Msg) (ResponsePageModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the page, or the terminal no-data state.
func (m ResponsePageModel) View() string {
	if m.noData {
		msg := m.styles.Muted.Render("No data available")
		if m.width == 0 || m.height == 0 {
			return msg
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}
	footer := m.styles.Footer.Render("↑/↓ scroll · esc back")
	return m.viewport.View() + "\n" + footer
}

func (m *ResponsePageModel) refreshContent() {
	if m.data == nil {
		return
	}
	s := m.styles
	d := m.data
	var b strings.Builder

	// Brand card
	var brand strings.Builder
	brand.WriteString(s.Title.Render(d.Brand))
	brand.WriteString("\n")
	brand.WriteString(s.Body.Render(wrap(d.BrandOverview, contentWidth(m.width))))
	b.WriteString(s.Card.Render(brand.String()))
	b.WriteString("\n\n")

	if len(d.Models) > 0 {
		b.WriteString(s.SectionHeader.Render("Models"))
		b.WriteString("\n")
		cards := make([]string, 0, len(d.Models))
		for _, model := range d.Models {
			var c strings.Builder
			c.WriteString(s.CardTitle.Render(model.ModelName))
			c.WriteString("\n")
			c.WriteString(s.Body.Render(wrap(model.Description, CardWidth-6)))
			c.WriteString("\n")
			c.WriteString(s.CardTitle.Render("Price Range: ") + s.Body.Render(model.PriceRange))
			cards = append(cards, s.Card.Width(CardWidth).Render(c.String()))
		}
		b.WriteString(joinCardRows(cards, cardsPerRow(m.width)))
		b.WriteString("\n\n")
	}

	if len(d.Features) > 0 {
		b.WriteString(s.SectionHeader.Render("Features"))
		b.WriteString("\n")
		cards := make([]string, 0, len(d.Features))
		for _, feature := range d.Features {
			var c strings.Builder
			c.WriteString(s.CardTitle.Render(feature.FeatureName))
			c.WriteString("\n")
			c.WriteString(s.Body.Render(wrap(feature.Description, CardWidth-6)))
			cards = append(cards, s.Card.Width(CardWidth).Render(c.String()))
		}
		b.WriteString(joinCardRows(cards, cardsPerRow(m.width)))
		b.WriteString("\n\n")
	}

	b.WriteString(s.SectionHeader.Render("Buying Suggestions"))
	b.WriteString("\n")
	b.WriteString(s.Card.Render(s.CardTitle.Render("Suggestion") + "\n" + s.Body.Render(wrap(d.BuyingSuggestions.Suggestion, contentWidth(m.width)))))
	b.WriteString("\n")
	b.WriteString(s.Card.Render(s.CardTitle.Render("Advice") + "\n" + s.Body.Render(wrap(d.BuyingSuggestions.Advice, contentWidth(m.width)))))
	b.WriteString("\n")

	if d.AdditionalContext != "" {
		b.WriteString("\n")
		b.WriteString(s.SectionHeader.Render("Additional Context"))
		b.WriteString("\n")
		b.WriteString(s.Card.Render(s.Body.Render(wrap(d.AdditionalContext, contentWidth(m.width)))))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// joinCardRows lays cards out horizontally, wrapping to new rows.
func joinCardRows(cards []string, perRow int) string {
	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return strings.Join(rows, "\n")
}

func contentWidth(width int) int {
	if width <= 0 {
		return 72
	}
	return max(width-12, 40)
}

// wrap soft-wraps text at width without breaking words.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(text) {
		if line > 0 && line+1+len(word) > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
