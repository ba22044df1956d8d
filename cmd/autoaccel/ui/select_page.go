package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"autoaccel/internal/catalog"
	"autoaccel/internal/generation"
	"autoaccel/internal/selection"
)

// section identifies the focusable areas of the form, in tab order.
type section int

const (
	sectionBrand section = iota
	sectionModels
	sectionFeatures
	sectionContext
	sectionSubmit
	sectionCount
)

// statusKind classifies the inline status line.
type statusKind int

const (
	statusNone statusKind = iota
	statusInfo
	statusWarn
	statusError
)

// SelectPageModel is the preference form: brand, models, features and
// free-text context, submitted to the generation backend.
type SelectPageModel struct {
	state     *selection.State
	generator generation.Generator
	styles    Styles
	logger    *zap.Logger

	textarea textarea.Model
	spinner  spinner.Model

	focus  section
	cursor int

	showAllModels   bool
	showAllFeatures bool

	pickerOpen   bool
	pickerCursor int

	isLoading bool

	status     string
	statusKind statusKind

	width  int
	height int
}

// NewSelectPage creates the selection form bound to a generator backend.
func NewSelectPage(gen generation.Generator, styles Styles, logger *zap.Logger) SelectPageModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "Have anything specific in mind? Share your thoughts here!"
	ta.SetHeight(ContextMaxRows)
	ta.CharLimit = 0 // unconstrained length
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return SelectPageModel{
		state:     selection.New(),
		generator: gen,
		styles:    styles,
		logger:    logger,
		textarea:  ta,
		spinner:   sp,
	}
}

// State exposes the selection for the app shell and tests.
func (m *SelectPageModel) State() *selection.State { return m.state }

// Loading reports whether a submit is outstanding.
func (m *SelectPageModel) Loading() bool { return m.isLoading }

// SetSize updates the page dimensions.
func (m *SelectPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.textarea.SetWidth(min(w-8, 72))
}

// SetStyles applies a new theme.
func (m *SelectPageModel) SetStyles(styles Styles) {
	m.styles = styles
	m.spinner.Style = styles.Spinner
}

// Update handles key, spinner, and submit-outcome messages.
func (m SelectPageModel) Update(msg tea.Msg) (SelectPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.isLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case GenerationResultMsg:
		return m.finishAttempt(msg)
	}
	return m, nil
}

func (m SelectPageModel) handleKey(msg tea.KeyMsg) (SelectPageModel, tea.Cmd) {
	// The category picker modal swallows everything while open.
	if m.pickerOpen {
		return m.handlePickerKey(msg)
	}

	switch msg.Type {
	case tea.KeyTab:
		m.focus = (m.focus + 1) % sectionCount
		m.afterFocusChange()
		return m, nil
	case tea.KeyShiftTab:
		m.focus = (m.focus + sectionCount - 1) % sectionCount
		m.afterFocusChange()
		return m, nil
	case tea.KeyCtrlG:
		// Auto Accelerate from anywhere on the form.
		return m, m.submit()
	}

	if m.focus == sectionContext {
		if m.isLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		m.state.SetAdditionalContext(m.textarea.Value())
		return m, cmd
	}

	switch msg.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.currentChips())-1 {
			m.cursor++
		}
	case "c":
		if m.focus == sectionBrand {
			m.pickerOpen = true
			m.pickerCursor = indexOf(catalog.Categories(), m.state.BrandType())
		}
	case "enter", " ":
		return m.activate()
	}
	return m, nil
}

func (m SelectPageModel) handlePickerKey(msg tea.KeyMsg) (SelectPageModel, tea.Cmd) {
	cats := catalog.Categories()
	switch msg.String() {
	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case "down", "j":
		if m.pickerCursor < len(cats)-1 {
			m.pickerCursor++
		}
	case "enter":
		if err := m.state.SetBrandType(cats[m.pickerCursor]); err != nil {
			m.setStatus(err.Error(), statusError)
		}
		m.pickerOpen = false
		m.cursor = 0
		m.showAllModels = false
	case "esc", "q":
		m.pickerOpen = false
	}
	return m, nil
}

// activate applies enter/space on the focused section.
func (m SelectPageModel) activate() (SelectPageModel, tea.Cmd) {
	if m.isLoading {
		return m, nil
	}
	m.clearStatus()

	switch m.focus {
	case sectionBrand:
		brands := catalog.Brands(m.state.BrandType())
		if m.cursor >= len(brands) {
			return m, nil
		}
		if err := m.state.SelectBrand(brands[m.cursor]); err != nil {
			m.setStatus(err.Error(), statusError)
		}
		m.showAllModels = false

	case sectionModels:
		chips := m.visibleModels()
		if m.cursor >= len(chips) {
			return m, nil
		}
		name := chips[m.cursor]
		if name == showMoreChip {
			m.showAllModels = true
			return m, nil
		}
		if err := m.state.ToggleModel(name); err != nil {
			m.reportToggleError(err, "models")
		}

	case sectionFeatures:
		chips := m.visibleFeatures()
		if m.cursor >= len(chips) {
			return m, nil
		}
		name := chips[m.cursor]
		if name == showMoreChip {
			m.showAllFeatures = true
			return m, nil
		}
		if err := m.state.ToggleFeature(name); err != nil {
			m.reportToggleError(err, "features")
		}

	case sectionSubmit:
		return m, m.submit()
	}
	return m, nil
}

func (m *SelectPageModel) reportToggleError(err error, what string) {
	if err == selection.ErrLimitReached {
		m.setStatus(fmt.Sprintf("Selection limit reached: you can only select up to %d %s.", selection.MaxSelections, what), statusWarn)
		return
	}
	m.setStatus(err.Error(), statusError)
}

// submit validates preconditions and issues the one network call. A nil
// command is returned while a request is already outstanding, so a rapid
// double-press still produces exactly one call.
func (m *SelectPageModel) submit() tea.Cmd {
	if m.isLoading {
		return nil
	}
	if err := m.state.Validate(); err != nil {
		m.setStatus("Incomplete selection: please select a brand, models, and features before generating.", statusWarn)
		return nil
	}

	req := m.state.Snapshot()
	m.isLoading = true
	m.clearStatus()
	m.logger.Info("auto accelerate",
		zap.String("brand", req.Brand),
		zap.Strings("models", req.Models),
		zap.Strings("features", req.Features),
	)

	gen := m.generator
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			raw, err := gen.Generate(context.Background(), req)
			return GenerationResultMsg{Raw: raw, Err: err}
		},
	)
}

// finishAttempt applies a submit outcome. Whatever the outcome, the whole
// selection resets to defaults: reset-on-attempt, not reset-on-success.
func (m SelectPageModel) finishAttempt(msg GenerationResultMsg) (SelectPageModel, tea.Cmd) {
	m.isLoading = false

	var cmd tea.Cmd
	switch {
	case msg.Err != nil:
		m.logger.Warn("generation failed", zap.Error(msg.Err))
		m.setStatus("Unable to generate content. Please try again later.", statusError)
	case generation.Unrelated(msg.Raw):
		m.setStatus(generation.Sentinel, statusWarn)
	default:
		raw := msg.Raw
		cmd = func() tea.Msg { return ShowResponseMsg{Raw: raw} }
	}

	m.state.Reset()
	m.textarea.Reset()
	m.cursor = 0
	m.focus = sectionBrand
	m.showAllModels = false
	m.showAllFeatures = false
	return m, cmd
}

func (m *SelectPageModel) afterFocusChange() {
	m.cursor = 0
	if m.focus == sectionContext {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
}

func (m *SelectPageModel) setStatus(text string, kind statusKind) {
	m.status = text
	m.statusKind = kind
}

func (m *SelectPageModel) clearStatus() {
	m.status = ""
	m.statusKind = statusNone
}

const showMoreChip = "Show More"

func (m SelectPageModel) currentChips() []string {
	switch m.focus {
	case sectionBrand:
		return catalog.Brands(m.state.BrandType())
	case sectionModels:
		return m.visibleModels()
	case sectionFeatures:
		return m.visibleFeatures()
	}
	return nil
}

func (m SelectPageModel) visibleModels() []string {
	return collapse(catalog.Models(m.state.Brand()), m.showAllModels)
}

func (m SelectPageModel) visibleFeatures() []string {
	return collapse(catalog.Features(), m.showAllFeatures)
}

// collapse trims a chip list to MaxVisibleChips plus a "Show More" chip.
func collapse(all []string, showAll bool) []string {
	if showAll || len(all) <= MaxVisibleChips {
		return all
	}
	out := make([]string, 0, MaxVisibleChips+1)
	out = append(out, all[:MaxVisibleChips]...)
	return append(out, showMoreChip)
}

// View renders the form.
func (m SelectPageModel) View() string {
	s := m.styles
	var b strings.Builder

	if m.pickerOpen {
		return m.pickerView()
	}

	title := fmt.Sprintf("Select Brand  [%s]", capitalize(m.state.BrandType()))
	b.WriteString(m.chipCard(sectionBrand, title, catalog.Brands(m.state.BrandType()), m.state.Brand(), "press c to change category"))
	b.WriteString("\n")

	if m.state.Brand() != "" {
		title = fmt.Sprintf("Choose Models (%d/%d)", len(m.state.Models()), selection.MaxSelections)
		models := m.visibleModels()
		if len(models) == 0 {
			b.WriteString(m.sectionTitle(sectionModels, title) + "\n" + s.Muted.Render("  No models available for this brand.") + "\n")
		} else {
			b.WriteString(m.toggleCard(sectionModels, title, models, m.state.HasModel, len(m.state.Models())))
		}
		b.WriteString("\n")
	}

	title = fmt.Sprintf("Personalize Features (%d/%d)", len(m.state.Features()), selection.MaxSelections)
	b.WriteString(m.toggleCard(sectionFeatures, title, m.visibleFeatures(), m.state.HasFeature, len(m.state.Features())))
	b.WriteString("\n")

	b.WriteString(m.sectionTitle(sectionContext, "Refine Your Automobile Preferences"))
	b.WriteString("\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n\n")

	if m.isLoading {
		b.WriteString(m.spinner.View() + s.Body.Render(" Generating..."))
	} else if m.focus == sectionSubmit {
		b.WriteString(s.Button.Render("✦ Auto Accelerate") + s.Muted.Render("  press enter (or ctrl+g anywhere)"))
	} else {
		b.WriteString(s.ButtonDisabled.Render("✦ Auto Accelerate") + s.Muted.Render("  ctrl+g"))
	}

	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(m.statusStyle().Render(m.status))
	}

	return s.Content.Render(b.String())
}

func (m SelectPageModel) pickerView() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Title.Render("Brand Category"))
	b.WriteString("\n")
	for i, cat := range catalog.Categories() {
		label := capitalize(cat)
		switch {
		case i == m.pickerCursor:
			b.WriteString(s.ChipSelected.Render("> " + label))
		default:
			b.WriteString(s.Body.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + s.Muted.Render("enter select · esc close"))
	content := s.Card.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// chipCard renders a single-select chip row (brands).
func (m SelectPageModel) chipCard(sec section, title string, chips []string, selected, hint string) string {
	var b strings.Builder
	b.WriteString(m.sectionTitle(sec, title))
	if hint != "" && m.focus == sec {
		b.WriteString(m.styles.Muted.Render("  " + hint))
	}
	b.WriteString("\n")
	b.WriteString(m.chipRow(sec, chips, func(name string) bool { return name == selected }, false))
	b.WriteString("\n")
	return b.String()
}

// toggleCard renders a multi-select chip row with limit dimming.
func (m SelectPageModel) toggleCard(sec section, title string, chips []string, isOn func(string) bool, count int) string {
	var b strings.Builder
	b.WriteString(m.sectionTitle(sec, title))
	b.WriteString("\n")
	atLimit := count >= selection.MaxSelections
	b.WriteString(m.chipRow(sec, chips, isOn, atLimit))
	b.WriteString("\n")
	return b.String()
}

func (m SelectPageModel) chipRow(sec section, chips []string, isOn func(string) bool, dimUnselected bool) string {
	s := m.styles
	rendered := make([]string, 0, len(chips))
	for i, name := range chips {
		style := s.Chip
		switch {
		case isOn(name):
			style = s.ChipSelected
		case dimUnselected && name != showMoreChip:
			style = s.ChipDimmed
		}
		label := name
		if m.focus == sec && i == m.cursor {
			label = "[" + label + "]"
		}
		rendered = append(rendered, style.Render(label))
	}
	row := strings.Join(rendered, strings.Repeat(" ", ChipGap))
	if m.width > 8 {
		return lipgloss.NewStyle().Width(m.width - 8).Render(row)
	}
	return row
}

func (m SelectPageModel) sectionTitle(sec section, title string) string {
	if m.focus == sec {
		return m.styles.Title.Render("▸ " + title)
	}
	return m.styles.CardTitle.Render("  " + title)
}

func (m SelectPageModel) statusStyle() lipgloss.Style {
	switch m.statusKind {
	case statusWarn:
		return m.styles.Warning
	case statusError:
		return m.styles.Error
	default:
		return m.styles.Info
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func indexOf(list []string, v string) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return 0
}
