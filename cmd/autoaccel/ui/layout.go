// Package ui layout constants for consistent spacing and dimensions.
package ui

const (
	// Chip grid
	MaxVisibleChips = 5 // collapsed rows show this many before "Show More"
	ChipGap         = 1

	// Cards
	CardWidth      = 34
	CardsPerRow    = 3
	CardGap        = 2
	CardMinHeight  = 6
	ContextMaxRows = 5

	// Page chrome
	HeaderHeight = 2
	FooterHeight = 2
	StatusHeight = 1

	// Responsive breakpoints
	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24
	CompactModeWidth      = 100
)

// cardsPerRow returns how many response cards fit side by side.
func cardsPerRow(width int) int {
	n := width / (CardWidth + CardGap)
	if n < 1 {
		return 1
	}
	if n > CardsPerRow {
		return CardsPerRow
	}
	return n
}
