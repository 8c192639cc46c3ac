// Package ui layout constants for consistent spacing and dimensions.
package ui

// Layout constants for panel and table sizing.
const (
	// Chrome around the main content area
	HeaderHeight    = 2
	FooterHeight    = 2
	StatusBarHeight = 1

	// Sidebar dimensions
	SidebarWidth = 22

	// Panel borders and spacing
	PanelBorderWidth = 2
	PanelPaddingH    = 1
	ContentIndent    = 2

	// Table dimensions
	TableHeaderHeight = 2
	TableRowHeight    = 1
	TablePadding      = 2

	// Responsive breakpoints
	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24
	CompactModeWidth      = 100

	// Content widths
	MinContentWidth  = 50
	DetailPaneWidth  = 48
	CardMinWidth     = 18
	PreviewMaxWidth  = 100
)

// LayoutConfig provides computed layout dimensions based on terminal size.
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size.
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable width right of the sidebar.
func (l LayoutConfig) ContentWidth() int {
	w := l.TerminalWidth - SidebarWidth - ContentIndent
	if w < MinContentWidth {
		w = MinContentWidth
	}
	return w
}

// ContentHeight returns the usable height between header and footer.
func (l LayoutConfig) ContentHeight() int {
	h := l.TerminalHeight - HeaderHeight - FooterHeight - StatusBarHeight
	if h < 1 {
		h = 1
	}
	return h
}

// TableContentHeight calculates available height for table rows.
func TableContentHeight(totalHeight int) int {
	h := totalHeight - TableHeaderHeight - TablePadding
	if h < 1 {
		h = 1
	}
	return h
}
