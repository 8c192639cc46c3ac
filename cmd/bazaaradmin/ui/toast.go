package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"bazaaradmin/internal/toast"
)

// toastExpiry arms the auto-dismiss timer for the toast identified by
// token. Only the newest token's expiry has any effect.
func toastExpiry(token toast.Token) tea.Cmd {
	return tea.Tick(toast.Duration, func(time.Time) tea.Msg {
		return toastExpiredMsg{token: token}
	})
}

// renderToast renders the visible toast, or "" when none is showing.
func renderToast(m toast.Model, styles Styles) string {
	t, ok := m.Visible()
	if !ok {
		return ""
	}
	switch t.Severity {
	case toast.SeverityError:
		return styles.Error.Render("✗ " + t.Message)
	case toast.SeverityWarning:
		return styles.Warning.Render("! " + t.Message)
	default:
		return styles.Success.Render("✓ " + t.Message)
	}
}
