// Package toast models the single transient status message shown after
// each mutation. At most one toast is visible; showing a new one
// replaces the old and restarts the auto-dismiss window. The model is a
// value type driven by the UI event loop: Show hands back a token, the
// loop schedules an expiry for it, and expiries from superseded tokens
// are ignored so a replaced toast's timer can never dismiss its
// successor.
package toast

import "time"

// Duration is the auto-dismiss window.
const Duration = 4000 * time.Millisecond

// Severity classifies a toast.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Token identifies one Show call's dismiss timer.
type Token uint64

// Toast is one visible message.
type Toast struct {
	Message  string
	Severity Severity
}

// Model holds the toast channel state.
type Model struct {
	current *Toast
	seq     Token
}

// Show replaces any pending toast and returns the token its expiry
// must carry.
func (m Model) Show(message string, severity Severity) (Model, Token) {
	if severity == "" {
		severity = SeveritySuccess
	}
	m.seq++
	m.current = &Toast{Message: message, Severity: severity}
	return m, m.seq
}

// Expire dismisses the toast the token belongs to. Expiries for a
// superseded token are no-ops.
func (m Model) Expire(token Token) Model {
	if token == m.seq && m.current != nil {
		m.current = nil
	}
	return m
}

// Dismiss clears the toast immediately and invalidates its timer.
func (m Model) Dismiss() Model {
	if m.current != nil {
		m.current = nil
		m.seq++
	}
	return m
}

// Visible returns the current toast, if one is showing.
func (m Model) Visible() (Toast, bool) {
	if m.current == nil {
		return Toast{}, false
	}
	return *m.current, true
}
