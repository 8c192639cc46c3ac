package ui

import (
	"bazaaradmin/internal/api"
	"bazaaradmin/internal/toast"
)

// originDashboard marks fetches issued by the dashboard, whose
// sequence counter is independent of the resource pages'.
const originDashboard = "dashboard"

// fetchResultMsg carries the outcome of one list fetch. Pages stamp
// each fetch with their origin and a sequence number and drop results
// whose origin or sequence no longer matches, so a fetch from another
// screen (or a stale one) can never clobber a newer screen.
type fetchResultMsg struct {
	origin   string
	resource string
	seq      int
	data     []api.Entity
	err      error
}

// mutationDoneMsg reports the outcome of a create, update or delete.
type mutationDoneMsg struct {
	resource string
	message  string
	err      error
}

// detailResultMsg carries one entity fetched for a detail pane.
type detailResultMsg struct {
	resource string
	seq      int
	entity   api.Entity
	err      error
}

// statusesMsg carries the valid order status list.
type statusesMsg struct {
	statuses []string
	err      error
}

// toastExpiredMsg fires when a toast's dismiss timer elapses. The token
// identifies which Show call armed the timer.
type toastExpiredMsg struct {
	token toast.Token
}
