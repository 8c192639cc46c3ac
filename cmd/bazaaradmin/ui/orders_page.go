package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/query"
)

// OrdersPageModel lists orders. Status changes pick from the status
// list served by the backend, and deleting an order optionally returns
// its items to inventory.
type OrdersPageModel struct {
	page ResourcePageModel

	statuses []string

	changing bool
	changeID string
	form     *huh.Form

	deleting bool
	deleteID string
	confirm  *confirmModel
}

// NewOrdersPageModel creates the orders page.
func NewOrdersPageModel(client *api.Client, store *query.Store, styles Styles, logger *zap.Logger) OrdersPageModel {
	spec, _ := api.Lookup("orders")
	return OrdersPageModel{
		page: NewResourcePageModel(spec, client, store, styles, logger),
	}
}

// Init starts the list fetch and loads the valid status values.
func (m OrdersPageModel) Init() tea.Cmd {
	return tea.Batch(m.page.Init(), m.statusesCmd())
}

// SetSize updates the size.
func (m *OrdersPageModel) SetSize(w, h int) {
	m.page.SetSize(w, h)
}

func (m OrdersPageModel) statusesCmd() tea.Cmd {
	client := m.page.client
	return func() tea.Msg {
		statuses, err := client.OrderStatuses(context.Background())
		return statusesMsg{statuses: statuses, err: err}
	}
}

// Update handles messages. Data results go to the embedded page even
// while a dialog is open.
func (m OrdersPageModel) Update(msg tea.Msg) (OrdersPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statusesMsg:
		if msg.err != nil {
			m.page.logger.Warn("failed to load order statuses", zap.Error(msg.err))
			return m, nil
		}
		m.statuses = msg.statuses
		return m, nil

	case fetchResultMsg, mutationDoneMsg:
		var cmd tea.Cmd
		m.page, cmd = m.page.Update(msg)
		return m, cmd
	}

	if m.changing {
		return m.updateChange(msg)
	}
	if m.deleting {
		return m.updateDelete(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok && m.page.mode == modeTable {
		switch key.String() {
		case "enter", "u":
			if e, ok := m.page.selected(); ok && len(m.statuses) > 0 {
				return m.openChange(e)
			}
			return m, nil
		case "d":
			// Intercept delete so the restock question is asked.
			if e, ok := m.page.selected(); ok {
				m.deleting = true
				m.deleteID = e.ID()
				m.confirm = newConfirm("Delete this order?", true, m.page.dialogWidth())
				return m, m.confirm.form.Init()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	return m, cmd
}

func (m OrdersPageModel) openChange(e api.Entity) (OrdersPageModel, tea.Cmd) {
	m.changing = true
	m.changeID = e.ID()
	status := e.Str("status")
	opts := make([]huh.Option[string], 0, len(m.statuses))
	for _, s := range m.statuses {
		opts = append(opts, huh.NewOption(s, s))
	}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Key("status").
			Title("Order status").
			Options(opts...).
			Value(&status),
	)).WithShowHelp(false).WithWidth(m.page.dialogWidth())
	return m, m.form.Init()
}

func (m OrdersPageModel) updateChange(msg tea.Msg) (OrdersPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.changing = false
		m.form = nil
		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form = hf
	}

	switch m.form.State {
	case huh.StateAborted:
		m.changing = false
		m.form = nil
		return m, nil

	case huh.StateCompleted:
		status := m.form.GetString("status")
		id := m.changeID
		m.changing = false
		m.form = nil
		return m, m.changeStatusCmd(id, status)
	}

	return m, cmd
}

func (m OrdersPageModel) changeStatusCmd(id, status string) tea.Cmd {
	spec := m.page.spec
	store := m.page.store
	client := m.page.client
	return func() tea.Msg {
		err := store.Mutate(context.Background(), spec, func(ctx context.Context) error {
			_, err := client.UpdateOrderStatus(ctx, id, status)
			return err
		})
		return mutationDoneMsg{resource: spec.Name, message: "Order status updated", err: err}
	}
}

func (m OrdersPageModel) updateDelete(msg tea.Msg) (OrdersPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.deleting = false
		m.confirm = nil
		return m, nil
	}

	f, cmd := m.confirm.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.confirm.form = hf
	}

	switch m.confirm.form.State {
	case huh.StateAborted:
		m.deleting = false
		m.confirm = nil
		return m, nil

	case huh.StateCompleted:
		confirmed := m.confirm.confirmed
		restock := m.confirm.restock
		id := m.deleteID
		m.deleting = false
		m.confirm = nil
		if !confirmed {
			return m, nil
		}
		return m, m.deleteCmd(id, restock)
	}

	return m, cmd
}

func (m OrdersPageModel) deleteCmd(id string, restock bool) tea.Cmd {
	spec := m.page.spec
	store := m.page.store
	client := m.page.client
	return func() tea.Msg {
		err := store.Mutate(context.Background(), spec, func(ctx context.Context) error {
			return client.DeleteOrder(ctx, id, restock)
		})
		if err == nil && restock {
			store.Invalidate("inventory", "products")
		}
		return mutationDoneMsg{resource: spec.Name, message: "Order deleted", err: err}
	}
}

// View renders the page.
func (m OrdersPageModel) View() string {
	if m.changing {
		return m.page.styles.Content.Render(m.form.View())
	}
	if m.deleting {
		return m.page.styles.Content.Render(m.confirm.form.View())
	}
	view := m.page.View()
	if m.page.mode == modeTable {
		view += m.page.styles.Muted.Render(" • enter: change status")
	}
	return view
}
