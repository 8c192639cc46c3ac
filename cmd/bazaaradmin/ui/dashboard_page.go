package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/query"
)

// DashboardPageModel shows the store overview: order, product and user
// counts plus total revenue, each as a stat card.
type DashboardPageModel struct {
	client *api.Client
	store  *query.Store
	styles Styles
	logger *zap.Logger

	width  int
	height int

	orders   []api.Entity
	products []api.Entity
	users    []api.Entity
	seq      int
	loading  int
	err      error
}

// NewDashboardPageModel creates the dashboard.
func NewDashboardPageModel(client *api.Client, store *query.Store, styles Styles, logger *zap.Logger) DashboardPageModel {
	return DashboardPageModel{
		client:  client,
		store:   store,
		styles:  styles,
		logger:  logger,
		loading: 3,
	}
}

// Init fetches the collections behind the stat cards.
func (m DashboardPageModel) Init() tea.Cmd {
	return tea.Batch(
		m.fetchCmd("orders"),
		m.fetchCmd("products"),
		m.fetchCmd("users"),
	)
}

// SetSize updates the size.
func (m *DashboardPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// refresh invalidates and refetches under a new sequence, dropping
// whatever the previous sequence still has in flight.
func (m *DashboardPageModel) refresh() tea.Cmd {
	m.store.Invalidate("orders", "products", "users")
	m.seq++
	m.loading = 3
	m.err = nil
	return tea.Batch(
		m.fetchCmd("orders"),
		m.fetchCmd("products"),
		m.fetchCmd("users"),
	)
}

func (m DashboardPageModel) fetchCmd(resource string) tea.Cmd {
	spec, _ := api.Lookup(resource)
	seq := m.seq
	store := m.store
	client := m.client
	key := query.Key(resource, nil)
	return func() tea.Msg {
		data, err := store.Fetch(context.Background(), key, func(ctx context.Context) ([]api.Entity, error) {
			return client.List(ctx, spec, nil)
		})
		return fetchResultMsg{origin: originDashboard, resource: resource, seq: seq, data: data, err: err}
	}
}

// Update handles messages.
func (m DashboardPageModel) Update(msg tea.Msg) (DashboardPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchResultMsg:
		if msg.origin != originDashboard || msg.seq != m.seq {
			return m, nil
		}
		switch msg.resource {
		case "orders":
			m.orders = msg.data
		case "products":
			m.products = msg.data
		case "users":
			m.users = msg.data
		default:
			return m, nil
		}
		if m.loading > 0 {
			m.loading--
		}
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case mutationDoneMsg:
		// Mutations invalidate the lists behind the stat cards, so
		// refetch whichever went stale.
		if msg.err != nil {
			return m, nil
		}
		var cmds []tea.Cmd
		for _, resource := range []string{"orders", "products", "users"} {
			if snap, ok := m.store.Snapshot(query.Key(resource, nil)); ok && snap.Stale {
				cmds = append(cmds, m.fetchCmd(resource))
			}
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if msg.String() == "r" {
			cmd := m.refresh()
			return m, cmd
		}
	}
	return m, nil
}

// Revenue sums every order's total.
func (m DashboardPageModel) Revenue() float64 {
	var total float64
	for _, o := range m.orders {
		total += o.Num("totalAmount")
	}
	return total
}

func (m DashboardPageModel) card(title, value string) string {
	s := m.styles
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		s.CardTitle.Render(title),
		s.CardValue.Render(value),
	)
	return s.Card.Render(content)
}

// View renders the stat cards.
func (m DashboardPageModel) View() string {
	s := m.styles
	if m.loading > 0 {
		return s.Content.Render(s.Muted.Render("Loading dashboard..."))
	}
	if m.err != nil {
		return s.Content.Render(s.Error.Render("Failed to load: " + api.ServerMessage(m.err)))
	}

	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.card("Orders", fmt.Sprintf("%d", len(m.orders))),
		m.card("Products", fmt.Sprintf("%d", len(m.products))),
		m.card("Users", fmt.Sprintf("%d", len(m.users))),
		m.card("Revenue", fmt.Sprintf("%.0f", m.Revenue())),
	)

	var pending int
	for _, o := range m.orders {
		if o.Str("status") == "pending" {
			pending++
		}
	}
	summary := s.Muted.Render(fmt.Sprintf("%d orders pending • r: refresh", pending))

	return s.Content.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Overview"),
		cards,
		"",
		summary,
	))
}
