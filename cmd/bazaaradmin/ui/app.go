package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/form"
	"bazaaradmin/internal/query"
	"bazaaradmin/internal/toast"
)

// pageDashboard is the sidebar entry that is not a backend resource.
const pageDashboard = "dashboard"

// specialPages are resources with a dedicated page model; everything
// else goes through the generic resource page.
var specialPages = map[string]bool{
	"inventory": true,
	"orders":    true,
	"contact":   true,
	"blogs":     true,
}

type sidebarItem struct {
	name  string
	title string
}

// App is the root model of the dashboard TUI: a sidebar of resources
// on the left, the active page on the right, one toast line at the
// bottom.
type App struct {
	client *api.Client
	store  *query.Store
	styles Styles
	logger *zap.Logger

	layout       LayoutConfig
	items        []sidebarItem
	sidebarIdx   int
	focusSidebar bool
	active       string
	started      map[string]bool

	dashboard DashboardPageModel
	inventory InventoryPageModel
	orders    OrdersPageModel
	contact   ContactPageModel
	blogs     BlogsPageModel
	generic   map[string]ResourcePageModel

	toasts toast.Model
}

// NewApp wires the dashboard from an authenticated client and a shared
// cache store.
func NewApp(client *api.Client, store *query.Store, styles Styles, logger *zap.Logger) App {
	items := []sidebarItem{{name: pageDashboard, title: "داشبورد"}}
	generic := make(map[string]ResourcePageModel)
	for _, spec := range api.Resources {
		items = append(items, sidebarItem{name: spec.Name, title: spec.Title})
		if !specialPages[spec.Name] {
			generic[spec.Name] = NewResourcePageModel(spec, client, store, styles, logger)
		}
	}

	return App{
		client:    client,
		store:     store,
		styles:    styles,
		logger:    logger,
		items:     items,
		active:    pageDashboard,
		started:   map[string]bool{pageDashboard: true},
		dashboard: NewDashboardPageModel(client, store, styles, logger),
		inventory: NewInventoryPageModel(client, store, styles, logger),
		orders:    NewOrdersPageModel(client, store, styles, logger),
		contact:   NewContactPageModel(client, store, styles, logger),
		blogs:     NewBlogsPageModel(client, store, styles, logger),
		generic:   generic,
	}
}

// Init starts the dashboard fetches.
func (m App) Init() tea.Cmd {
	return m.dashboard.Init()
}

// busy reports whether the active page has a dialog open, in which
// case app-level key handling must stay out of the way.
func (m App) busy() bool {
	switch m.active {
	case pageDashboard:
		return false
	case "inventory":
		return m.inventory.adjusting || pageBusy(m.inventory.page)
	case "orders":
		return m.orders.changing || m.orders.deleting || pageBusy(m.orders.page)
	case "contact":
		return m.contact.replying || pageBusy(m.contact.page)
	case "blogs":
		return pageBusy(m.blogs.page)
	default:
		return pageBusy(m.generic[m.active])
	}
}

func pageBusy(p ResourcePageModel) bool {
	return p.mode != modeTable || p.filtering
}

// Update handles messages.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayoutConfig(msg.Width, msg.Height)
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		m.inventory.SetSize(w, h)
		m.orders.SetSize(w, h)
		m.contact.SetSize(w, h)
		m.blogs.SetSize(w, h)
		for name, page := range m.generic {
			page.SetSize(w, h)
			m.generic[name] = page
		}
		return m, nil

	case toastExpiredMsg:
		m.toasts = m.toasts.Expire(msg.token)
		return m, nil

	case mutationDoneMsg:
		var token toast.Token
		var verr *form.ErrValidation
		switch {
		case msg.err == nil:
			m.toasts, token = m.toasts.Show(msg.message, toast.SeveritySuccess)
		case errors.As(msg.err, &verr):
			m.toasts, token = m.toasts.Show(verr.Label+" الزامی است", toast.SeverityWarning)
		default:
			m.toasts, token = m.toasts.Show(api.ServerMessage(msg.err), toast.SeverityError)
		}
		cmds := []tea.Cmd{toastExpiry(token)}
		if cmd := m.route(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case fetchResultMsg, detailResultMsg, statusesMsg:
		cmd := m.route(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.busy() {
			if handled, model, cmd := m.handleNavKey(msg); handled {
				return model, cmd
			}
		}
		cmd := m.routeToActive(msg)
		return m, cmd
	}

	cmd := m.route(msg)
	return m, cmd
}

func (m App) handleNavKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	key := msg.String()

	if m.focusSidebar {
		switch key {
		case "j", "down":
			if m.sidebarIdx < len(m.items)-1 {
				m.sidebarIdx++
			}
			return true, m, nil
		case "k", "up":
			if m.sidebarIdx > 0 {
				m.sidebarIdx--
			}
			return true, m, nil
		case "enter":
			m.focusSidebar = false
			model, cmd := m.activate(m.items[m.sidebarIdx].name)
			return true, model, cmd
		case "tab", "esc":
			m.focusSidebar = false
			return true, m, nil
		case "q":
			return true, m, tea.Quit
		}
		return true, m, nil
	}

	if key == "tab" {
		m.focusSidebar = true
		return true, m, nil
	}
	return false, m, nil
}

// activate switches the visible page, starting its first fetch on
// first visit.
func (m App) activate(name string) (tea.Model, tea.Cmd) {
	m.active = name
	if m.started[name] {
		return m, nil
	}
	m.started[name] = true
	switch name {
	case "inventory":
		return m, m.inventory.Init()
	case "orders":
		return m, m.orders.Init()
	case "contact":
		return m, m.contact.Init()
	case "blogs":
		return m, m.blogs.Init()
	default:
		page := m.generic[name]
		cmd := page.Init()
		m.generic[name] = page
		return m, cmd
	}
}

// route broadcasts data messages to every page; each page drops what
// it did not ask for by checking resource and sequence.
func (m *App) route(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.dashboard, cmd = m.dashboard.Update(msg)
	cmds = append(cmds, cmd)
	m.inventory, cmd = m.inventory.Update(msg)
	cmds = append(cmds, cmd)
	m.orders, cmd = m.orders.Update(msg)
	cmds = append(cmds, cmd)
	m.contact, cmd = m.contact.Update(msg)
	cmds = append(cmds, cmd)
	m.blogs, cmd = m.blogs.Update(msg)
	cmds = append(cmds, cmd)
	for name, page := range m.generic {
		page, cmd = page.Update(msg)
		m.generic[name] = page
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// routeToActive sends key input only to the visible page.
func (m *App) routeToActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.active {
	case pageDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case "inventory":
		m.inventory, cmd = m.inventory.Update(msg)
	case "orders":
		m.orders, cmd = m.orders.Update(msg)
	case "contact":
		m.contact, cmd = m.contact.Update(msg)
	case "blogs":
		m.blogs, cmd = m.blogs.Update(msg)
	default:
		page := m.generic[m.active]
		page, cmd = page.Update(msg)
		m.generic[m.active] = page
	}
	return cmd
}

func (m App) activeView() string {
	switch m.active {
	case pageDashboard:
		return m.dashboard.View()
	case "inventory":
		return m.inventory.View()
	case "orders":
		return m.orders.View()
	case "contact":
		return m.contact.View()
	case "blogs":
		return m.blogs.View()
	default:
		page := m.generic[m.active]
		return page.View()
	}
}

func (m App) sidebarView() string {
	s := m.styles
	lines := make([]string, 0, len(m.items))
	for i, item := range m.items {
		style := s.SidebarItem
		label := item.title
		if item.name == m.active {
			style = s.SidebarActive
		}
		if m.focusSidebar && i == m.sidebarIdx {
			label = "› " + label
		}
		lines = append(lines, style.Render(label))
	}
	return s.Sidebar.Width(SidebarWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// View renders the app.
func (m App) View() string {
	s := m.styles

	header := s.Header.Render("bazaaradmin")
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), m.activeView())

	status := renderToast(m.toasts, s)
	if status == "" {
		status = s.Footer.Render("tab: sidebar • ctrl+c: quit")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}
