package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/query"
	"bazaaradmin/internal/tablesort"
	"bazaaradmin/internal/toast"
)

func testPage(t *testing.T, resource string) ResourcePageModel {
	t.Helper()
	spec, ok := api.Lookup(resource)
	if !ok {
		t.Fatalf("unknown resource %q", resource)
	}
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewResourcePageModel(spec, client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)
	return model
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSimpleTableSortIndicatorAndSelection(t *testing.T) {
	table := NewSimpleTable("Products", []string{"Name", "Price"})
	table.ColumnIDs = []string{"name", "price"}
	table.SortColumn = "price"
	table.SortOrder = tablesort.Desc
	table.Selected = 1
	table.AddRow("apple", "10")
	table.AddRow("pear", "20")

	view := table.View(NewStyles(LightTheme()))
	if !strings.Contains(view, "Price ▼") {
		t.Fatalf("expected descending indicator on sorted column")
	}
	if strings.Contains(view, "Name ▲") || strings.Contains(view, "Name ▼") {
		t.Fatalf("expected no indicator on unsorted column")
	}
	if !strings.Contains(view, "pear") {
		t.Fatalf("expected row content in view")
	}
}

func TestResourcePageRendersFetchedRows(t *testing.T) {
	model := testPage(t, "products")
	if !strings.Contains(model.View(), "Loading") {
		t.Fatalf("expected loading state before the first result")
	}

	model, _ = model.Update(fetchResultMsg{
		origin:   "products",
		resource: "products",
		seq:      0,
		data: []api.Entity{
			{"id": "1", "name": "سیب", "price": float64(100)},
			{"id": "2", "name": "آلبالو", "price": float64(50)},
		},
	})
	view := model.View()
	if !strings.Contains(view, "سیب") {
		t.Fatalf("expected product name in view")
	}
	if !strings.Contains(view, "محصولات") {
		t.Fatalf("expected resource title in view")
	}
}

func TestResourcePageDropsStaleResult(t *testing.T) {
	model := testPage(t, "products")
	model, _ = model.Update(fetchResultMsg{
		origin:   "products",
		resource: "products",
		seq:      7,
		data:     []api.Entity{{"id": "1", "name": "stale"}},
	})
	if len(model.rows) != 0 {
		t.Fatalf("expected result with wrong sequence to be dropped")
	}

	model, _ = model.Update(fetchResultMsg{
		origin:   "orders",
		resource: "orders",
		seq:      0,
		data:     []api.Entity{{"id": "1"}},
	})
	if len(model.rows) != 0 {
		t.Fatalf("expected result for another resource to be dropped")
	}
}

func TestResourcePageDigitSortTogglesDirection(t *testing.T) {
	model := testPage(t, "products")
	model, _ = model.Update(fetchResultMsg{
		origin:   "products",
		resource: "products",
		seq:      0,
		data: []api.Entity{
			{"id": "1", "name": "سیب"},
			{"id": "2", "name": "آلبالو"},
		},
	})

	model, _ = model.Update(keyRune('1'))
	if model.sort.OrderBy != "name" || model.sort.Order != tablesort.Asc {
		t.Fatalf("expected first digit press to sort ascending by name")
	}
	first := model.rows[0].Str("name")

	model, _ = model.Update(keyRune('1'))
	if model.sort.Order != tablesort.Desc {
		t.Fatalf("expected second press to flip to descending")
	}
	if model.rows[0].Str("name") == first {
		t.Fatalf("expected row order to reverse")
	}
}

func TestResourcePageCursorNavigation(t *testing.T) {
	model := testPage(t, "products")
	model, _ = model.Update(fetchResultMsg{
		origin:   "products",
		resource: "products",
		seq:      0,
		data: []api.Entity{
			{"id": "1", "name": "a"},
			{"id": "2", "name": "b"},
			{"id": "3", "name": "c"},
		},
	})

	model, _ = model.Update(keyRune('j'))
	model, _ = model.Update(keyRune('j'))
	if model.cursor != 2 {
		t.Fatalf("expected cursor at 2, got %d", model.cursor)
	}
	model, _ = model.Update(keyRune('j'))
	if model.cursor != 2 {
		t.Fatalf("expected cursor clamped at last row")
	}
	model, _ = model.Update(keyRune('g'))
	if model.cursor != 0 {
		t.Fatalf("expected cursor at top after g")
	}
}

func TestResourcePageCreateDialog(t *testing.T) {
	model := testPage(t, "categories")
	model, cmd := model.Update(keyRune('n'))
	if model.mode != modeDialog {
		t.Fatalf("expected dialog mode after n")
	}
	if cmd == nil {
		t.Fatalf("expected form init command")
	}
	if !strings.Contains(model.View(), "نام") {
		t.Fatalf("expected field label in dialog view")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.mode != modeTable {
		t.Fatalf("expected esc to close the dialog")
	}
}

func TestResourcePageDeleteNeedsConfirm(t *testing.T) {
	model := testPage(t, "categories")
	model, _ = model.Update(fetchResultMsg{
		origin:   "categories",
		resource: "categories",
		seq:      0,
		data:     []api.Entity{{"id": "1", "name": "x"}},
	})
	model, _ = model.Update(keyRune('d'))
	if model.mode != modeConfirm {
		t.Fatalf("expected confirm mode after d")
	}
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.mode != modeTable || model.pendingDelete != "" {
		t.Fatalf("expected esc to cancel the delete")
	}
}

func TestResourcePageFilter(t *testing.T) {
	model := testPage(t, "products")
	model, _ = model.Update(fetchResultMsg{
		origin:   "products",
		resource: "products",
		seq:      0,
		data: []api.Entity{
			{"id": "1", "name": "سیب"},
			{"id": "2", "name": "گلابی"},
		},
	})

	model, _ = model.Update(keyRune('/'))
	model, _ = model.Update(keyRune('س'))
	if len(model.rows) != 1 || model.rows[0].Str("name") != "سیب" {
		t.Fatalf("expected filter to narrow to one row")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(model.rows) != 2 {
		t.Fatalf("expected esc to clear the filter")
	}
}

func TestDashboardCountsAndRevenue(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewDashboardPageModel(client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	model, _ = model.Update(fetchResultMsg{origin: originDashboard, resource: "orders", seq: 0, data: []api.Entity{
		{"id": "1", "totalAmount": float64(1200), "status": "pending"},
		{"id": "2", "totalAmount": float64(800), "status": "delivered"},
	}})
	model, _ = model.Update(fetchResultMsg{origin: originDashboard, resource: "products", seq: 0, data: []api.Entity{{"id": "p1"}}})
	model, _ = model.Update(fetchResultMsg{origin: originDashboard, resource: "users", seq: 0, data: []api.Entity{{"id": "u1"}, {"id": "u2"}}})

	if model.Revenue() != 2000 {
		t.Fatalf("expected revenue 2000, got %v", model.Revenue())
	}
	view := model.View()
	if !strings.Contains(view, "Orders") || !strings.Contains(view, "Revenue") {
		t.Fatalf("expected stat cards in view")
	}
	if !strings.Contains(view, "1 orders pending") {
		t.Fatalf("expected pending summary in view")
	}
}

func TestOrdersStatusDialogUsesFetchedStatuses(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewOrdersPageModel(client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	model, _ = model.Update(statusesMsg{statuses: []string{"pending", "shipped", "delivered"}})
	model, _ = model.Update(fetchResultMsg{origin: "orders", resource: "orders", seq: 0, data: []api.Entity{
		{"id": "o1", "orderNumber": "1001", "status": "pending"},
	}})

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !model.changing {
		t.Fatalf("expected status dialog after enter")
	}
	if !strings.Contains(model.View(), "Order status") {
		t.Fatalf("expected status dialog in view")
	}
}

func TestOrdersDeleteAsksAboutRestock(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewOrdersPageModel(client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	model, _ = model.Update(fetchResultMsg{origin: "orders", resource: "orders", seq: 0, data: []api.Entity{
		{"id": "o1", "orderNumber": "1001"},
	}})
	model, _ = model.Update(keyRune('d'))
	if !model.deleting {
		t.Fatalf("expected delete confirm after d")
	}
	if !strings.Contains(model.View(), "inventory") {
		t.Fatalf("expected restock question in view")
	}
}

func TestContactDetailAndReply(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewContactPageModel(client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	model, _ = model.Update(fetchResultMsg{origin: "contact", resource: "contact", seq: 0, data: []api.Entity{
		{"id": "c1", "name": "Sara", "subject": "Delivery", "status": "new"},
	}})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !model.viewing || cmd == nil {
		t.Fatalf("expected detail fetch after enter")
	}

	model, _ = model.Update(detailResultMsg{resource: "contact", seq: 1, entity: api.Entity{
		"id": "c1", "name": "Sara", "email": "sara@example.com",
		"subject": "Delivery", "message": "Where is my order?", "status": "new",
	}})
	view := model.View()
	if !strings.Contains(view, "Where is my order?") {
		t.Fatalf("expected message body in detail view")
	}

	model, _ = model.Update(keyRune('m'))
	if !model.replying {
		t.Fatalf("expected reply form after m")
	}
	if !strings.Contains(model.View(), "Reply message") {
		t.Fatalf("expected reply form in view")
	}
}

func TestBlogsMarkdownPreview(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewBlogsPageModel(client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	model, _ = model.Update(fetchResultMsg{origin: "blogs", resource: "blogs", seq: 0, data: []api.Entity{
		{"id": "b1", "title": "Harvest season", "content": "**bold** body"},
	}})
	model, _ = model.Update(keyRune('v'))
	if !model.previewing {
		t.Fatalf("expected preview mode after v")
	}
	if !strings.Contains(model.View(), "Harvest season") {
		t.Fatalf("expected rendered title in preview")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.previewing {
		t.Fatalf("expected esc to leave the preview")
	}
}

func TestInventoryAdjustDialog(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewInventoryPageModel(client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	model, _ = model.Update(fetchResultMsg{origin: "inventory", resource: "inventory", seq: 0, data: []api.Entity{
		{"id": "i1", "name": "سیب", "stock": float64(3)},
	}})
	model, _ = model.Update(keyRune('a'))
	if !model.adjusting {
		t.Fatalf("expected adjust dialog after a")
	}
	if !strings.Contains(model.View(), "Adjustment") {
		t.Fatalf("expected adjustment form in view")
	}
}

func TestAppSidebarNavigationAndToast(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	app := NewApp(client, store, NewStyles(LightTheme()), zap.NewNop())

	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if !app.focusSidebar {
		t.Fatalf("expected tab to focus the sidebar")
	}

	model, _ = app.Update(keyRune('j'))
	app = model.(App)
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(App)
	if app.active != "products" {
		t.Fatalf("expected products page active, got %q", app.active)
	}

	model, cmd := app.Update(mutationDoneMsg{resource: "products", message: "saved"})
	app = model.(App)
	if cmd == nil {
		t.Fatalf("expected expiry timer command with the toast")
	}
	if !strings.Contains(app.View(), "saved") {
		t.Fatalf("expected toast message in view")
	}

	model, _ = app.Update(toastExpiredMsg{token: toast.Token(1)})
	app = model.(App)
	if strings.Contains(app.View(), "saved") {
		t.Fatalf("expected toast to be dismissed by its own token")
	}
}

func TestThemeByName(t *testing.T) {
	if !ThemeByName("dark").IsDark {
		t.Fatalf("expected dark theme")
	}
	if ThemeByName("light").IsDark {
		t.Fatalf("expected light theme")
	}
}

func TestErrorToastFallsBackToErrorText(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	app := NewApp(client, store, NewStyles(LightTheme()), zap.NewNop())

	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = model.(App)

	model, _ = app.Update(mutationDoneMsg{resource: "products", err: errors.New("dial tcp: connection refused")})
	app = model.(App)

	visible, ok := app.toasts.Visible()
	if !ok {
		t.Fatalf("expected an error toast")
	}
	if visible.Message == "" {
		t.Fatalf("expected a non-empty toast message for a network error")
	}
	if !strings.Contains(app.View(), "connection refused") {
		t.Fatalf("expected error text in the toast")
	}
}

func TestResourcePageRefetchesAfterDependencyMutation(t *testing.T) {
	spec, ok := api.Lookup("products")
	if !ok {
		t.Fatalf("unknown resource")
	}
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewResourcePageModel(spec, client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	// Seed the shared cache the way the page's own fetch would.
	_, err := store.Fetch(context.Background(), query.Key("products", nil), func(ctx context.Context) ([]api.Entity, error) {
		return []api.Entity{{"id": "1", "name": "سیب"}}, nil
	})
	if err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}
	model, _ = model.Update(fetchResultMsg{
		origin:   "products",
		resource: "products",
		seq:      0,
		data:     []api.Entity{{"id": "1", "name": "سیب"}},
	})

	// A mutation that invalidated nothing of ours must not refetch.
	model, cmd := model.Update(mutationDoneMsg{resource: "blogs", message: "Record updated"})
	if cmd != nil {
		t.Fatalf("expected no refetch for an unrelated mutation")
	}

	// An inventory mutation invalidates products through its declared
	// dependents, so the page must refetch when the outcome arrives.
	invSpec, _ := api.Lookup("inventory")
	if err := store.Mutate(context.Background(), invSpec, func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("mutate failed: %v", err)
	}
	_, cmd = model.Update(mutationDoneMsg{resource: "inventory", message: "Inventory updated"})
	if cmd == nil {
		t.Fatalf("expected a refetch after a dependency mutation")
	}
}

func TestDashboardIgnoresOtherPagesFetches(t *testing.T) {
	client := api.New("http://localhost:4000")
	store := query.NewStore(zap.NewNop())
	model := NewDashboardPageModel(client, store, NewStyles(LightTheme()), zap.NewNop())
	model.SetSize(100, 30)

	// A products page result with a coincidentally equal sequence must
	// not feed the dashboard's counters.
	model, _ = model.Update(fetchResultMsg{
		origin:   "products",
		resource: "products",
		seq:      0,
		data:     []api.Entity{{"id": "p1"}},
	})
	if model.loading != 3 || model.products != nil {
		t.Fatalf("expected dashboard to drop another page's fetch result")
	}

	model, _ = model.Update(fetchResultMsg{
		origin:   originDashboard,
		resource: "products",
		seq:      0,
		data:     []api.Entity{{"id": "p1"}},
	})
	if model.loading != 2 || len(model.products) != 1 {
		t.Fatalf("expected dashboard to absorb its own fetch result")
	}
}
