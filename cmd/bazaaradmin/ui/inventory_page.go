package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/query"
)

// InventoryPageModel shows stock levels and drives quantity
// adjustments. An adjustment invalidates both the inventory and the
// products cache, since product rows carry a derived stock figure.
type InventoryPageModel struct {
	page ResourcePageModel

	adjusting bool
	adjustID  string
	form      *huh.Form
}

// NewInventoryPageModel creates the inventory page.
func NewInventoryPageModel(client *api.Client, store *query.Store, styles Styles, logger *zap.Logger) InventoryPageModel {
	spec, _ := api.Lookup("inventory")
	return InventoryPageModel{
		page: NewResourcePageModel(spec, client, store, styles, logger),
	}
}

// Init starts the first fetch.
func (m InventoryPageModel) Init() tea.Cmd {
	return m.page.Init()
}

// SetSize updates the size.
func (m *InventoryPageModel) SetSize(w, h int) {
	m.page.SetSize(w, h)
}

// Update handles messages. Data results go to the embedded page even
// while the adjust form is open.
func (m InventoryPageModel) Update(msg tea.Msg) (InventoryPageModel, tea.Cmd) {
	switch msg.(type) {
	case fetchResultMsg, mutationDoneMsg:
		var cmd tea.Cmd
		m.page, cmd = m.page.Update(msg)
		return m, cmd
	}

	if m.adjusting {
		return m.updateAdjust(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "a" && m.page.mode == modeTable {
		if e, ok := m.page.selected(); ok {
			return m.openAdjust(e)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	return m, cmd
}

func (m InventoryPageModel) openAdjust(e api.Entity) (InventoryPageModel, tea.Cmd) {
	m.adjusting = true
	m.adjustID = e.ID()
	op := string(api.OpSet)
	quantity := ""
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Key("op").
			Title("Adjustment").
			Options(
				huh.NewOption("Set exact quantity", string(api.OpSet)),
				huh.NewOption("Increase", string(api.OpIncrease)),
				huh.NewOption("Decrease", string(api.OpDecrease)),
			).
			Value(&op),
		huh.NewInput().
			Key("quantity").
			Title("Quantity").
			Value(&quantity),
	)).WithShowHelp(false).WithWidth(m.page.dialogWidth())
	return m, m.form.Init()
}

func (m InventoryPageModel) updateAdjust(msg tea.Msg) (InventoryPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.adjusting = false
		m.form = nil
		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form = hf
	}

	switch m.form.State {
	case huh.StateAborted:
		m.adjusting = false
		m.form = nil
		return m, nil

	case huh.StateCompleted:
		op := api.InventoryOp(m.form.GetString("op"))
		raw := strings.TrimSpace(m.form.GetString("quantity"))
		id := m.adjustID
		m.adjusting = false
		m.form = nil

		qty, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return m, func() tea.Msg {
				return mutationDoneMsg{resource: "inventory", err: fmt.Errorf("quantity must be a number")}
			}
		}
		return m, m.adjustCmd(id, qty, op)
	}

	return m, cmd
}

func (m InventoryPageModel) adjustCmd(id string, qty float64, op api.InventoryOp) tea.Cmd {
	spec := m.page.spec
	store := m.page.store
	client := m.page.client
	return func() tea.Msg {
		err := store.Mutate(context.Background(), spec, func(ctx context.Context) error {
			_, err := client.AdjustInventory(ctx, id, qty, op)
			return err
		})
		return mutationDoneMsg{resource: spec.Name, message: "Inventory updated", err: err}
	}
}

// View renders the page.
func (m InventoryPageModel) View() string {
	if m.adjusting {
		return m.page.styles.Content.Render(m.form.View())
	}
	view := m.page.View()
	if m.page.mode == modeTable {
		view += m.page.styles.Muted.Render(" • a: adjust stock")
	}
	return view
}
