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
	"bazaaradmin/internal/form"
	"bazaaradmin/internal/query"
	"bazaaradmin/internal/tablesort"
)

type pageMode int

const (
	modeTable pageMode = iota
	modeDialog
	modeConfirm
)

// ResourcePageModel is the generic list screen for one backend
// resource: a sortable table fed from the query cache, with create,
// edit and delete dialogs driven by the resource's field metadata.
type ResourcePageModel struct {
	spec   api.Spec
	client *api.Client
	store  *query.Store
	styles Styles
	logger *zap.Logger

	width  int
	height int

	data    []api.Entity
	rows    []api.Entity
	sort    tablesort.State
	cursor  int
	seq     int
	loading bool
	err     error

	filtering bool
	filter    string

	mode          pageMode
	dialog        *dialogModel
	confirm       *confirmModel
	pendingDraft  *form.Draft
	pendingDelete string
}

// NewResourcePageModel creates the page for one resource.
func NewResourcePageModel(spec api.Spec, client *api.Client, store *query.Store, styles Styles, logger *zap.Logger) ResourcePageModel {
	return ResourcePageModel{
		spec:    spec,
		client:  client,
		store:   store,
		styles:  styles,
		logger:  logger,
		loading: true,
	}
}

// Init starts the first fetch.
func (m ResourcePageModel) Init() tea.Cmd {
	return m.fetchCmd()
}

// SetSize updates the size.
func (m *ResourcePageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// fetchCmd loads the list behind the current sequence number. The
// sequence is advanced by the paths that must cancel an in-flight
// result (refresh), not here, so the Init fetch matches seq 0.
func (m ResourcePageModel) fetchCmd() tea.Cmd {
	seq := m.seq
	spec := m.spec
	store := m.store
	client := m.client
	key := query.Key(spec.Name, nil)
	return func() tea.Msg {
		data, err := store.Fetch(context.Background(), key, func(ctx context.Context) ([]api.Entity, error) {
			return client.List(ctx, spec, nil)
		})
		return fetchResultMsg{origin: spec.Name, resource: spec.Name, seq: seq, data: data, err: err}
	}
}

// staleInCache reports whether the page's cached list was invalidated
// since it last loaded.
func (m ResourcePageModel) staleInCache() bool {
	snap, ok := m.store.Snapshot(query.Key(m.spec.Name, nil))
	return ok && snap.Stale
}

func (m *ResourcePageModel) refreshCmd() tea.Cmd {
	m.store.Invalidate(m.spec.Name)
	m.seq++
	m.loading = true
	return m.fetchCmd()
}

// matchesFilter does a substring match across the string columns.
func (m ResourcePageModel) matchesFilter(e api.Entity) bool {
	if m.filter == "" {
		return true
	}
	needle := strings.ToLower(m.filter)
	for _, col := range m.spec.Columns {
		if col.Kind != api.KindString {
			continue
		}
		if strings.Contains(strings.ToLower(e.Str(col.ID)), needle) {
			return true
		}
	}
	return false
}

func (m *ResourcePageModel) resort() {
	data := m.data
	if m.filter != "" {
		data = make([]api.Entity, 0, len(m.data))
		for _, e := range m.data {
			if m.matchesFilter(e) {
				data = append(data, e)
			}
		}
	}
	m.rows = tablesort.Apply(data, m.spec.Columns, m.sort)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m ResourcePageModel) selected() (api.Entity, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil, false
	}
	return m.rows[m.cursor], true
}

// Update handles messages. Data results are handled regardless of
// mode so an open dialog cannot swallow a fetch outcome.
func (m ResourcePageModel) Update(msg tea.Msg) (ResourcePageModel, tea.Cmd) {
	switch msg.(type) {
	case fetchResultMsg, mutationDoneMsg:
		return m.updateTable(msg)
	}
	switch m.mode {
	case modeDialog:
		return m.updateDialog(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	}
	return m.updateTable(msg)
}

func (m ResourcePageModel) updateTable(msg tea.Msg) (ResourcePageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchResultMsg:
		if msg.origin != m.spec.Name || msg.resource != m.spec.Name || msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil || msg.data != nil {
			m.data = msg.data
			m.resort()
		}
		return m, nil

	case mutationDoneMsg:
		if msg.resource != m.spec.Name {
			// A mutation elsewhere may have invalidated this list
			// through declared dependents (inventory touches
			// products). Refetch behind the stale rows.
			if msg.err == nil && m.staleInCache() {
				return m, m.fetchCmd()
			}
			return m, nil
		}
		if m.pendingDraft != nil {
			if err := m.pendingDraft.Discard(); err != nil {
				m.logger.Warn("failed to release draft previews", zap.Error(err))
			}
			m.pendingDraft = nil
		}
		if msg.err == nil {
			return m, m.fetchCmd()
		}
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.Type {
			case tea.KeyEsc:
				m.filtering = false
				m.filter = ""
				m.resort()
			case tea.KeyEnter:
				m.filtering = false
			case tea.KeyBackspace:
				if len(m.filter) > 0 {
					r := []rune(m.filter)
					m.filter = string(r[:len(r)-1])
					m.resort()
				}
			case tea.KeyRunes:
				m.filter += string(msg.Runes)
				m.resort()
			}
			return m, nil
		}

		switch msg.String() {
		case "/":
			m.filtering = true
			m.filter = ""
		case "j", "down":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.rows) - 1
			if m.cursor < 0 {
				m.cursor = 0
			}
		case "r":
			return m, m.refreshCmd()
		case "n":
			if m.spec.CanCreate {
				return m.openDialog(nil)
			}
		case "enter":
			if m.spec.CanUpdate {
				if e, ok := m.selected(); ok {
					return m.openDialog(e)
				}
			}
		case "d":
			if m.spec.CanDelete {
				if e, ok := m.selected(); ok {
					m.pendingDelete = e.ID()
					m.confirm = newConfirm(fmt.Sprintf("Delete this %s record?", m.spec.Name), false, m.dialogWidth())
					m.mode = modeConfirm
					return m, m.confirm.form.Init()
				}
			}
		default:
			// Digit keys sort by the matching sortable column; the
			// same digit again flips the direction.
			if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 {
				if col, ok := m.sortableColumn(n); ok {
					m.sort.Request(col.ID)
					m.resort()
				}
			}
		}
	}
	return m, nil
}

func (m ResourcePageModel) sortableColumn(n int) (api.Column, bool) {
	i := 0
	for _, col := range m.spec.Columns {
		if !col.Sortable {
			continue
		}
		i++
		if i == n {
			return col, true
		}
	}
	return api.Column{}, false
}

func (m ResourcePageModel) dialogWidth() int {
	w := m.width - ContentIndent*2
	if w < MinContentWidth {
		w = MinContentWidth
	}
	if w > PreviewMaxWidth {
		w = PreviewMaxWidth
	}
	return w
}

func (m ResourcePageModel) openDialog(existing api.Entity) (ResourcePageModel, tea.Cmd) {
	draft := form.NewDraft(m.spec, existing)
	m.dialog = newDialog(draft, m.dialogWidth())
	m.mode = modeDialog
	return m, m.dialog.form.Init()
}

func (m ResourcePageModel) updateDialog(msg tea.Msg) (ResourcePageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m.closeDialog(), nil
	}

	f, cmd := m.dialog.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.dialog.form = hf
	}

	switch m.dialog.form.State {
	case huh.StateAborted:
		return m.closeDialog(), nil

	case huh.StateCompleted:
		dialog := m.dialog
		if err := dialog.apply(); err != nil {
			m.mode = modeTable
			m.dialog = nil
			m.pendingDraft = dialog.draft
			resource := m.spec.Name
			return m, func() tea.Msg {
				return mutationDoneMsg{resource: resource, err: err}
			}
		}
		m.mode = modeTable
		m.dialog = nil
		m.pendingDraft = dialog.draft
		return m, m.mutateCmd(dialog.draft)
	}

	return m, cmd
}

func (m ResourcePageModel) closeDialog() ResourcePageModel {
	if m.dialog != nil {
		if err := m.dialog.draft.Discard(); err != nil {
			m.logger.Warn("failed to release draft previews", zap.Error(err))
		}
	}
	m.dialog = nil
	m.mode = modeTable
	return m
}

func (m ResourcePageModel) mutateCmd(draft *form.Draft) tea.Cmd {
	spec := m.spec
	store := m.store
	client := m.client
	payload := draft.Payload()
	id := draft.ID()
	isEdit := draft.IsEdit()
	return func() tea.Msg {
		err := store.Mutate(context.Background(), spec, func(ctx context.Context) error {
			if isEdit {
				_, err := client.Update(ctx, spec, id, payload)
				return err
			}
			_, err := client.Create(ctx, spec, payload)
			return err
		})
		message := "Record created"
		if isEdit {
			message = "Record updated"
		}
		return mutationDoneMsg{resource: spec.Name, message: message, err: err}
	}
}

func (m ResourcePageModel) updateConfirm(msg tea.Msg) (ResourcePageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.confirm = nil
		m.pendingDelete = ""
		m.mode = modeTable
		return m, nil
	}

	f, cmd := m.confirm.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.confirm.form = hf
	}

	switch m.confirm.form.State {
	case huh.StateAborted:
		m.confirm = nil
		m.pendingDelete = ""
		m.mode = modeTable
		return m, nil

	case huh.StateCompleted:
		confirmed := m.confirm.confirmed
		id := m.pendingDelete
		m.confirm = nil
		m.pendingDelete = ""
		m.mode = modeTable
		if !confirmed || id == "" {
			return m, nil
		}
		return m, m.deleteCmd(id)
	}

	return m, cmd
}

func (m ResourcePageModel) deleteCmd(id string) tea.Cmd {
	spec := m.spec
	store := m.store
	client := m.client
	return func() tea.Msg {
		err := store.Mutate(context.Background(), spec, func(ctx context.Context) error {
			return client.Delete(ctx, spec, id, nil)
		})
		return mutationDoneMsg{resource: spec.Name, message: "Record deleted", err: err}
	}
}

// View renders the page.
func (m ResourcePageModel) View() string {
	switch m.mode {
	case modeDialog:
		return m.styles.Content.Render(m.dialog.form.View())
	case modeConfirm:
		return m.styles.Content.Render(m.confirm.form.View())
	}

	if m.loading && len(m.rows) == 0 {
		return m.styles.Content.Render(m.styles.Muted.Render("Loading " + m.spec.Name + "..."))
	}
	if m.err != nil && len(m.rows) == 0 {
		return m.styles.Content.Render(m.styles.Error.Render("Failed to load: " + api.ServerMessage(m.err)))
	}

	table := m.buildTable()
	help := m.styles.Muted.Render(m.helpLine())
	body := table.View(m.styles)
	if m.filtering || m.filter != "" {
		body += "\n" + m.styles.Info.Render("/"+m.filter)
	}
	return m.styles.Content.Render(body + "\n" + help)
}

func (m ResourcePageModel) buildTable() *SimpleTable {
	headers := make([]string, 0, len(m.spec.Columns))
	ids := make([]string, 0, len(m.spec.Columns))
	for _, col := range m.spec.Columns {
		headers = append(headers, col.Label)
		ids = append(ids, col.ID)
	}

	table := NewSimpleTable(m.spec.Title, headers)
	table.ColumnIDs = ids
	table.Selected = m.cursor
	table.SortColumn = m.sort.OrderBy
	table.SortOrder = m.sort.Order
	for _, e := range m.rows {
		row := make([]string, 0, len(m.spec.Columns))
		for _, col := range m.spec.Columns {
			row = append(row, CellValue(e, col))
		}
		table.AddRow(row...)
	}
	return table
}

func (m ResourcePageModel) helpLine() string {
	line := " j/k: move • 1-9: sort • /: filter • r: refresh"
	if m.spec.CanCreate {
		line += " • n: new"
	}
	if m.spec.CanUpdate {
		line += " • enter: edit"
	}
	if m.spec.CanDelete {
		line += " • d: delete"
	}
	return line
}

// CellValue renders one table cell.
func CellValue(e api.Entity, col api.Column) string {
	switch col.Kind {
	case api.KindNumber:
		return strconv.FormatFloat(e.Num(col.ID), 'f', -1, 64)
	case api.KindBool:
		if e.Bool(col.ID) {
			return "✓"
		}
		return "✗"
	default:
		return truncate(e.Str(col.ID), 32)
	}
}

func truncate(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l-1]) + "…"
	}
	return s
}
