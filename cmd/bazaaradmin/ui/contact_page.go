package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/query"
)

// contactStatuses are the states a contact message moves through.
var contactStatuses = []string{"new", "read", "replied"}

// ContactPageModel lists contact messages. Enter opens the full
// message in a detail pane; from there a reply with a status change
// can be sent back.
type ContactPageModel struct {
	page ResourcePageModel

	viewing  bool
	viewport viewport.Model
	detail   api.Entity
	seq      int

	replying bool
	replyID  string
	form     *huh.Form
}

// NewContactPageModel creates the contact messages page.
func NewContactPageModel(client *api.Client, store *query.Store, styles Styles, logger *zap.Logger) ContactPageModel {
	spec, _ := api.Lookup("contact")
	return ContactPageModel{
		page:     NewResourcePageModel(spec, client, store, styles, logger),
		viewport: viewport.New(80, 20),
	}
}

// Init starts the first fetch.
func (m ContactPageModel) Init() tea.Cmd {
	return m.page.Init()
}

// SetSize updates the size.
func (m *ContactPageModel) SetSize(w, h int) {
	m.page.SetSize(w, h)
	m.viewport.Width = w - ContentIndent*2
	m.viewport.Height = TableContentHeight(h)
}

func (m ContactPageModel) detailCmd(id string) tea.Cmd {
	client := m.page.client
	seq := m.seq
	return func() tea.Msg {
		entity, err := client.GetContact(context.Background(), id)
		return detailResultMsg{resource: "contact", seq: seq, entity: entity, err: err}
	}
}

// Update handles messages. Data results go to the embedded page even
// while the reply form is open.
func (m ContactPageModel) Update(msg tea.Msg) (ContactPageModel, tea.Cmd) {
	switch msg.(type) {
	case fetchResultMsg, mutationDoneMsg:
		var cmd tea.Cmd
		m.page, cmd = m.page.Update(msg)
		return m, cmd
	}

	if m.replying {
		return m.updateReply(msg)
	}

	switch msg := msg.(type) {
	case detailResultMsg:
		if msg.resource != "contact" || msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.viewing = false
			return m, func() tea.Msg {
				return mutationDoneMsg{resource: "contact", err: msg.err}
			}
		}
		m.detail = msg.entity
		m.viewport.SetContent(m.renderDetail(msg.entity))
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if m.viewing {
			switch msg.String() {
			case "esc", "q":
				m.viewing = false
				m.detail = nil
				return m, nil
			case "m":
				if m.detail != nil {
					return m.openReply(m.detail)
				}
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if msg.String() == "enter" && m.page.mode == modeTable {
			if e, ok := m.page.selected(); ok {
				m.viewing = true
				m.detail = nil
				m.seq++
				m.viewport.SetContent("Loading message...")
				return m, m.detailCmd(e.ID())
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	return m, cmd
}

func (m ContactPageModel) renderDetail(e api.Entity) string {
	styles := m.page.styles
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(e.Str("subject")))
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render(fmt.Sprintf("%s <%s> • %s", e.Str("name"), e.Str("email"), e.Str("status"))))
	sb.WriteString("\n\n")
	sb.WriteString(styles.Body.Render(e.Str("message")))
	if reply := e.Str("replyMessage"); reply != "" {
		sb.WriteString("\n\n")
		sb.WriteString(styles.Subtitle.Render("Reply"))
		sb.WriteString("\n")
		sb.WriteString(styles.Body.Render(reply))
	}
	return sb.String()
}

func (m ContactPageModel) openReply(e api.Entity) (ContactPageModel, tea.Cmd) {
	m.replying = true
	m.replyID = e.ID()
	status := e.Str("status")
	if status == "" {
		status = contactStatuses[0]
	}
	reply := ""
	opts := make([]huh.Option[string], 0, len(contactStatuses))
	for _, s := range contactStatuses {
		opts = append(opts, huh.NewOption(s, s))
	}
	m.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Key("status").
			Title("Status").
			Options(opts...).
			Value(&status),
		huh.NewText().
			Key("reply").
			Title("Reply message").
			Value(&reply),
	)).WithShowHelp(false).WithWidth(m.page.dialogWidth())
	return m, m.form.Init()
}

func (m ContactPageModel) updateReply(msg tea.Msg) (ContactPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.replying = false
		m.form = nil
		return m, nil
	}

	f, cmd := m.form.Update(msg)
	if hf, ok := f.(*huh.Form); ok {
		m.form = hf
	}

	switch m.form.State {
	case huh.StateAborted:
		m.replying = false
		m.form = nil
		return m, nil

	case huh.StateCompleted:
		status := m.form.GetString("status")
		reply := strings.TrimSpace(m.form.GetString("reply"))
		id := m.replyID
		m.replying = false
		m.form = nil
		m.viewing = false
		return m, m.replyCmd(id, status, reply)
	}

	return m, cmd
}

func (m ContactPageModel) replyCmd(id, status, reply string) tea.Cmd {
	spec := m.page.spec
	store := m.page.store
	client := m.page.client
	return func() tea.Msg {
		err := store.Mutate(context.Background(), spec, func(ctx context.Context) error {
			_, err := client.UpdateContactStatus(ctx, id, status, reply)
			return err
		})
		return mutationDoneMsg{resource: spec.Name, message: "Message updated", err: err}
	}
}

// View renders the page.
func (m ContactPageModel) View() string {
	styles := m.page.styles
	if m.replying {
		return styles.Content.Render(m.form.View())
	}
	if m.viewing {
		help := styles.Muted.Render(" m: reply • esc: back")
		return styles.Content.Render(m.viewport.View() + "\n" + help)
	}
	view := m.page.View()
	if m.page.mode == modeTable {
		view += styles.Muted.Render(" • enter: open message")
	}
	return view
}
