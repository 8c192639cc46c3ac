package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/query"
)

// BlogsPageModel is the blog posts screen. Besides the usual CRUD it
// renders the selected post's markdown body in a preview pane.
type BlogsPageModel struct {
	page ResourcePageModel

	previewing bool
	viewport   viewport.Model
}

// NewBlogsPageModel creates the blog posts page.
func NewBlogsPageModel(client *api.Client, store *query.Store, styles Styles, logger *zap.Logger) BlogsPageModel {
	spec, _ := api.Lookup("blogs")
	return BlogsPageModel{
		page:     NewResourcePageModel(spec, client, store, styles, logger),
		viewport: viewport.New(80, 20),
	}
}

// Init starts the first fetch.
func (m BlogsPageModel) Init() tea.Cmd {
	return m.page.Init()
}

// SetSize updates the size.
func (m *BlogsPageModel) SetSize(w, h int) {
	m.page.SetSize(w, h)
	m.viewport.Width = w - ContentIndent*2
	m.viewport.Height = TableContentHeight(h)
}

func (m BlogsPageModel) renderMarkdown(e api.Entity) string {
	width := m.viewport.Width
	if width <= 0 || width > PreviewMaxWidth {
		width = PreviewMaxWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return e.Str("content")
	}
	out, err := renderer.Render("# " + e.Str("title") + "\n\n" + e.Str("content"))
	if err != nil {
		m.page.logger.Warn("markdown render failed", zap.Error(err))
		return e.Str("content")
	}
	return out
}

// Update handles messages.
func (m BlogsPageModel) Update(msg tea.Msg) (BlogsPageModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if m.previewing {
			switch key.String() {
			case "esc", "q", "v":
				m.previewing = false
				return m, nil
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if key.String() == "v" && m.page.mode == modeTable {
			if e, ok := m.page.selected(); ok {
				m.previewing = true
				m.viewport.SetContent(m.renderMarkdown(e))
				m.viewport.GotoTop()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.page, cmd = m.page.Update(msg)
	return m, cmd
}

// View renders the page.
func (m BlogsPageModel) View() string {
	styles := m.page.styles
	if m.previewing {
		help := styles.Muted.Render(" esc: back")
		return styles.Content.Render(m.viewport.View() + "\n" + help)
	}
	view := m.page.View()
	if m.page.mode == modeTable {
		view += styles.Muted.Render(" • v: preview")
	}
	return view
}
