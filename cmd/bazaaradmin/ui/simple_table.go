package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bazaaradmin/internal/tablesort"
)

// SimpleTable is a simple table component for rendering resource rows.
// The Selected index highlights one row; SortColumn/SortOrder render the
// direction indicator in the matching header.
type SimpleTable struct {
	Title      string
	Headers    []string
	ColumnIDs  []string
	Rows       [][]string
	Selected   int
	SortColumn string
	SortOrder  tablesort.Order
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:    title,
		Headers:  headers,
		Rows:     make([][]string, 0),
		Selected: -1,
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

func (t *SimpleTable) headerLabel(i int) string {
	label := t.Headers[i]
	if t.SortColumn == "" || i >= len(t.ColumnIDs) || t.ColumnIDs[i] != t.SortColumn {
		return label
	}
	if t.SortOrder == tablesort.Desc {
		return label + " ▼"
	}
	return label + " ▲"
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return styles.Muted.Render("No records.")
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	// Column widths from headers (with indicator) and cells
	colWidths := make([]int, len(t.Headers))
	for i := range t.Headers {
		colWidths[i] = lipgloss.Width(t.headerLabel(i))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.TableHeader
	rowStyle := styles.TableRow
	selectedStyle := styles.TableSelected
	sepStyle := styles.Muted

	for i := range t.Headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(t.headerLabel(i)))
		if i < len(t.Headers)-1 {
			sb.WriteString(sepStyle.Render("|"))
		}
	}
	sb.WriteString("\n")

	totalWidth := 0
	for _, w := range colWidths {
		totalWidth += w
	}
	totalWidth += len(t.Headers) - 1
	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for r, row := range t.Rows {
		cellStyle := rowStyle
		if r == t.Selected {
			cellStyle = selectedStyle
		}
		for i, cell := range row {
			if i < len(colWidths) {
				sb.WriteString(cellStyle.Width(colWidths[i]).Render(cell))
				if i < len(row)-1 {
					sb.WriteString(sepStyle.Render("|"))
				}
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
