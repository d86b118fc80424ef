package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphma/pkg/formats"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// CatalogListModel is the bubbletea model for picking one catalog entry.
// Files without records are shown but cannot be selected.
type CatalogListModel struct {
	Root     string
	Entries  []formats.Descriptor
	Cursor   int
	Selected *formats.Descriptor
	Height   int
	Offset   int
}

// NewCatalogListModel creates a picker over entries found under root.
func NewCatalogListModel(root string, entries []formats.Descriptor) CatalogListModel {
	return CatalogListModel{Root: root, Entries: entries, Height: 15}
}

func (m CatalogListModel) Init() tea.Cmd {
	return nil
}

func (m CatalogListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Entries) == 0 {
				return m, tea.Quit
			}
			d := m.Entries[m.Cursor]
			if d.Entries == 0 {
				return m, nil
			}
			m.Selected = &d
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m CatalogListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, catalogRow(m.Root, m.Entries[i])...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, catalogHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			empty := m.Entries[idx].Entries == 0
			switch {
			case idx == m.Cursor && empty:
				return lipgloss.NewStyle().Foreground(colorDim).Bold(true)
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case empty:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.Entries)), len(m.Entries))))

	return b.String()
}

var catalogHeaders = []string{"File", "Format", "Entries", "Shape", "Directed"}

// catalogRow renders one descriptor for the catalog table and the picker.
func catalogRow(root string, d formats.Descriptor) []string {
	name := d.Path
	if rel, err := filepath.Rel(root, d.Path); err == nil && !strings.HasPrefix(rel, "..") {
		name = rel
	}
	shape := "—"
	if d.Rows > 0 || d.Cols > 0 {
		shape = fmt.Sprintf("%d×%d", d.Rows, d.Cols)
	}
	directed := "no"
	if d.Directed {
		directed = "yes"
	}
	return []string{name, d.Format.String(), strconv.FormatUint(d.Entries, 10), shape, directed}
}

// pickEntry runs the interactive picker and returns the chosen entry,
// or nil if the user quit without choosing.
func pickEntry(root string, entries []formats.Descriptor) (*formats.Descriptor, error) {
	final, err := tea.NewProgram(NewCatalogListModel(root, entries)).Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}
	return final.(CatalogListModel).Selected, nil
}
