package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	profiledto "prapp/internal/modules/profile/dto"
	"prapp/internal/ui/theme"
)

type sessionItem struct {
	record profiledto.SessionRecord
}

func (i sessionItem) Title() string {
	if i.record.Subtype != "" {
		return i.record.Type + " / " + i.record.Subtype
	}
	return i.record.Type
}

func (i sessionItem) Description() string {
	desc := i.record.Date.Format("2006-01-02 15:04") + "  " + i.record.Status
	if i.record.Score != nil {
		desc += fmt.Sprintf("  %d", *i.record.Score)
	}
	return desc
}

func (i sessionItem) FilterValue() string { return i.record.ID + " " + i.record.Type }

// Model lists recorded sessions, newest first, beside the latest feedback.
type Model struct {
	list         list.Model
	preview      viewport.Model
	improvements []string
	width        int
	height       int
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Background(theme.Mantle).Foreground(theme.Text).Padding(1)

	return Model{list: l, preview: vp}
}

// SetProfile replaces the listed sessions.
func (m *Model) SetProfile(p profiledto.ProfileOutput) tea.Cmd {
	items := make([]list.Item, len(p.Sessions))
	for i, s := range p.Sessions {
		items[i] = sessionItem{record: s}
	}
	m.improvements = p.Improvements
	cmd := m.list.SetItems(items)
	m.preview.SetContent(m.renderDetail())
	return cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.resize()
	}

	prevIdx := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prevIdx {
		m.preview.SetContent(m.renderDetail())
	}

	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 1)).
		Height(max(m.height-2, 1)).
		Render(m.preview.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Filtering reports whether the list's search filter is open.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	m.list.SetSize(listW, m.height)
	m.preview.Width = max(m.width-listW-4, 1)
	m.preview.Height = max(m.height-4, 1)
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(sessionItem)
	if !ok {
		return theme.Muted.Render("No sessions yet. Complete one to see it here.")
	}
	r := item.record
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(item.Title()) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:     ") + r.ID + "\n")
	sb.WriteString(theme.Muted.Render("date:   ") + r.Date.Format("2006-01-02 15:04") + "\n")
	sb.WriteString(theme.Muted.Render("status: ") + r.Status + "\n")
	if r.Score != nil {
		sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("score:  "), *r.Score))
	}
	if r.Focus != "" {
		sb.WriteString(theme.Muted.Render("focus:  ") + r.Focus + "\n")
	}
	if len(m.improvements) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Improvements") + "\n")
		for _, item := range m.improvements {
			sb.WriteString("• " + item + "\n")
		}
	}
	return sb.String()
}
