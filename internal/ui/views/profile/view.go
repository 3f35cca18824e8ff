package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	profiledto "prapp/internal/modules/profile/dto"
	"prapp/internal/platform/markdown"
	"prapp/internal/ui/theme"
)

// Port is the slice of the profile usecase this view reads from.
type Port interface {
	Load(ctx context.Context) profiledto.ProfileOutput
	Export(ctx context.Context) (string, error)
}

// LoadedMsg carries a fresh profile and its rendered brief.
type LoadedMsg struct {
	Profile profiledto.ProfileOutput
	Brief   string
	Err     error
}

// Model shows the persisted profile: preparation fields in a header and the
// agenda, improvements and session history rendered as markdown.
type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	profile  profiledto.ProfileOutput
	brief    string
	err      error
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	return Model{
		port:     port,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		renderer: r,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.viewport.SetContent(m.renderContent())

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.profile = msg.Profile
			m.brief = msg.Brief
		}
		m.viewport.SetContent(m.renderContent())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.viewport, vCmd = m.viewport.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := m.renderHeader()
	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, max(m.height-lipgloss.Height(header), 1), lipgloss.Center, lipgloss.Center,
				m.spinner.View()+" Loading profile…"))
	}
	footer := theme.Muted.Render(fmt.Sprintf("%.0f%%", m.viewport.ScrollPercent()*100))
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
}

// Reload re-reads the profile; the returned Cmd produces a LoadedMsg.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		p := m.port.Load(ctx)
		brief, err := m.port.Export(ctx)
		return LoadedMsg{Profile: p, Brief: brief, Err: err}
	}
}

// Profile returns the last profile the view rendered.
func (m Model) Profile() profiledto.ProfileOutput { return m.profile }

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-4, 1)
	if r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(m.width),
	); err == nil {
		m.renderer = r
	}
}

func (m Model) renderHeader() string {
	p := m.profile
	title := theme.Title.Render("Profile")
	if p.PreparationType == "" {
		return title + "\n"
	}
	kind := p.PreparationType
	if p.MeetingSubtype != "" {
		kind += " / " + p.MeetingSubtype
	}
	parts := []string{
		title,
		theme.Muted.Render("[" + kind + "]"),
		theme.Muted.Render("tone: " + p.Tone),
		theme.Muted.Render(p.ActivationState),
	}
	if !p.Durable {
		parts = append(parts, theme.Hot.Render("not saved"))
	}
	line := strings.Join(parts, "  ")
	if p.TrainingFocus != nil && p.TrainingFocus.Title != "" {
		line += "\n" + theme.Muted.Render("focus: "+p.TrainingFocus.Title)
		if len(p.TrainingFocus.Tags) > 0 {
			line += theme.Muted.Render("  #" + strings.Join(p.TrainingFocus.Tags, " #"))
		}
	}
	return line + "\n"
}

func (m Model) renderContent() string {
	if m.err != nil {
		return theme.Hot.Render("Error: " + m.err.Error())
	}
	if m.brief == "" {
		return theme.Muted.Render("(no profile yet)")
	}
	var meta map[string]any
	body, err := markdown.Split(m.brief, &meta)
	if err != nil {
		body = m.brief
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			return rendered
		}
	}
	return body
}
