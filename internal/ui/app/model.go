package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	profiledto "prapp/internal/modules/profile/dto"
	sessiondto "prapp/internal/modules/session/dto"
	"prapp/internal/platform/id"
	"prapp/internal/ui/components"
	"prapp/internal/ui/theme"
	historyview "prapp/internal/ui/views/history"
	profileview "prapp/internal/ui/views/profile"
	sessionview "prapp/internal/ui/views/session"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type profilePort interface {
	profileview.Port
	Subscribe(fn func(profiledto.ProfileOutput)) func()
	Set(ctx context.Context, field, value string) (profiledto.ProfileOutput, error)
	ClearFocus(ctx context.Context) (profiledto.ProfileOutput, error)
	Reset(ctx context.Context) profiledto.ProfileOutput
	ImportCV(ctx context.Context, path string) (profiledto.ProfileOutput, error)
	ImportContext(ctx context.Context, path string) (profiledto.ProfileOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabProfile tabID = iota
	tabSession
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{"Profile", "Session", "History"}

// ─── async messages ───────────────────────────────────────────────────────────

// profileChangedMsg is a store notification; seed marks the initial load,
// which does not re-arm the watch.
type profileChangedMsg struct {
	profile profiledto.ProfileOutput
	seed    bool
}

type profileActionMsg struct {
	label   string
	profile profiledto.ProfileOutput
	err     error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab        key.Binding
	Help       key.Binding
	Palette    key.Binding
	Quit       key.Binding
	NewSession key.Binding
	Reply      key.Binding
	End        key.Binding
	Leave      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		NewSession: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new session")),
		Reply:      key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "reply")),
		End:        key.NewBinding(key.WithKeys("e", "ctrl+e"), key.WithHelp("e", "end session")),
		Leave:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.NewSession},
		{k.Reply, k.End, k.Leave},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It routes between the profile, session
// and history screens and keeps them in sync with profile changes.
type Model struct {
	profile profilePort
	ids     id.Generator
	changes chan struct{}
	unsub   func()
	initCmd tea.Cmd

	profView profileview.Model
	sessView sessionview.Model
	histView historyview.Model

	activeTab tabID
	prevTab   tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(profile profilePort, session sessionview.Port, ids id.Generator) Model {
	// One pending signal covers any burst; the waiter reloads the latest state.
	changes := make(chan struct{}, 1)
	unsub := profile.Subscribe(func(profiledto.ProfileOutput) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	return Model{
		profile:   profile,
		ids:       ids,
		changes:   changes,
		unsub:     unsub,
		profView:  profileview.New(profile),
		sessView:  sessionview.New(session),
		histView:  historyview.New(),
		activeTab: tabProfile,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

// WithSession opens the model straight onto a session run.
func (m Model) WithSession(sessionID string) Model {
	if sessionID == "" {
		sessionID = m.ids.New()
	}
	m.initCmd = m.startSession(sessionID)
	m.prevTab = tabProfile
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.profView.Init(), m.seedHistoryCmd(), m.waitForProfileCmd(), m.initCmd)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case profileChangedMsg:
		cmds = append(cmds, m.histView.SetProfile(msg.profile))
		if !msg.seed {
			cmds = append(cmds, m.profView.Reload(), m.waitForProfileCmd())
		}
		if !msg.profile.Durable {
			m.status = "profile not saved: " + msg.profile.DurabilityError
		}
		return m, tea.Batch(cmds...)

	case profileActionMsg:
		if msg.err != nil {
			m.status = msg.label + ": " + msg.err.Error()
		} else {
			m.status = msg.label
			if !msg.profile.Durable {
				m.status += " (not saved)"
			}
		}
		return m, nil

	case profileview.LoadedMsg:
		var cmd tea.Cmd
		m.profView, cmd = m.profView.Update(msg)
		return m, cmd

	case sessionview.NavigateMsg:
		m.sessView.Leave()
		switch msg.Target {
		case sessiondto.TargetProfile:
			m.activeTab = tabProfile
			if !msg.Completed {
				m.status = "session closed"
			}
		default:
			m.activeTab = m.prevTab
		}
		return m, m.profView.Reload()

	case sessionview.CompletedMsg:
		if msg.Err == nil {
			m.status = completedStatus(msg.Out)
		}
		var cmd tea.Cmd
		m.sessView, cmd = m.sessView.Update(msg)
		return m, cmd

	case sessionview.OpenedMsg, sessionview.StateMsg, sessionview.ExitedMsg:
		var cmd tea.Cmd
		m.sessView, cmd = m.sessView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.yieldKeys() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.shutdown()
			return m, tea.Quit
		case "tab":
			return m, m.switchTab((m.activeTab + 1) % tabCount)
		case "shift+tab":
			return m, m.switchTab((m.activeTab + tabCount - 1) % tabCount)
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "n":
			if m.activeTab != tabSession || !m.sessView.Mounted() {
				return m, m.startSession(m.ids.New())
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabProfile:
		m.profView, tabCmd = m.profView.Update(msg)
	case tabSession:
		m.sessView, tabCmd = m.sessView.Update(msg)
	case tabHistory:
		m.histView, tabCmd = m.histView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabProfile:
		return m.profView.View()
	case tabSession:
		return m.sessView.View()
	case tabHistory:
		return m.histView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "prapp  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.sessView.Mounted() {
		left = theme.Hot.Render("● session") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  n:new  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	rest := func(n int) string {
		out := strings.TrimSpace(input)
		for i := 0; i < n; i++ {
			out = strings.TrimSpace(strings.TrimPrefix(out, parts[i]))
		}
		return out
	}

	switch parts[0] {
	case "session:new":
		return m, m.startSession(m.ids.New())

	case "session:open":
		if len(parts) < 2 {
			m.status = "usage: session:open <id>"
			return m, nil
		}
		return m, m.startSession(parts[1])

	case "session:end":
		if !m.sessView.Mounted() {
			m.status = "no session running"
			return m, nil
		}
		return m, m.sessView.Complete()

	case "session:exit":
		return m, m.sessView.Exit()

	case "profile:set":
		if len(parts) < 3 {
			m.status = "usage: profile:set <field> <value>"
			return m, nil
		}
		field, value := parts[1], rest(2)
		return m, m.profileAction("set "+field, func(ctx context.Context) (profiledto.ProfileOutput, error) {
			return m.profile.Set(ctx, field, value)
		})

	case "profile:clear-focus":
		return m, m.profileAction("training focus cleared", m.profile.ClearFocus)

	case "profile:import-cv":
		if len(parts) < 2 {
			m.status = "usage: profile:import-cv <path>"
			return m, nil
		}
		path := rest(1)
		return m, m.profileAction("cv imported", func(ctx context.Context) (profiledto.ProfileOutput, error) {
			return m.profile.ImportCV(ctx, path)
		})

	case "profile:import-context":
		if len(parts) < 2 {
			m.status = "usage: profile:import-context <path>"
			return m, nil
		}
		path := rest(1)
		return m, m.profileAction("brief imported", func(ctx context.Context) (profiledto.ProfileOutput, error) {
			return m.profile.ImportContext(ctx, path)
		})

	case "profile:reset":
		return m, m.profileAction("profile reset", func(ctx context.Context) (profiledto.ProfileOutput, error) {
			return m.profile.Reset(ctx), nil
		})

	case "history":
		return m, m.switchTab(tabHistory)

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// yieldKeys reports whether the focused screen needs raw key input.
func (m Model) yieldKeys() bool {
	switch m.activeTab {
	case tabSession:
		return m.sessView.Typing()
	case tabHistory:
		return m.histView.Filtering()
	}
	return false
}

// switchTab unmounts a running session when its screen is left.
func (m *Model) switchTab(next tabID) tea.Cmd {
	if next == m.activeTab {
		return nil
	}
	if m.activeTab == tabSession && m.sessView.Mounted() {
		m.sessView.Leave()
		m.status = "session left"
	}
	m.prevTab = m.activeTab
	m.activeTab = next
	return nil
}

func (m *Model) startSession(sessionID string) tea.Cmd {
	if m.activeTab != tabSession {
		m.prevTab = m.activeTab
	}
	m.activeTab = tabSession
	m.status = "session " + sessionID
	return m.sessView.Start(sessionID)
}

func (m *Model) shutdown() {
	m.sessView.Leave()
	if m.unsub != nil {
		m.unsub()
	}
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.profView, _ = m.profView.Update(sz)
	m.sessView, _ = m.sessView.Update(sz)
	m.histView, _ = m.histView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) waitForProfileCmd() tea.Cmd {
	changes, profile := m.changes, m.profile
	return func() tea.Msg {
		<-changes
		return profileChangedMsg{profile: profile.Load(context.Background())}
	}
}

func completedStatus(out sessiondto.CompleteOutput) string {
	status := "session completed"
	if out.Session.Score != nil {
		status += fmt.Sprintf(", score %d", *out.Session.Score)
	}
	if !out.Durable {
		status += " (not saved)"
	}
	return status
}

func (m Model) seedHistoryCmd() tea.Cmd {
	return func() tea.Msg {
		return profileChangedMsg{profile: m.profile.Load(context.Background()), seed: true}
	}
}

func (m Model) profileAction(label string, fn func(ctx context.Context) (profiledto.ProfileOutput, error)) tea.Cmd {
	return func() tea.Msg {
		p, err := fn(context.Background())
		return profileActionMsg{label: label, profile: p, err: err}
	}
}
